package services

import (
	"math"
	"time"

	"github.com/sandaclub/hub/internal/models"
)

// Subscription status values
const (
	SubscriptionActive  = "active"
	SubscriptionExpired = "expired"
)

// SubscriptionStatus is the derived state of an athlete's subscription.
// DaysLeft is negative once the subscription has lapsed.
type SubscriptionStatus struct {
	Status     string     `json:"status"` // active | expired
	ExpiryDate *time.Time `json:"expiry_date"`
	DaysLeft   int        `json:"days_left"`
}

// EvaluateSubscription derives the subscription state from the full payment
// history. The winning payment is the one with the maximal EndDate — payments
// are often back-filled out of order, so the whole set is scanned rather than
// trusting insertion order. An empty history means expired with no expiry date.
func EvaluateSubscription(payments []models.Payment, now time.Time) SubscriptionStatus {
	if len(payments) == 0 {
		return SubscriptionStatus{Status: SubscriptionExpired, ExpiryDate: nil, DaysLeft: 0}
	}

	latest := payments[0]
	for _, p := range payments[1:] {
		if p.EndDate.After(latest.EndDate) {
			latest = p
		}
	}

	expiry := latest.EndDate
	daysLeft := int(math.Ceil(expiry.Sub(now).Hours() / 24))

	status := SubscriptionExpired
	if daysLeft >= 0 {
		status = SubscriptionActive
	}
	return SubscriptionStatus{Status: status, ExpiryDate: &expiry, DaysLeft: daysLeft}
}

// DerivePaymentEnd computes the end date a payment must be stored with.
// months must be >= 1.
func DerivePaymentEnd(start time.Time, months int) time.Time {
	return start.AddDate(0, months, 0)
}
