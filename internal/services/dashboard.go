package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

// DocumentSummary is one document row on the athlete dashboard, with the
// display-only expiry class attached.
type DocumentSummary struct {
	ID               uint       `json:"id"`
	DocumentType     string     `json:"document_type"`
	ValidationStatus string     `json:"validation_status"`
	ExpiryDate       *time.Time `json:"expiry_date,omitempty"`
	ExpiryClass      string     `json:"expiry_class,omitempty"` // expired | expiring | valid | ""
	RejectionReason  string     `json:"rejection_reason,omitempty"`
}

// AthleteDashboard is everything the athlete-facing view needs, derived in
// one consistent read. Nothing here is persisted: payment validity and
// compliance are recomputed from source records on every call.
type AthleteDashboard struct {
	Athlete          models.Athlete           `json:"athlete"`
	Compliance       ComplianceResult         `json:"compliance"`
	Subscription     SubscriptionStatus       `json:"subscription"`
	Attendance       AttendanceStats          `json:"attendance"`
	AttendancePct    int                      `json:"attendance_pct"`
	Documents        []DocumentSummary        `json:"documents"`
	UpcomingSessions []models.TrainingSession `json:"upcoming_sessions"`
}

// BuildAthleteDashboard assembles the athlete dashboard for one athlete.
// now is injected so the evaluators stay deterministic under test.
func BuildAthleteDashboard(athleteID uint, now time.Time) (*AthleteDashboard, error) {
	var athlete models.Athlete
	if err := db.Conn().First(&athlete, athleteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: athlete %d", ErrNotFound, athleteID)
		}
		return nil, err
	}

	var docs []models.Document
	if err := db.Conn().Where("athlete_id = ?", athleteID).
		Order("created_at DESC").
		Find(&docs).Error; err != nil {
		return nil, err
	}

	var payments []models.Payment
	if err := db.Conn().Where("athlete_id = ?", athleteID).Find(&payments).Error; err != nil {
		return nil, err
	}

	var records []models.AttendanceRecord
	if err := db.Conn().Where("athlete_id = ?", athleteID).Find(&records).Error; err != nil {
		return nil, err
	}

	var upcoming []models.TrainingSession
	if err := db.Conn().Where("session_date >= ?", now).
		Order("session_date asc").Limit(5).
		Find(&upcoming).Error; err != nil {
		return nil, err
	}

	summaries := make([]DocumentSummary, 0, len(docs))
	for _, d := range docs {
		summaries = append(summaries, DocumentSummary{
			ID:               d.ID,
			DocumentType:     d.DocumentType,
			ValidationStatus: d.ValidationStatus,
			ExpiryDate:       d.ExpiryDate,
			ExpiryClass:      ClassifyExpiry(d.ExpiryDate, now),
			RejectionReason:  d.RejectionReason,
		})
	}

	stats := AggregateAttendance(records)
	return &AthleteDashboard{
		Athlete:          athlete,
		Compliance:       EvaluateCompliance(docs),
		Subscription:     EvaluateSubscription(payments, now),
		Attendance:       stats,
		AttendancePct:    stats.Percent(),
		Documents:        summaries,
		UpcomingSessions: upcoming,
	}, nil
}

// AthleteStats is the membership breakdown on the admin dashboard.
type AthleteStats struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}

// RecentPayment is a payment row joined with the athlete's name.
type RecentPayment struct {
	ID            uint      `json:"id"`
	AthleteID     uint      `json:"athlete_id"`
	AthleteName   string    `json:"athlete_name"`
	Amount        float64   `json:"amount"`
	MonthsCovered int       `json:"months_covered"`
	StartDate     time.Time `json:"start_date"`
	EndDate       time.Time `json:"end_date"`
}

// AdminDashboard aggregates the club-wide numbers the admin landing page
// shows. Unpaid and expiring counts are recomputed from source records, never
// read from a cached flag.
type AdminDashboard struct {
	Athletes          AthleteStats    `json:"athletes"`
	PendingDocuments  int64           `json:"pending_documents"`
	ExpiringDocuments int64           `json:"expiring_documents"`
	UnpaidAthletes    int64           `json:"unpaid_athletes"`
	RecentPayments    []RecentPayment `json:"recent_payments"`
}

// BuildAdminDashboard assembles the admin dashboard in a handful of
// aggregation queries instead of loading whole tables.
func BuildAdminDashboard(now time.Time) (*AdminDashboard, error) {
	out := &AdminDashboard{}

	// One GROUP BY for the membership breakdown instead of a COUNT per status.
	type statusAgg struct {
		MembershipStatus string
		N                int64
	}
	var aggs []statusAgg
	if err := db.Conn().Model(&models.Athlete{}).
		Select("membership_status, COUNT(*) as n").
		Group("membership_status").
		Scan(&aggs).Error; err != nil {
		return nil, err
	}
	for _, a := range aggs {
		out.Athletes.Total += a.N
		switch a.MembershipStatus {
		case models.MembershipPending:
			out.Athletes.Pending = a.N
		case models.MembershipApproved:
			out.Athletes.Approved = a.N
		case models.MembershipRejected:
			out.Athletes.Rejected = a.N
		}
	}

	if err := db.Conn().Model(&models.Document{}).
		Where("validation_status = ?", models.DocPending).
		Count(&out.PendingDocuments).Error; err != nil {
		return nil, err
	}

	windowEnd := now.AddDate(0, 0, ExpiryWindowDays)
	if err := db.Conn().Model(&models.Document{}).
		Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?", now, windowEnd).
		Count(&out.ExpiringDocuments).Error; err != nil {
		return nil, err
	}

	// Approved athletes with no payment still covering `now`.
	if err := db.Conn().Raw(`
		SELECT COUNT(*) FROM athletes a
		WHERE a.membership_status = ?
		  AND NOT EXISTS (
			SELECT 1 FROM payments p
			WHERE p.athlete_id = a.id AND p.end_date >= ?
		  )`, models.MembershipApproved, now).
		Scan(&out.UnpaidAthletes).Error; err != nil {
		return nil, err
	}

	if err := db.Conn().Table("payments p").
		Select(`p.id, p.athlete_id, p.amount, p.months_covered, p.start_date, p.end_date,
			a.first_name || ' ' || a.last_name AS athlete_name`).
		Joins("JOIN athletes a ON a.id = p.athlete_id").
		Order("p.created_at DESC").
		Limit(5).
		Scan(&out.RecentPayments).Error; err != nil {
		return nil, err
	}

	return out, nil
}
