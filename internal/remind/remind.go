package remind

import (
	"math"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/events"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

// StartLoop runs the expiry scanner in the background. Enabled with
// REMIND_ENABLE=1; interval comes from REMIND_INTERVAL (default 1h).
func StartLoop(logger *zap.Logger) {
	if os.Getenv("REMIND_ENABLE") != "1" {
		return
	}
	interval := parseInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for range ticker.C {
			Run(logger, time.Now())
		}
	}()
}

func parseInterval() time.Duration {
	raw := strings.TrimSpace(os.Getenv("REMIND_INTERVAL"))
	if raw == "" {
		return time.Hour
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

// Run does one scan: documents inside the expiry window and subscriptions
// about to lapse. Each hit fires events.OnReminder and a log line; sending
// anything to the athlete is the hook's business.
func Run(logger *zap.Logger, now time.Time) {
	remindDocuments(logger, now)
	remindSubscriptions(logger, now)
}

func remindDocuments(logger *zap.Logger, now time.Time) {
	cutoff := now.AddDate(0, 0, services.ExpiryWindowDays)
	var docs []models.Document
	if err := db.Conn().
		Where("expiry_date IS NOT NULL AND expiry_date <= ? AND validation_status <> ?",
			cutoff, models.DocRejected).
		Find(&docs).Error; err != nil {
		logger.Warn("reminder scan failed", zap.Error(err))
		return
	}
	for _, doc := range docs {
		class := services.ClassifyExpiry(doc.ExpiryDate, now)
		if class == services.ExpiryValid {
			continue
		}
		days := daysUntil(*doc.ExpiryDate, now)
		logger.Info("document expiry reminder",
			zap.Uint("athlete_id", doc.AthleteID),
			zap.String("document_type", doc.DocumentType),
			zap.Int("days_left", days))
		if events.OnReminder != nil {
			events.OnReminder("document", doc.AthleteID, days)
		}
	}
}

func remindSubscriptions(logger *zap.Logger, now time.Time) {
	var athletes []models.Athlete
	if err := db.Conn().Preload("Payments").
		Where("membership_status = ?", models.MembershipApproved).
		Find(&athletes).Error; err != nil {
		logger.Warn("reminder scan failed", zap.Error(err))
		return
	}
	for _, athlete := range athletes {
		sub := services.EvaluateSubscription(athlete.Payments, now)
		if sub.ExpiryDate == nil {
			continue
		}
		if sub.Status == services.SubscriptionActive && sub.DaysLeft > services.ExpiryWindowDays {
			continue
		}
		logger.Info("subscription reminder",
			zap.Uint("athlete_id", athlete.ID),
			zap.String("status", sub.Status),
			zap.Int("days_left", sub.DaysLeft))
		if events.OnReminder != nil {
			events.OnReminder("subscription", athlete.ID, sub.DaysLeft)
		}
	}
}

func daysUntil(expiry time.Time, now time.Time) int {
	return int(math.Ceil(expiry.Sub(now).Hours() / 24))
}
