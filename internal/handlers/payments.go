package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

// AdminRecordPayment stores a manually recorded payment. The end date is
// derived server-side from start + months.
func AdminRecordPayment(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in services.PaymentInput
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		uid := currentUser(r).ID
		payment, err := services.RecordPayment(in, &uid)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		logger.Info("payment recorded",
			zap.Uint("athlete_id", payment.AthleteID),
			zap.Int("months", payment.MonthsCovered))
		writeJSON(w, http.StatusCreated, payment)
	}
}

// AdminUpdatePayment corrects an existing record.
func AdminUpdatePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad payment id")
		return
	}
	var in services.PaymentInput
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	uid := currentUser(r).ID
	payment, err := services.UpdatePayment(id, in, &uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payment)
}

// AdminDeletePayment removes a record entered by mistake.
func AdminDeletePayment(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad payment id")
		return
	}
	if err := services.DeletePayment(id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AdminRecentPayments lists the latest records with athlete names attached.
func AdminRecentPayments(w http.ResponseWriter, r *http.Request) {
	var rows []services.RecentPayment
	if err := db.Conn().Table("payments p").
		Select(`p.id, p.athlete_id, p.amount, p.months_covered, p.start_date, p.end_date,
			a.first_name || ' ' || a.last_name AS athlete_name`).
		Joins("JOIN athletes a ON a.id = p.athlete_id").
		Order("p.created_at DESC").
		Limit(50).
		Scan(&rows).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// AthletePayments lists one athlete's history (admin view).
func AthletePayments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad athlete id")
		return
	}
	listPayments(w, id)
}

// MyPayments lists the calling athlete's history.
func MyPayments(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	listPayments(w, *user.AthleteID)
}

func listPayments(w http.ResponseWriter, athleteID uint) {
	var payments []models.Payment
	if err := db.Conn().Where("athlete_id = ?", athleteID).
		Order("start_date desc").
		Find(&payments).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, payments)
}
