package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

// MemberQR serves the membership-card QR for an approved athlete's member
// code. Scanning it opens the member verification page.
func MemberQR(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		http.NotFound(w, r)
		return
	}

	var athlete models.Athlete
	if err := db.Conn().Where("member_code = ? AND membership_status = ?",
		code, models.MembershipApproved).First(&athlete).Error; err != nil {
		http.NotFound(w, r)
		return
	}

	// Encode a URL so scanning opens verification directly
	url := "http://" + r.Host + "/verify?code=" + code

	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		http.Error(w, "failed to generate qr", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(png)
}

// VerifyMember answers a scanned card: who the member is and whether their
// subscription is still running.
func VerifyMember(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}
	var athlete models.Athlete
	if err := db.Conn().Preload("Payments").
		Where("member_code = ? AND membership_status = ?", code, models.MembershipApproved).
		First(&athlete).Error; err != nil {
		writeError(w, http.StatusNotFound, "unknown member code")
		return
	}
	sub := services.EvaluateSubscription(athlete.Payments, time.Now())
	writeJSON(w, http.StatusOK, map[string]any{
		"first_name":   athlete.FirstName,
		"last_name":    athlete.LastName,
		"member_code":  athlete.MemberCode,
		"belt_level":   athlete.BeltLevel,
		"subscription": sub,
	})
}
