package handlers

import (
	"net/http"
	"time"

	"github.com/sandaclub/hub/internal/services"
)

// MyDashboard returns the athlete's composite view: compliance score,
// subscription state, attendance, documents and upcoming sessions.
func MyDashboard(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	dash, err := services.BuildAthleteDashboard(*user.AthleteID, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// AdminAthleteDashboard returns the same composite view for any athlete.
func AdminAthleteDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad athlete id")
		return
	}
	dash, err := services.BuildAthleteDashboard(id, time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}

// AdminOverview returns club-wide counters for the admin landing page.
func AdminOverview(w http.ResponseWriter, r *http.Request) {
	dash, err := services.BuildAdminDashboard(time.Now())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, dash)
}
