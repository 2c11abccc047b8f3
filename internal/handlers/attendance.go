package handlers

import (
	"errors"
	"net/http"

	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

type attendanceRequest struct {
	AthleteID uint   `json:"athlete_id"`
	Attended  bool   `json:"attended"`
	Notes     string `json:"notes,omitempty"`
}

// MarkAttendance records whether an athlete attended a session. Marking the
// same pair again overwrites the earlier record instead of duplicating it.
func MarkAttendance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	var req attendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.AthleteID == 0 {
		writeError(w, http.StatusBadRequest, "athlete_id required")
		return
	}

	user := currentUser(r)
	var record models.AttendanceRecord
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&models.TrainingSession{}, sessionID).Error; err != nil {
			return err
		}
		if err := tx.First(&models.Athlete{}, req.AthleteID).Error; err != nil {
			return err
		}
		err := tx.Where("training_session_id = ? AND athlete_id = ?", sessionID, req.AthleteID).
			First(&record).Error
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		record.TrainingSessionID = sessionID
		record.AthleteID = req.AthleteID
		record.Attended = req.Attended
		record.Notes = req.Notes
		record.MarkedBy = &user.ID
		return tx.Save(&record).Error
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

type attendanceRow struct {
	AthleteID uint   `json:"athlete_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Attended  bool   `json:"attended"`
	Notes     string `json:"notes,omitempty"`
}

// SessionAttendance lists who was marked for a session.
func SessionAttendance(w http.ResponseWriter, r *http.Request) {
	sessionID, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	var rows []attendanceRow
	if err := db.Conn().Table("attendance_records ar").
		Select("ar.athlete_id, a.first_name, a.last_name, ar.attended, ar.notes").
		Joins("JOIN athletes a ON a.id = ar.athlete_id").
		Where("ar.training_session_id = ?", sessionID).
		Order("a.last_name, a.first_name").
		Scan(&rows).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
