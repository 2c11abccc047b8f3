package handlers

import (
	"net/http"
	"time"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

type sessionRequest struct {
	Title           string `json:"title"`
	Description     string `json:"description,omitempty"`
	SessionDate     string `json:"session_date"` // YYYY-MM-DD HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location,omitempty"`
	MaxParticipants int    `json:"max_participants,omitempty"`
	Level           string `json:"level,omitempty"`
}

func (req sessionRequest) validate() (time.Time, string, bool) {
	if req.Title == "" {
		return time.Time{}, "title required", false
	}
	d, err := time.Parse("2006-01-02 15:04", req.SessionDate)
	if err != nil {
		return time.Time{}, "session_date is not YYYY-MM-DD HH:MM", false
	}
	if req.DurationMinutes <= 0 {
		return time.Time{}, "duration_minutes must be positive", false
	}
	return d, "", true
}

// CreateTrainingSession schedules a concrete dated session.
func CreateTrainingSession(w http.ResponseWriter, r *http.Request) {
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	date, msg, ok := req.validate()
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	user := currentUser(r)
	session := models.TrainingSession{
		Title:           req.Title,
		Description:     req.Description,
		SessionDate:     date,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		MaxParticipants: req.MaxParticipants,
		Level:           req.Level,
		CoachID:         &user.ID,
	}
	if err := db.Conn().Create(&session).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, session)
}

// UpdateTrainingSession edits a session in place.
func UpdateTrainingSession(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	var req sessionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	date, msg, valid := req.validate()
	if !valid {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	var session models.TrainingSession
	if err := db.Conn().First(&session, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	session.Title = req.Title
	session.Description = req.Description
	session.SessionDate = date
	session.DurationMinutes = req.DurationMinutes
	session.Location = req.Location
	session.MaxParticipants = req.MaxParticipants
	session.Level = req.Level
	if err := db.Conn().Save(&session).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

// DeleteTrainingSession removes a session and its attendance records.
func DeleteTrainingSession(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad session id")
		return
	}
	res := db.Conn().Delete(&models.TrainingSession{}, id)
	if res.Error != nil {
		writeServiceError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	db.Conn().Where("training_session_id = ?", id).Delete(&models.AttendanceRecord{})
	w.WriteHeader(http.StatusNoContent)
}

// ListTrainingSessions returns all sessions, newest first.
func ListTrainingSessions(w http.ResponseWriter, r *http.Request) {
	var sessions []models.TrainingSession
	if err := db.Conn().Order("session_date desc").Find(&sessions).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

// UpcomingTrainingSessions returns future sessions, soonest first.
func UpcomingTrainingSessions(w http.ResponseWriter, r *http.Request) {
	var sessions []models.TrainingSession
	if err := db.Conn().Where("session_date >= ?", time.Now()).
		Order("session_date asc").
		Find(&sessions).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sessions)
}

type historyRow struct {
	SessionID   uint      `json:"session_id"`
	Title       string    `json:"title"`
	SessionDate time.Time `json:"session_date"`
	Attended    bool      `json:"attended"`
	Notes       string    `json:"notes,omitempty"`
}

// MyTrainingHistory joins the athlete's attendance records with their
// sessions, newest first.
func MyTrainingHistory(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	var rows []historyRow
	if err := db.Conn().Table("attendance_records ar").
		Select(`ar.training_session_id AS session_id, ts.title, ts.session_date, ar.attended, ar.notes`).
		Joins("JOIN training_sessions ts ON ts.id = ar.training_session_id").
		Where("ar.athlete_id = ?", *user.AthleteID).
		Order("ts.session_date desc").
		Scan(&rows).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}
