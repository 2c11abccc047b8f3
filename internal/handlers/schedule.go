package handlers

import (
	"net/http"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

type slotRequest struct {
	Title           string `json:"title"`
	DayOfWeek       string `json:"day_of_week"`
	StartTime       string `json:"start_time"` // HH:MM
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location,omitempty"`
	Level           string `json:"level,omitempty"`
	CoachName       string `json:"coach_name,omitempty"`
}

// checkSlot validates the request and reports whether it collides with an
// existing slot. excludeID skips the slot being edited.
func checkSlot(req slotRequest, excludeID uint) (bool, string, bool) {
	if req.Title == "" || req.DayOfWeek == "" {
		return false, "title and day_of_week required", false
	}
	var existing []models.ScheduleSlot
	if err := db.Conn().Find(&existing).Error; err != nil {
		return false, "storage error", false
	}
	conflict, err := services.SlotConflicts(req.DayOfWeek, req.StartTime, req.DurationMinutes, existing, excludeID)
	if err != nil {
		return false, err.Error(), false
	}
	return conflict, "", true
}

// CreateScheduleSlot adds a weekly slot. Overlapping an existing slot on the
// same day is rejected; back-to-back slots are fine.
func CreateScheduleSlot(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	conflict, msg, ok := checkSlot(req, 0)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if conflict {
		writeError(w, http.StatusConflict, "slot overlaps an existing slot")
		return
	}
	slot := models.ScheduleSlot{
		Title:           req.Title,
		DayOfWeek:       req.DayOfWeek,
		StartTime:       req.StartTime,
		DurationMinutes: req.DurationMinutes,
		Location:        req.Location,
		Level:           req.Level,
		CoachName:       req.CoachName,
	}
	if err := db.Conn().Create(&slot).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, slot)
}

// UpdateScheduleSlot edits a slot; the slot's own interval never conflicts
// with itself.
func UpdateScheduleSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad slot id")
		return
	}
	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	var slot models.ScheduleSlot
	if err := db.Conn().First(&slot, id).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	conflict, msg, valid := checkSlot(req, slot.ID)
	if !valid {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	if conflict {
		writeError(w, http.StatusConflict, "slot overlaps an existing slot")
		return
	}
	slot.Title = req.Title
	slot.DayOfWeek = req.DayOfWeek
	slot.StartTime = req.StartTime
	slot.DurationMinutes = req.DurationMinutes
	slot.Location = req.Location
	slot.Level = req.Level
	slot.CoachName = req.CoachName
	if err := db.Conn().Save(&slot).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slot)
}

// DeleteScheduleSlot removes a weekly slot.
func DeleteScheduleSlot(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad slot id")
		return
	}
	res := db.Conn().Delete(&models.ScheduleSlot{}, id)
	if res.Error != nil {
		writeServiceError(w, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		writeError(w, http.StatusNotFound, "slot not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListScheduleSlots returns the weekly grid.
func ListScheduleSlots(w http.ResponseWriter, r *http.Request) {
	var slots []models.ScheduleSlot
	if err := db.Conn().Order("day_of_week, start_time").Find(&slots).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, slots)
}

// CheckScheduleConflict answers a dry-run conflict probe without writing
// anything. A detected overlap is a normal answer, not an error.
func CheckScheduleConflict(w http.ResponseWriter, r *http.Request) {
	var req slotRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.Title == "" {
		req.Title = "probe"
	}
	conflict, msg, ok := checkSlot(req, 0)
	if !ok {
		writeError(w, http.StatusBadRequest, msg)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"conflict": conflict})
}
