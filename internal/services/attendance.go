package services

import (
	"math"

	"github.com/sandaclub/hub/internal/models"
)

// AttendanceStats summarizes an athlete's attendance history.
type AttendanceStats struct {
	Attended int `json:"attended"`
	Total    int `json:"total"`
}

// Percent is the attendance rate, 0 when no history exists.
func (s AttendanceStats) Percent() int {
	if s.Total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(s.Attended) / float64(s.Total)))
}

// AggregateAttendance counts attended vs recorded sessions. Pure; the
// dashboard renders the result.
func AggregateAttendance(records []models.AttendanceRecord) AttendanceStats {
	s := AttendanceStats{Total: len(records)}
	for _, r := range records {
		if r.Attended {
			s.Attended++
		}
	}
	return s
}
