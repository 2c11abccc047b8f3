package services

import (
	"testing"

	"github.com/sandaclub/hub/internal/models"
)

func TestAggregateAttendance(t *testing.T) {
	records := []models.AttendanceRecord{
		{Attended: true},
		{Attended: false},
		{Attended: true},
		{Attended: true},
	}

	s := AggregateAttendance(records)
	if s.Attended != 3 {
		t.Errorf("Attended: want 3, got %d", s.Attended)
	}
	if s.Total != 4 {
		t.Errorf("Total: want 4, got %d", s.Total)
	}
	if got := s.Percent(); got != 75 {
		t.Errorf("Percent: want 75, got %d", got)
	}
}

func TestAggregateAttendance_Empty(t *testing.T) {
	s := AggregateAttendance(nil)
	if s.Attended != 0 || s.Total != 0 {
		t.Errorf("empty history: want 0/0, got %d/%d", s.Attended, s.Total)
	}
	if got := s.Percent(); got != 0 {
		t.Errorf("Percent on empty history: want 0, got %d", got)
	}
}

func TestAttendanceStats_PercentRounds(t *testing.T) {
	// 1 of 3 -> round(33.33) = 33; 2 of 3 -> round(66.67) = 67.
	if got := (AttendanceStats{Attended: 1, Total: 3}).Percent(); got != 33 {
		t.Errorf("1/3: want 33, got %d", got)
	}
	if got := (AttendanceStats{Attended: 2, Total: 3}).Percent(); got != 67 {
		t.Errorf("2/3: want 67, got %d", got)
	}
}
