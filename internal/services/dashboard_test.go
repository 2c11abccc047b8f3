package services

import (
	"testing"
	"time"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

func TestBuildAthleteDashboard(t *testing.T) {
	setupTestDB(t)
	now := date(2024, 4, 15)

	athlete := models.Athlete{FirstName: "Karim", LastName: "Ziani", Email: "karim@example.com", MembershipStatus: "approved"}
	if err := db.Conn().Create(&athlete).Error; err != nil {
		t.Fatalf("seed: %v", err)
	}

	docs := []models.Document{
		{AthleteID: athlete.ID, DocumentType: "medical_certificate", ValidationStatus: "approved"},
		{AthleteID: athlete.ID, DocumentType: "identity_card", ValidationStatus: "pending"},
		{AthleteID: athlete.ID, DocumentType: "photo", ValidationStatus: "rejected"},
	}
	for i := range docs {
		if err := db.Conn().Create(&docs[i]).Error; err != nil {
			t.Fatalf("seed doc: %v", err)
		}
	}

	payments := []models.Payment{
		{AthleteID: athlete.ID, MonthsCovered: 1, StartDate: date(2024, 1, 1), EndDate: date(2024, 2, 1)},
		{AthleteID: athlete.ID, MonthsCovered: 3, StartDate: date(2024, 3, 1), EndDate: date(2024, 6, 1)},
	}
	for i := range payments {
		if err := db.Conn().Create(&payments[i]).Error; err != nil {
			t.Fatalf("seed payment: %v", err)
		}
	}

	sessions := []models.TrainingSession{
		{Title: "Past", SessionDate: date(2024, 4, 1)},
		{Title: "Next", SessionDate: date(2024, 4, 20)},
	}
	for i := range sessions {
		if err := db.Conn().Create(&sessions[i]).Error; err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}
	att := []models.AttendanceRecord{
		{TrainingSessionID: sessions[0].ID, AthleteID: athlete.ID, Attended: true},
	}
	for i := range att {
		if err := db.Conn().Create(&att[i]).Error; err != nil {
			t.Fatalf("seed attendance: %v", err)
		}
	}

	dash, err := BuildAthleteDashboard(athlete.ID, now)
	if err != nil {
		t.Fatalf("BuildAthleteDashboard: %v", err)
	}

	// medical cert (approved) + identity_card alias (pending) satisfy 2 of 5.
	if dash.Compliance.Score != 40 {
		t.Errorf("compliance score: want 40, got %d", dash.Compliance.Score)
	}
	for _, m := range dash.Compliance.Missing {
		if m == "id_card" || m == "medical_certificate" {
			t.Errorf("%s wrongly reported missing", m)
		}
	}

	if dash.Subscription.Status != "active" || dash.Subscription.DaysLeft != 47 {
		t.Errorf("subscription: want active/47, got %s/%d", dash.Subscription.Status, dash.Subscription.DaysLeft)
	}

	if dash.Attendance.Attended != 1 || dash.Attendance.Total != 1 {
		t.Errorf("attendance: want 1/1, got %d/%d", dash.Attendance.Attended, dash.Attendance.Total)
	}
	if dash.AttendancePct != 100 {
		t.Errorf("attendance pct: want 100, got %d", dash.AttendancePct)
	}

	if len(dash.UpcomingSessions) != 1 || dash.UpcomingSessions[0].Title != "Next" {
		t.Errorf("upcoming: want [Next], got %v", dash.UpcomingSessions)
	}
	if len(dash.Documents) != 3 {
		t.Errorf("documents: want 3 summaries, got %d", len(dash.Documents))
	}
}

func TestBuildAthleteDashboard_NotFound(t *testing.T) {
	setupTestDB(t)
	if _, err := BuildAthleteDashboard(12345, time.Now()); err == nil {
		t.Fatal("expected error for unknown athlete")
	}
}

func TestBuildAdminDashboard(t *testing.T) {
	setupTestDB(t)
	now := date(2024, 4, 15)

	athletes := []models.Athlete{
		{FirstName: "A", LastName: "One", Email: "a1@example.com", MembershipStatus: "approved"},
		{FirstName: "B", LastName: "Two", Email: "b2@example.com", MembershipStatus: "approved"},
		{FirstName: "C", LastName: "Three", Email: "c3@example.com", MembershipStatus: "pending"},
		{FirstName: "D", LastName: "Four", Email: "d4@example.com", MembershipStatus: "rejected"},
	}
	for i := range athletes {
		if err := db.Conn().Create(&athletes[i]).Error; err != nil {
			t.Fatalf("seed athlete: %v", err)
		}
	}

	// Only the first approved athlete is paid up at `now`.
	paid := models.Payment{AthleteID: athletes[0].ID, MonthsCovered: 3, StartDate: date(2024, 3, 1), EndDate: date(2024, 6, 1)}
	if err := db.Conn().Create(&paid).Error; err != nil {
		t.Fatalf("seed payment: %v", err)
	}

	expSoon := date(2024, 5, 1)
	docs := []models.Document{
		{AthleteID: athletes[0].ID, DocumentType: "insurance", ValidationStatus: "pending"},
		{AthleteID: athletes[1].ID, DocumentType: "medical_certificate", ValidationStatus: "approved", ExpiryDate: &expSoon},
	}
	for i := range docs {
		if err := db.Conn().Create(&docs[i]).Error; err != nil {
			t.Fatalf("seed doc: %v", err)
		}
	}

	dash, err := BuildAdminDashboard(now)
	if err != nil {
		t.Fatalf("BuildAdminDashboard: %v", err)
	}

	if dash.Athletes.Total != 4 || dash.Athletes.Approved != 2 || dash.Athletes.Pending != 1 || dash.Athletes.Rejected != 1 {
		t.Errorf("athlete stats: got %+v", dash.Athletes)
	}
	if dash.PendingDocuments != 1 {
		t.Errorf("pending documents: want 1, got %d", dash.PendingDocuments)
	}
	if dash.ExpiringDocuments != 1 {
		t.Errorf("expiring documents: want 1, got %d", dash.ExpiringDocuments)
	}
	if dash.UnpaidAthletes != 1 {
		t.Errorf("unpaid athletes: want 1, got %d", dash.UnpaidAthletes)
	}
	if len(dash.RecentPayments) != 1 || dash.RecentPayments[0].AthleteName != "A One" {
		t.Errorf("recent payments: got %+v", dash.RecentPayments)
	}
}
