package services

import (
	"reflect"
	"testing"

	"github.com/sandaclub/hub/internal/models"
)

func TestEvaluateCompliance_PartialSet(t *testing.T) {
	// Approved medical cert counts; rejected photo does not.
	docs := []models.Document{
		{DocumentType: "medical_certificate", ValidationStatus: "approved"},
		{DocumentType: "photo", ValidationStatus: "rejected"},
	}

	res := EvaluateCompliance(docs)

	wantMissing := []string{"insurance", "id_card", "photo", "parental_consent"}
	if !reflect.DeepEqual(res.Missing, wantMissing) {
		t.Errorf("Missing: want %v, got %v", wantMissing, res.Missing)
	}
	// 1 of 5 satisfied -> round(100*1/5) = 20
	if res.Score != 20 {
		t.Errorf("Score: want 20, got %d", res.Score)
	}
	if res.Complete() {
		t.Error("Complete() should be false with missing items")
	}
}

func TestEvaluateCompliance_PendingSatisfies(t *testing.T) {
	// A pending document already counts toward the checklist; only rejection
	// forces a resubmit.
	docs := []models.Document{
		{DocumentType: "medical_certificate", ValidationStatus: "pending"},
		{DocumentType: "insurance", ValidationStatus: "pending"},
		{DocumentType: "id_card", ValidationStatus: "approved"},
		{DocumentType: "photo", ValidationStatus: "approved"},
		{DocumentType: "parental_consent", ValidationStatus: "pending"},
	}

	res := EvaluateCompliance(docs)
	if res.Score != 100 {
		t.Errorf("Score: want 100, got %d", res.Score)
	}
	if len(res.Missing) != 0 {
		t.Errorf("Missing: want empty, got %v", res.Missing)
	}
	if !res.Complete() {
		t.Error("Complete() should be true when nothing is missing")
	}
}

func TestEvaluateCompliance_LegacyAlias(t *testing.T) {
	// identity_card rows satisfy the id_card slot.
	docs := []models.Document{
		{DocumentType: "identity_card", ValidationStatus: "approved"},
	}

	res := EvaluateCompliance(docs)
	for _, m := range res.Missing {
		if m == "id_card" {
			t.Error("id_card reported missing despite identity_card document")
		}
	}
}

func TestEvaluateCompliance_RejectedOnlyDoesNotSatisfy(t *testing.T) {
	docs := []models.Document{
		{DocumentType: "insurance", ValidationStatus: "rejected"},
		{DocumentType: "insurance", ValidationStatus: "rejected"},
	}

	res := EvaluateCompliance(docs)
	found := false
	for _, m := range res.Missing {
		if m == "insurance" {
			found = true
		}
	}
	if !found {
		t.Error("insurance should stay missing when all submissions are rejected")
	}
}

func TestEvaluateCompliance_ScoreHundredIffNoMissing(t *testing.T) {
	// Score and Missing must agree: 100 exactly when nothing is missing.
	var docs []models.Document
	for _, typ := range RequiredDocumentTypes() {
		res := EvaluateCompliance(docs)
		if (res.Score == 100) != (len(res.Missing) == 0) {
			t.Errorf("score/missing disagree: score=%d missing=%v", res.Score, res.Missing)
		}
		docs = append(docs, models.Document{DocumentType: typ, ValidationStatus: "approved"})
	}
	res := EvaluateCompliance(docs)
	if res.Score != 100 || len(res.Missing) != 0 {
		t.Errorf("full set: want 100/empty, got %d/%v", res.Score, res.Missing)
	}
}

func TestEvaluateComplianceAgainst_ThreeItemChecklist(t *testing.T) {
	docs := []models.Document{
		{DocumentType: "medical_certificate", ValidationStatus: "approved"},
		{DocumentType: "photo", ValidationStatus: "rejected"},
	}
	required := []string{"medical_certificate", "insurance", "photo"}

	res := EvaluateComplianceAgainst(docs, required)

	wantMissing := []string{"insurance", "photo"}
	if !reflect.DeepEqual(res.Missing, wantMissing) {
		t.Errorf("Missing: want %v, got %v", wantMissing, res.Missing)
	}
	// round(100*1/3) = 33
	if res.Score != 33 {
		t.Errorf("Score: want 33, got %d", res.Score)
	}
}

func TestEvaluateComplianceAgainst_EmptyChecklist(t *testing.T) {
	res := EvaluateComplianceAgainst(nil, nil)
	if res.Score != 0 {
		t.Errorf("empty checklist score: want 0, got %d", res.Score)
	}
	if len(res.Missing) != 0 {
		t.Errorf("empty checklist missing: want empty, got %v", res.Missing)
	}
}

func TestEvaluateCompliance_UnknownTypesIgnored(t *testing.T) {
	docs := []models.Document{
		{DocumentType: "other", ValidationStatus: "approved"},
		{DocumentType: "license", ValidationStatus: "approved"},
	}
	res := EvaluateCompliance(docs)
	if got, want := len(res.Missing), len(RequiredDocumentTypes()); got != want {
		t.Errorf("non-checklist types must not satisfy requirements: missing=%d want %d", got, want)
	}
	if res.Score != 0 {
		t.Errorf("Score: want 0, got %d", res.Score)
	}
}
