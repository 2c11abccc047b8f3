package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

// seedDocumentSet creates two athletes with three documents: an approved
// medical certificate, a pending insurance policy and a tagged pending id
// card belonging to the second athlete.
func seedDocumentSet(t *testing.T) models.DocumentTag {
	t.Helper()
	for i, email := range []string{"one@example.com", "two@example.com"} {
		if err := db.Conn().Create(&models.Athlete{
			FirstName: "Athlete", LastName: fmt.Sprintf("N%d", i+1), Email: email,
			MembershipStatus: models.MembershipApproved,
		}).Error; err != nil {
			t.Fatal(err)
		}
	}
	tag := models.DocumentTag{Name: "renewal"}
	if err := db.Conn().Create(&tag).Error; err != nil {
		t.Fatal(err)
	}
	docs := []models.Document{
		{
			AthleteID: 1, DocumentType: "medical_certificate",
			FileName: "cert_2024.pdf", Notes: "annual checkup",
			ValidationStatus: models.DocApproved,
		},
		{
			AthleteID: 1, DocumentType: "insurance",
			FileName:         "policy.pdf",
			ValidationStatus: models.DocPending,
		},
		{
			// stored under the legacy spelling
			AthleteID: 2, DocumentType: "identity_card",
			FileName:         "id_scan.png",
			ValidationStatus: models.DocPending,
			Tags:             []models.DocumentTag{tag},
		},
	}
	for i := range docs {
		if err := db.Conn().Create(&docs[i]).Error; err != nil {
			t.Fatal(err)
		}
	}
	return tag
}

func searchDocs(t *testing.T, r http.Handler, admin *http.Cookie, query string) []models.Document {
	t.Helper()
	rec := doJSON(t, r, http.MethodGet, "/api/admin/documents?"+query, nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("search %q: expected 200, got %d: %s", query, rec.Code, rec.Body)
	}
	var docs []models.Document
	if err := json.Unmarshal(rec.Body.Bytes(), &docs); err != nil {
		t.Fatal(err)
	}
	return docs
}

func TestSearchDocumentsFilters(t *testing.T) {
	setupTestDB(t)
	r := testRouter()
	admin := seedAdmin(t)
	tag := seedDocumentSet(t)

	if got := searchDocs(t, r, admin, ""); len(got) != 3 {
		t.Errorf("no filter: got %d documents, want 3", len(got))
	}
	if got := searchDocs(t, r, admin, "document_type=medical_certificate"); len(got) != 1 || got[0].FileName != "cert_2024.pdf" {
		t.Errorf("type filter: got %+v", got)
	}
	// Both spellings find rows stored under the legacy alias.
	if got := searchDocs(t, r, admin, "document_type=id_card"); len(got) != 1 || got[0].FileName != "id_scan.png" {
		t.Errorf("canonical type filter: got %+v", got)
	}
	if got := searchDocs(t, r, admin, "document_type=identity_card"); len(got) != 1 || got[0].FileName != "id_scan.png" {
		t.Errorf("alias type filter: got %+v", got)
	}
	if got := searchDocs(t, r, admin, "status=pending"); len(got) != 2 {
		t.Errorf("status filter: got %d documents, want 2", len(got))
	}
	if got := searchDocs(t, r, admin, "athlete_id=2"); len(got) != 1 || got[0].AthleteID != 2 {
		t.Errorf("athlete filter: got %+v", got)
	}
	if got := searchDocs(t, r, admin, "search=policy"); len(got) != 1 || got[0].FileName != "policy.pdf" {
		t.Errorf("text filter on file name: got %+v", got)
	}
	if got := searchDocs(t, r, admin, "search=checkup"); len(got) != 1 || got[0].FileName != "cert_2024.pdf" {
		t.Errorf("text filter on notes: got %+v", got)
	}
	if got := searchDocs(t, r, admin, fmt.Sprintf("tag_ids=%d", tag.ID)); len(got) != 1 || got[0].FileName != "id_scan.png" {
		t.Errorf("tag filter: got %+v", got)
	}
	if got := searchDocs(t, r, admin, "sort=name_asc&limit=1"); len(got) != 1 || got[0].FileName != "cert_2024.pdf" {
		t.Errorf("sort+limit: got %+v", got)
	}
	// Filters combine with AND.
	if got := searchDocs(t, r, admin, "status=pending&athlete_id=1"); len(got) != 1 || got[0].FileName != "policy.pdf" {
		t.Errorf("combined filters: got %+v", got)
	}

	rec := doJSON(t, r, http.MethodGet, "/api/admin/documents?sort=sideways", nil, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown sort: expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/admin/documents?athlete_id=abc", nil, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad athlete_id: expected 400, got %d", rec.Code)
	}
}

func TestDeleteDocumentCleansDependents(t *testing.T) {
	setupTestDB(t)
	r := testRouter()
	admin := seedAdmin(t)
	seedDocumentSet(t)

	// Attach a version and a share to the tagged document (id 3).
	if err := db.Conn().Create(&models.DocumentVersion{
		DocumentID: 3, VersionNumber: 1, FileName: "id_scan.png",
	}).Error; err != nil {
		t.Fatal(err)
	}
	if err := db.Conn().Create(&models.DocumentShare{
		DocumentID: 3, GranteeEmail: "doctor@example.com",
		PermissionLevel: models.ShareView, SharedBy: 1,
	}).Error; err != nil {
		t.Fatal(err)
	}

	rec := doJSON(t, r, http.MethodDelete, "/api/admin/documents/3", nil, admin)
	if rec.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d: %s", rec.Code, rec.Body)
	}

	counts := map[string]int64{}
	for _, table := range []string{"document_versions", "document_shares", "document_tag_relations"} {
		var n int64
		db.Conn().Table(table).Where("document_id = ?", 3).Count(&n)
		counts[table] = n
	}
	for table, n := range counts {
		if n != 0 {
			t.Errorf("%s still has %d rows for the deleted document", table, n)
		}
	}

	rec = doJSON(t, r, http.MethodDelete, "/api/admin/documents/3", nil, admin)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rec.Code)
	}
}

func TestSharesForGrantee(t *testing.T) {
	setupTestDB(t)
	r := testRouter()
	admin := seedAdmin(t)
	seedDocumentSet(t)

	rec := doJSON(t, r, http.MethodPost, "/api/admin/documents/1/shares", map[string]any{
		"grantee_email":    "Doctor@Example.com",
		"permission_level": "download",
	}, admin)
	if rec.Code != http.StatusCreated {
		t.Fatalf("share: expected 201, got %d: %s", rec.Code, rec.Body)
	}

	rec = doJSON(t, r, http.MethodGet, "/api/admin/shares?grantee=doctor@example.com", nil, admin)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body)
	}
	var shares []models.DocumentShare
	if err := json.Unmarshal(rec.Body.Bytes(), &shares); err != nil {
		t.Fatal(err)
	}
	if len(shares) != 1 {
		t.Fatalf("got %d shares, want 1", len(shares))
	}
	if shares[0].Document == nil || shares[0].Document.FileName != "cert_2024.pdf" {
		t.Errorf("share document not attached: %+v", shares[0])
	}

	rec = doJSON(t, r, http.MethodGet, "/api/admin/shares?grantee=not-an-email", nil, admin)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad grantee: expected 400, got %d", rec.Code)
	}
	rec = doJSON(t, r, http.MethodGet, "/api/admin/shares?grantee=nobody@example.com", nil, admin)
	if rec.Code != http.StatusOK {
		t.Errorf("unknown grantee: expected 200 with empty list, got %d", rec.Code)
	}
}

func TestRegisterDuplicateEmailConflicts(t *testing.T) {
	setupTestDB(t)
	r := testRouter()

	body := map[string]any{
		"first_name": "Dana",
		"last_name":  "Cruz",
		"email":      "dana@example.com",
		"password":   "longenough1",
	}
	if rec := doJSON(t, r, http.MethodPost, "/api/register", body, nil); rec.Code != http.StatusCreated {
		t.Fatalf("first register: expected 201, got %d: %s", rec.Code, rec.Body)
	}
	if rec := doJSON(t, r, http.MethodPost, "/api/register", body, nil); rec.Code != http.StatusConflict {
		t.Fatalf("second register: expected 409, got %d: %s", rec.Code, rec.Body)
	}
}
