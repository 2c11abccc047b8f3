package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/events"
	"github.com/sandaclub/hub/internal/models"
	"github.com/sandaclub/hub/internal/services"
)

type createDocumentRequest struct {
	AthleteID    uint   `json:"athlete_id"`
	DocumentType string `json:"document_type"`
	FileName     string `json:"file_name"`
	FileURL      string `json:"file_url"`
	Notes        string `json:"notes,omitempty"`
	ExpiryDate   string `json:"expiry_date,omitempty"` // YYYY-MM-DD
	CategoryID   *uint  `json:"category_id,omitempty"`
	TagIDs       []uint `json:"tag_ids,omitempty"`
}

// CreateDocument records the metadata of an uploaded file. The file itself
// lives in external storage; the handler only sees its name and URL. New
// documents always start pending.
func CreateDocument(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req createDocumentRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}

		// Athletes may only file documents on their own record.
		user := currentUser(r)
		if user.Role == models.RoleAthlete {
			if user.AthleteID == nil || *user.AthleteID != req.AthleteID {
				writeError(w, http.StatusForbidden, "athletes can only upload their own documents")
				return
			}
		}

		if !services.KnownDocumentType(req.DocumentType) {
			writeError(w, http.StatusBadRequest, "unknown document type "+req.DocumentType)
			return
		}
		if req.FileName == "" {
			writeError(w, http.StatusBadRequest, "file_name required")
			return
		}

		var expiry *time.Time
		if req.ExpiryDate != "" {
			d, err := time.Parse("2006-01-02", req.ExpiryDate)
			if err != nil {
				writeError(w, http.StatusBadRequest, "expiry_date is not YYYY-MM-DD")
				return
			}
			expiry = &d
		}

		var athlete models.Athlete
		if err := db.Conn().First(&athlete, req.AthleteID).Error; err != nil {
			writeServiceError(w, err)
			return
		}

		doc := models.Document{
			AthleteID:        req.AthleteID,
			DocumentType:     req.DocumentType,
			FileName:         req.FileName,
			FileURL:          req.FileURL,
			ValidationStatus: models.DocPending,
			ExpiryDate:       expiry,
			Notes:            req.Notes,
			CategoryID:       req.CategoryID,
		}
		if len(req.TagIDs) > 0 {
			var tags []models.DocumentTag
			if err := db.Conn().Find(&tags, req.TagIDs).Error; err != nil {
				writeServiceError(w, err)
				return
			}
			doc.Tags = tags
		}
		if err := db.Conn().Create(&doc).Error; err != nil {
			writeServiceError(w, err)
			return
		}

		logger.Info("document uploaded",
			zap.Uint("athlete_id", req.AthleteID),
			zap.String("type", req.DocumentType))
		writeJSON(w, http.StatusCreated, doc)
	}
}

// AthleteDocuments lists one athlete's documents (admin view).
func AthleteDocuments(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad athlete id")
		return
	}
	listDocuments(w, id)
}

// MyDocuments lists the calling athlete's documents.
func MyDocuments(w http.ResponseWriter, r *http.Request) {
	user := currentUser(r)
	if user.AthleteID == nil {
		writeError(w, http.StatusNotFound, "no athlete record for this account")
		return
	}
	listDocuments(w, *user.AthleteID)
}

func listDocuments(w http.ResponseWriter, athleteID uint) {
	var docs []models.Document
	if err := db.Conn().
		Preload("Category").Preload("Tags").Preload("Versions").
		Where("athlete_id = ?", athleteID).
		Order("created_at desc").
		Find(&docs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// searchSorts maps the ?sort= values onto ORDER BY clauses. Expiry sorts
// push documents without an expiry date to the end.
var searchSorts = map[string]string{
	"name_asc":    "file_name asc",
	"name_desc":   "file_name desc",
	"date_asc":    "created_at asc",
	"date_desc":   "created_at desc",
	"expiry_asc":  "expiry_date IS NULL, expiry_date asc",
	"expiry_desc": "expiry_date IS NULL, expiry_date desc",
}

// SearchDocuments filters the whole document store for the admin browser.
// All query params are optional and combine with AND: athlete_id,
// document_type, category_id, status, search (matches file name or notes),
// tag_ids (comma-separated, matches ANY), sort, limit.
func SearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := db.Conn().Model(&models.Document{}).Preload("Category").Preload("Tags")

	params := r.URL.Query()
	if raw := params.Get("athlete_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "athlete_id must be numeric")
			return
		}
		q = q.Where("documents.athlete_id = ?", uint(id))
	}
	if docType := params.Get("document_type"); docType != "" {
		q = q.Where("documents.document_type IN ?", services.TypeVariants(docType))
	}
	if raw := params.Get("category_id"); raw != "" && raw != "all" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			writeError(w, http.StatusBadRequest, "category_id must be numeric")
			return
		}
		q = q.Where("documents.category_id = ?", uint(id))
	}
	if status := params.Get("status"); status != "" && status != "all" {
		q = q.Where("documents.validation_status = ?", status)
	}
	if text := params.Get("search"); text != "" {
		like := "%" + text + "%"
		q = q.Where("(documents.file_name LIKE ? OR documents.notes LIKE ?)", like, like)
	}
	if raw := params.Get("tag_ids"); raw != "" {
		var tagIDs []uint
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.ParseUint(strings.TrimSpace(part), 10, 32)
			if err != nil {
				writeError(w, http.StatusBadRequest, "tag_ids must be comma-separated numbers")
				return
			}
			tagIDs = append(tagIDs, uint(id))
		}
		q = q.Joins("JOIN document_tag_relations dtr ON dtr.document_id = documents.id").
			Where("dtr.document_tag_id IN ?", tagIDs).
			Distinct("documents.*")
	}

	order := searchSorts["date_desc"]
	if sort := params.Get("sort"); sort != "" {
		mapped, ok := searchSorts[sort]
		if !ok {
			writeError(w, http.StatusBadRequest, "unknown sort "+sort)
			return
		}
		order = mapped
	}
	q = q.Order(order)

	if raw := params.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive number")
			return
		}
		q = q.Limit(n)
	}

	var docs []models.Document
	if err := q.Find(&docs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// PendingDocuments is the admin validation queue, oldest first.
func PendingDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []models.Document
	if err := db.Conn().
		Preload("Category").Preload("Tags").
		Where("validation_status = ?", models.DocPending).
		Order("created_at asc").
		Find(&docs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// ExpiringDocuments lists documents whose expiry falls inside the notice
// window; ExpiredDocuments lists those already past it.
func ExpiringDocuments(w http.ResponseWriter, r *http.Request) {
	now := time.Now()
	end := now.AddDate(0, 0, services.ExpiryWindowDays)
	var docs []models.Document
	if err := db.Conn().
		Where("expiry_date IS NOT NULL AND expiry_date >= ? AND expiry_date <= ?", now, end).
		Order("expiry_date asc").
		Find(&docs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

func ExpiredDocuments(w http.ResponseWriter, r *http.Request) {
	var docs []models.Document
	if err := db.Conn().
		Where("expiry_date IS NOT NULL AND expiry_date < ?", time.Now()).
		Order("expiry_date asc").
		Find(&docs).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, docs)
}

// ValidateDocument approves a pending document.
func ValidateDocument(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad document id")
			return
		}
		doc, err := services.ValidateDocument(id, currentUser(r).ID)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if events.OnDocumentValidated != nil {
			events.OnDocumentValidated(*doc)
		}
		logger.Info("document validated", zap.Uint("document_id", doc.ID))
		writeJSON(w, http.StatusOK, doc)
	}
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

// RejectDocument rejects a pending document with a reason for the athlete.
func RejectDocument(logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := idParam(r, "id")
		if !ok {
			writeError(w, http.StatusBadRequest, "bad document id")
			return
		}
		var req rejectRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "malformed body")
			return
		}
		doc, err := services.RejectDocument(id, currentUser(r).ID, req.Reason)
		if err != nil {
			writeServiceError(w, err)
			return
		}
		if events.OnDocumentRejected != nil {
			events.OnDocumentRejected(*doc, req.Reason)
		}
		logger.Info("document rejected", zap.Uint("document_id", doc.ID))
		writeJSON(w, http.StatusOK, doc)
	}
}

// DeleteDocument removes a document with its versions and shares.
func DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	// Dependents go first: the foreign keys pragma is on, so a parent delete
	// with live version/share rows would be refused.
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentVersion{}).Error; err != nil {
			return err
		}
		if err := tx.Where("document_id = ?", id).Delete(&models.DocumentShare{}).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM document_tag_relations WHERE document_id = ?", id).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Document{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type addVersionRequest struct {
	FileName string `json:"file_name"`
	FileURL  string `json:"file_url"`
	Notes    string `json:"notes,omitempty"`
}

// AddDocumentVersion appends a new immutable version. The parent's validation
// status is untouched; re-validation is a separate admin action.
func AddDocumentVersion(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	var req addVersionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if req.FileName == "" {
		writeError(w, http.StatusBadRequest, "file_name required")
		return
	}
	uid := currentUser(r).ID
	version, err := services.AddVersion(id, req.FileName, req.FileURL, req.Notes, &uid)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, version)
}

// DocumentVersions lists a document's versions, newest first.
func DocumentVersions(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	var versions []models.DocumentVersion
	if err := db.Conn().Where("document_id = ?", id).
		Order("version_number desc").
		Find(&versions).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, versions)
}

type shareRequest struct {
	GranteeEmail    string `json:"grantee_email"`
	PermissionLevel string `json:"permission_level"`
	Notes           string `json:"notes,omitempty"`
	ExpiresAt       string `json:"expires_at,omitempty"` // YYYY-MM-DD
}

// ShareDocument grants (or replaces) access for one grantee.
func ShareDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	var req shareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	var expires *time.Time
	if req.ExpiresAt != "" {
		d, err := time.Parse("2006-01-02", req.ExpiresAt)
		if err != nil {
			writeError(w, http.StatusBadRequest, "expires_at is not YYYY-MM-DD")
			return
		}
		expires = &d
	}
	share, err := services.ShareDocument(id, req.GranteeEmail, req.PermissionLevel, req.Notes, currentUser(r).ID, expires)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, share)
}

// DocumentShares lists the active grants on one document.
func DocumentShares(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	var shares []models.DocumentShare
	if err := db.Conn().Where("document_id = ?", id).
		Order("created_at desc").
		Find(&shares).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

type unshareRequest struct {
	GranteeEmail string `json:"grantee_email"`
}

// UnshareDocument revokes one grantee's access.
func UnshareDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad document id")
		return
	}
	var req unshareRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed body")
		return
	}
	if err := services.UnshareDocument(id, req.GranteeEmail); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SharesForGrantee lists every document shared with one grantee, the
// recipient-side view of the share feature.
func SharesForGrantee(w http.ResponseWriter, r *http.Request) {
	email, ok := services.NormEmail(r.URL.Query().Get("grantee"))
	if !ok || email == "" {
		writeError(w, http.StatusBadRequest, "valid grantee email required")
		return
	}
	var shares []models.DocumentShare
	if err := db.Conn().Preload("Document").
		Where("grantee_email = ?", email).
		Order("created_at desc").
		Find(&shares).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, shares)
}

// DocumentCategories and DocumentTags back the upload form pickers.
func DocumentCategories(w http.ResponseWriter, r *http.Request) {
	var cats []models.DocumentCategory
	if err := db.Conn().Order("name").Find(&cats).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, cats)
}

func DocumentTags(w http.ResponseWriter, r *http.Request) {
	var tags []models.DocumentTag
	if err := db.Conn().Order("name").Find(&tags).Error; err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
