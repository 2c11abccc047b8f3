package services

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/sandaclub/hub/internal/db"
	"github.com/sandaclub/hub/internal/models"
)

// ExpiryWindowDays: documents within this many days of their expiry date are
// flagged as "expiring" so admins can chase renewals.
const ExpiryWindowDays = 30

// Expiry classes for display
const (
	ExpiryExpired  = "expired"
	ExpiryExpiring = "expiring"
	ExpiryValid    = "valid"
)

// ClassifyExpiry buckets a document's expiry date relative to now. Documents
// with no expiry date are unclassified (empty string).
func ClassifyExpiry(expiry *time.Time, now time.Time) string {
	if expiry == nil {
		return ""
	}
	daysUntil := int(math.Ceil(expiry.Sub(now).Hours() / 24))
	switch {
	case daysUntil < 0:
		return ExpiryExpired
	case daysUntil <= ExpiryWindowDays:
		return ExpiryExpiring
	default:
		return ExpiryValid
	}
}

// PermissionAllows reports whether a share with the given level permits the
// wanted action. Levels are ordered: download implies view.
func PermissionAllows(level, want string) bool {
	switch want {
	case models.ShareView:
		return level == models.ShareView || level == models.ShareDownload
	case models.ShareDownload:
		return level == models.ShareDownload
	default:
		return false
	}
}

// ValidateDocument moves a pending document to approved. Approved and
// rejected are terminal; a resubmission is a new document row.
func ValidateDocument(id uint, adminID uint) (*models.Document, error) {
	var doc models.Document
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: document %d", ErrNotFound, id)
			}
			return err
		}
		if doc.ValidationStatus != models.DocPending {
			return fmt.Errorf("%w: document %d is %s, only pending documents can be validated",
				ErrInvalidInput, id, doc.ValidationStatus)
		}
		now := time.Now()
		doc.ValidationStatus = models.DocApproved
		doc.ValidatedBy = &adminID
		doc.ValidatedAt = &now
		return tx.Save(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// RejectDocument moves a pending document to rejected with a reason the
// athlete will see.
func RejectDocument(id uint, adminID uint, reason string) (*models.Document, error) {
	if reason == "" {
		return nil, fmt.Errorf("%w: rejection requires a reason", ErrInvalidInput)
	}
	var doc models.Document
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&doc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: document %d", ErrNotFound, id)
			}
			return err
		}
		if doc.ValidationStatus != models.DocPending {
			return fmt.Errorf("%w: document %d is %s, only pending documents can be rejected",
				ErrInvalidInput, id, doc.ValidationStatus)
		}
		now := time.Now()
		doc.ValidationStatus = models.DocRejected
		doc.RejectionReason = reason
		doc.ValidatedBy = &adminID
		doc.ValidatedAt = &now
		return tx.Save(&doc).Error
	})
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// versionLocks serializes AddVersion per document so concurrent uploads can't
// produce duplicate or gapped version numbers.
var versionLocks sync.Map // uint -> *sync.Mutex

func versionLock(docID uint) *sync.Mutex {
	m, _ := versionLocks.LoadOrStore(docID, &sync.Mutex{})
	return m.(*sync.Mutex)
}

// AddVersion appends an immutable snapshot with versionNumber = currentMax+1.
// It never touches the parent document's validation status — re-validation
// after a version bump is an explicit admin action.
func AddVersion(docID uint, fileName, fileURL, notes string, uploadedBy *uint) (*models.DocumentVersion, error) {
	mu := versionLock(docID)
	mu.Lock()
	defer mu.Unlock()

	var version models.DocumentVersion
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.First(&doc, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: document %d", ErrNotFound, docID)
			}
			return err
		}

		var maxNumber int
		if err := tx.Model(&models.DocumentVersion{}).
			Where("document_id = ?", docID).
			Select("COALESCE(MAX(version_number), 0)").
			Scan(&maxNumber).Error; err != nil {
			return err
		}

		version = models.DocumentVersion{
			DocumentID:    docID,
			VersionNumber: maxNumber + 1,
			FileName:      fileName,
			FileURL:       fileURL,
			Notes:         notes,
			UploadedBy:    uploadedBy,
		}
		return tx.Create(&version).Error
	})
	if err != nil {
		return nil, err
	}
	return &version, nil
}

// ShareDocument creates or replaces the share for (document, grantee).
// Re-sharing with a different level or expiry overwrites the previous grant.
func ShareDocument(docID uint, granteeEmail, level, notes string, sharedBy uint, expiresAt *time.Time) (*models.DocumentShare, error) {
	email, ok := NormEmail(granteeEmail)
	if !ok || email == "" {
		return nil, fmt.Errorf("%w: grantee email %q", ErrInvalidInput, granteeEmail)
	}
	if level != models.ShareView && level != models.ShareDownload {
		return nil, fmt.Errorf("%w: permission level %q", ErrInvalidInput, level)
	}

	var share models.DocumentShare
	err := db.Conn().Transaction(func(tx *gorm.DB) error {
		var doc models.Document
		if err := tx.First(&doc, docID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: document %d", ErrNotFound, docID)
			}
			return err
		}

		err := tx.Where("document_id = ? AND grantee_email = ?", docID, email).First(&share).Error
		switch {
		case err == nil:
			share.PermissionLevel = level
			share.Notes = notes
			share.SharedBy = sharedBy
			share.ExpiresAt = expiresAt
			return tx.Save(&share).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			share = models.DocumentShare{
				DocumentID:      docID,
				GranteeEmail:    email,
				PermissionLevel: level,
				Notes:           notes,
				SharedBy:        sharedBy,
				ExpiresAt:       expiresAt,
			}
			return tx.Create(&share).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &share, nil
}

// UnshareDocument removes the grant for one grantee.
func UnshareDocument(docID uint, granteeEmail string) error {
	email, _ := NormEmail(granteeEmail)
	res := db.Conn().Where("document_id = ? AND grantee_email = ?", docID, email).
		Delete(&models.DocumentShare{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: no share for document %d and %s", ErrNotFound, docID, email)
	}
	return nil
}
