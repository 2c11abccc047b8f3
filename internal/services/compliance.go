package services

import (
	"math"

	"github.com/sandaclub/hub/internal/models"
)

// ComplianceResult is the outcome of checking an athlete's documents against
// the required checklist.
type ComplianceResult struct {
	Score   int      `json:"score"`   // 0..100
	Missing []string `json:"missing"` // required types not yet satisfied, catalog order
}

// Complete reports whether every required type is satisfied.
func (c ComplianceResult) Complete() bool {
	return len(c.Missing) == 0
}

// EvaluateCompliance computes the compliance score for one athlete's document
// snapshot against the club's required checklist. A required type is satisfied
// by at least one document of that type (or its legacy alias) in pending or
// approved state; rejected-only documents leave the requirement open — the
// athlete must resubmit.
func EvaluateCompliance(docs []models.Document) ComplianceResult {
	return EvaluateComplianceAgainst(docs, requiredDocumentTypes)
}

// EvaluateComplianceAgainst is EvaluateCompliance with an explicit checklist.
func EvaluateComplianceAgainst(docs []models.Document, required []string) ComplianceResult {
	satisfied := make(map[string]bool, len(docs))
	for _, d := range docs {
		if d.ValidationStatus != models.DocPending && d.ValidationStatus != models.DocApproved {
			continue
		}
		satisfied[CanonicalType(d.DocumentType)] = true
	}

	missing := make([]string, 0, len(required))
	for _, t := range required {
		if !satisfied[t] {
			missing = append(missing, t)
		}
	}

	total := len(required)
	if total == 0 {
		// Empty checklist: defined as 0, not a division by zero.
		return ComplianceResult{Score: 0, Missing: missing}
	}
	score := int(math.Round(100 * float64(total-len(missing)) / float64(total)))
	return ComplianceResult{Score: score, Missing: missing}
}
