package services

// Document catalog: the fixed checklist an athlete must satisfy to be fully
// documented, plus the extra types uploads may carry without counting toward
// the checklist.

// requiredDocumentTypes is ordered; compliance results report missing types
// in this order.
var requiredDocumentTypes = []string{
	TypeMedicalCertificate,
	TypeInsurance,
	TypeIDCard,
	TypePhoto,
	TypeParentalConsent,
}

const (
	TypeMedicalCertificate = "medical_certificate"
	TypeInsurance          = "insurance"
	TypeIDCard             = "id_card"
	TypePhoto              = "photo"
	TypeParentalConsent    = "parental_consent"
	TypeLicense            = "license"
	TypeOther              = "other"

	// TypeIdentityCard is a legacy key from the old document table; rows
	// stored under it satisfy the id_card requirement. New uploads may still
	// use it until the migration backfill lands.
	TypeIdentityCard = "identity_card"
)

// aliases maps legacy stored keys onto their canonical requirement slot.
var aliases = map[string]string{
	TypeIdentityCard: TypeIDCard,
}

// CanonicalType resolves legacy aliases; unknown strings pass through.
func CanonicalType(docType string) string {
	if c, ok := aliases[docType]; ok {
		return c
	}
	return docType
}

// TypeVariants returns every stored spelling of a type: the canonical key
// plus any legacy aliases that resolve to it. Useful for querying rows that
// predate the alias cleanup.
func TypeVariants(docType string) []string {
	c := CanonicalType(docType)
	out := []string{c}
	for legacy, canonical := range aliases {
		if canonical == c {
			out = append(out, legacy)
		}
	}
	return out
}

// RequiredDocumentTypes returns the ordered required checklist.
func RequiredDocumentTypes() []string {
	out := make([]string, len(requiredDocumentTypes))
	copy(out, requiredDocumentTypes)
	return out
}

// IsRequired reports whether docType (alias-resolved) is on the checklist.
func IsRequired(docType string) bool {
	c := CanonicalType(docType)
	for _, t := range requiredDocumentTypes {
		if t == c {
			return true
		}
	}
	return false
}

// KnownDocumentType reports whether docType is accepted at upload time:
// any checklist type, its legacy alias, license, or the free-form "other".
func KnownDocumentType(docType string) bool {
	if docType == TypeLicense || docType == TypeOther {
		return true
	}
	return IsRequired(docType)
}
