package services

import (
	"net/mail"
	"strings"
)

// NormEmail lower-cases and validates an email address. Empty input is
// reported as ok so optional fields stay optional; callers that need a value
// check for "" themselves.
func NormEmail(s string) (string, bool) {
	e := strings.TrimSpace(strings.ToLower(s))
	if e == "" {
		return "", true
	}
	_, err := mail.ParseAddress(e)
	return e, err == nil
}
