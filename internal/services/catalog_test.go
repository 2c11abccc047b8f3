package services

import (
	"reflect"
	"testing"
)

func TestRequiredDocumentTypes_OrderStable(t *testing.T) {
	want := []string{"medical_certificate", "insurance", "id_card", "photo", "parental_consent"}
	if got := RequiredDocumentTypes(); !reflect.DeepEqual(got, want) {
		t.Errorf("checklist order changed: got %v", got)
	}

	// Returned slice is a copy; mutating it must not corrupt the catalog.
	got := RequiredDocumentTypes()
	got[0] = "tampered"
	if RequiredDocumentTypes()[0] != "medical_certificate" {
		t.Error("RequiredDocumentTypes leaked internal slice")
	}
}

func TestIsRequired(t *testing.T) {
	cases := []struct {
		typ  string
		want bool
	}{
		{"medical_certificate", true},
		{"insurance", true},
		{"id_card", true},
		{"identity_card", true}, // legacy alias resolves to id_card
		{"photo", true},
		{"parental_consent", true},
		{"license", false},
		{"other", false},
		{"passport", false},
	}
	for _, c := range cases {
		if got := IsRequired(c.typ); got != c.want {
			t.Errorf("IsRequired(%q): want %v, got %v", c.typ, c.want, got)
		}
	}
}

func TestCanonicalType(t *testing.T) {
	if got := CanonicalType("identity_card"); got != "id_card" {
		t.Errorf("identity_card should resolve to id_card, got %q", got)
	}
	if got := CanonicalType("photo"); got != "photo" {
		t.Errorf("non-alias types pass through, got %q", got)
	}
}

func TestTypeVariants(t *testing.T) {
	got := TypeVariants("identity_card")
	want := []string{"id_card", "identity_card"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("identity_card variants: want %v, got %v", want, got)
	}
	if got := TypeVariants("id_card"); !reflect.DeepEqual(got, want) {
		t.Errorf("id_card variants: want %v, got %v", want, got)
	}
	if got := TypeVariants("photo"); !reflect.DeepEqual(got, []string{"photo"}) {
		t.Errorf("photo variants: got %v", got)
	}
}

func TestKnownDocumentType(t *testing.T) {
	for _, typ := range []string{"medical_certificate", "identity_card", "license", "other"} {
		if !KnownDocumentType(typ) {
			t.Errorf("KnownDocumentType(%q): want true", typ)
		}
	}
	if KnownDocumentType("diploma") {
		t.Error(`KnownDocumentType("diploma"): want false`)
	}
}
