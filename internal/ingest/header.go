// Package ingest implements the bulk member import pipeline: it parses
// an externally produced tabular export (drifting column headers, noisy
// phone numbers, inconsistent dates), sanitizes each row into a candidate
// record, and reconciles candidates against the member store keyed by
// email so that re-running an import never creates duplicates.
package ingest

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// CanonicalKey is one of the fixed column identifiers the pipeline
// understands. Headers that do not resolve to a canonical key are ignored.
type CanonicalKey string

const (
	KeyName           CanonicalKey = "name"
	KeySurname        CanonicalKey = "surname"
	KeyEmail          CanonicalKey = "email"
	KeyPhone          CanonicalKey = "phone"
	KeyEmergencyPhone CanonicalKey = "emergencyPhone"
	KeyBirthDate      CanonicalKey = "birthDate"
	KeyAddress        CanonicalKey = "address"
	KeyCity           CanonicalKey = "city"
	KeyPostalCode     CanonicalKey = "postalCode"
	KeyTariff         CanonicalKey = "tariff"
	KeyOrderStatus    CanonicalKey = "orderStatus"
	KeyRemarks        CanonicalKey = "remarks"
	KeyPayerName      CanonicalKey = "payerName"
	KeyPayerSurname   CanonicalKey = "payerSurname"
	KeyPayerEmail     CanonicalKey = "payerEmail"
)

// headerKeys maps normalized, punctuation-stripped header spellings to
// canonical keys. The spellings cover the header drift observed across
// export versions; NormalizeHeader collapses case, whitespace, quotes
// and accents before lookup. Note French column conventions: "nom" is
// the surname, "prénom" the given name.
var headerKeys = map[string]CanonicalKey{
	"nomadherent":    KeySurname,
	"nomdeladherent": KeySurname,
	"nom":            KeySurname,

	"prenomadherent":    KeyName,
	"prenomdeladherent": KeyName,
	"prenom":            KeyName,

	"emailfacilementjoignable": KeyEmail,
	"email":                    KeyEmail,
	"adresseemail":             KeyEmail,
	"mail":                     KeyEmail,

	"numerodetelephone": KeyPhone,
	"telephone":         KeyPhone,
	"tel":               KeyPhone,

	"telephonedurgence":         KeyEmergencyPhone,
	"numerodetelephonedurgence": KeyEmergencyPhone,
	"contactdurgence":           KeyEmergencyPhone,
	"telephoneurgence":          KeyEmergencyPhone,

	"datedenaissance": KeyBirthDate,
	"naissance":       KeyBirthDate,

	"adresse": KeyAddress,

	"ville": KeyCity,

	"codepostal": KeyPostalCode,

	"tarif":  KeyTariff,
	"tarifs": KeyTariff,

	"statutdelacommande": KeyOrderStatus,
	"statutcommande":     KeyOrderStatus,

	"remarques":    KeyRemarks,
	"remarque":     KeyRemarks,
	"commentaires": KeyRemarks,

	"nomdupayeur": KeyPayerSurname,
	"nompayeur":   KeyPayerSurname,

	"prenomdupayeur": KeyPayerName,
	"prenompayeur":   KeyPayerName,

	"emaildupayeur": KeyPayerEmail,
	"emailpayeur":   KeyPayerEmail,
}

// NormalizeHeader maps an arbitrary column header to its stable form:
// lowercase, no whitespace, no quote or apostrophe characters, no
// diacritics. It is pure, total and idempotent, which keeps column
// matching resilient to header drift across export versions and locales.
func NormalizeHeader(header string) string {
	s := strings.ToLower(header)
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) || isQuoteRune(r) {
			continue
		}
		b.WriteRune(r)
	}
	return stripDiacritics(b.String())
}

// LookupKey resolves a raw header to a canonical key. Beyond
// NormalizeHeader, the comparison ignores any remaining punctuation so
// "EMAIL-FACILEMENT-JOIGNABLE" and "Email Facilement Joignable " match
// the same key.
func LookupKey(header string) (CanonicalKey, bool) {
	stripped := stripPunctuation(NormalizeHeader(header))
	key, ok := headerKeys[stripped]
	return key, ok
}

// isQuoteRune covers straight and curly quotes and apostrophes, plus
// the grave/acute marks office tooling substitutes for apostrophes.
func isQuoteRune(r rune) bool {
	switch r {
	case '"', '\'', '‘', '’', '“', '”', '`', '´':
		return true
	}
	return false
}

// stripDiacritics decomposes to NFD and drops combining marks, so
// "téléphone" and "telephone" normalize identically.
func stripDiacritics(s string) string {
	decomposed := norm.NFD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if unicode.Is(unicode.Mn, r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// stripPunctuation keeps only letters and digits.
func stripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
