package ingest

import (
	"fmt"
	"strings"
	"time"

	"github.com/avenard/clubregistry/internal/domain"
	"github.com/avenard/clubregistry/internal/tabular"
)

// orderStatusPaid is the export's "validated" order status. Matching is
// case- and accent-insensitive.
const orderStatusPaid = "valide"

// ParseRow turns one raw export row into a CandidateRecord.
//
// Headers are resolved through LookupKey; unknown columns are ignored,
// and when two headers normalize to the same key the last occurrence
// wins. Field sanitization never fails: invalid phones and dates degrade
// to their fallback values and come back as warnings.
//
// The third return value is false when the row has no usable identity
// (empty email after cleaning). Such rows are not candidates: they are
// not errors and are excluded from all counts.
func ParseRow(row tabular.Row, now time.Time) (CandidateRecord, []string, bool) {
	values := make(map[CanonicalKey]string, len(row))
	for _, f := range row {
		if key, ok := LookupKey(f.Header); ok {
			values[key] = f.Value
		}
	}

	email := CleanString(values[KeyEmail])
	if email == "" {
		return CandidateRecord{}, nil, false
	}

	var warnings []string

	rec := CandidateRecord{
		Name:             CleanString(values[KeyName]),
		Surname:          CleanString(values[KeySurname]),
		Email:            email,
		Address:          CleanString(values[KeyAddress]),
		City:             CleanString(values[KeyCity]),
		PostalCode:       CleanString(values[KeyPostalCode]),
		Tariff:           CleanTariff(values[KeyTariff]),
		Remarks:          CleanString(values[KeyRemarks]),
		PayerName:        CleanString(values[KeyPayerName]),
		PayerSurname:     CleanString(values[KeyPayerSurname]),
		PayerEmail:       CleanString(values[KeyPayerEmail]),
		PaymentStatus:    parseOrderStatus(values[KeyOrderStatus]),
		RegistrationDate: now,
	}

	rec.Phone = cleanPhoneField(values[KeyPhone], email, "phone", &warnings)
	rec.EmergencyPhone = cleanPhoneField(values[KeyEmergencyPhone], email, "emergency phone", &warnings)

	if raw := CleanString(values[KeyBirthDate]); raw != "" {
		bd, ok := CleanDate(raw)
		if ok {
			rec.BirthDate = bd
			rec.BirthDateKnown = true
		} else {
			warnings = append(warnings, fmt.Sprintf("unparsable birth date %q for %s", raw, email))
		}
	}

	return rec, warnings, true
}

// cleanPhoneField sanitizes a phone value, warning only when a non-empty
// value had to degrade to the sentinel. An absent column is not noise
// worth reporting.
func cleanPhoneField(raw, email, label string, warnings *[]string) string {
	trimmed := CleanString(raw)
	phone, ok := CleanPhone(trimmed)
	if !ok && trimmed != "" {
		*warnings = append(*warnings, fmt.Sprintf("invalid %s %q for %s", label, trimmed, email))
	}
	return phone
}

// parseOrderStatus derives the payment status from the external order
// status field: the validated term means paid, anything else (including
// an absent column) means pending.
func parseOrderStatus(raw string) domain.PaymentStatus {
	s := stripDiacritics(strings.ToLower(CleanString(raw)))
	if s == orderStatusPaid {
		return domain.PaymentPaid
	}
	return domain.PaymentPending
}
