package ingest

import (
	"strings"
	"time"
)

// PhoneSentinel replaces phone values that cannot be recovered into the
// local 10-digit form.
const PhoneSentinel = "0000000000"

// Date layouts tried by CleanDate, day-first French forms before ISO.
// Go's parser rejects semantically invalid dates (e.g. 31/02/2020), so a
// successful parse is a real calendar date.
var dateLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02.01.2006",
	"2006-01-02",
	"2006/01/02",
	"2 January 2006",
}

// CleanString trims surrounding whitespace. Empty input stays empty.
func CleanString(s string) string {
	return strings.TrimSpace(s)
}

// CleanPhone normalizes a noisy phone value to the local 10-digit form:
// every non-digit is stripped, a "33"-prefixed 11-digit international
// number is converted to its local "0" form, and a 9-digit number is
// left-padded with one "0". The result is valid only if it is exactly
// 10 digits starting with "0"; anything else degrades to PhoneSentinel
// with ok=false so the caller can record a non-fatal warning.
func CleanPhone(s string) (string, bool) {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()

	if len(digits) == 11 && strings.HasPrefix(digits, "33") {
		digits = "0" + digits[2:]
	}
	if len(digits) == 9 {
		digits = "0" + digits
	}

	if len(digits) == 10 && digits[0] == '0' {
		return digits, true
	}
	return PhoneSentinel, false
}

// CleanDate parses a calendar date from any of the accepted layouts.
// Unparsable or invalid input returns ok=false (the "unknown" marker);
// the function never fails.
func CleanDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// CleanTariff drops whitespace hugging the inner side of quoted spans:
// spaces after an opening quote and before a closing one. Whitespace
// outside a quoted span is kept, so a label like `Tarif "Jeune "` comes
// back as `Tarif "Jeune"` with the separating space intact. The
// remaining content is preserved verbatim; tariff labels are free-form,
// human-assigned strings.
func CleanTariff(s string) string {
	out := make([]rune, 0, len(s))
	open := make(map[rune]bool)
	skipGap := false
	for _, r := range s {
		if r == ' ' || r == '\t' {
			if !skipGap {
				out = append(out, r)
			}
			continue
		}
		skipGap = false
		opening, closing := quoteRole(r, open)
		if closing {
			for n := len(out); n > 0 && (out[n-1] == ' ' || out[n-1] == '\t'); n = len(out) {
				out = out[:n-1]
			}
		}
		out = append(out, r)
		if opening {
			skipGap = true
		}
	}
	return strings.TrimSpace(string(out))
}

// quoteRole classifies a quote rune. Curly quotes are directional;
// straight quotes and apostrophes alternate, odd occurrences opening a
// span and even ones closing it.
func quoteRole(r rune, open map[rune]bool) (opening, closing bool) {
	switch r {
	case '‘', '“':
		return true, false
	case '’', '”':
		return false, true
	case '"', '\'', '`':
		if open[r] {
			open[r] = false
			return false, true
		}
		open[r] = true
		return true, false
	}
	return false, false
}
