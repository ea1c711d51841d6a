// Package phone normalizes Brazilian phone numbers into the digits-only form
// WhatsApp providers expect (country code 55 + area code + subscriber).
package phone

import (
	"strings"
	"unicode"
)

const countryCode = "55"

// Normalize strips every non-digit and prefixes the Brazilian country code.
// Numbers already starting with 55 are returned as-is, 11-digit mobiles get
// the prefix, 10-digit numbers missing the mobile 9 get it inserted after the
// area code. Anything else comes back as bare digits, unnormalized.
func Normalize(raw string) string {
	digits := Digits(raw)

	if strings.HasPrefix(digits, countryCode) {
		return digits
	}

	switch len(digits) {
	case 11:
		return countryCode + digits
	case 10:
		return countryCode + digits[:2] + "9" + digits[2:]
	}

	return digits
}

// Digits returns only the ASCII digits of raw.
func Digits(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if r <= unicode.MaxASCII && unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Candidates lists the stored forms a number may have been saved under:
// the raw input, its digits, the normalized form and the national form
// without the country code. Empty and duplicate entries are dropped.
func Candidates(raw string) []string {
	normalized := Normalize(raw)
	forms := []string{strings.TrimSpace(raw), Digits(raw), normalized}
	if strings.HasPrefix(normalized, countryCode) {
		forms = append(forms, strings.TrimPrefix(normalized, countryCode))
	}

	seen := make(map[string]struct{}, len(forms))
	out := make([]string, 0, len(forms))
	for _, f := range forms {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
