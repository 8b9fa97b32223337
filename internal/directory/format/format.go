// Package format normalizes raw upstream phone and date strings into the
// fixed display formats used by the directory. Both functions fail soft: an
// input that does not have the expected shape comes back unchanged so a single
// malformed record never aborts ingestion.
package format

import (
	"regexp"
	"strings"
)

const minPhoneDigits = 10

var (
	nonDigit = regexp.MustCompile(`\D`)
	isoDate  = regexp.MustCompile(`^\d{2}(\d{2})-(\d{2})-(\d{2})`)
)

// NormalizePhone renders raw as (AAA) EEE-LLLL. Digits past the tenth are kept
// after the line number rather than truncated.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if len(digits) < minPhoneDigits {
		return raw
	}
	var b strings.Builder
	b.Grow(len(digits) + 4)
	b.WriteByte('(')
	b.WriteString(digits[:3])
	b.WriteString(") ")
	b.WriteString(digits[3:6])
	b.WriteByte('-')
	b.WriteString(digits[6:])
	return b.String()
}

// NormalizeBirthDate rewrites the YYYY-MM-DD prefix of raw as MM/DD/YY.
// The century is dropped, so the result is ambiguous across centuries.
func NormalizeBirthDate(raw string) string {
	head := raw
	if len(head) > 10 {
		head = head[:10]
	}
	if !isoDate.MatchString(head) {
		return raw
	}
	return isoDate.ReplaceAllString(head, "$2/$3/$1")
}
