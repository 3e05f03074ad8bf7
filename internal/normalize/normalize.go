// =============================================================================
// Patron Import - Field Normalizer
// =============================================================================
//
// Per-field cleanup rules:
//   - Name casing: consistent title-casing, no restructuring, blank stays
//     blank.
//   - Emails: format validation only. A malformed email is treated as
//     absent, never corrected. At most two unique valid emails per
//     constituent, in order of preference; Email 2 is populated only if
//     Email 1 is.
//   - Timestamps: ISO-8601 output; a date without a time component gets
//     00:00:00; no date stays blank.
//
// =============================================================================

package normalize

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// TimestampLayout is the ISO-8601 form used in the constituents output.
const TimestampLayout = "2006-01-02T15:04:05"

// dateLayouts are the accepted source date forms, tried in order. The
// time-bearing layout is tried before its date-only prefix so a full
// timestamp never half-parses. Layouts without a time component default
// to midnight.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04:05",
	"01/02/2006 15:04",
	"01/02/2006",
	"1/2/2006 15:04",
	"1/2/2006",
	"1/2/06 15:04",
	"1/2/06",
	"01-02-06",
}

var validate = validator.New()

// Name title-cases a name field. Interior whitespace is collapsed but word
// order is never changed and missing parts are never inferred.
func Name(s string) string {
	s = collapseWhitespace(s)
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}

// Email normalizes an address (trim, lowercase) and validates its format.
// The second return is false when the address is absent or malformed;
// domains are never guessed or corrected.
func Email(s string) (string, bool) {
	e := strings.ToLower(strings.TrimSpace(s))
	if e == "" {
		return "", false
	}
	if err := validate.Var(e, "email"); err != nil {
		return "", false
	}
	return e, true
}

// SelectEmails fills the two email slots. The primary address wins slot 1
// when valid; otherwise the first valid auxiliary address does. Slot 2
// takes the next valid address not already used. Invalid addresses are
// skipped entirely, so Email 2 can only be set when Email 1 is.
func SelectEmails(primary string, aux []string) (email1, email2 string) {
	candidates := make([]string, 0, len(aux)+1)
	candidates = append(candidates, primary)
	candidates = append(candidates, aux...)

	for _, c := range candidates {
		e, ok := Email(c)
		if !ok || e == email1 {
			continue
		}
		if email1 == "" {
			email1 = e
			continue
		}
		email2 = e
		break
	}
	return email1, email2
}

// ParseDate parses a source date value against the accepted layouts.
func ParseDate(s string) (time.Time, bool) {
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

// Timestamp formats a source date value as an ISO-8601 timestamp.
// Unparseable or empty input yields "" — an absent date is data quality,
// not an error.
func Timestamp(s string) string {
	t, ok := ParseDate(s)
	if !ok {
		return ""
	}
	return t.Format(TimestampLayout)
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
