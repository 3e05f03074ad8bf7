// =============================================================================
// Patron Import - Donation Aggregator
// =============================================================================
//
// Rolls up paid donations per Patron ID.
//
// FILTER POLICY:
//   A donation counts only when its status, after trimming surrounding
//   whitespace, equals "Paid" exactly (case-sensitive). "Refunded" and
//   every other status contribute nothing.
//
// AMOUNT POLICY:
//   Amounts are parsed into integer cents so sums are exact and output is
//   byte-stable. A Paid entry whose amount is blank or unparseable is
//   excluded from aggregation and counted as a data-quality exclusion,
//   not a fatal error. Currency symbols and thousands separators are
//   rejected: the source emits plain decimal numbers.
//
// =============================================================================

package donations

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/patron-tools/patron-import/internal/model"
)

// StatusPaid is the only status that counts toward rollups.
const StatusPaid = "Paid"

// Rollup is the paid-donation aggregate for one Patron ID.
type Rollup struct {
	TotalCents int64
	Count      int
}

// Result holds per-patron rollups plus the data-quality exclusion count.
type Result struct {
	ByPatron map[string]Rollup

	// Excluded counts Paid entries dropped for a missing or unparseable
	// amount.
	Excluded int
}

// Aggregate filters entries to Paid status and sums amounts per Patron ID.
func Aggregate(entries []model.DonationEntry, log *zap.SugaredLogger) Result {
	res := Result{ByPatron: make(map[string]Rollup)}

	for _, e := range entries {
		if strings.TrimSpace(e.Status) != StatusPaid {
			continue
		}

		cents, err := ParseCents(e.Amount)
		if err != nil {
			res.Excluded++
			if log != nil {
				log.Warnw("paid donation excluded: bad amount",
					"patron_id", e.PatronID, "amount", e.Amount, "error", err)
			}
			continue
		}

		r := res.ByPatron[e.PatronID]
		r.TotalCents += cents
		r.Count++
		res.ByPatron[e.PatronID] = r
	}

	return res
}

// ParseCents parses a plain decimal amount ("10", "10.5", "10.50") into
// integer cents. More than two fractional digits, signs, separators or
// any non-digit character is an error.
func ParseCents(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}

	whole, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		whole, frac = s[:i], s[i+1:]
		if frac == "" {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
	}
	if whole == "" && frac == "" {
		return 0, fmt.Errorf("malformed amount %q", s)
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimal places", s)
	}

	var cents int64
	for _, r := range whole {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		cents = cents*10 + int64(r-'0')
	}
	cents *= 100

	mult := int64(10)
	for _, r := range frac {
		if r < '0' || r > '9' {
			return 0, fmt.Errorf("malformed amount %q", s)
		}
		cents += int64(r-'0') * mult
		mult /= 10
	}

	return cents, nil
}

// FormatCents renders cents with exactly two decimal places.
func FormatCents(cents int64) string {
	return fmt.Sprintf("%d.%02d", cents/100, cents%100)
}
