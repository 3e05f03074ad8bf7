// =============================================================================
// Patron Import - Deduplicator
// =============================================================================
//
// Groups constituent rows by Patron ID and selects exactly one canonical
// row per ID. The selected row is used wholesale; nothing is merged in
// from the rows that lose.
//
// SELECTION RULE:
//   1. Highest count of non-empty tracked fields wins.
//   2. Tie: most recent parseable "Date Entered" wins.
//   3. Still tied: the row seen first in the input wins. Input order is
//      the stable, deterministic fallback, so identical input always
//      yields identical output.
//
// Rows with a blank Patron ID cannot be attributed to any constituent;
// they are dropped and counted.
//
// =============================================================================

package dedupe

import (
	"strings"

	"github.com/patron-tools/patron-import/internal/model"
	"github.com/patron-tools/patron-import/internal/normalize"
)

// Result holds the selected rows plus the count of rows dropped for a
// missing Patron ID.
type Result struct {
	// Selected has exactly one row per distinct Patron ID, ordered by the
	// first appearance of each ID in the input.
	Selected []model.RawRow

	// MissingID counts rows excluded because Patron ID was blank.
	MissingID int
}

// Select deduplicates rows by Patron ID.
func Select(rows []model.RawRow) Result {
	groups := make(map[string][]model.RawRow)
	order := []string{} // first-occurrence order of IDs

	var missing int
	for _, row := range rows {
		id := strings.TrimSpace(row.Field(model.ColPatronID))
		if id == "" {
			missing++
			continue
		}
		if _, seen := groups[id]; !seen {
			order = append(order, id)
		}
		groups[id] = append(groups[id], row)
	}

	selected := make([]model.RawRow, 0, len(order))
	for _, id := range order {
		selected = append(selected, pick(groups[id]))
	}

	return Result{Selected: selected, MissingID: missing}
}

// pick applies the selection rule to one ID's candidate rows.
func pick(candidates []model.RawRow) model.RawRow {
	best := candidates[0]
	bestScore := Completeness(best)

	for _, c := range candidates[1:] {
		score := Completeness(c)
		switch {
		case score > bestScore:
			best, bestScore = c, score
		case score == bestScore && enteredAfter(c, best):
			best = c
		}
	}
	return best
}

// Completeness counts the non-empty tracked fields of a row.
func Completeness(row model.RawRow) int {
	n := 0
	for _, f := range model.TrackedFields {
		if strings.TrimSpace(row.Field(f)) != "" {
			n++
		}
	}
	return n
}

// enteredAfter reports whether a's Date Entered is strictly more recent
// than b's. An unparseable or missing date never beats a parseable one,
// and equal dates keep the incumbent (earlier input order) in place.
func enteredAfter(a, b model.RawRow) bool {
	ta, okA := normalize.ParseDate(a.Field(model.ColDateEntered))
	if !okA {
		return false
	}
	tb, okB := normalize.ParseDate(b.Field(model.ColDateEntered))
	if !okB {
		return true
	}
	return ta.After(tb)
}
