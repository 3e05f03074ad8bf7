// =============================================================================
// Patron Import - Output Writer
// =============================================================================
//
// Serializes the two output row sets to their fixed CSV schemas. Column
// order and naming are a hard contract with the consuming import system,
// not a style choice — do not reorder or rename.
//
// Each file is written to a temp file in the target directory and renamed
// into place, so a failed run never leaves a truncated output file behind.
//
// =============================================================================

package csvwriter

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/patron-tools/patron-import/internal/donations"
	"github.com/patron-tools/patron-import/internal/model"
)

// ConstituentColumns is the fixed header of the constituents file.
var ConstituentColumns = []string{
	"Patron ID",
	"First Name",
	"Last Name",
	"Email 1",
	"Email 2",
	"Total Paid Donations",
	"Paid Donation Count",
	"Date Entered",
}

// TagColumns is the fixed header of the tags file.
var TagColumns = []string{
	"Tag",
	"Constituent Count",
}

// WriteConstituents writes one row per constituent, ordered by Patron ID
// ascending. Constituents without paid donations get blank donation
// fields, not zeros.
func WriteConstituents(path string, cs []model.Constituent) error {
	sorted := make([]model.Constituent, len(cs))
	copy(sorted, cs)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].PatronID < sorted[j].PatronID
	})

	rows := make([][]string, 0, len(sorted))
	for _, c := range sorted {
		total, count := "", ""
		if c.HasPaid {
			total = donations.FormatCents(c.TotalPaidCents)
			count = strconv.Itoa(c.PaidCount)
		}
		rows = append(rows, []string{
			c.PatronID,
			c.FirstName,
			c.LastName,
			c.Email1,
			c.Email2,
			total,
			count,
			c.DateEntered,
		})
	}

	return writeFile(path, ConstituentColumns, rows)
}

// WriteTags writes one row per distinct cleaned tag. Callers pass counts
// already ordered (count descending, name ascending); the order is kept.
func WriteTags(path string, counts []model.TagCount) error {
	rows := make([][]string, 0, len(counts))
	for _, tc := range counts {
		rows = append(rows, []string{tc.Tag, strconv.Itoa(tc.Constituents)})
	}
	return writeFile(path, TagColumns, rows)
}

func writeFile(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpName := tmp.Name()

	w := csv.NewWriter(tmp)
	writeErr := w.Write(header)
	for _, row := range rows {
		if writeErr != nil {
			break
		}
		writeErr = w.Write(row)
	}
	if writeErr == nil {
		w.Flush()
		writeErr = w.Error()
	}

	if closeErr := tmp.Close(); writeErr == nil {
		writeErr = closeErr
	}
	if writeErr != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", path, writeErr)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to finalize %s: %w", path, err)
	}
	return nil
}
