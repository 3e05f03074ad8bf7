package xlsxreader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/patron-tools/patron-import/internal/model"
)

// writeWorkbook builds a minimal test workbook on disk.
func writeWorkbook(t *testing.T, sheets map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for i, row := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+1)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestOpenMissingFileIsFatal(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "nope.xlsx"))
	assert.Error(t, err)
}

func TestSheetMissingIsFatal(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Input Constituents": {{"Patron ID"}},
	})

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	_, err = wb.Sheet("Input Emails")
	assert.Error(t, err)
}

func TestConstituentsKeysByHeaderAndPadsShortRows(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Input Constituents": {
			{"Patron ID", "First Name", "Last Name"},
			{"P1", "ann", "lee"},
			{"P2", "bob"}, // short row: Last Name absent
			{"", "", ""},  // fully empty row skipped
		},
	})

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	rows, err := wb.Constituents("Input Constituents")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 0, rows[0].Index)
	assert.Equal(t, "ann", rows[0].Field(model.ColFirstName))
	assert.Equal(t, "", rows[1].Field(model.ColLastName))
}

func TestEmailsAndDonations(t *testing.T) {
	path := writeWorkbook(t, map[string][][]any{
		"Input Emails": {
			{"Patron ID", "Email"},
			{" P1 ", "a@x.com"},
		},
		"Input Donation History": {
			{"Patron ID", "Donation Amount", "Donation Status", "Donation Date"},
			{"P1", "10.50", "Paid", "2024-01-15"},
		},
	})

	wb, err := Open(path)
	require.NoError(t, err)
	defer wb.Close()

	emails, err := wb.Emails("Input Emails")
	require.NoError(t, err)
	require.Len(t, emails, 1)
	assert.Equal(t, model.EmailEntry{PatronID: "P1", Email: "a@x.com"}, emails[0])

	dons, err := wb.Donations("Input Donation History")
	require.NoError(t, err)
	require.Len(t, dons, 1)
	assert.Equal(t, "Paid", dons[0].Status)
	assert.Equal(t, "10.50", dons[0].Amount)
}
