// =============================================================================
// Patron Import - XLSX Loader
// =============================================================================
//
// Reads the exported workbook into header-keyed row records. The workbook
// carries three worksheets (constituents, emails, donation history); column
// names are defined by the source system and passed through as given.
//
// Any failure to open the workbook or to find a configured sheet is fatal:
// the pipeline produces no partial output.
//
// =============================================================================

package xlsxreader

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/patron-tools/patron-import/internal/model"
)

// Sheet is one parsed worksheet: the header row plus data rows keyed by
// column header.
type Sheet struct {
	Name    string
	Headers []string
	Rows    []map[string]string
}

// Workbook wraps an open XLSX file.
type Workbook struct {
	path string
	f    *excelize.File
}

// Open opens the workbook at path.
func Open(path string) (*Workbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

// Close releases the underlying file.
func (w *Workbook) Close() error {
	return w.f.Close()
}

// Path returns the workbook path, for logs and reports.
func (w *Workbook) Path() string {
	return w.path
}

// SheetNames lists the worksheets in the workbook.
func (w *Workbook) SheetNames() []string {
	return w.f.GetSheetList()
}

// Sheet reads a single worksheet. The first row is the header row; data
// rows shorter than the header are padded with empty fields. Fully empty
// rows are skipped.
func (w *Workbook) Sheet(name string) (*Sheet, error) {
	rows, err := w.f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", name)
	}

	headers := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		headers[i] = strings.TrimSpace(h)
	}

	sheet := &Sheet{Name: name, Headers: headers}
	for _, row := range rows[1:] {
		if isRowEmpty(row) {
			continue
		}
		fields := make(map[string]string, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if i < len(row) {
				fields[h] = row[i]
			} else {
				fields[h] = ""
			}
		}
		sheet.Rows = append(sheet.Rows, fields)
	}

	return sheet, nil
}

// Constituents reads the constituents sheet into raw rows. Row indices
// record input order; deduplication depends on them being stable.
func (w *Workbook) Constituents(name string) ([]model.RawRow, error) {
	sheet, err := w.Sheet(name)
	if err != nil {
		return nil, err
	}

	rows := make([]model.RawRow, len(sheet.Rows))
	for i, fields := range sheet.Rows {
		rows[i] = model.RawRow{Index: i, Fields: fields}
	}
	return rows, nil
}

// Emails reads the auxiliary emails sheet. Entries keep input order:
// email slot fallback prefers the first valid address found.
func (w *Workbook) Emails(name string) ([]model.EmailEntry, error) {
	sheet, err := w.Sheet(name)
	if err != nil {
		return nil, err
	}

	entries := make([]model.EmailEntry, 0, len(sheet.Rows))
	for _, fields := range sheet.Rows {
		entries = append(entries, model.EmailEntry{
			PatronID: strings.TrimSpace(fields[model.ColPatronID]),
			Email:    fields[model.ColEmail],
		})
	}
	return entries, nil
}

// Donations reads the donation history sheet. Amounts and dates stay raw;
// the aggregator decides what is usable.
func (w *Workbook) Donations(name string) ([]model.DonationEntry, error) {
	sheet, err := w.Sheet(name)
	if err != nil {
		return nil, err
	}

	entries := make([]model.DonationEntry, 0, len(sheet.Rows))
	for _, fields := range sheet.Rows {
		entries = append(entries, model.DonationEntry{
			PatronID: strings.TrimSpace(fields[model.ColPatronID]),
			Status:   fields[model.ColDonationStatus],
			Amount:   fields[model.ColDonationAmount],
			Date:     fields[model.ColDonationDate],
		})
	}
	return entries, nil
}

func isRowEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
