// =============================================================================
// Patron Import - Shared Types
// =============================================================================
//
// This package contains the shared data types used across the pipeline
// packages to avoid import cycles:
//   - xlsxreader produces RawRow / EmailEntry / DonationEntry
//   - dedupe selects one RawRow per Patron ID
//   - normalize / tags / donations build Constituent and TagCount
//   - csvwriter serializes Constituent and TagCount
//
// =============================================================================

package model

// Column names as emitted by the source system. These are pass-through
// identifiers: the loader matches them against the sheet header row exactly.
const (
	ColPatronID     = "Patron ID"
	ColFirstName    = "First Name"
	ColLastName     = "Last Name"
	ColPrimaryEmail = "Primary Email"
	ColTags         = "Tags"
	ColDateEntered  = "Date Entered"

	ColEmail = "Email"

	ColDonationAmount = "Donation Amount"
	ColDonationStatus = "Donation Status"
	ColDonationDate   = "Donation Date"
)

// TrackedFields are the constituent-sheet columns counted when scoring row
// completeness during deduplication.
var TrackedFields = []string{
	ColPatronID,
	ColFirstName,
	ColLastName,
	ColPrimaryEmail,
	ColTags,
	ColDateEntered,
}

// RawRow is one record from the constituents sheet, keyed by column header.
// It is ephemeral: rows exist only between loading and selection.
type RawRow struct {
	// Index is the position of the row in the input sheet (0-based, data
	// rows only). It is the final, stable tie-break during deduplication.
	Index int

	// Fields holds the cell values keyed by the original column header.
	Fields map[string]string
}

// Field returns the named field, or "" if the column was absent.
func (r RawRow) Field(name string) string {
	return r.Fields[name]
}

// EmailEntry is one record from the emails sheet.
type EmailEntry struct {
	PatronID string
	Email    string
}

// DonationEntry is one record from the donation history sheet.
// Amount and Date are kept as raw strings; parsing happens in the
// aggregator so that unparseable values can be excluded and counted
// instead of failing the run.
type DonationEntry struct {
	PatronID string
	Status   string
	Amount   string
	Date     string
}

// Constituent is the canonical output entity, exactly one per distinct
// Patron ID. It is immutable once assembled by the pipeline.
type Constituent struct {
	PatronID  string
	FirstName string
	LastName  string

	// Email1 and Email2 hold up to two validated emails in order of
	// preference. Email2 is populated only if Email1 is.
	Email1 string
	Email2 string

	// TotalPaidCents and PaidCount cover donations with status "Paid"
	// and a parseable amount. HasPaid distinguishes a real zero from
	// "no paid donations": the latter serializes as blank fields.
	TotalPaidCents int64
	PaidCount      int
	HasPaid        bool

	// DateEntered is the ISO-8601 timestamp, or "" when the source had
	// no usable date.
	DateEntered string

	// Tags is the cleaned, deduplicated tag set for this constituent.
	Tags []string
}

// TagCount is one row of the tags output file: a cleaned tag name and the
// number of distinct constituents carrying it.
type TagCount struct {
	Tag          string
	Constituents int
}
