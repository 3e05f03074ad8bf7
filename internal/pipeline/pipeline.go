// =============================================================================
// Patron Import - Pipeline
// =============================================================================
//
// Orchestrates one run: Loader -> Normalizer -> Deduplicator ->
// (Tag Processor, Donation Aggregator) -> Writer. Control flow is strictly
// linear and single-threaded; every aggregate (dedupe groups, tag counts,
// donation sums) needs the full input before it can be finalized, so
// nothing here streams.
//
// Only two things are fatal: failing to read the input workbook and
// failing to write an output file. Everything else — malformed emails,
// unparseable amounts, unreachable tag mapping, rows without a Patron ID —
// is a counted, logged data-quality exclusion.
//
// =============================================================================

package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/patron-tools/patron-import/internal/config"
	"github.com/patron-tools/patron-import/internal/csvwriter"
	"github.com/patron-tools/patron-import/internal/dedupe"
	"github.com/patron-tools/patron-import/internal/donations"
	"github.com/patron-tools/patron-import/internal/model"
	"github.com/patron-tools/patron-import/internal/normalize"
	"github.com/patron-tools/patron-import/internal/tags"
	"github.com/patron-tools/patron-import/internal/xlsxreader"
)

// Stats collects per-run counters for the summary and the quality report.
type Stats struct {
	ConstituentRows int `yaml:"constituent_rows"`
	EmailRows       int `yaml:"email_rows"`
	DonationRows    int `yaml:"donation_rows"`

	ConstituentsWritten int `yaml:"constituents_written"`
	TagsWritten         int `yaml:"tags_written"`

	// Data-quality exclusions.
	MissingPatronID   int `yaml:"rows_missing_patron_id"`
	MalformedEmails   int `yaml:"malformed_emails_dropped"`
	DonationsExcluded int `yaml:"paid_donations_excluded"`
	TagLookupFailures int `yaml:"tag_lookup_failures"`

	Duration time.Duration `yaml:"-"`
}

// Result is the outcome of a successful run.
type Result struct {
	RunID            string
	ConstituentsFile string
	TagsFile         string
	ReportFile       string
	Stats            Stats
}

// Pipeline runs the cleaning pipeline for one input workbook.
type Pipeline struct {
	cfg    *config.Config
	log    *zap.SugaredLogger
	mapper tags.Mapper
}

// New builds a Pipeline, including the configured tag mapping capability.
func New(cfg *config.Config, log *zap.SugaredLogger) (*Pipeline, error) {
	mapper, err := tags.NewMapper(cfg.Tags.Mapper)
	if err != nil {
		return nil, err
	}
	return &Pipeline{cfg: cfg, log: log, mapper: mapper}, nil
}

// Run executes the pipeline end to end and writes the two output files
// plus the run report.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := p.log.With("run_id", runID)

	log.Infow("processing input", "file", p.cfg.InputFile)

	// ------------------------------------------------------------------
	// Load
	// ------------------------------------------------------------------

	wb, err := xlsxreader.Open(p.cfg.InputFile)
	if err != nil {
		return nil, err
	}
	defer wb.Close()

	rawRows, err := wb.Constituents(p.cfg.Sheets.Constituents)
	if err != nil {
		return nil, err
	}
	emailEntries, err := wb.Emails(p.cfg.Sheets.Emails)
	if err != nil {
		return nil, err
	}
	donationEntries, err := wb.Donations(p.cfg.Sheets.Donations)
	if err != nil {
		return nil, err
	}

	stats := Stats{
		ConstituentRows: len(rawRows),
		EmailRows:       len(emailEntries),
		DonationRows:    len(donationEntries),
	}
	log.Debugw("loaded sheets",
		"constituents", stats.ConstituentRows,
		"emails", stats.EmailRows,
		"donations", stats.DonationRows)

	// ------------------------------------------------------------------
	// Deduplicate
	// ------------------------------------------------------------------

	dd := dedupe.Select(rawRows)
	stats.MissingPatronID = dd.MissingID
	if dd.MissingID > 0 {
		log.Warnw("rows without Patron ID excluded", "count", dd.MissingID)
	}

	// ------------------------------------------------------------------
	// Aggregate donations, index auxiliary emails
	// ------------------------------------------------------------------

	rollups := donations.Aggregate(donationEntries, log)
	stats.DonationsExcluded = rollups.Excluded

	auxEmails := make(map[string][]string)
	for _, e := range emailEntries {
		if e.PatronID == "" {
			continue
		}
		auxEmails[e.PatronID] = append(auxEmails[e.PatronID], e.Email)
	}

	// ------------------------------------------------------------------
	// Normalize and assemble constituents
	// ------------------------------------------------------------------

	processor := tags.NewProcessor(p.mapper, p.cfg.Tags.Delimiter, log)

	constituents := make([]model.Constituent, 0, len(dd.Selected))
	for _, row := range dd.Selected {
		id := strings.TrimSpace(row.Field(model.ColPatronID))
		primary := row.Field(model.ColPrimaryEmail)

		email1, email2 := normalize.SelectEmails(primary, auxEmails[id])
		stats.MalformedEmails += countMalformed(primary, auxEmails[id])

		c := model.Constituent{
			PatronID:    id,
			FirstName:   normalize.Name(row.Field(model.ColFirstName)),
			LastName:    normalize.Name(row.Field(model.ColLastName)),
			Email1:      email1,
			Email2:      email2,
			DateEntered: normalize.Timestamp(row.Field(model.ColDateEntered)),
			Tags:        processor.Process(ctx, row.Field(model.ColTags)),
		}

		if r, ok := rollups.ByPatron[id]; ok && r.Count > 0 {
			c.TotalPaidCents = r.TotalCents
			c.PaidCount = r.Count
			c.HasPaid = true
		}

		constituents = append(constituents, c)
	}
	stats.TagLookupFailures = processor.LookupFailures

	tagCounts := tags.Count(constituents)
	stats.ConstituentsWritten = len(constituents)
	stats.TagsWritten = len(tagCounts)

	// ------------------------------------------------------------------
	// Write output
	// ------------------------------------------------------------------

	// The output directory must exist before anything is written.
	// Failing to create it is fatal: no partial output.
	if err := os.MkdirAll(p.cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", p.cfg.OutputDir, err)
	}

	res := &Result{
		RunID:            runID,
		ConstituentsFile: filepath.Join(p.cfg.OutputDir, "constituents.csv"),
		TagsFile:         filepath.Join(p.cfg.OutputDir, "tags.csv"),
	}

	if err := csvwriter.WriteConstituents(res.ConstituentsFile, constituents); err != nil {
		return nil, fmt.Errorf("failed to write constituents file: %w", err)
	}
	if err := csvwriter.WriteTags(res.TagsFile, tagCounts); err != nil {
		return nil, fmt.Errorf("failed to write tags file: %w", err)
	}

	stats.Duration = time.Since(start)
	res.Stats = stats

	reportFile, err := p.writeReport(res)
	if err != nil {
		// The report is bookkeeping, not output contract.
		log.Warnw("failed to write run report", "error", err)
	} else {
		res.ReportFile = reportFile
	}

	log.Infow("run complete",
		"constituents", stats.ConstituentsWritten,
		"tags", stats.TagsWritten,
		"duration", stats.Duration)

	return res, nil
}

// countMalformed counts email values that were present but dropped for
// bad format. These are the silent exclusions the quality report surfaces.
func countMalformed(primary string, aux []string) int {
	n := 0
	for _, raw := range append([]string{primary}, aux...) {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		if _, ok := normalize.Email(raw); !ok {
			n++
		}
	}
	return n
}
