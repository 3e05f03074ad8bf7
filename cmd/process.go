// =============================================================================
// Patron Import - Process Command
// =============================================================================
//
// The 'process' command runs the full cleaning pipeline:
//   1. Load configuration
//   2. Read the three input sheets from the workbook
//   3. Normalize fields, deduplicate by Patron ID
//   4. Clean and remap tags, roll up paid donations
//   5. Write constituents.csv and tags.csv plus a run report
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/patron-tools/patron-import/internal/pipeline"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Run the cleaning pipeline and write the import CSVs",
	Long: `The process command reads the configured input workbook, applies the
normalization and deduplication rules, and writes the two output files to
the configured output directory.

Data-quality problems (malformed emails, unparseable donation amounts,
rows without a Patron ID, an unreachable tag-mapping service) are logged
and counted, never fatal. Only an unreadable input file or an unwritable
output file aborts the run — there is no partial output.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	log, err := newLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to init logger: %w", err)
	}
	defer log.Sync()

	p, err := pipeline.New(cfg, log)
	if err != nil {
		return err
	}

	res, err := p.Run(ctx)
	if err != nil {
		return err
	}

	s := res.Stats
	fmt.Println("=== Patron Import ===")
	fmt.Printf("Input rows:           %d constituents, %d emails, %d donations\n",
		s.ConstituentRows, s.EmailRows, s.DonationRows)
	fmt.Printf("Constituents written: %d -> %s\n", s.ConstituentsWritten, res.ConstituentsFile)
	fmt.Printf("Tags written:         %d -> %s\n", s.TagsWritten, res.TagsFile)
	fmt.Printf("Excluded:             %d missing Patron ID, %d bad emails, %d bad donation amounts\n",
		s.MissingPatronID, s.MalformedEmails, s.DonationsExcluded)
	if s.TagLookupFailures > 0 {
		fmt.Printf("Tag lookups failed:   %d (raw tags used)\n", s.TagLookupFailures)
	}
	if res.ReportFile != "" {
		fmt.Printf("Run report:           %s\n", res.ReportFile)
	}
	fmt.Printf("Time elapsed:         %s\n", s.Duration)

	return nil
}
