// =============================================================================
// Patron Import - Inspect Command
// =============================================================================
//
// The 'inspect' command prints row counts, headers, and the first few data
// rows of each configured input sheet without writing any output. Useful
// for confirming the expected columns exist before a real run.
//
// =============================================================================

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/patron-tools/patron-import/internal/xlsxreader"
)

// inspectHeadRows is how many data rows to print per sheet.
const inspectHeadRows = 5

var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Print sheet row counts and headers from the input workbook",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInspect()
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

func runInspect() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	wb, err := xlsxreader.Open(cfg.InputFile)
	if err != nil {
		return err
	}
	defer wb.Close()

	for _, name := range []string{
		cfg.Sheets.Constituents,
		cfg.Sheets.Emails,
		cfg.Sheets.Donations,
	} {
		sheet, err := wb.Sheet(name)
		if err != nil {
			return err
		}

		fmt.Printf("=== %s ===\n", sheet.Name)
		fmt.Printf("Rows:    %d\n", len(sheet.Rows))
		fmt.Printf("Columns: %s\n", strings.Join(sheet.Headers, ", "))

		for i, row := range sheet.Rows {
			if i >= inspectHeadRows {
				break
			}
			values := make([]string, 0, len(sheet.Headers))
			for _, h := range sheet.Headers {
				if h == "" {
					continue
				}
				values = append(values, row[h])
			}
			fmt.Printf("  %s\n", strings.Join(values, " | "))
		}
		fmt.Println()
	}

	return nil
}
