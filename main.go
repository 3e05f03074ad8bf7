// =============================================================================
// Patron Import - Main Entry Point
// =============================================================================
//
// patron-import is a one-shot batch tool that turns a single exported
// spreadsheet of client records into two normalized CSV files matching the
// fixed import schema of the target system.
//
// USAGE:
//   patron-import process    - Run the full cleaning pipeline
//   patron-import inspect    - Print sheet row counts and headers
//   patron-import version    - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core pipeline logic (not for external import)
//
// =============================================================================

package main

import (
	"github.com/patron-tools/patron-import/cmd"
)

func main() {
	cmd.Execute()
}
