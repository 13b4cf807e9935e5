// =============================================================================
// BOM Structure Converter - Main Entry Point
// =============================================================================
//
// This is the main entry point for the BOM Structure Converter CLI. It
// initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   bomconv convert <file-or-directory>  - Run a conversion
//   bomconv version                      - Display the application version
//
// ARCHITECTURE:
//   - cmd/       : CLI command definitions (Cobra)
//   - internal/  : Core business logic (not for external import)
//   - pkg/       : Shared utilities
//
// =============================================================================

package main

import (
	"github.com/olsenbrasil/bom-csv-conversion/cmd"
)

func main() {
	cmd.Execute()
}
