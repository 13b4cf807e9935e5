// =============================================================================
// BOM Structure Converter - Convert Command
// =============================================================================
//
// This file defines the 'convert' command, the main entry point for running
// conversions.
//
// COMMAND USAGE:
//   bomconv convert <file-or-directory> [flags]
//
// FLAGS:
//   --assembly   : Top-level assembly code, used to name output files
//   --type       : Conversion type (structure, parts, descriptions,
//                  materials, verify-olz); default structure
//   --reference  : Registered-codes CSV for verify-olz
//   --output     : Output directory override
//
// A directory argument expands to every .xlsx file inside it. Files are
// converted concurrently up to the configured limit, and one failing file
// does not stop the others unless stop_on_error is set.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"

	"github.com/olsenbrasil/bom-csv-conversion/internal/converter"
	"github.com/olsenbrasil/bom-csv-conversion/internal/validation"
	"github.com/olsenbrasil/bom-csv-conversion/pkg/utils"
)

// assemblyCode is the top-level assembly code for the run.
var assemblyCode string

// conversionType selects which output to generate.
var conversionType string

// referenceFile is the registered-codes sheet for verify-olz.
var referenceFile string

// outputDirFlag overrides the configured output directory.
var outputDirFlag string

// convertCmd represents the 'convert' command.
var convertCmd = &cobra.Command{
	Use:   "convert <file-or-directory>",
	Short: "Convert BOM exports into ERP import files",
	Long: `The convert command reads one XLSX export, or every export in a directory,
and generates the selected import file for each.

The structure conversion creates a folder "ESTRUTURA <assembly>" holding the
import CSV, the exclusions report, and a copy of the input. The other
conversions write their CSV next to the input (or into --output).`,
	Args: cobra.ExactArgs(1),
	RunE: runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	if assemblyCode == "" {
		// Fall back to the input file name, which by convention is the
		// assembly code.
		assemblyCode = utils.BaseNameWithoutExt(args[0])
	}
	if outputDirFlag != "" {
		cfg.OutputDir = outputDirFlag
	}
	if referenceFile != "" {
		cfg.ReferenceFile = referenceFile
	}

	inputs, err := converter.InputsFromDir(args[0])
	if err != nil {
		return err
	}

	logger.Info("starting run", "inputs", len(inputs), "type", conversionType, "assembly", assemblyCode)

	results := convertAll(inputs)

	failed := 0
	for _, result := range results {
		if !result.Success {
			failed++
			fmt.Fprintf(os.Stderr, "FAILED  %s: %v\n", result.InputFile, result.Error)
			continue
		}
		fmt.Printf("OK      %s", filepath.Base(result.InputFile))
		if result.OutputFile != "" {
			fmt.Printf(" -> %s (%d records)", result.OutputFile, result.Stats.Records)
		}
		fmt.Println()
		for _, w := range result.Warnings {
			fmt.Printf("  warning: %s\n", w)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d file(s) failed", failed, len(inputs))
	}
	return nil
}

// convertAll runs the conversions with a bounded worker pool. Results come
// back in input order.
func convertAll(inputs []string) []converter.Result {
	results := make([]converter.Result, len(inputs))

	limit := cfg.MaxConcurrency
	if limit > len(inputs) {
		limit = len(inputs)
	}
	sem := make(chan struct{}, limit)

	var wg sync.WaitGroup
	var stop sync.Once
	stopped := make(chan struct{})

	for i, input := range inputs {
		wg.Add(1)
		go func(i int, input string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			select {
			case <-stopped:
				results[i] = converter.Result{
					InputFile: input,
					Error:     fmt.Errorf("skipped after earlier failure"),
				}
				return
			default:
			}

			req := validation.Request{
				InputFile:     input,
				Assembly:      assemblyForInput(input, len(inputs)),
				Type:          conversionType,
				ReferenceFile: cfg.ReferenceFile,
			}
			results[i] = converter.New(req, cfg, logger).Run()

			if !results[i].Success && cfg.StopOnError {
				stop.Do(func() { close(stopped) })
			}
		}(i, input)
	}

	wg.Wait()
	return results
}

// assemblyForInput picks the assembly code per file. With a single input
// the --assembly flag wins; in a directory run each file is its own
// assembly, named after the file.
func assemblyForInput(input string, totalInputs int) string {
	if totalInputs == 1 {
		return assemblyCode
	}
	return utils.BaseNameWithoutExt(input)
}

func init() {
	convertCmd.Flags().StringVarP(
		&assemblyCode,
		"assembly",
		"a",
		"",
		"Top-level assembly code (default: input file name)",
	)
	convertCmd.Flags().StringVarP(
		&conversionType,
		"type",
		"t",
		validation.TypeStructure,
		"Conversion type: structure, parts, descriptions, materials, verify-olz",
	)
	convertCmd.Flags().StringVar(
		&referenceFile,
		"reference",
		"",
		"Registered-codes CSV for the verify-olz conversion",
	)
	convertCmd.Flags().StringVarP(
		&outputDirFlag,
		"output",
		"o",
		"",
		"Output directory (default: next to each input file)",
	)

	rootCmd.AddCommand(convertCmd)
}
