package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/invoice"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/service"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/validator"
	"github.com/FACorreiaa/gst-filing/pkg/config"
)

var validateFlags struct {
	period  string
	autoFix bool
	verbose bool
}

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Import a sales export and report every validation finding",
	Example: `  # Check a Flipkart export against the February 2026 period
  gst-filing validate flipkart-feb.xlsx --period 022026

  # Show what auto-fix would change
  gst-filing validate sales.csv --period 022026 --fix --verbose`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFlags.period, "period", "p", "", "filing period as MMYYYY (required)")
	validateCmd.Flags().BoolVar(&validateFlags.autoFix, "fix", false, "apply safe automatic corrections before reporting")
	validateCmd.Flags().BoolVarP(&validateFlags.verbose, "verbose", "v", false, "print every issue, not just the summary")
	validateCmd.MarkFlagRequired("period")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	svc := service.NewFilingService(newLogger()).WithChunkSize(cfg.Filing.ValidationChunkSize)

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open %s: %w", args[0], err)
	}
	defer f.Close()

	result, err := svc.Import(ctx, filepath.Base(args[0]), f)
	if err != nil {
		return err
	}
	fmt.Printf("Detected platform: %s (%d rows parsed, %d skipped)\n",
		result.Platform, result.ParsedRows, result.SkippedRows)
	for _, col := range result.Columns {
		if col.Index < 0 && col.Hint != "" {
			fmt.Printf("Unmapped column %q - closest header: %q\n", col.Field, col.Hint)
		}
	}

	summary, err := svc.Validate(ctx, result.Records, validateFlags.period)
	if err != nil {
		return err
	}
	if validateFlags.autoFix {
		var fixed int
		summary, fixed, err = svc.AutoFix(ctx, result.Records, validateFlags.period)
		if err != nil {
			return err
		}
		fmt.Printf("Auto-fix changed %d record(s)\n", fixed)
		if validateFlags.verbose {
			for _, rec := range result.Records {
				for _, entry := range rec.FixLog {
					fmt.Printf("  %s: %s\n", rec.InvoiceNo, entry)
				}
			}
		}
	}
	printSummary(summary)

	if validateFlags.verbose {
		printIssues(result.Records)
	}
	return nil
}

func printSummary(s validator.Summary) {
	fmt.Printf("Validated %d record(s): %d clean, %d with errors, %d with warnings, %d with info\n",
		s.Total, s.CleanRows, s.ErrorRows, s.WarningRows, s.InfoRows)
}

func printIssues(records []*invoice.Record) {
	for _, rec := range records {
		for _, is := range rec.Issues {
			line := fmt.Sprintf("  [%s] %s (%s): %s", is.Severity, rec.InvoiceNo, is.Field, is.Message)
			if is.Suggestion != "" {
				line += " - " + is.Suggestion
			}
			fmt.Println(line)
		}
	}
}
