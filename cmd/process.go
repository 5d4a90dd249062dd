package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/generator"
	filingrepo "github.com/FACorreiaa/gst-filing/internal/domain/filing/repository"
	"github.com/FACorreiaa/gst-filing/internal/domain/filing/service"
	"github.com/FACorreiaa/gst-filing/internal/domain/profile"
	"github.com/FACorreiaa/gst-filing/pkg/config"
	"github.com/FACorreiaa/gst-filing/pkg/db"
	"github.com/FACorreiaa/gst-filing/pkg/storage"
)

var processFlags struct {
	period  string
	gstin   string
	outDir  string
	autoFix bool
	withDB  bool
}

var processCmd = &cobra.Command{
	Use:   "process [file]",
	Short: "Run the full pipeline: import, validate, fix, generate",
	Long: `Process a sales export end to end. The file's marketplace format is
detected automatically. Rows that still carry errors after validation
block generation; run with --fix to apply the safe automatic
corrections first.`,
	Example: `  # Generate GSTR-1 artifacts for January 2026
  gst-filing process sales.xlsx --period 012026 --gstin 29AAPFU0939F1ZR

  # Apply auto-fixes before generating, write artifacts to ./out
  gst-filing process sales.csv --period 012026 --fix --out ./out`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processCmd.Flags().StringVarP(&processFlags.period, "period", "p", "", "filing period as MMYYYY (required)")
	processCmd.Flags().StringVarP(&processFlags.gstin, "gstin", "g", "", "seller GSTIN (defaults to the active profile)")
	processCmd.Flags().StringVarP(&processFlags.outDir, "out", "o", ".", "directory for the JSON and XLSX artifacts")
	processCmd.Flags().BoolVar(&processFlags.autoFix, "fix", false, "apply safe automatic corrections before generating")
	processCmd.Flags().BoolVar(&processFlags.withDB, "with-db", false, "persist the run against the active profile in Postgres")
	processCmd.MarkFlagRequired("period")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := newLogger()
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	svc := service.NewFilingService(logger).WithChunkSize(cfg.Filing.ValidationChunkSize)
	sellerGSTIN := processFlags.gstin
	if sellerGSTIN == "" {
		sellerGSTIN = cfg.Filing.SellerGSTIN
	}

	if processFlags.withDB {
		pool, err := db.NewPool(ctx, cfg.Database.DSN())
		if err != nil {
			return err
		}
		defer pool.Close()
		if err := db.Migrate(cfg.Database.DSN()); err != nil {
			return err
		}

		store, err := storage.New(&storage.Config{
			Type:      storage.StorageType(cfg.Storage.Type),
			LocalPath: cfg.Storage.LocalPath,
		})
		if err != nil {
			return err
		}
		svc = svc.
			WithProfiles(profile.NewRepository(pool)).
			WithReturns(filingrepo.NewRepository(pool)).
			WithStorage(store)
	}

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

	summary, err := svc.Validate(ctx, result.Records, processFlags.period)
	if err != nil {
		return err
	}
	if processFlags.autoFix {
		var fixed int
		summary, fixed, err = svc.AutoFix(ctx, result.Records, processFlags.period)
		if err != nil {
			return err
		}
		fmt.Printf("Auto-fix changed %d record(s)\n", fixed)
	}
	printSummary(summary)

	gen, err := svc.Generate(ctx, result.Records, sellerGSTIN, processFlags.period)
	if err != nil {
		return err
	}
	for _, w := range gen.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	fmt.Printf("Sections: %d B2B invoice(s), %d B2CS group(s), %d HSN row(s); taxable %.2f, tax %.2f\n",
		gen.Summary.B2BCount, gen.Summary.B2CSCount, gen.Summary.HSNCount,
		gen.Summary.TotalTaxable, gen.Summary.TotalTax)

	jsonPath := filepath.Join(processFlags.outDir, generator.FileName(processFlags.period, "json"))
	if err := os.WriteFile(jsonPath, gen.JSON, 0644); err != nil {
		return fmt.Errorf("write %s: %w", jsonPath, err)
	}
	xlsxPath := filepath.Join(processFlags.outDir, generator.FileName(processFlags.period, "xlsx"))
	if err := os.WriteFile(xlsxPath, gen.Workbook, 0644); err != nil {
		return fmt.Errorf("write %s: %w", xlsxPath, err)
	}

	fmt.Printf("Wrote %s and %s\n", jsonPath, xlsxPath)
	return nil
}
