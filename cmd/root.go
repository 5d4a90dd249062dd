// Package cmd wires the filing pipeline into the command-line interface.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "gst-filing",
	Short: "gst-filing - turn marketplace sales exports into GSTR-1 filings",
	Long: `gst-filing ingests e-commerce sales spreadsheets (Amazon, Flipkart or
custom formats), validates every invoice row against the GSTR-1 rules,
applies safe automatic corrections, and emits the GST portal JSON along
with an XLSX review workbook.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}
