package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/lookup"
	"github.com/FACorreiaa/gst-filing/pkg/config"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup [gstin]",
	Short: "Fetch the registered party details for a GSTIN",
	Long: `Look up the legal name, trade name and state for a GSTIN. With
GST_LOOKUP_BASE_URL set the query goes to the configured provider;
otherwise the embedded registry answers, synthesizing placeholder
details for GSTINs it does not know.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	var client lookup.Client
	if cfg.Lookup.BaseURL != "" {
		client = lookup.NewHTTPClient(cfg.Lookup.BaseURL, cfg.Lookup.APIKey, newLogger())
	} else {
		client = lookup.NewStaticClient()
	}

	details, err := client.Fetch(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(details); err != nil {
		return fmt.Errorf("encode details: %w", err)
	}
	return nil
}
