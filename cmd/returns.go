package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	filingrepo "github.com/FACorreiaa/gst-filing/internal/domain/filing/repository"
	"github.com/FACorreiaa/gst-filing/internal/domain/profile"
	"github.com/FACorreiaa/gst-filing/pkg/config"
	"github.com/FACorreiaa/gst-filing/pkg/db"
	"github.com/FACorreiaa/gst-filing/pkg/money"
	"github.com/FACorreiaa/gst-filing/pkg/storage"
)

var returnsCmd = &cobra.Command{
	Use:   "returns",
	Short: "Inspect generated returns for the active profile",
}

var returnsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List generated returns, newest first",
	RunE:  runReturnsList,
}

var returnsMarkFiledCmd = &cobra.Command{
	Use:   "mark-filed [id]",
	Short: "Record that a return was filed on the portal",
	Args:  cobra.ExactArgs(1),
	RunE:  runReturnsMarkFiled,
}

var returnsDownloadDir string

var returnsDownloadCmd = &cobra.Command{
	Use:   "download [period]",
	Short: "Copy a period's stored artifacts out of the archive",
	Long: `Retrieve the portal JSON and review workbook that process --with-db
stored for a filing period of the active profile.`,
	Args: cobra.ExactArgs(1),
	RunE: runReturnsDownload,
}

var returnsArtifactsCmd = &cobra.Command{
	Use:   "artifacts",
	Short: "List every stored artifact for the active profile",
	RunE:  runReturnsArtifacts,
}

func init() {
	returnsDownloadCmd.Flags().StringVarP(&returnsDownloadDir, "out", "o", ".", "directory to write the artifacts to")
	returnsCmd.AddCommand(returnsListCmd, returnsMarkFiledCmd, returnsDownloadCmd, returnsArtifactsCmd)
	rootCmd.AddCommand(returnsCmd)
}

func runReturnsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	active, err := profile.NewRepository(pool).GetActive(ctx)
	if err != nil {
		return err
	}

	returns, err := filingrepo.NewRepository(pool).List(ctx, active.ID)
	if err != nil {
		return err
	}
	if len(returns) == 0 {
		fmt.Printf("No returns generated yet for %s\n", active.GSTIN)
		return nil
	}
	for _, ret := range returns {
		fmt.Printf("%s  %s  %-9s  %4d invoices  taxable %s  tax %s\n",
			ret.ID, ret.FilingPeriod, ret.Status, ret.InvoiceCount,
			money.FormatINR(ret.TotalTaxable), money.FormatINR(ret.TotalTax))
	}
	return nil
}

func runReturnsDownload(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	active, err := profile.NewRepository(pool).GetActive(ctx)
	if err != nil {
		return err
	}
	ret, err := filingrepo.NewRepository(pool).Get(ctx, active.ID, args[0])
	if err != nil {
		return err
	}

	store, err := storage.New(&storage.Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		LocalPath: cfg.Storage.LocalPath,
	})
	if err != nil {
		return err
	}

	written := 0
	for _, artifactID := range []*uuid.UUID{ret.JSONArtifactID, ret.XLSXArtifactID} {
		if artifactID == nil {
			continue
		}
		if err := copyArtifact(ctx, store, active.ID, *artifactID); err != nil {
			return err
		}
		written++
	}
	if written == 0 {
		return fmt.Errorf("return %s has no stored artifacts; regenerate with: gst-filing process --with-db", ret.ID)
	}
	return nil
}

func copyArtifact(ctx context.Context, store storage.Storage, profileID, artifactID uuid.UUID) error {
	rc, info, err := store.Open(ctx, profileID, artifactID)
	if err != nil {
		return fmt.Errorf("open artifact %s: %w", artifactID, err)
	}
	defer rc.Close()

	dst := filepath.Join(returnsDownloadDir, info.Name)
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, rc); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}
	fmt.Printf("Wrote %s\n", dst)
	return nil
}

func runReturnsArtifacts(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	active, err := profile.NewRepository(pool).GetActive(ctx)
	if err != nil {
		return err
	}

	store, err := storage.New(&storage.Config{
		Type:      storage.StorageType(cfg.Storage.Type),
		LocalPath: cfg.Storage.LocalPath,
	})
	if err != nil {
		return err
	}

	artifacts, err := store.List(ctx, active.ID)
	if err != nil {
		return err
	}
	if len(artifacts) == 0 {
		fmt.Printf("No stored artifacts for %s\n", active.GSTIN)
		return nil
	}
	for _, a := range artifacts {
		fmt.Printf("%s  %8d bytes  %s  %s\n", a.ID, a.Size, a.CreatedAt.Format("2006-01-02 15:04"), a.Name)
	}
	return nil
}

func runReturnsMarkFiled(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid return id: %w", err)
	}
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		return err
	}
	defer pool.Close()

	if err := filingrepo.NewRepository(pool).MarkFiled(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Return %s marked as filed\n", id)
	return nil
}
