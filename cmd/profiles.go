package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/FACorreiaa/gst-filing/internal/domain/filing/lookup"
	"github.com/FACorreiaa/gst-filing/internal/domain/profile"
	"github.com/FACorreiaa/gst-filing/pkg/config"
	"github.com/FACorreiaa/gst-filing/pkg/db"
)

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "Manage seller profiles",
}

var profilesAddCmd = &cobra.Command{
	Use:   "add [gstin]",
	Short: "Create a seller profile, enriched via GSTIN lookup",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesAdd,
}

var profilesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List seller profiles",
	RunE:  runProfilesList,
}

var profilesActivateCmd = &cobra.Command{
	Use:   "activate [id]",
	Short: "Make a profile the active one",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesActivate,
}

var profilesDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfilesDelete,
}

func init() {
	profilesCmd.AddCommand(profilesAddCmd, profilesListCmd, profilesActivateCmd, profilesDeleteCmd)
	rootCmd.AddCommand(profilesCmd)
}

func openProfiles(ctx context.Context) (*profile.Repository, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := db.NewPool(ctx, cfg.Database.DSN())
	if err != nil {
		return nil, nil, err
	}
	if err := db.Migrate(cfg.Database.DSN()); err != nil {
		pool.Close()
		return nil, nil, err
	}
	return profile.NewRepository(pool), pool.Close, nil
}

func runProfilesAdd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	repo, closeFn, err := openProfiles(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

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

	p := &profile.Profile{GSTIN: args[0]}
	if details, err := client.Fetch(ctx, args[0]); err == nil {
		p.LegalName = details.LegalName
		p.TradeName = details.TradeName
		p.StateCode = details.StateCode
		p.StateName = details.StateName
	}

	created, err := repo.Create(ctx, p)
	if err != nil {
		return err
	}
	fmt.Printf("Created profile %s (%s)", created.ID, created.GSTIN)
	if created.IsActive {
		fmt.Print(" [active]")
	}
	fmt.Println()
	return nil
}

func runProfilesList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	repo, closeFn, err := openProfiles(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	profiles, err := repo.List(ctx)
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Println("No profiles yet. Create one with: gst-filing profiles add <gstin>")
		return nil
	}
	for _, p := range profiles {
		marker := " "
		if p.IsActive {
			marker = "*"
		}
		fmt.Printf("%s %s  %s  %s (%s)\n", marker, p.ID, p.GSTIN, p.LegalName, p.StateName)
	}
	return nil
}

func runProfilesActivate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile id: %w", err)
	}
	repo, closeFn, err := openProfiles(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := repo.Activate(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Profile %s is now active\n", id)
	return nil
}

func runProfilesDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	id, err := uuid.Parse(args[0])
	if err != nil {
		return fmt.Errorf("invalid profile id: %w", err)
	}
	repo, closeFn, err := openProfiles(ctx)
	if err != nil {
		return err
	}
	defer closeFn()

	if err := repo.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Profile %s deleted\n", id)
	return nil
}
