package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"inspectnet/internal/repository"
	"inspectnet/internal/store"
)

// migrationObserver notes whether a load rewrote the blob
type migrationObserver struct {
	migrated bool
	size     int
}

func (m *migrationObserver) Saved(size int) { m.size = size }
func (m *migrationObserver) Migrated()      { m.migrated = true }

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade stored settings to the current schema",
	Long: `Migrate loads the stored settings once. A legacy or missing blob is
rewritten in the current schema; a current blob is left untouched.
The time of the last save is reported afterwards.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}

		repo, err := repository.Open(cfg.Database.Driver, cfg.Database.Path)
		if err != nil {
			return err
		}
		defer repo.Close()

		observer := &migrationObserver{}
		st := store.New(repo)
		st.SetObserver(observer)
		if err := st.Load(cmd.Context()); err != nil {
			return err
		}

		if observer.migrated {
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s to schema v1 (%d bytes)\n", cfg.Database.Path, observer.size)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "%s is already at schema v1\n", cfg.Database.Path)
		}

		saved, err := repo.LastSaved(cmd.Context())
		if err != nil {
			return err
		}
		if saved != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "Last saved: %s\n", saved.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
