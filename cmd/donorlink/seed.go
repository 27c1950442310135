package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"donorlink/internal/donation/models"
	"donorlink/internal/donation/seed"
	"donorlink/internal/donation/store"
)

func newSeedCmd(a *app) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "seed <file>",
		Short: "Import a JSON or YAML donation export into PostgreSQL",
		Long: `Seed reads an export shaped like
  {medicineDonations: {key: {...}}, equipmentDonations: {...}, bloodDonations: {...}}
and upserts every record in one transaction. Record keys become donation IDs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			export, err := seed.Parse(f)
			if err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}
			out := cmd.OutOrStdout()
			for _, c := range models.Categories {
				fmt.Fprintf(out, "%-10s %d\n", c, len(export[c]))
			}
			if dryRun {
				return nil
			}

			cfg := settings(a.v)
			if cfg.PostgresDSN == "" {
				return errors.New("seed needs a postgres DSN (--postgres-dsn or DONORLINK_POSTGRES_DSN)")
			}
			st, err := openStores(ctx, cfg, a.logger)
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.postgres.RunInTx(ctx, func(tx store.BatchSaver) error {
				return seed.Import(ctx, tx, export)
			}); err != nil {
				return err
			}
			if st.cache != nil {
				if err := st.cache.Invalidate(ctx, models.Categories...); err != nil {
					a.logger.WarnContext(ctx, "cache invalidation failed; entries expire on their own", "error", err)
				}
			}
			fmt.Fprintf(out, "imported %d donations\n", export.Count())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "parse and count without writing")
	return cmd
}
