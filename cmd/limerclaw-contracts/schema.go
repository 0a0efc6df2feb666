package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/limerclaw/shared-types/contracts"
	"github.com/limerclaw/shared-types/internal/conformance"
	"github.com/limerclaw/shared-types/internal/storage"
	"github.com/limerclaw/shared-types/migrations"
)

func newSchemaCheckCmd(a *app) *cobra.Command {
	var (
		schema string
		apply  bool
	)
	cmd := &cobra.Command{
		Use:   "schema-check",
		Short: "Compare DATABASE_URL against the persisted row shapes",
		Long: `Read information_schema for the LimerClaw tables and report missing tables,
missing columns, column type mismatches and nullability mismatches.
Extra tables and columns are ignored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.cfg.RequireDatabase(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), a.cfg.SchemaCheckTimeout)
			defer cancel()

			db, err := storage.New(ctx, a.cfg.DatabaseURL, a.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			if apply {
				if err := db.RunMigrations(ctx, migrations.FS); err != nil {
					return err
				}
				a.logger.Info("reference migrations applied")
			}

			report, err := conformance.Check(ctx, db, schema, contracts.PersistedTables())
			if err != nil {
				return err
			}
			if err := a.printJSON(report); err != nil {
				return err
			}
			if !report.OK() {
				for _, f := range report.Findings {
					a.logger.Warn("schema drift", "finding", f.String())
				}
				return fmt.Errorf("%d schema findings in %q", len(report.Findings), schema)
			}
			a.logger.Info("schema conforms", "schema", schema, "tables", report.Tables)
			return nil
		},
	}
	cmd.Flags().StringVar(&schema, "schema", "public", "database schema holding the LimerClaw tables")
	cmd.Flags().BoolVar(&apply, "apply-reference", false, "apply the embedded reference migrations before checking")
	return cmd
}
