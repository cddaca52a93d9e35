package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sales-dashboard/internal/datasource"
)

func newSeedCmd(c *cli) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate sample sales into SQLite",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if dbPath == "" {
				dbPath = c.cfg.Source.SQLitePath
			}

			gen, err := datasource.NewGenerator(generatorOptions(c.cfg.Generator))
			if err != nil {
				return err
			}
			records, err := gen.Load(cmd.Context())
			if err != nil {
				return err
			}

			db, err := datasource.NewSQLite(dbPath)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := db.Save(cmd.Context(), records); err != nil {
				return err
			}

			total, err := db.Count(cmd.Context())
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "seeded %d transactions into %s (%d total)\n", len(records), dbPath, total)
			return nil
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "", "SQLite database file (default source.sqlite_path)")

	return cmd
}
