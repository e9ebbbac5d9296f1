// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/taibuivan/smartimage/internal/platform/migration"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the catalog schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := environment(cmd)
				if err != nil {
					return err
				}
				if !cfg.HasDatabase() {
					return errors.New("migrate requires DATABASE_URL")
				}

				files, dir := migration.Source(cfg.MigrationPath)
				if err := migration.RunUp(cfg.DatabaseURL, files, dir, log); err != nil {
					return err
				}

				fmt.Fprintln(cmd.OutOrStdout(), "schema is up to date")
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg, log, err := environment(cmd)
				if err != nil {
					return err
				}
				if !cfg.HasDatabase() {
					return errors.New("migrate requires DATABASE_URL")
				}

				files, dir := migration.Source(cfg.MigrationPath)
				status, err := migration.Version(cfg.DatabaseURL, files, dir, log)
				if err != nil {
					return err
				}

				switch {
				case !status.Applied:
					fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				case status.Dirty:
					fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty)\n", status.Version)
				default:
					fmt.Fprintf(cmd.OutOrStdout(), "version %d\n", status.Version)
				}
				return nil
			},
		},
	)

	return cmd
}
