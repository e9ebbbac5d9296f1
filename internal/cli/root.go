// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cli implements assetctl, the operator tool for the asset catalog.

Commands read the same environment variables as the server (see
[config.Config]), so a shell configured for the server can inspect and
fill its catalog:

	assetctl resolve 'asset-catalog://hero?delay=2'
	assetctl fetch 'asset-catalog://hero' -o hero.png
	assetctl import ./design/export --include '*.png'
	assetctl token --subject ci-uploader --ttl 1h
	assetctl migrate up
*/
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/taibuivan/smartimage/internal/app"
	"github.com/taibuivan/smartimage/internal/platform/config"
	"github.com/taibuivan/smartimage/internal/platform/constants"
)

// NewRootCommand builds the assetctl command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:           "assetctl",
		Short:         "Inspect and manage the smart image asset catalog",
		Version:       constants.AppVersion,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log backend activity to stderr")

	root.AddCommand(
		newResolveCommand(),
		newFetchCommand(),
		newImportCommand(),
		newTokenCommand(),
		newMigrateCommand(),
	)

	return root
}

// Execute runs assetctl with ctx and prints a failure to stderr.
func Execute(ctx context.Context, args []string) int {
	root := NewRootCommand()
	root.SetArgs(args)

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(root.ErrOrStderr(), "Error:", err)
		return 1
	}
	return 0
}

// environment loads the configuration and a logger for commands that touch backends.
func environment(cmd *cobra.Command) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	output := io.Discard
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		output = cmd.ErrOrStderr()
	}

	return cfg, app.NewLogger(output, cfg.Debug), nil
}
