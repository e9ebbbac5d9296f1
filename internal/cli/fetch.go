// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/taibuivan/smartimage/internal/app"
	"github.com/taibuivan/smartimage/internal/core/asset"
)

func newFetchCommand() *cobra.Command {
	var (
		output  string
		timeout time.Duration
	)

	cmd := &cobra.Command{
		Use:   "fetch URL",
		Short: "Load a catalog asset the way the server would",
		Long: `Resolve URL and load it through the catalog, waiting out its delay.

The PNG bytes are written to --output ("-" for stdout). --timeout abandons
the load, including a pending delay.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := environment(cmd)
			if err != nil {
				return err
			}

			backends, err := app.Open(cmd.Context(), cfg, app.Options{SkipCache: true}, log)
			if err != nil {
				return err
			}
			defer backends.Close()

			source := asset.NewResolver(backends.Lookup(), asset.NetworkSource).ResolveString(args[0])
			switch {
			case source.Kind == asset.SourceProvider:
			case source.URL != nil:
				return fmt.Errorf("%s is a remote URL; fetch it with an HTTP client", source.URL)
			default:
				return fmt.Errorf("%q is not a URL", args[0])
			}

			ctx := cmd.Context()
			if timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			started := time.Now()
			data, err := asset.Await(ctx, source.Provider)
			if errors.Is(err, context.DeadlineExceeded) {
				return fmt.Errorf("gave up after %s", timeout)
			}
			if err != nil {
				return err
			}

			if output == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}

			if err := os.WriteFile(output, data, 0o644); err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s in %s\n",
				output, humanize.Bytes(uint64(len(data))), time.Since(started).Round(time.Millisecond))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "-", "file to write, - for stdout")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abandon the load after this long (0 waits indefinitely)")

	return cmd
}
