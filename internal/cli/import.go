// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"
	"sync/atomic"

	"github.com/dustin/go-humanize"
	"github.com/gobwas/glob"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/smartimage/internal/app"
	"github.com/taibuivan/smartimage/internal/core/asset"
)

func newImportCommand() *cobra.Command {
	var (
		include     string
		keepExt     bool
		concurrency int
	)

	cmd := &cobra.Command{
		Use:   "import DIR",
		Short: "Store the images of a directory in the PostgreSQL catalog",
		Long: `Upload every image file in DIR whose name matches --include.

Assets are named after the file without its extension unless --keep-ext is
set, so "hero.png" becomes asset-catalog://hero and "my hero.png" becomes
asset-catalog://my%20hero. Existing assets with the same
name are replaced.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			matcher, err := glob.Compile(include)
			if err != nil {
				return fmt.Errorf("invalid --include pattern: %w", err)
			}

			cfg, log, err := environment(cmd)
			if err != nil {
				return err
			}
			if !cfg.HasDatabase() {
				return errors.New("import requires DATABASE_URL")
			}

			source, err := asset.OpenDirCatalog(args[0])
			if err != nil {
				return err
			}
			names, err := source.List(cmd.Context())
			if err != nil {
				return err
			}

			backends, err := app.Open(cmd.Context(), cfg, app.Options{Migrate: true, SkipCache: true}, log)
			if err != nil {
				return err
			}
			defer backends.Close()

			service := asset.NewService(backends.Store(), nil, cfg.MaxUploadBytes, log)
			files := os.DirFS(args[0])

			var (
				stored atomic.Int64
				bytes  atomic.Int64
			)

			group, ctx := errgroup.WithContext(cmd.Context())
			group.SetLimit(max(concurrency, 1))

			for _, file := range names {
				if !matcher.Match(file) {
					continue
				}

				group.Go(func() error {
					data, err := fs.ReadFile(files, file)
					if err != nil {
						return err
					}

					entry, err := service.Put(ctx, assetName(file, keepExt), data)
					if err != nil {
						return fmt.Errorf("%s: %w", file, err)
					}

					stored.Add(1)
					bytes.Add(entry.SizeBytes)
					fmt.Fprintf(cmd.OutOrStdout(), "%-40s %10s  %s\n",
						file, humanize.Bytes(uint64(entry.SizeBytes)), entry.URL)
					return nil
				})
			}

			err = group.Wait()
			fmt.Fprintf(cmd.ErrOrStderr(), "imported %d assets (%s)\n",
				stored.Load(), humanize.Bytes(uint64(bytes.Load())))
			return err
		},
	}

	cmd.Flags().StringVar(&include, "include", "*", "glob of file names to import")
	cmd.Flags().BoolVar(&keepExt, "keep-ext", false, "keep the file extension in the asset name")
	cmd.Flags().IntVarP(&concurrency, "concurrency", "c", 4, "parallel uploads")

	return cmd
}

// assetName derives the catalog name of a file.
func assetName(file string, keepExt bool) string {
	if keepExt {
		return file
	}
	return strings.TrimSuffix(file, path.Ext(file))
}
