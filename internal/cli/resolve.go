// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/taibuivan/smartimage/internal/core/imageview"
)

func newResolveCommand() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "resolve URL",
		Short: "Show how a smart URL is classified",
		Long: `Classify a smart URL without loading anything.

Catalog URLs report the asset name, the parsed delay and the cache key.
Everything else is reported as remote.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolution, err := imageview.NewService(nil, nil, nil).Resolve(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				encoder := json.NewEncoder(out)
				encoder.SetIndent("", "  ")
				return encoder.Encode(resolution)
			}

			fmt.Fprintf(out, "kind:      %s\n", resolution.Kind)
			if resolution.AssetName != "" {
				fmt.Fprintf(out, "asset:     %s\n", resolution.AssetName)
				fmt.Fprintf(out, "delay:     %ss\n", strconv.FormatFloat(*resolution.DelaySeconds, 'f', -1, 64))
				fmt.Fprintf(out, "cache key: %s\n", resolution.CacheKey)
			}
			if resolution.URL != "" {
				fmt.Fprintf(out, "url:       %s\n", resolution.URL)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the classification as JSON")

	return cmd
}
