// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/taibuivan/smartimage/internal/platform/config"
	"github.com/taibuivan/smartimage/internal/platform/constants"
	"github.com/taibuivan/smartimage/internal/platform/sec"
)

func newTokenCommand() *cobra.Command {
	var (
		subject string
		role    string
		ttl     time.Duration
		keyPath string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an access token for the management API",
		Long: `Sign an RS256 token with the private key at --key (default
JWT_PRIVATE_KEY_PATH). The server accepts it when JWT_PUBLIC_KEY_PATH holds
the matching public key.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if keyPath == "" {
				cfg, err := config.Load()
				if err != nil {
					return err
				}
				keyPath = cfg.JWTPrivKeyPath
			}
			if keyPath == "" {
				return errors.New("no private key: set --key or JWT_PRIVATE_KEY_PATH")
			}

			signer, err := sec.NewSignerFromFile(keyPath, constants.AuthIssuer)
			if err != nil {
				return err
			}

			token, err := signer.Sign(subject, sec.UserRole(role), ttl)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}

	cmd.Flags().StringVar(&subject, "subject", "", "who the token is issued to")
	cmd.Flags().StringVar(&role, "role", string(sec.RoleAdmin), "admin or viewer")
	cmd.Flags().DurationVar(&ttl, "ttl", constants.DefaultTokenTTL, "token lifetime")
	cmd.Flags().StringVar(&keyPath, "key", "", "PEM private key (overrides JWT_PRIVATE_KEY_PATH)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
