package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/auth"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/config"
)

func newHashCmd(envFile *string) *cobra.Command {
	var secret string

	cmd := &cobra.Command{
		Use:   "hash HOSTNAME",
		Short: "Print the hash a client must send to update HOSTNAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				settings, err := config.LoadSettings(*envFile)
				if err != nil {
					return err
				}
				source, err := config.NewSource(cmd.Context(), settings)
				if err != nil {
					return err
				}
				cfg, err := source.Load(cmd.Context())
				if err != nil {
					return err
				}
				secret = cfg.SharedSecret
			}
			fmt.Fprintln(cmd.OutOrStdout(), auth.Compute(args[0], secret))
			return nil
		},
	}
	cmd.Flags().StringVar(&secret, "secret", "", "shared secret (default: read from the configured config source)")
	return cmd
}
