package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/version"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Get()
			fmt.Fprintf(cmd.OutOrStdout(), "yk-ddns %s (%s <%s>)\n", info.Version, info.Author, info.AuthorEmail)
		},
	}
}
