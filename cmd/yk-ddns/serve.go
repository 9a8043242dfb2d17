package main

import (
	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/server"
)

func newServeCmd(envFile *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the update endpoint over HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := ctrl.SetupSignalHandler()

			a, err := newApp(ctx, *envFile)
			if err != nil {
				return err
			}
			defer a.Close()

			addr := a.settings.Listen
			if listen != "" {
				addr = listen
			}
			srv := server.New(ctrl.Log.WithName("server"), addr, a.processor, a.settings.TrustForwardedFor)
			return srv.Start(ctx)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (overrides YK_DDNS_LISTEN)")
	return cmd
}
