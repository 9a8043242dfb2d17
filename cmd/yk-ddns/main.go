package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	ctrl "sigs.k8s.io/controller-runtime"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	_ "github.com/yuriy-kovalchuk/yk-ddns/internal/dns/providers"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := zap.Options{
		Development: true,
	}
	goflags := flag.NewFlagSet("zap", flag.ContinueOnError)
	opts.BindFlags(goflags)

	var envFile string

	root := &cobra.Command{
		Use:           "yk-ddns",
		Short:         "Dynamic DNS update endpoint",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			ctrl.SetLogger(zap.New(zap.UseFlagOptions(&opts)))
		},
	}
	root.PersistentFlags().AddGoFlagSet(goflags)
	root.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before reading settings")

	root.AddCommand(
		newServeCmd(&envFile),
		newLambdaCmd(&envFile),
		newHashCmd(&envFile),
		newVersionCmd(),
	)
	return root
}
