package main

import (
	"context"
	"fmt"
	"io"

	ctrl "sigs.k8s.io/controller-runtime"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/ddns"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/version"
)

// app holds the wired pipeline shared by the serve and lambda commands.
type app struct {
	settings  *config.Settings
	processor *ddns.Processor
	closers   []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		_ = c.Close()
	}
}

func newApp(ctx context.Context, envFile string) (*app, error) {
	log := ctrl.Log.WithName("setup")
	log.Info("starting yk-ddns", "version", version.Version)

	settings, err := config.LoadSettings(envFile)
	if err != nil {
		return nil, fmt.Errorf("unable to load settings: %w", err)
	}

	providerCfg, err := config.LoadProviderConfig(settings.ProviderPath)
	if err != nil {
		return nil, fmt.Errorf("unable to load provider config: %w", err)
	}
	log.Info("loaded provider config", "path", settings.ProviderPath, "provider", providerCfg.Provider)

	dnsProvider, err := dns.NewProvider(providerCfg.Provider, ctrl.Log.WithName("dns-"+providerCfg.Provider), providerCfg.Settings)
	if err != nil {
		return nil, fmt.Errorf("unable to create DNS provider: %w", err)
	}

	source, err := config.NewSource(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("unable to create config source: %w", err)
	}
	log.Info("configured config source", "source", settings.ConfigSource)

	a := &app{settings: settings}
	if c, ok := source.(io.Closer); ok {
		a.closers = append(a.closers, c)
	}

	reconciler := dns.NewReconciler(ctrl.Log.WithName("reconciler"), dnsProvider)
	a.processor = ddns.NewProcessor(ctrl.Log.WithName("processor"), source, reconciler, providerCfg.Provider)
	return a, nil
}
