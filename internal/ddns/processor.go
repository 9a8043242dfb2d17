package ddns

import (
	"context"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/auth"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/config"
	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

// RecordUpdater makes a DNS record hold a value, reporting whether it wrote.
// *dns.Reconciler implements it.
type RecordUpdater interface {
	Update(ctx context.Context, record dns.Record) (bool, error)
}

// Processor runs update requests through the pipeline.
type Processor struct {
	Log      logr.Logger
	Config   config.Source
	DNS      RecordUpdater
	Provider string // provider name, used as a metrics label
}

// NewProcessor returns a Processor using the given collaborators.
func NewProcessor(log logr.Logger, source config.Source, updater RecordUpdater, provider string) *Processor {
	return &Processor{Log: log, Config: source, DNS: updater, Provider: provider}
}

// Process handles one update request. Checks run in a fixed order and the
// first failure ends processing; no DNS call is made before the hash has been
// verified.
func (p *Processor) Process(ctx context.Context, req Request) Result {
	res := p.process(ctx, req)
	updateResults.WithLabelValues(string(res.Status)).Inc()
	return res
}

func (p *Processor) process(ctx context.Context, req Request) Result {
	log := p.Log.WithValues("hostname", req.Hostname, "sourceIp", req.SourceIP)

	if err := req.validate(); err != nil {
		log.Info("rejecting request", "reason", err.Error())
		return Failure(err)
	}

	cfg, err := p.Config.Load(ctx)
	if err != nil {
		log.Error(err, "loading configuration")
		return Failure(err)
	}

	if err := auth.Check(req.Hostname, req.Hash, cfg.SharedSecret); err != nil {
		log.Info("hash check failed")
		return Failure(err)
	}

	record := dns.Record{
		Hostname: req.Hostname,
		Type:     cfg.RecordType,
		Value:    req.EffectiveIP(),
		TTL:      cfg.RecordTTL,
		Zone:     cfg.ZoneID,
		Region:   cfg.Region,
	}
	changed, err := p.DNS.Update(ctx, record)
	if err != nil {
		log.Error(err, "updating record", "value", record.Value)
		return Failure(err)
	}
	if changed {
		recordWrites.WithLabelValues(p.Provider).Inc()
	}

	log.V(1).Info("update processed", "value", record.Value, "changed", changed)
	return Success("OK")
}

// Check verifies that configuration can be loaded, without touching DNS.
func (p *Processor) Check(ctx context.Context) error {
	if _, err := p.Config.Load(ctx); err != nil {
		p.Log.Error(err, "configuration check failed")
		return err
	}
	return nil
}
