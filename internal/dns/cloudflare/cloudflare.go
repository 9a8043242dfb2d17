package cloudflare

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudflare/cloudflare-go"
	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

func init() {
	dns.Register("cloudflare", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider for Cloudflare. The record zone is the
// Cloudflare zone ID.
type Provider struct {
	api     *cloudflare.API
	proxied *bool
	log     logr.Logger
}

// New creates a Cloudflare provider.
// Required settings: api_token.
// Optional settings: proxied ("true"/"false"), base_url (API endpoint override).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	token := settings["api_token"]
	if token == "" {
		return nil, fmt.Errorf("cloudflare: missing required setting 'api_token'")
	}

	var opts []cloudflare.Option
	if v := settings["base_url"]; v != "" {
		opts = append(opts, cloudflare.BaseURL(v))
	}

	api, err := cloudflare.NewWithAPIToken(token, opts...)
	if err != nil {
		return nil, fmt.Errorf("cloudflare: creating client: %w", err)
	}

	p := &Provider{api: api, log: log}
	if v := settings["proxied"]; v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("cloudflare: invalid proxied %q: %w", v, err)
		}
		p.proxied = &b
	}
	return p, nil
}

func (p *Provider) find(ctx context.Context, record dns.Record) (*cloudflare.DNSRecord, error) {
	if record.Zone == "" {
		return nil, fmt.Errorf("cloudflare: missing zone id")
	}
	records, _, err := p.api.ListDNSRecords(ctx, cloudflare.ZoneIdentifier(record.Zone), cloudflare.ListDNSRecordsParams{
		Type: record.Type,
		Name: record.Hostname,
	})
	if err != nil {
		return nil, fmt.Errorf("cloudflare: list %s records for %s: %w", record.Type, record.Hostname, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Read returns the content of the matching record, or "".
func (p *Provider) Read(ctx context.Context, record dns.Record) (string, error) {
	existing, err := p.find(ctx, record)
	if err != nil || existing == nil {
		return "", err
	}
	return existing.Content, nil
}

// Write updates the matching record in place or creates it.
func (p *Provider) Write(ctx context.Context, record dns.Record) error {
	existing, err := p.find(ctx, record)
	if err != nil {
		return err
	}
	rc := cloudflare.ZoneIdentifier(record.Zone)

	if existing != nil {
		p.log.Info("updating record", "hostname", record.Hostname, "type", record.Type, "value", record.Value, "id", existing.ID)
		_, err = p.api.UpdateDNSRecord(ctx, rc, cloudflare.UpdateDNSRecordParams{
			ID:      existing.ID,
			Type:    record.Type,
			Name:    record.Hostname,
			Content: record.Value,
			TTL:     record.TTL,
			Proxied: p.proxied,
		})
		if err != nil {
			return fmt.Errorf("cloudflare: update record %s: %w", existing.ID, err)
		}
		return nil
	}

	p.log.Info("creating record", "hostname", record.Hostname, "type", record.Type, "value", record.Value)
	_, err = p.api.CreateDNSRecord(ctx, rc, cloudflare.CreateDNSRecordParams{
		Type:    record.Type,
		Name:    record.Hostname,
		Content: record.Value,
		TTL:     record.TTL,
		Proxied: p.proxied,
	})
	if err != nil {
		return fmt.Errorf("cloudflare: create record %s: %w", record.Hostname, err)
	}
	return nil
}
