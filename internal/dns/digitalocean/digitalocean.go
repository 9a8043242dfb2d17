package digitalocean

import (
	"context"
	"fmt"
	"net/http"

	"github.com/digitalocean/godo"
	"github.com/go-logr/logr"
	"golang.org/x/oauth2"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

func init() {
	dns.Register("digitalocean", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider for DigitalOcean domains. The record zone
// is the domain name registered with DigitalOcean.
type Provider struct {
	client *godo.Client
	log    logr.Logger
}

// New creates a DigitalOcean provider.
// Required settings: token.
// Optional settings: base_url (API endpoint override).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	token := settings["token"]
	if token == "" {
		return nil, fmt.Errorf("digitalocean: missing required setting 'token'")
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
	return newWithHTTPClient(log, httpClient, settings["base_url"])
}

func newWithHTTPClient(log logr.Logger, httpClient *http.Client, baseURL string) (*Provider, error) {
	var opts []godo.ClientOpt
	if baseURL != "" {
		opts = append(opts, godo.SetBaseURL(baseURL))
	}
	client, err := godo.New(httpClient, opts...)
	if err != nil {
		return nil, fmt.Errorf("digitalocean: creating client: %w", err)
	}
	return &Provider{client: client, log: log}, nil
}

func (p *Provider) find(ctx context.Context, record dns.Record) (*godo.DomainRecord, error) {
	if record.Zone == "" {
		return nil, fmt.Errorf("digitalocean: missing domain")
	}
	records, _, err := p.client.Domains.RecordsByTypeAndName(ctx, record.Zone, record.Type, record.Hostname, nil)
	if err != nil {
		return nil, fmt.Errorf("digitalocean: list %s records for %s: %w", record.Type, record.Hostname, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

// Read returns the data of the matching domain record, or "".
func (p *Provider) Read(ctx context.Context, record dns.Record) (string, error) {
	existing, err := p.find(ctx, record)
	if err != nil || existing == nil {
		return "", err
	}
	return existing.Data, nil
}

// Write edits the matching domain record or creates a new one.
func (p *Provider) Write(ctx context.Context, record dns.Record) error {
	existing, err := p.find(ctx, record)
	if err != nil {
		return err
	}

	req := &godo.DomainRecordEditRequest{
		Type: record.Type,
		Name: dns.RelativeName(record.Hostname, record.Zone),
		Data: record.Value,
		TTL:  record.TTL,
	}

	if existing != nil {
		p.log.Info("editing domain record", "hostname", record.Hostname, "id", existing.ID, "value", record.Value)
		if _, _, err := p.client.Domains.EditRecord(ctx, record.Zone, existing.ID, req); err != nil {
			return fmt.Errorf("digitalocean: edit record %d: %w", existing.ID, err)
		}
		return nil
	}

	p.log.Info("creating domain record", "hostname", record.Hostname, "value", record.Value)
	if _, _, err := p.client.Domains.CreateRecord(ctx, record.Zone, req); err != nil {
		return fmt.Errorf("digitalocean: create record %s: %w", record.Hostname, err)
	}
	return nil
}
