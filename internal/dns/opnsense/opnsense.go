package opnsense

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

func init() {
	dns.Register("opnsense", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements dns.Provider for OPNsense Unbound DNS host overrides.
// Unbound overrides carry no TTL; record TTLs are ignored.
type Provider struct {
	baseURL     string
	apiKey      string
	apiSecret   string
	description string
	client      *http.Client
	log         logr.Logger
}

// New creates an OPNsense DNS provider from the given settings map.
// Required settings: base_url, api_key, api_secret.
// Optional settings: description (default "managed by yk-ddns"),
// skip_tls_verify (default false).
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	baseURL := settings["base_url"]
	if baseURL == "" {
		return nil, fmt.Errorf("opnsense: missing required setting 'base_url'")
	}
	apiKey := settings["api_key"]
	if apiKey == "" {
		return nil, fmt.Errorf("opnsense: missing required setting 'api_key'")
	}
	apiSecret := settings["api_secret"]
	if apiSecret == "" {
		return nil, fmt.Errorf("opnsense: missing required setting 'api_secret'")
	}

	description := settings["description"]
	if description == "" {
		description = "managed by yk-ddns"
	}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	if v := settings["skip_tls_verify"]; v == "true" {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Provider{
		baseURL:     baseURL,
		apiKey:      apiKey,
		apiSecret:   apiSecret,
		description: description,
		client:      &http.Client{Transport: transport},
		log:         log,
	}, nil
}

// doRequest builds and executes an HTTP request against the OPNsense API.
func (p *Provider) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("opnsense: marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	url := strings.TrimRight(p.baseURL, "/") + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("opnsense: build request: %w", err)
	}

	req.SetBasicAuth(p.apiKey, p.apiSecret)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("opnsense: %s %s: %w", method, path, err)
	}
	return resp, nil
}

// reconfigure tells OPNsense to apply DNS changes.
func (p *Provider) reconfigure(ctx context.Context) error {
	resp, err := p.doRequest(ctx, http.MethodPost, "unbound/service/reconfigure", struct{}{})
	if err != nil {
		return fmt.Errorf("opnsense: reconfigure: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("opnsense: reconfigure returned status %d", resp.StatusCode)
	}

	var result struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("opnsense: decode reconfigure response: %w", err)
	}
	p.log.V(1).Info("reconfigure completed", "status", result.Status)
	return nil
}

// searchResponse is the shape returned by searchHostOverride.
type searchResponse struct {
	Rows []hostRow `json:"rows"`
}

// hostRow represents a single host override row from the search response.
type hostRow struct {
	UUID     string `json:"uuid"`
	Enabled  string `json:"enabled"`
	Hostname string `json:"hostname"`
	Domain   string `json:"domain"`
	RR       string `json:"rr"`
	Server   string `json:"server"`
}

// findOverride searches for an existing host override matching hostname and
// record type. It returns nil when there is none.
func (p *Provider) findOverride(ctx context.Context, fqdn, recordType string) (*hostRow, error) {
	resp, err := p.doRequest(ctx, http.MethodGet, "unbound/settings/searchHostOverride", nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("opnsense: searchHostOverride returned status %d", resp.StatusCode)
	}

	var sr searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		return nil, fmt.Errorf("opnsense: decode search response: %w", err)
	}

	host, domain := dns.SplitHostname(fqdn)
	for _, row := range sr.Rows {
		if strings.EqualFold(row.Hostname, host) &&
			strings.EqualFold(row.Domain, domain) &&
			strings.EqualFold(row.RR, recordType) {
			return &row, nil
		}
	}
	return nil, nil
}

// buildHostBody creates the JSON body for add/set host override calls.
func (p *Provider) buildHostBody(record dns.Record) map[string]interface{} {
	host, domain := dns.SplitHostname(record.Hostname)
	return map[string]interface{}{
		"host": map[string]string{
			"enabled":     "1",
			"hostname":    host,
			"domain":      domain,
			"rr":          record.Type,
			"server":      record.Value,
			"description": p.description,
			"mxprio":      "",
			"mx":          "",
		},
	}
}

// saveOverride posts a host override to an add or set endpoint and checks
// the "saved" result.
func (p *Provider) saveOverride(ctx context.Context, endpoint string, record dns.Record) error {
	resp, err := p.doRequest(ctx, http.MethodPost, endpoint, p.buildHostBody(record))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	name := strings.SplitN(strings.TrimPrefix(endpoint, "unbound/settings/"), "/", 2)[0]
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("opnsense: %s returned status %d: %s", name, resp.StatusCode, string(respBody))
	}

	var result struct {
		Result string `json:"result"`
		UUID   string `json:"uuid"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("opnsense: decode %s response: %w", name, err)
	}
	if result.Result != "saved" {
		return fmt.Errorf("opnsense: %s unexpected result: %s", name, result.Result)
	}
	return nil
}

// Read returns the address of the host override for the record, or "".
func (p *Provider) Read(ctx context.Context, record dns.Record) (string, error) {
	p.log.V(1).Info("reading record", "hostname", record.Hostname, "type", record.Type)
	row, err := p.findOverride(ctx, record.Hostname, record.Type)
	if err != nil {
		return "", err
	}
	if row == nil {
		return "", nil
	}
	return row.Server, nil
}

// Write updates the existing host override or adds a new one, then applies
// the Unbound configuration.
func (p *Provider) Write(ctx context.Context, record dns.Record) error {
	row, err := p.findOverride(ctx, record.Hostname, record.Type)
	if err != nil {
		return err
	}

	if row != nil {
		p.log.Info("updating record", "hostname", record.Hostname, "type", record.Type, "value", record.Value, "uuid", row.UUID)
		err = p.saveOverride(ctx, fmt.Sprintf("unbound/settings/setHostOverride/%s", row.UUID), record)
	} else {
		p.log.Info("creating record", "hostname", record.Hostname, "type", record.Type, "value", record.Value)
		err = p.saveOverride(ctx, "unbound/settings/addHostOverride", record)
	}
	if err != nil {
		return err
	}
	return p.reconfigure(ctx)
}
