package rfc2136

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/go-logr/logr"
	"github.com/miekg/dns"

	ykdns "github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

const (
	defaultAlgorithm = dns.HmacSHA256
	defaultTimeout   = 10 * time.Second
	tsigFudge        = 300
)

func init() {
	ykdns.Register("rfc2136", func(log logr.Logger, settings map[string]string) (ykdns.Provider, error) {
		return New(log, settings)
	})
}

// Provider implements ykdns.Provider with RFC 2136 dynamic updates sent to a
// primary name server. The record zone is the zone apex.
type Provider struct {
	server    string
	keyName   string
	keySecret string
	algorithm string
	client    *dns.Client
	log       logr.Logger
}

// New creates an RFC 2136 provider.
// Required settings: server (host or host:port).
// Optional settings: key_name, key_secret, key_algorithm, net ("udp"/"tcp"), timeout.
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	server := settings["server"]
	if server == "" {
		return nil, fmt.Errorf("rfc2136: missing required setting 'server'")
	}
	if _, _, err := net.SplitHostPort(server); err != nil {
		server = net.JoinHostPort(server, "53")
	}

	keyName, keySecret := settings["key_name"], settings["key_secret"]
	if (keyName == "") != (keySecret == "") {
		return nil, fmt.Errorf("rfc2136: 'key_name' and 'key_secret' must be set together")
	}

	algorithm := defaultAlgorithm
	if v := settings["key_algorithm"]; v != "" {
		algorithm = dns.Fqdn(strings.ToLower(v))
	}

	timeout := defaultTimeout
	if v := settings["timeout"]; v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("rfc2136: invalid timeout %q: %w", v, err)
		}
		timeout = d
	}

	client := &dns.Client{Net: settings["net"], Timeout: timeout}
	if keyName != "" {
		keyName = dns.Fqdn(keyName)
		client.TsigSecret = map[string]string{keyName: keySecret}
	}

	return &Provider{
		server:    server,
		keyName:   keyName,
		keySecret: keySecret,
		algorithm: algorithm,
		client:    client,
		log:       log,
	}, nil
}

func rrType(recordType string) (uint16, error) {
	t, ok := dns.StringToType[strings.ToUpper(recordType)]
	if !ok {
		return 0, fmt.Errorf("rfc2136: unknown record type %q", recordType)
	}
	return t, nil
}

// Read queries the server for the record and returns the first address.
func (p *Provider) Read(ctx context.Context, record ykdns.Record) (string, error) {
	qtype, err := rrType(record.Type)
	if err != nil {
		return "", err
	}

	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(record.Hostname), qtype)
	m.RecursionDesired = false

	in, _, err := p.client.ExchangeContext(ctx, m, p.server)
	if err != nil {
		return "", fmt.Errorf("rfc2136: query %s: %w", record.Hostname, err)
	}
	switch in.Rcode {
	case dns.RcodeSuccess:
	case dns.RcodeNameError:
		return "", nil
	default:
		return "", fmt.Errorf("rfc2136: query %s: %s", record.Hostname, dns.RcodeToString[in.Rcode])
	}

	for _, rr := range in.Answer {
		switch v := rr.(type) {
		case *dns.A:
			if qtype == dns.TypeA {
				return v.A.String(), nil
			}
		case *dns.AAAA:
			if qtype == dns.TypeAAAA {
				return v.AAAA.String(), nil
			}
		}
	}
	return "", nil
}

// Write replaces the record set with a single record in one UPDATE message.
func (p *Provider) Write(ctx context.Context, record ykdns.Record) error {
	if record.Zone == "" {
		return fmt.Errorf("rfc2136: missing zone")
	}
	fqdn := dns.Fqdn(record.Hostname)

	rr, err := dns.NewRR(fmt.Sprintf("%s %d IN %s %s", fqdn, record.TTL, strings.ToUpper(record.Type), record.Value))
	if err != nil {
		return fmt.Errorf("rfc2136: building record: %w", err)
	}

	m := new(dns.Msg)
	m.SetUpdate(dns.Fqdn(record.Zone))
	m.RemoveRRset([]dns.RR{rr})
	m.Insert([]dns.RR{rr})
	if p.keyName != "" {
		m.SetTsig(p.keyName, p.algorithm, tsigFudge, time.Now().Unix())
	}

	p.log.Info("sending dynamic update", "hostname", record.Hostname, "type", record.Type, "value", record.Value, "server", p.server)
	in, _, err := p.client.ExchangeContext(ctx, m, p.server)
	if err != nil {
		return fmt.Errorf("rfc2136: update %s: %w", record.Hostname, err)
	}
	if in.Rcode != dns.RcodeSuccess {
		return fmt.Errorf("rfc2136: update %s rejected: %s", record.Hostname, dns.RcodeToString[in.Rcode])
	}
	return nil
}

