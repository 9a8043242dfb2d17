package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/go-logr/logr"

	"github.com/yuriy-kovalchuk/yk-ddns/internal/dns"
)

func init() {
	dns.Register("file", func(log logr.Logger, settings map[string]string) (dns.Provider, error) {
		return New(log, settings)
	})
}

type storedRecord struct {
	Hostname string `json:"hostname"`
	Type     string `json:"type"`
	Value    string `json:"value"`
	TTL      int    `json:"ttl"`
	Zone     string `json:"zone,omitempty"`
}

type storeFile struct {
	Records []storedRecord `json:"records"`
}

// Provider keeps records in memory and, when a path is set, persists every
// write to a JSON file.
type Provider struct {
	mu      sync.Mutex
	path    string
	records map[string]storedRecord // key: hostname + "/" + type
	log     logr.Logger
}

// New creates a file provider.
// Optional settings: path. Without a path records live only in memory.
func New(log logr.Logger, settings map[string]string) (*Provider, error) {
	p := &Provider{
		path:    settings["path"],
		records: make(map[string]storedRecord),
		log:     log,
	}
	if p.path == "" {
		return p, nil
	}
	if err := p.load(); err != nil {
		return nil, err
	}
	return p, nil
}

func recordKey(hostname, recordType string) string {
	return strings.ToLower(hostname) + "/" + strings.ToUpper(recordType)
}

// Read returns the stored value for the record, or "".
func (p *Provider) Read(_ context.Context, record dns.Record) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.records[recordKey(record.Hostname, record.Type)].Value, nil
}

// Write stores the record, replacing any previous value.
func (p *Provider) Write(_ context.Context, record dns.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	k := recordKey(record.Hostname, record.Type)
	prev, had := p.records[k]
	p.records[k] = storedRecord{
		Hostname: strings.ToLower(record.Hostname),
		Type:     strings.ToUpper(record.Type),
		Value:    record.Value,
		TTL:      record.TTL,
		Zone:     record.Zone,
	}

	if err := p.persistLocked(); err != nil {
		if had {
			p.records[k] = prev
		} else {
			delete(p.records, k)
		}
		return err
	}
	p.log.V(1).Info("stored record", "hostname", record.Hostname, "type", record.Type, "value", record.Value)
	return nil
}

func (p *Provider) load() error {
	raw, err := os.ReadFile(p.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("file: reading %s: %w", p.path, err)
	}

	var data storeFile
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("file: parsing %s: %w", p.path, err)
	}
	for _, r := range data.Records {
		p.records[recordKey(r.Hostname, r.Type)] = r
	}
	return nil
}

// persistLocked writes all records to the backing file atomically.
// Caller must hold p.mu.
func (p *Provider) persistLocked() error {
	if p.path == "" {
		return nil
	}

	data := storeFile{Records: make([]storedRecord, 0, len(p.records))}
	for _, r := range p.records {
		data.Records = append(data.Records, r)
	}
	sort.Slice(data.Records, func(i, j int) bool {
		return recordKey(data.Records[i].Hostname, data.Records[i].Type) < recordKey(data.Records[j].Hostname, data.Records[j].Type)
	})

	raw, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("file: marshalling records: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(p.path), "yk-ddns-*.json.tmp")
	if err != nil {
		return fmt.Errorf("file: creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("file: writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: closing temp file: %w", err)
	}
	if err := os.Rename(tmpName, p.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("file: renaming temp to %s: %w", p.path, err)
	}
	return nil
}
