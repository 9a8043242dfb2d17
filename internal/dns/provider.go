package dns

import "context"

// Record represents the single address record the service manages for a host.
type Record struct {
	Hostname string // FQDN without trailing dot, e.g. "home.example.com"
	Type     string // "A" or "AAAA"
	Value    string // IP address
	TTL      int
	Zone     string // provider zone identifier (hosted zone id, zone apex, domain)
	Region   string // provider region, for providers that have one
}

// Provider is the interface that DNS providers must implement.
//
// Read returns the value currently published for the record's hostname and
// type, or "" when there is none. Write creates or replaces that record set
// so that it holds exactly record.Value.
type Provider interface {
	Read(ctx context.Context, record Record) (string, error)
	Write(ctx context.Context, record Record) error
}
