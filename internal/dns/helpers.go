package dns

import (
	"fmt"
	"net"
	"strings"

	"golang.org/x/net/idna"
)

// SplitHostname splits an FQDN into subdomain and domain parts.
// e.g. "app.example.com" → ("app", "example.com")
// e.g. "sub.app.example.com" → ("sub.app", "example.com")
func SplitHostname(fqdn string) (hostname, domain string) {
	fqdn = strings.TrimSuffix(fqdn, ".")
	parts := strings.SplitN(fqdn, ".", 2)
	if len(parts) < 2 {
		return fqdn, ""
	}
	return parts[0], parts[1]
}

// RelativeName returns hostname relative to zone, "@" for the apex.
// e.g. ("home.example.com", "example.com") → "home"
func RelativeName(hostname, zone string) string {
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	zone = strings.TrimSuffix(strings.ToLower(zone), ".")
	if hostname == zone {
		return "@"
	}
	if rel, ok := strings.CutSuffix(hostname, "."+zone); ok {
		return rel
	}
	return hostname
}

// CanonicalHostname converts hostname to its lower-case ASCII form without a
// trailing dot.
func CanonicalHostname(hostname string) (string, error) {
	h := strings.TrimSuffix(strings.TrimSpace(hostname), ".")
	if h == "" {
		return "", fmt.Errorf("empty hostname")
	}
	ascii, err := idna.Lookup.ToASCII(h)
	if err != nil {
		return "", fmt.Errorf("invalid hostname %q: %w", hostname, err)
	}
	return strings.ToLower(ascii), nil
}

// ValidateValue checks that value is an address of the given record type.
// The textual form decides the family, so an IPv4-mapped IPv6 address such
// as "::ffff:192.0.2.1" is an AAAA value and not an A value.
func ValidateValue(recordType, value string) error {
	ip := net.ParseIP(value)
	isV6 := strings.Contains(value, ":")
	switch recordType {
	case "A":
		if ip == nil || isV6 {
			return fmt.Errorf("value %q is not a valid IPv4 address", value)
		}
	case "AAAA":
		if ip == nil || !isV6 {
			return fmt.Errorf("value %q is not a valid IPv6 address", value)
		}
	default:
		return fmt.Errorf("unsupported record type %q", recordType)
	}
	return nil
}

// SameAddress reports whether a and b are the same IP address, comparing
// textual forms when either does not parse.
func SameAddress(a, b string) bool {
	ipA, ipB := net.ParseIP(a), net.ParseIP(b)
	if ipA == nil || ipB == nil {
		return a == b
	}
	return ipA.Equal(ipB)
}
