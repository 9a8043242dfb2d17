// Package ddns implements the dynamic DNS update pipeline: parameter checks,
// configuration loading, hash authentication and record reconciliation,
// reported as a uniform Result.
package ddns

import (
	"errors"
	"fmt"
)

// Request is one update request as extracted by a transport handler.
// Empty fields are treated as absent.
type Request struct {
	Hostname   string
	Hash       string
	InternalIP string
	SourceIP   string
}

// MissingParameterError reports a required query parameter that was not sent.
type MissingParameterError struct {
	Name string
}

func (e *MissingParameterError) Error() string {
	return fmt.Sprintf("You have to pass '%s' querystring parameters.", e.Name)
}

// ErrNoSourceIP is returned when the transport could not determine the
// address the request came from.
var ErrNoSourceIP = errors.New("Source IP address cannot be extracted from request context.")

// EffectiveIP returns the address the record should point to: the reported
// internal IP when present, the source IP otherwise.
func (r Request) EffectiveIP() string {
	if r.InternalIP != "" {
		return r.InternalIP
	}
	return r.SourceIP
}

// validate checks the fields in the order clients are told about them.
func (r Request) validate() error {
	if r.Hostname == "" {
		return &MissingParameterError{Name: "hostname"}
	}
	if r.Hash == "" {
		return &MissingParameterError{Name: "hash"}
	}
	if r.SourceIP == "" {
		return ErrNoSourceIP
	}
	return nil
}
