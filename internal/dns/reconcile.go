package dns

import (
	"context"
	"strings"

	"github.com/go-logr/logr"
)

// Reconciler brings a single record in line with a reported address using a
// Provider: it reads the current value and writes only when it differs.
type Reconciler struct {
	Provider Provider
	Log      logr.Logger
}

// NewReconciler returns a Reconciler for p.
func NewReconciler(log logr.Logger, p Provider) *Reconciler {
	return &Reconciler{Provider: p, Log: log}
}

// Update makes record.Hostname resolve to record.Value. It reports whether a
// write was issued. Repeated calls with an unchanged value never write.
func (r *Reconciler) Update(ctx context.Context, record Record) (bool, error) {
	hostname, err := CanonicalHostname(record.Hostname)
	if err != nil {
		return false, err
	}
	record.Hostname = hostname
	record.Type = strings.ToUpper(record.Type)

	if err := ValidateValue(record.Type, record.Value); err != nil {
		return false, err
	}

	current, err := r.Provider.Read(ctx, record)
	if err != nil {
		return false, err
	}
	if current != "" && SameAddress(current, record.Value) {
		r.Log.V(1).Info("record already up to date, skipping", "hostname", hostname, "type", record.Type, "value", current)
		return false, nil
	}

	if err := r.Provider.Write(ctx, record); err != nil {
		return false, err
	}
	r.Log.Info("record updated", "hostname", hostname, "type", record.Type, "old", current, "new", record.Value)
	return true, nil
}
