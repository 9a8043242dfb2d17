package ddns

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "yk_ddns"

var updateResults = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metricsNamespace,
	Name:      "update_results_total",
	Help:      "Counter of update requests by result status.",
}, []string{"status"})

var recordWrites = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: metricsNamespace,
	Name:      "record_writes_total",
	Help:      "Counter of DNS record writes issued to the provider.",
}, []string{"provider"})
