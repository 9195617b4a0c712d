package traversal

import "github.com/prometheus/client_golang/prometheus"

var cyclesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fscrawler_traversal_cycles_total",
		Help: "Completed traversal cycles, partitioned by root and outcome.",
	},
	[]string{"root", "outcome"},
)

var documentsEmittedTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fscrawler_documents_emitted_total",
		Help: "Documents delivered to the sink, partitioned by root.",
	},
	[]string{"root"},
)

var transientErrorsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fscrawler_transient_errors_total",
		Help: "Transient repository errors encountered during traversal, partitioned by root.",
	},
	[]string{"root"},
)

func init() {
	prometheus.MustRegister(cyclesTotal, documentsEmittedTotal, transientErrorsTotal)
}
