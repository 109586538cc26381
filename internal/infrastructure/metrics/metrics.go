package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK          = "ok"
	ResultNotFound    = "not_found"
	ResultInvalid     = "invalid"
	ResultStorageFail = "storage_error"
)

type Registry struct {
	reg              *prometheus.Registry
	Operations       *prometheus.CounterVec
	DocumentIO       *prometheus.HistogramVec
	DocumentRecords  prometheus.Gauge
	CanonicalOrders  prometheus.Gauge
	DuplicatesMerged prometheus.Counter
}

func NewRegistry() *Registry {
	r := prometheus.NewRegistry()
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orderdesk_store_operations_total",
		Help: "Order store operations by operation and result.",
	}, []string{"operation", "result"})
	documentIO := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "orderdesk_document_io_seconds",
		Help:    "Latency of full-document loads and saves.",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
	records := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_document_records",
		Help: "Raw records in the order document after the last load or save.",
	})
	canonical := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "orderdesk_canonical_orders",
		Help: "Orders in the canonical list after the last merge.",
	})
	duplicates := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orderdesk_merge_discarded_total",
		Help: "Raw records dropped by the merge rule on read.",
	})

	r.MustRegister(operations, documentIO, records, canonical, duplicates)
	return &Registry{
		reg:              r,
		Operations:       operations,
		DocumentIO:       documentIO,
		DocumentRecords:  records,
		CanonicalOrders:  canonical,
		DuplicatesMerged: duplicates,
	}
}

func (r *Registry) ObserveOperation(operation, result string) {
	r.Operations.WithLabelValues(operation, result).Inc()
}

func (r *Registry) ObserveDocumentIO(op string, started time.Time, records int) {
	r.DocumentIO.WithLabelValues(op).Observe(time.Since(started).Seconds())
	r.DocumentRecords.Set(float64(records))
}

func (r *Registry) ObserveMerge(canonical, discarded int) {
	r.CanonicalOrders.Set(float64(canonical))
	if discarded > 0 {
		r.DuplicatesMerged.Add(float64(discarded))
	}
}

func (r *Registry) Handler() http.Handler { return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{}) }
