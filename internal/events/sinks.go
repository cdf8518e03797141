package events

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// LogSink emits one structured log line per check event.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink wires a zap logger to the sink interface.
func NewLogSink(logger *zap.Logger) *LogSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogSink{logger: logger}
}

// Consume logs the event with structured fields.
func (s *LogSink) Consume(event Event) {
	s.logger.Info("check event",
		zap.Int64("address_id", event.AddressID),
		zap.String("url", event.URL),
		zap.String("outcome", event.Outcome),
		zap.Int("status_code", event.StatusCode),
		zap.Int64("bytes", event.Bytes),
		zap.Duration("dur", event.Dur),
	)
}

// PrometheusSink exports check metrics. It owns the collectors for check
// counts, fetched bytes, and fetch duration.
type PrometheusSink struct {
	checksTotal   *prometheus.CounterVec
	fetchBytes    prometheus.Counter
	fetchDuration prometheus.Histogram
}

// NewPrometheusSink registers the collectors against the provided registry.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		checksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pagewatch_checks_total",
			Help: "Check attempts partitioned by outcome.",
		}, []string{"outcome"}),
		fetchBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pagewatch_fetch_bytes_total",
			Help: "Bytes downloaded by successful fetches.",
		}),
		fetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pagewatch_fetch_duration_seconds",
			Help:    "Fetch duration for checks that reached the remote host.",
			Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
		}),
	}
	for _, collector := range []prometheus.Collector{
		s.checksTotal,
		s.fetchBytes,
		s.fetchDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Consume updates the collectors from one event.
func (s *PrometheusSink) Consume(event Event) {
	s.checksTotal.WithLabelValues(event.Outcome).Inc()
	if event.Outcome == OutcomeRecorded {
		s.fetchBytes.Add(float64(event.Bytes))
		s.fetchDuration.Observe(event.Dur.Seconds())
	}
}
