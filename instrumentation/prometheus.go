package instrumentation

import (
	"context"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gritlabs/grit/lazy"
)

// PrometheusOnRetryHook counts scheduled retries in a
// grit_retries_total{callable, retry_num, error_type} counter on the
// default Prometheus registry. Part of the default hook set; the counter is
// registered on the first scheduled retry, not at import time.
var PrometheusOnRetryHook = RetryHookFactory(initPrometheus) //nolint:gochecknoglobals

// retriesTotal registers the default counter at most once, no matter how
// often hooks are re-resolved.
var retriesTotal = lazy.New(func() *prometheus.CounterVec { //nolint:gochecknoglobals
	counter := newRetriesCounter()
	prometheus.MustRegister(counter)

	return counter
})

func newRetriesCounter() *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "grit_retries_total",
		Help: "Total number of scheduled retries.",
	}, []string{"callable", "retry_num", "error_type"})
}

func initPrometheus() RetryHook {
	return counterHook(retriesTotal.Get())
}

func counterHook(counter *prometheus.CounterVec) RetryHook {
	return func(_ context.Context, details RetryDetails) {
		counter.WithLabelValues(
			details.Name,
			strconv.Itoa(details.RetryNum),
			errorType(details.CausedBy),
		).Inc()
	}
}

// NewPrometheusHook builds a retry-counting hook registered on the given
// registry, for applications that do not use the default registerer.
func NewPrometheusHook(reg prometheus.Registerer) (RetryHook, error) {
	counter := newRetriesCounter()
	if err := reg.Register(counter); err != nil {
		return nil, err
	}

	return counterHook(counter), nil
}

// RetriesCounter returns the counter behind PrometheusOnRetryHook,
// registering it if that has not happened yet.
func RetriesCounter() *prometheus.CounterVec {
	return retriesTotal.Get()
}
