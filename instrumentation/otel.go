package instrumentation

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const otelScopeName = "github.com/gritlabs/grit/instrumentation"

// OTelOnRetryHook records scheduled retries through OpenTelemetry: an event
// on the span found in the call's context plus a grit.retries counter from
// the global meter provider. Not part of the default hook set; register it
// explicitly:
//
//	instrumentation.SetOnRetryHooks(instrumentation.OTelOnRetryHook)
var OTelOnRetryHook = RetryHookFactory(initOTel) //nolint:gochecknoglobals

func initOTel() RetryHook {
	meter := otel.Meter(otelScopeName)

	counter, err := meter.Int64Counter("grit.retries",
		metric.WithDescription("Total number of scheduled retries."),
	)
	if err != nil {
		otel.Handle(err)
	}

	return func(ctx context.Context, details RetryDetails) {
		attrs := []attribute.KeyValue{
			attribute.String("retry.callable", details.Name),
			attribute.Int("retry.num", details.RetryNum),
			attribute.String("retry.error_type", errorType(details.CausedBy)),
		}

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.AddEvent("retry.scheduled", trace.WithAttributes(append(attrs,
				attribute.Float64("retry.wait_for_seconds", details.WaitFor.Seconds()),
				attribute.Float64("retry.waited_so_far_seconds", details.WaitedSoFar.Seconds()),
			)...))
		}

		if counter != nil {
			counter.Add(ctx, 1, metric.WithAttributes(attrs...))
		}
	}
}
