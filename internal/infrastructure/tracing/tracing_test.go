package tracing

import (
	"context"
	"net/http"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func TestSetup_InjectsTraceparent(t *testing.T) {
	shutdown := Setup("storefront-test", "test")
	defer func() { _ = shutdown(context.Background()) }()

	ctx, span := otel.Tracer("test").Start(context.Background(), "op")
	defer span.End()

	if !span.SpanContext().IsSampled() {
		t.Fatalf("expected a sampled span")
	}

	h := http.Header{}
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(h))
	if h.Get("traceparent") == "" {
		t.Fatalf("expected a traceparent header")
	}
}
