package services_test

import (
	"context"
	"testing"

	"anydl/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "req-123")
	ctx = services.WithOrdinal(ctx, 2)

	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
	if ordinal, ok := services.OrdinalFromContext(ctx); !ok || ordinal != 2 {
		t.Fatalf("unexpected ordinal: %v %v", ordinal, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRequestID(ctx, "")
	ctx = services.WithOrdinal(ctx, -1)
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id")
	}
	if _, ok := services.OrdinalFromContext(ctx); ok {
		t.Fatal("expected no ordinal")
	}
}
