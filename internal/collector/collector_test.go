package collector

import (
	"context"
	"testing"

	"SecurityWatchdog/internal/domain"
)

type stubCollector struct{ kind string }

func (s *stubCollector) Kind() string { return s.kind }

func (s *stubCollector) Collect(context.Context, Request) ([]domain.Item, error) {
	return nil, nil
}

func TestRegistryResolve(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(&stubCollector{kind: "rss"})

	if _, err := reg.Resolve("rss"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if _, err := reg.Resolve("search"); err == nil {
		t.Fatalf("expected an error for an unregistered kind")
	}
}

func TestRegistryRegisterReplaces(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	first := &stubCollector{kind: "rss"}
	second := &stubCollector{kind: "rss"}
	reg.Register(first)
	reg.Register(second)

	resolved, err := reg.Resolve("rss")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if resolved != second {
		t.Fatalf("Register must replace an existing implementation")
	}
}
