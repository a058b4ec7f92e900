package common

import (
	"errors"
	"fmt"
	"testing"
)

func TestKindOfUnwrapsChain(t *testing.T) {
	base := NewProviderError(errors.New("timeout"), "c1")
	wrapped := fmt.Errorf("search failed: %w", base)

	if got := KindOf(wrapped); got != KindProvider {
		t.Fatalf("expected %s, got %s", KindProvider, got)
	}
	if got := CodeOf(wrapped, "fallback"); got != "c1" {
		t.Fatalf("expected code c1, got %s", got)
	}
	if !errors.Is(wrapped, base.Err) {
		t.Fatalf("expected the underlying error to be reachable")
	}
}

func TestIsRetryable(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"provider", NewProviderError(errors.New("503"), "c"), true},
		{"configuration", NewConfigurationError("c", "missing %s", "KEY"), false},
		{"parse", NewParseError(errors.New("bad json"), "c"), false},
		{"validation", NewValidationError("c", "empty"), false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := IsRetryable(tc.err); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestKindOfPlainErrorIsInternal(t *testing.T) {
	if got := KindOf(errors.New("x")); got != KindInternal {
		t.Fatalf("expected %s, got %s", KindInternal, got)
	}
	if got := CodeOf(errors.New("x"), "fb"); got != "fb" {
		t.Fatalf("expected fallback code, got %s", got)
	}
}
