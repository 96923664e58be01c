package errors

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			result := test.class.String()
			if result != test.expected {
				t.Errorf("expected %s, got %s", test.expected, result)
			}
		})
	}
}

func TestIsTransient(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"connection timeout", ErrConnectionTimeout, true},
		{"context deadline exceeded", context.DeadlineExceeded, true},
		{"context canceled", context.Canceled, true},
		{"catalog unavailable", ErrCatalogUnavailable, false},
		{"wrapped catalog unavailable", fmt.Errorf("ping: %w", ErrCatalogUnavailable), false},
		{"malformed row", ErrMalformedRow, false},
		{"timeout in message", fmt.Errorf("operation timeout occurred"), true},
		{"bolt temporary failure", fmt.Errorf("temporary routing failure"), true},
		{"classified transient", &ClassifiedError{Class: ErrorTransient, Err: fmt.Errorf("test")}, true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsTransient(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"catalog unavailable", ErrCatalogUnavailable, true},
		{"invalid config", ErrInvalidConfig, true},
		{"missing config", ErrMissingConfig, true},
		{"batch aborted", ErrBatchAborted, true},
		{"connection timeout", ErrConnectionTimeout, false},
		{"entity not found", ErrEntityNotFound, false},
		{"auth failure in message", fmt.Errorf("neo4j authentication failure"), true},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("test")}, true},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, false},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsFatal(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"nil error", nil, false},
		{"malformed row", ErrMalformedRow, true},
		{"invalid curie", ErrInvalidCURIE, true},
		{"unknown tier", ErrUnknownTier, true},
		{"unknown strategy", ErrUnknownStrategy, true},
		{"catalog unavailable", ErrCatalogUnavailable, false},
		{"classified invalid", &ClassifiedError{Class: ErrorInvalid, Err: fmt.Errorf("test")}, true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := IsInvalid(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v for error: %v", test.expected, result, test.err)
			}
		})
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(ErrEntityNotFound) {
		t.Error("expected ErrEntityNotFound to be a not-found error")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", ErrEntityNotFound)) {
		t.Error("expected wrapped ErrEntityNotFound to be a not-found error")
	}
	if IsNotFound(ErrCatalogUnavailable) {
		t.Error("catalog unavailability must not read as a per-entity miss")
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"nil error", nil, ErrorTransient},
		{"catalog unavailable", ErrCatalogUnavailable, ErrorFatal},
		{"malformed row", ErrMalformedRow, ErrorInvalid},
		{"connection timeout", ErrConnectionTimeout, ErrorTransient},
		{"unknown error", fmt.Errorf("something odd"), ErrorTransient},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			result := Classify(test.err)
			if result != test.expected {
				t.Errorf("expected %v, got %v", test.expected, result)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	err := Wrap(base, "Resolver", "Resolve", "direct lookup")
	if err == nil {
		t.Fatal("expected wrapped error")
	}
	if !errors.Is(err, base) {
		t.Error("wrapped error should unwrap to base")
	}
	expected := "Resolver.Resolve: direct lookup failed: boom"
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}

	if Wrap(nil, "a", "b", "c") != nil {
		t.Error("wrapping nil should return nil")
	}
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		check func(error) bool
	}{
		{"transient", WrapTransient, IsTransient},
		{"fatal", WrapFatal, IsFatal},
		{"invalid", WrapInvalid, IsInvalid},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			err := test.wrap(base, "Catalog", "Lookup", "query")
			if err == nil {
				t.Fatal("expected error")
			}
			if !test.check(err) {
				t.Errorf("expected %s classification", test.name)
			}
			if !errors.Is(err, base) {
				t.Error("classified error should unwrap to base")
			}
			if !strings.Contains(err.Error(), "Catalog.Lookup") {
				t.Errorf("expected component context in message, got %q", err.Error())
			}
			if test.wrap(nil, "a", "b", "c") != nil {
				t.Error("wrapping nil should return nil")
			}
		})
	}
}
