package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "error with cause",
			err: Wrap(KindTransport, "call_upstream", "request failed",
				errors.New("connection refused")),
			contains: []string{"[transport:call_upstream]", "request failed", "connection refused"},
		},
		{
			name:     "error without cause",
			err:      New(KindExtraction, "extract", "no candidates in response"),
			contains: []string{"[extraction:extract]", "no candidates in response"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errStr := tt.err.Error()
			for _, substr := range tt.contains {
				if !strings.Contains(errStr, substr) {
					t.Errorf("error string %q does not contain %q", errStr, substr)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	wrappedErr := Wrap(KindConfig, "test", "wrapped", originalErr)

	if !errors.Is(wrappedErr, originalErr) {
		t.Error("Unwrap should return the original error")
	}
}

func TestIsKind(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		kind     Kind
		expected bool
	}{
		{
			name:     "direct error kind match",
			err:      New(KindTransport, "test", "message"),
			kind:     KindTransport,
			expected: true,
		},
		{
			name:     "wrapped error kind match",
			err:      Wrap(KindExtraction, "test", "message", errors.New("cause")),
			kind:     KindExtraction,
			expected: true,
		},
		{
			name:     "error kind mismatch",
			err:      New(KindConfig, "test", "message"),
			kind:     KindExtraction,
			expected: false,
		},
		{
			name:     "non-typed error",
			err:      errors.New("plain error"),
			kind:     KindConfig,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsKind(tt.err, tt.kind)
			if result != tt.expected {
				t.Errorf("IsKind() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestKindOf(t *testing.T) {
	if got := KindOf(New(KindClientInput, "normalize", "empty image data")); got != KindClientInput {
		t.Errorf("KindOf() = %v, expected %v", got, KindClientInput)
	}
	if got := KindOf(errors.New("plain")); got != KindUnknown {
		t.Errorf("KindOf() = %v, expected %v", got, KindUnknown)
	}
}

func TestDetail(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "typed without cause",
			err:      New(KindExtraction, "extract", "missing field: reason"),
			expected: "missing field: reason",
		},
		{
			name:     "typed with cause",
			err:      Wrap(KindTransport, "call_upstream", "upstream returned status 503", errors.New("service unavailable")),
			expected: "upstream returned status 503: service unavailable",
		},
		{
			name:     "plain error",
			err:      errors.New("something broke"),
			expected: "something broke",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detail(tt.err); got != tt.expected {
				t.Errorf("Detail() = %q, expected %q", got, tt.expected)
			}
		})
	}
}
