package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTruncate(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		maxChars int
		want     string
	}{
		{name: "shorter than limit", input: "hello", maxChars: 10, want: "hello"},
		{name: "exactly at limit", input: "hello", maxChars: 5, want: "hello"},
		{name: "cut at limit", input: "hello world", maxChars: 5, want: "hello"},
		{name: "multibyte aware", input: "héllo wörld", maxChars: 6, want: "héllo "},
		{name: "zero budget", input: "hello", maxChars: 0, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Truncate(tt.input, tt.maxChars))
		})
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryOptions{MaxAttempts: 3, Delay: time.Millisecond}, func() error {
		attempts++
		if attempts < 3 {
			return errors.New("transient")
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryReturnsLastError(t *testing.T) {
	boom := errors.New("boom")
	attempts := 0
	err := Retry(context.Background(), RetryOptions{MaxAttempts: 2, Delay: time.Millisecond}, func() error {
		attempts++
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, attempts)
}

func TestRetryStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, RetryOptions{MaxAttempts: 5, Delay: time.Millisecond}, func() error {
		return errors.New("never reached")
	})

	assert.ErrorIs(t, err, context.Canceled)
}
