package ai

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"cancelled", context.Canceled, false},
		{"deadline", fmt.Errorf("call: %w", context.DeadlineExceeded), true},
		{"rate limited", &StatusError{Provider: "groq", StatusCode: 429}, true},
		{"server error", &StatusError{Provider: "groq", StatusCode: 502}, true},
		{"bad request", &StatusError{Provider: "groq", StatusCode: 400}, false},
		{"connection refused", errors.New("dial tcp: connection refused"), true},
		{"parse failure", errors.New("invalid character"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRetryable(tt.err))
		})
	}
}
