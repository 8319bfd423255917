package database

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRetryBackoff_WithinJitter(t *testing.T) {
	for attempt := 0; attempt < connectAttempts; attempt++ {
		base := connectBaseWait << attempt
		lo := time.Duration(float64(base) * (1 - retryJitterFraction))
		hi := time.Duration(float64(base) * (1 + retryJitterFraction))
		for i := 0; i < 20; i++ {
			d := retryBackoff(attempt)
			assert.GreaterOrEqual(t, d, lo)
			assert.LessOrEqual(t, d, hi)
		}
	}
}

func TestRetryBackoff_NegativeAttempt(t *testing.T) {
	d := retryBackoff(-3)
	assert.LessOrEqual(t, d, time.Duration(float64(connectBaseWait)*(1+retryJitterFraction)))
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		msg  string
		want bool
	}{
		{"dial tcp 127.0.0.1:5432: connection refused", true},
		{"connection reset by peer", true},
		{"i/o timeout", true},
		{"unexpected EOF", true},
		{"could not connect to server", true},
		{"syntax error at or near \"SLECT\"", false},
		{"duplicate key value violates unique constraint", false},
	}
	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			assert.Equal(t, tt.want, isConnectionError(errors.New(tt.msg)))
		})
	}
	assert.False(t, isConnectionError(nil))
}

func TestDefaultPoolOptions(t *testing.T) {
	opts := DefaultPoolOptions()
	assert.Equal(t, int32(10), opts.MaxConns)
	assert.Less(t, opts.MinConns, opts.MaxConns)
	assert.Positive(t, opts.MaxConnLifetime)
}
