package health

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, h http.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))

	var resp Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

func up(context.Context) error { return nil }

func down(context.Context) error { return fmt.Errorf("connection refused") }

func TestLivenessHandler_AlwaysReturns200(t *testing.T) {
	h := NewHandler()
	h.Register("redis", down)

	rec, resp := serve(t, h.LivenessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, StatusUp, resp.Status)
	assert.False(t, resp.Timestamp.IsZero())
	assert.Empty(t, resp.Checks)
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	h := NewHandler()
	h.Register("kafka", up)
	h.RegisterOptional("slots", up)

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
	assert.Equal(t, StatusUp, resp.Checks["kafka"].Status)
	assert.Equal(t, StatusUp, resp.Checks["slots"].Status)
	assert.True(t, resp.Checks["slots"].Optional)
}

func TestReadinessHandler_RequiredDown(t *testing.T) {
	h := NewHandler()
	h.Register("firestore", down)
	h.RegisterOptional("slots", up)

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, StatusDown, resp.Status)
	assert.Equal(t, "connection refused", resp.Checks["firestore"].Error)
}

func TestReadinessHandler_OptionalDownDegrades(t *testing.T) {
	h := NewHandler()
	h.Register("kafka", up)
	h.RegisterOptional("slots", down)

	rec, resp := serve(t, h.ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusDegraded, resp.Status)
	assert.Equal(t, StatusDown, resp.Checks["slots"].Status)
}

func TestReadinessHandler_NoChecks(t *testing.T) {
	rec, resp := serve(t, NewHandler().ReadinessHandler())

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusUp, resp.Status)
}

func TestReadinessHandler_ChecksSeeDeadline(t *testing.T) {
	h := NewHandler()
	h.Register("deadline", func(ctx context.Context) error {
		if _, ok := ctx.Deadline(); !ok {
			return fmt.Errorf("no deadline")
		}
		return nil
	})

	rec, _ := serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRegister_ReplacesByName(t *testing.T) {
	h := NewHandler()
	h.Register("slots", down)
	h.Register("slots", up)

	rec, resp := serve(t, h.ReadinessHandler())
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, resp.Checks, 1)
}
