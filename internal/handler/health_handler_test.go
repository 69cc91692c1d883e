package handler_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"budgetbuddy/internal/handler"
)

type stubPinger struct{ err error }

func (p stubPinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	healthy := handler.NewHealthHandler(stubPinger{})
	down := handler.NewHealthHandler(stubPinger{err: errors.New("connection refused")})

	c, w := newJSONContext(t, http.MethodGet, "/healthz", nil)
	down.Liveness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	healthy.Readiness(c)
	assert.Equal(t, http.StatusOK, w.Code)

	c, w = newJSONContext(t, http.MethodGet, "/readyz", nil)
	down.Readiness(c)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "database not reachable")
}
