package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetRequestIDFromContext(ctx))

	ctx = WithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", GetRequestIDFromContext(ctx))
}

func TestAgentIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetAgentIDFromContext(ctx))

	ctx = WithAgentID(ctx, "agent-1")
	assert.Equal(t, "agent-1", GetAgentIDFromContext(ctx))
}

func TestRequestLogger(t *testing.T) {
	handler := RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short and stout"))
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/brew", nil))

	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, "short and stout", w.Body.String())
}
