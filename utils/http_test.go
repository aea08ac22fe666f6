package utils

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	t.Run("writes status and body", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := WriteJSON(w, 200, map[string]string{"hello": "world"})
		require.NoError(t, err)

		assert.Equal(t, 200, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "world", body["hello"])
	})

	t.Run("nil payload writes no body", func(t *testing.T) {
		w := httptest.NewRecorder()
		err := WriteJSON(w, 204, nil)
		require.NoError(t, err)
		assert.Equal(t, 204, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestErrorWriters(t *testing.T) {
	t.Run("bad request with details", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteBadRequest(w, "invalid payload", map[string]interface{}{"field": "resource"}))

		assert.Equal(t, 400, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "bad_request", resp.Error)
		assert.Equal(t, "invalid payload", resp.Message)
		assert.Equal(t, "resource", resp.Details["field"])
	})

	t.Run("not found default message", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteNotFound(w, ""))

		assert.Equal(t, 404, w.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "not_found", resp.Error)
		assert.Equal(t, "Resource not found", resp.Message)
	})

	t.Run("service unavailable", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteServiceUnavailable(w, "registry down"))
		assert.Equal(t, 503, w.Code)
	})

	t.Run("internal server error", func(t *testing.T) {
		w := httptest.NewRecorder()
		require.NoError(t, WriteInternalServerError(w, ""))
		assert.Equal(t, 500, w.Code)
	})
}
