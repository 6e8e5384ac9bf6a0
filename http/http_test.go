package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snowgift/snow-gift/config"
)

func TestClient_Get(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			assert.Equal(t, "usd", r.URL.Query().Get("vs_currencies"))
			assert.Contains(t, r.Header.Get("User-Agent"), "snow-gift")
			w.Write([]byte(`{"ok":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(strings.Repeat("x", 500)))
		}
	}))
	defer server.Close()

	client := New(&config.Config{Timeout: 5})

	t.Run("with query", func(t *testing.T) {
		body, err := client.Get(context.Background(), server.URL+"/ok", map[string]string{"vs_currencies": "usd"})
		require.NoError(t, err)
		assert.JSONEq(t, `{"ok":true}`, string(body))
	})

	t.Run("non-2xx is a ResponseError", func(t *testing.T) {
		_, err := client.Get(context.Background(), server.URL+"/missing", nil)
		require.Error(t, err)

		var respErr *ResponseError
		require.ErrorAs(t, err, &respErr)
		assert.Equal(t, http.StatusNotFound, respErr.StatusCode)
		// Error() truncates long bodies
		assert.Less(t, len(respErr.Error()), 250)
	})

	t.Run("short body does not panic", func(t *testing.T) {
		e := &ResponseError{Status: "500 Internal Server Error", Body: []byte("boom")}
		assert.Equal(t, "HTTP 500 Internal Server Error, body boom", e.Error())
	})
}

func TestClient_PostJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		json.NewEncoder(w).Encode(map[string]interface{}{"echo": req["method"]})
	}))
	defer server.Close()

	client := NewWithClient(server.Client())
	body, err := client.PostJSON(context.Background(), server.URL, map[string]string{"method": "getBalance"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"echo":"getBalance"}`, string(body))
}
