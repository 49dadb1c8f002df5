package tools

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdai/concierge/internal/agent/model"
	errx "github.com/birthdai/concierge/internal/core/error"
)

func testClient(endpoint string) *SerpClient {
	return NewSerpClient(model.SerpAPIConfig{
		APIKey:      "sk-test",
		Endpoint:    endpoint,
		Country:     "jp",
		Language:    "ja",
		MaxAttempts: 3,
		Timeout:     5,
	})
}

func TestGetJSONSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "gift", r.URL.Query().Get("q"))
		assert.Equal(t, "sk-test", r.URL.Query().Get("api_key"))
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	params := client.searchParams("google_shopping")
	params.Set("q", "gift")

	raw, err := client.GetJSON(context.Background(), "", params)
	require.NoError(t, err)
	assert.Equal(t, true, raw["ok"])
}

func TestGetJSONRetriesServerErrors(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"ok": true}`))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	raw, err := client.GetJSON(context.Background(), "", client.searchParams("google_shopping"))
	require.NoError(t, err)
	assert.Equal(t, true, raw["ok"])
	assert.Equal(t, 3, calls)
}

func TestGetJSONClientErrorIsPermanent(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	_, err := client.GetJSON(context.Background(), "", nil)
	require.Error(t, err)
	assert.Equal(t, 1, calls, "4xx must not be retried")

	var appErr *errx.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusUnauthorized, appErr.Status)
}

func TestGetJSONGivesUpAfterMaxAttempts(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	_, err := client.GetJSON(context.Background(), "", nil)
	require.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestRequireKey(t *testing.T) {
	client := NewSerpClient(model.SerpAPIConfig{})
	require.ErrorIs(t, client.RequireKey(), ErrAPIKeyMissing)

	client = NewSerpClient(model.SerpAPIConfig{APIKey: "sk"})
	require.NoError(t, client.RequireKey())
}
