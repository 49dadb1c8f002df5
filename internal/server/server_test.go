package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/birthdai/concierge/internal/agent/model"
	errx "github.com/birthdai/concierge/internal/core/error"
)

// stubRunner records invocations and plays back a canned turn result.
type stubRunner struct {
	lastInput model.QueryInput
	result    *model.TurnResult
	err       error
}

func (s *stubRunner) Invoke(_ context.Context, input model.QueryInput) (*model.TurnResult, error) {
	s.lastInput = input
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func createSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/sessions", strings.NewReader(`{"user_id":"u-1"}`))
	srv.Handler().ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	var sess Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &sess))
	require.NotEmpty(t, sess.ID)
	return sess.ID
}

func TestHealthz(t *testing.T) {
	srv := New(&stubRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestCreateSession(t *testing.T) {
	srv := New(&stubRunner{})

	first := createSession(t, srv)
	second := createSession(t, srv)
	assert.NotEqual(t, first, second)
}

func TestCreateSessionEmptyBody(t *testing.T) {
	srv := New(&stubRunner{})

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions", nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestPostMessage(t *testing.T) {
	runner := &stubRunner{
		result: &model.TurnResult{
			Content: "おすすめを3つ見つけました。",
			Sections: []model.GiftSection{
				{Title: "おすすめ 1", Cards: []model.GiftCard{{Title: "ワイヤレスイヤホン"}}},
			},
			ToolTrace: []model.ToolTrace{{Name: "shopping_search", Arguments: `{"query":"イヤホン"}`}},
			CostUSD:   0.0012,
		},
	}
	srv := New(runner)
	sessionID := createSession(t, srv)

	body := bytes.NewBufferString(`{"message":"3000円くらいのイヤホンある？"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/messages", body))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sessionID, runner.lastInput.ConversationID)
	assert.Equal(t, "3000円くらいのイヤホンある？", runner.lastInput.Query)

	var result model.TurnResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "おすすめを3つ見つけました。", result.Content)
	require.Len(t, result.Sections, 1)
	assert.Equal(t, "ワイヤレスイヤホン", result.Sections[0].Cards[0].Title)
	require.Len(t, result.ToolTrace, 1)
}

func TestPostMessageUnknownSession(t *testing.T) {
	srv := New(&stubRunner{})

	body := bytes.NewBufferString(`{"message":"hello"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/nope/messages", body))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPostMessageBadBody(t *testing.T) {
	srv := New(&stubRunner{})
	sessionID := createSession(t, srv)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{not json`},
		{"empty message", `{"message":"  "}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/messages", strings.NewReader(tt.body))
			srv.Handler().ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestPostMessageRunnerFailure(t *testing.T) {
	runner := &stubRunner{
		err: errx.New(fmt.Errorf("serpapi status 502"), http.StatusBadGateway, errx.SerpAPIErrorMessage),
	}
	srv := New(runner)
	sessionID := createSession(t, srv)

	body := bytes.NewBufferString(`{"message":"hello"}`)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/sessions/"+sessionID+"/messages", body))

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, errx.SerpAPIErrorMessage, resp.Error)
}
