package api

import (
	"context"
	"encoding/json/v2"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookatlas/atlas-server/internal/catalog"
	"github.com/bookatlas/atlas-server/internal/config"
	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/ratelimit"
	"github.com/bookatlas/atlas-server/internal/recommend"
	"github.com/bookatlas/atlas-server/internal/search"
	"github.com/bookatlas/atlas-server/internal/store"
)

type staticSource []store.Document

func (s staticSource) ListBookDocuments(_ context.Context) ([]store.Document, error) {
	return s, nil
}

// fakeRecommender records the last call and replays a canned payload.
type fakeRecommender struct {
	calls       int
	lastText    string
	lastISO2    string
	lastHistory []recommend.Message
	parsed      map[string]any
	err         error
}

func (f *fakeRecommender) Request(
	_ context.Context,
	history []recommend.Message,
	userText string,
	selectedISO2 string,
	_ []domain.Place,
	_ []*domain.Book,
) (map[string]any, error) {
	f.calls++
	f.lastHistory = history
	f.lastText = userText
	f.lastISO2 = selectedISO2
	if f.err != nil {
		return nil, f.err
	}
	if f.parsed == nil {
		return map[string]any{}, nil
	}
	return f.parsed, nil
}

func seedDocs() []store.Document {
	return []store.Document{
		{ID: "b1", Fields: map[string]any{
			"title":           "The Shadow King",
			"author":          "Maaza Mengiste",
			"summary":         "War and memory in 1930s Ethiopia.",
			"year":            "2019",
			"setting_country": "Ethiopia",
		}},
		{ID: "b2", Fields: map[string]any{
			"title":           "Kafka on the Shore",
			"author":          "Haruki Murakami",
			"summary":         "A surreal journey across Japan.",
			"year":            "2002",
			"setting_country": "Japan",
		}},
	}
}

func testChatConfig() config.ChatConfig {
	return config.ChatConfig{
		Model:          "gpt-4o-mini",
		APIKey:         "sk-test",
		Build:          "atlas_chat_2026_01_06e",
		CacheTTL:       time.Minute,
		RequestTimeout: time.Second,
		RateRPS:        100,
		RateBurst:      100,
	}
}

func newTestServer(t *testing.T, docs []store.Document, rec Recommender, chat config.ChatConfig) *Server {
	t.Helper()
	discard := slog.New(slog.NewTextHandler(io.Discard, nil))

	cache := catalog.NewCache(staticSource(docs), chat.CacheTTL, discard)

	idx, err := search.NewSearchIndex(discard)
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	limiter := ratelimit.New(chat.RateRPS, chat.RateBurst)
	t.Cleanup(limiter.Stop)

	return NewServer(cache, idx, rec, limiter, chat, discard)
}

func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rr := httptest.NewRecorder()
	s.Router().ServeHTTP(rr, req)
	return rr
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) *recommend.Envelope {
	t.Helper()
	var env recommend.Envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return &env
}

func TestHealthCheck(t *testing.T) {
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, testChatConfig())

	rr := doRequest(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, rr.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "atlas_chat_2026_01_06e", body["build"])
}

func TestUnknownRouteReturnsNotFoundCode(t *testing.T) {
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, testChatConfig())

	rr := doRequest(t, s, http.MethodGet, "/nope", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Contains(t, rr.Body.String(), `"error":"not_found"`)
}

func TestChatRejectsWrongMethod(t *testing.T) {
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, testChatConfig())

	for _, path := range []string{"/chat", "/api/v1/chat"} {
		rr := doRequest(t, s, http.MethodGet, path, "")
		require.Equal(t, http.StatusMethodNotAllowed, rr.Code, path)
		assert.Contains(t, rr.Body.String(), `"error":"method_not_allowed"`, path)
	}
}

func TestChatOptionsReturnsNoContent(t *testing.T) {
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, testChatConfig())

	rr := doRequest(t, s, http.MethodOptions, "/chat", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
}

func TestResponsesCarryCORSHeaders(t *testing.T) {
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, testChatConfig())

	rr := doRequest(t, s, http.MethodPost, "/api/v1/chat", `{"messages":[]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "Content-Type", rr.Header().Get("Access-Control-Allow-Headers"))
}

func TestChatRateLimited(t *testing.T) {
	cfg := testChatConfig()
	cfg.RateRPS = 1
	cfg.RateBurst = 1
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, cfg)

	first := doRequest(t, s, http.MethodPost, "/chat", `{"messages":[]}`)
	require.Equal(t, http.StatusOK, first.Code)

	second := doRequest(t, s, http.MethodPost, "/chat", `{"messages":[]}`)
	require.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Contains(t, second.Body.String(), `"error":"rate_limited"`)
}

func TestRateLimitKeyedByClientIP(t *testing.T) {
	cfg := testChatConfig()
	cfg.RateRPS = 1
	cfg.RateBurst = 1
	s := newTestServer(t, seedDocs(), &fakeRecommender{}, cfg)

	send := func(ip string) int {
		req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(`{"messages":[]}`))
		req.Header.Set("X-Forwarded-For", ip)
		rr := httptest.NewRecorder()
		s.Router().ServeHTTP(rr, req)
		return rr.Code
	}

	require.Equal(t, http.StatusOK, send("198.51.100.1"))
	require.Equal(t, http.StatusTooManyRequests, send("198.51.100.1"))
	assert.Equal(t, http.StatusOK, send("198.51.100.2"))
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.5, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.5"},
		{"real ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "10.0.0.2:1234", "203.0.113.9"},
		{"remote addr", nil, "192.0.2.7:5678", "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/chat", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
