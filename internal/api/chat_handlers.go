package api

import (
	"context"
	"encoding/json/v2"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/bookatlas/atlas-server/internal/errors"
	"github.com/bookatlas/atlas-server/internal/http/response"
	"github.com/bookatlas/atlas-server/internal/normalize"
	"github.com/bookatlas/atlas-server/internal/recommend"
)

// Debug payload truncation caps, in characters.
const (
	maxDebugErrorLen = 1800
	maxDebugTraceLen = 3000
)

// handleChat serves one chat turn: it resolves the catalog snapshot,
// issues the recommendation call, and validates the model output into a
// well-formed envelope.
//
// The endpoint never surfaces a model failure as an HTTP error. Once the
// catalog and credential checks pass, the client always receives 200
// with an envelope; failures degrade to fixed prose.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	body := decodeChatBody(r)

	debugMode := s.chat.Debug
	if v, ok := body["debug"].(bool); ok && v {
		debugMode = true
	}

	selectedISO2 := extractSelectedISO2(body["context"])
	history, userText := extractHistory(body["messages"])

	if userText == "" {
		response.Success(w, recommend.NewEnvelope(recommend.GenericPromptMarkdown, s.chat.Build), s.logger)
		return
	}

	snap := s.catalog.Get(r.Context())
	if s.search != nil {
		if err := s.search.Sync(snap); err != nil {
			s.logger.Warn("search index sync failed", slog.String("error", err.Error()))
		}
	}

	if len(snap.Books) == 0 {
		s.logger.Error("chat request with empty catalog")
		response.DomainError(w, errors.CatalogUnavailable("catalog is empty"),
			s.chat.Build, s.debugBlockIf(debugMode), s.logger)
		return
	}

	if s.chat.APIKey == "" {
		s.logger.Error("chat request without configured OpenAI API key")
		response.DomainError(w, errors.MissingAPIKey("OPENAI_API_KEY is not configured"),
			s.chat.Build, s.debugBlockIf(debugMode), s.logger)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.chat.RequestTimeout)
	defer cancel()

	parsed, err := s.recommender.Request(ctx, history, userText, selectedISO2, snap.AvailableCountries, snap.Books)
	if err != nil {
		s.logger.Error("recommendation call failed", slog.String("error", err.Error()))

		envelope := recommend.NewEnvelope(recommend.HardFailureMarkdown, s.chat.Build)
		if debugMode {
			envelope.Debug = map[string]any{
				"error":         normalize.Truncate(err.Error(), maxDebugErrorLen),
				"trace":         tail(string(debug.Stack()), maxDebugTraceLen),
				"model":         s.chat.Model,
				"has_key":       true,
				"selected_iso2": selectedISO2,
				"build":         s.chat.Build,
			}
		}
		response.Success(w, envelope, s.logger)
		return
	}

	envelope := recommend.Validate(parsed, snap.ByID, userText, s.chat.Build)
	if debugMode {
		envelope.Debug = map[string]any{
			"candidates":    len(snap.Books),
			"catalog_total": len(snap.Books),
			"countries":     len(snap.AvailableCountries),
			"selected_iso2": selectedISO2,
			"model":         s.chat.Model,
			"build":         s.chat.Build,
		}
	}
	response.Success(w, envelope, s.logger)
}

func (s *Server) debugBlockIf(debugMode bool) map[string]any {
	if !debugMode {
		return nil
	}
	return map[string]any{"build": s.chat.Build}
}

// decodeChatBody reads the request body leniently: anything that is not
// a JSON object comes back as an empty map, never an error. The chat
// contract treats a garbage body the same as an empty one.
func decodeChatBody(r *http.Request) map[string]any {
	defer r.Body.Close()

	var body map[string]any
	if err := json.UnmarshalRead(r.Body, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

// extractSelectedISO2 pulls the UI's country hint out of the request
// context block. Anything that is not exactly two letters is dropped.
func extractSelectedISO2(v any) string {
	ctxMap, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	raw, _ := ctxMap["selected_iso2"].(string)
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 2 {
		return ""
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return ""
		}
	}
	return code
}

// extractHistory collects the valid user/assistant turns and the most
// recent non-empty user text. Malformed entries are skipped, not
// rejected.
func extractHistory(v any) ([]recommend.Message, string) {
	items, ok := v.([]any)
	if !ok {
		return nil, ""
	}

	history := make([]recommend.Message, 0, len(items))
	userText := ""
	for _, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		role := strings.ToLower(strings.TrimSpace(stringValue(m["role"])))
		content := strings.TrimSpace(stringValue(m["content"]))
		if content == "" || (role != "user" && role != "assistant") {
			continue
		}
		history = append(history, recommend.Message{Role: role, Content: content})
		if role == "user" {
			userText = content
		}
	}
	return history, userText
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
