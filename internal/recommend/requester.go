package recommend

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/intent"
	"github.com/bookatlas/atlas-server/internal/normalize"
	"github.com/bookatlas/atlas-server/internal/openai"
)

const schemaName = "atlas_chat_response"

// Message is one turn of client-supplied conversation history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// HistoryWindow is how many trailing turns of history are replayed to
// the model.
const HistoryWindow = 12

// Provider issues the blocking model call. Satisfied by *openai.Client.
type Provider interface {
	CreateResponse(ctx context.Context, req *openai.Request) (*openai.Response, error)
}

// Requester builds and issues the recommendation call.
type Requester struct {
	provider Provider
	model    string
	log      *slog.Logger
}

// NewRequester creates a requester using the given provider and model.
func NewRequester(provider Provider, model string, log *slog.Logger) *Requester {
	return &Requester{provider: provider, model: model, log: log}
}

// compactCandidate is the per-book payload sent to the model: enough
// metadata to pick from, small enough that the whole catalog fits in
// one call.
type compactCandidate struct {
	ID         string        `json:"id"`
	Title      string        `json:"title"`
	Author     string        `json:"author"`
	Year       string        `json:"year"`
	PageCount  int           `json:"page_count"`
	Tags       []string      `json:"tags"`
	Categories []string      `json:"categories"`
	Places     domain.Places `json:"places"`
	Summary    string        `json:"summary"`
}

// requestContext is the context block handed to the model alongside the
// candidate list.
type requestContext struct {
	UserText           string         `json:"user_text"`
	SelectedISO2       string         `json:"selected_iso2"`
	AvailableCountries []domain.Place `json:"available_countries"`
}

// Request issues one blocking model call and returns its structured
// output parsed as a generic map. Malformed-but-present output parses
// to an empty map rather than an error; only transport and HTTP
// failures are returned as errors.
func (r *Requester) Request(
	ctx context.Context,
	history []Message,
	userText string,
	selectedISO2 string,
	availableCountries []domain.Place,
	candidates []*domain.Book,
) (map[string]any, error) {
	wantsSingle := intent.WantsSingle(userText)

	compact := make([]compactCandidate, 0, len(candidates))
	for _, b := range candidates {
		compact = append(compact, compactCandidate{
			ID:         b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Year:       b.Year,
			PageCount:  b.PageCount,
			Tags:       capList(b.Tags, maxCandidateTags),
			Categories: capList(b.Categories, maxCandidateTags),
			Places:     b.Places,
			Summary:    normalize.Truncate(b.BestSummary(), maxSummaryLen),
		})
	}

	if availableCountries == nil {
		availableCountries = []domain.Place{}
	}
	contextJSON, err := json.Marshal(requestContext{
		UserText:           userText,
		SelectedISO2:       selectedISO2,
		AvailableCountries: availableCountries,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal context: %w", err)
	}
	candidatesJSON, err := json.Marshal(compact)
	if err != nil {
		return nil, fmt.Errorf("marshal candidates: %w", err)
	}

	input := []openai.InputItem{
		developerItem("CONTEXT:\n" + string(contextJSON)),
		developerItem("CANDIDATES:\n" + string(candidatesJSON)),
	}
	start := 0
	if len(history) > HistoryWindow {
		start = len(history) - HistoryWindow
	}
	for _, m := range history[start:] {
		role := strings.ToLower(strings.TrimSpace(m.Role))
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		switch role {
		case "user":
			input = append(input, openai.InputItem{
				Role:    "user",
				Content: []openai.ContentPart{{Type: "input_text", Text: content}},
			})
		case "assistant":
			input = append(input, openai.InputItem{
				Role:    "assistant",
				Content: []openai.ContentPart{{Type: "output_text", Text: content}},
			})
		}
	}

	resp, err := r.provider.CreateResponse(ctx, &openai.Request{
		Model:        r.model,
		Instructions: instructions(wantsSingle),
		Input:        input,
		Text: &openai.TextOptions{
			Format: &openai.Format{
				Type:   "json_schema",
				Name:   schemaName,
				Strict: true,
				Schema: responseSchema(),
			},
		},
		Temperature:     0.35,
		MaxOutputTokens: 900,
	})
	if err != nil {
		return nil, err
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return map[string]any{}, nil
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		if r.log != nil {
			r.log.Warn("model output was not valid JSON", slog.String("error", err.Error()))
		}
		return map[string]any{}, nil
	}
	return parsed, nil
}

func instructions(wantsSingle bool) string {
	count := "up to 3"
	if wantsSingle {
		count = "exactly 1"
	}
	return "You are Atlas, a book recommender.\n" +
		"Your only hard constraint is: recommend ONLY books that exist in CANDIDATES.\n\n" +
		"Geography behavior:\n" +
		"- The user's prompt is authoritative.\n" +
		"- If the user mentions a country/continent/region (e.g., Africa, South America), you must satisfy that request.\n" +
		"- Use AVAILABLE_COUNTRIES as the set of ISO2 codes that exist in the catalog.\n" +
		"- Use your world knowledge to map continents/regions to ISO2 codes, then choose only ISO2 codes that are present in AVAILABLE_COUNTRIES.\n" +
		"- Match the user's requested geography primarily using places.override (country_override). If override is missing, fall back to setting/author.\n" +
		"- selected_iso2 is a UI hint ONLY when the user did not specify a location.\n" +
		"- If you cannot find any matching book(s) in CANDIDATES for the user's geography constraint, return recommendations as an empty list and explain briefly in assistant_markdown.\n\n" +
		"Output requirements:\n" +
		"- assistant_markdown must be prose only (1–3 sentences). No headings, no bullet points, no numbered lists.\n" +
		"- Each mentioned book must be formatted as: **Title** by Author.\n" +
		"- Return " + count + " recommendation(s).\n" +
		"- assistant_markdown must mention ALL recommended books (and only those books).\n" +
		"- Each recommendations[i].reason must be exactly 1 sentence grounded in metadata.\n" +
		"- follow_up_questions should usually be empty.\n" +
		"- actions must be an empty list.\n"
}

// responseSchema is the strict output schema enforced server-side by
// the provider.
func responseSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"assistant_markdown": map[string]any{"type": "string"},
			"recommendations": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties": map[string]any{
						"book_id": map[string]any{"type": "string"},
						"reason":  map[string]any{"type": "string"},
					},
					"required": []string{"book_id", "reason"},
				},
			},
			"follow_up_questions": map[string]any{
				"type":  "array",
				"items": map[string]any{"type": "string"},
			},
			"actions": map[string]any{
				"type":     "array",
				"maxItems": 0,
				"items": map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"properties":           map[string]any{},
					"required":             []string{},
				},
			},
		},
		"required": []string{"assistant_markdown", "recommendations", "follow_up_questions", "actions"},
	}
}

func developerItem(text string) openai.InputItem {
	return openai.InputItem{
		Role:    "developer",
		Content: []openai.ContentPart{{Type: "input_text", Text: text}},
	}
}

func capList(list []string, max int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) > max {
		return list[:max]
	}
	return list
}
