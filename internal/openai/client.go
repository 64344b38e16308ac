// Package openai is a minimal client for the OpenAI Responses API,
// covering only the single structured-output call the recommender
// needs.
package openai

import (
	"bytes"
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.openai.com/v1"

// ContentPart is one typed chunk of an input message.
type ContentPart struct {
	Type string `json:"type"` // "input_text" or "output_text"
	Text string `json:"text"`
}

// InputItem is one conversation turn supplied to the model.
type InputItem struct {
	Role    string        `json:"role"` // "user", "assistant" or "developer"
	Content []ContentPart `json:"content"`
}

// Format constrains the model output, typically to a strict JSON schema.
type Format struct {
	Type   string         `json:"type"` // "json_schema"
	Name   string         `json:"name,omitempty"`
	Strict bool           `json:"strict,omitempty"`
	Schema map[string]any `json:"schema,omitempty"`
}

// TextOptions carries the output format request.
type TextOptions struct {
	Format *Format `json:"format,omitempty"`
}

// Request is the payload for a Responses API call.
type Request struct {
	Model           string       `json:"model"`
	Instructions    string       `json:"instructions,omitempty"`
	Input           []InputItem  `json:"input"`
	Text            *TextOptions `json:"text,omitempty"`
	Temperature     float64      `json:"temperature"`
	MaxOutputTokens int          `json:"max_output_tokens,omitempty"`
}

// OutputContent is one content chunk of a response output item.
type OutputContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// OutputItem is one item of the response output list.
type OutputItem struct {
	Type    string          `json:"type"`
	Role    string          `json:"role"`
	Content []OutputContent `json:"content"`
}

// Response is the subset of the Responses API reply the recommender
// consumes.
type Response struct {
	ID         string       `json:"id"`
	OutputText string       `json:"output_text"`
	Output     []OutputItem `json:"output"`
}

// Text returns the response's output text: the convenience field when
// present, otherwise the first assistant message output_text chunk.
// Returns "" when the response carries no text at all.
func (r *Response) Text() string {
	if strings.TrimSpace(r.OutputText) != "" {
		return r.OutputText
	}
	for _, item := range r.Output {
		if item.Type != "message" || item.Role != "assistant" {
			continue
		}
		for _, c := range item.Content {
			if c.Type == "output_text" && strings.TrimSpace(c.Text) != "" {
				return c.Text
			}
		}
	}
	return ""
}

// Client issues blocking Responses API calls. No retries: a failed call
// fails the request, and callers absorb the error into their own
// fallback path.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a client with the given key and per-call timeout.
func NewClient(apiKey string, timeout time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
	}
}

// CreateResponse issues one blocking call and decodes the reply. Any
// non-2xx status is a hard failure with the response body embedded in
// the error.
func (c *Client) CreateResponse(ctx context.Context, req *Request) (*Response, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("openai request: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read openai response: %w", err)
	}

	if httpResp.StatusCode >= 400 {
		return nil, fmt.Errorf("openai http %d: %s", httpResp.StatusCode, string(respBody))
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("decode openai response: %w", err)
	}

	if c.log != nil {
		c.log.Debug("openai response received",
			slog.String("model", req.Model),
			slog.Duration("elapsed", time.Since(start)),
			slog.Int("output_items", len(resp.Output)))
	}
	return &resp, nil
}
