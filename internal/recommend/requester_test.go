package recommend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookatlas/atlas-server/internal/domain"
	"github.com/bookatlas/atlas-server/internal/openai"
)

type fakeProvider struct {
	lastReq *openai.Request
	resp    *openai.Response
	err     error
	calls   int
}

func (f *fakeProvider) CreateResponse(_ context.Context, req *openai.Request) (*openai.Response, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func textResponse(text string) *openai.Response {
	return &openai.Response{OutputText: text}
}

func testBooks() []*domain.Book {
	return []*domain.Book{
		{
			ID:          "b1",
			Title:       "The Shadow King",
			Author:      "Maaza Mengiste",
			Year:        "2019",
			Summary:     "A story of war in Ethiopia.",
			Tags:        []string{"historical"},
			Categories:  []string{"fiction"},
			Places:      domain.Places{Setting: []domain.Place{{ISO2: "ET", Name: "Ethiopia"}}},
			Description: "unused when summary present",
		},
		{
			ID:          "b2",
			Title:       "Kafka on the Shore",
			Author:      "Haruki Murakami",
			Description: strings.Repeat("long description ", 100),
		},
	}
}

func newTestRequester(p Provider) *Requester {
	return NewRequester(p, "gpt-4o-mini", nil)
}

func TestRequestPayloadShape(t *testing.T) {
	provider := &fakeProvider{resp: textResponse(`{"assistant_markdown":"hi"}`)}
	r := newTestRequester(provider)

	parsed, err := r.Request(context.Background(), nil, "something set in Ethiopia", "ET",
		[]domain.Place{{ISO2: "ET", Name: "Ethiopia"}}, testBooks())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"assistant_markdown": "hi"}, parsed)

	req := provider.lastReq
	require.NotNil(t, req)
	assert.Equal(t, "gpt-4o-mini", req.Model)
	assert.Equal(t, 0.35, req.Temperature)
	assert.Equal(t, 900, req.MaxOutputTokens)

	require.NotNil(t, req.Text)
	require.NotNil(t, req.Text.Format)
	assert.Equal(t, "json_schema", req.Text.Format.Type)
	assert.Equal(t, "atlas_chat_response", req.Text.Format.Name)
	assert.True(t, req.Text.Format.Strict)

	require.GreaterOrEqual(t, len(req.Input), 2)
	assert.Equal(t, "developer", req.Input[0].Role)
	assert.True(t, strings.HasPrefix(req.Input[0].Content[0].Text, "CONTEXT:\n"))
	assert.Contains(t, req.Input[0].Content[0].Text, `"selected_iso2":"ET"`)
	assert.Equal(t, "developer", req.Input[1].Role)
	assert.True(t, strings.HasPrefix(req.Input[1].Content[0].Text, "CANDIDATES:\n"))
	assert.Contains(t, req.Input[1].Content[0].Text, `"id":"b1"`)
	assert.Contains(t, req.Input[1].Content[0].Text, "A story of war in Ethiopia.")
}

func TestRequestInstructionsFollowIntent(t *testing.T) {
	provider := &fakeProvider{resp: textResponse(`{}`)}
	r := newTestRequester(provider)
	ctx := context.Background()

	_, err := r.Request(ctx, nil, "books about the sea", "", nil, testBooks())
	require.NoError(t, err)
	assert.Contains(t, provider.lastReq.Instructions, "up to 3 recommendation(s)")

	_, err = r.Request(ctx, nil, "just one book about the sea", "", nil, testBooks())
	require.NoError(t, err)
	assert.Contains(t, provider.lastReq.Instructions, "exactly 1 recommendation(s)")
}

func TestRequestHistoryHandling(t *testing.T) {
	provider := &fakeProvider{resp: textResponse(`{}`)}
	r := newTestRequester(provider)

	history := []Message{
		{Role: "user", Content: "   "},       // dropped: empty after trim
		{Role: "system", Content: "ignored"}, // dropped: not user/assistant
		{Role: "USER", Content: "first question"},
		{Role: "Assistant", Content: "first answer"},
	}
	_, err := r.Request(context.Background(), history, "next", "", nil, testBooks())
	require.NoError(t, err)

	req := provider.lastReq
	require.Len(t, req.Input, 4) // 2 developer blocks + 2 surviving turns
	assert.Equal(t, "user", req.Input[2].Role)
	assert.Equal(t, "input_text", req.Input[2].Content[0].Type)
	assert.Equal(t, "first question", req.Input[2].Content[0].Text)
	assert.Equal(t, "assistant", req.Input[3].Role)
	assert.Equal(t, "output_text", req.Input[3].Content[0].Type)
}

func TestRequestHistoryWindow(t *testing.T) {
	provider := &fakeProvider{resp: textResponse(`{}`)}
	r := newTestRequester(provider)

	history := make([]Message, 0, 20)
	for i := range 20 {
		history = append(history, Message{Role: "user", Content: fmt.Sprintf("turn %d", i)})
	}
	_, err := r.Request(context.Background(), history, "next", "", nil, testBooks())
	require.NoError(t, err)

	req := provider.lastReq
	require.Len(t, req.Input, 2+HistoryWindow)
	assert.Equal(t, "turn 8", req.Input[2].Content[0].Text)
	assert.Equal(t, "turn 19", req.Input[len(req.Input)-1].Content[0].Text)
}

func TestRequestSummaryFallsBackToDescription(t *testing.T) {
	provider := &fakeProvider{resp: textResponse(`{}`)}
	r := newTestRequester(provider)

	_, err := r.Request(context.Background(), nil, "anything", "", nil, testBooks())
	require.NoError(t, err)

	candidates := provider.lastReq.Input[1].Content[0].Text
	assert.Contains(t, candidates, "long description")
	// The description is longer than the cap, so the full text never
	// appears.
	assert.NotContains(t, candidates, strings.Repeat("long description ", 100))
}

func TestRequestMalformedOutputIsEmptyMap(t *testing.T) {
	for _, text := range []string{"", "   ", "not json", `["list"]`} {
		provider := &fakeProvider{resp: textResponse(text)}
		r := newTestRequester(provider)

		parsed, err := r.Request(context.Background(), nil, "a book", "", nil, testBooks())
		require.NoError(t, err)
		assert.Empty(t, parsed)
		assert.NotNil(t, parsed)
	}
}

func TestRequestProviderErrorPropagates(t *testing.T) {
	provider := &fakeProvider{err: errors.New("openai http 500: boom")}
	r := newTestRequester(provider)

	_, err := r.Request(context.Background(), nil, "a book", "", nil, testBooks())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
