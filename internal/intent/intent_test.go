package intent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWantsSingle(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{"empty", "", false},
		{"whitespace", "   ", false},
		{"plain request", "something set in Japan please", false},
		{"top rec", "what's your top rec?", true},
		{"top recommendation", "Give me your TOP RECOMMENDATION", true},
		{"just one", "just one, surprise me", true},
		{"only one", "I want only one", true},
		{"one book", "pick one book for my trip", true},
		{"one rec", "one rec for Brazil", true},
		{"single recommendation", "a single recommendation please", true},
		{"prefix give me a book", "give me a book about grief", true},
		{"prefix recommend a book", "Recommend a book set in Lagos!", true},
		{"prefix not at start", "can you recommend a book", false},
		{"punctuation normalized", "top-rec?!", true},
		{"multiple picks", "give me three books", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WantsSingle(tt.text))
		})
	}
}
