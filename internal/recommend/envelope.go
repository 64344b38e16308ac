// Package recommend turns a user's chat request into validated book
// recommendations via a single structured LLM call.
//
// The package is split into two independently testable stages connected
// by a parsed-JSON contract: the Requester builds and issues the model
// call, and Validate repairs whatever comes back into a well-formed
// envelope. The model output is never trusted; Validate is the
// correctness backstop and must cope with arbitrary garbage.
package recommend

// Fixed user-facing copy. The envelope contract absorbs failures, so
// these strings are what the chat UI renders when the model comes back
// empty or broken.
const (
	// ApologyMarkdown is returned when no valid recommendation survives
	// validation.
	ApologyMarkdown = "I couldn’t find a match for that in the Atlas catalog yet. Try a different country/region or tell me a different vibe, and I’ll stick to what’s in the list."

	// GenericPromptMarkdown is returned when there is no user text to
	// work with, or as a last-resort prose fallback.
	GenericPromptMarkdown = "Tell me what kind of book you're looking for — vibe, setting, themes, anything. I’ll only recommend from the Atlas list."

	// HardFailureMarkdown is returned when the recommendation call
	// itself fails.
	HardFailureMarkdown = "Sorry — something went wrong talking to the book brain. Try again in a sec."
)

// Output truncation caps, in characters.
const (
	maxMarkdownLen   = 900
	maxReasonLen     = 240
	maxFollowUpLen   = 180
	maxFollowUps     = 2
	maxRecsMulti     = 3
	maxCandidateTags = 16
	maxSummaryLen    = 650
)

// Recommendation is one validated pick: a catalog book ID plus a
// single-sentence reason.
type Recommendation struct {
	BookID string `json:"book_id"`
	Reason string `json:"reason"`
}

// Envelope is the only externally observable output shape. Every code
// path produces all five fields; the slices are never null and Actions
// is always empty (reserved for future capability).
type Envelope struct {
	AssistantMarkdown string           `json:"assistant_markdown"`
	Recommendations   []Recommendation `json:"recommendations"`
	FollowUpQuestions []string         `json:"follow_up_questions"`
	Actions           []any            `json:"actions"`
	Build             string           `json:"build"`
	Debug             map[string]any   `json:"debug,omitempty"`
}

// NewEnvelope creates an empty envelope with the given prose and build
// identifier. All slices are initialized so they serialize as [] rather
// than null.
func NewEnvelope(markdown, build string) *Envelope {
	return &Envelope{
		AssistantMarkdown: markdown,
		Recommendations:   []Recommendation{},
		FollowUpQuestions: []string{},
		Actions:           []any{},
		Build:             build,
	}
}
