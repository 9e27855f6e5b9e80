package domain

// Role identifies the author of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is a single message in a session transcript.
// Transcripts are append-only: the engine adds exactly one assistant
// turn per question and never rewrites earlier turns.
type ConversationTurn struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

// AppendTurn returns a new transcript with the turn added. The input
// slice is not modified, so callers can keep references to old
// transcripts safely.
func AppendTurn(transcript []ConversationTurn, role Role, text string) []ConversationTurn {
	out := make([]ConversationTurn, len(transcript), len(transcript)+1)
	copy(out, transcript)
	return append(out, ConversationTurn{Role: role, Text: text})
}
