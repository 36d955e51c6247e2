package chat

import "EVChatbot_MultimodalProject/internal/models"

// ConversationState is the ordered turn history of one login session plus
// the staged "next prompt" image. It is owned by a single Controller, which
// serializes all mutation; the type itself holds no lock. It is never
// persisted and dies with the session.
type ConversationState struct {
	owner   string
	turns   []models.Turn
	pending *models.Attachment
}

func NewConversationState(owner string) *ConversationState {
	return &ConversationState{owner: owner}
}

func (s *ConversationState) Owner() string { return s.owner }

// AttachPendingImage stages an image for the next prompt. A second upload
// before the prompt is sent replaces the first (last write wins).
func (s *ConversationState) AttachPendingImage(att models.Attachment) {
	s.pending = &att
}

// PendingAttachment returns the staged image, or nil.
func (s *ConversationState) PendingAttachment() *models.Attachment { return s.pending }

// ClearPending drops the staged image. Called only after the image has been
// consumed by a successfully sent prompt.
func (s *ConversationState) ClearPending() { s.pending = nil }

// AppendTurn adds a turn at the end of history. Appended turns are never
// edited in place.
func (s *ConversationState) AppendTurn(t models.Turn) {
	s.turns = append(s.turns, t)
}

// Turns returns a copy of the history in chronological order.
func (s *ConversationState) Turns() []models.Turn {
	out := make([]models.Turn, len(s.turns))
	copy(out, s.turns)
	return out
}

func (s *ConversationState) Len() int { return len(s.turns) }

// Clear empties the history and the staged image but keeps the state (and
// its owner) usable. This is "Clear History" without logging out.
func (s *ConversationState) Clear() {
	s.turns = s.turns[:0]
	s.pending = nil
}

// Destroy releases all turns and attachments. The state must not be used
// afterwards. Called on logout.
func (s *ConversationState) Destroy() {
	s.turns = nil
	s.pending = nil
}
