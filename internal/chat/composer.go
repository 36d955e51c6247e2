package chat

import "EVChatbot_MultimodalProject/internal/models"

// ComposedRequest is the fully assembled payload for one model call:
// rendered prior history plus the new user content. Built per call and
// discarded once the gateway answers.
type ComposedRequest struct {
	SystemInstruction string
	// History holds prior turns in chronological order, text only; images
	// from old turns are not re-sent.
	History []models.Turn
	// Text and Attachment form the new user content. At least one is set.
	Text       string
	Attachment *models.Attachment
}

// DropOldest returns a copy of the request with the n oldest history turns
// removed. Used to retry after a context-too-large rejection; the new user
// content is always preserved.
func (r *ComposedRequest) DropOldest(n int) *ComposedRequest {
	if n > len(r.History) {
		n = len(r.History)
	}
	out := *r
	out.History = r.History[n:]
	return &out
}

// Composer turns (state, new input) into a ComposedRequest. Pure
// transformation, no I/O.
type Composer struct {
	systemInstruction string
	maxTurns          int // history window; 0 = unbounded
}

func NewComposer(systemInstruction string, maxTurns int) *Composer {
	return &Composer{systemInstruction: systemInstruction, maxTurns: maxTurns}
}

// Compose validates the new input and renders the request. Text may be
// empty only when an image is staged. Composing does not consume the staged
// image; the caller clears it once the request has actually been sent, so a
// failed send can be retried with the same image.
func (c *Composer) Compose(state *ConversationState, text string) (*ComposedRequest, error) {
	pending := state.PendingAttachment()
	if text == "" && pending == nil {
		return nil, ErrEmptyInput
	}

	turns := state.Turns()
	if c.maxTurns > 0 && len(turns) > c.maxTurns {
		turns = turns[len(turns)-c.maxTurns:]
	}
	history := make([]models.Turn, 0, len(turns))
	for _, t := range turns {
		text := t.Text
		if text == "" && t.HasImage() {
			// An image-only turn must still render with non-empty text once
			// its image is stripped; the API rejects empty parts.
			text = "[image]"
		}
		history = append(history, models.Turn{Role: t.Role, Text: text})
	}

	return &ComposedRequest{
		SystemInstruction: c.systemInstruction,
		History:           history,
		Text:              text,
		Attachment:        pending,
	}, nil
}
