package chat

import (
	"context"
	"fmt"
	"sync"

	"EVChatbot_MultimodalProject/internal/credential"
	"EVChatbot_MultimodalProject/internal/models"

	"go.uber.org/zap"
)

// Phase of the session state machine.
type Phase int

const (
	PhaseLoggedOut Phase = iota
	PhaseAuthenticating
	PhaseChatting
	PhaseSending
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseChatting:
		return "chatting"
	case PhaseSending:
		return "sending"
	default:
		return "logged_out"
	}
}

// Gateway sends a composed request to the remote model.
type Gateway interface {
	Generate(ctx context.Context, req *ComposedRequest) (string, error)
}

// Controller drives one login session: it owns the ConversationState,
// serializes submits, and orchestrates verifier → composer → gateway per
// turn. One Controller per session; sessions share nothing.
type Controller struct {
	verifier *credential.Verifier
	gateway  Gateway
	composer *Composer
	log      *zap.SugaredLogger

	mu    sync.Mutex
	phase Phase
	state *ConversationState
	name  string
	// epoch rises on logout so a submit that was in flight when the session
	// died can tell its result is stale and must be discarded.
	epoch uint64
}

func NewController(verifier *credential.Verifier, gateway Gateway, composer *Composer, log *zap.SugaredLogger) *Controller {
	return &Controller{
		verifier: verifier,
		gateway:  gateway,
		composer: composer,
		log:      log,
		phase:    PhaseLoggedOut,
	}
}

// Login verifies credentials and, on success, creates a fresh conversation
// seeded with the assistant greeting. Auth failures leave the controller
// logged out and are returned as credential errors for the caller to map
// to a uniform user-facing message.
func (c *Controller) Login(ctx context.Context, username, password string) error {
	c.mu.Lock()
	if c.phase != PhaseLoggedOut {
		c.mu.Unlock()
		return ErrSessionActive
	}
	c.phase = PhaseAuthenticating
	c.mu.Unlock()

	user, err := c.verifier.Verify(ctx, username, password)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.phase = PhaseLoggedOut
		c.log.Infow("login rejected", "username", username, "reason", err)
		return err
	}

	name := user.Name
	if name == "" {
		name = user.Username
	}
	c.state = NewConversationState(user.Username)
	c.name = name
	c.state.AppendTurn(models.Turn{
		Role: models.RoleAssistant,
		Text: fmt.Sprintf("Hello %s! I'm a multimodal AI. Feel free to upload an image for analysis.", name),
	})
	c.phase = PhaseChatting
	c.log.Infow("login ok", "username", user.Username)
	return nil
}

// AttachImage stages an image for the next prompt, replacing any image
// staged earlier. Rejected while a request is in flight.
func (c *Controller) AttachImage(att models.Attachment) error {
	if !models.AllowedMimeType(att.MimeType) {
		return ErrUnsupportedImage
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case PhaseChatting:
		c.state.AttachPendingImage(att)
		return nil
	case PhaseSending:
		return ErrBusy
	default:
		return ErrNotAuthenticated
	}
}

// Submit runs one user turn: optional image staging, compose, gateway call,
// then history append. Exactly one submit may be in flight; a second one is
// rejected with ErrBusy. On any gateway failure nothing is appended and the
// staged image survives, so the same prompt can be resubmitted.
func (c *Controller) Submit(ctx context.Context, text string, image *models.Attachment) (string, error) {
	c.mu.Lock()
	switch c.phase {
	case PhaseSending:
		c.mu.Unlock()
		return "", ErrBusy
	case PhaseChatting:
	default:
		c.mu.Unlock()
		return "", ErrNotAuthenticated
	}

	if image != nil {
		if !models.AllowedMimeType(image.MimeType) {
			c.mu.Unlock()
			return "", ErrUnsupportedImage
		}
		c.state.AttachPendingImage(*image)
	}

	req, err := c.composer.Compose(c.state, text)
	if err != nil {
		c.mu.Unlock()
		return "", err
	}
	c.phase = PhaseSending
	epoch := c.epoch
	c.mu.Unlock()

	reply, genErr := c.gateway.Generate(ctx, req)
	if kind, ok := GatewayKind(genErr); ok && kind == GatewayContextTooLarge && len(req.History) > 0 {
		// One retry with the oldest half of the history dropped; the most
		// recent turns and the new input always survive.
		drop := (len(req.History) + 1) / 2
		c.log.Warnw("context too large, retrying truncated", "dropped_turns", drop)
		req = req.DropOldest(drop)
		reply, genErr = c.gateway.Generate(ctx, req)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		// Session was torn down mid-flight; drop the result.
		return "", ErrSessionClosed
	}
	c.phase = PhaseChatting
	if genErr != nil {
		return "", genErr
	}

	c.state.AppendTurn(models.Turn{Role: models.RoleUser, Text: text, Attachment: req.Attachment})
	c.state.AppendTurn(models.Turn{Role: models.RoleAssistant, Text: reply})
	c.state.ClearPending()
	return reply, nil
}

// ClearHistory empties the conversation without ending the session.
func (c *Controller) ClearHistory() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch c.phase {
	case PhaseChatting:
		c.state.Clear()
		return nil
	case PhaseSending:
		return ErrBusy
	default:
		return ErrNotAuthenticated
	}
}

// Logout destroys the session state. Safe to call in any phase, including
// while a request is in flight: that request's result is then discarded.
func (c *Controller) Logout() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != nil {
		c.state.Destroy()
		c.state = nil
	}
	c.name = ""
	c.epoch++
	c.phase = PhaseLoggedOut
}

// Snapshot returns what a UI needs to render: phase, owner, display name,
// the turn history, and whether an image is staged.
func (c *Controller) Snapshot() (Phase, string, string, []models.Turn, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == nil {
		return c.phase, "", "", nil, false
	}
	return c.phase, c.state.Owner(), c.name, c.state.Turns(), c.state.PendingAttachment() != nil
}
