package chat

import (
	"context"
	"sync"
	"testing"
	"time"

	"EVChatbot_MultimodalProject/internal/credential"
	"EVChatbot_MultimodalProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore struct {
	users map[string]*models.User
}

func (s *stubStore) FindUserByUsername(_ context.Context, username string) (*models.User, error) {
	return s.users[username], nil
}

// scriptedGateway replays canned results and records every request it saw.
type scriptedGateway struct {
	mu      sync.Mutex
	results []func() (string, error)
	reqs    []*ComposedRequest
	// when set, Generate blocks until released
	block chan struct{}
}

func (g *scriptedGateway) Generate(_ context.Context, req *ComposedRequest) (string, error) {
	if g.block != nil {
		<-g.block
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.reqs = append(g.reqs, req)
	if len(g.results) == 0 {
		return "ok", nil
	}
	next := g.results[0]
	g.results = g.results[1:]
	return next()
}

func reply(text string) func() (string, error) {
	return func() (string, error) { return text, nil }
}

func fail(kind GatewayErrorKind) func() (string, error) {
	return func() (string, error) { return "", &GatewayError{Kind: kind, Message: "scripted"} }
}

func newTestController(t *testing.T, gw Gateway, maxTurns int) *Controller {
	t.Helper()
	hash, err := credential.HashPassword("pw")
	require.NoError(t, err)
	store := &stubStore{users: map[string]*models.User{
		"alice": {Username: "alice", PasswordHash: hash, Name: "Alice"},
	}}
	return NewController(
		credential.NewVerifier(store),
		gw,
		NewComposer("sys", maxTurns),
		zap.NewNop().Sugar(),
	)
}

func login(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Login(context.Background(), "alice", "pw"))
}

func TestLoginSeedsGreeting(t *testing.T) {
	c := newTestController(t, &scriptedGateway{}, 0)
	login(t, c)

	phase, owner, name, turns, pending := c.Snapshot()
	assert.Equal(t, PhaseChatting, phase)
	assert.Equal(t, "alice", owner)
	assert.Equal(t, "Alice", name)
	require.Len(t, turns, 1)
	assert.Equal(t, models.RoleAssistant, turns[0].Role)
	assert.Contains(t, turns[0].Text, "Alice")
	assert.False(t, pending)
}

func TestLoginFailureStaysLoggedOut(t *testing.T) {
	c := newTestController(t, &scriptedGateway{}, 0)

	err := c.Login(context.Background(), "alice", "nope")
	assert.ErrorIs(t, err, credential.ErrBadPassword)

	phase, _, _, _, _ := c.Snapshot()
	assert.Equal(t, PhaseLoggedOut, phase)

	_, err = c.Submit(context.Background(), "hi", nil)
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestSubmitAppendsBothTurnsInOrder(t *testing.T) {
	gw := &scriptedGateway{results: []func() (string, error){reply("hello!")}}
	c := newTestController(t, gw, 0)
	login(t, c)

	out, err := c.Submit(context.Background(), "hi", nil)
	require.NoError(t, err)
	assert.Equal(t, "hello!", out)

	_, _, _, turns, _ := c.Snapshot()
	require.Len(t, turns, 3) // greeting + user + assistant
	assert.Equal(t, models.RoleUser, turns[1].Role)
	assert.Equal(t, "hi", turns[1].Text)
	assert.Equal(t, models.RoleAssistant, turns[2].Role)
	assert.Equal(t, "hello!", turns[2].Text)
}

func TestSubmitFailureLeavesStateUntouched(t *testing.T) {
	gw := &scriptedGateway{results: []func() (string, error){fail(GatewayUnavailable)}}
	c := newTestController(t, gw, 0)
	login(t, c)

	require.NoError(t, c.AttachImage(models.Attachment{MimeType: models.MimePNG, Data: []byte("png")}))

	_, err := c.Submit(context.Background(), "hi", nil)
	kind, ok := GatewayKind(err)
	require.True(t, ok)
	assert.Equal(t, GatewayUnavailable, kind)

	phase, _, _, turns, pending := c.Snapshot()
	assert.Equal(t, PhaseChatting, phase)
	assert.Len(t, turns, 1, "no partial turn appended")
	assert.True(t, pending, "staged image survives a failed send")
}

func TestSubmitConsumesPendingImageOnSuccess(t *testing.T) {
	gw := &scriptedGateway{results: []func() (string, error){reply("nice picture")}}
	c := newTestController(t, gw, 0)
	login(t, c)

	require.NoError(t, c.AttachImage(models.Attachment{MimeType: models.MimeJPEG, Data: []byte("jpg")}))

	_, err := c.Submit(context.Background(), "", nil)
	require.NoError(t, err)

	_, _, _, turns, pending := c.Snapshot()
	assert.False(t, pending, "image consumed by the sent prompt")
	require.Len(t, turns, 3)
	assert.True(t, turns[1].HasImage())
}

func TestSubmitEmptyInput(t *testing.T) {
	c := newTestController(t, &scriptedGateway{}, 0)
	login(t, c)

	_, err := c.Submit(context.Background(), "", nil)
	assert.ErrorIs(t, err, ErrEmptyInput)

	phase, _, _, _, _ := c.Snapshot()
	assert.Equal(t, PhaseChatting, phase)
}

func TestSubmitRejectedWhileSending(t *testing.T) {
	gw := &scriptedGateway{block: make(chan struct{})}
	c := newTestController(t, gw, 0)
	login(t, c)

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = c.Submit(context.Background(), "slow one", nil)
	}()

	// Wait for the first submit to reach the gateway.
	require.Eventually(t, func() bool {
		phase, _, _, _, _ := c.Snapshot()
		return phase == PhaseSending
	}, time.Second, time.Millisecond)

	_, err := c.Submit(context.Background(), "second", nil)
	assert.ErrorIs(t, err, ErrBusy)

	assert.ErrorIs(t, c.ClearHistory(), ErrBusy)

	close(gw.block)
	<-done
}

func TestContextTooLargeRetriesTruncated(t *testing.T) {
	gw := &scriptedGateway{results: []func() (string, error){
		fail(GatewayContextTooLarge),
		reply("fits now"),
	}}
	c := newTestController(t, gw, 0)
	login(t, c)

	for i := 0; i < 7; i++ {
		c.state.AppendTurn(models.Turn{Role: models.RoleUser, Text: "filler"})
	}

	out, err := c.Submit(context.Background(), "question", nil)
	require.NoError(t, err)
	assert.Equal(t, "fits now", out)

	require.Len(t, gw.reqs, 2)
	first, second := gw.reqs[0], gw.reqs[1]
	assert.Less(t, len(second.History), len(first.History))
	assert.Equal(t, "question", second.Text)
	// The most recent turns survive the truncation.
	assert.Equal(t, first.History[len(first.History)-1].Text, second.History[len(second.History)-1].Text)
}

func TestLogoutDuringFlightDiscardsResult(t *testing.T) {
	gw := &scriptedGateway{block: make(chan struct{}), results: []func() (string, error){reply("late")}}
	c := newTestController(t, gw, 0)
	login(t, c)

	errCh := make(chan error, 1)
	go func() {
		_, err := c.Submit(context.Background(), "hi", nil)
		errCh <- err
	}()

	require.Eventually(t, func() bool {
		phase, _, _, _, _ := c.Snapshot()
		return phase == PhaseSending
	}, time.Second, time.Millisecond)

	c.Logout()
	close(gw.block)

	assert.ErrorIs(t, <-errCh, ErrSessionClosed)
	phase, _, _, turns, _ := c.Snapshot()
	assert.Equal(t, PhaseLoggedOut, phase)
	assert.Nil(t, turns)
}

func TestClearHistoryKeepsSession(t *testing.T) {
	gw := &scriptedGateway{results: []func() (string, error){reply("hello!")}}
	c := newTestController(t, gw, 0)
	login(t, c)

	_, err := c.Submit(context.Background(), "hi", nil)
	require.NoError(t, err)

	require.NoError(t, c.ClearHistory())

	phase, owner, _, turns, pending := c.Snapshot()
	assert.Equal(t, PhaseChatting, phase)
	assert.Equal(t, "alice", owner)
	assert.Empty(t, turns)
	assert.False(t, pending)
}

func TestLoginTwiceRejected(t *testing.T) {
	c := newTestController(t, &scriptedGateway{}, 0)
	login(t, c)
	assert.ErrorIs(t, c.Login(context.Background(), "alice", "pw"), ErrSessionActive)
}
