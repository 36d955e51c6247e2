package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"EVChatbot_MultimodalProject/internal/chat"
	"EVChatbot_MultimodalProject/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *GeminiClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewGeminiClient("test-key", "test-model", srv.URL, zap.NewNop().Sugar())
	c.maxRetries = 1 // keep failure tests fast
	return c
}

func okBody(text string) string {
	return `{"candidates":[{"content":{"role":"model","parts":[{"text":"` + text + `"}]}}]}`
}

func TestGenerateSuccess(t *testing.T) {
	var captured geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1beta/models/test-model:generateContent", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-goog-api-key"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(okBody("hello there")))
	})

	req := &chat.ComposedRequest{
		SystemInstruction: "be helpful",
		History: []models.Turn{
			{Role: models.RoleUser, Text: "hi"},
			{Role: models.RoleAssistant, Text: "hello!"},
		},
		Text: "how are you?",
	}

	out, err := client.Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	require.Len(t, captured.Contents, 3)
	assert.Equal(t, "user", captured.Contents[0].Role)
	assert.Equal(t, "model", captured.Contents[1].Role)
	assert.Equal(t, "user", captured.Contents[2].Role)
	assert.Equal(t, "how are you?", captured.Contents[2].Parts[0].Text)
	require.NotNil(t, captured.SystemInstruction)
	assert.Equal(t, "be helpful", captured.SystemInstruction.Parts[0].Text)
}

func TestGenerateInlineImage(t *testing.T) {
	var captured geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(okBody("a charger")))
	})

	req := &chat.ComposedRequest{
		Text:       "what is this?",
		Attachment: &models.Attachment{MimeType: models.MimePNG, Data: []byte("rawpng")},
	}

	_, err := client.Generate(context.Background(), req)
	require.NoError(t, err)

	parts := captured.Contents[0].Parts
	require.Len(t, parts, 2)
	// Image part first, text part second.
	require.NotNil(t, parts[0].InlineData)
	assert.Equal(t, models.MimePNG, parts[0].InlineData.MimeType)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("rawpng")), parts[0].InlineData.Data)
	assert.Equal(t, "what is this?", parts[1].Text)
}

func TestGenerateImageOnlyHistoryTurn(t *testing.T) {
	var captured geminiRequest
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte(okBody("a sedan")))
	})

	// A prior user turn that carried only an image has empty text once the
	// image is stripped from history.
	req := &chat.ComposedRequest{
		History: []models.Turn{
			{Role: models.RoleUser},
			{Role: models.RoleAssistant, Text: "an EV charging port"},
		},
		Text: "which model is it?",
	}

	_, err := client.Generate(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, captured.Contents, 3)
	for _, content := range captured.Contents {
		for _, part := range content.Parts {
			assert.True(t, part.Text != "" || part.InlineData != nil, "empty part in %q content", content.Role)
		}
	}
	assert.Equal(t, "[image]", captured.Contents[0].Parts[0].Text)
}

func TestGenerateErrorKinds(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   chat.GatewayErrorKind
	}{
		{"rate limited", http.StatusTooManyRequests, `{"error":{"code":429,"message":"quota"}}`, chat.GatewayRateLimited},
		{"unauthorized", http.StatusUnauthorized, `{"error":{"code":401,"message":"bad key"}}`, chat.GatewayUnauthorized},
		{"forbidden", http.StatusForbidden, `{"error":{"code":403,"message":"denied"}}`, chat.GatewayUnauthorized},
		{"server error", http.StatusInternalServerError, `{"error":{"code":500,"message":"boom"}}`, chat.GatewayUnavailable},
		{"payload too large", http.StatusRequestEntityTooLarge, `{}`, chat.GatewayContextTooLarge},
		{"token overflow", http.StatusBadRequest, `{"error":{"code":400,"message":"input token count exceeds the maximum"}}`, chat.GatewayContextTooLarge},
		{"other bad request", http.StatusBadRequest, `{"error":{"code":400,"message":"invalid argument"}}`, chat.GatewayOther},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), &chat.ComposedRequest{Text: "hi"})
			kind, ok := chat.GatewayKind(err)
			require.True(t, ok, "expected a gateway error, got %v", err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestGenerateEmptyCandidate(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.Generate(context.Background(), &chat.ComposedRequest{Text: "hi"})
	kind, ok := chat.GatewayKind(err)
	require.True(t, ok)
	assert.Equal(t, chat.GatewayOther, kind)
}

func TestGenerateRetriesTransientFailure(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte(okBody("recovered")))
	}))
	t.Cleanup(srv.Close)

	client := NewGeminiClient("k", "m", srv.URL, zap.NewNop().Sugar())
	client.maxRetries = 2

	out, err := client.Generate(context.Background(), &chat.ComposedRequest{Text: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "recovered", out)
	assert.Equal(t, 2, calls)
}
