// Package llm implements the AI gateway against the Gemini generateContent
// REST endpoint.
package llm

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"EVChatbot_MultimodalProject/internal/chat"
	"EVChatbot_MultimodalProject/internal/models"

	"go.uber.org/zap"
)

const defaultMaxRetries = 3

// GeminiClient calls the hosted model. Safe for use by many sessions; it
// keeps no per-conversation state.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
	maxRetries int
	log        *zap.SugaredLogger
}

func NewGeminiClient(apiKey, model, baseURL string, log *zap.SugaredLogger) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
		maxRetries: defaultMaxRetries,
		log:        log,
	}
}

type geminiPart struct {
	Text       string            `json:"text,omitempty"`
	InlineData *geminiInlineData `json:"inlineData,omitempty"`
}

type geminiInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type geminiContent struct {
	Role  string       `json:"role,omitempty"`
	Parts []geminiPart `json:"parts"`
}

type geminiRequest struct {
	Contents          []geminiContent `json:"contents"`
	SystemInstruction *geminiContent  `json:"systemInstruction,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// Generate sends the composed request and returns the generated text.
// Transient backend failures are retried with exponential backoff; all
// other failures map onto the gateway error taxonomy.
func (c *GeminiClient) Generate(ctx context.Context, req *chat.ComposedRequest) (string, error) {
	body, err := json.Marshal(c.buildPayload(req))
	if err != nil {
		return "", &chat.GatewayError{Kind: chat.GatewayOther, Message: "encode request", Err: err}
	}

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(1<<attempt) * time.Second
			c.log.Warnw("retrying model call", "attempt", attempt, "backoff", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return "", &chat.GatewayError{Kind: chat.GatewayUnavailable, Message: "canceled", Err: ctx.Err()}
			}
		}

		text, err := c.doRequest(ctx, body)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if kind, ok := chat.GatewayKind(err); !ok || kind != chat.GatewayUnavailable {
			return "", err
		}
	}
	return "", lastErr
}

func (c *GeminiClient) doRequest(ctx context.Context, body []byte) (string, error) {
	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", c.baseURL, c.model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", &chat.GatewayError{Kind: chat.GatewayOther, Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return "", &chat.GatewayError{Kind: chat.GatewayUnavailable, Message: "canceled", Err: err}
		}
		return "", &chat.GatewayError{Kind: chat.GatewayUnavailable, Message: "connection failed", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &chat.GatewayError{Kind: chat.GatewayUnavailable, Message: "read response", Err: err}
	}

	var parsed geminiResponse
	if jsonErr := json.Unmarshal(respBody, &parsed); jsonErr != nil && resp.StatusCode == http.StatusOK {
		return "", &chat.GatewayError{Kind: chat.GatewayOther, Message: "decode response", Err: jsonErr}
	}

	if resp.StatusCode != http.StatusOK {
		return "", c.classifyFailure(resp.StatusCode, &parsed, respBody)
	}

	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return "", &chat.GatewayError{Kind: chat.GatewayOther, Message: "no text in model response"}
	}
	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

func (c *GeminiClient) classifyFailure(status int, parsed *geminiResponse, raw []byte) *chat.GatewayError {
	msg := string(raw)
	if parsed.Error != nil && parsed.Error.Message != "" {
		msg = parsed.Error.Message
	}

	switch {
	case status == http.StatusTooManyRequests:
		return &chat.GatewayError{Kind: chat.GatewayRateLimited, Message: msg}
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return &chat.GatewayError{Kind: chat.GatewayUnauthorized, Message: msg}
	case status == http.StatusRequestEntityTooLarge:
		return &chat.GatewayError{Kind: chat.GatewayContextTooLarge, Message: msg}
	case status == http.StatusBadRequest && looksLikeTokenOverflow(msg):
		return &chat.GatewayError{Kind: chat.GatewayContextTooLarge, Message: msg}
	case status >= 500:
		return &chat.GatewayError{Kind: chat.GatewayUnavailable, Message: msg}
	default:
		return &chat.GatewayError{Kind: chat.GatewayOther, Message: fmt.Sprintf("status %d: %s", status, msg)}
	}
}

// The API reports an oversized prompt as 400 INVALID_ARGUMENT with a
// token-count message rather than a dedicated status code.
func looksLikeTokenOverflow(msg string) bool {
	lower := strings.ToLower(msg)
	return strings.Contains(lower, "token") &&
		(strings.Contains(lower, "exceed") || strings.Contains(lower, "too large") || strings.Contains(lower, "maximum"))
}

func (c *GeminiClient) buildPayload(req *chat.ComposedRequest) geminiRequest {
	contents := make([]geminiContent, 0, len(req.History)+1)
	for _, turn := range req.History {
		text := turn.Text
		if text == "" {
			// Historical images are not re-sent, and the API rejects empty
			// parts, so an image-only turn renders as a marker.
			text = "[image]"
		}
		contents = append(contents, geminiContent{
			Role:  wireRole(turn.Role),
			Parts: []geminiPart{{Text: text}},
		})
	}

	// Image first, then text, matching the order the model was tuned on.
	userParts := make([]geminiPart, 0, 2)
	if req.Attachment != nil {
		userParts = append(userParts, geminiPart{InlineData: &geminiInlineData{
			MimeType: req.Attachment.MimeType,
			Data:     base64.StdEncoding.EncodeToString(req.Attachment.Data),
		}})
	}
	if req.Text != "" || req.Attachment == nil {
		userParts = append(userParts, geminiPart{Text: req.Text})
	}
	contents = append(contents, geminiContent{Role: "user", Parts: userParts})

	payload := geminiRequest{Contents: contents}
	if req.SystemInstruction != "" {
		payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.SystemInstruction}}}
	}
	return payload
}

func wireRole(r models.Role) string {
	if r == models.RoleAssistant {
		return "model"
	}
	return "user"
}
