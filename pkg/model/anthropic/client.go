// Package anthropic implements the model.Provider interface over the
// Anthropic Messages API, including tool_use round trips.
package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	modelpkg "github.com/dayweave/dayweave/pkg/model"
)

// Ensure Client satisfies the Provider interface at compile time.
var _ modelpkg.Provider = (*Client)(nil)

// Client is a reasoning-service client backed by Anthropic's Messages API.
// It is safe for concurrent use and carries no per-run state.
type Client struct {
	httpClient *http.Client
	baseURL    string
	model      string
	system     string
	maxTokens  int
	headers    map[string]string
}

// Option mutates a Client during construction.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithBaseURL points the client at an alternative endpoint, e.g. a test
// server or proxy.
func WithBaseURL(base string) Option {
	return func(c *Client) { c.baseURL = sanitizeBaseURL(base) }
}

// WithModel selects the model name.
func WithModel(name string) Option {
	return func(c *Client) {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			c.model = trimmed
		}
	}
}

// WithSystem sets the system prompt sent on every request.
func WithSystem(prompt string) Option {
	return func(c *Client) { c.system = prompt }
}

// WithMaxTokens bounds the response size.
func WithMaxTokens(n int) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// NewClient builds a Client for the given API key.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("anthropic api key is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: time.Duration(defaultHTTPTimeout) * time.Second},
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		maxTokens:  defaultMaxTokens,
		headers: map[string]string{
			"X-API-Key":         apiKey,
			"Anthropic-Version": anthropicVersion,
			"Content-Type":      "application/json",
			"User-Agent":        userAgent,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Name advertises the provider identifier.
func (c *Client) Name() string { return "anthropic" }

// Complete performs one blocking Messages API call with the fixed tool
// declarations attached.
func (c *Client) Complete(ctx context.Context, messages []modelpkg.Message, tools []modelpkg.ToolDefinition) (modelpkg.Message, error) {
	payload := MessageRequest{
		Model:     c.model,
		Messages:  toAnthropicMessages(messages),
		System:    c.system,
		MaxTokens: c.maxTokens,
		Tools:     toAnthropicTools(tools),
	}

	resp, err := c.doRequest(ctx, payload)
	if err != nil {
		return modelpkg.Message{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusMultipleChoices {
		return modelpkg.Message{}, readAPIError(resp)
	}

	var msgResp MessageResponse
	if err := json.NewDecoder(resp.Body).Decode(&msgResp); err != nil {
		return modelpkg.Message{}, fmt.Errorf("decode anthropic response: %w", err)
	}

	return convertResponse(msgResp), nil
}

func (c *Client) doRequest(ctx context.Context, payload MessageRequest) (*http.Response, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(payload); err != nil {
		return nil, fmt.Errorf("encode anthropic request: %w", err)
	}

	endpoint := c.baseURL + messagesPath
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("create anthropic request: %w", err)
	}

	for k, v := range c.headers {
		if v == "" {
			continue
		}
		req.Header.Set(k, v)
	}

	return c.httpClient.Do(req)
}

func readAPIError(resp *http.Response) error {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("anthropic api status %d: %w", resp.StatusCode, err)
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return APIError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	var apiErr ErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error.Message != "" {
		return APIError{StatusCode: resp.StatusCode, Type: apiErr.Error.Type, Message: apiErr.Error.Message}
	}

	return APIError{StatusCode: resp.StatusCode, Message: string(body)}
}

func convertResponse(resp MessageResponse) modelpkg.Message {
	msg := modelpkg.Message{Role: resp.Role}
	var text strings.Builder
	var toolCalls []modelpkg.ToolCall
	for _, block := range resp.Content {
		switch block.Type {
		case "text":
			text.WriteString(block.Text)
		case "tool_use":
			toolCalls = append(toolCalls, modelpkg.ToolCall{
				ID:        block.ID,
				Name:      block.Name,
				Arguments: block.Input,
			})
		}
	}
	msg.Content = text.String()
	msg.ToolCalls = toolCalls
	if msg.Role == "" {
		msg.Role = "assistant"
	}
	return msg
}

func toAnthropicTools(tools []modelpkg.ToolDefinition) []ToolDefinition {
	if len(tools) == 0 {
		return nil
	}
	out := make([]ToolDefinition, 0, len(tools))
	for _, t := range tools {
		out = append(out, ToolDefinition{
			Name:        t.Name,
			Description: t.Description,
			InputSchema: t.InputSchema,
		})
	}
	return out
}

func toAnthropicMessages(messages []modelpkg.Message) []MessageParam {
	out := make([]MessageParam, 0, len(messages))
	for _, msg := range messages {
		role := normalizeRole(strings.ToLower(strings.TrimSpace(msg.Role)))

		blocks := make([]ContentBlock, 0, 1+len(msg.ToolCalls)+len(msg.ToolOutputs))
		if msg.Content != "" {
			blocks = append(blocks, ContentBlock{Type: "text", Text: msg.Content})
		}
		for _, call := range msg.ToolCalls {
			blocks = append(blocks, ContentBlock{
				Type:  "tool_use",
				ID:    call.ID,
				Name:  call.Name,
				Input: call.Arguments,
			})
		}
		for _, output := range msg.ToolOutputs {
			blocks = append(blocks, ContentBlock{
				Type:      "tool_result",
				ToolUseID: output.ID,
				Content:   output.Content,
			})
		}
		if len(blocks) == 0 {
			blocks = append(blocks, ContentBlock{Type: "text", Text: ""})
		}

		out = append(out, MessageParam{Role: role, Content: blocks})
	}

	if len(out) == 0 {
		out = append(out, MessageParam{
			Role:    "user",
			Content: []ContentBlock{{Type: "text", Text: ""}},
		})
	}
	return out
}

func normalizeRole(role string) string {
	switch role {
	case "assistant", "model":
		return "assistant"
	default:
		return "user"
	}
}

func sanitizeBaseURL(base string) string {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		return defaultBaseURL
	}
	trimmed = strings.TrimRight(trimmed, "/")
	if trimmed == "" {
		return defaultBaseURL
	}
	return trimmed
}
