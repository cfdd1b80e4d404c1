package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	modelpkg "github.com/dayweave/dayweave/pkg/model"
)

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient("")
	require.Error(t, err)

	_, err = NewClient("   ")
	require.Error(t, err)
}

func TestCompleteDecodesToolUse(t *testing.T) {
	var captured MessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "test-key", r.Header.Get("X-API-Key"))
		require.Equal(t, anthropicVersion, r.Header.Get("Anthropic-Version"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		_ = json.NewEncoder(w).Encode(MessageResponse{
			Role: "assistant",
			Content: []ContentBlock{
				{Type: "text", Text: "Looking up restaurants."},
				{Type: "tool_use", ID: "toolu_1", Name: "search_restaurants",
					Input: map[string]any{"area": "Banjara Hills", "max_budget_per_person": float64(500)}},
			},
			StopReason: "tool_use",
		})
	}))
	defer ts.Close()

	client, err := NewClient("test-key",
		WithBaseURL(ts.URL),
		WithModel("test-model"),
		WithSystem("you are a planner"),
		WithMaxTokens(512),
		WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	tools := []modelpkg.ToolDefinition{{
		Name:        "search_restaurants",
		Description: "find restaurants",
		InputSchema: modelpkg.JSONSchema{Type: "object"},
	}}
	msg, err := client.Complete(context.Background(), []modelpkg.Message{
		modelpkg.UserMessage("plan my day"),
	}, tools)
	require.NoError(t, err)

	require.Equal(t, "assistant", msg.Role)
	require.Equal(t, "Looking up restaurants.", msg.Content)
	require.Len(t, msg.ToolCalls, 1)
	require.Equal(t, "toolu_1", msg.ToolCalls[0].ID)
	require.Equal(t, "search_restaurants", msg.ToolCalls[0].Name)
	require.Equal(t, "Banjara Hills", msg.ToolCalls[0].Arguments["area"])

	require.Equal(t, "test-model", captured.Model)
	require.Equal(t, "you are a planner", captured.System)
	require.Equal(t, 512, captured.MaxTokens)
	require.Len(t, captured.Tools, 1)
	require.Equal(t, "search_restaurants", captured.Tools[0].Name)
}

func TestCompleteSendsToolResults(t *testing.T) {
	var captured MessageRequest
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_ = json.NewEncoder(w).Encode(MessageResponse{
			Role:    "assistant",
			Content: []ContentBlock{{Type: "text", Text: `{"plans": []}`}},
		})
	}))
	defer ts.Close()

	client, err := NewClient("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	messages := []modelpkg.Message{
		modelpkg.UserMessage("plan my day"),
		{Role: "assistant", ToolCalls: []modelpkg.ToolCall{
			{ID: "toolu_1", Name: "search_restaurants", Arguments: map[string]any{"area": "x"}},
		}},
		modelpkg.ToolResultMessage([]modelpkg.ToolOutput{
			{ID: "toolu_1", Name: "search_restaurants", Content: `[{"name":"Paradise"}]`},
		}),
	}
	msg, err := client.Complete(context.Background(), messages, nil)
	require.NoError(t, err)
	require.False(t, msg.HasToolCalls())

	require.Len(t, captured.Messages, 3)
	require.Equal(t, "assistant", captured.Messages[1].Role)
	require.Equal(t, "tool_use", captured.Messages[1].Content[0].Type)
	require.Equal(t, "user", captured.Messages[2].Role)

	block := captured.Messages[2].Content[0]
	require.Equal(t, "tool_result", block.Type)
	require.Equal(t, "toolu_1", block.ToolUseID)
	require.Equal(t, `[{"name":"Paradise"}]`, block.Content)
}

func TestCompleteSurfacesAPIErrors(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Error: ErrorBody{Type: "rate_limit_error", Message: "slow down"},
		})
	}))
	defer ts.Close()

	client, err := NewClient("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), []modelpkg.Message{modelpkg.UserMessage("hi")}, nil)
	require.Error(t, err)

	var apiErr APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusTooManyRequests, apiErr.StatusCode)
	require.Equal(t, "rate_limit_error", apiErr.Type)
	require.Equal(t, "slow down", apiErr.Message)
}

func TestCompleteHonorsContextCancel(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer ts.Close()

	client, err := NewClient("test-key", WithBaseURL(ts.URL), WithHTTPClient(ts.Client()))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = client.Complete(ctx, []modelpkg.Message{modelpkg.UserMessage("hi")}, nil)
	require.Error(t, err)
}
