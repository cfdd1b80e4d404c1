package tool

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestExecuteBatchPreservesRequestOrder(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTool{name: "fast", content: `["a","b"]`}))
	require.NoError(t, reg.Register(&fakeTool{name: "slow", content: `["x"]`}))

	exec := NewExecutor(reg, 0, nil)
	requests := []Request{
		{ID: "r1", Name: "slow"},
		{ID: "r2", Name: "fast"},
		{ID: "r3", Name: "fast"},
	}

	results := exec.ExecuteBatch(context.Background(), requests)
	require.Len(t, results, 3)
	require.Equal(t, "r1", results[0].ID)
	require.Equal(t, "r2", results[1].ID)
	require.Equal(t, "r3", results[2].ID)
	require.Equal(t, `["x"]`, results[0].Content)
}

func TestExecuteBatchSoftFailures(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTool{name: "broken", err: errors.New("upstream down")}))

	exec := NewExecutor(reg, 0, nil)
	results := exec.ExecuteBatch(context.Background(), []Request{
		{ID: "r1", Name: "broken"},
		{ID: "r2", Name: "never_registered"},
	})
	require.Len(t, results, 2)

	for i, wantMsg := range []string{"upstream down", "unknown tool: never_registered"} {
		var payload map[string]string
		require.NoError(t, json.Unmarshal([]byte(results[i].Content), &payload))
		require.Equal(t, wantMsg, payload["error"])
	}
}

func TestExecuteTimeoutDegradesToErrorPayload(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register(&fakeTool{name: "hang", block: true}))

	exec := NewExecutor(reg, 10*time.Millisecond, nil)
	results := exec.ExecuteBatch(context.Background(), []Request{{ID: "r1", Name: "hang"}})
	require.Len(t, results, 1)
	require.Contains(t, results[0].Content, "error")
	require.Equal(t, 1, results[0].ItemCount())
}

func TestResultItemCount(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "list", content: `[{"a":1},{"a":2},{"a":3}]`, want: 3},
		{name: "empty list", content: `[]`, want: 0},
		{name: "object", content: `{"distance_km":8}`, want: 1},
		{name: "error payload", content: `{"error":"nope"}`, want: 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Result{Content: tt.content}
			require.Equal(t, tt.want, r.ItemCount())
		})
	}
}

func TestResultOutputKeepsRequestID(t *testing.T) {
	r := Result{ID: "toolu_123", Name: "search_places", Content: `[]`}
	out := r.Output()
	require.Equal(t, "toolu_123", out.ID)
	require.Equal(t, "search_places", out.Name)
	require.Equal(t, `[]`, out.Content)
}
