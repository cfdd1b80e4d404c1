package event

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRelayWritesFramesAndDoneSentinel(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamWriter(&buf)

	events := make(chan Event, 3)
	events <- AgentStep("Parsing your request")
	events <- ToolResult("search_movies", 3)
	events <- Error("out of rounds")
	close(events)

	require.NoError(t, stream.Relay(context.Background(), events))

	frames := strings.Split(strings.TrimSuffix(buf.String(), "\n\n"), "\n\n")
	require.Len(t, frames, 4)
	require.Equal(t, `data: {"type":"agent_step","label":"Parsing your request"}`, frames[0])
	require.Equal(t, `data: {"type":"tool_result","tool":"search_movies","count":3}`, frames[1])
	require.Equal(t, `data: {"type":"error","message":"out of rounds"}`, frames[2])
	require.Equal(t, `data: {"type":"done"}`, frames[3])
}

func TestRelayStopsOnContextCancel(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamWriter(&buf)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	events := make(chan Event)
	err := stream.Relay(ctx, events)
	require.ErrorIs(t, err, context.Canceled)
	require.NotContains(t, buf.String(), "done")
}

func TestNewStreamSetsSSEHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	stream := NewStream(rec)
	require.NoError(t, stream.Send(AgentStep("x")))

	require.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	require.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))
	require.True(t, rec.Flushed)
}

func TestHeartbeat(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamWriter(&buf)
	stream.SetHeartbeat(5 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	events := make(chan Event)
	err := stream.Relay(ctx, events)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.Contains(t, buf.String(), ": ping")
}
