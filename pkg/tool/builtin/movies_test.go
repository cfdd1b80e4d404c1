package toolbuiltin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMovieSearchMockMode(t *testing.T) {
	search := NewMovieSearch("", nil)

	out, err := search.Execute(context.Background(), map[string]any{
		"max_ticket_price": float64(250),
	})
	require.NoError(t, err)

	var hits []Movie
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 1)
	require.LessOrEqual(t, hits[0].TicketPrice, 250)
}

func TestMovieSearchRequiresTicketPrice(t *testing.T) {
	search := NewMovieSearch("", nil)
	_, err := search.Execute(context.Background(), map[string]any{"preferred_genre": "action"})
	require.Error(t, err)
}

func TestEstimateTicketPrice(t *testing.T) {
	tests := []struct {
		budget int
		want   int
	}{
		{budget: 600, want: 350},
		{budget: 400, want: 350},
		{budget: 399, want: 220},
		{budget: 250, want: 220},
		{budget: 249, want: 150},
		{budget: 100, want: 150},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, estimateTicketPrice(tt.budget), "budget %d", tt.budget)
	}
}

func TestMovieSearchFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "google", r.URL.Query().Get("engine"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"showtimes": []map[string]any{
				{"name": "Big Release", "rating": "8.4/10", "duration": "2h 40m"},
				{"name": "", "rating": "", "duration": ""},
			},
		})
	}))
	defer ts.Close()

	search := NewMovieSearch("test-key", ts.Client())
	search.SetBaseURL(ts.URL)

	out, err := search.Execute(context.Background(), map[string]any{
		"max_ticket_price": 500,
		"preferred_genre":  "action",
	})
	require.NoError(t, err)

	var hits []Movie
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 2)
	require.Equal(t, "Big Release", hits[0].Title)
	require.Equal(t, 350, hits[0].TicketPrice)
	// Blank upstream fields degrade to placeholders.
	require.Equal(t, "Unknown", hits[1].Title)
	require.Equal(t, "7.5/10", hits[1].Rating)
}
