package toolbuiltin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPlaceSearchMockMode(t *testing.T) {
	search := NewPlaceSearch("", nil)

	out, err := search.Execute(context.Background(), map[string]any{
		"max_entry_fee": float64(500),
	})
	require.NoError(t, err)

	var hits []Place
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 4)
	for _, hit := range hits {
		require.LessOrEqual(t, float64(hit.EntryFee), 500*0.15)
	}
}

func TestPlaceSearchRequiresMaxEntryFee(t *testing.T) {
	search := NewPlaceSearch("", nil)
	_, err := search.Execute(context.Background(), map[string]any{"interests": "nature"})
	require.Error(t, err)
}

func TestEstimateEntryFee(t *testing.T) {
	tests := []struct {
		name string
		want int
	}{
		{name: "Golconda Fort", want: 35},
		{name: "Snow World Hyderabad", want: 799},
		{name: "Birla Mandir Temple", want: 0},
		{name: "Some Unknown Garden", want: 50},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, estimateEntryFee(tt.name), "venue %q", tt.name)
	}
}

func TestPlaceSearchFetch(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Contains(t, r.URL.Query().Get("query"), "historical")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"results": []map[string]any{
				{"name": "Golconda Fort", "formatted_address": "Ibrahim Bagh", "rating": 4.4, "place_id": "g1"},
				{"name": "Mystery Spot", "formatted_address": "", "rating": 0.0, "place_id": "g2"},
			},
		})
	}))
	defer ts.Close()

	search := NewPlaceSearch("test-key", ts.Client())
	search.SetBaseURL(ts.URL)

	out, err := search.Execute(context.Background(), map[string]any{
		"interests":     "historical",
		"max_entry_fee": 200,
		"area":          "Old City",
	})
	require.NoError(t, err)

	var hits []Place
	require.NoError(t, json.Unmarshal([]byte(out), &hits))
	require.Len(t, hits, 2)
	require.Equal(t, 35, hits[0].EntryFee)
	// Unknown venue picks up the defaults.
	require.Equal(t, "Old City", hits[1].Address)
	require.Equal(t, 4.0, hits[1].Rating)
	require.Equal(t, 50, hits[1].EntryFee)
}
