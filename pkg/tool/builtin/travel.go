package toolbuiltin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/dayweave/dayweave/pkg/model"
	"github.com/dayweave/dayweave/pkg/tool"
)

const (
	distanceMatrixBaseURL = "https://maps.googleapis.com/maps/api/distancematrix"

	// Approx Uber/Ola pricing: base fare plus per-km rate.
	cabBaseFareINR = 50
	cabPerKmINR    = 12
)

var _ tool.Tool = (*TravelInfo)(nil)

// TravelInfo estimates travel time and cab fare between two Hyderabad
// locations using the Google Distance Matrix API, with a heuristic fallback.
type TravelInfo struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewTravelInfo constructs the get_travel_info tool. An empty API key
// switches the tool to its heuristic estimate.
func NewTravelInfo(apiKey string, httpClient *http.Client) *TravelInfo {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &TravelInfo{apiKey: apiKey, baseURL: distanceMatrixBaseURL, httpClient: httpClient}
}

// SetBaseURL redirects upstream calls, e.g. to a test server.
func (t *TravelInfo) SetBaseURL(base string) { t.baseURL = base }

func (t *TravelInfo) Name() string { return "get_travel_info" }

func (t *TravelInfo) Description() string {
	return "Get travel time and cab fare estimate between two locations in Hyderabad. " +
		"Returns distance, duration in minutes, and estimated Uber/Ola fare."
}

func (t *TravelInfo) Schema() model.JSONSchema {
	return model.JSONSchema{
		Type: "object",
		Properties: map[string]model.Property{
			"origin":      {Type: "string", Description: "Starting location name in Hyderabad"},
			"destination": {Type: "string", Description: "Destination location name in Hyderabad"},
		},
		Required: []string{"origin", "destination"},
	}
}

// Travel is the serialized estimate. Unlike the search tools this payload is
// a single object, so its tool_result count reports as 1.
type Travel struct {
	DistanceKm   float64 `json:"distance_km"`
	DurationMins int     `json:"duration_mins"`
	CabFareINR   int     `json:"cab_fare_inr"`
	Mode         string  `json:"mode"`
}

func (t *TravelInfo) Execute(ctx context.Context, args map[string]any) (string, error) {
	origin, err := requireString(args, "origin")
	if err != nil {
		return "", err
	}
	destination, err := requireString(args, "destination")
	if err != nil {
		return "", err
	}

	if t.apiKey == "" {
		return marshalPayload(mockTravel())
	}

	estimate, err := t.fetch(ctx, origin, destination)
	if err != nil {
		return marshalPayload(mockTravel())
	}
	return marshalPayload(estimate)
}

func (t *TravelInfo) fetch(ctx context.Context, origin, destination string) (Travel, error) {
	params := url.Values{
		"origins":      {origin + ", Hyderabad"},
		"destinations": {destination + ", Hyderabad"},
		"key":          {t.apiKey},
		"mode":         {"driving"},
		"units":        {"metric"},
	}
	endpoint := t.baseURL + "/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Travel{}, err
	}
	resp, err := t.httpClient.Do(req)
	if err != nil {
		return Travel{}, err
	}
	defer resp.Body.Close()

	var payload struct {
		Rows []struct {
			Elements []struct {
				Distance struct {
					Value int `json:"value"`
				} `json:"distance"`
				Duration struct {
					Value int `json:"value"`
				} `json:"duration"`
			} `json:"elements"`
		} `json:"rows"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return Travel{}, err
	}
	if len(payload.Rows) == 0 || len(payload.Rows[0].Elements) == 0 {
		return Travel{}, fmt.Errorf("distance matrix returned no elements")
	}

	element := payload.Rows[0].Elements[0]
	distanceKm := float64(element.Distance.Value) / 1000
	return Travel{
		DistanceKm:   roundTo1(distanceKm),
		DurationMins: element.Duration.Value / 60,
		CabFareINR:   estimateCabFare(distanceKm),
		Mode:         "Uber/Ola",
	}, nil
}

func estimateCabFare(km float64) int {
	return int(cabBaseFareINR + km*cabPerKmINR)
}

// mockTravel assumes an average 8 km, 20 minute hop within Hyderabad.
func mockTravel() Travel {
	return Travel{
		DistanceKm:   8.0,
		DurationMins: 20,
		CabFareINR:   130,
		Mode:         "Uber/Ola",
	}
}

func roundTo1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
