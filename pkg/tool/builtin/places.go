package toolbuiltin

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dayweave/dayweave/pkg/model"
	"github.com/dayweave/dayweave/pkg/tool"
)

const (
	defaultPlaceLimit    = 6
	defaultEntryFee      = 50
	mockPlaceBudgetShare = 0.15
)

// entryFees is a rough entry fee lookup for known Hyderabad spots, keyed by a
// lowercase substring of the venue name.
var entryFees = map[string]int{
	"golconda": 35, "charminar": 25, "ramoji": 1150,
	"birla": 0, "hussain sagar": 0, "lumbini": 50,
	"nehru zoo": 80, "salar jung": 20, "qutb shahi": 15,
	"snow world": 799, "wonderla": 999,
}

var _ tool.Tool = (*PlaceSearch)(nil)

// PlaceSearch finds tourist attractions, parks, malls, and entertainment
// venues in Hyderabad via the Google Places text search.
type PlaceSearch struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewPlaceSearch constructs the search_places tool. An empty API key switches
// the tool to its curated mock data.
func NewPlaceSearch(apiKey string, httpClient *http.Client) *PlaceSearch {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &PlaceSearch{apiKey: apiKey, baseURL: placesBaseURL, httpClient: httpClient}
}

// SetBaseURL redirects upstream calls, e.g. to a test server.
func (p *PlaceSearch) SetBaseURL(base string) { p.baseURL = base }

func (p *PlaceSearch) Name() string { return "search_places" }

func (p *PlaceSearch) Description() string {
	return "Search for tourist attractions, parks, malls, and entertainment venues in Hyderabad. " +
		"Returns name, address, rating, entry fee, estimated visit duration, and Google Maps link."
}

func (p *PlaceSearch) Schema() model.JSONSchema {
	return model.JSONSchema{
		Type: "object",
		Properties: map[string]model.Property{
			"interests":     {Type: "string", Description: "Type of place e.g. 'historical', 'nature', 'shopping', 'entertainment'"},
			"max_entry_fee": {Type: "integer", Description: "Max entry fee willing to pay in INR"},
			"area":          {Type: "string", Description: "Preferred area/zone in Hyderabad"},
		},
		Required: []string{"max_entry_fee"},
	}
}

// Place is one serialized attraction.
type Place struct {
	Name              string  `json:"name"`
	Address           string  `json:"address"`
	Rating            float64 `json:"rating"`
	EntryFee          int     `json:"entry_fee"`
	MapsURL           string  `json:"maps_url"`
	VisitDurationMins int     `json:"visit_duration_mins"`
}

func (p *PlaceSearch) Execute(ctx context.Context, args map[string]any) (string, error) {
	maxFee, err := requireInt(args, "max_entry_fee")
	if err != nil {
		return "", err
	}
	interests := stringArg(args, "interests", "sightseeing")
	area := stringArg(args, "area", "Hyderabad")

	if p.apiKey == "" {
		return marshalPayload(mockPlaces(maxFee))
	}

	results, err := p.fetch(ctx, interests, area)
	if err != nil || len(results) == 0 {
		return marshalPayload(mockPlaces(maxFee))
	}
	return marshalPayload(results)
}

func (p *PlaceSearch) fetch(ctx context.Context, interests, area string) ([]Place, error) {
	query := fmt.Sprintf("%s attractions in %s Hyderabad", interests, area)
	params := url.Values{
		"query": {query},
		"key":   {p.apiKey},
		"type":  {"tourist_attraction"},
	}
	endpoint := p.baseURL + "/textsearch/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name             string  `json:"name"`
			FormattedAddress string  `json:"formatted_address"`
			Rating           float64 `json:"rating"`
			PlaceID          string  `json:"place_id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Place, 0, defaultPlaceLimit)
	for _, hit := range payload.Results {
		if len(results) >= defaultPlaceLimit {
			break
		}
		address := hit.FormattedAddress
		if address == "" {
			address = area
		}
		rating := hit.Rating
		if rating == 0 {
			rating = 4.0
		}
		results = append(results, Place{
			Name:              hit.Name,
			Address:           address,
			Rating:            rating,
			EntryFee:          estimateEntryFee(hit.Name),
			MapsURL:           "https://www.google.com/maps/place/?q=place_id:" + hit.PlaceID,
			VisitDurationMins: 60,
		})
	}
	return results, nil
}

// estimateEntryFee looks up known venues by name substring; unknown venues
// assume the default fee.
func estimateEntryFee(name string) int {
	lower := strings.ToLower(name)
	for key, fee := range entryFees {
		if strings.Contains(lower, key) {
			return fee
		}
	}
	return defaultEntryFee
}

func mockPlaces(budget int) []Place {
	all := []Place{
		{Name: "Hussain Sagar Lake & Tank Bund", Address: "Tank Bund Road, Hyderabad",
			Rating: 4.3, EntryFee: 0, VisitDurationMins: 60,
			MapsURL: "https://maps.google.com/?q=Hussain+Sagar+Lake"},
		{Name: "Golconda Fort", Address: "Ibrahim Bagh, Hyderabad",
			Rating: 4.4, EntryFee: 35, VisitDurationMins: 90,
			MapsURL: "https://maps.google.com/?q=Golconda+Fort"},
		{Name: "Charminar", Address: "Charminar, Old City, Hyderabad",
			Rating: 4.5, EntryFee: 25, VisitDurationMins: 60,
			MapsURL: "https://maps.google.com/?q=Charminar+Hyderabad"},
		{Name: "Lumbini Park", Address: "Secretariat Road, Hyderabad",
			Rating: 4.1, EntryFee: 50, VisitDurationMins: 60,
			MapsURL: "https://maps.google.com/?q=Lumbini+Park+Hyderabad"},
		{Name: "Birla Mandir", Address: "Naubath Pahad, Hyderabad",
			Rating: 4.6, EntryFee: 0, VisitDurationMins: 45,
			MapsURL: "https://maps.google.com/?q=Birla+Mandir+Hyderabad"},
		{Name: "Inorbit Mall", Address: "HITEC City, Hyderabad",
			Rating: 4.3, EntryFee: 0, VisitDurationMins: 120,
			MapsURL: "https://maps.google.com/?q=Inorbit+Mall+Hyderabad"},
	}
	picks := make([]Place, 0, 4)
	for _, pl := range all {
		if float64(pl.EntryFee) <= float64(budget)*mockPlaceBudgetShare {
			picks = append(picks, pl)
		}
		if len(picks) == 4 {
			break
		}
	}
	return picks
}
