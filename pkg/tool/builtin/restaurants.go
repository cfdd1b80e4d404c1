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
	placesBaseURL             = "https://places.googleapis.com/v1/places"
	defaultRestaurantLimit    = 5
	restaurantBudgetShare     = 0.45
	mockRestaurantBudgetShare = 0.5
)

// priceLevelCost maps the Google 1-4 price level to a rough INR estimate per
// person.
var priceLevelCost = map[int]int{1: 150, 2: 350, 3: 600, 4: 1200}

var _ tool.Tool = (*RestaurantSearch)(nil)

// RestaurantSearch finds restaurants in an area of Hyderabad via the Google
// Places text search, filtered by cuisine and budget per person.
type RestaurantSearch struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewRestaurantSearch constructs the search_restaurants tool. An empty API
// key switches the tool to its curated mock data.
func NewRestaurantSearch(apiKey string, httpClient *http.Client) *RestaurantSearch {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &RestaurantSearch{apiKey: apiKey, baseURL: placesBaseURL, httpClient: httpClient}
}

// SetBaseURL redirects upstream calls, e.g. to a test server.
func (r *RestaurantSearch) SetBaseURL(base string) { r.baseURL = base }

func (r *RestaurantSearch) Name() string { return "search_restaurants" }

func (r *RestaurantSearch) Description() string {
	return "Search for restaurants in a specific area of Hyderabad filtered by cuisine type and " +
		"budget per person. Returns name, address, ratings, estimated cost per person, and Google Maps link."
}

func (r *RestaurantSearch) Schema() model.JSONSchema {
	return model.JSONSchema{
		Type: "object",
		Properties: map[string]model.Property{
			"area":                  {Type: "string", Description: "Area/neighbourhood in Hyderabad, e.g. 'Banjara Hills'"},
			"max_budget_per_person": {Type: "integer", Description: "Max price per person in INR"},
			"cuisine":               {Type: "string", Description: "Cuisine type, e.g. 'biryani', 'South Indian', 'Chinese'"},
		},
		Required: []string{"area", "max_budget_per_person"},
	}
}

// Restaurant is one serialized search hit.
type Restaurant struct {
	Name          string  `json:"name"`
	Address       string  `json:"address"`
	Rating        float64 `json:"rating"`
	PriceLevel    int     `json:"price_level,omitempty"`
	EstimatedCost int     `json:"estimated_cost"`
	MapsURL       string  `json:"maps_url"`
	PlaceID       string  `json:"place_id,omitempty"`
}

func (r *RestaurantSearch) Execute(ctx context.Context, args map[string]any) (string, error) {
	area, err := requireString(args, "area")
	if err != nil {
		return "", err
	}
	budget, err := requireInt(args, "max_budget_per_person")
	if err != nil {
		return "", err
	}
	cuisine := stringArg(args, "cuisine", "")

	if r.apiKey == "" {
		return marshalPayload(mockRestaurants(budget))
	}

	results, err := r.fetch(ctx, area, cuisine, budget)
	if err != nil || len(results) == 0 {
		// Degrade to mock data; the round must not abort on a lookup failure.
		return marshalPayload(mockRestaurants(budget))
	}
	return marshalPayload(results)
}

func (r *RestaurantSearch) fetch(ctx context.Context, area, cuisine string, budget int) ([]Restaurant, error) {
	query := fmt.Sprintf("%s restaurant in %s Hyderabad", cuisine, area)
	params := url.Values{
		"query": {query},
		"key":   {r.apiKey},
		"type":  {"restaurant"},
	}
	endpoint := r.baseURL + "/textsearch/json?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Results []struct {
			Name             string  `json:"name"`
			FormattedAddress string  `json:"formatted_address"`
			Rating           float64 `json:"rating"`
			PriceLevel       int     `json:"price_level"`
			PlaceID          string  `json:"place_id"`
		} `json:"results"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	results := make([]Restaurant, 0, defaultRestaurantLimit)
	for _, p := range payload.Results {
		if len(results) >= defaultRestaurantLimit {
			break
		}
		priceLevel := p.PriceLevel
		if priceLevel == 0 {
			priceLevel = 2
		}
		estCost, ok := priceLevelCost[priceLevel]
		if !ok {
			estCost = 350
		}
		if float64(estCost) > float64(budget)*restaurantBudgetShare {
			continue
		}
		address := p.FormattedAddress
		if address == "" {
			address = area
		}
		rating := p.Rating
		if rating == 0 {
			rating = 4.0
		}
		results = append(results, Restaurant{
			Name:          p.Name,
			Address:       address,
			Rating:        rating,
			PriceLevel:    priceLevel,
			EstimatedCost: estCost,
			MapsURL:       "https://www.google.com/maps/place/?q=place_id:" + p.PlaceID,
			PlaceID:       p.PlaceID,
		})
	}
	return results, nil
}

func mockRestaurants(budget int) []Restaurant {
	all := []Restaurant{
		{Name: "Paradise Biryani", Address: "MG Road, Secunderabad", Rating: 4.4,
			EstimatedCost: 320, MapsURL: "https://maps.google.com/?q=Paradise+Biryani+Hyderabad"},
		{Name: "Bawarchi Restaurant", Address: "RTC X Roads, Hyderabad", Rating: 4.3,
			EstimatedCost: 280, MapsURL: "https://maps.google.com/?q=Bawarchi+Hyderabad"},
		{Name: "Rayalaseema Ruchulu", Address: "Banjara Hills, Hyderabad", Rating: 4.2,
			EstimatedCost: 350, MapsURL: "https://maps.google.com/?q=Rayalaseema+Ruchulu+Hyderabad"},
		{Name: "AB's – Absolute Barbecues", Address: "Jubilee Hills, Hyderabad", Rating: 4.5,
			EstimatedCost: 700, MapsURL: "https://maps.google.com/?q=AB%27s+Absolute+Barbecues+Hyderabad"},
		{Name: "Ohri's Jiva Imperia", Address: "Basheer Bagh, Hyderabad", Rating: 4.1,
			EstimatedCost: 600, MapsURL: "https://maps.google.com/?q=Ohri%27s+Hyderabad"},
		{Name: "Shah Ghouse Cafe", Address: "Tolichowki, Hyderabad", Rating: 4.5,
			EstimatedCost: 200, MapsURL: "https://maps.google.com/?q=Shah+Ghouse+Hyderabad"},
		{Name: "Chutneys", Address: "Banjara Hills, Hyderabad", Rating: 4.3,
			EstimatedCost: 250, MapsURL: "https://maps.google.com/?q=Chutneys+Hyderabad"},
	}
	picks := make([]Restaurant, 0, 4)
	for _, r := range all {
		if float64(r.EstimatedCost) <= float64(budget)*mockRestaurantBudgetShare {
			picks = append(picks, r)
		}
		if len(picks) == 4 {
			break
		}
	}
	return picks
}

func marshalPayload(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal tool payload: %w", err)
	}
	return string(data), nil
}
