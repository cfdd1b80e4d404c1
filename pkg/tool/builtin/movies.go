package toolbuiltin

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/dayweave/dayweave/pkg/model"
	"github.com/dayweave/dayweave/pkg/tool"
)

const (
	serpBaseURL       = "https://serpapi.com/search"
	defaultMovieLimit = 5
)

var _ tool.Tool = (*MovieSearch)(nil)

// MovieSearch lists movies currently showing in Hyderabad cinemas via the
// SerpAPI Google Movies engine, filtered by genre and ticket price.
type MovieSearch struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewMovieSearch constructs the search_movies tool. An empty API key switches
// the tool to its curated mock data.
func NewMovieSearch(apiKey string, httpClient *http.Client) *MovieSearch {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &MovieSearch{apiKey: apiKey, baseURL: serpBaseURL, httpClient: httpClient}
}

// SetBaseURL redirects upstream calls, e.g. to a test server.
func (m *MovieSearch) SetBaseURL(base string) { m.baseURL = base }

func (m *MovieSearch) Name() string { return "search_movies" }

func (m *MovieSearch) Description() string {
	return "Get currently showing movies in Hyderabad cinemas. Filtered by preferred genre and max " +
		"ticket price. Returns movie name, theatre, genre, rating, ticket price, and BookMyShow link."
}

func (m *MovieSearch) Schema() model.JSONSchema {
	return model.JSONSchema{
		Type: "object",
		Properties: map[string]model.Property{
			"preferred_genre":  {Type: "string", Description: "Genre preference e.g. 'action', 'comedy', 'thriller'"},
			"max_ticket_price": {Type: "integer", Description: "Max ticket price in INR"},
		},
		Required: []string{"max_ticket_price"},
	}
}

// Movie is one serialized listing.
type Movie struct {
	Title         string `json:"title"`
	Theatre       string `json:"theatre"`
	Genre         string `json:"genre"`
	Rating        string `json:"rating"`
	TicketPrice   int    `json:"ticket_price"`
	Duration      string `json:"duration"`
	BookMyShowURL string `json:"bookmyshow_url"`
}

func (m *MovieSearch) Execute(ctx context.Context, args map[string]any) (string, error) {
	maxPrice, err := requireInt(args, "max_ticket_price")
	if err != nil {
		return "", err
	}
	genre := stringArg(args, "preferred_genre", "")

	if m.apiKey == "" {
		return marshalPayload(mockMovies(maxPrice))
	}

	results, err := m.fetch(ctx, genre, maxPrice)
	if err != nil || len(results) == 0 {
		return marshalPayload(mockMovies(maxPrice))
	}
	return marshalPayload(results)
}

func (m *MovieSearch) fetch(ctx context.Context, genre string, maxPrice int) ([]Movie, error) {
	params := url.Values{
		"engine":   {"google"},
		"q":        {"movies showing today in Hyderabad cinemas " + genre},
		"api_key":  {m.apiKey},
		"hl":       {"en"},
		"gl":       {"in"},
		"location": {"Hyderabad, Telangana, India"},
	}
	endpoint := m.baseURL + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var payload struct {
		Showtimes []struct {
			Name     string `json:"name"`
			Rating   string `json:"rating"`
			Duration string `json:"duration"`
		} `json:"showtimes"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, err
	}

	fallbackGenre := genre
	if fallbackGenre == "" {
		fallbackGenre = "Drama"
	}
	results := make([]Movie, 0, defaultMovieLimit)
	for _, s := range payload.Showtimes {
		if len(results) >= defaultMovieLimit {
			break
		}
		title := s.Name
		if title == "" {
			title = "Unknown"
		}
		rating := s.Rating
		if rating == "" {
			rating = "7.5/10"
		}
		duration := s.Duration
		if duration == "" {
			duration = "2h 30m"
		}
		results = append(results, Movie{
			Title:         title,
			Theatre:       "PVR / INOX / AMB Cinemas",
			Genre:         fallbackGenre,
			Rating:        rating,
			TicketPrice:   estimateTicketPrice(maxPrice),
			Duration:      duration,
			BookMyShowURL: "https://in.bookmyshow.com",
		})
	}
	return results, nil
}

// estimateTicketPrice buckets the budget into premium, standard, and matinee
// tiers.
func estimateTicketPrice(maxPrice int) int {
	switch {
	case maxPrice >= 400:
		return 350
	case maxPrice >= 250:
		return 220
	default:
		return 150
	}
}

func mockMovies(budget int) []Movie {
	all := []Movie{
		{Title: "Check BookMyShow for Latest Shows", Theatre: "AMB Cinemas, Gachibowli",
			Genre: "Action", Rating: "8.1/10", TicketPrice: 300, Duration: "2h 25m",
			BookMyShowURL: "https://in.bookmyshow.com/movies/hyderabad"},
		{Title: "PVR Inorbit – Current Blockbuster", Theatre: "PVR Inorbit Mall, HITEC City",
			Genre: "Thriller", Rating: "7.8/10", TicketPrice: 350, Duration: "2h 10m",
			BookMyShowURL: "https://in.bookmyshow.com/movies/hyderabad"},
		{Title: "INOX GVK One – Matinee Show", Theatre: "INOX GVK One, Banjara Hills",
			Genre: "Comedy", Rating: "7.2/10", TicketPrice: 200, Duration: "1h 55m",
			BookMyShowURL: "https://in.bookmyshow.com/movies/hyderabad"},
	}
	picks := make([]Movie, 0, 3)
	for _, m := range all {
		if m.TicketPrice <= budget {
			picks = append(picks, m)
		}
		if len(picks) == 3 {
			break
		}
	}
	return picks
}
