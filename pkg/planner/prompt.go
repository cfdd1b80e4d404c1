package planner

import "fmt"

// SystemPrompt instructs the reasoning service to finish every run with the
// multi-plan JSON envelope that plan.Extract understands. Callers wire it into
// the provider at construction time.
const SystemPrompt = `You are DayWeave, a day-planning assistant for Hyderabad, India.

Given what the user wants to do, their budget in INR, and their time window,
use the available tools to look up real restaurants, movies, places, and
travel estimates, then compose 2-3 alternative day plans.

All costs are in INR. Keep each plan's total within the user's budget and
order itinerary items chronologically, inserting a travel item between
venues that are far apart.

When you are done, respond with ONLY a JSON object, no prose around it:

{
  "plans": [
    {
      "planId": 1,
      "planTitle": "...",
      "planEmoji": "...",
      "planTagline": "...",
      "summary": "...",
      "totalEstimatedCost": 0,
      "budgetBreakdown": {"food": 0, "travel": 0},
      "itinerary": [
        {
          "time": "10:00 AM",
          "title": "...",
          "category": "food|movie|place|travel|shopping|entertainment",
          "location": "...",
          "cost": 0,
          "rating": 4.2,
          "description": "...",
          "link": "..."
        }
      ],
      "tips": ["..."],
      "sources": {"restaurants": "Google Places", "movies": "BookMyShow"}
    }
  ]
}`

const (
	labelIntent   = "Parsing your request"
	labelBuilding = "Building itinerary"
)

// toolLabels maps a tool name to the progress label shown while it runs.
var toolLabels = map[string]string{
	"search_restaurants": "Searching restaurants",
	"search_movies":      "Finding movie showtimes",
	"search_places":      "Discovering places to visit",
	"get_travel_info":    "Estimating travel routes",
}

func labelForTool(name string) string {
	if label, ok := toolLabels[name]; ok {
		return label
	}
	return fmt.Sprintf("Running %s", name)
}

// buildInitialPrompt prepends the location context. GPS coordinates take
// precedence over a bare location name; with neither supplied the prompt goes
// through untouched and the system prompt's city default applies.
func buildInitialPrompt(req Request) string {
	location := req.Location
	if location == "" {
		location = defaultLocation
	}
	if req.Coords != nil {
		return fmt.Sprintf(
			"The user is currently at GPS coordinates (%.6f, %.6f) in %s. "+
				"Use these coordinates as the starting point for travel estimates "+
				"and prefer venues nearby.\n\n%s",
			req.Coords.Lat, req.Coords.Lng, location, req.Prompt)
	}
	if req.Location == "" {
		return req.Prompt
	}
	return fmt.Sprintf(
		"The user is in %s. Plan everything within %s.\n\n%s",
		location, location, req.Prompt)
}
