// Package plan defines the structured itinerary output of a planning run and
// the recovery logic that extracts it from a free-form model response.
package plan

import (
	"fmt"
	"math"
)

// Category classifies an itinerary item. The set is fixed; the reasoning
// service is instructed to emit only these values.
type Category string

const (
	CategoryFood          Category = "food"
	CategoryMovie         Category = "movie"
	CategoryPlace         Category = "place"
	CategoryTravel        Category = "travel"
	CategoryShopping      Category = "shopping"
	CategoryEntertainment Category = "entertainment"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryFood, CategoryMovie, CategoryPlace, CategoryTravel,
		CategoryShopping, CategoryEntertainment:
		return true
	}
	return false
}

// Coords is a WGS84 latitude/longitude pair.
type Coords struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ItineraryItem is one scheduled stop within a Plan. Travel items carry the
// extra pickup/dropoff fields; all other categories leave them empty.
type ItineraryItem struct {
	Time        string   `json:"time"`
	Title       string   `json:"title"`
	Category    Category `json:"category"`
	Location    string   `json:"location,omitempty"`
	Cost        float64  `json:"cost"`
	Rating      float64  `json:"rating,omitempty"`
	Description string   `json:"description,omitempty"`
	Link        string   `json:"link,omitempty"`

	PickupCoords  *Coords `json:"pickup_coords,omitempty"`
	DropoffCoords *Coords `json:"dropoff_coords,omitempty"`
	DropoffName   string  `json:"dropoff_name,omitempty"`
	EstimatedFare float64 `json:"estimated_fare,omitempty"`
}

// Plan is one complete day itinerary with its cost breakdown. Plans are the
// terminal output of a run; once handed to the caller they are never mutated.
type Plan struct {
	PlanID             int                `json:"planId"`
	PlanTitle          string             `json:"planTitle"`
	PlanEmoji          string             `json:"planEmoji"`
	PlanTagline        string             `json:"planTagline"`
	Summary            string             `json:"summary"`
	TotalEstimatedCost float64            `json:"totalEstimatedCost"`
	BudgetBreakdown    map[string]float64 `json:"budgetBreakdown"`
	Itinerary          []ItineraryItem    `json:"itinerary"`
	Tips               []string           `json:"tips"`
	Sources            map[string]string  `json:"sources"`
}

// budgetTolerance is the relative slack allowed between the breakdown sum and
// the declared total before CheckBudget flags the plan.
const budgetTolerance = 0.01

// CheckBudget verifies that the budget breakdown sums to approximately the
// declared total. The model asserts this in its instructions but nothing
// enforces it by construction, so the result is advisory: callers log the
// discrepancy rather than rejecting the plan.
func (p *Plan) CheckBudget() error {
	if len(p.BudgetBreakdown) == 0 {
		return nil
	}
	var sum float64
	for _, amount := range p.BudgetBreakdown {
		sum += amount
	}
	total := p.TotalEstimatedCost
	if total == 0 {
		if sum == 0 {
			return nil
		}
		return fmt.Errorf("plan %d: breakdown sums to %.2f but total is 0", p.PlanID, sum)
	}
	if math.Abs(sum-total)/math.Abs(total) > budgetTolerance {
		return fmt.Errorf("plan %d: breakdown sums to %.2f, total is %.2f", p.PlanID, sum, total)
	}
	return nil
}
