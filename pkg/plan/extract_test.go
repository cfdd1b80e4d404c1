package plan

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const envelopeDoc = `{
  "plans": [
    {
      "planId": 1,
      "planTitle": "Foodie Trail",
      "planEmoji": "🍛",
      "planTagline": "Eat your way through the old city",
      "summary": "Biryani, chai, and a sunset walk.",
      "totalEstimatedCost": 900,
      "budgetBreakdown": {"food": 700, "travel": 200},
      "itinerary": [
        {"time": "12:30 PM", "title": "Lunch at Paradise", "category": "food", "cost": 350}
      ],
      "tips": ["Carry cash for street food"]
    },
    {
      "planId": 2,
      "planTitle": "Heritage Walk",
      "planEmoji": "🏰",
      "planTagline": "Forts and minarets",
      "summary": "Golconda in the morning, Charminar after lunch.",
      "totalEstimatedCost": 600,
      "itinerary": []
    }
  ]
}`

func TestExtractEnvelope(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "bare json", text: envelopeDoc},
		{name: "fenced", text: "```\n" + envelopeDoc + "\n```"},
		{name: "fenced with tag", text: "```json\n" + envelopeDoc + "\n```"},
		{name: "surrounding whitespace", text: "\n\n  " + envelopeDoc + "  \n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := Extract(tt.text)
			require.NoError(t, err)
			require.Len(t, plans, 2)
			require.Equal(t, "Foodie Trail", plans[0].PlanTitle)
			require.Equal(t, 2, plans[1].PlanID)
			require.Equal(t, CategoryFood, plans[0].Itinerary[0].Category)
		})
	}
}

func TestExtractLegacySinglePlan(t *testing.T) {
	plans, err := Extract(`{"summary": "One plan only", "totalEstimatedCost": 500}`)
	require.NoError(t, err)
	require.Len(t, plans, 1)

	p := plans[0]
	require.Equal(t, 1, p.PlanID)
	require.Equal(t, "Your Day Plan", p.PlanTitle)
	require.Equal(t, "🌟", p.PlanEmoji)
	require.Equal(t, "A day planned just for you", p.PlanTagline)
	require.Equal(t, "One plan only", p.Summary)
}

func TestExtractLegacyKeepsProvidedIdentity(t *testing.T) {
	plans, err := Extract(`{"planTitle": "Custom", "planEmoji": "🎬", "planTagline": "Movies all day"}`)
	require.NoError(t, err)
	require.Equal(t, "Custom", plans[0].PlanTitle)
	require.Equal(t, "🎬", plans[0].PlanEmoji)
	require.Equal(t, "Movies all day", plans[0].PlanTagline)
}

func TestExtractFailures(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{name: "empty", text: ""},
		{name: "whitespace only", text: "   \n  "},
		{name: "prose", text: "Sorry, I could not build a plan today."},
		{name: "truncated json", text: `{"plans": [{"planId": 1`},
		{name: "array document", text: `[1, 2, 3]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plans, err := Extract(tt.text)
			require.Error(t, err)
			require.Nil(t, plans)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
		})
	}
}

func TestParseErrorSnippetBounded(t *testing.T) {
	long := "not json " + strings.Repeat("x", 1000)
	_, err := Extract(long)
	require.Error(t, err)

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.LessOrEqual(t, len(parseErr.Snippet), 200)
}

func TestUnfence(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "plain", in: `{"a":1}`, want: `{"a":1}`},
		{name: "fence no tag", in: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fence json tag", in: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "fence body on open line", in: "```{\"a\":1}\n```", want: `{"a":1}`},
		{name: "whitespace", in: "  \n{\"a\":1}\n ", want: `{"a":1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Unfence(tt.in))
		})
	}
}
