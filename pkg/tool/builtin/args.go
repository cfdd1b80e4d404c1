// Package toolbuiltin provides the four lookup tools the planner exposes to
// the reasoning service: restaurant, movie, and place search plus travel
// estimation. Each tool calls its upstream API when a key is configured and
// falls back to curated Hyderabad data otherwise, so the planner stays usable
// without credentials.
package toolbuiltin

import (
	"fmt"
	"strconv"
	"strings"
)

// stringArg reads a string argument, returning fallback when absent.
func stringArg(args map[string]any, key, fallback string) string {
	raw, ok := args[key]
	if !ok {
		return fallback
	}
	s, ok := raw.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return fallback
	}
	return strings.TrimSpace(s)
}

// intArg reads a numeric argument. JSON numbers decode as float64; the model
// occasionally sends digits as strings, so those are accepted too.
func intArg(args map[string]any, key string, fallback int) int {
	raw, ok := args[key]
	if !ok {
		return fallback
	}
	switch v := raw.(type) {
	case float64:
		return int(v)
	case int:
		return v
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return fallback
}

// requireInt reads a numeric argument that the schema marks required.
func requireInt(args map[string]any, key string) (int, error) {
	if _, ok := args[key]; !ok {
		return 0, fmt.Errorf("missing required argument %q", key)
	}
	return intArg(args, key, 0), nil
}

// requireString reads a string argument that the schema marks required.
func requireString(args map[string]any, key string) (string, error) {
	s := stringArg(args, key, "")
	if s == "" {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	return s, nil
}
