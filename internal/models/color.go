package models

import (
	"regexp"
	"strings"
)

// DefaultColor is assigned when no color is given.
const DefaultColor = "#808080"

var hexColor = regexp.MustCompile(`^#?([0-9a-fA-F]{6})$`)

// ParseColor normalizes "#rrggbb" or "rrggbb" to lower-case "#rrggbb".
// An empty value yields DefaultColor.
func ParseColor(value string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return DefaultColor, nil
	}
	m := hexColor.FindStringSubmatch(value)
	if m == nil {
		return "", InvalidColor(value)
	}
	return "#" + strings.ToLower(m[1]), nil
}
