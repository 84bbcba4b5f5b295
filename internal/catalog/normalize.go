package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

var folder = cases.Fold()

// NormalizeName trims and NFC-normalizes a game name for display and storage
func NormalizeName(name string) string {
	return norm.NFC.String(strings.Join(strings.Fields(name), " "))
}

// NameKey returns the case-insensitive uniqueness key for a game name.
// Two names with the same key are the same game.
func NameKey(name string) string {
	return norm.NFC.String(folder.String(NormalizeName(name)))
}
