// Package configs embeds the JSON schemas that guard the startup config files.
package configs

import "embed"

// Schemas holds every schema under schemas/
//
//go:embed schemas/*.json
var Schemas embed.FS

// Schema names inside Schemas
const (
	GamesSchema = "schemas/games.schema.json"
)
