// Package data embeds the station, fare and fleet fixtures served by the API.
package data

import "embed"

//go:embed lines/*.json fare_structure.json operational_params.json fleet.yaml
var FS embed.FS

// FleetFile is the name of the fleet profile document inside FS.
const FleetFile = "fleet.yaml"
