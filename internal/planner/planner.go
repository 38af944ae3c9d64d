// Package planner answers route, fare, arrival and journey questions for
// stations on a single line.
package planner

import (
	"fmt"

	"metrolive.dev/internal/models"
)

// Stations is the read-only view of the station directory the calculators use.
type Stations interface {
	StationByID(id int) (models.Station, bool)
	StationsByLine(line string) []models.Station
	Line(name string) (models.Line, bool)
	FareSlabs(isWeekend bool) []models.FareSlab
	FareStructure() models.FareStructure
}

// FleetReader exposes copies of the simulated trains.
type FleetReader interface {
	SnapshotByLine(line string) []models.Train
	ETASpeed(line string) float64
}

func lookupStation(stations Stations, id int) (models.Station, error) {
	s, ok := stations.StationByID(id)
	if !ok {
		return models.Station{}, fmt.Errorf("station %d: %w", id, models.ErrStationNotFound)
	}
	return s, nil
}

func lookupPair(stations Stations, sourceID, destinationID int) (models.Station, models.Station, error) {
	src, err := lookupStation(stations, sourceID)
	if err != nil {
		return src, models.Station{}, err
	}
	dst, err := lookupStation(stations, destinationID)
	if err != nil {
		return src, dst, err
	}
	return src, dst, nil
}

func distanceBetween(a, b models.Station) float64 {
	d := b.DistanceFromOriginKm - a.DistanceFromOriginKm
	if d < 0 {
		return -d
	}
	return d
}
