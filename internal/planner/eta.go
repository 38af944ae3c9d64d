package planner

import (
	"sort"

	"metrolive.dev/internal/models"
)

const (
	// Trains further than this from the station are not listed.
	etaLookaheadKm        = 20.0
	maxTrainsPerDirection = 3
	defaultETASpeedKmh    = 35.0
)

type ETACalculator struct {
	stations Stations
	fleet    FleetReader
}

func NewETACalculator(stations Stations, fleet FleetReader) *ETACalculator {
	return &ETACalculator{stations: stations, fleet: fleet}
}

// CalculateETA lists, for each direction of the station's line, up to three
// trains heading toward it within the lookahead window, soonest first.
func (ec *ETACalculator) CalculateETA(stationID int) (*models.StationETA, error) {
	station, err := lookupStation(ec.stations, stationID)
	if err != nil {
		return nil, err
	}

	line, _ := ec.stations.Line(station.Line)
	lineStations := ec.stations.StationsByLine(station.Line)
	speed := ec.fleet.ETASpeed(station.Line)
	if speed <= 0 {
		speed = defaultETASpeedKmh
	}

	result := &models.StationETA{
		StationID:   station.ID,
		StationName: station.Name,
		Line:        station.Line,
		Increasing:  models.DirectionETA{Direction: models.DirectionIncreasing, DirectionName: line.Direction(models.DirectionIncreasing).Label, Trains: []models.ApproachingTrain{}},
		Decreasing:  models.DirectionETA{Direction: models.DirectionDecreasing, DirectionName: line.Direction(models.DirectionDecreasing).Label, Trains: []models.ApproachingTrain{}},
	}

	for _, train := range ec.fleet.SnapshotByLine(station.Line) {
		// Positive when the station lies ahead of the train.
		gap := (station.DistanceFromOriginKm - train.PositionKm) * train.Direction.Sign()
		if gap <= 0 || gap >= etaLookaheadKm {
			continue
		}

		approaching := models.ApproachingTrain{
			TrainID:           train.ID,
			ETAMinutes:        max(1, int(gap/speed*60)),
			StationsAway:      stationsAway(lineStations, train, station),
			CurrentPassengers: train.CurrentPassengers,
			Capacity:          train.Capacity,
		}
		if train.Direction == models.DirectionIncreasing {
			result.Increasing.Trains = append(result.Increasing.Trains, approaching)
		} else {
			result.Decreasing.Trains = append(result.Decreasing.Trains, approaching)
		}
	}

	result.Increasing.Trains = soonest(result.Increasing.Trains)
	result.Decreasing.Trains = soonest(result.Decreasing.Trains)
	return result, nil
}

// stationsAway counts the stations the train still has to reach, the target included.
func stationsAway(lineStations []models.Station, train models.Train, target models.Station) int {
	n := 0
	for _, s := range lineStations {
		d := s.DistanceFromOriginKm
		if train.Direction == models.DirectionIncreasing {
			if d > train.PositionKm && d <= target.DistanceFromOriginKm {
				n++
			}
		} else if d < train.PositionKm && d >= target.DistanceFromOriginKm {
			n++
		}
	}
	return n
}

func soonest(trains []models.ApproachingTrain) []models.ApproachingTrain {
	sort.SliceStable(trains, func(i, j int) bool {
		if trains[i].ETAMinutes != trains[j].ETAMinutes {
			return trains[i].ETAMinutes < trains[j].ETAMinutes
		}
		return trains[i].StationsAway < trains[j].StationsAway
	})
	if len(trains) > maxTrainsPerDirection {
		trains = trains[:maxTrainsPerDirection]
	}
	return trains
}
