package planner

import (
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const (
	// Nominal speed used for journey time, in km/h.
	routeAverageSpeedKmh = 35.0
	// Dwell allowance per intermediate station, in minutes.
	dwellMinutesPerStation = 1
)

type RouteCalculator struct {
	stations Stations
	fares    *FareCalculator
	cache    *cache.Cache
}

// NewRouteCalculator builds a calculator whose results are memoised for an
// hour; station data never changes while the process runs.
func NewRouteCalculator(stations Stations, fares *FareCalculator) *RouteCalculator {
	return &RouteCalculator{
		stations: stations,
		fares:    fares,
		cache:    cache.New(time.Hour, 10*time.Minute),
	}
}

// CalculateRoute returns the stations from source to destination inclusive
// in travel order. Both stations must be on the same line.
func (rc *RouteCalculator) CalculateRoute(sourceID, destinationID int) (*models.Route, error) {
	key := fmt.Sprintf("%d:%d", sourceID, destinationID)
	if cached, ok := rc.cache.Get(key); ok {
		return copyRoute(cached.(*models.Route)), nil
	}

	route, err := rc.calculate(sourceID, destinationID)
	if err != nil {
		return nil, err
	}

	rc.cache.SetDefault(key, route)
	return copyRoute(route), nil
}

func (rc *RouteCalculator) calculate(sourceID, destinationID int) (*models.Route, error) {
	src, dst, err := lookupPair(rc.stations, sourceID, destinationID)
	if err != nil {
		return nil, err
	}
	if src.Line != dst.Line {
		return nil, fmt.Errorf("%s (%s) to %s (%s): %w", src.Name, src.Line, dst.Name, dst.Line, models.ErrDifferentLines)
	}

	lineStations := rc.stations.StationsByLine(src.Line)
	if len(lineStations) == 0 {
		return nil, fmt.Errorf("line %s: %w", src.Line, models.ErrLineNotFound)
	}
	line, _ := rc.stations.Line(src.Line)

	direction := models.DirectionIncreasing
	if dst.ID < src.ID {
		direction = models.DirectionDecreasing
	}

	// Ids are consecutive within a line, so an id maps straight to its index.
	first := lineStations[0].ID
	lo, hi := min(src.ID, dst.ID)-first, max(src.ID, dst.ID)-first
	stations := make([]models.Station, 0, hi-lo+1)
	if direction == models.DirectionIncreasing {
		stations = append(stations, lineStations[lo:hi+1]...)
	} else {
		for i := hi; i >= lo; i-- {
			stations = append(stations, lineStations[i])
		}
	}

	distance := distanceBetween(src, dst)
	intermediate := max(len(stations)-2, 0)
	minutes := int(distance/routeAverageSpeedKmh*60 + float64(intermediate*dwellMinutesPerStation))

	interchanges := []string{}
	for _, s := range stations {
		if s.IsInterchange {
			interchanges = append(interchanges, s.Name)
		}
	}

	fare, _ := rc.fares.FareForDistance(distance, false)

	return &models.Route{
		Source:               src.Summary(),
		Destination:          dst.Summary(),
		Line:                 src.Line,
		Stations:             stations,
		TotalStations:        len(stations),
		TotalDistanceKm:      utils.RoundTo(distance, 2),
		EstimatedTimeMinutes: minutes,
		Fare:                 fare,
		Direction:            direction,
		DirectionLabel:       line.Direction(direction).Label,
		InterchangeStations:  interchanges,
	}, nil
}

func copyRoute(r *models.Route) *models.Route {
	out := *r
	out.Stations = append([]models.Station(nil), r.Stations...)
	out.InterchangeStations = append([]string{}, r.InterchangeStations...)
	return &out
}
