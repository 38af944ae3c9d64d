// Package gtfs builds a station directory from a static GTFS feed. Each route
// becomes a line whose stations follow the stop order of its longest trip.
package gtfs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jamespfennell/gtfs"

	"metrolive.dev/internal/directory"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const (
	defaultImportance     = 5
	interchangeImportance = 8
	// Used for segment times when the feed has no usable stop times.
	assumedSpeedKmh = 35.0
)

var ErrNoLines = errors.New("GTFS feed has no routes with usable trips")

// LoadDirectory reads the feed at source, a local path or an http(s) URL,
// and combines its lines with the given fares and operational parameters.
func LoadDirectory(ctx context.Context, source string, fares models.FareStructure, params directory.OperationalParams, logger *slog.Logger) (*directory.Directory, error) {
	logger = logging.ForComponent(logger, "gtfs_import")
	start := time.Now()

	static, err := loadGTFSData(ctx, source, logger)
	if err != nil {
		return nil, err
	}

	lines, err := BuildLines(static)
	if err != nil {
		return nil, err
	}

	dir, err := directory.New(lines, fares, params)
	if err != nil {
		return nil, fmt.Errorf("building directory from %s: %w", source, err)
	}

	logging.LogOperation(logger, "gtfs_directory_loaded",
		slog.String("source", source),
		slog.Int("lines", len(lines)),
		slog.Int("stations", len(dir.AllStations())),
		slog.Duration("duration", time.Since(start)))
	return dir, nil
}

// BuildLines converts the feed's routes, in route id order, into line
// documents. Station ids start at 1 and run on across lines.
func BuildLines(static *gtfs.Static) ([]directory.LineData, error) {
	routes := make([]gtfs.Route, len(static.Routes))
	copy(routes, static.Routes)
	sort.Slice(routes, func(i, j int) bool { return routes[i].Id < routes[j].Id })

	var lines []directory.LineData
	nextID := 1
	for _, route := range routes {
		trip := longestTrip(static.Trips, route.Id)
		if trip == nil {
			continue
		}
		stopTimes := orderedStopTimes(trip.StopTimes)
		if len(stopTimes) < 2 {
			continue
		}

		ld := buildLine(route, stopTimes, nextID)
		nextID += len(ld.Stations)
		lines = append(lines, ld)
	}

	if len(lines) == 0 {
		return nil, ErrNoLines
	}
	markInterchanges(lines)
	return lines, nil
}

func longestTrip(trips []gtfs.ScheduledTrip, routeID string) *gtfs.ScheduledTrip {
	var best *gtfs.ScheduledTrip
	for i := range trips {
		t := &trips[i]
		if t.Route == nil || t.Route.Id != routeID {
			continue
		}
		if best == nil || len(t.StopTimes) > len(best.StopTimes) ||
			(len(t.StopTimes) == len(best.StopTimes) && t.ID < best.ID) {
			best = t
		}
	}
	return best
}

func orderedStopTimes(in []gtfs.ScheduledStopTime) []gtfs.ScheduledStopTime {
	out := make([]gtfs.ScheduledStopTime, 0, len(in))
	for _, st := range in {
		if st.Stop == nil || st.Stop.Latitude == nil || st.Stop.Longitude == nil {
			continue
		}
		out = append(out, st)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].StopSequence < out[j].StopSequence })
	return out
}

func lineName(route gtfs.Route) string {
	for _, name := range []string{route.ShortName, route.LongName, route.Id} {
		if name != "" {
			return name
		}
	}
	return route.Id
}

func stationCode(stop *gtfs.Stop) string {
	if stop.Code != "" {
		return strings.ToUpper(stop.Code)
	}
	return strings.ToUpper(stop.Id)
}

func buildLine(route gtfs.Route, stopTimes []gtfs.ScheduledStopTime, firstID int) directory.LineData {
	name := lineName(route)

	stations := make([]models.Station, 0, len(stopTimes))
	segments := make([]models.Segment, 0, len(stopTimes)-1)
	distance := 0.0
	for i, st := range stopTimes {
		coords := models.Coordinates{Latitude: *st.Stop.Latitude, Longitude: *st.Stop.Longitude}
		if i > 0 {
			prev := stations[i-1]
			stepKm := utils.Haversine(prev.Coordinates.Latitude, prev.Coordinates.Longitude, coords.Latitude, coords.Longitude) / 1000
			distance += stepKm

			segments = append(segments, models.Segment{
				ID:                   prev.Code + "-" + stationCode(st.Stop),
				FromStationCode:      prev.Code,
				ToStationCode:        stationCode(st.Stop),
				DistanceKm:           utils.RoundTo(stepKm, 3),
				AvgTravelTimeMinutes: segmentMinutes(stopTimes[i-1], st, stepKm),
				Geometry: models.SegmentGeometry{
					Type: "LineString",
					Coordinates: [][2]float64{
						{prev.Coordinates.Longitude, prev.Coordinates.Latitude},
						{coords.Longitude, coords.Latitude},
					},
				},
			})
		}

		stations = append(stations, models.Station{
			ID:                   firstID + i,
			Code:                 stationCode(st.Stop),
			Name:                 st.Stop.Name,
			DisplayName:          st.Stop.Name,
			Line:                 name,
			Coordinates:          coords,
			DistanceFromOriginKm: utils.RoundTo(distance, 3),
			ImportanceScore:      defaultImportance,
			StationType:          models.StationTypeMixed,
		})
	}

	first, last := stations[0].Name, stations[len(stations)-1].Name
	info := models.Line{
		ID:          route.Id,
		Name:        name,
		FullName:    route.LongName,
		AvgSpeedKmh: assumedSpeedKmh,
		Directions: models.LineDirections{
			Increasing: models.DirectionInfo{Token: directionToken(last), Label: "Towards " + last},
			Decreasing: models.DirectionInfo{Token: directionToken(first), Label: "Towards " + first},
		},
	}
	if route.Color != "" {
		info.Color = "#" + strings.TrimPrefix(route.Color, "#")
	}

	return directory.LineData{Info: info, Stations: stations, Segments: segments}
}

func segmentMinutes(from, to gtfs.ScheduledStopTime, distanceKm float64) float64 {
	if travel := time.Duration(to.ArrivalTime - from.DepartureTime); travel > 0 {
		return utils.RoundTo(travel.Minutes(), 2)
	}
	return utils.RoundTo(distanceKm/assumedSpeedKmh*60, 2)
}

func directionToken(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return !(r >= 'a' && r <= 'z' || r >= '0' && r <= '9')
	})
	return "towards_" + strings.Join(fields, "_")
}

// markInterchanges flags stations whose name appears on more than one line.
func markInterchanges(lines []directory.LineData) {
	linesByName := map[string][]string{}
	for _, ld := range lines {
		for _, s := range ld.Stations {
			key := strings.ToLower(s.Name)
			linesByName[key] = append(linesByName[key], ld.Info.Name)
		}
	}

	for li := range lines {
		for si := range lines[li].Stations {
			s := &lines[li].Stations[si]
			var others []string
			for _, l := range linesByName[strings.ToLower(s.Name)] {
				if l != s.Line {
					others = append(others, l)
				}
			}
			if len(others) == 0 {
				continue
			}
			s.IsInterchange = true
			s.InterchangeLines = others
			s.ImportanceScore = interchangeImportance
		}
	}
}
