// Package directory holds the read-only network description: lines, their
// ordered stations and segments, fare slabs and crowd thresholds.
package directory

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

var ErrInvalidFixture = errors.New("invalid fixture")

// Directory is immutable after New returns and safe for concurrent readers.
type Directory struct {
	lines          map[string]models.Line
	lineNames      []string
	stationsByLine map[string][]models.Station
	segmentsByLine map[string][]models.Segment
	stationsByID   map[int]models.Station
	stationsByCode map[string]models.Station
	segmentsByID   map[string]models.Segment
	allStations    []models.Station

	fares           models.FareStructure
	crowdThresholds map[string]models.CrowdThreshold
	trainSpecs      TrainSpecs
}

// New validates and indexes the given lines. Station ids must be unique
// across lines and consecutive within a line in distance order, and each
// adjacent pair must be joined by exactly one segment.
func New(lines []LineData, fares models.FareStructure, params OperationalParams) (*Directory, error) {
	d := &Directory{
		lines:           make(map[string]models.Line, len(lines)),
		stationsByLine:  make(map[string][]models.Station, len(lines)),
		segmentsByLine:  make(map[string][]models.Segment, len(lines)),
		stationsByID:    make(map[int]models.Station),
		stationsByCode:  make(map[string]models.Station),
		segmentsByID:    make(map[string]models.Segment),
		fares:           fares,
		crowdThresholds: params.CrowdThresholds,
		trainSpecs:      params.TrainSpecs,
	}

	for _, ld := range lines {
		if err := d.addLine(ld); err != nil {
			return nil, err
		}
	}

	if err := validateFares(fares); err != nil {
		return nil, err
	}
	if d.fares.Currency == "" {
		d.fares.Currency = models.Currency
	}

	sort.Slice(d.allStations, func(i, j int) bool { return d.allStations[i].ID < d.allStations[j].ID })
	return d, nil
}

func (d *Directory) addLine(ld LineData) error {
	info := ld.Info
	if info.Name == "" {
		return fmt.Errorf("%w: line without a name", ErrInvalidFixture)
	}
	if _, dup := d.lines[info.Name]; dup {
		return fmt.Errorf("%w: line %s defined twice", ErrInvalidFixture, info.Name)
	}
	if len(ld.Stations) < 2 {
		return fmt.Errorf("%w: line %s needs at least two stations", ErrInvalidFixture, info.Name)
	}

	stations := make([]models.Station, len(ld.Stations))
	copy(stations, ld.Stations)
	sort.SliceStable(stations, func(i, j int) bool {
		return stations[i].DistanceFromOriginKm < stations[j].DistanceFromOriginKm
	})

	for i := range stations {
		s := &stations[i]
		if s.Line == "" {
			s.Line = info.Name
		}
		if s.Line != info.Name {
			return fmt.Errorf("%w: station %d listed under %s but belongs to %s", ErrInvalidFixture, s.ID, info.Name, s.Line)
		}
		if i > 0 {
			prev := stations[i-1]
			if s.DistanceFromOriginKm <= prev.DistanceFromOriginKm {
				return fmt.Errorf("%w: %s distances not strictly increasing at station %d", ErrInvalidFixture, info.Name, s.ID)
			}
			if s.ID != prev.ID+1 {
				return fmt.Errorf("%w: %s station ids not consecutive at %d", ErrInvalidFixture, info.Name, s.ID)
			}
		}
		if _, dup := d.stationsByID[s.ID]; dup {
			return fmt.Errorf("%w: station id %d used twice", ErrInvalidFixture, s.ID)
		}
		d.stationsByID[s.ID] = *s
		if s.Code != "" {
			d.stationsByCode[strings.ToUpper(s.Code)] = *s
		}
	}

	if err := validateSegments(info.Name, stations, ld.Segments); err != nil {
		return err
	}

	last := stations[len(stations)-1]
	if info.TotalDistanceKm == 0 {
		info.TotalDistanceKm = last.DistanceFromOriginKm
	}
	if info.TotalDistanceKm < last.DistanceFromOriginKm {
		return fmt.Errorf("%w: %s is shorter than its last station", ErrInvalidFixture, info.Name)
	}
	info.TotalStations = len(stations)

	d.lines[info.Name] = info
	d.lineNames = append(d.lineNames, info.Name)
	d.stationsByLine[info.Name] = stations
	d.segmentsByLine[info.Name] = ld.Segments
	for _, seg := range ld.Segments {
		d.segmentsByID[seg.ID] = seg
	}
	d.allStations = append(d.allStations, stations...)
	return nil
}

func validateSegments(line string, stations []models.Station, segments []models.Segment) error {
	if len(segments) != len(stations)-1 {
		return fmt.Errorf("%w: %s has %d stations but %d segments", ErrInvalidFixture, line, len(stations), len(segments))
	}
	for i, seg := range segments {
		from, to := stations[i], stations[i+1]
		if seg.FromStationCode != from.Code || seg.ToStationCode != to.Code {
			return fmt.Errorf("%w: %s segment %d joins %s-%s, want %s-%s",
				ErrInvalidFixture, line, i, seg.FromStationCode, seg.ToStationCode, from.Code, to.Code)
		}
	}
	return nil
}

func validateFares(fares models.FareStructure) error {
	for name, slabs := range map[string][]models.FareSlab{
		"weekday": fares.FareSlabs.Weekday,
		"weekend": fares.FareSlabs.Weekend,
	} {
		if len(slabs) == 0 {
			return fmt.Errorf("%w: no %s fare slabs", ErrInvalidFixture, name)
		}
		if slabs[0].MinDistanceKm != 0 {
			return fmt.Errorf("%w: %s fare slabs start at %.1f km, not 0", ErrInvalidFixture, name, slabs[0].MinDistanceKm)
		}
		for i, slab := range slabs {
			if slab.MaxDistanceKm < slab.MinDistanceKm {
				return fmt.Errorf("%w: %s fare slab %d ends before it starts", ErrInvalidFixture, name, i)
			}
			if i == 0 {
				continue
			}
			prev := slabs[i-1]
			if slab.MinDistanceKm < prev.MinDistanceKm {
				return fmt.Errorf("%w: %s fare slabs out of order", ErrInvalidFixture, name)
			}
			if slab.MinDistanceKm > prev.MaxDistanceKm {
				return fmt.Errorf("%w: %s fare slabs leave a gap between %.1f and %.1f km",
					ErrInvalidFixture, name, prev.MaxDistanceKm, slab.MinDistanceKm)
			}
		}
	}
	if fares.SmartCardDiscountPercent < 0 || fares.SmartCardDiscountPercent > 100 {
		return fmt.Errorf("%w: smart card discount %.1f%% out of range", ErrInvalidFixture, fares.SmartCardDiscountPercent)
	}
	return nil
}

// AllStations returns every station ordered by id.
func (d *Directory) AllStations() []models.Station {
	return clone(d.allStations)
}

// StationsByLine returns the line's stations ordered by distance, or nil for an unknown line.
func (d *Directory) StationsByLine(line string) []models.Station {
	return clone(d.stationsByLine[line])
}

func (d *Directory) StationByID(id int) (models.Station, bool) {
	s, ok := d.stationsByID[id]
	return s, ok
}

func (d *Directory) StationByCode(code string) (models.Station, bool) {
	s, ok := d.stationsByCode[strings.ToUpper(code)]
	return s, ok
}

// Lines returns line metadata in load order.
func (d *Directory) Lines() []models.Line {
	out := make([]models.Line, 0, len(d.lineNames))
	for _, name := range d.lineNames {
		out = append(out, d.lines[name])
	}
	return out
}

// Line looks a line up by name, case-insensitively.
func (d *Directory) Line(name string) (models.Line, bool) {
	if l, ok := d.lines[name]; ok {
		return l, true
	}
	for _, l := range d.lines {
		if strings.EqualFold(l.Name, name) || strings.EqualFold(l.ID, name) {
			return l, true
		}
	}
	return models.Line{}, false
}

// LineLength is the track length in km, 0 for an unknown line.
func (d *Directory) LineLength(line string) float64 {
	return d.lines[line].TotalDistanceKm
}

func (d *Directory) Segments(line string) []models.Segment {
	return clone(d.segmentsByLine[line])
}

// SegmentBetween returns the segment joining two adjacent stations in
// either order of ids.
func (d *Directory) SegmentBetween(fromID, toID int) (models.Segment, bool) {
	from, ok1 := d.stationsByID[fromID]
	to, ok2 := d.stationsByID[toID]
	if !ok1 || !ok2 || from.Line != to.Line {
		return models.Segment{}, false
	}
	if fromID > toID {
		from, to = to, from
	}
	seg, ok := d.segmentsByID[from.Code+"-"+to.Code]
	return seg, ok
}

func (d *Directory) InterchangeStations() []models.Station {
	var out []models.Station
	for _, s := range d.allStations {
		if s.IsInterchange {
			out = append(out, s)
		}
	}
	return out
}

// SearchStations matches query case-insensitively against name, display name and code.
func (d *Directory) SearchStations(query string) []models.Station {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var out []models.Station
	for _, s := range d.allStations {
		if strings.Contains(strings.ToLower(s.Name), q) ||
			strings.Contains(strings.ToLower(s.DisplayName), q) ||
			strings.EqualFold(s.Code, q) {
			out = append(out, s)
		}
	}
	return out
}

func (d *Directory) FareStructure() models.FareStructure {
	return d.fares
}

// FareSlabs returns the weekend or weekday slab table.
func (d *Directory) FareSlabs(isWeekend bool) []models.FareSlab {
	if isWeekend {
		return clone(d.fares.FareSlabs.Weekend)
	}
	return clone(d.fares.FareSlabs.Weekday)
}

func (d *Directory) CrowdThresholds() map[string]models.CrowdThreshold {
	out := make(map[string]models.CrowdThreshold, len(d.crowdThresholds))
	for k, v := range d.crowdThresholds {
		out[k] = v
	}
	return out
}

func (d *Directory) TrainSpecs() TrainSpecs {
	return d.trainSpecs
}

// LineStats summarises a line's stations.
func (d *Directory) LineStats(name string) (models.LineStats, bool) {
	line, ok := d.Line(name)
	if !ok {
		return models.LineStats{}, false
	}
	stations := d.stationsByLine[line.Name]

	stats := models.LineStats{
		Line:                 line.Name,
		TotalStations:        len(stations),
		TotalLineLengthKm:    line.TotalDistanceKm,
		PeakFrequencyMinutes: line.TrainFrequency.PeakMinutes,
	}
	for _, s := range stations {
		if s.IsInterchange {
			stats.InterchangeStations++
		}
	}
	if len(stations) > 1 {
		span := stations[len(stations)-1].DistanceFromOriginKm - stations[0].DistanceFromOriginKm
		stats.AvgStationDistanceKm = utils.RoundTo(span/float64(len(stations)-1), 2)
	}
	return stats, true
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
