// Package simulator moves a fleet of fake trains along the network's lines.
package simulator

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const (
	minStepKm         = 0.1
	maxStepKm         = 0.3
	toggleProbability = 0.05
	// Share of the initial fleet that starts out moving.
	initialMovingShare = 0.7
)

// Network is the part of the station directory the simulator reads.
type Network interface {
	StationsByLine(line string) []models.Station
	LineLength(line string) float64
	Line(name string) (models.Line, bool)
}

type Options struct {
	// Rand drives every random choice. Nil seeds from the clock.
	Rand   *rand.Rand
	Clock  clock.Clock
	Logger *slog.Logger
}

type lineState struct {
	profile  LineProfile
	info     models.Line
	length   float64
	stations []models.Station
	// next train number handed out by AdjustCount
	nextNumber int
}

// Fleet owns every train. One lock guards all mutation and copy-out, so
// ticks never interleave and snapshots never observe a half-applied tick.
type Fleet struct {
	mu     sync.RWMutex
	lines  map[string]*lineState
	order  []string
	trains []*models.Train

	rng    *rand.Rand
	clock  clock.Clock
	logger *slog.Logger
}

// NewFleet places the configured initial trains on their lines.
func NewFleet(network Network, cfg FleetConfig, opts Options) (*Fleet, error) {
	f := &Fleet{
		lines:  make(map[string]*lineState, len(cfg.Lines)),
		rng:    opts.Rand,
		clock:  opts.Clock,
		logger: logging.ForComponent(opts.Logger, "simulator"),
	}
	if f.clock == nil {
		f.clock = clock.RealClock{}
	}
	if f.rng == nil {
		seed := uint64(f.clock.Now().UnixNano())
		f.rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	now := f.clock.Now()
	for _, p := range cfg.Lines {
		if err := p.validate(); err != nil {
			return nil, err
		}
		info, ok := network.Line(p.Line)
		if !ok {
			return nil, fmt.Errorf("fleet profile %s: %w", p.Line, models.ErrLineNotFound)
		}
		if _, dup := f.lines[info.Name]; dup {
			return nil, fmt.Errorf("fleet profile %s defined twice", info.Name)
		}

		ls := &lineState{
			profile:    p,
			info:       info,
			length:     network.LineLength(info.Name),
			stations:   network.StationsByLine(info.Name),
			nextNumber: 1,
		}
		f.lines[info.Name] = ls
		f.order = append(f.order, info.Name)

		for _, it := range p.Trains {
			if it.PositionKm < 0 || it.PositionKm > ls.length {
				return nil, fmt.Errorf("train %s-%03d starts at %.1f km, outside %s", p.Prefix, it.Number, it.PositionKm, info.Name)
			}
			t := f.newTrain(ls, it.Number, it.PositionKm, it.Direction, now)
			if f.rng.Float64() >= initialMovingShare {
				t.Status = models.TrainStatusAtStation
				t.SpeedKmh = 0
			}
			f.trains = append(f.trains, t)
			if it.Number >= ls.nextNumber {
				ls.nextNumber = it.Number + 1
			}
		}
	}

	return f, nil
}

func (f *Fleet) newTrain(ls *lineState, number int, position float64, dir models.Direction, now time.Time) *models.Train {
	p := ls.profile
	t := &models.Train{
		ID:                fmt.Sprintf("%s-%03d", p.Prefix, number),
		Line:              ls.info.Name,
		PositionKm:        position,
		Direction:         dir,
		Heading:           ls.info.Direction(dir).Token,
		Status:            models.TrainStatusMoving,
		SpeedKmh:          f.randInt(p.SpeedKmh[0], p.SpeedKmh[1]),
		CurrentPassengers: f.randInt(p.Passengers[0], p.Passengers[1]),
		Capacity:          p.Capacity,
		LastUpdated:       now,
	}
	locate(t, ls.stations)
	return t
}

// Tick advances every train once and stamps it with the current time.
func (f *Fleet) Tick() {
	f.mu.Lock()
	defer f.mu.Unlock()

	now := f.clock.Now()
	for _, t := range f.trains {
		f.advance(t, f.lines[t.Line], now)
	}
}

func (f *Fleet) advance(t *models.Train, ls *lineState, now time.Time) {
	if t.Status == models.TrainStatusMoving {
		step := minStepKm + f.rng.Float64()*(maxStepKm-minStepKm)
		t.PositionKm = wrapPosition(t.PositionKm+step*t.Direction.Sign(), ls.length)
	}

	if f.rng.Float64() < toggleProbability {
		if t.Status == models.TrainStatusMoving {
			t.Status = models.TrainStatusAtStation
			t.SpeedKmh = 0
		} else {
			t.Status = models.TrainStatusMoving
			t.SpeedKmh = f.randInt(ls.profile.SpeedKmh[0], ls.profile.SpeedKmh[1])
		}
	}

	t.LastUpdated = now
	locate(t, ls.stations)
}

// wrapPosition sends a train that ran off either end of the line back to
// the other end, as if it looped through the depot.
func wrapPosition(pos, length float64) float64 {
	switch {
	case pos > length:
		return 0
	case pos < 0:
		return length
	default:
		return pos
	}
}

// locate fills in the next station, interpolated coordinates and bearing.
func locate(t *models.Train, stations []models.Station) {
	n := len(stations)
	if n == 0 {
		return
	}

	// upper is the first station at or past the train.
	upper := sort.Search(n, func(i int) bool { return stations[i].DistanceFromOriginKm >= t.PositionKm })
	lower := upper - 1
	switch {
	case upper == 0:
		lower, upper = 0, min(1, n-1)
	case upper == n:
		lower, upper = max(n-2, 0), n-1
	}
	a, b := stations[lower], stations[upper]

	frac := 0.0
	if span := b.DistanceFromOriginKm - a.DistanceFromOriginKm; span > 0 {
		frac = (t.PositionKm - a.DistanceFromOriginKm) / span
	}
	t.Coordinates = utils.Interpolate(a.Coordinates, b.Coordinates, frac)

	var next models.Station
	if t.Direction == models.DirectionIncreasing {
		t.Bearing = utils.CompassDirection(a.Coordinates, b.Coordinates)
		i := sort.Search(n, func(i int) bool { return stations[i].DistanceFromOriginKm > t.PositionKm })
		next = stations[min(i, n-1)]
	} else {
		t.Bearing = utils.CompassDirection(b.Coordinates, a.Coordinates)
		i := sort.Search(n, func(i int) bool { return stations[i].DistanceFromOriginKm >= t.PositionKm }) - 1
		next = stations[max(i, 0)]
	}
	t.NextStationID = next.ID
	t.NextStationName = next.Name
}

// Snapshot copies the whole fleet without advancing it.
func (f *Fleet) Snapshot() []models.Train {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Train, len(f.trains))
	for i, t := range f.trains {
		out[i] = *t
	}
	return out
}

// SnapshotByLine copies the trains of one line; unknown lines yield an empty slice.
func (f *Fleet) SnapshotByLine(line string) []models.Train {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := []models.Train{}
	for _, t := range f.trains {
		if t.Line == line {
			out = append(out, *t)
		}
	}
	return out
}

func (f *Fleet) Train(id string) (models.Train, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	for _, t := range f.trains {
		if t.ID == id {
			return *t, true
		}
	}
	return models.Train{}, false
}

func (f *Fleet) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.trains)
}

// Summary counts trains by line and by status.
func (f *Fleet) Summary() models.FleetSummary {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return summarize(f.order, f.trains)
}

// SnapshotWithSummary reads trains and their counts under one lock so the two agree.
func (f *Fleet) SnapshotWithSummary() ([]models.Train, models.FleetSummary) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	out := make([]models.Train, len(f.trains))
	for i, t := range f.trains {
		out[i] = *t
	}
	return out, summarize(f.order, f.trains)
}

func summarize(order []string, trains []*models.Train) models.FleetSummary {
	s := models.FleetSummary{
		TotalTrains: len(trains),
		ByLine:      make(map[string]int, len(order)),
	}
	for _, line := range order {
		s.ByLine[line] = 0
	}
	for _, t := range trains {
		s.ByLine[t.Line]++
		if t.Status == models.TrainStatusMoving {
			s.Moving++
		} else {
			s.AtStation++
		}
	}
	return s
}

// Lines lists the simulated lines in configuration order.
func (f *Fleet) Lines() []string {
	out := make([]string, len(f.order))
	copy(out, f.order)
	return out
}

// ETASpeed is the average speed used for arrival estimates on a line, 0 if unknown.
func (f *Fleet) ETASpeed(line string) float64 {
	ls, ok := f.lines[line]
	if !ok {
		return 0
	}
	return ls.profile.ETASpeedKmh
}

// TargetCount is the fleet size a line should run at time t.
func (f *Fleet) TargetCount(line string, t time.Time) int {
	ls, ok := f.lines[line]
	if !ok {
		return 0
	}
	return ls.target(t)
}

func (ls *lineState) target(t time.Time) int {
	if utils.IsPeakHour(t) {
		return ls.profile.PeakTarget
	}
	return ls.profile.OffPeakTarget
}

// AdjustCount grows or shrinks each line toward its peak or off-peak
// target. New trains start at random positions; surplus trains are removed
// newest first.
func (f *Fleet) AdjustCount(now time.Time) (added, removed int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, line := range f.order {
		ls := f.lines[line]
		target := ls.target(now)

		current := 0
		for _, t := range f.trains {
			if t.Line == line {
				current++
			}
		}
		before := current

		for ; current < target; current++ {
			dir := models.DirectionIncreasing
			if f.rng.IntN(2) == 1 {
				dir = models.DirectionDecreasing
			}
			pos := f.rng.Float64() * ls.length
			f.trains = append(f.trains, f.newTrain(ls, ls.nextNumber, pos, dir, now))
			ls.nextNumber++
			added++
		}

		for i := len(f.trains) - 1; i >= 0 && current > target; i-- {
			if f.trains[i].Line != line {
				continue
			}
			f.trains = append(f.trains[:i], f.trains[i+1:]...)
			current--
			removed++
		}

		if current != before {
			f.logger.Debug("fleet size adjusted",
				slog.String("line", line),
				slog.Int("target", target),
				slog.Int("before", before),
				slog.Int("after", current))
		}
	}

	return added, removed
}

func (f *Fleet) randInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + f.rng.IntN(hi-lo+1)
}
