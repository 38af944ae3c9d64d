package simulator

import (
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrolive.dev/data"
	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/directory"
	"metrolive.dev/internal/models"
)

// Monday 2025-03-03, off-peak.
var testStart = time.Date(2025, time.March, 3, 12, 0, 0, 0, time.UTC)

func newTestFleet(t *testing.T, seed uint64) (*Fleet, *directory.Directory, *clock.MockClock) {
	t.Helper()

	dir, err := directory.Load(data.FS)
	require.NoError(t, err)

	cfg, err := LoadFleetConfig(data.FS, data.FleetFile)
	require.NoError(t, err)

	mockClock := clock.NewMockClock(testStart)
	fleet, err := NewFleet(dir, cfg, Options{
		Rand:  rand.New(rand.NewPCG(seed, seed+1)),
		Clock: mockClock,
	})
	require.NoError(t, err)

	return fleet, dir, mockClock
}

func TestInitialFleet(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 1)

	summary := fleet.Summary()
	assert.Equal(t, 12, summary.TotalTrains)
	assert.Equal(t, 8, summary.ByLine["Yellow"])
	assert.Equal(t, 4, summary.ByLine["Orange"])
	assert.Equal(t, summary.TotalTrains, summary.Moving+summary.AtStation)

	first, ok := fleet.Train("YL-001")
	require.True(t, ok)
	assert.Equal(t, "Yellow", first.Line)
	assert.InDelta(t, 5.2, first.PositionKm, 1e-9)
	assert.Equal(t, models.DirectionIncreasing, first.Direction)
	assert.Equal(t, "towards_huda", first.Heading)
	assert.Equal(t, 300, first.Capacity)
	assert.GreaterOrEqual(t, first.CurrentPassengers, 150)
	assert.LessOrEqual(t, first.CurrentPassengers, 280)
	assert.Equal(t, testStart, first.LastUpdated)

	airport, ok := fleet.Train("OR-003")
	require.True(t, ok)
	assert.Equal(t, models.DirectionDecreasing, airport.Direction)
	assert.Equal(t, "towards_newdelhi", airport.Heading)

	for _, train := range fleet.Snapshot() {
		if train.Status == models.TrainStatusAtStation {
			assert.Zero(t, train.SpeedKmh, train.ID)
		} else {
			assert.Positive(t, train.SpeedKmh, train.ID)
		}
	}
}

func TestNextStation(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 1)

	increasing, _ := fleet.Train("YL-001")
	assert.Equal(t, "Adarsh Nagar", increasing.NextStationName)
	assert.Equal(t, 5, increasing.NextStationID)
	assert.Equal(t, "SE", increasing.Bearing)

	decreasing, _ := fleet.Train("YL-005")
	assert.Equal(t, "Arjan Garh", decreasing.NextStationName)
	assert.Equal(t, 32, decreasing.NextStationID)
}

func TestTickKeepsPositionsOnTheLine(t *testing.T) {
	fleet, dir, mockClock := newTestFleet(t, 42)

	for i := 0; i < 2000; i++ {
		mockClock.Advance(5 * time.Second)
		fleet.Tick()
		for _, train := range fleet.Snapshot() {
			length := dir.LineLength(train.Line)
			require.GreaterOrEqual(t, train.PositionKm, 0.0, train.ID)
			require.LessOrEqual(t, train.PositionKm, length, train.ID)
		}
	}
}

func TestTickMovesTrainsAlongTheirDirection(t *testing.T) {
	fleet, dir, mockClock := newTestFleet(t, 7)

	before := fleet.Snapshot()
	mockClock.Advance(5 * time.Second)
	fleet.Tick()
	after := fleet.Snapshot()

	require.Len(t, after, len(before))
	for i := range before {
		b, a := before[i], after[i]
		assert.Equal(t, mockClock.Now(), a.LastUpdated)

		if b.Status != models.TrainStatusMoving {
			assert.Equal(t, b.PositionKm, a.PositionKm, "%s was stopped and must not move", b.ID)
			continue
		}

		length := dir.LineLength(b.Line)
		if b.PositionKm+maxStepKm > length || b.PositionKm-maxStepKm < 0 {
			continue // may have wrapped
		}
		moved := (a.PositionKm - b.PositionKm) * b.Direction.Sign()
		assert.GreaterOrEqual(t, moved, minStepKm-1e-9, b.ID)
		assert.LessOrEqual(t, moved, maxStepKm+1e-9, b.ID)
	}
}

func TestSnapshotDoesNotAdvance(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 3)

	first := fleet.Snapshot()
	second := fleet.Snapshot()
	assert.Equal(t, first, second)

	first[0].PositionKm = -100
	assert.NotEqual(t, -100.0, fleet.Snapshot()[0].PositionKm, "snapshot must be a copy")
}

func TestSameSeedSameFleet(t *testing.T) {
	a, _, clockA := newTestFleet(t, 99)
	b, _, clockB := newTestFleet(t, 99)

	for i := 0; i < 50; i++ {
		clockA.Advance(time.Second)
		clockB.Advance(time.Second)
		a.Tick()
		b.Tick()
	}
	assert.Equal(t, a.Snapshot(), b.Snapshot())
}

func TestWrapPosition(t *testing.T) {
	tests := []struct {
		name string
		pos  float64
		want float64
	}{
		{"inside", 12.3, 12.3},
		{"at origin", 0, 0},
		{"at terminus", 45.7, 45.7},
		{"past terminus wraps to origin", 45.9, 0},
		{"before origin wraps to terminus", -0.2, 45.7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapPosition(tt.pos, 45.7))
		})
	}
}

func TestUnknownLine(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 1)

	trains := fleet.SnapshotByLine("Magenta")
	assert.NotNil(t, trains)
	assert.Empty(t, trains)

	_, ok := fleet.Train("MG-001")
	assert.False(t, ok)
	assert.Zero(t, fleet.ETASpeed("Magenta"))
}

func TestSnapshotByLine(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 1)

	for _, train := range fleet.SnapshotByLine("Orange") {
		assert.Equal(t, "Orange", train.Line)
	}
	assert.Len(t, fleet.SnapshotByLine("Orange"), 4)
	assert.Equal(t, 45.0, fleet.ETASpeed("Orange"))
	assert.Equal(t, 35.0, fleet.ETASpeed("Yellow"))
}

func TestAdjustCount(t *testing.T) {
	fleet, dir, _ := newTestFleet(t, 5)

	peak := time.Date(2025, time.March, 3, 8, 0, 0, 0, time.UTC)
	offPeak := time.Date(2025, time.March, 3, 14, 0, 0, 0, time.UTC)
	weekendMorning := time.Date(2025, time.March, 8, 8, 0, 0, 0, time.UTC)

	assert.Equal(t, 12, fleet.TargetCount("Yellow", peak))
	assert.Equal(t, 8, fleet.TargetCount("Yellow", weekendMorning))
	assert.Equal(t, 8, fleet.TargetCount("Yellow", offPeak))
	assert.Zero(t, fleet.TargetCount("Purple", peak))

	added, removed := fleet.AdjustCount(peak)
	assert.Equal(t, 6, added) // 4 on Yellow, 2 on Orange
	assert.Zero(t, removed)
	assert.Equal(t, 12, fleet.Summary().ByLine["Yellow"])
	assert.Equal(t, 6, fleet.Summary().ByLine["Orange"])

	newest, ok := fleet.Train("YL-012")
	require.True(t, ok)
	assert.Equal(t, peak, newest.LastUpdated)
	assert.GreaterOrEqual(t, newest.PositionKm, 0.0)
	assert.LessOrEqual(t, newest.PositionKm, dir.LineLength("Yellow"))

	added, removed = fleet.AdjustCount(offPeak)
	assert.Zero(t, added)
	assert.Equal(t, 6, removed)
	assert.Equal(t, 8, fleet.Summary().ByLine["Yellow"])
	for _, line := range fleet.Lines() {
		assert.Equal(t, fleet.TargetCount(line, offPeak), fleet.Summary().ByLine[line], line)
	}

	_, ok = fleet.Train("YL-012")
	assert.False(t, ok, "newest trains are removed first")
	_, ok = fleet.Train("YL-001")
	assert.True(t, ok)

	added, removed = fleet.AdjustCount(offPeak)
	assert.Zero(t, added)
	assert.Zero(t, removed)
}

func TestConcurrentTickAndSnapshot(t *testing.T) {
	fleet, _, _ := newTestFleet(t, 11)

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				fleet.Tick()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				trains, summary := fleet.SnapshotWithSummary()
				assert.Equal(t, len(trains), summary.TotalTrains)
			}
		}()
	}
	wg.Wait()
}

func TestNewFleetRejectsBadProfiles(t *testing.T) {
	dir, err := directory.Load(data.FS)
	require.NoError(t, err)

	t.Run("unknown line", func(t *testing.T) {
		cfg := FleetConfig{Lines: []LineProfile{{
			Line: "Magenta", Prefix: "MG", Capacity: 100,
			Passengers: []int{1, 2}, SpeedKmh: []int{30, 40}, ETASpeedKmh: 35,
		}}}
		_, err := NewFleet(dir, cfg, Options{})
		assert.ErrorIs(t, err, models.ErrLineNotFound)
	})

	t.Run("train off the end of the line", func(t *testing.T) {
		cfg := FleetConfig{Lines: []LineProfile{{
			Line: "Orange", Prefix: "OR", Capacity: 100,
			Passengers: []int{1, 2}, SpeedKmh: []int{30, 40}, ETASpeedKmh: 45,
			Trains: []InitialTrain{{Number: 1, PositionKm: 30}},
		}}}
		_, err := NewFleet(dir, cfg, Options{})
		assert.Error(t, err)
	})
}

func TestParseFleetConfig(t *testing.T) {
	t.Run("directions decode from yaml", func(t *testing.T) {
		cfg, err := ParseFleetConfig([]byte(`
lines:
  - line: Yellow
    prefix: YL
    capacity: 300
    passengers: [150, 280]
    speed_kmh: [30, 40]
    eta_speed_kmh: 35
    trains:
      - {number: 1, position_km: 5.2, direction: decreasing}
`))
		require.NoError(t, err)
		require.Len(t, cfg.Lines, 1)
		assert.Equal(t, models.DirectionDecreasing, cfg.Lines[0].Trains[0].Direction)
	})

	t.Run("unknown direction", func(t *testing.T) {
		_, err := ParseFleetConfig([]byte(`
lines:
  - line: Yellow
    prefix: YL
    capacity: 300
    passengers: [150, 280]
    speed_kmh: [30, 40]
    eta_speed_kmh: 35
    trains:
      - {number: 1, position_km: 5.2, direction: towards_huda}
`))
		assert.Error(t, err)
	})

	t.Run("passenger range over capacity", func(t *testing.T) {
		_, err := ParseFleetConfig([]byte(`
lines:
  - line: Yellow
    prefix: YL
    capacity: 100
    passengers: [150, 280]
    speed_kmh: [30, 40]
    eta_speed_kmh: 35
`))
		assert.Error(t, err)
	})
}

type stubLines struct {
	lines   []models.Line
	lengths map[string]float64
}

func (s stubLines) Lines() []models.Line           { return s.lines }
func (s stubLines) LineLength(line string) float64 { return s.lengths[line] }

func TestFleetConfigForNetwork(t *testing.T) {
	cfg, err := LoadFleetConfig(data.FS, data.FleetFile)
	require.NoError(t, err)

	network := stubLines{
		lines:   []models.Line{{Name: "Blue Line", AvgSpeedKmh: 40}, {Name: "yellow"}},
		lengths: map[string]float64{"Blue Line": 20, "yellow": 45.7},
	}
	got := cfg.ForNetwork(network)

	require.Len(t, got.Lines, 2)

	blue := got.Lines[0]
	assert.Equal(t, "Blue Line", blue.Line)
	assert.Equal(t, "BL", blue.Prefix)
	assert.InDelta(t, 40, blue.ETASpeedKmh, 1e-9)
	require.Len(t, blue.Trains, 2)
	assert.InDelta(t, 5, blue.Trains[0].PositionKm, 1e-9)
	assert.InDelta(t, 15, blue.Trains[1].PositionKm, 1e-9)
	assert.NoError(t, blue.validate())

	yellow := got.Lines[1]
	assert.Equal(t, "yellow", yellow.Line)
	assert.Equal(t, "YL", yellow.Prefix)
	assert.Len(t, yellow.Trains, 8)
}

func TestLinePrefix(t *testing.T) {
	assert.Equal(t, "OR", linePrefix("Orange"))
	assert.Equal(t, "L1", linePrefix("l-1"))
	assert.Equal(t, "TR", linePrefix("--"))
}

func TestFleetConfigForNetworkDropsTrainsPastTheEnd(t *testing.T) {
	cfg, err := LoadFleetConfig(data.FS, data.FleetFile)
	require.NoError(t, err)

	got := cfg.ForNetwork(stubLines{
		lines:   []models.Line{{Name: "Yellow"}},
		lengths: map[string]float64{"Yellow": 10},
	})

	require.Len(t, got.Lines, 1)
	positions := []float64{}
	for _, train := range got.Lines[0].Trains {
		positions = append(positions, train.PositionKm)
	}
	assert.Equal(t, []float64{5.2, 9.4}, positions)
}
