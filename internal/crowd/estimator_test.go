package crowd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrolive.dev/data"
	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/directory"
	"metrolive.dev/internal/models"
)

// 2025-03-03 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2025, time.March, 3, hour, minute, 0, 0, time.UTC)
}

func saturday(hour, minute int) time.Time {
	return time.Date(2025, time.March, 8, hour, minute, 0, 0, time.UTC)
}

func newTestEstimator(t *testing.T, now time.Time) (*Estimator, *directory.Directory) {
	t.Helper()
	dir, err := directory.Load(data.FS)
	require.NoError(t, err)
	return NewEstimator(dir, clock.NewMockClock(now), 42), dir
}

func TestPercentage(t *testing.T) {
	e, dir := newTestEstimator(t, monday(12, 0))

	station := func(id int) models.Station {
		s, ok := dir.StationByID(id)
		require.True(t, ok)
		return s
	}

	tests := []struct {
		name    string
		station int
		at      time.Time
		want    int
	}{
		{"interchange at morning peak is capped", 16, monday(8, 30), 100},
		{"interchange at lunch", 16, monday(12, 30), 51},
		{"interchange late at night", 16, monday(23, 0), 23},
		{"interchange on weekend morning", 16, saturday(8, 30), 29},
		{"residential weekend lunch", 2, saturday(13, 0), 18},
		{"terminal at evening peak", 1, monday(18, 0), 79},
		{"terminal off peak", 1, monday(15, 0), 23},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, e.Percentage(station(tt.station), tt.at))
		})
	}
}

func TestPercentageBounds(t *testing.T) {
	e, dir := newTestEstimator(t, monday(12, 0))

	for _, s := range dir.AllStations() {
		for hour := 0; hour < 24; hour++ {
			for _, at := range []time.Time{monday(hour, 0), saturday(hour, 0)} {
				pct := e.Percentage(s, at)
				assert.GreaterOrEqual(t, pct, 0)
				assert.LessOrEqual(t, pct, 100)
			}
		}
	}
}

func TestClassify(t *testing.T) {
	e, _ := newTestEstimator(t, monday(12, 0))

	assert.Equal(t, "Low", e.Classify(0).Label)
	assert.Equal(t, "Low", e.Classify(29).Label)
	assert.Equal(t, "Moderate", e.Classify(30).Label)
	assert.Equal(t, "High", e.Classify(84).Label)
	assert.Equal(t, models.CrowdInfo{Percentage: 85, Label: "Very High", Color: "#F44336", Emoji: "🔴"}, e.Classify(85))
	assert.Equal(t, "Very High", e.Classify(250).Label)
}

func TestRecommendation(t *testing.T) {
	assert.Contains(t, Recommendation(85), "Very crowded")
	assert.Contains(t, Recommendation(84), "High crowd")
	assert.Contains(t, Recommendation(60), "High crowd")
	assert.Contains(t, Recommendation(59), "Moderate")
	assert.Contains(t, Recommendation(30), "Moderate")
	assert.Contains(t, Recommendation(29), "Low crowd")
}

func TestEstimateCurrent(t *testing.T) {
	e, dir := newTestEstimator(t, monday(8, 30))

	network := e.EstimateCurrent()
	assert.Equal(t, monday(8, 30), network.Timestamp)
	assert.Equal(t, "08:30", network.Time)
	assert.True(t, network.IsPeakHour)
	assert.False(t, network.IsWeekend)
	assert.Equal(t, "Monday", network.DayOfWeek)
	require.Len(t, network.Stations, len(dir.AllStations()))
	assert.Equal(t, 1, network.Stations[0].StationID)

	for _, s := range network.Stations {
		if s.StationID == 16 {
			assert.Equal(t, 100, s.Percentage)
			assert.True(t, s.IsInterchange)
		}
	}
}

func TestEstimateStation(t *testing.T) {
	e, _ := newTestEstimator(t, monday(8, 30))

	t.Run("explicit time", func(t *testing.T) {
		detail, err := e.EstimateStation(16, "12:30")
		require.NoError(t, err)
		assert.Equal(t, "Rajiv Chowk", detail.Station.Name)
		assert.Equal(t, 51, detail.Crowd.Percentage)
		assert.Equal(t, "Moderate", detail.Crowd.Label)
		assert.Equal(t, "12:30", detail.Context.Time)
		assert.False(t, detail.Context.IsPeakHour)
		assert.Contains(t, detail.Recommendation, "Moderate")

		require.Len(t, detail.HourlyPattern, 18)
		assert.Equal(t, 6, detail.HourlyPattern[0].Hour)
		assert.Equal(t, "06:00", detail.HourlyPattern[0].Time)
		assert.Equal(t, 23, detail.HourlyPattern[17].Hour)
		assert.Equal(t, 100, detail.HourlyPattern[2].Percentage)
	})

	t.Run("unparsable time uses now", func(t *testing.T) {
		detail, err := e.EstimateStation(16, "25:99")
		require.NoError(t, err)
		assert.Equal(t, "08:30", detail.Context.Time)
		assert.Equal(t, 100, detail.Crowd.Percentage)
	})

	t.Run("unknown station", func(t *testing.T) {
		_, err := e.EstimateStation(404, "")
		assert.ErrorIs(t, err, models.ErrStationNotFound)
	})
}

func TestCompareStations(t *testing.T) {
	e, _ := newTestEstimator(t, monday(8, 30))

	cmp := e.CompareStations([]int{1, 16, 999, 2})
	require.Len(t, cmp.Stations, 3)
	assert.Equal(t, []int{16, 1, 2}, []int{cmp.Stations[0].StationID, cmp.Stations[1].StationID, cmp.Stations[2].StationID})
	assert.Equal(t, 74, cmp.Stations[1].Percentage)
	assert.Equal(t, 45, cmp.Stations[2].Percentage)
	require.NotNil(t, cmp.MostCrowded)
	assert.Equal(t, 16, cmp.MostCrowded.StationID)
	assert.Equal(t, 2, cmp.LeastCrowded.StationID)

	empty := e.CompareStations([]int{500})
	assert.Empty(t, empty.Stations)
	assert.Nil(t, empty.MostCrowded)
}
