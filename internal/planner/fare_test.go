package planner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"metrolive.dev/internal/models"
)

func TestFareForDistance(t *testing.T) {
	fc := NewFareCalculator(loadDirectory(t))

	tests := []struct {
		distance      float64
		weekend       bool
		wantFare      int
		wantTimeLimit int
	}{
		{0, false, 10, 65},
		{2, false, 10, 65},
		{2.5, false, 20, 65},
		{4.0, false, 20, 65},
		{4.0, true, 10, 65},
		{12, false, 30, 65},
		{45.7, false, 60, 180},
		{45.7, true, 50, 180},
		{80, false, 60, 180},
	}

	for _, tt := range tests {
		fare, limit := fc.FareForDistance(tt.distance, tt.weekend)
		assert.Equal(t, tt.wantFare, fare, "distance %.1f weekend %v", tt.distance, tt.weekend)
		assert.Equal(t, tt.wantTimeLimit, limit, "distance %.1f weekend %v", tt.distance, tt.weekend)
	}
}

func TestCalculateFare(t *testing.T) {
	fc := NewFareCalculator(loadDirectory(t))

	t.Run("weekday token", func(t *testing.T) {
		fare, err := fc.CalculateFare(models.FareRequest{SourceID: 12, DestinationID: 16})
		require.NoError(t, err)
		assert.Equal(t, "Kashmere Gate", fare.SourceStation)
		assert.Equal(t, "Rajiv Chowk", fare.DestinationStation)
		assert.InDelta(t, 4.0, fare.DistanceKm, 1e-9)
		assert.Equal(t, 20, fare.BaseFare)
		assert.Equal(t, 20, fare.FinalFare)
		assert.Equal(t, 0, fare.SmartCardDiscount)
		assert.Equal(t, 20, fare.TokenFare)
		assert.Equal(t, 18, fare.SmartCardFare)
		assert.Equal(t, 2, fare.SavingsWithSmartCard)
		assert.Equal(t, models.PaymentToken, fare.PaymentMethod)
		assert.Equal(t, "INR", fare.Currency)
	})

	t.Run("smart card", func(t *testing.T) {
		fare, err := fc.CalculateFare(models.FareRequest{SourceID: 12, DestinationID: 16, UseSmartCard: true})
		require.NoError(t, err)
		assert.Equal(t, 2, fare.SmartCardDiscount)
		assert.Equal(t, 18, fare.FinalFare)
		assert.Equal(t, models.PaymentSmartCard, fare.PaymentMethod)
	})

	t.Run("travel date overrides weekend flag", func(t *testing.T) {
		saturday, err := fc.CalculateFare(models.FareRequest{SourceID: 12, DestinationID: 16, TravelDate: "2025-03-08"})
		require.NoError(t, err)
		assert.True(t, saturday.IsWeekend)
		assert.Equal(t, 10, saturday.BaseFare)

		monday, err := fc.CalculateFare(models.FareRequest{SourceID: 12, DestinationID: 16, IsWeekend: true, TravelDate: "2025-03-03"})
		require.NoError(t, err)
		assert.False(t, monday.IsWeekend)
		assert.Equal(t, 20, monday.BaseFare)
	})

	t.Run("unparsable date falls back to flag", func(t *testing.T) {
		fare, err := fc.CalculateFare(models.FareRequest{SourceID: 12, DestinationID: 16, IsWeekend: true, TravelDate: "next sunday"})
		require.NoError(t, err)
		assert.True(t, fare.IsWeekend)
	})

	t.Run("cross line fares are allowed", func(t *testing.T) {
		fare, err := fc.CalculateFare(models.FareRequest{SourceID: 1, DestinationID: 42})
		require.NoError(t, err)
		assert.InDelta(t, 22.7, fare.DistanceKm, 1e-9)
	})

	t.Run("unknown station", func(t *testing.T) {
		_, err := fc.CalculateFare(models.FareRequest{SourceID: 0, DestinationID: 16})
		assert.ErrorIs(t, err, models.ErrStationNotFound)
	})
}

func TestFareProperties(t *testing.T) {
	dir := loadDirectory(t)
	fc := NewFareCalculator(dir)
	stations := dir.StationsByLine("Yellow")

	for _, src := range stations {
		for _, dst := range stations {
			there, err := fc.CompareFares(src.ID, dst.ID)
			require.NoError(t, err)
			back, err := fc.CompareFares(dst.ID, src.ID)
			require.NoError(t, err)

			assert.Equal(t, there.Fares, back.Fares)
			assert.LessOrEqual(t, there.Fares.WeekdaySmartCard, there.Fares.WeekdayToken)
			assert.LessOrEqual(t, there.Fares.WeekendSmartCard, there.Fares.WeekendToken)
			assert.LessOrEqual(t, there.Fares.WeekendToken, there.Fares.WeekdayToken)
		}
	}

	// Fares never drop as the distance grows.
	origin := stations[0]
	previous := 0
	for _, dst := range stations {
		fare, err := fc.CalculateFare(models.FareRequest{SourceID: origin.ID, DestinationID: dst.ID})
		require.NoError(t, err)
		assert.GreaterOrEqual(t, fare.FinalFare, previous, dst.Name)
		previous = fare.FinalFare
	}
}

func TestCompareFares(t *testing.T) {
	fc := NewFareCalculator(loadDirectory(t))

	cmp, err := fc.CompareFares(12, 16)
	require.NoError(t, err)

	assert.Equal(t, models.FareOptions{
		WeekdayToken:     20,
		WeekdaySmartCard: 18,
		WeekendToken:     10,
		WeekendSmartCard: 9,
	}, cmp.Fares)
	assert.Equal(t, models.FareSavings{
		SmartCardWeekday:  2,
		SmartCardWeekend:  1,
		WeekendVsWeekday:  10,
		BestOptionSavings: 11,
	}, cmp.Savings)
	assert.Equal(t, models.BestFareOption{Fare: 9, Description: "Weekend + Smart Card"}, cmp.BestOption)
	assert.Equal(t, 65, cmp.TimeLimitMinutes)

	_, err = fc.CompareFares(12, 500)
	assert.ErrorIs(t, err, models.ErrStationNotFound)
}
