package planner

import (
	"math"
	"time"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const bestOptionDescription = "Weekend + Smart Card"

type FareCalculator struct {
	stations Stations
}

func NewFareCalculator(stations Stations) *FareCalculator {
	return &FareCalculator{stations: stations}
}

// FareForDistance looks up the flat fare and time limit for a distance.
// Bounds are inclusive and the first matching slab wins; distances past
// every slab use the last one.
func (fc *FareCalculator) FareForDistance(distanceKm float64, isWeekend bool) (fare int, timeLimitMinutes int) {
	slabs := fc.stations.FareSlabs(isWeekend)
	if len(slabs) == 0 {
		return 0, 0
	}
	for _, s := range slabs {
		if s.MinDistanceKm <= distanceKm && distanceKm <= s.MaxDistanceKm {
			return s.Fare, s.TimeLimitMinutes
		}
	}
	last := slabs[len(slabs)-1]
	return last.Fare, last.TimeLimitMinutes
}

// SmartCardDiscount is the configured percentage of base, rounded half away from zero.
func (fc *FareCalculator) SmartCardDiscount(base int) int {
	pct := fc.stations.FareStructure().SmartCardDiscountPercent
	return int(math.Round(float64(base) * pct / 100))
}

// CalculateFare prices a trip. A TravelDate that parses as YYYY-MM-DD
// decides weekend pricing on its own; otherwise IsWeekend is used.
func (fc *FareCalculator) CalculateFare(req models.FareRequest) (*models.Fare, error) {
	src, dst, err := lookupPair(fc.stations, req.SourceID, req.DestinationID)
	if err != nil {
		return nil, err
	}

	isWeekend := req.IsWeekend
	if req.TravelDate != "" {
		if date, err := time.Parse("2006-01-02", req.TravelDate); err == nil {
			isWeekend = utils.IsWeekend(date)
		}
	}

	distance := distanceBetween(src, dst)
	base, timeLimit := fc.FareForDistance(distance, isWeekend)
	discount := fc.SmartCardDiscount(base)

	fare := &models.Fare{
		SourceStation:        src.Name,
		DestinationStation:   dst.Name,
		DistanceKm:           utils.RoundTo(distance, 2),
		IsWeekend:            isWeekend,
		BaseFare:             base,
		FinalFare:            base,
		TokenFare:            base,
		SmartCardFare:        base - discount,
		SavingsWithSmartCard: discount,
		TimeLimitMinutes:     timeLimit,
		Currency:             fc.currency(),
		PaymentMethod:        models.PaymentToken,
	}
	if req.UseSmartCard {
		fare.SmartCardDiscount = discount
		fare.FinalFare = base - discount
		fare.PaymentMethod = models.PaymentSmartCard
	}
	return fare, nil
}

// CompareFares prices all four weekday/weekend and token/smart card
// combinations. Weekend with a smart card is always the cheapest.
func (fc *FareCalculator) CompareFares(sourceID, destinationID int) (*models.FareComparison, error) {
	src, dst, err := lookupPair(fc.stations, sourceID, destinationID)
	if err != nil {
		return nil, err
	}

	distance := distanceBetween(src, dst)
	weekday, timeLimit := fc.FareForDistance(distance, false)
	weekend, _ := fc.FareForDistance(distance, true)

	fares := models.FareOptions{
		WeekdayToken:     weekday,
		WeekdaySmartCard: weekday - fc.SmartCardDiscount(weekday),
		WeekendToken:     weekend,
		WeekendSmartCard: weekend - fc.SmartCardDiscount(weekend),
	}

	return &models.FareComparison{
		SourceStation:      src.Name,
		DestinationStation: dst.Name,
		DistanceKm:         utils.RoundTo(distance, 2),
		Fares:              fares,
		Savings: models.FareSavings{
			SmartCardWeekday:  fares.WeekdayToken - fares.WeekdaySmartCard,
			SmartCardWeekend:  fares.WeekendToken - fares.WeekendSmartCard,
			WeekendVsWeekday:  fares.WeekdayToken - fares.WeekendToken,
			BestOptionSavings: fares.WeekdayToken - fares.WeekendSmartCard,
		},
		BestOption: models.BestFareOption{
			Fare:        fares.WeekendSmartCard,
			Description: bestOptionDescription,
		},
		TimeLimitMinutes: timeLimit,
		Currency:         fc.currency(),
	}, nil
}

func (fc *FareCalculator) currency() string {
	if c := fc.stations.FareStructure().Currency; c != "" {
		return c
	}
	return models.Currency
}
