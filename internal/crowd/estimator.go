// Package crowd estimates how busy stations are from their importance, type
// and the time of day.
package crowd

import (
	"fmt"
	"math"
	"sort"
	"time"

	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const (
	firstServiceHour = 6
	lastServiceHour  = 23
)

var fallbackMultiplier = models.CrowdMultiplier{Peak: 1.2, OffPeak: 0.6, Weekend: 0.6}

var veryHighDefault = models.CrowdThreshold{Min: 85, Max: 101, Label: "Very High", Color: "#F44336", Emoji: "🔴"}

type Stations interface {
	AllStations() []models.Station
	StationsByLine(line string) []models.Station
	StationByID(id int) (models.Station, bool)
	CrowdThresholds() map[string]models.CrowdThreshold
}

type Estimator struct {
	stations   Stations
	thresholds []models.CrowdThreshold
	veryHigh   models.CrowdThreshold
	clock      clock.Clock
	seed       uint64
}

func NewEstimator(stations Stations, clk clock.Clock, seed uint64) *Estimator {
	byName := stations.CrowdThresholds()

	thresholds := make([]models.CrowdThreshold, 0, len(byName))
	for _, t := range byName {
		thresholds = append(thresholds, t)
	}
	sort.Slice(thresholds, func(i, j int) bool { return thresholds[i].Min < thresholds[j].Min })

	veryHigh, ok := byName["very_high"]
	if !ok {
		veryHigh = veryHighDefault
	}

	if clk == nil {
		clk = clock.RealClock{}
	}

	return &Estimator{
		stations:   stations,
		thresholds: thresholds,
		veryHigh:   veryHigh,
		clock:      clk,
		seed:       seed,
	}
}

// Percentage estimates the crowd level of a station at t, from 0 to 100.
func (e *Estimator) Percentage(station models.Station, t time.Time) int {
	weekend := utils.IsWeekend(t)

	multipliers := station.AvgCrowdMultiplier
	var multiplier float64
	switch {
	case weekend:
		multiplier = orDefault(multipliers.Weekend, fallbackMultiplier.Weekend)
	case utils.IsPeakHour(t):
		multiplier = orDefault(multipliers.Peak, fallbackMultiplier.Peak)
	default:
		multiplier = orDefault(multipliers.OffPeak, fallbackMultiplier.OffPeak)
	}

	crowd := float64(station.ImportanceScore) / 10 * 50 * multiplier

	switch hour := t.Hour(); {
	case !weekend && hour >= 7 && hour < 10:
		crowd *= 1.3
	case !weekend && hour >= 17 && hour < 21:
		crowd *= 1.4
	case hour >= 12 && hour < 14:
		crowd *= 1.1
	case hour >= 22 || hour < 6:
		crowd *= 0.5
	}

	switch {
	case station.StationType == models.StationTypeCommercial && !weekend:
		crowd *= 1.2
	case station.StationType == models.StationTypeResidential && weekend:
		crowd *= 1.1
	}

	if station.IsInterchange {
		crowd *= 1.15
	}

	return min(100, max(0, int(math.Round(crowd))))
}

// Classify maps a percentage to the first band with Min <= pct < Max.
func (e *Estimator) Classify(pct int) models.CrowdInfo {
	band := e.veryHigh
	for _, t := range e.thresholds {
		if t.Min <= pct && pct < t.Max {
			band = t
			break
		}
	}
	return models.CrowdInfo{Percentage: pct, Label: band.Label, Color: band.Color, Emoji: band.Emoji}
}

func (e *Estimator) stationCrowd(station models.Station, t time.Time) models.StationCrowd {
	return models.StationCrowd{
		StationID:     station.ID,
		StationName:   station.Name,
		Line:          station.Line,
		IsInterchange: station.IsInterchange,
		CrowdInfo:     e.Classify(e.Percentage(station, t)),
	}
}

func crowdContext(t time.Time) models.CrowdContext {
	return models.CrowdContext{
		Time:       t.Format("15:04"),
		IsPeakHour: utils.IsPeakHour(t),
		IsWeekend:  utils.IsWeekend(t),
		DayOfWeek:  t.Weekday().String(),
	}
}

// EstimateCurrent estimates every station at the current time.
func (e *Estimator) EstimateCurrent() *models.NetworkCrowd {
	now := e.clock.Now()

	all := e.stations.AllStations()
	stations := make([]models.StationCrowd, 0, len(all))
	for _, s := range all {
		stations = append(stations, e.stationCrowd(s, now))
	}

	return &models.NetworkCrowd{
		Timestamp:    now,
		CrowdContext: crowdContext(now),
		Stations:     stations,
	}
}

// EstimateStation estimates one station at today's HH:MM, or now when
// timeOfDay is empty or unparsable, and adds the day's hourly pattern.
func (e *Estimator) EstimateStation(stationID int, timeOfDay string) (*models.StationCrowdDetail, error) {
	station, ok := e.stations.StationByID(stationID)
	if !ok {
		return nil, fmt.Errorf("station %d: %w", stationID, models.ErrStationNotFound)
	}

	at := e.clock.Now()
	if timeOfDay != "" {
		if t, err := utils.AtTimeOfDay(at, timeOfDay); err == nil {
			at = t
		}
	}

	pct := e.Percentage(station, at)
	return &models.StationCrowdDetail{
		Station:        station.Summary(),
		Crowd:          e.Classify(pct),
		Context:        crowdContext(at),
		HourlyPattern:  e.hourlyPattern(station, at),
		Recommendation: Recommendation(pct),
	}, nil
}

func (e *Estimator) hourlyPattern(station models.Station, day time.Time) []models.HourlyCrowd {
	pattern := make([]models.HourlyCrowd, 0, lastServiceHour-firstServiceHour+1)
	for hour := firstServiceHour; hour <= lastServiceHour; hour++ {
		t := time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, day.Location())
		info := e.Classify(e.Percentage(station, t))
		pattern = append(pattern, models.HourlyCrowd{
			Hour:       hour,
			Time:       t.Format("15:04"),
			Percentage: info.Percentage,
			Label:      info.Label,
		})
	}
	return pattern
}

// CompareStations ranks the known stations among ids from most to least
// crowded right now. Unknown ids are skipped.
func (e *Estimator) CompareStations(ids []int) *models.CrowdComparison {
	now := e.clock.Now()

	stations := make([]models.StationCrowd, 0, len(ids))
	for _, id := range ids {
		s, ok := e.stations.StationByID(id)
		if !ok {
			continue
		}
		stations = append(stations, e.stationCrowd(s, now))
	}
	sort.SliceStable(stations, func(i, j int) bool { return stations[i].Percentage > stations[j].Percentage })

	cmp := &models.CrowdComparison{Timestamp: now, Stations: stations}
	if len(stations) > 0 {
		most, least := stations[0], stations[len(stations)-1]
		cmp.MostCrowded = &most
		cmp.LeastCrowded = &least
	}
	return cmp
}

// Recommendation is the advice shown for a crowd percentage.
func Recommendation(pct int) string {
	switch {
	case pct >= 85:
		return "Very crowded. Consider waiting for next train or travelling at a different time."
	case pct >= 60:
		return "High crowd expected. Allow extra time for boarding."
	case pct >= 30:
		return "Moderate crowd. Normal travel conditions."
	default:
		return "Low crowd. Good time to travel comfortably."
	}
}

func orDefault(v, fallback float64) float64 {
	if v == 0 {
		return fallback
	}
	return v
}
