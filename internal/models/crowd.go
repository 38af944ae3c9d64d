package models

import "time"

// CrowdThreshold is a half-open percentage band [Min, Max) with its display.
type CrowdThreshold struct {
	Min   int    `json:"min"`
	Max   int    `json:"max"`
	Label string `json:"label"`
	Color string `json:"color"`
	Emoji string `json:"emoji"`
}

type CrowdInfo struct {
	Percentage int    `json:"percentage"`
	Label      string `json:"label"`
	Color      string `json:"color"`
	Emoji      string `json:"emoji"`
}

type StationCrowd struct {
	StationID     int    `json:"station_id"`
	StationName   string `json:"station_name"`
	Line          string `json:"line"`
	IsInterchange bool   `json:"is_interchange"`
	CrowdInfo
}

type CrowdContext struct {
	Time       string `json:"time"`
	IsPeakHour bool   `json:"is_peak_hour"`
	IsWeekend  bool   `json:"is_weekend"`
	DayOfWeek  string `json:"day_of_week"`
}

type NetworkCrowd struct {
	Timestamp time.Time `json:"timestamp"`
	CrowdContext
	Stations []StationCrowd `json:"stations"`
}

type HourlyCrowd struct {
	Hour       int    `json:"hour"`
	Time       string `json:"time"`
	Percentage int    `json:"crowd_percentage"`
	Label      string `json:"crowd_label"`
}

type StationCrowdDetail struct {
	Station        StationSummary `json:"station"`
	Crowd          CrowdInfo      `json:"crowd"`
	Context        CrowdContext   `json:"context"`
	HourlyPattern  []HourlyCrowd  `json:"hourly_pattern"`
	Recommendation string         `json:"recommendation"`
}

type CrowdComparison struct {
	Timestamp    time.Time      `json:"timestamp"`
	Stations     []StationCrowd `json:"stations"`
	MostCrowded  *StationCrowd  `json:"most_crowded"`
	LeastCrowded *StationCrowd  `json:"least_crowded"`
}

// LineCrowd is the current crowd picture of one line.
type LineCrowd struct {
	Line                   string         `json:"line"`
	Timestamp              time.Time      `json:"timestamp"`
	CurrentPeriod          string         `json:"current_period"`
	TotalCurrentPassengers int            `json:"total_current_passengers"`
	BusiestStation         *StationCrowd  `json:"busiest_station"`
	StationCrowds          []StationCrowd `json:"station_crowds"`
}

type HourlyRidership struct {
	Hour          int    `json:"hour"`
	AvgPassengers int    `json:"avg_passengers"`
	Period        string `json:"period"`
}

// LineHourlyPattern is a line's expected ridership for each hour of a day.
type LineHourlyPattern struct {
	Line                 string            `json:"line"`
	Date                 string            `json:"date"`
	PeakHours            []int             `json:"peak_hours"`
	OffPeakHours         []int             `json:"off_peak_hours"`
	TotalDailyPassengers int               `json:"total_daily_passengers"`
	HourlyPatterns       []HourlyRidership `json:"hourly_patterns"`
}
