package models

type OperatingHours struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type TrainFrequency struct {
	PeakMinutes    int `json:"peak_minutes"`
	OffPeakMinutes int `json:"offpeak_minutes"`
	NightMinutes   int `json:"night_minutes"`
}

// DirectionInfo is how a line presents one of its two directions.
type DirectionInfo struct {
	Token string `json:"token"`
	Label string `json:"label"`
}

type LineDirections struct {
	Increasing DirectionInfo `json:"increasing"`
	Decreasing DirectionInfo `json:"decreasing"`
}

type Line struct {
	ID                 string         `json:"id"`
	Name               string         `json:"name"`
	FullName           string         `json:"full_name"`
	Color              string         `json:"color"`
	TotalStations      int            `json:"total_stations"`
	TotalDistanceKm    float64        `json:"total_distance_km"`
	OperatingHours     OperatingHours `json:"operating_hours"`
	TrainFrequency     TrainFrequency `json:"train_frequency"`
	AvgSpeedKmh        float64        `json:"avg_speed_kmh"`
	StationHaltSeconds int            `json:"station_halt_seconds"`
	Directions         LineDirections `json:"directions"`
}

func (l Line) Direction(d Direction) DirectionInfo {
	if d == DirectionDecreasing {
		return l.Directions.Decreasing
	}
	return l.Directions.Increasing
}

// LineStats is an aggregate view of a line's stations.
type LineStats struct {
	Line                 string  `json:"line"`
	TotalStations        int     `json:"total_stations"`
	InterchangeStations  int     `json:"interchange_stations"`
	TotalLineLengthKm    float64 `json:"total_line_length_km"`
	AvgStationDistanceKm float64 `json:"avg_station_distance_km"`
	PeakFrequencyMinutes int     `json:"peak_frequency_minutes"`
	ActiveTrains         int     `json:"active_trains"`
}

// Polyline is a line's station path in Google encoded polyline form.
type Polyline struct {
	Length int    `json:"length"`
	Points string `json:"points"`
}
