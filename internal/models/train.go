package models

import "time"

type TrainStatus string

const (
	TrainStatusMoving    TrainStatus = "moving"
	TrainStatusAtStation TrainStatus = "at_station"
)

// Train is one simulated vehicle. PositionKm stays within [0, line length].
type Train struct {
	ID                string      `json:"train_id"`
	Line              string      `json:"line"`
	PositionKm        float64     `json:"current_position_km"`
	Direction         Direction   `json:"direction"`
	Heading           string      `json:"heading"`
	Status            TrainStatus `json:"status"`
	SpeedKmh          int         `json:"speed_kmh"`
	CurrentPassengers int         `json:"current_passengers"`
	Capacity          int         `json:"capacity"`
	NextStationID     int         `json:"next_station_id,omitempty"`
	NextStationName   string      `json:"next_station_name,omitempty"`
	Coordinates       Coordinates `json:"coordinates"`
	Bearing           string      `json:"bearing,omitempty"`
	LastUpdated       time.Time   `json:"last_updated"`
}

// FleetSummary counts trains per line and per status.
type FleetSummary struct {
	TotalTrains int            `json:"total_trains"`
	ByLine      map[string]int `json:"by_line"`
	Moving      int            `json:"moving"`
	AtStation   int            `json:"at_station"`
}

// FleetUpdate is the message pushed to live subscribers on every broadcast.
type FleetUpdate struct {
	Type        string         `json:"type"`
	Trains      []Train        `json:"trains"`
	Timestamp   time.Time      `json:"timestamp"`
	TotalTrains int            `json:"total_trains"`
	ByLine      map[string]int `json:"by_line"`
}
