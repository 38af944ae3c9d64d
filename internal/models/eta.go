package models

type ApproachingTrain struct {
	TrainID           string `json:"train_id"`
	ETAMinutes        int    `json:"eta_minutes"`
	StationsAway      int    `json:"stations_away"`
	CurrentPassengers int    `json:"current_passengers"`
	Capacity          int    `json:"capacity"`
}

type DirectionETA struct {
	Direction     Direction          `json:"direction"`
	DirectionName string             `json:"direction_name"`
	Trains        []ApproachingTrain `json:"trains"`
}

// StationETA lists up to three approaching trains per direction, soonest first.
type StationETA struct {
	StationID   int          `json:"station_id"`
	StationName string       `json:"station_name"`
	Line        string       `json:"line"`
	Increasing  DirectionETA `json:"direction_1"`
	Decreasing  DirectionETA `json:"direction_2"`
}
