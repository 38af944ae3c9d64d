package models

// Route is a single-line journey between two stations, stations listed in
// travel order with both ends included.
type Route struct {
	Source               StationSummary `json:"source"`
	Destination          StationSummary `json:"destination"`
	Line                 string         `json:"line"`
	Stations             []Station      `json:"stations"`
	TotalStations        int            `json:"total_stations"`
	TotalDistanceKm      float64        `json:"total_distance_km"`
	EstimatedTimeMinutes int            `json:"estimated_time_minutes"`
	Fare                 int            `json:"fare"`
	Direction            Direction      `json:"direction"`
	DirectionLabel       string         `json:"direction_label"`
	InterchangeStations  []string       `json:"interchange_stations"`
}

// JourneyPlan bundles a route with its selected fare and all fare options.
type JourneyPlan struct {
	Route          *Route          `json:"route"`
	Fare           *Fare           `json:"fare"`
	FareComparison *FareComparison `json:"fare_comparison"`
}
