package models

type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// CrowdMultiplier scales a station's base crowd level per time period.
type CrowdMultiplier struct {
	Peak    float64 `json:"peak"`
	OffPeak float64 `json:"offpeak"`
	Weekend float64 `json:"weekend"`
}

type StationType string

const (
	StationTypeCommercial  StationType = "commercial"
	StationTypeMixed       StationType = "mixed"
	StationTypeResidential StationType = "residential"
)

// Station is an immutable stop on a line. ID is unique across the whole
// network and dense within a line, ascending with DistanceFromOriginKm.
type Station struct {
	ID                   int             `json:"id"`
	Code                 string          `json:"station_id"`
	Name                 string          `json:"name"`
	DisplayName          string          `json:"display_name"`
	Line                 string          `json:"line"`
	Coordinates          Coordinates     `json:"coordinates"`
	DistanceFromOriginKm float64         `json:"distance_from_origin_km"`
	Layout               string          `json:"layout"`
	OpenedYear           int             `json:"opened_year"`
	IsInterchange        bool            `json:"is_interchange"`
	InterchangeLines     []string        `json:"interchange_lines"`
	Facilities           []string        `json:"facilities"`
	ImportanceScore      int             `json:"importance_score"`
	StationType          StationType     `json:"station_type"`
	AvgCrowdMultiplier   CrowdMultiplier `json:"avg_crowd_multiplier"`
}

// StationSummary is the short form of a station used inside results.
type StationSummary struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	DistanceKm float64 `json:"distance"`
}

func (s Station) Summary() StationSummary {
	return StationSummary{ID: s.ID, Name: s.Name, DistanceKm: s.DistanceFromOriginKm}
}

type SegmentGeometry struct {
	Type        string       `json:"type"`
	Coordinates [][2]float64 `json:"coordinates"`
}

// Segment joins two adjacent stations of one line, referenced by station code.
type Segment struct {
	ID                   string          `json:"segment_id"`
	FromStationCode      string          `json:"from_station_id"`
	ToStationCode        string          `json:"to_station_id"`
	DistanceKm           float64         `json:"distance_km"`
	AvgTravelTimeMinutes float64         `json:"avg_travel_time_minutes"`
	Geometry             SegmentGeometry `json:"geometry"`
}
