package models

// FareSlab maps an inclusive distance bracket to a flat fare.
type FareSlab struct {
	MinDistanceKm    float64 `json:"min_distance_km"`
	MaxDistanceKm    float64 `json:"max_distance_km"`
	Fare             int     `json:"fare"`
	TimeLimitMinutes int     `json:"time_limit_minutes"`
}

type FareSlabs struct {
	Weekday []FareSlab `json:"weekday"`
	Weekend []FareSlab `json:"weekend"`
}

type FareStructure struct {
	Currency                 string    `json:"currency"`
	SmartCardDiscountPercent float64   `json:"smart_card_discount_percent"`
	FareSlabs                FareSlabs `json:"fare_slabs"`
}

type PaymentMethod string

const (
	PaymentSmartCard PaymentMethod = "smart_card"
	PaymentToken     PaymentMethod = "token"
)

// FareRequest selects a fare between two stations. A parsable TravelDate
// (YYYY-MM-DD) takes precedence over IsWeekend.
type FareRequest struct {
	SourceID      int    `json:"source_id"`
	DestinationID int    `json:"destination_id"`
	IsWeekend     bool   `json:"is_weekend"`
	UseSmartCard  bool   `json:"use_smart_card"`
	TravelDate    string `json:"travel_date,omitempty"`
}

type Fare struct {
	SourceStation        string        `json:"source_station"`
	DestinationStation   string        `json:"destination_station"`
	DistanceKm           float64       `json:"distance_km"`
	IsWeekend            bool          `json:"is_weekend"`
	BaseFare             int           `json:"base_fare"`
	SmartCardDiscount    int           `json:"smart_card_discount"`
	FinalFare            int           `json:"final_fare"`
	TokenFare            int           `json:"token_fare"`
	SmartCardFare        int           `json:"smart_card_fare"`
	SavingsWithSmartCard int           `json:"savings_with_smart_card"`
	TimeLimitMinutes     int           `json:"time_limit_minutes"`
	Currency             string        `json:"currency"`
	PaymentMethod        PaymentMethod `json:"payment_method"`
}

type FareOptions struct {
	WeekdayToken     int `json:"weekday_token"`
	WeekdaySmartCard int `json:"weekday_smart_card"`
	WeekendToken     int `json:"weekend_token"`
	WeekendSmartCard int `json:"weekend_smart_card"`
}

type FareSavings struct {
	SmartCardWeekday  int `json:"smart_card_weekday"`
	SmartCardWeekend  int `json:"smart_card_weekend"`
	WeekendVsWeekday  int `json:"weekend_vs_weekday"`
	BestOptionSavings int `json:"best_option_savings"`
}

type BestFareOption struct {
	Fare        int    `json:"fare"`
	Description string `json:"description"`
}

type FareComparison struct {
	SourceStation      string         `json:"source_station"`
	DestinationStation string         `json:"destination_station"`
	DistanceKm         float64        `json:"distance_km"`
	Fares              FareOptions    `json:"fares"`
	Savings            FareSavings    `json:"savings"`
	BestOption         BestFareOption `json:"best_option"`
	TimeLimitMinutes   int            `json:"time_limit_minutes"`
	Currency           string         `json:"currency"`
}
