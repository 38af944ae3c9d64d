package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	// Station names carry letters, digits, spaces and a little punctuation ("Rohini Sector 18-19").
	validQueryPattern = regexp.MustCompile(`^[\p{L}0-9 .,'()\-]+$`)

	dangerousPattern = regexp.MustCompile(`[<>]|--|\/\*|\*\/|;.*--`)

	htmlTagPattern = regexp.MustCompile(`<[^>]*>`)
)

const maxStationID = 100000

// ValidateStationID parses a path or query station id; ids are positive integers.
func ValidateStationID(raw string) (int, error) {
	if raw == "" {
		return 0, errors.New("id cannot be empty")
	}

	if len(raw) > 10 {
		return 0, errors.New("id too long")
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errors.New("id must be an integer")
	}

	if id <= 0 || id > maxStationID {
		return 0, errors.New("id out of range")
	}

	return id, nil
}

// ValidateStationPair checks a source/destination pair and returns per-field errors.
func ValidateStationPair(rawSource, rawDestination string) (int, int, map[string][]string) {
	fieldErrors := make(map[string][]string)

	source, err := ValidateStationID(rawSource)
	if err != nil {
		fieldErrors["source"] = append(fieldErrors["source"], err.Error())
	}

	destination, err := ValidateStationID(rawDestination)
	if err != nil {
		fieldErrors["destination"] = append(fieldErrors["destination"], err.Error())
	}

	if len(fieldErrors) == 0 && source == destination {
		fieldErrors["destination"] = append(fieldErrors["destination"], "source and destination must differ")
	}

	return source, destination, fieldErrors
}

// ValidateQuery validates search query strings
func ValidateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return errors.New("query cannot be empty")
	}

	if len(query) > 200 {
		return errors.New("query too long (max 200 characters)")
	}

	if dangerousPattern.MatchString(query) || !validQueryPattern.MatchString(query) {
		return errors.New("query contains invalid characters")
	}

	return nil
}

func ValidateLatitude(lat float64) error {
	if lat < -90.0 || lat > 90.0 {
		return errors.New("latitude must be between -90 and 90")
	}
	return nil
}

func ValidateLongitude(lon float64) error {
	if lon < -180.0 || lon > 180.0 {
		return errors.New("longitude must be between -180 and 180")
	}
	return nil
}

// ValidateRadius validates a search radius in meters.
func ValidateRadius(radius float64) error {
	if radius < 0 {
		return errors.New("radius must be non-negative")
	}

	if radius > 10000 {
		return errors.New("radius too large (max 10000 meters)")
	}

	return nil
}

// ValidateDate validates date strings in YYYY-MM-DD format. Empty is allowed.
func ValidateDate(date string) error {
	if date == "" {
		return nil
	}

	if _, err := time.Parse("2006-01-02", date); err != nil {
		return errors.New("invalid date format, use YYYY-MM-DD")
	}

	return nil
}

// ValidateTimeOfDay validates HH:MM clock times. Empty is allowed.
func ValidateTimeOfDay(hhmm string) error {
	if hhmm == "" {
		return nil
	}

	if _, err := time.Parse("15:04", hhmm); err != nil {
		return errors.New("invalid time format, use HH:MM")
	}

	return nil
}

// SanitizeInput removes HTML tags and surrounding whitespace.
func SanitizeInput(input string) string {
	sanitized := htmlTagPattern.ReplaceAllString(input, "")
	return strings.TrimSpace(sanitized)
}

// ValidateLocationParams validates a point plus optional radius.
func ValidateLocationParams(lat, lon, radius float64) map[string][]string {
	fieldErrors := make(map[string][]string)

	if err := ValidateLatitude(lat); err != nil {
		fieldErrors["lat"] = append(fieldErrors["lat"], err.Error())
	}

	if err := ValidateLongitude(lon); err != nil {
		fieldErrors["lon"] = append(fieldErrors["lon"], err.Error())
	}

	if radius != 0 {
		if err := ValidateRadius(radius); err != nil {
			fieldErrors["radius"] = append(fieldErrors["radius"], err.Error())
		}
	}

	return fieldErrors
}

// ValidateAndSanitizeQuery validates and sanitizes a search query
func ValidateAndSanitizeQuery(query string) (string, error) {
	query = SanitizeInput(query)
	if err := ValidateQuery(query); err != nil {
		return "", err
	}
	return query, nil
}
