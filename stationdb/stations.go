package stationdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
)

var ErrEmptyQuery = errors.New("empty search query")

// Station is a row of the stations table.
type Station struct {
	ID            int
	Code          string
	Name          string
	DisplayName   string
	Line          string
	Lat           float64
	Lon           float64
	DistanceKm    float64
	IsInterchange bool
}

// Bounds is an inclusive latitude/longitude box.
type Bounds struct {
	MinLat float64
	MaxLat float64
	MinLon float64
	MaxLon float64
}

const stationColumns = `id, code, name, display_name, line, lat, lon, distance_km, is_interchange`

// SearchByName returns stations whose name or display name contains query,
// ignoring ASCII case, ordered by line and distance. A limit <= 0 means no limit.
func (c *Client) SearchByName(ctx context.Context, query string, limit int) ([]Station, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}
	if limit <= 0 {
		limit = -1
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := c.DB.QueryContext(ctx, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE name LIKE ? ESCAPE '\' OR display_name LIKE ? ESCAPE '\'
		ORDER BY line, distance_km
		LIMIT ?`, pattern, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search stations: %w", err)
	}
	return c.scanStations(rows)
}

// StationsWithinBounds returns the stations inside b ordered by id.
func (c *Client) StationsWithinBounds(ctx context.Context, b Bounds) ([]Station, error) {
	rows, err := c.DB.QueryContext(ctx, `
		SELECT `+stationColumns+`
		FROM stations
		WHERE lat >= ? AND lat <= ? AND lon >= ? AND lon <= ?
		ORDER BY id`, b.MinLat, b.MaxLat, b.MinLon, b.MaxLon)
	if err != nil {
		return nil, fmt.Errorf("stations within bounds: %w", err)
	}
	return c.scanStations(rows)
}

func (c *Client) scanStations(rows *sql.Rows) ([]Station, error) {
	defer func() { _ = rows.Close() }()

	stations := []Station{}
	for rows.Next() {
		var s Station
		if err := rows.Scan(&s.ID, &s.Code, &s.Name, &s.DisplayName, &s.Line,
			&s.Lat, &s.Lon, &s.DistanceKm, &s.IsInterchange); err != nil {
			return nil, fmt.Errorf("scan station: %w", err)
		}
		stations = append(stations, s)
	}
	return stations, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
