// Package stationdb keeps a SQLite copy of the station directory for name
// search and bounding-box lookups.
package stationdb

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"log/slog"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"metrolive.dev/internal/appconf"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/models"
)

//go:embed schema.sql
var ddl string

// Client is the main entry point for the library
type Client struct {
	config Config
	DB     *sql.DB
	logger *slog.Logger
}

// NewClient opens the database and creates the schema.
func NewClient(config Config, logger *slog.Logger) (*Client, error) {
	db, err := createDB(config)
	if err != nil {
		return nil, err
	}

	client := &Client{
		config: config,
		DB:     db,
		logger: logging.ForComponent(logger, "stationdb"),
	}
	if config.verbose {
		client.logger.Debug("station database ready", slog.String("path", config.DBPath))
	}
	return client, nil
}

func createDB(config Config) (*sql.DB, error) {
	if config.Env == appconf.Test && config.DBPath != MemoryPath {
		return nil, fmt.Errorf("refusing to create a file database in test: %s", config.DBPath)
	}

	db, err := sql.Open("sqlite", config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}

	// Every connection to :memory: is its own database.
	if config.DBPath == MemoryPath {
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(5)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	if err := performDatabaseMigration(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error performing database migration: %w", err)
	}
	return db, nil
}

func performDatabaseMigration(ctx context.Context, db *sql.DB) error {
	statements := strings.Split(ddl, "-- migrate")
	for _, stmt := range statements {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, trimmed); err != nil {
			return fmt.Errorf("error executing DDL statement [%s]: %w", trimmed, err)
		}
	}
	return nil
}

func (c *Client) Close() error {
	return c.DB.Close()
}

// ImportStations replaces the table contents with stations in one transaction.
func (c *Client) ImportStations(ctx context.Context, stations []models.Station) (err error) {
	start := time.Now()

	tx, err := c.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	defer func() {
		if err != nil {
			logging.SafeRollbackWithLogging(tx, c.logger, "import_stations")
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM stations"); err != nil {
		return fmt.Errorf("error clearing stations: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO stations (
			id, code, name, display_name, line, lat, lon, distance_km, is_interchange
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?);
	`)
	if err != nil {
		return fmt.Errorf("error preparing statement: %w", err)
	}
	defer logging.SafeCloseWithLogging(stmt, c.logger, "insert_station_statement")

	for _, s := range stations {
		if _, err = stmt.ExecContext(ctx,
			s.ID, s.Code, s.Name, s.DisplayName, s.Line,
			s.Coordinates.Latitude, s.Coordinates.Longitude,
			s.DistanceFromOriginKm, s.IsInterchange,
		); err != nil {
			return fmt.Errorf("error inserting station %d: %w", s.ID, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("error committing transaction: %w", err)
	}

	logging.LogOperation(c.logger, "stations_imported",
		slog.Int("count", len(stations)),
		slog.Duration("duration", time.Since(start)))
	return nil
}

// TableCounts reports the number of rows in every user table.
func (c *Client) TableCounts(ctx context.Context) (map[string]int, error) {
	rows, err := c.DB.QueryContext(ctx, "SELECT name FROM sqlite_master WHERE type='table' AND name NOT LIKE 'sqlite_%'")
	if err != nil {
		return nil, fmt.Errorf("failed to query table names: %w", err)
	}
	defer logging.SafeCloseWithLogging(rows, c.logger, "table_names")

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	counts := make(map[string]int, len(tables))
	for _, table := range tables {
		var count int
		if err := c.DB.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %q", table)).Scan(&count); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", table, err)
		}
		counts[table] = count
	}
	return counts, nil
}
