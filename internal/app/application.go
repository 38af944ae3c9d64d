package app

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"time"

	"metrolive.dev/data"
	"metrolive.dev/internal/appconf"
	"metrolive.dev/internal/broadcast"
	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/crowd"
	"metrolive.dev/internal/directory"
	"metrolive.dev/internal/gtfs"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/planner"
	"metrolive.dev/internal/simulator"
	"metrolive.dev/stationdb"
)

// Application holds the dependencies for our HTTP handlers, helpers,
// and middleware.
type Application struct {
	Config appconf.Config
	Logger *slog.Logger
	Clock  clock.Clock

	Directory    *directory.Directory
	StationIndex *stationdb.Client
	Fleet        *simulator.Fleet

	Routes   *planner.RouteCalculator
	Fares    *planner.FareCalculator
	ETA      *planner.ETACalculator
	Journeys *planner.JourneyPlanner
	Crowd    *crowd.Estimator

	Subscribers *broadcast.Registry
	Scheduler   *broadcast.Scheduler

	StartedAt time.Time
}

// New loads the station data and builds every component. The scheduler is
// created but not started.
func New(ctx context.Context, cfg appconf.Config, logger *slog.Logger, clk clock.Clock) (*Application, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if clk == nil {
		clk = clock.RealClock{}
	}

	dir, err := loadDirectory(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("loading stations: %w", err)
	}

	fleetConfig, err := loadFleetConfig(cfg)
	if err != nil {
		return nil, err
	}

	var rng *rand.Rand
	if cfg.Seed != 0 {
		rng = rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	}
	fleet, err := simulator.NewFleet(dir, fleetConfig.ForNetwork(dir), simulator.Options{
		Rand:   rng,
		Clock:  clk,
		Logger: logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating fleet: %w", err)
	}

	index, err := stationdb.NewClient(stationdb.NewConfig(stationdb.MemoryPath, cfg.Env, cfg.Verbose), logger)
	if err != nil {
		return nil, fmt.Errorf("creating station index: %w", err)
	}
	if err := index.ImportStations(ctx, dir.AllStations()); err != nil {
		logging.SafeCloseWithLogging(index, logger, "station_index")
		return nil, fmt.Errorf("indexing stations: %w", err)
	}

	fares := planner.NewFareCalculator(dir)
	routes := planner.NewRouteCalculator(dir, fares)
	registry := broadcast.NewRegistry(logger)
	scheduler := broadcast.NewScheduler(fleet, registry, clk, logger, broadcast.Config{
		PositionInterval:  cfg.PositionInterval,
		BroadcastInterval: cfg.BroadcastInterval,
		AdjustInterval:    cfg.AdjustInterval,
	})

	return &Application{
		Config:       cfg,
		Logger:       logger,
		Clock:        clk,
		Directory:    dir,
		StationIndex: index,
		Fleet:        fleet,
		Routes:       routes,
		Fares:        fares,
		ETA:          planner.NewETACalculator(dir, fleet),
		Journeys:     planner.NewJourneyPlanner(routes, fares),
		Crowd:        crowd.NewEstimator(dir, clk, cfg.Seed),
		Subscribers:  registry,
		Scheduler:    scheduler,
		StartedAt:    clk.Now(),
	}, nil
}

// Close stops the scheduler and releases the station index.
func (app *Application) Close() {
	app.Scheduler.Stop()
	logging.SafeCloseWithLogging(app.StationIndex, app.Logger, "station_index")
}

func loadDirectory(ctx context.Context, cfg appconf.Config, logger *slog.Logger) (*directory.Directory, error) {
	switch {
	case cfg.GTFSSource != "":
		fares, params, err := directory.LoadMetadata(metadataFS(cfg))
		if err != nil {
			return nil, err
		}
		return gtfs.LoadDirectory(ctx, cfg.GTFSSource, fares, params, logger)
	case cfg.DataDir != "":
		return directory.LoadDir(cfg.DataDir)
	default:
		return directory.Load(data.FS)
	}
}

func metadataFS(cfg appconf.Config) fs.FS {
	if cfg.DataDir != "" {
		return os.DirFS(cfg.DataDir)
	}
	return data.FS
}

// loadFleetConfig prefers a fleet.yaml in the data directory and falls back
// to the embedded one.
func loadFleetConfig(cfg appconf.Config) (simulator.FleetConfig, error) {
	if cfg.DataDir != "" {
		if _, err := os.Stat(filepath.Join(cfg.DataDir, data.FleetFile)); err == nil {
			return simulator.LoadFleetConfig(os.DirFS(cfg.DataDir), data.FleetFile)
		}
	}
	return simulator.LoadFleetConfig(data.FS, data.FleetFile)
}
