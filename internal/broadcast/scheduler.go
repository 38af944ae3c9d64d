package broadcast

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/models"
)

const UpdateMessageType = "train_update"

// Fleet is the part of the simulator the scheduler drives.
type Fleet interface {
	Tick()
	AdjustCount(now time.Time) (added, removed int)
	SnapshotWithSummary() ([]models.Train, models.FleetSummary)
}

type Config struct {
	PositionInterval  time.Duration
	BroadcastInterval time.Duration
	AdjustInterval    time.Duration
}

func DefaultConfig() Config {
	return Config{
		PositionInterval:  5 * time.Second,
		BroadcastInterval: 5 * time.Second,
		AdjustInterval:    5 * time.Minute,
	}
}

// Scheduler runs the position, broadcast and fleet size loops on their own tickers.
type Scheduler struct {
	fleet    Fleet
	registry *Registry
	clock    clock.Clock
	logger   *slog.Logger
	config   Config

	mu           sync.Mutex
	running      bool
	shutdownChan chan struct{}
	wg           sync.WaitGroup
}

func NewScheduler(fleet Fleet, registry *Registry, clk clock.Clock, logger *slog.Logger, config Config) *Scheduler {
	defaults := DefaultConfig()
	if config.PositionInterval <= 0 {
		config.PositionInterval = defaults.PositionInterval
	}
	if config.BroadcastInterval <= 0 {
		config.BroadcastInterval = defaults.BroadcastInterval
	}
	if config.AdjustInterval <= 0 {
		config.AdjustInterval = defaults.AdjustInterval
	}
	if clk == nil {
		clk = clock.RealClock{}
	}

	return &Scheduler{
		fleet:    fleet,
		registry: registry,
		clock:    clk,
		logger:   logging.ForComponent(logger, "broadcast_scheduler"),
		config:   config,
	}
}

// Start launches the background loops. Calling it while running does nothing.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}

	shutdown := make(chan struct{})
	s.shutdownChan = shutdown
	s.running = true

	s.wg.Add(3)
	go s.loop(shutdown, "position_update", s.config.PositionInterval, func() { s.UpdatePositions() })
	go s.loop(shutdown, "broadcast", s.config.BroadcastInterval, func() { s.BroadcastUpdate(context.Background()) })
	go s.loop(shutdown, "fleet_adjustment", s.config.AdjustInterval, func() { s.AdjustFleet() })

	s.logger.Info("scheduler started",
		slog.Duration("position_interval", s.config.PositionInterval),
		slog.Duration("broadcast_interval", s.config.BroadcastInterval),
		slog.Duration("adjust_interval", s.config.AdjustInterval))
}

// Stop halts the loops and waits for in-flight work, letting a broadcast
// that already started reach every subscriber. Calling it while stopped
// does nothing.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}

	close(s.shutdownChan)
	s.wg.Wait()
	s.running = false
	s.logger.Info("scheduler stopped")
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(shutdown <-chan struct{}, name string, interval time.Duration, task func()) {
	defer s.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-shutdown:
			return
		case <-ticker.C:
			select {
			case <-shutdown:
				return
			default:
			}
			s.runTask(name, task)
		}
	}
}

func (s *Scheduler) runTask(name string, task func()) {
	defer logging.RecoverAndLog(s.logger, name, nil)
	task()
}

func (s *Scheduler) UpdatePositions() {
	s.fleet.Tick()
}

// Update builds the message pushed to subscribers from a fresh fleet snapshot.
func (s *Scheduler) Update() models.FleetUpdate {
	trains, summary := s.fleet.SnapshotWithSummary()
	return models.FleetUpdate{
		Type:        UpdateMessageType,
		Trains:      trains,
		Timestamp:   s.clock.Now(),
		TotalTrains: summary.TotalTrains,
		ByLine:      summary.ByLine,
	}
}

// BroadcastUpdate pushes one fleet snapshot to every subscriber and returns
// the number of successful deliveries.
func (s *Scheduler) BroadcastUpdate(ctx context.Context) int {
	msg := s.Update()

	delivered := s.registry.Broadcast(ctx, msg)
	s.logger.Debug("broadcast sent",
		slog.Int("trains", msg.TotalTrains),
		slog.Int("delivered", delivered),
		slog.Int("subscribers", s.registry.Count()))
	return delivered
}

func (s *Scheduler) AdjustFleet() {
	added, removed := s.fleet.AdjustCount(s.clock.Now())
	if added > 0 || removed > 0 {
		s.logger.Info("fleet size adjusted", slog.Int("added", added), slog.Int("removed", removed))
	}
}
