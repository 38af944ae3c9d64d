package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/julienschmidt/httprouter"

	"metrolive.dev/internal/app"
	"metrolive.dev/internal/appconf"
	"metrolive.dev/internal/clock"
	"metrolive.dev/internal/logging"
	"metrolive.dev/internal/restapi"
	"metrolive.dev/internal/webui"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg := appconf.Defaults()
	var env, origins string

	flag.IntVar(&cfg.Port, "port", cfg.Port, "API server port")
	flag.StringVar(&env, "env", "development", "Environment (development|test|production)")
	flag.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "Requests per second per client (0 blocks, negative disables)")
	flag.StringVar(&cfg.DataDir, "data-dir", "", "Directory with line, fare and fleet fixtures (default: embedded)")
	flag.StringVar(&cfg.GTFSSource, "gtfs", "", "Path or URL of a static GTFS zip to load stations from")
	flag.DurationVar(&cfg.PositionInterval, "position-interval", cfg.PositionInterval, "How often trains move")
	flag.DurationVar(&cfg.BroadcastInterval, "broadcast-interval", cfg.BroadcastInterval, "How often live subscribers get an update")
	flag.DurationVar(&cfg.AdjustInterval, "adjust-interval", cfg.AdjustInterval, "How often the fleet size follows the timetable")
	flag.Uint64Var(&cfg.Seed, "seed", 0, "Seed for the train simulator (0 seeds from the clock)")
	flag.StringVar(&origins, "cors-origins", strings.Join(cfg.AllowedOrigins, ","), "Comma separated allowed origins, empty allows all")
	flag.BoolVar(&cfg.Verbose, "verbose", false, "Enable debug logging")
	flag.Parse()

	cfg.Env = appconf.EnvFlagToEnvironment(env)
	cfg.AllowedOrigins = splitList(origins)

	logger := logging.NewLogger(os.Stdout, cfg.Env, cfg.Verbose)

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server stopped", err)
		os.Exit(1)
	}
}

func run(cfg appconf.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger, clock.RealClock{})
	if err != nil {
		return fmt.Errorf("starting application: %w", err)
	}
	defer application.Close()

	api := restapi.NewRestAPI(application)
	defer api.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      routes(api, &webui.WebUI{Application: application}),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	application.Scheduler.Start()

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("starting server",
			slog.String("addr", srv.Addr),
			slog.String("env", cfg.Env.String()),
			slog.Int("stations", len(application.Directory.AllStations())),
			slog.Int("trains", application.Fleet.Count()))
		serveErr <- srv.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

func routes(api *restapi.RestAPI, ui *webui.WebUI) http.Handler {
	router := httprouter.New()
	api.SetRoutes(router)
	ui.SetWebUIRoutes(router)
	return api.WithMiddleware(router)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
