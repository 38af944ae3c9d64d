package appconf

import (
	"strings"
	"time"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag onto an Environment, defaulting to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds all the configuration settings for the Application. Values are
// read from command-line flags when the binary starts.
type Config struct {
	Port      int
	Env       Environment
	RateLimit int // requests per second per client, 0 blocks everything
	Verbose   bool

	// DataDir overrides the embedded fixtures with a directory on disk.
	DataDir string
	// GTFSSource replaces the station fixtures with a static GTFS zip (path or URL).
	GTFSSource string

	PositionInterval  time.Duration
	BroadcastInterval time.Duration
	AdjustInterval    time.Duration

	// Seed fixes the simulator's random source; 0 seeds from the clock.
	Seed uint64

	AllowedOrigins []string
}

// Defaults returns the configuration used when no flags are given.
func Defaults() Config {
	return Config{
		Port:              4000,
		Env:               Development,
		RateLimit:         100,
		PositionInterval:  5 * time.Second,
		BroadcastInterval: 5 * time.Second,
		AdjustInterval:    5 * time.Minute,
		AllowedOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
			"http://localhost:8080",
		},
	}
}
