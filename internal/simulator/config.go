package simulator

import (
	"fmt"
	"io/fs"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"

	"metrolive.dev/internal/models"
)

// FleetConfig is the fleet.yaml document.
type FleetConfig struct {
	Lines []LineProfile `yaml:"lines"`
}

// LineProfile describes the trains that run on one line.
type LineProfile struct {
	Line          string         `yaml:"line"`
	Prefix        string         `yaml:"prefix"`
	Capacity      int            `yaml:"capacity"`
	Passengers    []int          `yaml:"passengers"`
	SpeedKmh      []int          `yaml:"speed_kmh"`
	ETASpeedKmh   float64        `yaml:"eta_speed_kmh"`
	PeakTarget    int            `yaml:"peak_target"`
	OffPeakTarget int            `yaml:"offpeak_target"`
	Trains        []InitialTrain `yaml:"trains"`
}

type InitialTrain struct {
	Number     int              `yaml:"number"`
	PositionKm float64          `yaml:"position_km"`
	Direction  models.Direction `yaml:"direction"`
}

// ParseFleetConfig decodes and checks a fleet document.
func ParseFleetConfig(b []byte) (FleetConfig, error) {
	var cfg FleetConfig
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing fleet config: %w", err)
	}
	for _, p := range cfg.Lines {
		if err := p.validate(); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

func LoadFleetConfig(fsys fs.FS, name string) (FleetConfig, error) {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return FleetConfig{}, fmt.Errorf("reading fleet config: %w", err)
	}
	return ParseFleetConfig(b)
}

func (p LineProfile) validate() error {
	switch {
	case p.Line == "":
		return fmt.Errorf("fleet profile without a line")
	case p.Prefix == "":
		return fmt.Errorf("fleet profile %s: prefix is required", p.Line)
	case p.Capacity <= 0:
		return fmt.Errorf("fleet profile %s: capacity must be positive", p.Line)
	case !validRange(p.Passengers) || p.Passengers[1] > p.Capacity:
		return fmt.Errorf("fleet profile %s: passengers must be [min, max] within capacity", p.Line)
	case !validRange(p.SpeedKmh) || p.SpeedKmh[0] <= 0:
		return fmt.Errorf("fleet profile %s: speed_kmh must be a positive [min, max]", p.Line)
	case p.ETASpeedKmh <= 0:
		return fmt.Errorf("fleet profile %s: eta_speed_kmh must be positive", p.Line)
	case p.PeakTarget < 0 || p.OffPeakTarget < 0:
		return fmt.Errorf("fleet profile %s: targets cannot be negative", p.Line)
	}
	return nil
}

func validRange(r []int) bool {
	return len(r) == 2 && r[0] >= 0 && r[0] <= r[1]
}

// ForNetwork keeps the profiles whose line exists in network and generates
// a small default profile for every other line, in the network's line order.
// Initial trains placed beyond the end of their line are dropped.
func (c FleetConfig) ForNetwork(network interface {
	Lines() []models.Line
	LineLength(line string) float64
}) FleetConfig {
	byLine := make(map[string]LineProfile, len(c.Lines))
	for _, p := range c.Lines {
		byLine[strings.ToLower(p.Line)] = p
	}

	var out FleetConfig
	for _, line := range network.Lines() {
		if p, ok := byLine[strings.ToLower(line.Name)]; ok {
			p.Line = line.Name
			p.Trains = trainsWithin(p.Trains, network.LineLength(line.Name))
			out.Lines = append(out.Lines, p)
			continue
		}
		out.Lines = append(out.Lines, defaultProfile(line, network.LineLength(line.Name)))
	}
	return out
}

func trainsWithin(trains []InitialTrain, length float64) []InitialTrain {
	out := make([]InitialTrain, 0, len(trains))
	for _, t := range trains {
		if t.PositionKm <= length {
			out = append(out, t)
		}
	}
	return out
}

func defaultProfile(line models.Line, length float64) LineProfile {
	eta := line.AvgSpeedKmh
	if eta <= 0 {
		eta = 35
	}
	return LineProfile{
		Line:          line.Name,
		Prefix:        linePrefix(line.Name),
		Capacity:      300,
		Passengers:    []int{100, 250},
		SpeedKmh:      []int{30, 40},
		ETASpeedKmh:   eta,
		PeakTarget:    4,
		OffPeakTarget: 2,
		Trains: []InitialTrain{
			{Number: 1, PositionKm: length / 4, Direction: models.DirectionIncreasing},
			{Number: 2, PositionKm: length * 3 / 4, Direction: models.DirectionDecreasing},
		},
	}
}

func linePrefix(name string) string {
	var b strings.Builder
	for _, r := range name {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
		if b.Len() == 2 {
			break
		}
	}
	if b.Len() == 0 {
		return "TR"
	}
	return b.String()
}
