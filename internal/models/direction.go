package models

import (
	"encoding/json"
	"fmt"
)

// Direction is one of the two canonical travel directions on a line.
// Increasing runs toward the terminus with the larger distance from origin.
type Direction int

const (
	DirectionIncreasing Direction = iota
	DirectionDecreasing
)

func (d Direction) String() string {
	switch d {
	case DirectionIncreasing:
		return "increasing"
	case DirectionDecreasing:
		return "decreasing"
	default:
		return UnknownValue
	}
}

// Sign is +1 for increasing and -1 for decreasing travel.
func (d Direction) Sign() float64 {
	if d == DirectionDecreasing {
		return -1
	}
	return 1
}

func (d Direction) Opposite() Direction {
	if d == DirectionDecreasing {
		return DirectionIncreasing
	}
	return DirectionDecreasing
}

func ParseDirection(s string) (Direction, error) {
	switch s {
	case "increasing":
		return DirectionIncreasing, nil
	case "decreasing":
		return DirectionDecreasing, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

func (d Direction) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Direction) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDirection(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// UnmarshalText lets YAML and flag decoders read a Direction.
func (d *Direction) UnmarshalText(b []byte) error {
	parsed, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
