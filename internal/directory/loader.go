package directory

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"

	"metrolive.dev/internal/models"
)

const (
	linesGlob             = "lines/*.json"
	fareStructureFile     = "fare_structure.json"
	operationalParamsFile = "operational_params.json"
)

// LineData is the on-disk document for one line.
type LineData struct {
	Info     models.Line      `json:"line_info"`
	Stations []models.Station `json:"stations"`
	Segments []models.Segment `json:"segments"`
}

type TrainSpecs struct {
	CarsPerTrain   int     `json:"cars_per_train"`
	MaxSpeedKmh    float64 `json:"max_speed_kmh"`
	AvgSpeedKmh    float64 `json:"avg_speed_kmh"`
	CapacityPerCar int     `json:"capacity_per_car"`
}

type OperationalParams struct {
	CrowdThresholds map[string]models.CrowdThreshold `json:"crowd_thresholds"`
	TrainSpecs      TrainSpecs                       `json:"train_specs"`
}

// Load reads every line document plus the fare and operational parameter
// files from fsys and builds a validated Directory.
func Load(fsys fs.FS) (*Directory, error) {
	names, err := fs.Glob(fsys, linesGlob)
	if err != nil {
		return nil, fmt.Errorf("listing line files: %w", err)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no line files matching %s", linesGlob)
	}
	sort.Strings(names)

	lines := make([]LineData, 0, len(names))
	for _, name := range names {
		var ld LineData
		if err := readJSON(fsys, name, &ld); err != nil {
			return nil, err
		}
		lines = append(lines, ld)
	}

	fares, params, err := LoadMetadata(fsys)
	if err != nil {
		return nil, err
	}

	return New(lines, fares, params)
}

// LoadDir is Load over a directory on disk.
func LoadDir(dir string) (*Directory, error) {
	return Load(os.DirFS(dir))
}

// LoadMetadata reads only the fare structure and operational parameters.
func LoadMetadata(fsys fs.FS) (models.FareStructure, OperationalParams, error) {
	var fares models.FareStructure
	if err := readJSON(fsys, fareStructureFile, &fares); err != nil {
		return fares, OperationalParams{}, err
	}

	var params OperationalParams
	if err := readJSON(fsys, operationalParamsFile, &params); err != nil {
		return fares, params, err
	}

	return fares, params, nil
}

func readJSON(fsys fs.FS, name string, v any) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path.Base(name), err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("invalid JSON in %s: %w", path.Base(name), err)
	}
	return nil
}
