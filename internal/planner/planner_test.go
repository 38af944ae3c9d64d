package planner

import (
	"testing"

	"github.com/stretchr/testify/require"

	"metrolive.dev/data"
	"metrolive.dev/internal/directory"
	"metrolive.dev/internal/models"
)

func loadDirectory(t *testing.T) *directory.Directory {
	t.Helper()
	dir, err := directory.Load(data.FS)
	require.NoError(t, err)
	return dir
}

type fakeFleet struct {
	trains []models.Train
	speeds map[string]float64
}

func (f *fakeFleet) SnapshotByLine(line string) []models.Train {
	out := []models.Train{}
	for _, t := range f.trains {
		if t.Line == line {
			out = append(out, t)
		}
	}
	return out
}

func (f *fakeFleet) ETASpeed(line string) float64 {
	return f.speeds[line]
}
