package restapi

import (
	"net/http"

	"github.com/twpayne/go-polyline"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

type lineDetail struct {
	Line     models.Line      `json:"line"`
	Stats    models.LineStats `json:"stats"`
	Stations []models.Station `json:"stations"`
	Shape    models.Polyline  `json:"shape"`
}

func (api *RestAPI) linesHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewListResponse(api.Directory.Lines()))
}

func (api *RestAPI) lineHandler(w http.ResponseWriter, r *http.Request) {
	line, ok := api.Directory.Line(utils.SanitizeInput(utils.ExtractIDFromParams(r, "line")))
	if !ok {
		api.sendNotFound(w, r)
		return
	}

	stations := api.Directory.StationsByLine(line.Name)
	api.sendResponse(w, r, models.NewEntryResponse(lineDetail{
		Line:     line,
		Stats:    api.lineStats(line),
		Stations: stations,
		Shape:    stationPolyline(stations),
	}))
}

func stationPolyline(stations []models.Station) models.Polyline {
	coords := make([][]float64, 0, len(stations))
	for _, s := range stations {
		coords = append(coords, []float64{s.Coordinates.Latitude, s.Coordinates.Longitude})
	}
	return models.Polyline{
		Length: len(coords),
		Points: string(polyline.EncodeCoords(coords)),
	}
}

func (api *RestAPI) lineStatsHandler(w http.ResponseWriter, r *http.Request) {
	lines := api.Directory.Lines()
	stats := make([]models.LineStats, 0, len(lines))
	for _, line := range lines {
		stats = append(stats, api.lineStats(line))
	}
	api.sendResponse(w, r, models.NewListResponse(stats))
}

// lineStats adds the live train count to the directory's line summary.
func (api *RestAPI) lineStats(line models.Line) models.LineStats {
	stats, _ := api.Directory.LineStats(line.Name)
	stats.ActiveTrains = len(api.Fleet.SnapshotByLine(line.Name))
	return stats
}
