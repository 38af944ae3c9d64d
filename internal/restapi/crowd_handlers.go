package restapi

import (
	"net/http"
	"time"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

type heatmapPoint struct {
	models.StationCrowd
	Coordinates models.Coordinates `json:"coordinates"`
}

type crowdHeatmap struct {
	Timestamp  time.Time      `json:"timestamp"`
	IsPeakHour bool           `json:"is_peak_hour"`
	Stations   []heatmapPoint `json:"stations"`
}

func (api *RestAPI) currentCrowdHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.Crowd.EstimateCurrent()))
}

func (api *RestAPI) stationCrowdHandler(w http.ResponseWriter, r *http.Request) {
	id, fieldErrors := api.knownStationFromPath(r, "id")
	timeOfDay := r.URL.Query().Get("time")
	if err := utils.ValidateTimeOfDay(timeOfDay); err != nil {
		fieldErrors["time"] = append(fieldErrors["time"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	detail, err := api.Crowd.EstimateStation(id, timeOfDay)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(detail))
}

func (api *RestAPI) compareCrowdHandler(w http.ResponseWriter, r *http.Request) {
	ids, err := utils.ParseStationIDList(r.URL.Query().Get("station_ids"))
	if err != nil {
		api.fieldErrorResponse(w, r, "station_ids", err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(api.Crowd.CompareStations(ids)))
}

func (api *RestAPI) crowdHeatmapHandler(w http.ResponseWriter, r *http.Request) {
	current := api.Crowd.EstimateCurrent()

	points := make([]heatmapPoint, 0, len(current.Stations))
	for _, sc := range current.Stations {
		station, ok := api.Directory.StationByID(sc.StationID)
		if !ok {
			continue
		}
		points = append(points, heatmapPoint{StationCrowd: sc, Coordinates: station.Coordinates})
	}

	api.sendResponse(w, r, models.NewEntryResponse(crowdHeatmap{
		Timestamp:  current.Timestamp,
		IsPeakHour: current.IsPeakHour,
		Stations:   points,
	}))
}
