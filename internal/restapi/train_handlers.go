package restapi

import (
	"errors"
	"net/http"
	"time"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const maxTrainIDLength = 32

type liveTrains struct {
	TotalTrains int            `json:"total_trains"`
	Timestamp   time.Time      `json:"timestamp"`
	Trains      []models.Train `json:"trains"`
}

func (api *RestAPI) liveTrainsHandler(w http.ResponseWriter, r *http.Request) {
	var trains []models.Train
	if lineName := utils.SanitizeInput(r.URL.Query().Get("line")); lineName != "" {
		line, ok := api.Directory.Line(lineName)
		if !ok {
			api.sendNotFound(w, r)
			return
		}
		trains = api.Fleet.SnapshotByLine(line.Name)
	} else {
		trains = api.Fleet.Snapshot()
	}
	if trains == nil {
		trains = []models.Train{}
	}

	api.sendResponse(w, r, models.NewEntryResponse(liveTrains{
		TotalTrains: len(trains),
		Timestamp:   api.Clock.Now(),
		Trains:      trains,
	}))
}

func (api *RestAPI) trainHandler(w http.ResponseWriter, r *http.Request) {
	id := utils.SanitizeInput(utils.ExtractIDFromParams(r, "id"))
	switch {
	case id == "":
		api.fieldErrorResponse(w, r, "id", errors.New("id cannot be empty"))
		return
	case len(id) > maxTrainIDLength:
		api.fieldErrorResponse(w, r, "id", errors.New("id too long"))
		return
	}

	train, ok := api.Fleet.Train(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(train))
}

func (api *RestAPI) trainCountHandler(w http.ResponseWriter, r *http.Request) {
	api.sendResponse(w, r, models.NewEntryResponse(api.Fleet.Summary()))
}
