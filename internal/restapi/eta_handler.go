package restapi

import (
	"net/http"

	"metrolive.dev/internal/models"
)

func (api *RestAPI) stationETAHandler(w http.ResponseWriter, r *http.Request) {
	id, fieldErrors := api.knownStationFromPath(r, "id")
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	eta, err := api.ETA.CalculateETA(id)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(eta))
}
