package restapi

import (
	"net/http"
	"strconv"

	"metrolive.dev/internal/models"
)

type routeRequest struct {
	SourceStationID      int `json:"source_station_id"`
	DestinationStationID int `json:"destination_station_id"`
}

func (api *RestAPI) routeBetweenHandler(w http.ResponseWriter, r *http.Request) {
	source, destination, fieldErrors := api.stationPairFromPath(r)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	api.sendRoute(w, r, source, destination)
}

func (api *RestAPI) calculateRouteHandler(w http.ResponseWriter, r *http.Request) {
	var req routeRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}

	source, destination, fieldErrors := api.parseStationPair(
		strconv.Itoa(req.SourceStationID),
		strconv.Itoa(req.DestinationStationID))
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	api.sendRoute(w, r, source, destination)
}

func (api *RestAPI) sendRoute(w http.ResponseWriter, r *http.Request, source, destination int) {
	route, err := api.Routes.CalculateRoute(source, destination)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(route))
}
