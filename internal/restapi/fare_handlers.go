package restapi

import (
	"net/http"
	"strconv"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

func (api *RestAPI) fareBetweenHandler(w http.ResponseWriter, r *http.Request) {
	source, destination, fieldErrors := api.stationPairFromPath(r)

	params := r.URL.Query()
	isWeekend, fieldErrors := utils.ParseBoolParam(params, "weekend", fieldErrors)
	useSmartCard, fieldErrors := utils.ParseBoolParam(params, "smart_card", fieldErrors)
	date := params.Get("date")
	if err := utils.ValidateDate(date); err != nil {
		fieldErrors["date"] = append(fieldErrors["date"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	api.sendFare(w, r, models.FareRequest{
		SourceID:      source,
		DestinationID: destination,
		IsWeekend:     isWeekend,
		UseSmartCard:  useSmartCard,
		TravelDate:    date,
	})
}

func (api *RestAPI) calculateFareHandler(w http.ResponseWriter, r *http.Request) {
	var req models.FareRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		api.fieldErrorResponse(w, r, "body", err)
		return
	}

	_, _, fieldErrors := api.parseStationPair(strconv.Itoa(req.SourceID), strconv.Itoa(req.DestinationID))
	if err := utils.ValidateDate(req.TravelDate); err != nil {
		fieldErrors["travel_date"] = append(fieldErrors["travel_date"], err.Error())
	}
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	api.sendFare(w, r, req)
}

func (api *RestAPI) compareFaresHandler(w http.ResponseWriter, r *http.Request) {
	source, destination, fieldErrors := api.stationPairFromPath(r)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	comparison, err := api.Fares.CompareFares(source, destination)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(comparison))
}

func (api *RestAPI) sendFare(w http.ResponseWriter, r *http.Request, req models.FareRequest) {
	fare, err := api.Fares.CalculateFare(req)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(fare))
}
