package restapi

import (
	"net/http"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

func (api *RestAPI) journeyPlanHandler(w http.ResponseWriter, r *http.Request) {
	source, destination, fieldErrors := api.stationPairFromPath(r)

	params := r.URL.Query()
	isWeekend, fieldErrors := utils.ParseBoolParam(params, "weekend", fieldErrors)
	useSmartCard, fieldErrors := utils.ParseBoolParam(params, "smart_card", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}

	plan, err := api.Journeys.PlanJourney(source, destination, isWeekend, useSmartCard)
	if err != nil {
		api.errorResponse(w, r, err)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(plan))
}
