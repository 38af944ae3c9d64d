package restapi

import (
	"net/http"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
)

const defaultAnalyticsLine = "Yellow"

// analyticsLine resolves ?line=, falling back to the default line or, when
// the directory has no such line, to its first line.
func (api *RestAPI) analyticsLine(r *http.Request) (models.Line, bool) {
	name := utils.SanitizeInput(r.URL.Query().Get("line"))
	if name != "" {
		return api.Directory.Line(name)
	}

	if line, ok := api.Directory.Line(defaultAnalyticsLine); ok {
		return line, true
	}
	lines := api.Directory.Lines()
	if len(lines) == 0 {
		return models.Line{}, false
	}
	return lines[0], true
}

func (api *RestAPI) lineCrowdHandler(w http.ResponseWriter, r *http.Request) {
	line, ok := api.analyticsLine(r)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(api.Crowd.LineCrowd(line)))
}

func (api *RestAPI) hourlyPatternsHandler(w http.ResponseWriter, r *http.Request) {
	line, ok := api.analyticsLine(r)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(api.Crowd.HourlyPatterns(line)))
}
