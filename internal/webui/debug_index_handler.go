package webui

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/davecgh/go-spew/spew"
)

//go:embed debug_index.html
var templateFS embed.FS

var debugTemplate = template.Must(template.ParseFS(templateFS, "debug_index.html"))

type debugData struct {
	Title     string
	DataTypes []string
	Pre       string
}

var dataTypes = []string{"stations", "lines", "fares", "trains", "fleet", "crowd", "subscribers", "config"}

func writeDebugData(w http.ResponseWriter, title string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	err := debugTemplate.Execute(w, debugData{
		Title:     title,
		DataTypes: dataTypes,
		Pre:       spew.Sdump(data),
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (webUI *WebUI) debugIndexHandler(w http.ResponseWriter, r *http.Request) {
	var data interface{}
	var title string

	switch r.URL.Query().Get("dataType") {
	case "stations":
		data = webUI.Directory.AllStations()
		title = "Stations"
	case "lines":
		data = webUI.Directory.Lines()
		title = "Lines"
	case "fares":
		data = webUI.Directory.FareStructure()
		title = "Fare Structure"
	case "trains":
		data = webUI.Fleet.Snapshot()
		title = "Simulated Trains"
	case "fleet":
		data = webUI.Fleet.Summary()
		title = "Fleet Summary"
	case "crowd":
		data = webUI.Crowd.EstimateCurrent()
		title = "Current Crowd Estimate"
	case "subscribers":
		data = map[string]interface{}{
			"connected":         webUI.Subscribers.Count(),
			"scheduler_running": webUI.Scheduler.Running(),
		}
		title = "Live Subscribers"
	case "config":
		data = webUI.Config
		title = "Configuration"
	default:
		data = map[string]string{
			"error": "Please choose one of the data types above.",
		}
		title = "Choose a data type"
	}

	writeDebugData(w, title, data)
}
