package restapi

import (
	"net/http"
	"time"

	"metrolive.dev/internal/models"
)

const serviceName = "metrolive"

// ServiceVersion is reported by the index and health endpoints.
const ServiceVersion = "1.0.0"

type serviceInfo struct {
	Name          string    `json:"name"`
	Version       string    `json:"version"`
	Environment   string    `json:"environment"`
	Lines         []string  `json:"lines"`
	TotalStations int       `json:"total_stations"`
	StartedAt     time.Time `json:"started_at"`
}

type healthStatus struct {
	Status           string    `json:"status"`
	ActiveTrains     int       `json:"active_trains"`
	WebSocketClients int       `json:"websocket_clients"`
	SchedulerRunning bool      `json:"scheduler_running"`
	UptimeSeconds    int64     `json:"uptime_seconds"`
	Timestamp        time.Time `json:"timestamp"`
}

func (api *RestAPI) indexHandler(w http.ResponseWriter, r *http.Request) {
	lines := api.Directory.Lines()
	names := make([]string, 0, len(lines))
	for _, l := range lines {
		names = append(names, l.Name)
	}

	api.sendResponse(w, r, models.NewEntryResponse(serviceInfo{
		Name:          serviceName,
		Version:       ServiceVersion,
		Environment:   api.Config.Env.String(),
		Lines:         names,
		TotalStations: len(api.Directory.AllStations()),
		StartedAt:     api.StartedAt,
	}))
}

func (api *RestAPI) healthHandler(w http.ResponseWriter, r *http.Request) {
	now := api.Clock.Now()
	api.sendResponse(w, r, models.NewEntryResponse(healthStatus{
		Status:           "healthy",
		ActiveTrains:     api.Fleet.Count(),
		WebSocketClients: api.Subscribers.Count(),
		SchedulerRunning: api.Scheduler.Running(),
		UptimeSeconds:    int64(now.Sub(api.StartedAt).Seconds()),
		Timestamp:        now,
	}))
}
