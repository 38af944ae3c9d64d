package restapi

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// handle registers a REST endpoint behind the rate limiter and gzip.
func (api *RestAPI) handle(router *httprouter.Router, method, path string, h http.HandlerFunc) {
	router.Handler(method, path, api.rateLimiter.Handler(CompressionMiddleware(h)))
}

// SetRoutes registers every API endpoint plus the WebSocket feed on router.
func (api *RestAPI) SetRoutes(router *httprouter.Router) {
	router.NotFound = http.HandlerFunc(api.sendNotFound)

	api.handle(router, http.MethodGet, "/", api.indexHandler)
	api.handle(router, http.MethodGet, "/health", api.healthHandler)

	api.handle(router, http.MethodGet, "/api/stations", api.stationsHandler)
	api.handle(router, http.MethodGet, "/api/stations/search/:query", api.searchStationsHandler)
	api.handle(router, http.MethodGet, "/api/stations/nearby", api.nearbyStationsHandler)
	api.handle(router, http.MethodGet, "/api/station/:id", api.stationHandler)
	api.handle(router, http.MethodGet, "/api/interchanges", api.interchangesHandler)

	api.handle(router, http.MethodGet, "/api/lines", api.linesHandler)
	api.handle(router, http.MethodGet, "/api/lines/:line", api.lineHandler)
	api.handle(router, http.MethodGet, "/api/analytics/line-stats", api.lineStatsHandler)
	api.handle(router, http.MethodGet, "/api/analytics/crowd", api.lineCrowdHandler)
	api.handle(router, http.MethodGet, "/api/analytics/hourly-patterns", api.hourlyPatternsHandler)

	api.handle(router, http.MethodGet, "/api/route/between/:source/:destination", api.routeBetweenHandler)
	api.handle(router, http.MethodPost, "/api/route/calculate", api.calculateRouteHandler)

	api.handle(router, http.MethodGet, "/api/fare/between/:source/:destination", api.fareBetweenHandler)
	api.handle(router, http.MethodPost, "/api/fare/calculate", api.calculateFareHandler)
	api.handle(router, http.MethodGet, "/api/fare/compare/:source/:destination", api.compareFaresHandler)

	api.handle(router, http.MethodGet, "/api/journey/plan/:source/:destination", api.journeyPlanHandler)
	api.handle(router, http.MethodGet, "/api/eta/station/:id", api.stationETAHandler)

	api.handle(router, http.MethodGet, "/api/trains/live", api.liveTrainsHandler)
	api.handle(router, http.MethodGet, "/api/trains/live/:id", api.trainHandler)
	api.handle(router, http.MethodGet, "/api/trains/count", api.trainCountHandler)

	api.handle(router, http.MethodGet, "/api/crowd/current", api.currentCrowdHandler)
	api.handle(router, http.MethodGet, "/api/crowd/station/:id", api.stationCrowdHandler)
	api.handle(router, http.MethodGet, "/api/crowd/compare", api.compareCrowdHandler)
	api.handle(router, http.MethodGet, "/api/crowd/heatmap", api.crowdHeatmapHandler)

	router.HandlerFunc(http.MethodGet, "/ws/trains", api.trainsWebSocketHandler)
}
