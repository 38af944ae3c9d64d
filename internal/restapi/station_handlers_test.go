package restapi

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/twpayne/go-polyline"
	"github.com/stretchr/testify/require"
)

func TestIndexAndHealth(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := entryOf(t, model)
	assert.Equal(t, "metrolive", entry["name"])
	assert.Equal(t, "test", entry["environment"])
	assert.Equal(t, []interface{}{"Orange", "Yellow"}, entry["lines"])
	assert.Equal(t, 42.0, entry["total_stations"])

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/health")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry = entryOf(t, model)
	assert.Equal(t, "healthy", entry["status"])
	assert.Equal(t, 12.0, entry["active_trains"])
	assert.Equal(t, 0.0, entry["websocket_clients"])
	assert.Equal(t, false, entry["scheduler_running"])
}

func TestStationsHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("all stations", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, listOf(t, model), 42)
	})

	t.Run("filtered by line, case-insensitive", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations?line=yellow")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := listOf(t, model)
		require.Len(t, list, 37)
		for _, s := range list {
			assert.Equal(t, "Yellow", s.(map[string]interface{})["line"])
		}
	})

	t.Run("unknown line", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations?line=Purple")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, http.StatusNotFound, model.Code)
	})
}

func TestStationHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/station/16")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := entryOf(t, model)
	assert.Equal(t, "Rajiv Chowk", entry["name"])
	assert.Equal(t, true, entry["is_interchange"])

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/station/999")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "resource not found", model.Text)

	fieldErrors := retrieveFieldErrors(t, api, "/api/station/abc")
	assert.Contains(t, fieldErrors, "id")
}

func TestSearchStationsHandler(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations/search/CHOWK")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{13, 16, 17, 36}, idsOf(t, listOf(t, model), "id"))

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/stations/search/new%20delhi")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{38, 15}, idsOf(t, listOf(t, model), "id"))

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/stations/search/atlantis")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, listOf(t, model))

	fieldErrors := retrieveFieldErrors(t, api, "/api/stations/search/%3Cscript%3E")
	assert.Contains(t, fieldErrors, "query")
}

func TestNearbyStationsHandler(t *testing.T) {
	api := createTestApi(t)

	t.Run("sorted by distance within the radius", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations/nearby?lat=28.6328&lon=77.2197&radius=1500")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		list := listOf(t, model)
		assert.Equal(t, []int{16, 39, 15, 38, 17}, idsOf(t, list, "id"))
		assert.Equal(t, 0.0, list[0].(map[string]interface{})["distance_meters"])
		assert.InDelta(t, 944.8, list[1].(map[string]interface{})["distance_meters"], 1)
	})

	t.Run("default radius", func(t *testing.T) {
		resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/stations/nearby?lat=28.6328&lon=77.2197")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, []int{16, 39}, idsOf(t, listOf(t, model), "id"))
	})

	t.Run("validation", func(t *testing.T) {
		fieldErrors := retrieveFieldErrors(t, api, "/api/stations/nearby?lon=77.2")
		assert.Contains(t, fieldErrors, "lat")

		fieldErrors = retrieveFieldErrors(t, api, "/api/stations/nearby?lat=95&lon=77.2")
		assert.Contains(t, fieldErrors, "lat")

		fieldErrors = retrieveFieldErrors(t, api, "/api/stations/nearby?lat=28.6&lon=77.2&radius=50000")
		assert.Contains(t, fieldErrors, "radius")

		fieldErrors = retrieveFieldErrors(t, api, "/api/stations/nearby?lat=north&lon=77.2")
		assert.Contains(t, fieldErrors, "lat")
	})
}

func TestInterchangesHandler(t *testing.T) {
	_, resp, model := serveAndRetrieveEndpoint(t, "/api/interchanges")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, []int{6, 12, 15, 16, 18, 22, 25, 34, 38}, idsOf(t, listOf(t, model), "id"))
}

func TestLineHandlers(t *testing.T) {
	api := createTestApi(t)

	resp, model := serveApiAndRetrieveEndpoint(t, api, "/api/lines")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, listOf(t, model), 2)

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/lines/yellow")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	entry := entryOf(t, model)
	assert.Equal(t, "Yellow", entry["line"].(map[string]interface{})["name"])
	assert.Len(t, entry["stations"], 37)
	stats := entry["stats"].(map[string]interface{})
	assert.Equal(t, 37.0, stats["total_stations"])
	assert.Equal(t, float64(len(api.Fleet.SnapshotByLine("Yellow"))), stats["active_trains"])
	shape := entry["shape"].(map[string]interface{})
	assert.Equal(t, 37.0, shape["length"])
	assert.NotEmpty(t, shape["points"])

	resp, _ = serveApiAndRetrieveEndpoint(t, api, "/api/lines/Purple")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, model = serveApiAndRetrieveEndpoint(t, api, "/api/analytics/line-stats")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := listOf(t, model)
	require.Len(t, list, 2)
	total := 0.0
	for _, s := range list {
		total += s.(map[string]interface{})["active_trains"].(float64)
	}
	assert.Equal(t, 12.0, total)
}

func TestStationPolyline(t *testing.T) {
	api := createTestApi(t)
	stations := api.Directory.StationsByLine("Orange")

	shape := stationPolyline(stations)
	require.Equal(t, len(stations), shape.Length)

	coords, rest, err := polyline.DecodeCoords([]byte(shape.Points))
	require.NoError(t, err)
	assert.Empty(t, rest)
	require.Len(t, coords, len(stations))
	assert.InDelta(t, stations[0].Coordinates.Latitude, coords[0][0], 1e-5)
	assert.InDelta(t, stations[0].Coordinates.Longitude, coords[0][1], 1e-5)

	assert.Equal(t, 0, stationPolyline(nil).Length)
}
