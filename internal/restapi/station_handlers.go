package restapi

import (
	"errors"
	"math"
	"net/http"
	"sort"

	"metrolive.dev/internal/models"
	"metrolive.dev/internal/utils"
	"metrolive.dev/stationdb"
)

const (
	defaultNearbyRadiusMeters = 1000.0
	maxSearchResults          = 50
	metersPerDegreeLat        = 111320.0
)

type nearbyStation struct {
	models.Station
	DistanceMeters float64 `json:"distance_meters"`
}

func (api *RestAPI) stationsHandler(w http.ResponseWriter, r *http.Request) {
	lineName := utils.SanitizeInput(r.URL.Query().Get("line"))
	if lineName == "" {
		api.sendResponse(w, r, models.NewListResponse(api.Directory.AllStations()))
		return
	}

	line, ok := api.Directory.Line(lineName)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewListResponse(api.Directory.StationsByLine(line.Name)))
}

func (api *RestAPI) stationHandler(w http.ResponseWriter, r *http.Request) {
	id, err := utils.ValidateStationID(utils.ExtractIDFromParams(r, "id"))
	if err != nil {
		api.fieldErrorResponse(w, r, "id", err)
		return
	}

	station, ok := api.Directory.StationByID(id)
	if !ok {
		api.sendNotFound(w, r)
		return
	}
	api.sendResponse(w, r, models.NewEntryResponse(station))
}

func (api *RestAPI) searchStationsHandler(w http.ResponseWriter, r *http.Request) {
	query, err := utils.ValidateAndSanitizeQuery(utils.ExtractIDFromParams(r, "query"))
	if err != nil {
		api.fieldErrorResponse(w, r, "query", err)
		return
	}

	rows, err := api.StationIndex.SearchByName(r.Context(), query, maxSearchResults)
	if errors.Is(err, stationdb.ErrEmptyQuery) {
		api.fieldErrorResponse(w, r, "query", err)
		return
	}
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	api.sendResponse(w, r, models.NewListResponse(api.stationsForRows(rows)))
}

func (api *RestAPI) nearbyStationsHandler(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	fieldErrors := make(map[string][]string)
	for _, key := range []string{"lat", "lon"} {
		if params.Get(key) == "" {
			fieldErrors[key] = append(fieldErrors[key], key+" is required")
		}
	}

	lat, fieldErrors := utils.ParseFloatParam(params, "lat", fieldErrors)
	lon, fieldErrors := utils.ParseFloatParam(params, "lon", fieldErrors)
	radius, fieldErrors := utils.ParseFloatParam(params, "radius", fieldErrors)
	if len(fieldErrors) > 0 {
		api.validationErrorResponse(w, r, fieldErrors)
		return
	}
	if errs := utils.ValidateLocationParams(lat, lon, radius); len(errs) > 0 {
		api.validationErrorResponse(w, r, errs)
		return
	}
	if radius == 0 {
		radius = defaultNearbyRadiusMeters
	}

	rows, err := api.StationIndex.StationsWithinBounds(r.Context(), boundsAround(lat, lon, radius))
	if err != nil {
		api.serverErrorResponse(w, r, err)
		return
	}

	nearby := make([]nearbyStation, 0, len(rows))
	for _, s := range api.stationsForRows(rows) {
		d := utils.Haversine(lat, lon, s.Coordinates.Latitude, s.Coordinates.Longitude)
		if d <= radius {
			nearby = append(nearby, nearbyStation{Station: s, DistanceMeters: utils.RoundTo(d, 1)})
		}
	}
	sort.SliceStable(nearby, func(i, j int) bool { return nearby[i].DistanceMeters < nearby[j].DistanceMeters })

	api.sendResponse(w, r, models.NewListResponse(nearby))
}

func (api *RestAPI) interchangesHandler(w http.ResponseWriter, r *http.Request) {
	stations := api.Directory.InterchangeStations()
	if stations == nil {
		stations = []models.Station{}
	}
	api.sendResponse(w, r, models.NewListResponse(stations))
}

// stationsForRows resolves index rows back to full directory stations,
// keeping the index order.
func (api *RestAPI) stationsForRows(rows []stationdb.Station) []models.Station {
	out := make([]models.Station, 0, len(rows))
	for _, row := range rows {
		if s, ok := api.Directory.StationByID(row.ID); ok {
			out = append(out, s)
		}
	}
	return out
}

// boundsAround is the lat/lon box enclosing a circle of radius meters.
func boundsAround(lat, lon, radius float64) stationdb.Bounds {
	latDelta := radius / metersPerDegreeLat
	lonDelta := radius / (metersPerDegreeLat * math.Max(math.Cos(lat*math.Pi/180), 0.01))
	return stationdb.Bounds{
		MinLat: lat - latDelta,
		MaxLat: lat + latDelta,
		MinLon: lon - lonDelta,
		MaxLon: lon + lonDelta,
	}
}
