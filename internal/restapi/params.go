package restapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"metrolive.dev/internal/utils"
)

const maxBodyBytes = 1 << 20

// parseStationPair validates two raw station ids and checks that both exist.
func (api *RestAPI) parseStationPair(rawSource, rawDestination string) (int, int, map[string][]string) {
	source, destination, fieldErrors := utils.ValidateStationPair(rawSource, rawDestination)
	if len(fieldErrors) == 0 {
		api.checkKnownStation("source", source, fieldErrors)
		api.checkKnownStation("destination", destination, fieldErrors)
	}
	return source, destination, fieldErrors
}

func (api *RestAPI) stationPairFromPath(r *http.Request) (int, int, map[string][]string) {
	return api.parseStationPair(
		utils.ExtractIDFromParams(r, "source"),
		utils.ExtractIDFromParams(r, "destination"))
}

// knownStationFromPath reads a station id path parameter that must exist.
func (api *RestAPI) knownStationFromPath(r *http.Request, name string) (int, map[string][]string) {
	fieldErrors := make(map[string][]string)
	id, err := utils.ValidateStationID(utils.ExtractIDFromParams(r, name))
	if err != nil {
		fieldErrors[name] = append(fieldErrors[name], err.Error())
		return 0, fieldErrors
	}
	api.checkKnownStation(name, id, fieldErrors)
	return id, fieldErrors
}

func (api *RestAPI) checkKnownStation(field string, id int, fieldErrors map[string][]string) {
	if _, ok := api.Directory.StationByID(id); !ok {
		fieldErrors[field] = append(fieldErrors[field], fmt.Sprintf("unknown station %d", id))
	}
}

// decodeJSONBody reads a JSON request body of at most maxBodyBytes into dst.
func decodeJSONBody(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}
