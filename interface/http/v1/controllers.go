package v1

import (
	"encoding/json"
	"github.com/gorilla/mux"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/zigbee"
	"io"
	"net/http"
)

type controllerController struct {
	store *store.CommandStore
}

func (c *controllerController) listControllers(w http.ResponseWriter, r *http.Request) {
	includes, _ := r.URL.Query()["include"]
	devices := includesString(includes, "devices")

	returnControllers := []controller{}

	for id, sc := range c.store.Controllers() {
		returnControllers = append(returnControllers, convertController(id, sc, devices))
	}

	sortControllers(returnControllers)

	writeJSON(w, returnControllers)
}

func (c *controllerController) getController(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sc, found := c.store.Controller(id)
	if !found {
		http.NotFound(w, r)
		return
	}

	writeJSON(w, convertController(id, sc, true))
}

type createControllerRequest struct {
	Name       string
	IEEE       string
	RoomName   string
	EndpointId uint8
	ClusterId  uint16
}

func (c *controllerController) createController(w http.ResponseWriter, r *http.Request) {
	request := createControllerRequest{}

	if !readJSON(w, r, &request) {
		return
	}

	endpoint := store.DefaultEndpointId
	if request.EndpointId != 0 {
		endpoint = zigbee.Endpoint(request.EndpointId)
	}

	cluster := store.DefaultClusterId
	if request.ClusterId != 0 {
		cluster = zigbee.ClusterID(request.ClusterId)
	}

	id := store.IdFromName(request.Name)

	if !c.store.AddController(r.Context(), id, request.Name, request.IEEE, request.RoomName, endpoint, cluster) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sc, _ := c.store.Controller(id)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, convertController(id, sc, false))
}

func (c *controllerController) deleteController(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	id, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.Controller(id); !found {
		http.NotFound(w, r)
		return
	}

	if !c.store.RemoveController(r.Context(), id) {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	http.Error(w, http.StatusText(http.StatusNoContent), http.StatusNoContent)
}

type createDeviceRequest struct {
	Name string
	Type string
}

func (c *controllerController) createDevice(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.Controller(controllerId); !found {
		http.NotFound(w, r)
		return
	}

	request := createDeviceRequest{}

	if !readJSON(w, r, &request) {
		return
	}

	deviceId := store.IdFromName(request.Name)

	if !c.store.AddDevice(r.Context(), controllerId, deviceId, request.Name, request.Type) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	sd, _ := c.store.Device(controllerId, deviceId)

	w.WriteHeader(http.StatusCreated)
	writeJSON(w, convertDevice(deviceId, sd, false))
}

func (c *controllerController) deleteDevice(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, cOk := params["identifier"]
	deviceId, dOk := params["deviceIdentifier"]

	if !cOk || !dOk {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.Device(controllerId, deviceId); !found {
		http.NotFound(w, r)
		return
	}

	if !c.store.RemoveDevice(r.Context(), controllerId, deviceId) {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	http.Error(w, http.StatusText(http.StatusNoContent), http.StatusNoContent)
}

func (c *controllerController) listDevices(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, ok := params["identifier"]
	if !ok {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.Controller(controllerId); !found {
		http.NotFound(w, r)
		return
	}

	returnDevices := []device{}

	for id, sd := range c.store.Devices(controllerId) {
		returnDevices = append(returnDevices, convertDevice(id, sd, true))
	}

	sortDevices(returnDevices)

	writeJSON(w, returnDevices)
}

func includesString(haystack []string, needle string) bool {
	for _, straw := range haystack {
		if needle == straw {
			return true
		}
	}

	return false
}

func writeJSON(w http.ResponseWriter, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Add("content-type", "application/json")
	w.Write(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	data, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return false
	}

	if err := json.Unmarshal(data, v); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return false
	}

	return true
}
