package v1

import (
	"github.com/gorilla/mux"
	"github.com/irbridge/controller/capability"
	"github.com/irbridge/controller/store"
	"net/http"
)

type capabilityController struct {
	store    *store.CommandStore
	resolver capability.Resolver
}

func (c *capabilityController) getCapabilities(w http.ResponseWriter, r *http.Request) {
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

	result := capabilities{
		Selectable: []command{},
	}

	if id, found := c.resolver.FindCommand(controllerId, deviceId, capability.PowerOn); found {
		result.PowerOn = id
	}

	if id, found := c.resolver.FindCommand(controllerId, deviceId, capability.PowerOff); found {
		result.PowerOff = id
	}

	commands := c.store.Commands(controllerId, deviceId)

	for _, id := range c.resolver.SelectableCommands(controllerId, deviceId) {
		result.Selectable = append(result.Selectable, convertCommand(id, commands[id]))
	}

	min, max := c.resolver.InferNumericRange(controllerId, deviceId, capability.TemperaturePrefix)
	result.Temperature = temperatureRange{Minimum: min, Maximum: max}

	writeJSON(w, result)
}
