package v1

import (
	"errors"
	"github.com/gorilla/mux"
	"github.com/irbridge/controller/dispatch"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"net/http"
)

type commandController struct {
	store      *store.CommandStore
	dispatcher dispatch.Dispatcher
	logger     logwrap.Logger
}

func (c *commandController) listCommands(w http.ResponseWriter, r *http.Request) {
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

	returnCommands := []command{}

	for id, sc := range c.store.Commands(controllerId, deviceId) {
		returnCommands = append(returnCommands, convertCommand(id, sc))
	}

	sortCommands(returnCommands)

	writeJSON(w, returnCommands)
}

type putCommandRequest struct {
	Name string
	Code string
}

func (c *commandController) putCommand(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, cOk := params["identifier"]
	deviceId, dOk := params["deviceIdentifier"]
	commandId, iOk := params["commandIdentifier"]

	if !cOk || !dOk || !iOk {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.Device(controllerId, deviceId); !found {
		http.NotFound(w, r)
		return
	}

	request := putCommandRequest{}

	if !readJSON(w, r, &request) {
		return
	}

	if !c.store.AddCommand(r.Context(), controllerId, deviceId, commandId, request.Name, request.Code) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	commands := c.store.Commands(controllerId, deviceId)

	writeJSON(w, convertCommand(commandId, commands[commandId]))
}

func (c *commandController) deleteCommand(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, cOk := params["identifier"]
	deviceId, dOk := params["deviceIdentifier"]
	commandId, iOk := params["commandIdentifier"]

	if !cOk || !dOk || !iOk {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	if _, found := c.store.CommandCode(controllerId, deviceId, commandId); !found {
		http.NotFound(w, r)
		return
	}

	if !c.store.RemoveCommand(r.Context(), controllerId, deviceId, commandId) {
		http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		return
	}

	http.Error(w, http.StatusText(http.StatusNoContent), http.StatusNoContent)
}

func (c *commandController) sendCommand(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)

	controllerId, cOk := params["identifier"]
	deviceId, dOk := params["deviceIdentifier"]
	commandId, iOk := params["commandIdentifier"]

	if !cOk || !dOk || !iOk {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	controller, found := c.store.Controller(controllerId)
	if !found {
		http.NotFound(w, r)
		return
	}

	code, found := c.store.CommandCode(controllerId, deviceId, commandId)
	if !found {
		http.NotFound(w, r)
		return
	}

	if err := c.dispatcher.Dispatch(r.Context(), controller, code); err != nil {
		c.logger.LogError(r.Context(), "Failed to dispatch command.", logwrap.Datum("controller", controllerId), logwrap.Datum("device", deviceId), logwrap.Datum("command", commandId), logwrap.Err(err))

		switch {
		case errors.Is(err, dispatch.ErrInvalidAddress):
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		case errors.Is(err, dispatch.ErrNoTransceivers):
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		default:
			http.Error(w, http.StatusText(http.StatusBadGateway), http.StatusBadGateway)
		}

		return
	}

	http.Error(w, http.StatusText(http.StatusAccepted), http.StatusAccepted)
}
