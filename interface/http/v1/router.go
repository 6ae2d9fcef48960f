package v1

import (
	"github.com/gorilla/mux"
	"github.com/irbridge/controller/capability"
	"github.com/irbridge/controller/dispatch"
	"github.com/irbridge/controller/interface/http/auth"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"net/http"
)

func ConstructRouter(s *store.CommandStore, dispatcher dispatch.Dispatcher, l logwrap.Logger, ap auth.AuthenticationProvider) http.Handler {
	protected := mux.NewRouter()

	cc := controllerController{
		store: s,
	}

	cmc := commandController{
		store:      s,
		dispatcher: dispatcher,
		logger:     l,
	}

	cpc := capabilityController{
		store:    s,
		resolver: capability.Resolver{Store: s},
	}

	ec := exportController{
		store: s,
	}

	protected.HandleFunc("/controllers", cc.listControllers).Methods("GET")
	protected.HandleFunc("/controllers", cc.createController).Methods("POST")
	protected.HandleFunc("/controllers/{identifier}", cc.getController).Methods("GET")
	protected.HandleFunc("/controllers/{identifier}", cc.deleteController).Methods("DELETE")

	protected.HandleFunc("/controllers/{identifier}/devices", cc.listDevices).Methods("GET")
	protected.HandleFunc("/controllers/{identifier}/devices", cc.createDevice).Methods("POST")
	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}", cc.deleteDevice).Methods("DELETE")

	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}/commands", cmc.listCommands).Methods("GET")
	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}/commands/{commandIdentifier}", cmc.putCommand).Methods("PUT")
	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}/commands/{commandIdentifier}", cmc.deleteCommand).Methods("DELETE")
	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}/commands/{commandIdentifier}/send", cmc.sendCommand).Methods("POST")

	protected.HandleFunc("/controllers/{identifier}/devices/{deviceIdentifier}/capabilities", cpc.getCapabilities).Methods("GET")

	protected.HandleFunc("/export", ec.exportStore).Methods("GET")
	protected.HandleFunc("/import", ec.importStore).Methods("POST")

	apiRoot := mux.NewRouter()
	apiRoot.Handle("/auth/type", authenticationType(ap)).Methods("GET")
	apiRoot.Handle("/auth/check", ap.AuthenticationMiddleware(http.HandlerFunc(authenticationCheck))).Methods("GET")
	apiRoot.PathPrefix("/auth").Handler(ap.AuthenticationRouter())
	apiRoot.PathPrefix("/").Handler(ap.AuthenticationMiddleware(protected))

	return apiRoot
}
