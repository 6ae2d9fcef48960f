package v1

import (
	"github.com/irbridge/controller/store"
	"net/http"
)

type exportController struct {
	store *store.CommandStore
}

func (c *exportController) exportStore(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, c.store.Export())
}

func (c *exportController) importStore(w http.ResponseWriter, r *http.Request) {
	snapshot := store.Snapshot{}

	if !readJSON(w, r, &snapshot) {
		return
	}

	if !c.store.Import(r.Context(), snapshot) {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	http.Error(w, http.StatusText(http.StatusNoContent), http.StatusNoContent)
}
