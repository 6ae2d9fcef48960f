package v1

import (
	"bytes"
	"encoding/json"
	"github.com/irbridge/controller/store"
	"github.com/stretchr/testify/assert"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExportController(t *testing.T) {
	t.Run("round trips the store through export and import", func(t *testing.T) {
		source := populatedTestStore(t)
		ec := exportController{store: source}

		req := httptest.NewRequest("GET", "/export", nil)
		rr := httptest.NewRecorder()

		ec.exportStore(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		snapshot := store.Snapshot{}
		assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snapshot))
		assert.Equal(t, store.SnapshotVersion, snapshot.Version)

		destination := newTestStore(t)
		importEc := exportController{store: destination}

		importReq := httptest.NewRequest("POST", "/import", bytes.NewReader(rr.Body.Bytes()))
		importRr := httptest.NewRecorder()

		importEc.importStore(importRr, importReq)

		assert.Equal(t, http.StatusNoContent, importRr.Code)

		code, found := destination.CommandCode("lounge", "tv", "power_on")
		assert.True(t, found)
		assert.Equal(t, "0x01", code)
	})

	t.Run("rejects a snapshot without controllers", func(t *testing.T) {
		ec := exportController{store: newTestStore(t)}

		req := httptest.NewRequest("POST", "/import", strings.NewReader(`{"version":"1"}`))
		rr := httptest.NewRecorder()

		ec.importStore(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		ec := exportController{store: newTestStore(t)}

		req := httptest.NewRequest("POST", "/import", strings.NewReader(`{not json`))
		rr := httptest.NewRecorder()

		ec.importStore(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}
