package store

import (
	"context"
	"encoding/json"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"os"
	"path/filepath"
	"testing"
)

func TestCommandStore_migrateLegacy(t *testing.T) {
	ctx := context.Background()

	t.Run("migrates a legacy flat file under a synthetic controller", func(t *testing.T) {
		dir := t.TempDir()
		legacyFile := filepath.Join(dir, "legacy.json")

		legacy := map[string]map[string]Command{
			"living room tv": {
				"power_on": {Name: "Power On", Code: "0x01"},
				"mute":     {Name: "Mute", Code: "0x02"},
			},
			"bedroom_ac": {
				"temp_21": {Name: "21 Degrees", Code: "0x03"},
			},
		}

		data, err := json.Marshal(legacy)
		assert.NoError(t, err)
		assert.NoError(t, os.WriteFile(legacyFile, data, 0600))

		s := New(filepath.Join(dir, "commands.json"), legacyFile, logwrap.New(discard.Discard()), NullEventPublisher)
		s.Load(ctx)

		controller, found := s.Controller(LegacyControllerId)
		assert.True(t, found)
		assert.Equal(t, LegacyControllerName, controller.Name)
		assert.Equal(t, DefaultEndpointId, controller.EndpointId)
		assert.Equal(t, DefaultClusterId, controller.ClusterId)

		device, found := s.Device(LegacyControllerId, "living_room_tv")
		assert.True(t, found)
		assert.Equal(t, "Living Room Tv", device.Name)

		code, found := s.CommandCode(LegacyControllerId, "living_room_tv", "power_on")
		assert.True(t, found)
		assert.Equal(t, "0x01", code)

		code, found = s.CommandCode(LegacyControllerId, "bedroom_ac", "temp_21")
		assert.True(t, found)
		assert.Equal(t, "0x03", code)
	})

	t.Run("renames the legacy file to a backup after migration", func(t *testing.T) {
		dir := t.TempDir()
		legacyFile := filepath.Join(dir, "legacy.json")

		assert.NoError(t, os.WriteFile(legacyFile, []byte(`{"tv":{"on":{"name":"On","code":"0x01"}}}`), 0600))

		s := New(filepath.Join(dir, "commands.json"), legacyFile, logwrap.New(discard.Discard()), NullEventPublisher)
		s.Load(ctx)

		_, err := os.Stat(legacyFile)
		assert.True(t, os.IsNotExist(err))

		_, err = os.Stat(legacyFile + LegacyBackupSuffix)
		assert.NoError(t, err)
	})

	t.Run("does not migrate when the store already has controllers", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "commands.json")
		legacyFile := filepath.Join(dir, "legacy.json")

		assert.NoError(t, os.WriteFile(legacyFile, []byte(`{"tv":{"on":{"name":"On","code":"0x01"}}}`), 0600))

		s := New(file, legacyFile, logwrap.New(discard.Discard()), NullEventPublisher)
		s.Load(ctx)

		_, found := s.Controller(LegacyControllerId)
		assert.True(t, found)

		// Second load sees a populated store, the backup must not be
		// re-imported even if a new legacy file appears.
		assert.NoError(t, os.WriteFile(legacyFile, []byte(`{"radio":{"on":{"name":"On","code":"0x02"}}}`), 0600))

		reloaded := New(file, legacyFile, logwrap.New(discard.Discard()), NullEventPublisher)
		reloaded.Load(ctx)

		_, found = reloaded.Device(LegacyControllerId, "radio")
		assert.False(t, found)
	})

	t.Run("swallows a malformed legacy file and starts empty", func(t *testing.T) {
		dir := t.TempDir()
		legacyFile := filepath.Join(dir, "legacy.json")

		assert.NoError(t, os.WriteFile(legacyFile, []byte(`[not a map]`), 0600))

		s := New(filepath.Join(dir, "commands.json"), legacyFile, logwrap.New(discard.Discard()), NullEventPublisher)
		s.Load(ctx)

		assert.Empty(t, s.Controllers())

		// The unparseable file stays in place for manual inspection.
		_, err := os.Stat(legacyFile)
		assert.NoError(t, err)
	})

	t.Run("skips migration when no legacy location is configured", func(t *testing.T) {
		dir := t.TempDir()

		s := New(filepath.Join(dir, "commands.json"), "", logwrap.New(discard.Discard()), NullEventPublisher)
		s.Load(ctx)

		assert.Empty(t, s.Controllers())
	})
}

func TestTitleFromId(t *testing.T) {
	t.Run("capitalises words split on separators", func(t *testing.T) {
		assert.Equal(t, "Living Room Tv", titleFromId("living_room_tv"))
		assert.Equal(t, "Bedroom Ac", titleFromId("bedroom-ac"))
		assert.Equal(t, "Tv", titleFromId("tv"))
	})
}
