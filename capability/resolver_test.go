package capability

import (
	"github.com/irbridge/controller/store"
	"github.com/stretchr/testify/assert"
	"testing"
)

type fixedCommandReader map[string]store.Command

func (f fixedCommandReader) Commands(controllerId string, deviceId string) map[string]store.Command {
	return f
}

func commandsFromIds(ids ...string) fixedCommandReader {
	commands := fixedCommandReader{}

	for _, id := range ids {
		commands[id] = store.Command{Name: id, Code: "0x01"}
	}

	return commands
}

func TestResolver_FindCommand(t *testing.T) {
	t.Run("earlier aliases win regardless of later matches", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("power", "turn_on")}

		id, found := r.FindCommand("c", "d", PowerOn)
		assert.True(t, found)
		assert.Equal(t, "turn_on", id)
	})

	t.Run("falls through to the generic power alias", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("power", "mute")}

		id, found := r.FindCommand("c", "d", PowerOn)
		assert.True(t, found)
		assert.Equal(t, "power", id)

		id, found = r.FindCommand("c", "d", PowerOff)
		assert.True(t, found)
		assert.Equal(t, "power", id)
	})

	t.Run("matches case insensitively and returns the stored id", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("Power_On")}

		id, found := r.FindCommand("c", "d", PowerOn)
		assert.True(t, found)
		assert.Equal(t, "Power_On", id)
	})

	t.Run("reports absence when no alias matches", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("mute")}

		_, found := r.FindCommand("c", "d", PowerOn)
		assert.False(t, found)
	})
}

func TestResolver_FindCommandByDisplayName(t *testing.T) {
	t.Run("matches the stored display name exactly", func(t *testing.T) {
		r := Resolver{Store: fixedCommandReader{
			"input_hdmi1": {Name: "HDMI 1", Code: "0x01"},
		}}

		id, found := r.FindCommandByDisplayName("c", "d", "HDMI 1")
		assert.True(t, found)
		assert.Equal(t, "input_hdmi1", id)

		_, found = r.FindCommandByDisplayName("c", "d", "hdmi 1")
		assert.False(t, found)
	})
}

func TestResolver_InferNumericRange(t *testing.T) {
	t.Run("returns the observed minimum and maximum", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("temp_18", "temp_24", "temp_21")}

		min, max := r.InferNumericRange("c", "d", TemperaturePrefix)
		assert.Equal(t, 18, min)
		assert.Equal(t, 24, max)
	})

	t.Run("skips ids that do not parse as integers", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("temp_18", "temp_high", "temperature_20", "temp_")}

		min, max := r.InferNumericRange("c", "d", TemperaturePrefix)
		assert.Equal(t, 18, min)
		assert.Equal(t, 18, max)
	})

	t.Run("parses negative values", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("temp_-5", "temp_10")}

		min, max := r.InferNumericRange("c", "d", TemperaturePrefix)
		assert.Equal(t, -5, min)
		assert.Equal(t, 10, max)
	})

	t.Run("yields the default range when nothing conforms", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("power_on")}

		min, max := r.InferNumericRange("c", "d", TemperaturePrefix)
		assert.Equal(t, DefaultMinimumTemperature, min)
		assert.Equal(t, DefaultMaximumTemperature, max)
	})
}

func TestResolver_FindExactNumericCommand(t *testing.T) {
	t.Run("finds the exact set point without nearest match fallback", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("temp_18", "temp_20")}

		id, found := r.FindExactNumericCommand("c", "d", TemperaturePrefix, 18)
		assert.True(t, found)
		assert.Equal(t, "temp_18", id)

		_, found = r.FindExactNumericCommand("c", "d", TemperaturePrefix, 19)
		assert.False(t, found)
	})
}

func TestResolver_SelectableCommands(t *testing.T) {
	t.Run("excludes power aliases and sorts the rest", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("power_on", "off", "mute", "input_hdmi1", "POWER")}

		ids := r.SelectableCommands("c", "d")
		assert.Equal(t, []string{"input_hdmi1", "mute"}, ids)
	})

	t.Run("returns empty for a device with only power commands", func(t *testing.T) {
		r := Resolver{Store: commandsFromIds("power_on", "power_off")}

		assert.Empty(t, r.SelectableCommands("c", "d"))
	})
}
