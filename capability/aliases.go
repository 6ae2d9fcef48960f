package capability

// Alias candidate lists for abstract capabilities. Each list is ordered by
// priority: resolution returns the first alias that matches a stored command
// id, so the preferred naming convention leads.
//
// Power aliases are additionally reserved: commands matching them are never
// offered as selectable sources or effects.

var PowerOn = []string{"power_on", "turn_on", "on", "power"}
var PowerOff = []string{"power_off", "turn_off", "off", "power"}

var VolumeUp = []string{"volume_up", "vol_up", "vol+"}
var VolumeDown = []string{"volume_down", "vol_down", "vol-"}
var Mute = []string{"mute"}

var Play = []string{"play"}
var Pause = []string{"pause"}
var Stop = []string{"stop"}

var ChannelUp = []string{"channel_up", "ch_up", "ch+"}
var ChannelDown = []string{"channel_down", "ch_down", "ch-"}
var NextTrack = []string{"next", "next_track"}
var PreviousTrack = []string{"previous", "prev_track"}

var ModeCool = []string{"mode_cool", "cool", "cooling"}
var ModeHeat = []string{"mode_heat", "heat", "heating"}
var ModeAuto = []string{"mode_auto", "auto"}
var ModeFan = []string{"mode_fan", "fan", "fan_only"}
var ModeDry = []string{"mode_dry", "dry"}

// FanMode returns the candidate list for a named fan speed.
func FanMode(mode string) []string {
	return []string{"fan_" + mode, "fan_speed_" + mode, "fan_speed"}
}

// TemperaturePrefix is the naming convention for temperature set points:
// commands named <prefix>_<integer> implicitly define the supported range.
const TemperaturePrefix = "temp"

const DefaultMinimumTemperature = 16
const DefaultMaximumTemperature = 30

// reserved is the set of command ids excluded from selectable capability
// lists, lower cased.
var reserved = map[string]struct{}{}

func init() {
	for _, alias := range append(append([]string{}, PowerOn...), PowerOff...) {
		reserved[alias] = struct{}{}
	}
}
