// Package capability resolves abstract device intents, such as "turn on" or
// "set temperature to 21", onto concrete command ids held in the command
// store. It keeps no state of its own: every query re-reads the store, so
// answers always reflect the current command set.
package capability

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/irbridge/controller/store"
)

// CommandReader is the read-only slice of the command store the resolver
// consumes.
type CommandReader interface {
	Commands(controllerId string, deviceId string) map[string]store.Command
}

type Resolver struct {
	Store CommandReader
}

// FindCommand returns the stored command id matching the first alias in
// candidates, compared case-insensitively. Candidate order is the only
// tie-break: earlier aliases win regardless of how many later ones match.
func (r Resolver) FindCommand(controllerId string, deviceId string, candidates []string) (string, bool) {
	commands := r.Store.Commands(controllerId, deviceId)

	available := make(map[string]string, len(commands))
	for id := range commands {
		available[strings.ToLower(id)] = id
	}

	for _, candidate := range candidates {
		if id, found := available[strings.ToLower(candidate)]; found {
			return id, true
		}
	}

	return "", false
}

// FindCommandByDisplayName matches against the human label stored with the
// command, exactly. Used where the caller exposes display names rather than
// ids, such as a selectable effect list.
func (r Resolver) FindCommandByDisplayName(controllerId string, deviceId string, displayName string) (string, bool) {
	for id, command := range r.Store.Commands(controllerId, deviceId) {
		if command.Name == displayName {
			return id, true
		}
	}

	return "", false
}

// InferNumericRange scans command ids of the form <prefix>_<integer> and
// returns the observed minimum and maximum. Ids that do not parse are
// skipped. A device with no conforming commands yields the default
// temperature range, so callers remain usable before any set point has been
// learned.
func (r Resolver) InferNumericRange(controllerId string, deviceId string, prefix string) (int, int) {
	var values []int

	for id := range r.Store.Commands(controllerId, deviceId) {
		if value, ok := parseNumericId(id, prefix); ok {
			values = append(values, value)
		}
	}

	if len(values) == 0 {
		return DefaultMinimumTemperature, DefaultMaximumTemperature
	}

	sort.Ints(values)

	return values[0], values[len(values)-1]
}

// FindExactNumericCommand looks for the command id exactly equal to
// <prefix>_<value>. There is no nearest-match fallback: an unsupported value
// is reported as absent and the caller decides whether to warn or reject.
func (r Resolver) FindExactNumericCommand(controllerId string, deviceId string, prefix string, value int) (string, bool) {
	wanted := fmt.Sprintf("%s_%d", prefix, value)

	for id := range r.Store.Commands(controllerId, deviceId) {
		if strings.EqualFold(id, wanted) {
			return id, true
		}
	}

	return "", false
}

// SelectableCommands lists the device's command ids excluding power on/off
// aliases, which are reserved for the dedicated turn-on and turn-off
// operations. Results are ordered for stable presentation.
func (r Resolver) SelectableCommands(controllerId string, deviceId string) []string {
	commands := r.Store.Commands(controllerId, deviceId)

	ids := make([]string, 0, len(commands))
	for id := range commands {
		if _, isReserved := reserved[strings.ToLower(id)]; isReserved {
			continue
		}

		ids = append(ids, id)
	}

	sort.Strings(ids)

	return ids
}

func parseNumericId(id string, prefix string) (int, bool) {
	lowered := strings.ToLower(id)

	rest, found := strings.CutPrefix(lowered, strings.ToLower(prefix)+"_")
	if !found {
		return 0, false
	}

	value, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}

	return value, true
}
