package v1

import "sort"

func sortDevices(devices []device) {
	sort.Slice(devices, func(i, j int) bool {
		return devices[i].Id < devices[j].Id
	})
}

func sortCommands(commands []command) {
	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Id < commands[j].Id
	})
}

func sortControllers(controllers []controller) {
	sort.Slice(controllers, func(i, j int) bool {
		return controllers[i].Id < controllers[j].Id
	})
}
