package v1

import (
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/zigbee"
)

type controller struct {
	Id         string           `json:"id"`
	IEEE       string           `json:"ieee"`
	Name       string           `json:"name"`
	RoomName   string           `json:"room_name"`
	EndpointId zigbee.Endpoint  `json:"endpoint_id"`
	ClusterId  zigbee.ClusterID `json:"cluster_id"`
	Devices    []device         `json:"devices,omitempty"`
}

type device struct {
	Id       string    `json:"id"`
	Name     string    `json:"name"`
	Type     string    `json:"type,omitempty"`
	Commands []command `json:"commands,omitempty"`
}

type command struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type capabilities struct {
	PowerOn    string    `json:"power_on,omitempty"`
	PowerOff   string    `json:"power_off,omitempty"`
	Selectable []command `json:"selectable"`

	Temperature temperatureRange `json:"temperature"`
}

type temperatureRange struct {
	Minimum int `json:"min"`
	Maximum int `json:"max"`
}

func convertController(id string, c store.Controller, includeDevices bool) controller {
	result := controller{
		Id:         id,
		IEEE:       c.IEEE,
		Name:       c.Name,
		RoomName:   c.RoomName,
		EndpointId: c.EndpointId,
		ClusterId:  c.ClusterId,
	}

	if includeDevices {
		for deviceId, d := range c.Devices {
			result.Devices = append(result.Devices, convertDevice(deviceId, d, true))
		}

		sortDevices(result.Devices)
	}

	return result
}

func convertDevice(id string, d store.Device, includeCommands bool) device {
	result := device{
		Id:   id,
		Name: d.Name,
		Type: d.Type,
	}

	if includeCommands {
		for commandId, c := range d.Commands {
			result.Commands = append(result.Commands, convertCommand(commandId, c))
		}

		sortCommands(result.Commands)
	}

	return result
}

func convertCommand(id string, c store.Command) command {
	return command{
		Id:          id,
		Name:        c.Name,
		Description: c.Description,
	}
}
