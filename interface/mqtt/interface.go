package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/irbridge/controller/dispatch"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"sort"
	"strings"
	"time"
)

type Publisher func(ctx context.Context, topic string, payload []byte) error

type mqttError string

func (m mqttError) Error() string {
	return string(m)
}

const UnknownTopic = mqttError("unknown topic")
const UnknownController = mqttError("unknown controller")
const UnknownDevice = mqttError("unknown device")
const UnknownCommand = mqttError("unknown command")

type Interface struct {
	Publisher Publisher
	stop      chan bool

	Store           *store.CommandStore
	EventSubscriber store.EventSubscriber
	Dispatcher      dispatch.Dispatcher

	Logger logwrap.Logger

	PublishStateOnConnect bool
}

func (i *Interface) IncomingMessage(ctx context.Context, topic string, payload []byte) error {
	topicParts := strings.Split(topic, "/")

	if len(topicParts) > 0 {
		switch topicParts[0] {
		case "controllers":
			return i.IncomingMessageControllers(ctx, topicParts[1:], payload)
		}
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

func (i *Interface) IncomingMessageControllers(ctx context.Context, topic []string, payload []byte) error {
	if len(topic) > 0 {
		controller, ok := i.Store.Controller(topic[0])

		if ok {
			return i.IncomingMessageControllersWith(ctx, topic[1:], payload, topic[0], controller)
		}

		return fmt.Errorf("%w: %s", UnknownController, topic[0])
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

func (i *Interface) IncomingMessageControllersWith(ctx context.Context, topic []string, payload []byte, controllerId string, controller store.Controller) error {
	if len(topic) > 1 && topic[0] == "devices" {
		if _, ok := i.Store.Device(controllerId, topic[1]); ok {
			return i.IncomingMessageDevicesWith(ctx, topic[2:], payload, controllerId, topic[1], controller)
		}

		return fmt.Errorf("%w: %s", UnknownDevice, topic[1])
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

func (i *Interface) IncomingMessageDevicesWith(ctx context.Context, topic []string, payload []byte, controllerId string, deviceId string, controller store.Controller) error {
	if len(topic) >= 3 && topic[0] == "commands" && topic[2] == "send" {
		commandId := topic[1]

		code, ok := i.Store.CommandCode(controllerId, deviceId, commandId)
		if !ok {
			return fmt.Errorf("%w: %s", UnknownCommand, commandId)
		}

		if err := i.Dispatcher.Dispatch(ctx, controller, code); err != nil {
			return fmt.Errorf("unable to dispatch command to controller: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %s", UnknownTopic, topic)
}

func EmptyPublisher(ctx context.Context, topic string, payload []byte) error {
	return nil
}

func (i *Interface) Connected(ctx context.Context, publisher Publisher) error {
	i.Publisher = publisher

	if i.PublishStateOnConnect {
		i.Logger.LogInfo(ctx, "MQTT connected, publishing command lists of all controllers.")
		go i.publishAll()
	}

	return nil
}

func (i *Interface) publishAll() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for controllerId, controller := range i.Store.Controllers() {
		i.publishController(ctx, controllerId, controller)
	}
}

func (i *Interface) publishController(ctx context.Context, controllerId string, controller store.Controller) {
	controllerCtx := i.Logger.AddOptionsToContext(ctx, logwrap.Datum("controller", controllerId))

	for deviceId := range controller.Devices {
		i.publishDeviceCommands(controllerCtx, controllerId, deviceId)
	}
}

type publishedCommand struct {
	Id          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func (i *Interface) publishDeviceCommands(ctx context.Context, controllerId string, deviceId string) {
	commands := i.Store.Commands(controllerId, deviceId)

	published := make([]publishedCommand, 0, len(commands))
	for id, command := range commands {
		published = append(published, publishedCommand{
			Id:          id,
			Name:        command.Name,
			Description: command.Description,
		})
	}

	sort.Slice(published, func(a, b int) bool {
		return published[a].Id < published[b].Id
	})

	payload, err := json.Marshal(published)
	if err != nil {
		i.Logger.LogError(ctx, "Failed to marshal command list.", logwrap.Datum("device", deviceId), logwrap.Err(err))
		return
	}

	topic := fmt.Sprintf("controllers/%s/devices/%s/commands", controllerId, deviceId)

	if err := i.Publisher(ctx, topic, payload); err != nil {
		i.Logger.LogError(ctx, "Failed to publish command list to mqtt.", logwrap.Datum("device", deviceId), logwrap.Err(err))
	}
}

func (i *Interface) Disconnected() {
	i.Publisher = EmptyPublisher
}

func (i *Interface) Start() {
	i.stop = make(chan bool, 1)

	ch := make(chan any, 100)
	i.EventSubscriber.Subscribe(ch)

	go i.handleEvents(ch)
}

func (i *Interface) Stop() {
	if i.stop != nil {
		i.stop <- true
	}
}

func (i *Interface) handleEvents(ch chan any) {
	for {
		select {
		case event := <-ch:
			i.serviceUpdateOnEvent(event)
		case <-i.stop:
			i.EventSubscriber.Unsubscribe(ch)
			return
		}
	}
}

const MaximumServiceUpdateTime = 1 * time.Second

func (i *Interface) serviceUpdateOnEvent(e any) {
	ctx, cancel := context.WithTimeout(context.Background(), MaximumServiceUpdateTime)
	defer cancel()

	switch event := e.(type) {
	case store.DeviceAdded:
		i.publishDeviceCommands(ctx, event.ControllerId, event.DeviceId)
	case store.CommandStored:
		i.publishDeviceCommands(ctx, event.ControllerId, event.DeviceId)
	case store.CommandRemoved:
		i.publishDeviceCommands(ctx, event.ControllerId, event.DeviceId)
	case store.StoreImported:
		go i.publishAll()
	}
}
