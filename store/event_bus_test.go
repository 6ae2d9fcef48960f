package store

import (
	"github.com/stretchr/testify/assert"
	"testing"
	"time"
)

func TestEventBus(t *testing.T) {
	t.Run("delivers published events to subscribers", func(t *testing.T) {
		bus := NewEventBus()

		ch := make(chan any, 1)
		bus.Subscribe(ch)

		bus.Publish(CommandStored{ControllerId: "lounge", DeviceId: "tv", CommandId: "power_on"})

		select {
		case e := <-ch:
			assert.Equal(t, CommandStored{ControllerId: "lounge", DeviceId: "tv", CommandId: "power_on"}, e)
		case <-time.After(time.Second):
			t.Fatal("timed out waiting for event")
		}
	})

	t.Run("does not deliver events after unsubscribe", func(t *testing.T) {
		bus := NewEventBus()

		ch := make(chan any, 1)
		bus.Subscribe(ch)
		bus.Unsubscribe(ch)

		bus.Publish(ControllerAdded{Id: "lounge"})

		select {
		case <-ch:
			t.Fatal("received event after unsubscribe")
		default:
		}
	})

	t.Run("drops events for a subscriber with a full channel", func(t *testing.T) {
		bus := NewEventBus()

		ch := make(chan any, 1)
		bus.Subscribe(ch)

		bus.Publish(ControllerAdded{Id: "one"})
		bus.Publish(ControllerAdded{Id: "two"})

		assert.Equal(t, ControllerAdded{Id: "one"}, <-ch)

		select {
		case <-ch:
			t.Fatal("second event should have been dropped")
		default:
		}
	})
}
