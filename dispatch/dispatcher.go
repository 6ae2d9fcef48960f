// Package dispatch carries resolved infrared codes to the physical
// transceiver over the zigbee mesh. The repository and resolver never touch
// it directly: adapters resolve a command, read its code and hand it here.
package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/zigbee"
)

type DispatchError string

func (e DispatchError) Error() string {
	return string(e)
}

const ErrNoTransceivers = DispatchError("no transceiver accepted the message")
const ErrInvalidAddress = DispatchError("controller has an invalid ieee address")

type Dispatcher interface {
	Dispatch(ctx context.Context, controller store.Controller, code string) error
}

// NodeSender is the slice of a zigbee provider used for dispatch, satisfied
// by *zstack.ZStack.
type NodeSender interface {
	SendApplicationMessageToNode(ctx context.Context, to zigbee.IEEEAddress, message zigbee.ApplicationMessage, requireAck bool) error
}

const SourceEndpoint = zigbee.Endpoint(0x01)

type ZigbeeDispatcher struct {
	Sender NodeSender
	Logger logwrap.Logger
}

func (z ZigbeeDispatcher) Dispatch(ctx context.Context, controller store.Controller, code string) error {
	address, err := ParseIEEE(controller.IEEE)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidAddress, controller.IEEE)
	}

	message := zigbee.ApplicationMessage{
		ClusterID:           controller.ClusterId,
		SourceEndpoint:      SourceEndpoint,
		DestinationEndpoint: controller.EndpointId,
		Data:                []byte(code),
	}

	z.Logger.LogDebug(ctx, "Dispatching code to controller.", logwrap.Datum("ieee", controller.IEEE), logwrap.Datum("cluster", uint16(controller.ClusterId)), logwrap.Datum("codeLength", len(code)))

	return z.Sender.SendApplicationMessageToNode(ctx, address, message, true)
}

// ParseIEEE parses the textual form of an ieee address, with or without
// colon separators, as stored on a controller record.
func ParseIEEE(s string) (zigbee.IEEEAddress, error) {
	stripped := strings.ReplaceAll(s, ":", "")

	if len(stripped) != 16 {
		return 0, fmt.Errorf("ieee address must be 8 octets: %s", s)
	}

	address, err := strconv.ParseUint(stripped, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse ieee address '%s': %w", s, err)
	}

	return zigbee.IEEEAddress(address), nil
}
