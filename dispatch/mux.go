package dispatch

import (
	"context"
	"fmt"
	"sync"

	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
)

var _ Dispatcher = (*Mux)(nil)

// Mux fans a dispatch out across the started transceivers. A controller is
// reachable through exactly one mesh, so the first transceiver that accepts
// the message wins; the common installation has a single transceiver and the
// loop collapses to one attempt.
type Mux struct {
	lock sync.RWMutex

	dispatcherByName map[string]Dispatcher

	Logger logwrap.Logger
}

func NewMux(l logwrap.Logger) *Mux {
	return &Mux{
		dispatcherByName: map[string]Dispatcher{},
		Logger:           l,
	}
}

func (m *Mux) Add(name string, d Dispatcher) {
	m.lock.Lock()
	defer m.lock.Unlock()

	m.dispatcherByName[name] = d
}

func (m *Mux) Lookup(name string) (Dispatcher, bool) {
	m.lock.RLock()
	defer m.lock.RUnlock()

	d, found := m.dispatcherByName[name]
	return d, found
}

func (m *Mux) Names() []string {
	m.lock.RLock()
	defer m.lock.RUnlock()

	names := make([]string, 0, len(m.dispatcherByName))
	for name := range m.dispatcherByName {
		names = append(names, name)
	}

	return names
}

func (m *Mux) Dispatch(ctx context.Context, controller store.Controller, code string) error {
	m.lock.RLock()
	defer m.lock.RUnlock()

	var lastErr error

	for name, d := range m.dispatcherByName {
		if err := d.Dispatch(ctx, controller, code); err != nil {
			m.Logger.LogWarn(ctx, "Transceiver declined dispatch.", logwrap.Datum("transceiver", name), logwrap.Err(err))
			lastErr = err
			continue
		}

		return nil
	}

	if lastErr != nil {
		return fmt.Errorf("%w: %w", ErrNoTransceivers, lastErr)
	}

	return ErrNoTransceivers
}
