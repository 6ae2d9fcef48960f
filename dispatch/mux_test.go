package dispatch

import (
	"context"
	"errors"
	"fmt"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/discard"
	"github.com/stretchr/testify/assert"
	"testing"
)

type stubDispatcher struct {
	err   error
	calls int
}

func (s *stubDispatcher) Dispatch(ctx context.Context, controller store.Controller, code string) error {
	s.calls++
	return s.err
}

func TestMux(t *testing.T) {
	t.Run("returns an error when no transceivers are registered", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		err := m.Dispatch(context.Background(), store.Controller{}, "0x01")
		assert.True(t, errors.Is(err, ErrNoTransceivers))
	})

	t.Run("dispatches through a registered transceiver", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		d := &stubDispatcher{}
		m.Add("zstack", d)

		err := m.Dispatch(context.Background(), store.Controller{}, "0x01")
		assert.NoError(t, err)
		assert.Equal(t, 1, d.calls)
	})

	t.Run("falls back to the next transceiver when one declines", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		declining := &stubDispatcher{err: errors.New("not reachable")}
		accepting := &stubDispatcher{}

		m.Add("first", declining)
		m.Add("second", accepting)

		err := m.Dispatch(context.Background(), store.Controller{}, "0x01")
		assert.NoError(t, err)
		assert.Equal(t, 1, accepting.calls)
	})

	t.Run("returns an error when every transceiver declines", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		m.Add("zstack", &stubDispatcher{err: errors.New("not reachable")})

		err := m.Dispatch(context.Background(), store.Controller{}, "0x01")
		assert.True(t, errors.Is(err, ErrNoTransceivers))
	})

	t.Run("preserves the underlying error when every transceiver declines", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		m.Add("zstack", &stubDispatcher{err: fmt.Errorf("%w: zz:11", ErrInvalidAddress)})

		err := m.Dispatch(context.Background(), store.Controller{IEEE: "zz:11"}, "0x01")
		assert.True(t, errors.Is(err, ErrNoTransceivers))
		assert.True(t, errors.Is(err, ErrInvalidAddress))
	})

	t.Run("lookup finds registered transceivers by name", func(t *testing.T) {
		m := NewMux(logwrap.New(discard.Discard()))

		d := &stubDispatcher{}
		m.Add("zstack", d)

		found, ok := m.Lookup("zstack")
		assert.True(t, ok)
		assert.Equal(t, d, found)

		_, ok = m.Lookup("missing")
		assert.False(t, ok)

		assert.Equal(t, []string{"zstack"}, m.Names())
	})
}
