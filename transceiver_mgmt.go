package main

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/irbridge/controller/config"
	"github.com/irbridge/controller/dispatch"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/nest"
	"github.com/shimmeringbee/persistence"
	"github.com/shimmeringbee/zstack"
	"go.bug.st/serial.v1"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type StartedTransceiver struct {
	Name     string
	Shutdown func()
}

func loadTransceiverConfigurations(dir string) ([]config.TransceiverConfig, error) {
	if err := os.MkdirAll(dir, DefaultDirectoryPermissions); err != nil {
		return nil, fmt.Errorf("failed to ensure transceiver configuration directory exists: %w", err)
	}

	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory listing for transceiver configurations: %w", err)
	}

	var retCfgs []config.TransceiverConfig

	for _, file := range files {
		if !strings.HasSuffix(file.Name(), ".json") {
			continue
		}

		fullPath := filepath.Join(dir, file.Name())
		data, err := os.ReadFile(fullPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read transceiver configuration file '%s': %w", fullPath, err)
		}

		cfg := config.TransceiverConfig{
			Name: strings.TrimSuffix(file.Name(), filepath.Ext(file.Name())),
		}

		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse transceiver configuration file '%s': %w", fullPath, err)
		}

		retCfgs = append(retCfgs, cfg)
	}

	return retCfgs, nil
}

func startTransceivers(cfgs []config.TransceiverConfig, mux *dispatch.Mux, l logwrap.Logger, s persistence.Section) ([]StartedTransceiver, error) {
	var retTrx []StartedTransceiver

	for _, cfg := range cfgs {
		trxSection := s.Section(cfg.Name)

		if d, shutdown, err := startTransceiver(cfg, l, trxSection); err != nil {
			return nil, fmt.Errorf("failed to start transceiver '%s': %w", cfg.Name, err)
		} else {
			mux.Add(cfg.Name, d)
			retTrx = append(retTrx, StartedTransceiver{
				Name:     cfg.Name,
				Shutdown: shutdown,
			})
		}
	}

	return retTrx, nil
}

func startTransceiver(cfg config.TransceiverConfig, l logwrap.Logger, s persistence.Section) (dispatch.Dispatcher, func(), error) {
	wl := logwrap.New(nest.Wrap(l))
	wl.AddOptionsToLogger(logwrap.Datum("transceiver", cfg.Name))

	switch trxCfg := cfg.Config.(type) {
	case *config.ZStackTransceiver:
		wl.AddOptionsToLogger(logwrap.Source("zstack"))
		return startZStackTransceiver(*trxCfg, wl, s)
	default:
		return nil, nil, fmt.Errorf("unknown transceiver type loaded: %s", cfg.Type)
	}
}

func startZStackTransceiver(cfg config.ZStackTransceiver, l logwrap.Logger, s persistence.Section) (dispatch.Dispatcher, func(), error) {
	port, err := serial.Open(cfg.Port.Name, &serial.Mode{BaudRate: cfg.Port.Baud})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open serial port for zstack '%s': %w", cfg.Port.Name, err)
	}

	z := zstack.New(port, s.Section("ZStack"))
	z.WithLogWrapLogger(l)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := z.Initialise(ctx, *cfg.Network); err != nil {
		port.Close()

		return nil, nil, fmt.Errorf("failed to initialise zstack: %w", err)
	}

	return dispatch.ZigbeeDispatcher{Sender: z, Logger: l}, func() {
		z.Stop()
	}, nil
}
