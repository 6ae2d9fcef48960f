package main

import (
	"context"
	"github.com/irbridge/controller/dispatch"
	"github.com/irbridge/controller/store"
	"github.com/shimmeringbee/logwrap"
	"github.com/shimmeringbee/logwrap/impl/golog"
	"github.com/shimmeringbee/logwrap/impl/nest"
	"github.com/shimmeringbee/persistence/impl/file"
	"log"
	"os"
	"os/signal"
	"path/filepath"
)

func main() {
	ctx := context.Background()
	l := logwrap.New(golog.Wrap(log.New(os.Stderr, "", log.LstdFlags)))

	l.LogInfo(ctx, "IR Bridge: Controller - Starting...")

	directories := enumerateDirectories(ctx, l)

	l.LogInfo(ctx, "Directory enumeration complete.", logwrap.Datum("directories", directories))

	l, err := configureLogging(filepath.Join(directories.Config, "logging"), directories.Log, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to configure logging.", logwrap.Err(err))
	}

	transceiverCfgs, err := loadTransceiverConfigurations(filepath.Join(directories.Config, "transceivers"))
	if err != nil {
		l.LogFatal(ctx, "Failed to load transceiver configurations.", logwrap.Err(err))
	}

	interfaceCfgs, err := loadInterfaceConfigurations(filepath.Join(directories.Config, "interfaces"))
	if err != nil {
		l.LogFatal(ctx, "Failed to load interface configurations.", logwrap.Err(err))
	}

	eventbus := store.NewEventBus()

	l.LogInfo(ctx, "Loading command store.")

	storeLogger := logwrap.New(nest.Wrap(l))
	storeLogger.AddOptionsToLogger(logwrap.Source("store"))

	commandStore := store.New(
		filepath.Join(directories.Data, "commands.json"),
		filepath.Join(directories.Data, "ir_codes.json"),
		storeLogger,
		eventbus,
	)
	commandStore.Load(ctx)

	dispatchLogger := logwrap.New(nest.Wrap(l))
	dispatchLogger.AddOptionsToLogger(logwrap.Source("dispatch"))

	dispatchMux := dispatch.NewMux(dispatchLogger)

	l.LogInfo(ctx, "Starting transceivers.", logwrap.Datum("configCount", len(transceiverCfgs)))
	startedTransceivers, err := startTransceivers(transceiverCfgs, dispatchMux, l, file.New(filepath.Join(directories.Data, "transceivers")))
	if err != nil {
		l.LogFatal(ctx, "Failed to start transceivers.", logwrap.Err(err))
	}

	l.LogInfo(ctx, "Starting interfaces.", logwrap.Datum("configCount", len(interfaceCfgs)))
	startedInterfaces, err := startInterfaces(interfaceCfgs, commandStore, dispatchMux, eventbus, l)
	if err != nil {
		l.LogFatal(ctx, "Failed to start interfaces.", logwrap.Err(err))
	}

	l.LogInfo(ctx, "Controller ready.")

	signalCh := make(chan os.Signal, 1)
	signal.Notify(signalCh, os.Interrupt, os.Kill)

	s := <-signalCh
	l.LogInfo(ctx, "Signal received, shutting down.", logwrap.Datum("signal", s.String()))

	for _, intf := range startedInterfaces {
		l.LogInfo(ctx, "Shutting down interface.", logwrap.Datum("interface", intf.Name))

		if err := intf.Shutdown(); err != nil {
			l.LogError(ctx, "Failed to shutdown interface.", logwrap.Err(err), logwrap.Datum("interface", intf.Name))
		}
	}

	for _, trx := range startedTransceivers {
		l.LogInfo(ctx, "Shutting down transceiver.", logwrap.Datum("transceiver", trx.Name))
		trx.Shutdown()
	}

	l.LogInfo(ctx, "Persisting command store before exit.")
	commandStore.Save(ctx)

	l.LogInfo(ctx, "Shut down complete.")
}
