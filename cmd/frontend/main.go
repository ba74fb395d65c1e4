package main

import (
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
	"lodestone.dev/frontend/internal/backend/stdio"
	"lodestone.dev/frontend/internal/configloader"
	"lodestone.dev/frontend/internal/data"
	"lodestone.dev/frontend/internal/data/delegate/sqlite"
	"lodestone.dev/frontend/internal/instance"
	"lodestone.dev/frontend/internal/notify"
	"lodestone.dev/frontend/internal/plugin"
	"lodestone.dev/frontend/internal/settings"
	"lodestone.dev/frontend/internal/shell"
	"lodestone.dev/frontend/internal/task"
	"lodestone.dev/frontend/pkg/eventbus"
)

// Name of the current application. Used to load the configuration.
const APPLICATION_NAME = "lodestone"

// Bus topic asking the window layer to open a modal.
const openModalTopic = "lodestone_open_modal"

func main() {
	app := &cli.App{
		Name:   APPLICATION_NAME,
		Usage:  "launcher front-end state layer",
		Action: run,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "config",
				Usage: "Configuration file path",
			},
			&cli.StringFlag{
				Name:  "base-path",
				Usage: "Folder holding the launcher database and preferences",
			},
		},
	}
	if err := app.Run(os.Args); err != nil {
		logrus.Errorf("%+v", err)
		os.Exit(1)
	}
}

type logHandler struct{}

func (logHandler *logHandler) NotifyStarted() {
	logrus.Info("Front end state layer ready")
}

func run(cliContext *cli.Context) (err error) {
	// Loading application configuration
	configurationFilePath := cliContext.String("config")
	configuration, err := configloader.LoadConfiguration(APPLICATION_NAME, configurationFilePath)
	if err != nil {
		return
	}
	var level logrus.Level
	if level, err = logrus.ParseLevel(configuration.LogLevel); err != nil {
		return
	}

	// Set log level
	logrus.SetLevel(level)
	if configurationFilePath != "" {
		logrus.Infof("Loaded config file %s", configurationFilePath)
	}
	logrus.Infof("Setting log level to %s", level.String())

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		panic("Failed to read build information")
	}
	logrus.Debug("Launching lodestone v.", bi.Main.Version)

	basePath := configuration.BasePath
	if cliContext.String("base-path") != "" {
		basePath = cliContext.String("base-path")
	}

	// The backend process speaks newline-delimited JSON over our stdio.
	bus := eventbus.NewBus()
	defer bus.Close()
	bridge := stdio.NewBridge(os.Stdout, bus)

	notifier := notify.NewCenter()
	monitor := task.NewMonitor(bridge, notifier)
	monitor.Attach(bus)
	registry := instance.NewRegistry(bridge, notifier)
	registry.Attach(bus)

	store := data.NewStore(&sqlite.SQLiteDelegate{BasePath: basePath})
	preferences := settings.NewManager(basePath)
	host := plugin.NewHost(bridge, notifier, func(id string) error {
		bus.Publish(openModalTopic, id)
		return nil
	})
	defer host.Close()

	controller := shell.NewController([]shell.Component{
		shell.ComponentFunc(func() {
			if storeError := store.Initialize(); storeError != nil {
				logrus.Error("Cannot open the launcher data store")
				logrus.Errorf("%+v", storeError)
			}
		}),
		shell.ComponentFunc(func() {
			if settingsError := preferences.Initialize(); settingsError != nil {
				logrus.Error("Cannot load the user preferences")
				logrus.Errorf("%+v", settingsError)
			}
		}),
	}, &logHandler{})
	controller.Initialize()
	defer store.Close()

	runDone := make(chan error, 1)
	go func() {
		runDone <- bridge.Run(os.Stdin)
	}()

	interrupted := make(chan os.Signal, 1)
	signal.Notify(interrupted, os.Interrupt, syscall.SIGTERM)

	select {
	case err = <-runDone:
		logrus.Info("Backend connection closed")
	case receivedSignal := <-interrupted:
		logrus.Info("Received signal ", receivedSignal)
	}
	return
}
