package main

import (
	"cmp"
	"context"
	"errors"
	"flag"
	"log/slog"
	"maps"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"

	"scanvator/src/config"
	"scanvator/src/dispatcher"
	"scanvator/src/elev"
	"scanvator/src/executor"
	"scanvator/src/network"
	"scanvator/src/types"
	"scanvator/src/utils"
)

func main() {
	configPath := flag.String("config", "", "YAML config file")
	envFile := flag.String("env", ".env", "file with environment overrides")
	listen := flag.String("listen", "", "panel listen address")
	demo := flag.Bool("demo", false, "run the demo scenario and exit")
	flag.Parse()

	cfg := loadConfig(*configPath, *envFile)
	if *listen != "" {
		cfg.PanelAddr = *listen
	}
	closeLog, err := utils.InitLogger(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		panic(err)
	}
	defer closeLog()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	board := elev.StartStateMgr(ctx)
	observer := types.ObserverFunc(func(event types.Event) {
		logEvent(event)
		board.Notify(event)
	})

	controllers := make([]*executor.Controller, 0, len(cfg.Cars))
	cars := make([]dispatcher.Car, 0, len(cfg.Cars))
	for _, id := range cfg.Cars {
		c := executor.New(id, cfg.MaxFloor, executor.WithDwell(cfg.DoorDwell), executor.WithObserver(observer))
		controllers = append(controllers, c)
		cars = append(cars, c)
	}
	registry, err := dispatcher.NewRegistry(cars...)
	if err != nil {
		panic(err)
	}
	hall := dispatcher.NewHallRouter(registry, policyFor(cfg.Policy))
	car := dispatcher.NewCarRouter(registry)
	slog.Info("Fleet ready", "cars", cfg.Cars, "maxFloor", cfg.MaxFloor, "policy", cfg.Policy)

	if *demo {
		runDemo(hall, car, controllers)
		states := board.All()
		for _, id := range slices.Sorted(maps.Keys(states)) {
			state := states[id]
			slog.Info("Final position", "car", state.ID, "floor", state.Floor, "direction", state.Dir)
		}
		return
	}

	var wg sync.WaitGroup
	for _, c := range controllers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				slog.Error("Car stopped", "car", c.ID(), "error", err)
			}
		}()
	}

	srv, err := network.Listen(cfg.PanelAddr, hall, car, network.WithBoard(board))
	if err != nil {
		panic(err)
	}
	if err := srv.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Panel server stopped", "error", err)
	}
	cancel()
	wg.Wait()
}

// loadConfig layers defaults, the YAML file and the environment.
func loadConfig(path, envFile string) config.Config {
	cfg := config.Default()
	envPath, err := config.LoadEnv(&cfg, envFile)
	if err != nil {
		panic(err)
	}
	if path = cmp.Or(path, envPath); path == "" {
		return cfg
	}
	if cfg, err = config.Load(path); err != nil {
		panic(err)
	}
	// Environment overrides win over the file.
	if _, err := config.LoadEnv(&cfg, ""); err != nil {
		panic(err)
	}
	return cfg
}

func policyFor(name string) dispatcher.Policy {
	if name == config.PolicyNearest {
		return dispatcher.NearestPolicy{}
	}
	return dispatcher.ParityPolicy{}
}

// runDemo replays a fixed set of presses and drains every car in turn.
func runDemo(hall *dispatcher.HallRouter, car *dispatcher.CarRouter, controllers []*executor.Controller) {
	slog.Info("User on floor 3 wants to go UP")
	if _, _, err := hall.Submit(3, types.Up); err != nil {
		slog.Error("Hall call rejected", "error", err)
	}
	slog.Info("User inside car 1 wants to go to floor 7")
	if _, err := car.Submit(7, 1); err != nil {
		slog.Error("Car call rejected", "error", err)
	}
	slog.Info("User on floor 8 wants to go DOWN")
	if _, _, err := hall.Submit(8, types.Down); err != nil {
		slog.Error("Hall call rejected", "error", err)
	}

	for _, c := range controllers {
		slog.Info("Starting control loop", "car", c.ID())
		if err := c.RunScanLoop(); err != nil {
			slog.Error("Car stopped", "car", c.ID(), "error", err)
		}
	}
}

func logEvent(event types.Event) {
	switch event.Kind {
	case types.StepEvent:
		slog.Info("Car at floor", "car", event.CarID, "floor", event.Floor, "direction", event.Dir)
	case types.DoorOpenedEvent:
		slog.Info("Door opened", "car", event.CarID, "floor", event.Floor)
	case types.DoorClosedEvent:
		slog.Info("Door closed", "car", event.CarID, "floor", event.Floor)
	}
}
