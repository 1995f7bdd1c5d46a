package main

import (
	"net/http"

	"go.uber.org/zap"

	"matatu_empire/internal/api"
	"matatu_empire/internal/catalog"
	"matatu_empire/internal/config"
	"matatu_empire/internal/game"
	"matatu_empire/internal/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	defer log.Sync()

	cat := catalog.Load(cfg.Game.DataDir, log)

	engine := game.NewEngine(game.Options{
		VehicleTypes: cat.VehicleTypes,
		Routes:       cat.Routes,
		Seed:         cfg.Sim.Seed,
		SavePath:     cfg.Sim.SavePath,
		SaveInterval: cfg.AutosaveInterval(),
		Logger:       log,
	})

	loaded, err := engine.LoadOrNew(cfg.Sim.SavePath, cfg.Game.StartingCash, catalog.StarterVehicleType)
	if err != nil {
		log.Fatal("failed to load savegame", zap.Error(err))
	}
	if loaded {
		log.Info("loaded savegame", zap.String("path", cfg.Sim.SavePath))
	} else {
		log.Info("started new game", zap.Int64("starting_cash", cfg.Game.StartingCash))
	}

	hub := api.NewHub(log)
	go hub.Run()
	engine.SetNotifier(hub)

	engine.Start(cfg.TickInterval())
	defer engine.Stop()

	handler := api.New(engine, hub, cfg.Sim.SavePath)
	log.Info("server listening", zap.String("addr", cfg.Addr()))
	if err := http.ListenAndServe(cfg.Addr(), handler); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
