package main

import (
	"flag"
	"math/rand"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"energy_dashboard/internal/api"
	"energy_dashboard/internal/config"
	"energy_dashboard/internal/driver"
	"energy_dashboard/internal/energy"
	"energy_dashboard/internal/sched"
	"energy_dashboard/internal/settings"
	"energy_dashboard/internal/ws"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	// .env is optional; real env always wins.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	store := settings.NewStore(cfg.SettingsPath, logger.Named("settings"))
	current := store.Current()

	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	model := energy.NewModel(energy.Config{
		Rand:   rand.New(rand.NewSource(seed)),
		Logger: logger.Named("energy"),
	})

	hub := ws.NewHub(logger.Named("hub"))
	bridge := ws.NewBridge(hub, logger.Named("bridge"))

	interval := time.Duration(current.Dashboard.UpdateFrequencySec) * time.Second
	drv := driver.New(model, bridge, interval, logger.Named("driver"))

	executor := sched.NewExecutor(model, logger.Named("sched"))
	executor.Reload()
	defer executor.Stop()

	wsHandler := ws.NewHandler(hub, model, drv, store, executor, logger.Named("ws"))

	server := api.NewServer(model, logger.Named("api"))
	handler := server.Router(wsHandler, cfg.CORS.AllowedOrigins)

	mux := http.NewServeMux()
	mux.Handle("/", handler)
	if _, err := os.Stat(cfg.FrontendDir); err == nil {
		logger.Info("serving frontend", zap.String("dir", cfg.FrontendDir))
		mux.Handle("/app/", http.StripPrefix("/app/", http.FileServer(http.Dir(cfg.FrontendDir))))
	}

	drv.Start()

	logger.Info("starting server", zap.String("addr", cfg.Addr))
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
