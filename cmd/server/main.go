package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gridbattle/internal/api"
	"gridbattle/internal/arena"
	"gridbattle/internal/battle"
	"gridbattle/internal/config"
	"gridbattle/internal/logging"
	"gridbattle/internal/match"
)

func main() {
	cfgPath := flag.String("config", "gridbattle.yaml", "config file")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		logging.Fatal("failed to load config", err, logging.Fields{"path": *cfgPath})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := match.New(match.Options{
		Seed:     cfg.Simulation.Seed,
		MinUnits: cfg.Simulation.MinUnits,
		MaxUnits: cfg.Simulation.MaxUnits,
	})
	m.OnGameOver = func(id string, winner battle.Team, snap battle.Snapshot) {
		logging.Info("game over", logging.Fields{
			"match":     id,
			"winner":    winner.String(),
			"ticks":     snap.Ticks,
			"elapsed":   snap.Elapsed.String(),
			"survivors": snap.Counts[winner],
		})
	}

	a := arena.New(m, cfg.Simulation.FPS)
	go a.Run(ctx)

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           api.NewRouter(a),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logging.Error("shutdown", err, nil)
		}
	}()

	logging.Info("server starting", logging.Fields{"addr": cfg.Server.Address, "fps": a.FPS})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logging.Fatal("ListenAndServe", err, nil)
	}
	logging.Info("server stopped", nil)
}
