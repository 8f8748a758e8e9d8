// Command server runs the long-lived board-game HTTP/WebSocket service: it loads
// configuration from the environment, opens the store and AI registry singletons once,
// and mounts the REST/WebSocket surface over them (spec §6). There is no other CLI
// surface; this is the one binary the module ships.
package main

import (
	"context"
	"net/http"
	"time"

	"github.com/seekerror/logw"

	"github.com/kestrelgames/boardhouse/internal/ai"
	"github.com/kestrelgames/boardhouse/internal/auth"
	"github.com/kestrelgames/boardhouse/internal/config"
	"github.com/kestrelgames/boardhouse/internal/events"
	"github.com/kestrelgames/boardhouse/internal/httpapi"
	"github.com/kestrelgames/boardhouse/internal/orchestrator"
	"github.com/kestrelgames/boardhouse/internal/store"

	// Blank-imported so each package's init() registers its games.Engine factory (see
	// internal/games/registry.go); nothing else in this binary needs to name these
	// packages directly.
	_ "github.com/kestrelgames/boardhouse/internal/games/azul"
	_ "github.com/kestrelgames/boardhouse/internal/games/chess"
	_ "github.com/kestrelgames/boardhouse/internal/games/connect4"
	_ "github.com/kestrelgames/boardhouse/internal/games/nim"
	_ "github.com/kestrelgames/boardhouse/internal/games/santorini"
	_ "github.com/kestrelgames/boardhouse/internal/games/tictactoe"
	_ "github.com/kestrelgames/boardhouse/internal/games/wythoff"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logw.Exitf(ctx, "config: %v", err)
	}

	db, err := store.OpenDB(cfg)
	if err != nil {
		logw.Exitf(ctx, "store: %v", err)
	}

	gameStore := store.NewBunStore(db)
	userStore := auth.NewBunStore(db)

	if cfg.ResetDBOnStartup {
		if err := gameStore.DeleteAIBound(ctx); err != nil {
			logw.Exitf(ctx, "store: reset ai-bound rows: %v", err)
		}
		logw.Infof(ctx, "reset_db_on_startup: cleared ai-bound game rows")
	}

	bus := events.NewInProcessBus()
	registry := ai.Build(cfg.AIRegistry)
	tokens := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)
	authSvc := auth.NewService(userStore, tokens)
	orch := orchestrator.New(gameStore, bus, registry)

	handler := &httpapi.Handler{
		Orchestrator: orch,
		Auth:         authSvc,
		Tokens:       tokens,
		Registry:     registry,
		Bus:          bus,
	}
	mux := httpapi.NewRouter(handler)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	logw.Infof(ctx, "listening on %s", cfg.HTTPAddr)
	if err := srv.ListenAndServe(); err != nil {
		logw.Exitf(ctx, "server: %v", err)
	}
}
