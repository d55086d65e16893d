package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/avelasco/cryptochat/backend/internal/config"
	"github.com/avelasco/cryptochat/backend/internal/handler"
	"github.com/avelasco/cryptochat/backend/internal/market"
	chatservice "github.com/avelasco/cryptochat/backend/internal/service/chat"
	"github.com/avelasco/cryptochat/backend/internal/service/dispatch"
	"github.com/avelasco/cryptochat/backend/internal/service/voice"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Printf("warning: failed to load .env file: %v", err)
		log.Println("continuing with system environment variables only")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	chatSvc := chatservice.NewService()
	gateway := market.NewClient(cfg.Market)

	var hub *voice.Hub
	if cfg.Voice.Enabled {
		hub = voice.NewHub()
		log.Println("voice event channel enabled")
	} else {
		log.Println("voice event channel disabled by configuration")
	}

	var notifier dispatch.Notifier
	if hub != nil {
		notifier = hub
	}
	orchestrator := dispatch.New(gateway, notifier)

	router := handler.NewRouter(chatSvc, orchestrator, hub)

	startServer(ctx, cfg.Server, router)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("crypto chat backend listening on %s", addr)
	if err := runServer(ctx, srv); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
