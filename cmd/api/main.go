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
	"github.com/xfnw/ircqrs/internal/config"
	"github.com/xfnw/ircqrs/internal/handler"
	quoteService "github.com/xfnw/ircqrs/internal/service/quote"
	"github.com/xfnw/ircqrs/quotes"
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

	store, err := quotes.Open(cfg.Corpus.Dir)
	if err != nil {
		log.Fatalf("failed to load quote corpus: %v", err)
	}

	quoteSvc := quoteService.NewService(store)
	quoteSvc.Warm()
	bounds := quoteSvc.Bounds()
	log.Printf("loaded %d quotes (#%d-#%d) with %d participants",
		quoteSvc.Count(), bounds.Min, bounds.Max, len(quoteSvc.Participants()))

	router, err := handler.NewRouter(quoteSvc, cfg, binPath())
	if err != nil {
		log.Fatalf("failed to build router: %v", err)
	}

	startServer(ctx, cfg.Server, router)
}

func binPath() string {
	path, err := os.Executable()
	if err != nil {
		log.Printf("warning: cannot resolve executable path: %v", err)
		return "ircqrs"
	}
	return path
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("ircqrs listening on %s", addr)
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
