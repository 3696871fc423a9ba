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

	"github.com/oakview/vacationdesk/internal/catalog"
	"github.com/oakview/vacationdesk/internal/config"
	"github.com/oakview/vacationdesk/internal/handler"
	"github.com/oakview/vacationdesk/internal/service/agent"
	"github.com/oakview/vacationdesk/internal/service/session"
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

	store, err := newCatalogStore(cfg.Catalog)
	if err != nil {
		log.Fatalf("failed to open catalog: %v", err)
	}

	var agentService *agent.Service
	if cfg.AI.Enabled() {
		agentService, err = agent.NewService(ctx, store, cfg.AI)
		if err != nil {
			log.Printf("warning: failed to initialize agent service: %v", err)
			log.Println("continuing without chat functionality")
		} else {
			log.Println("agent service initialized successfully")
		}
	} else {
		log.Println("AI credentials not configured, chat endpoints disabled")
	}

	var conversations *session.Cache[*agent.Conversation]
	if agentService != nil {
		conversations = session.New(session.Config{
			TTL:           cfg.Session.TTL,
			SweepInterval: cfg.Session.SweepInterval,
		}, agentService.NewConversation)
		defer conversations.Close()
	}

	router := handler.NewRouter(conversations, store)

	startServer(ctx, cfg.Server, router)
}

// newCatalogStore selects the catalog backend by configuration.
func newCatalogStore(cfg config.CatalogConfig) (catalog.Store, error) {
	switch cfg.Source {
	case config.CatalogSourceMuleSoft:
		log.Printf("using MuleSoft catalog at %s (env=%s)", cfg.MuleSoftBaseURL, cfg.MuleSoftEnv)
		return catalog.NewClient(cfg.MuleSoftBaseURL, cfg.MuleSoftEnv, cfg.PackageID), nil
	default:
		log.Printf("using file catalog from %s", cfg.DataDir)
		return catalog.NewFileStore(cfg.DataDir)
	}
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("Oakview vacation desk listening on %s", addr)
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
