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
	"go.uber.org/zap"

	"github.com/aidejuridic/chatgate/backend/internal/config"
	"github.com/aidejuridic/chatgate/backend/internal/handler"
	"github.com/aidejuridic/chatgate/backend/internal/logging"
	"github.com/aidejuridic/chatgate/backend/internal/model/chatui"
	"github.com/aidejuridic/chatgate/backend/internal/service/auth"
	"github.com/aidejuridic/chatgate/backend/internal/service/chatkit"
	"github.com/aidejuridic/chatgate/backend/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log, cfg.App.Production())
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Warn("failed to load .env file, continuing with system environment variables only", zap.Error(envErr))
	}

	authClient := auth.NewClient(cfg.Auth)
	verifier := auth.NewTokenVerifier(cfg.Auth.JWTSecret)
	if !verifier.Verifies() {
		logger.Info("SUPABASE_JWT_SECRET not set, access tokens are validated against the auth provider")
	}
	sessions := auth.NewStore(authClient, verifier, logger.Named("session"))

	chatkitClient := chatkit.NewClient(cfg.ChatKit)
	if !chatkitClient.APIKeyConfigured() {
		logger.Warn("OPENAI_API_KEY not set, create-session requests will fail")
	}
	if cfg.ChatKit.WorkflowID == "" {
		logger.Warn("CHATKIT_WORKFLOW_ID not set, clients must send a workflow id")
	}

	views, err := view.New()
	if err != nil {
		logger.Fatal("failed to parse page templates", zap.Error(err))
	}

	router := handler.NewRouter(handler.Dependencies{
		Auth:              authClient,
		Sessions:          sessions,
		ChatKit:           chatkitClient,
		Views:             views,
		Prompts:           chatui.NewMemoryPromptStore(chatui.Seed()),
		DefaultWorkflowID: cfg.ChatKit.WorkflowID,
		Verbose:           !cfg.App.Production(),
		Logger:            logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		ErrorLog:          zap.NewStdLog(logger.Named("http-server")),
	}

	logger.Info("chat gateway listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
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
