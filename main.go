package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/attendly/attendbot/internal/absence"
	"github.com/attendly/attendbot/internal/claude"
	"github.com/attendly/attendbot/internal/config"
	"github.com/attendly/attendbot/internal/conversation"
	"github.com/attendly/attendbot/internal/database"
	"github.com/attendly/attendbot/internal/dialogue"
	"github.com/attendly/attendbot/internal/notify"
	"github.com/attendly/attendbot/internal/server"
)

func main() {
	cfg := config.LoadFromEnv()

	db, err := database.New(cfg.DBPath)
	if err != nil {
		fatal("creating database", err)
	}
	defer db.Close()

	provider := initProvider(cfg)
	notifier := initNotifier(cfg)
	store := initConversationStore(db, cfg)

	orchestrator := dialogue.NewOrchestrator(dialogue.Config{
		Store:     store,
		Directory: db,
		Provider:  provider,
		Sink:      db,
		Notifier:  notifier,
		Thresholds: absence.Thresholds{
			ShortAbsenceMax: cfg.ShortAbsenceMaxMinutes,
			HalfDayMax:      cfg.HalfDayMaxMinutes,
		},
		FallbackContact: cfg.FallbackContact,
	})

	srv := server.New(server.ServerConfig{
		DB:      db,
		Handler: orchestrator,
		Port:    cfg.HTTPPort,
	})
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "HTTP server error: %v\n", err)
		}
	}()

	waitForShutdown(srv)
}

func initProvider(cfg *config.Config) *claude.Client {
	if cfg.AnthropicAPIKey == "" {
		fmt.Println("Warning: ANTHROPIC_API_KEY not set, message classification will fail")
	}
	return claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature, cfg.ClaudeTimeout)
}

func initNotifier(cfg *config.Config) dialogue.Notifier {
	notifier := notify.NewResendNotifier(cfg.ResendAPIKey, cfg.EmailFrom, cfg.SupervisorEmail)
	if notifier == nil {
		fmt.Println("Warning: RESEND_API_KEY not set, supervisor notifications disabled")
		return nil
	}
	return notifier
}

func initConversationStore(db *database.DB, cfg *config.Config) conversation.Store {
	if cfg.DurableConversations {
		fmt.Println("Using sqlite-backed conversation store")
		return database.NewConversationStore(db, cfg.FollowUpWindow, cfg.PurgeAfter)
	}
	return conversation.NewMemoryStore(cfg.FollowUpWindow, cfg.PurgeAfter)
}

func fatal(context string, err error) {
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", context, err)
	os.Exit(1)
}

func waitForShutdown(srv *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	srv.Shutdown(ctx)
}
