// Package main provides a test server for exercising the SMS pipeline end to end.
// It runs with in-memory SQLite and a seeded organization and employee, so a local
// Twilio simulator (or plain curl) can drive full conversations.
//
// Usage:
//
//	ANTHROPIC_API_KEY=sk-... go run cmd/testserver/main.go
//
// Without an API key the server falls back to a canned provider that classifies a
// handful of common phrasings, enough to walk the happy paths offline.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/attendly/attendbot/internal/claude"
	"github.com/attendly/attendbot/internal/config"
	"github.com/attendly/attendbot/internal/conversation"
	"github.com/attendly/attendbot/internal/database"
	"github.com/attendly/attendbot/internal/dialogue"
	"github.com/attendly/attendbot/internal/server"
)

func main() {
	fmt.Println("Starting attendbot test server...")
	fmt.Println("In-memory SQLite, seeded with one organization and one employee.")

	cfg := config.LoadFromEnv()

	db, err := database.New(":memory:")
	if err != nil {
		fmt.Printf("Failed to create database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := seed(db); err != nil {
		fmt.Printf("Failed to seed database: %v\n", err)
		os.Exit(1)
	}

	var provider dialogue.Provider
	if cfg.AnthropicAPIKey != "" {
		provider = claude.NewClient(cfg.AnthropicAPIKey, cfg.ClaudeModel, cfg.ClaudeTemperature, cfg.ClaudeTimeout)
		fmt.Println("Using the real Claude API.")
	} else {
		provider = cannedProvider{}
		fmt.Println("ANTHROPIC_API_KEY not set; using the canned offline provider.")
	}

	orchestrator := dialogue.NewOrchestrator(dialogue.Config{
		Store:           conversation.NewMemoryStore(cfg.FollowUpWindow, cfg.PurgeAfter),
		Directory:       db,
		Provider:        provider,
		Sink:            db,
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

	fmt.Printf("Seeded employee: Maria, phone 9055223811, Day (7am-3:30pm)\n")
	fmt.Printf("Try: curl -d 'From=9055223811' -d 'Body=running 30 min late, traffic' http://localhost:%d/sms/incoming\n", cfg.HTTPPort)

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	fmt.Println("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	srv.Shutdown(ctx)
}

func seed(db *database.DB) error {
	orgID, err := db.CreateOrganization("Lakeside Packaging", "America/Toronto", "floor@lakeside.example")
	if err != nil {
		return err
	}
	_, err = db.CreateEmployee(orgID, "Maria", "9055223811", "Day (7am-3:30pm)", "Line 2")
	return err
}

// cannedProvider answers like the real model for a few common phrasings, so the
// pipeline can be demonstrated without network access.
type cannedProvider struct{}

func (cannedProvider) IsConfigured() bool { return true }

func (cannedProvider) Complete(ctx context.Context, prompt string) (string, error) {
	s := strings.ToLower(prompt)

	switch {
	case strings.Contains(s, "traffic"):
		return `{"type": "late", "subtype": null, "reason": "Traffic", "duration_minutes": 30, "date": "today", "has_duration": true, "has_reason": true}`, nil
	case strings.Contains(s, "sick"):
		return `{"type": "full_day", "subtype": "sick", "reason": "Sick", "duration_minutes": 480, "date": "today", "has_reason": true}`, nil
	case strings.Contains(s, "appointment"):
		return `{"type": "unclear_duration", "subtype": "personal", "reason": "Appointment", "duration_minutes": null, "date": "today", "missing_duration": true}`, nil
	case strings.Contains(s, "hour"):
		return `{"type": "short_absence", "subtype": "personal", "reason": null, "duration_minutes": 60, "date": "today", "has_duration": true, "missing_reason": true}`, nil
	default:
		return `{"type": "unclear", "subtype": null, "reason": null, "duration_minutes": null, "date": "today"}`, nil
	}
}
