package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fieldcrew/internal/approvals"
	"fieldcrew/internal/attendance"
	"fieldcrew/internal/config"
	"fieldcrew/internal/db"
	"fieldcrew/internal/notify"
	"fieldcrew/internal/routes"
	"fieldcrew/internal/sequencer"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting fieldcrew API...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	loc, err := time.LoadLocation(cfg.Server.Timezone)
	if err != nil {
		log.Fatalf("Invalid timezone %q: %v", cfg.Server.Timezone, err)
	}

	// Initialize database
	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// Notification sinks: log always, Discord site channel when configured
	sinks := []notify.Sink{notify.LogSink{}}
	if cfg.Discord.Token != "" && cfg.Discord.ChannelID != "" {
		discord, err := notify.NewDiscordSink(cfg.Discord.Token, cfg.Discord.ChannelID)
		if err != nil {
			log.Printf("Error creating Discord sink, continuing without it: %v", err)
		} else {
			log.Println("Discord site-channel notifications enabled")
			sinks = append(sinks, discord)
		}
	}
	dispatcher := notify.NewDispatcher(cfg.Notifications.Buffer, sinks...)

	seq := sequencer.New(database, dispatcher)
	att := attendance.New(database, dispatcher, loc)
	leave := approvals.New(database, dispatcher)

	router := routes.NewRouter(database, att, seq, leave, loc)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Set up signal handling
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	go func() {
		s := <-signals
		log.Printf("Received signal: %v", s)
		cancel()
	}()

	// Start the server
	go func() {
		log.Printf("Listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Error running server: %v", err)
			cancel()
		}
	}()

	// Wait for shutdown
	<-ctx.Done()
	log.Println("Shutdown signal received")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	// Drain queued notifications, then close the database
	dispatcher.Shutdown()
	database.Close()

	log.Println("Application shutdown complete")
}
