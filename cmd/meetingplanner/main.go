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
	_ "time/tzdata" // resolve TIMEZONE on images without a zoneinfo database

	"github.com/navikt/meetingplanner/internal/api"
	"github.com/navikt/meetingplanner/internal/config"
	"github.com/navikt/meetingplanner/internal/repository"
	"github.com/navikt/meetingplanner/internal/seed"
	"github.com/navikt/meetingplanner/internal/service"
	"github.com/navikt/meetingplanner/internal/web"
	"github.com/spf13/pflag"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		log.Fatalf("meetingplanner: %v", err)
	}
}

// parseFlags applies command-line flags on top of the environment configuration
func parseFlags(args []string, cfg config.ServerConfig) (config.ServerConfig, error) {
	flagSet := pflag.NewFlagSet("meetingplanner", pflag.ContinueOnError)
	flagSet.StringVarP(&cfg.Port, "port", "p", cfg.Port, "HTTP port to listen on")
	flagSet.StringVar(&cfg.RoomsFile, "rooms", cfg.RoomsFile, "room inventory file, JSON or YAML (default: embedded inventory)")
	flagSet.StringVar(&cfg.MeetingsFile, "meetings", cfg.MeetingsFile, "planning sheet file, JSON or YAML (default: embedded sheet)")
	flagSet.StringVar(&cfg.Timezone, "timezone", cfg.Timezone, "timezone requested dates and times refer to")

	if err := flagSet.Parse(args); err != nil {
		return cfg, err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return cfg, fmt.Errorf("unexpected argument: %s", rest[0])
	}
	return cfg, nil
}

func run(args []string) error {
	serverConfig, err := parseFlags(args, config.GetServerConfig())
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return err
	}

	// Initialize the repository using the factory
	repo, err := repository.NewRepository(config.GetRedisConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize repository: %w", err)
	}

	// Close the Redis connection properly on exit
	if closer, ok := repo.(interface{ Close() error }); ok {
		defer func() {
			if err := closer.Close(); err != nil {
				log.Printf("Error closing Redis connection: %v", err)
			}
		}()
	}

	rooms, err := seed.LoadRooms(serverConfig.RoomsFile)
	if err != nil {
		return err
	}
	if err := seed.Bootstrap(context.Background(), repo, rooms); err != nil {
		return err
	}

	meetings, err := seed.LoadMeetings(serverConfig.MeetingsFile)
	if err != nil {
		return err
	}

	location := serverConfig.Location()
	if serverConfig.Timezone != "" && location.String() != serverConfig.Timezone {
		log.Printf("Unknown timezone %q, using %s", serverConfig.Timezone, location)
	}

	// Initialize the service layer
	reservationService := service.NewReservationService(repo, service.WithLocation(location))

	// Push every booking to the live event stream
	publisher := web.NewEventPublisher()
	reservationService.RegisterUpdateCallback(publisher.NotifyReservation)

	mux := api.SetupRoutes(reservationService, meetings)
	mux.Handle("/events", publisher)

	server := &http.Server{
		Addr:         ":" + serverConfig.Port,
		Handler:      web.WrapMuxWithMiddleware(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // Disable write timeout for SSE connections
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)

	go func() {
		log.Printf("Starting meetingplanner server on port %s with %d rooms", serverConfig.Port, len(rooms))
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("error starting server: %w", err)

	case <-shutdown:
		log.Println("Shutting down server...")

		// Close SSE connections first, they would otherwise hold the shutdown
		publisher.Shutdown()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			server.Close()
			return fmt.Errorf("error shutting down server: %w", err)
		}

		log.Println("Server gracefully stopped")
	}
	return nil
}
