package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"flickr-embed/admin"
	"flickr-embed/embed"
	"flickr-embed/flickr"
	"flickr-embed/settings"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	if os.Getenv("APP_ENV") == "development" {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	slog.SetDefault(logger)

	err := godotenv.Load(".env", ".env.local")
	if err != nil {
		slog.Info("no dotenv", "err", err)
	}

	backend, closeBackend, err := settings.OpenBackend(ctx)
	if err != nil {
		log.Fatal(err)
	}
	defer closeBackend()

	flickrEndpoint := os.Getenv("FLICKR_ENDPOINT")
	retries := uint64(envInt("FLICKR_RETRIES", 0))

	validator := flickr.New(flickr.Config{Endpoint: flickrEndpoint, Retries: retries})
	store := settings.NewStore(backend, validator)
	fc := flickr.New(flickr.Config{
		Credentials: store,
		Endpoint:    flickrEndpoint,
		Retries:     retries,
	})

	renderer := &embed.Renderer{
		Photos:       fc,
		ContentWidth: envInt("CONTENT_WIDTH", 0),
		Concurrency:  embed.DefaultConcurrency,
	}

	adminHost := os.Getenv("ADMIN_HOST")
	if adminHost == "" {
		adminHost = "0.0.0.0"
	}
	adminPort := os.Getenv("ADMIN_PORT")
	if adminPort == "" {
		adminPort = "8080"
	}

	err = admin.Serve(ctx, renderer, store, adminHost+":"+adminPort)
	if err != nil {
		log.Fatal(err)
	}
}

func envInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Fatalf("%s must be a non-negative integer", key)
	}
	return n
}
