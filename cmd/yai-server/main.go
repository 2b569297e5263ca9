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

	"yai-assistant/internal/config"
	"yai-assistant/internal/credential"
	"yai-assistant/internal/logging"
	"yai-assistant/internal/provider"
	"yai-assistant/internal/server"
	"yai-assistant/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logs := logging.Setup(cfg.LogFile)
	defer logs.Close()

	if cfg.OpenAIAPIKey == "" {
		log.Println("warning: OPENAI_API_KEY is not set; /api/chat and /api/image will report a configuration error until provided")
	}

	persona, err := provider.LoadPersona(cfg.AssistantProfile)
	if err != nil {
		log.Fatalf("failed to load assistant profile: %v", err)
	}

	shutdownTracing, err := telemetry.Setup(context.Background(), cfg.TraceEndpoint)
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}

	gateways := provider.NewOpenAIFactory(provider.Options{
		BaseURL:    cfg.OpenAIBaseURL,
		Model:      cfg.Model,
		ImageModel: cfg.ImageModel,
		ImageSize:  cfg.ImageSize,
		Persona:    persona,
	})
	s := server.NewServer(cfg, credential.Static(cfg.OpenAIAPIKey), gateways)

	// Image generation can take well over a minute.
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      s.Router(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 3 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Printf("server shutdown: %v", err)
		}
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	log.Printf("YAI server listening on %s (model %s, image model %s)", srv.Addr, cfg.Model, cfg.ImageModel)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("server error: %v", err)
	}
}
