package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/orderbackend"
	log "github.com/sirupsen/logrus"
)

// A stand-in for the remote order service, for local runs of the terminal.
func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	backend := orderbackend.New(cfg.Backend.ChaosFailureRate)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Backend.Port),
		Handler:           backend.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithFields(log.Fields{
			"addr":       server.Addr,
			"chaos_rate": cfg.Backend.ChaosFailureRate,
		}).Info("Order Service starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server: ", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info("Shutting down Order Service")
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("Order Service shutdown failed")
	}
}
