package main

import (
	"context"
	"errors"
	"flag"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashendes/pos-terminal/internal/checkout"
	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/ashendes/pos-terminal/internal/notify"
	"github.com/ashendes/pos-terminal/internal/orderapi"
	"github.com/ashendes/pos-terminal/internal/ordernum"
	"github.com/ashendes/pos-terminal/internal/pos"
	"github.com/ashendes/pos-terminal/internal/receipt"
	"github.com/ashendes/pos-terminal/internal/terminal"
	log "github.com/sirupsen/logrus"
)

const eventLogSize = 200

func main() {
	var (
		configPath = flag.String("config", "", "Path to a YAML config file")
		printTo    = flag.String("printer", "", "File printed receipts are appended to (default stdout)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.WithError(err).Fatal("Failed to load configuration")
	}
	if err := config.ConfigureLogging(cfg.Log); err != nil {
		log.WithError(err).Fatal("Failed to configure logging")
	}

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info("Received shutdown signal")
		cancel()
	}()

	printer, closePrinter, err := openPrinter(*printTo)
	if err != nil {
		log.WithError(err).Fatal("Failed to open printer output")
	}
	defer closePrinter()

	if err := run(ctx, cfg, printer); err != nil {
		log.WithError(err).Fatal("POS terminal failed")
	}
}

func openPrinter(path string) (io.Writer, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { _ = f.Close() }, nil
}

func run(ctx context.Context, cfg *config.Config, printer io.Writer) error {
	orders := orderapi.NewClient(cfg.OrderService)

	notifier := notify.NewNotifier(cfg.Workflow.NotificationTTL)
	defer notifier.Stop()
	events := notify.NewRecorder(eventLogSize)
	notifier.Subscribe(events.Record)

	sender := receipt.NewEmailJSSender(cfg.Email)
	if err := sender.Validate(); err != nil {
		log.WithError(err).Warn("Email receipts are disabled until the email settings are filled in")
	}
	dispatcher := receipt.NewDispatcher(sender, receipt.StoreInfo{
		Name:    cfg.Store.Name,
		Address: cfg.Store.Address,
		Contact: cfg.Store.Contact,
	})

	numberStore, err := ordernum.NewStore(cfg.Numbering)
	if err != nil {
		return err
	}
	if closer, ok := numberStore.(io.Closer); ok {
		defer closer.Close()
	}
	numbers := ordernum.NewAllocator(numberStore, cfg.Numbering.ResetHour)
	go numbers.Run(ctx, cfg.Numbering.CheckInterval)

	store := pos.NewStore(orders, notifier)
	modals := modal.NewManager()
	ctrl := checkout.NewController(store, modals, notifier, dispatcher, numbers, cfg.Workflow)
	defer ctrl.Close()

	if err := store.ReloadHeldOrders(ctx); err != nil {
		log.WithError(err).Warn("Could not load held orders at startup")
	}

	session := &terminal.Session{
		Store:    store,
		Checkout: ctrl,
		Modals:   modals,
		Notifier: notifier,
		Events:   events,
		Numbers:  numbers,
		Receipts: dispatcher,
		Menu:     terminal.DefaultMenu,
		Orders:   orders,
	}

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           terminal.NewServer(session, printer).Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(log.Fields{
			"addr":          server.Addr,
			"order_service": cfg.OrderService.BaseURL,
			"numbering":     cfg.Numbering.Backend,
		}).Info("POS terminal starting")

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	log.Info("Shutting down POS terminal")
	return server.Shutdown(shutdownCtx)
}
