package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"rentbook/internal/amqp"
	"rentbook/internal/config"
	"rentbook/internal/core"
	apphttp "rentbook/internal/http"
	"rentbook/internal/log"
	"rentbook/internal/notify"
	"rentbook/internal/services"
	"rentbook/internal/storage"
	"rentbook/internal/store"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logger := log.New(log.DefaultConfig())
	log.SetDefault(logger)

	logger.Info("Starting rentbook server")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository",
			log.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP is optional. Without it snapshots still land in SQLite and
	// reach the mirror through the worker's periodic backfill.
	var publisher storage.ChangePublisher
	if cfg.AMQPURL != "" {
		amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing without broker",
				log.FieldError, err)
		} else {
			defer amqpClient.Close()
			publisher = amqpClient
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled - snapshot changes will not be announced")
	}

	notifier := notify.NewLogNotifier(logger)

	expenses := store.NewExpenseStore(
		storage.NewSnapshotSink[core.ExpenseRecord](repo, publisher, storage.DomainExpenses, logger),
		notifier)
	transactions := store.NewTransactionStore(
		storage.NewSnapshotSink[core.Transaction](repo, publisher, storage.DomainTransactions, logger),
		notifier)
	rents := store.NewRentStore(
		storage.NewSnapshotSink[core.RentPayment](repo, publisher, storage.DomainRentPayments, logger),
		notifier)
	properties := store.NewPropertyStore(
		storage.NewSnapshotSink[core.Property](repo, publisher, storage.DomainProperties, logger),
		notifier)

	listSink := storage.NewSnapshotSink[core.SharedList](repo, publisher, storage.DomainSharedLists, logger)
	taskSink := storage.NewSnapshotSink[core.SharedTask](repo, publisher, storage.DomainSharedTasks, logger)
	ideaSink := storage.NewSnapshotSink[core.SharedIdea](repo, publisher, storage.DomainSharedIdeas, logger)
	hub := store.NewHub(cfg.HubUser, func(ctx context.Context, lists []core.SharedList, tasks []core.SharedTask, ideas []core.SharedIdea) {
		if lists != nil {
			listSink(ctx, lists)
		}
		if tasks != nil {
			taskSink(ctx, tasks)
		}
		if ideas != nil {
			ideaSink(ctx, ideas)
		}
	}, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := hydrate(ctx, repo, expenses, transactions, rents, properties, hub); err != nil {
		logger.Error("Failed to hydrate stores from snapshots", log.FieldError, err)
		os.Exit(1)
	}

	// Recurring generation runs in-process against the authoritative
	// store. A separate generator process would race the server: both
	// would rewrite the whole expenses snapshot, and the server's next
	// mutation would erase whatever the other wrote. The server is the
	// only writer of its collections.
	processor := services.NewRecurringProcessor(expenses, logger)
	if count, err := processor.ProcessDueExpenses(ctx, time.Now()); err != nil {
		logger.Error("Startup recurring processing failed", log.FieldError, err)
	} else if count > 0 {
		logger.Info("Startup recurring processing complete", "expenses_created", count)
	}

	go func() {
		ticker := time.NewTicker(cfg.RecurringInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				count, err := processor.ProcessDueExpenses(ctx, now)
				if err != nil {
					logger.Error("Recurring processing failed", log.FieldError, err)
					continue
				}
				if count > 0 {
					logger.Info("Recurring processing complete",
						"expenses_created", count,
						"next_check", now.Add(cfg.RecurringInterval).Format("15:04:05"))
				}
			}
		}
	}()

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Stores{
		Expenses:     expenses,
		Transactions: transactions,
		Rents:        rents,
		Properties:   properties,
		Hub:          hub,
	}, logger)

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", log.FieldError, err)
		}
		cancel()
	}()

	logger.Info("Starting rentbook server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Error("Server error", log.FieldError, err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}

// hydrate restores every collection from its persisted snapshot.
func hydrate(ctx context.Context, repo *storage.SQLiteRepository,
	expenses *store.ExpenseStore, transactions *store.TransactionStore,
	rents *store.RentStore, properties *store.PropertyStore, hub *store.Hub) error {

	expenseItems, err := storage.Hydrate[core.ExpenseRecord](ctx, repo, storage.DomainExpenses)
	if err != nil {
		return err
	}
	expenses.Replace(expenseItems)

	txItems, err := storage.Hydrate[core.Transaction](ctx, repo, storage.DomainTransactions)
	if err != nil {
		return err
	}
	transactions.Replace(txItems)

	rentItems, err := storage.Hydrate[core.RentPayment](ctx, repo, storage.DomainRentPayments)
	if err != nil {
		return err
	}
	rents.Replace(rentItems)

	propertyItems, err := storage.Hydrate[core.Property](ctx, repo, storage.DomainProperties)
	if err != nil {
		return err
	}
	properties.Replace(propertyItems)

	lists, err := storage.Hydrate[core.SharedList](ctx, repo, storage.DomainSharedLists)
	if err != nil {
		return err
	}
	tasks, err := storage.Hydrate[core.SharedTask](ctx, repo, storage.DomainSharedTasks)
	if err != nil {
		return err
	}
	ideas, err := storage.Hydrate[core.SharedIdea](ctx, repo, storage.DomainSharedIdeas)
	if err != nil {
		return err
	}
	hub.Replace(lists, tasks, ideas)

	return nil
}
