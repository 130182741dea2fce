package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/kahvecikaan/order-api/internal/domain"
	"github.com/kahvecikaan/order-api/internal/events"
	"github.com/kahvecikaan/order-api/internal/repository"
	httpTransport "github.com/kahvecikaan/order-api/internal/transport/http"
	websocketTransport "github.com/kahvecikaan/order-api/internal/transport/websocket"
	"github.com/nicholasjackson/env"
)

// Environment variables
var (
	bindAddress = env.String("BIND_ADDRESS", false,
		":9090", "Bind address for the server")
	logLevel = env.String("LOG_LEVEL", false,
		"info", "Log output level for the server [debug, info, trace]")
	databaseURL = env.String("DATABASE_URL", false,
		"mongodb://localhost:27017", "MongoDB connection string")
	databaseName = env.String("DATABASE_NAME", false,
		"orders", "MongoDB database name")
)

func main() {
	// A .env file is optional; real environment variables win either way.
	godotenv.Load()
	env.Parse()

	logger := hclog.New(&hclog.LoggerOptions{
		Name:  "order-api",
		Level: hclog.LevelFromString(*logLevel),
	})

	standardLogger := logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true})

	// Connect to the store before serving; handlers hold no state of their
	// own, everything lives behind the repositories.
	client, err := repository.Connect(context.Background(), *databaseURL)
	if err != nil {
		logger.Error("Unable to connect to database", "error", err)
		os.Exit(1)
	}
	logger.Info("Database connected")

	db := client.Database(*databaseName)
	if err := repository.EnsureIndexes(context.Background(), db); err != nil {
		logger.Error("Unable to create unique indexes", "error", err)
		os.Exit(1)
	}

	eventBus := events.NewBus[any]()
	validation := domain.NewValidation()

	productRepo := repository.NewMongoProductRepository(db)
	userRepo := repository.NewMongoUserRepository(db)
	orderRepo := repository.NewMongoOrderRepository(db)

	ph := httpTransport.NewProductHandler(productRepo, validation, eventBus, logger.Named("product-handler"))
	uh := httpTransport.NewUserHandler(userRepo, validation, eventBus, logger.Named("user-handler"))
	oh := httpTransport.NewOrderHandler(orderRepo, productRepo, userRepo, validation, eventBus, logger.Named("order-handler"))
	wsh := websocketTransport.NewHandler(logger.Named("websocket-handler"), eventBus)

	router := httpTransport.NewRouter(ph, uh, oh, wsh, logger)

	server := &http.Server{
		Addr:         *bindAddress,
		Handler:      router,
		ErrorLog:     standardLogger,
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Starting server", "bind_address", *bindAddress)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("Error starting server", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan
	logger.Info("Shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	server.Shutdown(shutdownCtx)

	if err := client.Disconnect(shutdownCtx); err != nil {
		logger.Error("Error disconnecting from database", "error", err)
	}
}
