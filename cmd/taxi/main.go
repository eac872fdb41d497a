package main

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/config"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/database"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/health"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/logger"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/middleware"
	nsqpkg "github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/nsq"
	"github.com/Mihajlo-Milanovic/Taxi-App/internal/pkg/server"
	"github.com/Mihajlo-Milanovic/Taxi-App/services/dispatch"
	driverHandler "github.com/Mihajlo-Milanovic/Taxi-App/services/drivers/handler"
	driverRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/drivers/repository"
	driverUsecase "github.com/Mihajlo-Milanovic/Taxi-App/services/drivers/usecase"
	passengerHandler "github.com/Mihajlo-Milanovic/Taxi-App/services/passengers/handler"
	passengerRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/passengers/repository"
	passengerUsecase "github.com/Mihajlo-Milanovic/Taxi-App/services/passengers/usecase"
	rideGateway "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/gateway"
	rideHandler "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/handler"
	rideRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/repository"
	rideUsecase "github.com/Mihajlo-Milanovic/Taxi-App/services/rides/usecase"
	vehicleGateway "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/gateway"
	vehicleHandler "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/handler"
	vehicleRepository "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/repository"
	vehicleUsecase "github.com/Mihajlo-Milanovic/Taxi-App/services/vehicles/usecase"
)

func main() {
	appName := "taxi-service"
	configPath := "config/taxi.env"
	configs := config.InitConfig(configPath)

	appLogger, err := logger.NewAppLogger(configs.Logger)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer appLogger.Close()
	logger.SetGlobalLogger(appLogger)

	logger.Info("Starting application", logger.Fields{
		"app":         appName,
		"version":     configs.App.Version,
		"environment": configs.App.Environment,
	})

	// Initialize Redis client
	redisClient, err := database.NewRedisClient(configs.Redis)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to Redis")
	}
	defer redisClient.Close()

	// Initialize NSQ producer
	producer, err := nsqpkg.NewProducer(configs.NSQ.NSQDAddress)
	if err != nil {
		appLogger.WithError(err).Fatal("Failed to connect to NSQ")
	}
	defer producer.Stop()

	// Initialize repositories
	rideRepo := rideRepository.NewRideRepository(redisClient)
	vehicleRepo := vehicleRepository.NewVehicleRepository(redisClient)
	driverRepo := driverRepository.NewDriverRepository(redisClient)
	passengerRepo := passengerRepository.NewPassengerRepository(redisClient)

	// Initialize gateways
	rideGW := rideGateway.NewRideGW(producer)
	vehicleGW := vehicleGateway.NewVehicleGW(producer)

	// Initialize usecases
	driverUC := driverUsecase.NewDriverUC(driverRepo, rideRepo)
	passengerUC := passengerUsecase.NewPassengerUC(passengerRepo)
	vehicleUC := vehicleUsecase.NewVehicleUC(configs, vehicleRepo, driverRepo, rideRepo, vehicleGW)
	rideUC := rideUsecase.NewRideUC(configs, rideRepo, passengerRepo, vehicleUC, rideGW)

	// Initialize the dispatcher and its event consumers
	dispatchCtx, cancelDispatch := context.WithCancel(context.Background())
	defer cancelDispatch()

	dispatcher := dispatch.NewDispatcher(configs, rideUC, vehicleUC)
	dispatchHandler := dispatch.NewHandler(configs, dispatcher)
	if err := dispatchHandler.InitConsumers(dispatchCtx); err != nil {
		appLogger.WithError(err).Fatal("Failed to initialize dispatch consumers")
	}

	// Initialize Echo server
	e := echo.New()
	e.HideBanner = true

	// Panic recovery must run first
	e.Use(middleware.PanicRecoveryMiddleware())
	e.Use(middleware.RequestIDMiddleware())
	e.Use(middleware.RequestLoggerMiddleware())

	health.RegisterHealthEndpoints(e, appName)

	rideHandler.NewHandler(rideUC).RegisterRoutes(e)
	vehicleHandler.NewVehicleHandler(vehicleUC).RegisterRoutes(e)
	driverHandler.NewDriverHandler(driverUC).RegisterRoutes(e)
	passengerHandler.NewPassengerHandler(passengerUC).RegisterRoutes(e)

	// Cleanup runs in registration order after the HTTP server drains
	shutdownManager := server.NewShutdownManager()
	shutdownManager.Register(func(ctx context.Context) error {
		cancelDispatch()
		dispatchHandler.Stop()
		return nil
	})
	shutdownManager.Register(func(ctx context.Context) error {
		producer.Stop()
		return nil
	})
	shutdownManager.Register(func(ctx context.Context) error {
		return redisClient.Close()
	})

	gracefulServer := server.NewGracefulServer(e, configs.Server.Port)
	if err := gracefulServer.Start(); err != nil {
		appLogger.WithError(err).Error("Server stopped with error")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(),
		time.Duration(configs.Server.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := shutdownManager.Shutdown(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Shutdown completed with errors")
	}
}
