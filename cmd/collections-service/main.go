package main

import (
	"fmt"
	"os"

	"github.com/nurpe/fleet-collections/internal/auth"
	"github.com/nurpe/fleet-collections/internal/config"
	"github.com/nurpe/fleet-collections/internal/db"
	"github.com/nurpe/fleet-collections/internal/excel"
	httphandler "github.com/nurpe/fleet-collections/internal/http"
	"github.com/nurpe/fleet-collections/internal/http/middleware"
	"github.com/nurpe/fleet-collections/internal/logger"
	"github.com/nurpe/fleet-collections/internal/pdf"
	"github.com/nurpe/fleet-collections/internal/repository"
	"github.com/nurpe/fleet-collections/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	database, err := db.New(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	vehicleRepo := repository.NewVehicleRepository(database)
	collectionRepo := repository.NewCollectionRepository(database)
	addressRepo := repository.NewAddressRepository(database)
	clientRepo := repository.NewClientRepository(database)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	excelGenerator := excel.NewGenerator()

	collectionService := service.NewCollectionService(vehicleRepo, collectionRepo, addressRepo, cfg)
	summaryService := service.NewSummaryService(vehicleRepo, collectionRepo, addressRepo, clientRepo, pdfGenerator, log)
	financeService := service.NewFinanceService(clientRepo, excelGenerator, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(collectionService, summaryService, financeService, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting collections service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
