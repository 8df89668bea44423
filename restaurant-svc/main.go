package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"urban-bites/config"
	httpapi "urban-bites/restaurant-svc/internal/api/http"
	"urban-bites/restaurant-svc/internal/service"
	"urban-bites/restaurant-svc/internal/storage"

	log "github.com/sirupsen/logrus"
)

func main() {
	config.Load()
	logger := config.InitLogger("restaurant-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db := config.MustInitPostgres()
	defer db.Close()

	repo := storage.NewPostgresRepository(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		log.Fatal("Failed to ensure schema:", err)
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	writer := config.NewKafkaWriter(config.GetEnv("ORDER_EVENTS_TOPIC", config.DefaultOrderEventsTopic))
	defer writer.Close()

	menuService := service.NewMenuService(repo)
	orderService := service.NewOrderService(
		repo,
		storage.NewRedisCache(rdb, storage.DefaultOrderViewsTTL),
		storage.NewKafkaPublisher(writer),
		service.DefaultQRGenerator{BaseURL: config.GetEnv("PUBLIC_BASE_URL", "http://localhost:3000")},
	)
	reservationService := service.NewReservationService(repo, config.Location())
	dashboardService := service.NewDashboardService(repo)

	if config.GetEnv("SEED_MENU", "false") == "true" {
		seeded, err := seedMenu(ctx, menuService)
		if err != nil {
			log.Fatal("Failed to seed menu:", err)
		}
		logger.WithField("items", seeded).Info("Menu seed finished")
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		logger.Warn("ADMIN_EMAIL is not set, admin routes will reject every request")
	}

	handler := httpapi.NewHandler(menuService, orderService, reservationService, dashboardService, adminEmail)
	if err := httpapi.StartServer(ctx, config.GetEnv("HTTP_ADDR", ":8081"), httpapi.NewRouter(handler)); err != nil {
		log.Fatal(err)
	}
}
