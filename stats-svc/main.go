package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"urban-bites/config"
	httpapi "urban-bites/stats-svc/internal/api/http"
	"urban-bites/stats-svc/internal/service"
	"urban-bites/stats-svc/internal/storage"

	log "github.com/sirupsen/logrus"
)

func main() {
	config.Load()
	logger := config.InitLogger("stats-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis()
	defer rdb.Close()

	reader := config.NewKafkaReader(
		config.GetEnv("ORDER_EVENTS_TOPIC", config.DefaultOrderEventsTopic),
		config.GetEnv("KAFKA_GROUP_ID", "stats-svc-consumer"),
	)
	defer reader.Close()

	store := storage.NewStore(rdb)
	loc := config.Location()

	consumer := service.NewConsumer(reader, store, loc)
	go consumer.Start(ctx)

	adminEmail := os.Getenv("ADMIN_EMAIL")
	if adminEmail == "" {
		logger.Warn("ADMIN_EMAIL is not set, analytics routes will reject every request")
	}

	handler := httpapi.NewHandler(service.NewStatsService(store, loc), adminEmail)
	if err := httpapi.StartServer(ctx, config.GetEnv("HTTP_ADDR", ":8083"), httpapi.NewRouter(handler)); err != nil {
		log.Fatal(err)
	}
}
