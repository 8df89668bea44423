package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"urban-bites/api-gateway/internal/auth"
	"urban-bites/api-gateway/internal/cart"
	"urban-bites/api-gateway/internal/gateway"
	"urban-bites/config"

	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	log "github.com/sirupsen/logrus"
)

type settings struct {
	Gateway        gateway.Config
	IdentitySecret string
	Addr           string
	RatePerSecond  float64
	RateBurst      int
	AllowedOrigins []string
}

func loadSettings() settings {
	return settings{
		Gateway: gateway.Config{
			RestaurantSvcURL: config.GetEnv("RESTAURANT_SVC_URL", "http://localhost:8081"),
			StatsSvcURL:      config.GetEnv("STATS_SVC_URL", "http://localhost:8083"),
			AdminEmail:       os.Getenv("ADMIN_EMAIL"),
		},
		IdentitySecret: os.Getenv("IDENTITY_SECRET"),
		Addr:           config.GetEnv("HTTP_ADDR", ":8080"),
		RatePerSecond:  envFloat("RATE_LIMIT_PER_SEC", 1),
		RateBurst:      int(envFloat("RATE_LIMIT_BURST", 5)),
		AllowedOrigins: []string{config.GetEnv("ALLOWED_ORIGIN", "http://localhost:3000")},
	}
}

func buildHandler(s settings, rdb *redis.Client, client gateway.HTTPClient) http.Handler {
	carts := cart.NewCarts(cart.NewRedisStore(rdb))
	gw := gateway.NewGateway(
		s.Gateway,
		client,
		carts,
		auth.NewVerifier(s.IdentitySecret),
		gateway.NewRateLimiter(s.RatePerSecond, s.RateBurst),
	)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})
	return c.Handler(gw.SetupRoutes())
}

func main() {
	config.Load()
	logger := config.InitLogger("api-gateway")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := loadSettings()
	if s.IdentitySecret == "" {
		log.Fatal("IDENTITY_SECRET must be set")
	}
	if s.Gateway.AdminEmail == "" {
		logger.Warn("ADMIN_EMAIL is not set, admin routes will reject every request")
	}

	rdb := config.MustInitRedis()
	defer rdb.Close()

	handler := buildHandler(s, rdb, &http.Client{Timeout: 10 * time.Second})
	if err := gateway.Serve(ctx, s.Addr, handler); err != nil {
		log.Fatal(err)
	}
}

func envFloat(key string, defaultValue float64) float64 {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(raw, 64)
	if err != nil || value <= 0 {
		log.Warnf("Ignoring invalid %s=%q", key, raw)
		return defaultValue
	}
	return value
}
