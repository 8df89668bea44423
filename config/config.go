package config

import (
	"context"
	"database/sql"
	"os"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const DefaultOrderEventsTopic = "order-events"

// Load reads an optional .env file into the process environment.
// Variables already set in the environment win.
func Load(files ...string) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// InitLogger switches the standard logrus logger to JSON output tagged with the service name.
func InitLogger(service string) *log.Entry {
	log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339})
	log.SetOutput(os.Stdout)
	if level, err := log.ParseLevel(GetEnv("LOG_LEVEL", "info")); err == nil {
		log.SetLevel(level)
	}
	return log.WithField("service", service)
}

// Location returns the restaurant's time zone used for calendar-day comparisons.
func Location() *time.Location {
	name := GetEnv("RESTAURANT_TZ", "UTC")
	loc, err := time.LoadLocation(name)
	if err != nil {
		log.WithError(err).Warnf("Unknown RESTAURANT_TZ %q, falling back to UTC", name)
		return time.UTC
	}
	return loc
}

func PostgresDSN() string {
	return "host=" + GetEnv("DB_HOST", "localhost") + " port=" + GetEnv("DB_PORT", "5432") +
		" user=" + GetEnv("DB_USER", "postgres") + " password=" + os.Getenv("DB_PASSWORD") +
		" dbname=" + GetEnv("DB_NAME", "urban_bites") + " sslmode=" + GetEnv("DB_SSLMODE", "disable")
}

func MustInitPostgres() *sql.DB {
	db, err := sql.Open("postgres", PostgresDSN())
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	if err = db.Ping(); err != nil {
		log.Fatal("Failed to ping database:", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	return db
}

func MustInitRedis() *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: GetEnv("REDIS_HOST", "localhost") + ":" + GetEnv("REDIS_PORT", "6379"),
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}

	return client
}

func NewKafkaReader(topic, groupID string) *kafka.Reader {
	return kafka.NewReader(kafka.ReaderConfig{
		Brokers: []string{GetEnv("KAFKA_BROKER", "localhost:9092")},
		Topic:   topic,
		GroupID: groupID,
	})
}

func NewKafkaWriter(topic string) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(GetEnv("KAFKA_BROKER", "localhost:9092")),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		AllowAutoTopicCreation: true,
	}
}
