package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"urban-bites/stats-svc/internal/domain"

	log "github.com/sirupsen/logrus"
)

type Consumer struct {
	Reader   MessageReader
	Store    StoreInterface
	Location *time.Location
}

func NewConsumer(reader MessageReader, store StoreInterface, loc *time.Location) *Consumer {
	if loc == nil {
		loc = time.UTC
	}
	return &Consumer{
		Reader:   reader,
		Store:    store,
		Location: loc,
	}
}

// Start reads order events until ctx is cancelled.
func (c *Consumer) Start(ctx context.Context) {
	log.Info("Starting order event consumer")
	for {
		message, err := c.Reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("Order event consumer stopped")
				return
			}
			log.WithError(err).Error("Error reading message")
			select {
			case <-ctx.Done():
				return
			case <-time.After(time.Second):
			}
			continue
		}

		var event domain.OrderEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.WithError(err).WithField("offset", message.Offset).Warn("Skipping malformed order event")
			continue
		}

		if err := c.ProcessEvent(ctx, event); err != nil {
			log.WithError(err).WithField("order_id", event.OrderID).Error("Failed to process order event")
		}
	}
}

// ProcessEvent folds one event into the day it happened on, in the restaurant's time zone.
// Redelivered events are counted once.
func (c *Consumer) ProcessEvent(ctx context.Context, event domain.OrderEvent) error {
	var record func(day string) error
	switch {
	case event.Type == domain.EventOrderCreated:
		record = func(day string) error { return c.Store.RecordOrderPlaced(ctx, day, event) }
	case event.Type == domain.EventOrderStatusChanged && event.Status == domain.StatusCompleted:
		record = func(day string) error { return c.Store.RecordOrderCompleted(ctx, day) }
	default:
		return nil
	}
	if event.OrderID == "" {
		return errors.New("order event without order id")
	}

	key := event.Type + ":" + event.OrderID + ":" + event.Status
	fresh, err := c.Store.MarkProcessed(ctx, key)
	if err != nil {
		return err
	}
	if !fresh {
		log.WithField("order_id", event.OrderID).Debug("Duplicate order event ignored")
		return nil
	}

	day := c.day(event.Timestamp)
	if err := record(day); err != nil {
		if unmarkErr := c.Store.UnmarkProcessed(ctx, key); unmarkErr != nil {
			log.WithError(unmarkErr).WithField("order_id", event.OrderID).Warn("Failed to release dedup marker")
		}
		return fmt.Errorf("record %s: %w", event.Type, err)
	}

	log.WithFields(log.Fields{"order_id": event.OrderID, "type": event.Type, "day": day}).Info("Order event recorded")
	return nil
}

func (c *Consumer) day(ts time.Time) string {
	if ts.IsZero() {
		ts = time.Now()
	}
	return ts.In(c.Location).Format(domain.DayLayout)
}
