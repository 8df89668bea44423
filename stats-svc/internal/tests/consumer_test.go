package tests

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
	_ "time/tzdata"

	"urban-bites/stats-svc/internal/domain"
	"urban-bites/stats-svc/internal/mocks"
	"urban-bites/stats-svc/internal/service"

	"github.com/segmentio/kafka-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func london(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	return loc
}

func createdEvent() domain.OrderEvent {
	return domain.OrderEvent{
		Type:      domain.EventOrderCreated,
		OrderID:   "o1",
		Status:    "PENDING",
		Total:     decimal.NewFromInt(25),
		Items:     []domain.EventItem{{MenuItemID: "a", Name: "A", Quantity: 2, Price: decimal.NewFromInt(10)}},
		Timestamp: time.Date(2026, 6, 15, 23, 30, 0, 0, time.UTC),
	}
}

func TestConsumer_ProcessEvent(t *testing.T) {
	completed := createdEvent()
	completed.Type = domain.EventOrderStatusChanged
	completed.Status = "COMPLETED"
	completed.PreviousStatus = "READY"

	ready := completed
	ready.Status = "READY"
	ready.PreviousStatus = "PREPARING"

	unknown := createdEvent()
	unknown.Type = "order_refunded"

	missingID := createdEvent()
	missingID.OrderID = ""

	tests := []struct {
		name           string
		inputEvent     domain.OrderEvent
		setupMockStore func(*mocks.StoreInterface)
		expectError    bool
	}{
		{
			name:       "order created counts on the restaurant's local day",
			inputEvent: createdEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order_created:o1:PENDING").Return(true, nil).Once()
				mockStore.On("RecordOrderPlaced", mock.Anything, "2026-06-16", createdEvent()).Return(nil).Once()
			},
		},
		{
			name:       "completion counted",
			inputEvent: completed,
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order_status_changed:o1:COMPLETED").Return(true, nil).Once()
				mockStore.On("RecordOrderCompleted", mock.Anything, "2026-06-16").Return(nil).Once()
			},
		},
		{
			name:           "other transitions ignored",
			inputEvent:     ready,
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:           "unknown type ignored",
			inputEvent:     unknown,
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
		},
		{
			name:       "redelivery ignored",
			inputEvent: createdEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order_created:o1:PENDING").Return(false, nil).Once()
			},
		},
		{
			name:       "record failure releases the marker",
			inputEvent: createdEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, "order_created:o1:PENDING").Return(true, nil).Once()
				mockStore.On("RecordOrderPlaced", mock.Anything, "2026-06-16", mock.Anything).Return(errors.New("redis error")).Once()
				mockStore.On("UnmarkProcessed", mock.Anything, "order_created:o1:PENDING").Return(nil).Once()
			},
			expectError: true,
		},
		{
			name:       "dedup failure",
			inputEvent: createdEvent(),
			setupMockStore: func(mockStore *mocks.StoreInterface) {
				mockStore.On("MarkProcessed", mock.Anything, mock.Anything).Return(false, errors.New("redis down")).Once()
			},
			expectError: true,
		},
		{
			name:           "missing order id",
			inputEvent:     missingID,
			setupMockStore: func(mockStore *mocks.StoreInterface) {},
			expectError:    true,
		},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockStore := mocks.NewStoreInterface(t)
			testCase.setupMockStore(mockStore)

			consumer := service.NewConsumer(nil, mockStore, london(t))

			err := consumer.ProcessEvent(context.Background(), testCase.inputEvent)
			if testCase.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			mockStore.AssertExpectations(t)
		})
	}
}

func TestConsumer_StartSkipsMalformedAndStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	payload, err := json.Marshal(map[string]interface{}{
		"type":            "order_created",
		"order_id":        "o2",
		"status":          "PENDING",
		"previous_status": nil,
		"total":           12.5,
		"items":           []map[string]interface{}{{"menu_item_id": "b", "name": "B", "quantity": 1, "price": 12.5}},
		"timestamp":       "2026-06-16T12:00:00Z",
	})
	require.NoError(t, err)

	reader := mocks.NewMessageReader(t)
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: payload}, nil).Once()
	reader.On("ReadMessage", mock.Anything).Return(kafka.Message{Value: []byte("{")}, nil).Once()
	reader.On("ReadMessage", mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(kafka.Message{}, context.Canceled).Once()

	mockStore := mocks.NewStoreInterface(t)
	mockStore.On("MarkProcessed", mock.Anything, "order_created:o2:PENDING").Return(true, nil).Once()
	mockStore.On("RecordOrderPlaced", mock.Anything, "2026-06-16", mock.MatchedBy(func(event domain.OrderEvent) bool {
		return event.OrderID == "o2" && event.Total.Equal(decimal.RequireFromString("12.5")) && len(event.Items) == 1
	})).Return(nil).Once()

	consumer := service.NewConsumer(reader, mockStore, london(t))
	done := make(chan struct{})
	go func() {
		consumer.Start(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
}
