package listener

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fekuna/omnipos-catalog-service/internal/inventory"
	"github.com/fekuna/omnipos-catalog-service/internal/inventory/dto"
	"github.com/fekuna/omnipos-catalog-service/internal/model"
	"github.com/fekuna/omnipos-catalog-service/pkg/logger"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// InventoryListener keeps stock in step with product and order events.
type InventoryListener struct {
	consumer   MessageReader
	uc         inventory.UseCase
	logger     logger.ZapLogger
	retryDelay time.Duration
}

func NewInventoryListener(consumer MessageReader, uc inventory.UseCase, logger logger.ZapLogger) *InventoryListener {
	return &InventoryListener{
		consumer:   consumer,
		uc:         uc,
		logger:     logger,
		retryDelay: time.Second,
	}
}

func (l *InventoryListener) Start(ctx context.Context) {
	l.logger.Info("Starting Inventory Kafka Listener")
	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Stopping Inventory Kafka Listener")
			return
		default:
			msg, err := l.consumer.ReadMessage(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				l.logger.Error("Failed to read kafka message", zap.Error(err))
				select {
				case <-ctx.Done():
					return
				case <-time.After(l.retryDelay):
				}
				continue
			}
			l.processMessage(ctx, msg.Value)
		}
	}
}

type envelope struct {
	EventType string `json:"event_type"`
}

func (l *InventoryListener) processMessage(ctx context.Context, value []byte) {
	var env envelope
	if err := json.Unmarshal(value, &env); err != nil {
		l.logger.Error("Failed to unmarshal event", zap.Error(err))
		return
	}

	switch env.EventType {
	case model.EventProductCreated:
		var event model.ProductEvent
		if err := json.Unmarshal(value, &event); err != nil {
			l.logger.Error("Failed to unmarshal product event", zap.Error(err))
			return
		}
		l.handleProductCreated(ctx, event)
	case model.EventProductDeleted:
		var event model.ProductEvent
		if err := json.Unmarshal(value, &event); err != nil {
			l.logger.Error("Failed to unmarshal product event", zap.Error(err))
			return
		}
		if err := l.uc.RemoveProduct(ctx, event.Payload.VendorID, event.Payload.ProductID); err != nil {
			l.logger.Error("Failed to remove product inventory",
				zap.String("product_id", event.Payload.ProductID),
				zap.Error(err),
			)
		}
	case model.EventOrderCreated:
		var event model.OrderCreatedEvent
		if err := json.Unmarshal(value, &event); err != nil {
			l.logger.Error("Failed to unmarshal order event", zap.Error(err))
			return
		}
		l.handleOrderCreated(ctx, event)
	}
}

func (l *InventoryListener) handleProductCreated(ctx context.Context, event model.ProductEvent) {
	l.logger.Info("Processing ProductCreated event", zap.String("product_id", event.Payload.ProductID))
	if err := l.uc.SeedFromProduct(ctx, event.Payload); err != nil {
		l.logger.Error("Failed to seed inventory for product",
			zap.String("product_id", event.Payload.ProductID),
			zap.Error(err),
		)
	}
}

func (l *InventoryListener) handleOrderCreated(ctx context.Context, event model.OrderCreatedEvent) {
	l.logger.Info("Processing OrderCreated event", zap.String("order_id", event.Payload.ID))

	for _, item := range event.Payload.Items {
		input := &dto.AdjustInventoryInput{
			VendorID:       event.Payload.VendorID,
			WarehouseID:    event.Payload.WarehouseID,
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			QuantityChange: -item.Quantity,
			MovementType:   inventory.MovementSale,
			Reason:         "Order Sale",
			ReferenceID:    event.Payload.ID,
			ReferenceType:  "sale",
			UserID:         "system",
		}

		if _, err := l.uc.AdjustInventory(ctx, input); err != nil {
			l.logger.Error("Failed to adjust inventory for order item",
				zap.String("order_id", event.Payload.ID),
				zap.String("variant_id", item.VariantID),
				zap.Error(err),
			)
		}
	}
}
