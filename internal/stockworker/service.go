package stockworker

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/meninadelaco/storefront/internal/catalog"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/redisx"
)

// Service applies placed orders to the catalog's stock counts. It is
// mounted as the consumer handler for the order.placed topic.
type Service struct {
	Provider     catalog.ProductStore
	Redis        *redis.Client
	StockChanged *kafkax.Producer
	StockLow     *kafkax.Producer
	ServiceName  string
}

// HandleOrderPlaced decrements stock for each line of a placed order.
// Duplicate deliveries are dropped via a Redis dedup key on event_id.
func (s *Service) HandleOrderPlaced(ctx context.Context, m kafkago.Message) error {
	var env catalog.Envelope
	if err := kafkax.UnmarshalEnvelope(m.Value, &env); err != nil {
		return err
	}
	if env.EventType != catalog.EventOrderPlaced {
		return nil
	}

	if s.Redis != nil {
		dkey := fmt.Sprintf(redisx.KeyDedup, "stockworker", env.EventID)
		exists, _ := redisx.Exists(ctx, s.Redis, dkey)
		if exists {
			return nil
		}
		_ = s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()
	}

	p, err := kafkax.UnwrapPayload[catalog.OrderPlacedPayload](env.Payload)
	if err != nil {
		return err
	}

	for _, it := range p.Items {
		if it.ProductID == "" || it.Qty < 1 {
			continue
		}
		change, err := s.Provider.UpdateStock(ctx, it.ProductID, -it.Qty)
		if err != nil {
			// Unknown product in an old event is not retryable.
			log.Printf("stock apply %s: %v", it.ProductID, err)
			continue
		}
		if s.Redis != nil {
			// The api caches /products/{id}; drop the stale entry.
			_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyProduct, it.ProductID)).Err()
		}
		s.publishChanged(it.ProductID, change, env.TraceID, env.EventID)
		s.checkLow(ctx, it.ProductID, change, env.TraceID)
	}
	return nil
}

func (s *Service) publishChanged(productID string, change catalog.StockChange, trace, corr string) {
	if s.StockChanged == nil {
		return
	}
	ev := catalog.Envelope{
		EventID:       uuid.NewString(),
		EventType:     catalog.EventStockChanged,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: corr,
		Payload: kafkax.MustMarshal(catalog.StockChangedPayload{
			ProductID:        productID,
			PreviousQuantity: change.PreviousQuantity,
			NewQuantity:      change.NewQuantity,
			InStock:          change.NewQuantity > 0,
		}),
	}
	s.StockChanged.Publish(catalog.PartitionKey(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(catalog.EventStockChanged)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}

func (s *Service) checkLow(ctx context.Context, productID string, change catalog.StockChange, trace string) {
	if s.StockLow == nil {
		return
	}
	p, err := s.Provider.GetProduct(ctx, productID)
	if err != nil || change.NewQuantity >= p.LowStockThreshold {
		return
	}
	ev := catalog.Envelope{
		EventID:       uuid.NewString(),
		EventType:     catalog.EventStockLow,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		TraceID:       trace,
		CorrelationID: productID,
		Payload: kafkax.MustMarshal(catalog.StockLowPayload{
			ProductID: productID,
			Name:      p.Name,
			Quantity:  change.NewQuantity,
			Threshold: p.LowStockThreshold,
		}),
	}
	s.StockLow.Publish(catalog.PartitionKey(productID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(catalog.EventStockLow)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
}
