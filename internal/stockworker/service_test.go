package stockworker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meninadelaco/storefront/internal/catalog"
	kafkax "github.com/meninadelaco/storefront/internal/kafka"
	"github.com/meninadelaco/storefront/internal/memory"
)

func placedMessage(t *testing.T, eventID string, items []catalog.OrderPlacedItem) kafkago.Message {
	t.Helper()
	env := catalog.Envelope{
		EventID:      eventID,
		EventType:    catalog.EventOrderPlaced,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "test",
		Payload: kafkax.MustMarshal(catalog.OrderPlacedPayload{
			OrderID: "order-x", OrderNumber: "PED-X", Items: items, TotalCents: 1000,
		}),
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)
	return kafkago.Message{Key: []byte("order-x"), Value: b}
}

func TestHandleOrderPlacedDecrementsStock(t *testing.T) {
	store := memory.New()
	svc := &Service{Provider: store, ServiceName: "test"}
	ctx := context.Background()

	msg := placedMessage(t, "ev-1", []catalog.OrderPlacedItem{
		{ProductID: "prod-laco-rosa", Qty: 2},
		{ProductID: "prod-kit-arco-iris", Qty: 1},
	})
	require.NoError(t, svc.HandleOrderPlaced(ctx, msg))

	p, err := store.GetProduct(ctx, "prod-laco-rosa")
	require.NoError(t, err)
	assert.Equal(t, 13, p.StockQuantity)

	p, err = store.GetProduct(ctx, "prod-kit-arco-iris")
	require.NoError(t, err)
	assert.Equal(t, 11, p.StockQuantity)
}

func TestHandleOrderPlacedSkipsBadItems(t *testing.T) {
	store := memory.New()
	svc := &Service{Provider: store, ServiceName: "test"}
	ctx := context.Background()

	msg := placedMessage(t, "ev-2", []catalog.OrderPlacedItem{
		{ProductID: "", Qty: 3},
		{ProductID: "prod-laco-rosa", Qty: 0},
		{ProductID: "prod-missing", Qty: 1},
		{ProductID: "prod-laco-rosa", Qty: 1},
	})
	require.NoError(t, svc.HandleOrderPlaced(ctx, msg), "unknown products are logged, not retried")

	p, err := store.GetProduct(ctx, "prod-laco-rosa")
	require.NoError(t, err)
	assert.Equal(t, 14, p.StockQuantity, "only the valid line applies")
}

func TestHandleOrderPlacedIgnoresOtherEventTypes(t *testing.T) {
	store := memory.New()
	svc := &Service{Provider: store, ServiceName: "test"}

	env := catalog.Envelope{
		EventID:   "ev-3",
		EventType: catalog.EventContactSent,
		Payload:   json.RawMessage(`{}`),
	}
	b, err := json.Marshal(env)
	require.NoError(t, err)

	require.NoError(t, svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: b}))
	p, _ := store.GetProduct(context.Background(), "prod-laco-rosa")
	assert.Equal(t, 15, p.StockQuantity)
}

func TestHandleOrderPlacedRejectsMalformedEnvelope(t *testing.T) {
	svc := &Service{Provider: memory.New(), ServiceName: "test"}
	err := svc.HandleOrderPlaced(context.Background(), kafkago.Message{Value: []byte("{not json")})
	assert.Error(t, err, "a poison message must surface so the consumer can decide")
}

// commandLog intercepts every redis command before it reaches the
// network, so a test can observe cache traffic without a server.
type commandLog struct{ cmds *[]string }

func (h commandLog) DialHook(next redis.DialHook) redis.DialHook { return next }

func (h commandLog) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		*h.cmds = append(*h.cmds, fmt.Sprint(cmd.Args()))
		return nil
	}
}

func (h commandLog) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error { return nil }
}

func TestHandleOrderPlacedInvalidatesProductCache(t *testing.T) {
	var cmds []string
	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	rdb.AddHook(commandLog{cmds: &cmds})

	store := memory.New()
	svc := &Service{Provider: store, Redis: rdb, ServiceName: "test"}

	msg := placedMessage(t, "ev-cache", []catalog.OrderPlacedItem{
		{ProductID: "prod-laco-rosa", Qty: 1},
	})
	require.NoError(t, svc.HandleOrderPlaced(context.Background(), msg))

	assert.Contains(t, cmds, "[del product:prod-laco-rosa]",
		"the api's read cache must not serve stale stock")
}

func TestHandleOrderPlacedAllowsOversell(t *testing.T) {
	store := memory.New()
	svc := &Service{Provider: store, ServiceName: "test"}
	ctx := context.Background()

	msg := placedMessage(t, "ev-4", []catalog.OrderPlacedItem{
		{ProductID: "prod-laco-perolas", Qty: 10}, // stock is 8
	})
	require.NoError(t, svc.HandleOrderPlaced(ctx, msg))

	p, err := store.GetProduct(ctx, "prod-laco-perolas")
	require.NoError(t, err)
	assert.Equal(t, -2, p.StockQuantity)
	assert.False(t, p.InStock)
}
