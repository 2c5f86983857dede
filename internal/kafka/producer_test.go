package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// The stockworker shuts down with cancel() first and Close() after; the
// loop has already closed the inbox by then, so Close must tolerate it.
func TestCloseAfterContextCancel(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	ctx, cancel := context.WithCancel(context.Background())
	p.Start(ctx)

	cancel()
	time.Sleep(50 * time.Millisecond)

	assert.NotPanics(t, func() { p.Close() })
	done := make(chan struct{})
	go func() { p.WaitClosed(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("producer never finished closing")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	p := NewProducer([]string{"localhost:9092"}, "test.topic", 8)
	p.Start(context.Background())

	assert.NotPanics(t, func() {
		p.Close()
		p.Close()
	})
	p.WaitClosed()
}
