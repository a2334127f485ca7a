package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func received(ch <-chan struct{}) bool {
	select {
	case <-ch:
		return true
	case <-time.After(50 * time.Millisecond):
		return false
	}
}

func TestHub_FansOutToEverySubscriber(t *testing.T) {
	hub := NewHub()

	first, unsubFirst := hub.Subscribe()
	defer unsubFirst()
	second, unsubSecond := hub.Subscribe()
	defer unsubSecond()

	hub.Publish(context.Background())

	assert.True(t, received(first))
	assert.True(t, received(second))
}

func TestHub_CoalescesBursts(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	for i := 0; i < 100; i++ {
		hub.Publish(context.Background())
	}

	assert.True(t, received(ch))
	assert.False(t, received(ch))
}

func TestHub_PublishNeverBlocks(t *testing.T) {
	hub := NewHub()
	_, unsubscribe := hub.Subscribe()
	defer unsubscribe()

	done := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			hub.Publish(context.Background())
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a subscriber that never reads")
	}
}

func TestHub_Unsubscribe(t *testing.T) {
	hub := NewHub()

	ch, unsubscribe := hub.Subscribe()
	assert.Equal(t, 1, hub.Subscribers())

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, hub.Subscribers())

	hub.Publish(context.Background())
	assert.False(t, received(ch))
}
