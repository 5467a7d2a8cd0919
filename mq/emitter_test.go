package mq

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"mingle/rdx"
)

func TestEmitReachesWorker(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := rdx.Connect(context.Background(), mr.Addr(), "")
	require.NoError(t, err)
	defer client.Close()

	e := NewEmitter(client, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	var got []Index
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.StartWorker(ctx, func(ev Index) {
			mu.Lock()
			got = append(got, ev)
			mu.Unlock()
		})
	}()

	// the subscription is established asynchronously, so keep publishing until one lands
	assert.Eventually(t, func() bool {
		e.Emit(ctx, PostCreated, Index{ActorID: "u1", EntityType: "post", EntityID: "p1"})
		mu.Lock()
		defer mu.Unlock()
		return len(got) > 0
	}, 2*time.Second, 20*time.Millisecond)

	mu.Lock()
	first := got[0]
	mu.Unlock()
	assert.Equal(t, PostCreated, first.Event)
	assert.Equal(t, "p1", first.EntityID)
	assert.False(t, first.At.IsZero())

	cancel()
	<-done
}

func TestEmitWithoutRedis(t *testing.T) {
	e := NewEmitter(nil, zap.NewNop())
	e.Emit(context.Background(), UserRegistered, Index{EntityID: "u1"})
	e.StartWorker(context.Background(), func(Index) { t.Fatal("no events expected") })

	var nilEmitter *Emitter
	nilEmitter.Emit(context.Background(), UserRegistered, Index{})
}
