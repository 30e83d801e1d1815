package mq

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedis(t *testing.T) *redis.Client {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStream_PublishSubscribe(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	producer := NewRedisProducer(client)
	require.NoError(t, producer.Publish(ctx, "wallet_events_tx_status", "sync-tx:01", []byte(`{"status":"committed"}`)))
	require.NoError(t, producer.Publish(ctx, "wallet_events_tx_status", "sync-tx:01", []byte(`{"status":"verified"}`)))

	consumer := NewRedisConsumer(client, "status_view", "view-0")
	consumer.block = 50 * time.Millisecond

	var (
		mu  sync.Mutex
		got []*Message
	)
	done := make(chan error, 1)
	go func() {
		done <- consumer.Subscribe(ctx, "wallet_events_tx_status", func(msg *Message) error {
			mu.Lock()
			defer mu.Unlock()
			got = append(got, msg)
			if len(got) == 2 {
				cancel()
			}
			return nil
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, got, 2)
	assert.Equal(t, "sync-tx:01", got[0].Key)
	assert.JSONEq(t, `{"status":"committed"}`, string(got[0].Payload))
	assert.JSONEq(t, `{"status":"verified"}`, string(got[1].Payload))
	assert.Equal(t, "wallet_events_tx_status", got[1].Topic)
}

func TestRedisStream_FailedMessageStaysPending(t *testing.T) {
	client := setupRedis(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, NewRedisProducer(client).Publish(ctx, "topic", "k", []byte("{}")))

	consumer := NewRedisConsumer(client, "g", "c")
	consumer.block = 50 * time.Millisecond

	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = consumer.Subscribe(ctx, "topic", func(*Message) error {
			cancel()
			return errors.New("handler failed")
		})
	}()
	<-done

	pending, err := client.XPending(context.Background(), "topic", "g").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), pending.Count)
}
