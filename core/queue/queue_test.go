package queue

import (
	"context"
	"testing"

	"mediation-api/core/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopClientDropsTasks(t *testing.T) {
	id, err := NoopClient{}.Enqueue(context.Background(), Task{Type: "participant:changed"}, EnqueueOption{Queue: "participants"})
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.NoError(t, NoopClient{}.Close())
}

func TestAsynqConstructorsNeedRedis(t *testing.T) {
	_, err := NewAsynqClient(config.RedisConfig{})
	assert.Error(t, err)

	_, err = NewAsynqServer(config.RedisConfig{}, config.QueueConfig{Name: "participants"})
	assert.Error(t, err)
}

func TestAsynqClientRejectsUntypedTask(t *testing.T) {
	client, err := NewAsynqClient(config.RedisConfig{Addr: "127.0.0.1:0"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	_, err = client.Enqueue(context.Background(), Task{})
	assert.ErrorContains(t, err, "task type is required")
}
