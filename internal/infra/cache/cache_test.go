package cache

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type item struct {
	Name string `json:"name"`
}

func TestCache_DisabledIsPassThrough(t *testing.T) {
	ctx := context.Background()
	c := New(ctx, Options{}, nopLogger{})

	assert.False(t, c.Enabled())
	c.SetJSON(ctx, "k", item{Name: "vase"}, time.Minute)

	var got item
	assert.False(t, c.GetJSON(ctx, "k", &got))
	c.Delete(ctx, "k")
	assert.NoError(t, c.Close())
}

func TestCache_NilReceiver(t *testing.T) {
	var c *Cache
	var got item
	assert.False(t, c.Enabled())
	assert.False(t, c.GetJSON(context.Background(), "k", &got))
}

func TestCache_UnreachableRedisMisses(t *testing.T) {
	ctx := context.Background()
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewWithClient(client, nopLogger{})
	defer c.Close()

	c.SetJSON(ctx, "k", item{Name: "vase"}, time.Minute)

	var got item
	assert.False(t, c.GetJSON(ctx, "k", &got))
	assert.Empty(t, got.Name)
}
