package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNewPoolInvalidURL(t *testing.T) {
	_, err := NewPool(context.Background(), PoolConfig{DatabaseURL: "not-a-url"})
	assert.Error(t, err)
}

func TestNewPoolPingFailure(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := NewPool(ctx, PoolConfig{
		DatabaseURL: "postgres://invalid@127.0.0.1:1/db?connect_timeout=1",
		MaxConns:    1,
	})
	assert.Error(t, err)
}
