//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	c, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Terminate(ctx) })

	host, err := c.Host(ctx)
	require.NoError(t, err)
	port, err := c.MappedPort(ctx, "6379")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s:%s/0", host, port.Port())
}

func TestRateCache(t *testing.T) {
	ctx := context.Background()
	client, err := NewClient(ctx, setupRedis(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	c := NewRateCache(client)

	_, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "sin valor es un miss, no un error")

	require.NoError(t, c.Set(ctx, decimal.RequireFromString("1425.50"), time.Minute))
	rate, ok, err := c.Get(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, rate.Equal(decimal.RequireFromString("1425.5")))

	require.NoError(t, c.Set(ctx, decimal.NewFromInt(1), 50*time.Millisecond))
	time.Sleep(150 * time.Millisecond)
	_, ok, err = c.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "vence con el TTL")
}
