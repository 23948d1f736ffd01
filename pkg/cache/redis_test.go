package cache

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-records/pkg/config"
)

func TestNewRedisPingsServer(t *testing.T) {
	server := miniredis.RunT(t)
	host, rawPort, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)
	port, err := strconv.Atoi(rawPort)
	require.NoError(t, err)

	client, err := NewRedis(context.Background(), config.RedisConfig{Host: host, Port: port})
	require.NoError(t, err)
	defer client.Close() //nolint:errcheck

	require.NoError(t, client.Set(context.Background(), "k", "v", 0).Err())
	value, err := server.Get("k")
	require.NoError(t, err)
	assert.Equal(t, "v", value)
}

func TestNewRedisFailsWhenUnreachable(t *testing.T) {
	server := miniredis.RunT(t)
	host, rawPort, err := net.SplitHostPort(server.Addr())
	require.NoError(t, err)
	port, _ := strconv.Atoi(rawPort)
	server.Close()

	_, err = NewRedis(context.Background(), config.RedisConfig{Host: host, Port: port})
	assert.Error(t, err)
}

func TestAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", Addr(config.RedisConfig{Host: "localhost", Port: 6379}))
}
