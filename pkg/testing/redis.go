package testing

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

// RunRedis starts a throwaway redis container and waits until it answers pings.
// The caller closes the returned resource.
func RunRedis(pool *dockertest.Pool) (*dockertest.Resource, *redis.Client, error) {
	redisResource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "6.2",
	}, func(config *docker.HostConfig) {
		config.AutoRemove = true
		config.RestartPolicy = docker.RestartPolicy{
			Name: "no",
		}
	})
	if err != nil {
		return nil, nil, fmt.Errorf("run redis: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: net.JoinHostPort("localhost", redisResource.GetPort("6379/tcp")),
		DB:   0, // use default DB
	})

	pool.MaxWait = 30 * time.Second
	if err := pool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		return rdb.Ping(ctx).Err()
	}); err != nil {
		_ = redisResource.Close()
		return nil, nil, fmt.Errorf("ping redis: %w", err)
	}

	return redisResource, rdb, nil
}
