package monitors

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

func RedisCheck(client redis.UniversalClient) Check {
	return func(ctx context.Context) error {
		if err := client.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("failed to ping redis: %w", err)
		}
		return nil
	}
}
