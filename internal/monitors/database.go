// Package monitors probes the services the API depends on.
package monitors

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Check probes one dependency. A nil error means it is reachable.
type Check func(ctx context.Context) error

// DatabaseCheck pings the connection pool behind conn.
func DatabaseCheck(conn *gorm.DB) Check {
	return func(ctx context.Context) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return fmt.Errorf("failed to get database handle: %w", err)
		}

		if err := sqlDB.PingContext(ctx); err != nil {
			return fmt.Errorf("failed to ping database: %w", err)
		}

		return nil
	}
}
