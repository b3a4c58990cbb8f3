package session

import (
	"context"
	"time"
)

// WatchExpiry runs CheckExpiry every interval until ctx is done.
func (m *Manager) WatchExpiry(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CheckExpiry(ctx)
		case <-ctx.Done():
			return
		}
	}
}
