package jobs

import (
	"context"
	"time"

	"coursehub/cmd/internal/utils"

	"github.com/labstack/gommon/log"
)

type NotificationRepository interface {
	DeleteReadOlderThan(cutoff int64) (int64, error)
}

// RetentionCleaner purges read notifications past their retention age
// so the table does not grow without bound.
type RetentionCleaner struct {
	repo   NotificationRepository
	maxAge time.Duration
}

func NewRetentionCleaner(repo NotificationRepository, maxAge time.Duration) *RetentionCleaner {
	return &RetentionCleaner{repo: repo, maxAge: maxAge}
}

func (c *RetentionCleaner) Start(ctx context.Context) {
	// Poll every hour
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	log.Info("Notification retention cron started")

	for {
		select {
		case <-ctx.Done():
			log.Info("Stopping notification retention cron...")
			return
		case <-ticker.C:
			c.purge()
		}
	}
}

func (c *RetentionCleaner) purge() {
	cutoff := utils.NowUTC() - c.maxAge.Milliseconds()
	n, err := c.repo.DeleteReadOlderThan(cutoff)
	if err != nil {
		log.Errorf("Retention: failed to purge notifications: %v", err)
		return
	}

	if n > 0 {
		log.Infof("Retention: purged %d read notifications", n)
	}
}
