package tasklist

import (
	"context"
	"time"

	"taskbar-cli/internal/model"
)

func resetPeriod(interval model.ResetInterval) time.Duration {
	switch interval {
	case model.ResetDaily:
		return 24 * time.Hour
	case model.ResetWeekly:
		return 7 * 24 * time.Hour
	default:
		return 0
	}
}

// ApplyAutoReset clears completed tasks when interval has elapsed since lastReset.
//
// It returns the reset time to remember and how many tasks were cleared. A zero lastReset only
// starts the period. With interval "off" nothing happens and lastReset is returned unchanged.
func (c *Controller) ApplyAutoReset(ctx context.Context, interval model.ResetInterval, lastReset time.Time) (time.Time, int) {
	period := resetPeriod(interval)
	if period == 0 {
		return lastReset, 0
	}
	now := c.clock.Now()
	if lastReset.IsZero() {
		return now, 0
	}
	if now.Sub(lastReset) < period {
		return lastReset, 0
	}
	n := c.ClearCompleted(ctx)
	c.log.WithField("interval", string(interval)).WithField("cleared", n).Info("auto reset")
	return now, n
}
