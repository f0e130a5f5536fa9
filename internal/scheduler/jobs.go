package scheduler

import (
	"context"
	"time"

	"github.com/intlakaa/internal/logging"
	"github.com/intlakaa/internal/metrics"
)

const InviteSweepJob = "invite-sweep"

// InvitePurger removes never-activated invited accounts.
type InvitePurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int64, error)
}

// NewInviteSweep builds the job that drops expired invites and the accounts
// that never accepted them.
func NewInviteSweep(schedule string, purger InvitePurger, logger *logging.Logger) Job {
	return Job{
		Name:     InviteSweepJob,
		Schedule: schedule,
		Timeout:  time.Minute,
		Run: func(ctx context.Context) error {
			removed, err := purger.PurgeExpired(ctx, time.Now())
			if err != nil {
				return err
			}
			if removed > 0 {
				metrics.InvitesPurged.Add(float64(removed))
				logger.Infow("expired invites purged", "accounts", removed)
			}
			return nil
		},
	}
}
