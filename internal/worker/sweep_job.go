package worker

import (
	"context"
	"fmt"
)

// SweepJob expires every overdue ACTIVE prediction in one pass
type SweepJob struct {
	expirer Expirer
}

// NewSweepJob creates a job suitable for the scheduler
func NewSweepJob(expirer Expirer) *SweepJob {
	return &SweepJob{expirer: expirer}
}

func (j *SweepJob) Name() string { return sweepJobName }

func (j *SweepJob) Process(ctx context.Context) error {
	if _, err := j.expirer.TransitionExpired(ctx); err != nil {
		return fmt.Errorf(ErrMsgSweepFailed, err)
	}
	return nil
}
