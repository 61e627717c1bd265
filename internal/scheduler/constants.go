package scheduler

const (
	LogMsgJobScheduled = "Recurring job scheduled"
	LogMsgJobDisabled  = "Recurring job disabled"
	LogMsgTickSkipped  = "Skipped scheduled run, worker queue full"
)
