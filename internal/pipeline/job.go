package pipeline

import (
	"github.com/google/uuid"
	"github.com/riverqueue/river"
	"github.com/riverqueue/river/rivertype"
)

// DeliverJobArgs contains the arguments for a notification delivery job
// submitted to River. One job exists per notification.
type DeliverJobArgs struct {
	// NotificationID identifies the notification to deliver. It is the unique
	// key: enqueueing the same notification twice is a no-op.
	NotificationID uuid.UUID `json:"notificationId" river:"unique"`

	// maxAttempts configures the maximum number of times River should retry the job.
	maxAttempts int
}

// Kind returns the River job kind used to register and dispatch the delivery worker.
func (args DeliverJobArgs) Kind() string { return "DeliverNotificationJob" }

// InsertOpts returns the River options that control how the job is enqueued,
// enforcing at most one live job per notification.
func (args DeliverJobArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		MaxAttempts: args.maxAttempts,
		UniqueOpts: river.UniqueOpts{
			ByArgs: true,
			ByState: []rivertype.JobState{
				rivertype.JobStateAvailable,
				rivertype.JobStateCompleted,
				rivertype.JobStatePending,
				rivertype.JobStateRunning,
				rivertype.JobStateRetryable,
				rivertype.JobStateScheduled,
			},
		},
	}
}
