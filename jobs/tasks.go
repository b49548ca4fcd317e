package jobs

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskExpirySweep is the task type for the nightly expiry sweep.
	TaskExpirySweep = "inventory:expiry_sweep"
)

// ExpirySweepPayload carries scheduling metadata for the sweep.
type ExpirySweepPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
	Limit        int       `json:"limit"`
}

// NewExpirySweepTask constructs an Asynq task for the expiry sweep.
func NewExpirySweepTask(at time.Time, limit int) (*asynq.Task, error) {
	payload := ExpirySweepPayload{ScheduledFor: at, Limit: limit}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskExpirySweep, body, asynq.Queue(QueueDefault)), nil
}
