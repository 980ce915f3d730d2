package jobs

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskPublishDue publishes scheduled posts whose time has passed.
	TaskPublishDue = "posts:publish_due"
	// TaskRBACWarmup pre-loads permission cache entries for all live roles.
	TaskRBACWarmup = "rbac:warmup"
)

// PublishDuePayload is currently empty; the handler reads the clock itself.
type PublishDuePayload struct{}

// RBACWarmupPayload is currently empty; all live roles are warmed.
type RBACWarmupPayload struct{}

// NewPublishDueTask constructs a publish-due task.
func NewPublishDueTask() (*asynq.Task, error) {
	data, err := json.Marshal(PublishDuePayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskPublishDue, data), nil
}

// NewRBACWarmupTask constructs a permission warmup task.
func NewRBACWarmupTask() (*asynq.Task, error) {
	data, err := json.Marshal(RBACWarmupPayload{})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskRBACWarmup, data), nil
}
