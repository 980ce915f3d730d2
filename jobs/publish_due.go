package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"

	"github.com/inkwell-blog/inkwell/internal/posts"
)

// PublishDueJob flips scheduled posts to published once their publish time
// has passed.
type PublishDueJob struct {
	Posts  *posts.Service
	Logger *slog.Logger
}

// NewPublishDueJob wires dependencies for the publish-due handler.
func NewPublishDueJob(postsSvc *posts.Service, logger *slog.Logger) *PublishDueJob {
	return &PublishDueJob{Posts: postsSvc, Logger: logger}
}

// Handle processes publish-due tasks.
func (j *PublishDueJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Posts == nil {
		return errors.New("publish due: handler not configured")
	}
	logger := j.logger()

	published, err := j.Posts.PublishDue(ctx)
	if err != nil {
		logger.Error("publish due posts", slog.Any("error", err))
		return err
	}
	if published > 0 {
		logger.Info("published scheduled posts", slog.Int64("count", published))
	}
	return nil
}

func (j *PublishDueJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskPublishDue))
	}
	return slog.Default().With(slog.String("job", TaskPublishDue))
}
