package jobs

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/inkwell-blog/inkwell/internal/rbac"
)

// RBACWarmupJob pre-populates the permission cache for all live roles so
// the first authorization check after a deploy never pays a storage
// round-trip.
type RBACWarmupJob struct {
	Catalog *rbac.Catalog
	Logger  *slog.Logger
}

// NewRBACWarmupJob wires dependencies for the warmup handler.
func NewRBACWarmupJob(catalog *rbac.Catalog, logger *slog.Logger) *RBACWarmupJob {
	return &RBACWarmupJob{Catalog: catalog, Logger: logger}
}

// Handle processes warmup tasks.
func (j *RBACWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil {
		return errors.New("rbac warmup: handler not configured")
	}
	logger := j.logger()
	start := time.Now()

	warmed, err := j.Catalog.Warm(ctx)
	if err != nil {
		logger.Error("warm permission cache", slog.Any("error", err))
		return err
	}
	logger.Info("warmed permission cache",
		slog.Int("roles", warmed), slog.Duration("duration", time.Since(start)))
	return nil
}

func (j *RBACWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger.With(slog.String("job", TaskRBACWarmup))
	}
	return slog.Default().With(slog.String("job", TaskRBACWarmup))
}
