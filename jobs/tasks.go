package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/hibiken/asynq"

	jobmetrics "github.com/quoteroom/quoteroom/internal/jobs"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskStorageCleanup retries deletion of an object the API failed to remove.
	TaskStorageCleanup = "storage:cleanup"

	cleanupMaxRetry = 10
)

// StorageCleanupPayload names the object to delete.
type StorageCleanupPayload struct {
	Key string `json:"key"`
}

// NewStorageCleanupTask constructs an Asynq task for key.
func NewStorageCleanupTask(key string) (*asynq.Task, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, fmt.Errorf("jobs: storage cleanup requires a key")
	}
	body, err := json.Marshal(StorageCleanupPayload{Key: key})
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskStorageCleanup, body, asynq.Queue(QueueDefault), asynq.MaxRetry(cleanupMaxRetry)), nil
}

// ObjectDeleter removes an object by key.
type ObjectDeleter interface {
	DeleteKey(ctx context.Context, key string) error
}

// StorageCleanupJob deletes orphaned objects handed over by the API.
type StorageCleanupJob struct {
	deleter ObjectDeleter
	logger  *slog.Logger
	metrics *jobmetrics.Metrics
}

// NewStorageCleanupJob wires the job. metrics may be nil.
func NewStorageCleanupJob(deleter ObjectDeleter, logger *slog.Logger, metrics *jobmetrics.Metrics) *StorageCleanupJob {
	if logger == nil {
		logger = slog.Default()
	}
	return &StorageCleanupJob{deleter: deleter, logger: logger, metrics: metrics}
}

// Handle processes TaskStorageCleanup tasks. Malformed payloads are not retried.
func (j *StorageCleanupJob) Handle(ctx context.Context, t *asynq.Task) error {
	var payload StorageCleanupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil || strings.TrimSpace(payload.Key) == "" {
		j.logger.Warn("storage cleanup: bad payload", slog.String("payload", string(t.Payload())))
		return asynq.SkipRetry
	}
	tracker := j.metrics.Track(TaskStorageCleanup)
	if err := j.deleter.DeleteKey(ctx, payload.Key); err != nil {
		j.logger.Warn("storage cleanup failed", slog.String("key", payload.Key), slog.Any("error", err))
		return tracker.End(fmt.Errorf("delete %s: %w", payload.Key, err))
	}
	j.logger.Info("storage cleanup done", slog.String("key", payload.Key))
	return tracker.End(nil)
}
