package reminder

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// claimBatchSize bounds how many due members a single claim attempt reads.
const claimBatchSize = 10

// RedisOption configures a RedisStorage.
type RedisOption func(*RedisStorage)

// WithKeyPrefix overrides the key namespace. Default "reminder".
func WithKeyPrefix(prefix string) RedisOption {
	return func(rs *RedisStorage) {
		if prefix != "" {
			rs.prefix = prefix
		}
	}
}

// WithRetention sets how long finished tasks stay readable. Default 7 days.
func WithRetention(d time.Duration) RedisOption {
	return func(rs *RedisStorage) {
		if d > 0 {
			rs.retention = d
		}
	}
}

// RedisStorage keeps reminder tasks in Redis so scheduled reminders survive
// restarts and can be shared by several workers.
//
// Layout: a due-time sorted set ("<prefix>:due", score = due time in unix
// milliseconds) holds the IDs of pending tasks, one hash per task holds its
// fields, and a per-appointment set backs cancellation. Claiming is an
// atomic ZREM: whichever worker removes the member owns the task.
type RedisStorage struct {
	db        redis.UniversalClient
	prefix    string
	retention time.Duration
}

// NewRedisStorage creates a Redis-backed task store on top of an existing
// client.
func NewRedisStorage(client redis.UniversalClient, opts ...RedisOption) *RedisStorage {
	rs := &RedisStorage{
		db:        client,
		prefix:    "reminder",
		retention: 7 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

func (rs *RedisStorage) dueKey() string {
	return rs.prefix + ":due"
}

func (rs *RedisStorage) taskKey(id uuid.UUID) string {
	return rs.prefix + ":task:" + id.String()
}

func (rs *RedisStorage) apptKey(appointmentID string) string {
	return rs.prefix + ":appt:" + appointmentID
}

// CreateTask implements Storage.
func (rs *RedisStorage) CreateTask(ctx context.Context, task *Task) error {
	if task == nil {
		return errors.New("task cannot be nil")
	}
	if task.ID == uuid.Nil {
		return errors.New("task ID cannot be empty")
	}
	if task.AppointmentID == "" {
		return errors.New("task appointment ID cannot be empty")
	}

	exists, err := rs.db.Exists(ctx, rs.taskKey(task.ID)).Result()
	if err != nil {
		return fmt.Errorf("failed to check task %s: %w", task.ID, err)
	}
	if exists > 0 {
		return fmt.Errorf("task %s already exists", task.ID)
	}

	taskCopy := *task
	if taskCopy.Status == "" {
		taskCopy.Status = TaskStatusPending
	}
	if taskCopy.CreatedAt.IsZero() {
		taskCopy.CreatedAt = time.Now()
	}

	// Every key expires eventually, so a crash between claim and finish
	// cannot leak task hashes forever.
	ttl := time.Until(taskCopy.DueAt) + rs.retention
	if ttl < rs.retention {
		ttl = rs.retention
	}

	_, err = rs.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rs.taskKey(taskCopy.ID), taskFields(&taskCopy))
		pipe.Expire(ctx, rs.taskKey(taskCopy.ID), ttl)
		pipe.ZAdd(ctx, rs.dueKey(), redis.Z{
			Score:  float64(taskCopy.DueAt.UnixMilli()),
			Member: taskCopy.ID.String(),
		})
		pipe.SAdd(ctx, rs.apptKey(taskCopy.AppointmentID), taskCopy.ID.String())
		pipe.Expire(ctx, rs.apptKey(taskCopy.AppointmentID), ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to store task %s: %w", task.ID, err)
	}

	return nil
}

// ClaimDue implements Storage. Ownership is decided by ZREM: the worker
// that removes the member from the due set wins, so concurrent workers
// never claim the same task.
func (rs *RedisStorage) ClaimDue(ctx context.Context, now time.Time) (*Task, error) {
	members, err := rs.db.ZRangeByScore(ctx, rs.dueKey(), &redis.ZRangeBy{
		Min:   "-inf",
		Max:   strconv.FormatInt(now.UnixMilli(), 10),
		Count: claimBatchSize,
	}).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read due tasks: %w", err)
	}

	for _, member := range members {
		removed, err := rs.db.ZRem(ctx, rs.dueKey(), member).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to claim task %s: %w", member, err)
		}
		if removed == 0 {
			// Another worker claimed it between range and rem.
			continue
		}

		taskID, err := uuid.Parse(member)
		if err != nil {
			return nil, fmt.Errorf("malformed task ID %q in due set: %w", member, err)
		}

		if err := rs.db.HSet(ctx, rs.taskKey(taskID), "status", string(TaskStatusProcessing)).Err(); err != nil {
			return nil, fmt.Errorf("failed to mark task %s processing: %w", taskID, err)
		}

		task, err := rs.loadTask(ctx, taskID)
		if err != nil {
			return nil, err
		}
		task.Status = TaskStatusProcessing
		return task, nil
	}

	return nil, ErrNoTaskToClaim
}

// CompleteTask implements Storage.
func (rs *RedisStorage) CompleteTask(ctx context.Context, taskID uuid.UUID) error {
	return rs.finish(ctx, taskID, TaskStatusSent, "")
}

// FailTask implements Storage.
func (rs *RedisStorage) FailTask(ctx context.Context, taskID uuid.UUID, errorMsg string) error {
	return rs.finish(ctx, taskID, TaskStatusFailed, errorMsg)
}

func (rs *RedisStorage) finish(ctx context.Context, taskID uuid.UUID, status TaskStatus, errorMsg string) error {
	fields, err := rs.db.HGetAll(ctx, rs.taskKey(taskID)).Result()
	if err != nil {
		return fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	if len(fields) == 0 {
		return fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	if TaskStatus(fields["status"]) != TaskStatusProcessing {
		return fmt.Errorf("%w: %s is %s", ErrTaskNotClaimed, taskID, fields["status"])
	}

	update := map[string]any{
		"status":       string(status),
		"processed_at": time.Now().Format(time.RFC3339Nano),
	}
	if errorMsg != "" {
		update["error"] = errorMsg
	}

	_, err = rs.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, rs.taskKey(taskID), update)
		pipe.Expire(ctx, rs.taskKey(taskID), rs.retention)
		pipe.SRem(ctx, rs.apptKey(fields["appointment_id"]), taskID.String())
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to update task %s: %w", taskID, err)
	}

	return nil
}

// CancelByAppointment implements Storage. A task still present in the due
// set is pending; anything already claimed or finished is left alone.
func (rs *RedisStorage) CancelByAppointment(ctx context.Context, appointmentID string) (int, error) {
	members, err := rs.db.SMembers(ctx, rs.apptKey(appointmentID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to list tasks for appointment %s: %w", appointmentID, err)
	}

	cancelled := 0
	for _, member := range members {
		removed, err := rs.db.ZRem(ctx, rs.dueKey(), member).Result()
		if err != nil {
			return cancelled, fmt.Errorf("failed to cancel task %s: %w", member, err)
		}
		if removed == 0 {
			continue
		}

		taskID, err := uuid.Parse(member)
		if err != nil {
			return cancelled, fmt.Errorf("malformed task ID %q in appointment set: %w", member, err)
		}

		_, err = rs.db.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, rs.taskKey(taskID))
			pipe.SRem(ctx, rs.apptKey(appointmentID), member)
			return nil
		})
		if err != nil {
			return cancelled, fmt.Errorf("failed to delete task %s: %w", taskID, err)
		}
		cancelled++
	}

	return cancelled, nil
}

func (rs *RedisStorage) loadTask(ctx context.Context, taskID uuid.UUID) (*Task, error) {
	fields, err := rs.db.HGetAll(ctx, rs.taskKey(taskID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load task %s: %w", taskID, err)
	}
	if len(fields) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrTaskNotFound, taskID)
	}
	return parseTask(fields)
}

func taskFields(t *Task) map[string]any {
	return map[string]any{
		"id":             t.ID.String(),
		"appointment_id": t.AppointmentID,
		"payload":        string(t.Payload),
		"status":         string(t.Status),
		"due_at":         t.DueAt.Format(time.RFC3339Nano),
		"created_at":     t.CreatedAt.Format(time.RFC3339Nano),
	}
}

func parseTask(fields map[string]string) (*Task, error) {
	id, err := uuid.Parse(fields["id"])
	if err != nil {
		return nil, fmt.Errorf("malformed task ID %q: %w", fields["id"], err)
	}
	dueAt, err := time.Parse(time.RFC3339Nano, fields["due_at"])
	if err != nil {
		return nil, fmt.Errorf("malformed due_at for task %s: %w", id, err)
	}
	createdAt, err := time.Parse(time.RFC3339Nano, fields["created_at"])
	if err != nil {
		return nil, fmt.Errorf("malformed created_at for task %s: %w", id, err)
	}

	task := &Task{
		ID:            id,
		AppointmentID: fields["appointment_id"],
		Payload:       []byte(fields["payload"]),
		Status:        TaskStatus(fields["status"]),
		DueAt:         dueAt,
		CreatedAt:     createdAt,
	}

	if v := fields["processed_at"]; v != "" {
		processedAt, err := time.Parse(time.RFC3339Nano, v)
		if err != nil {
			return nil, fmt.Errorf("malformed processed_at for task %s: %w", id, err)
		}
		task.ProcessedAt = &processedAt
	}
	if v := fields["error"]; v != "" {
		task.Error = &v
	}

	return task, nil
}
