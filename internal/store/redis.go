package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"taskbar-cli/internal/model"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKey = "taskbar:tasks"

// Redis keeps every task as a JSON value in one hash (field = task id).
type Redis struct {
	client *redis.Client
	key    string
	owned  bool

	// Now stamps CreatedAt on new tasks. Defaults to the wall clock.
	Now func() time.Time
}

// OpenRedis connects using a redis:// URL and checks the connection.
func OpenRedis(ctx context.Context, url string) (*Redis, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	rc := redis.NewClient(opts)
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	r := NewRedis(rc, "")
	r.owned = true
	return r, nil
}

// NewRedis wraps an existing client. key defaults to "taskbar:tasks". The caller keeps
// ownership of rc; Close does not close it.
func NewRedis(rc *redis.Client, key string) *Redis {
	key = strings.TrimSpace(key)
	if key == "" {
		key = defaultRedisKey
	}
	return &Redis{client: rc, key: key}
}

func (r *Redis) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC().Truncate(time.Millisecond)
	}
	return nowUTC()
}

func (r *Redis) CreateTask(ctx context.Context, title string, orderKey int64, completed bool) (model.Task, error) {
	t, err := cleanTask(model.Task{
		ID:        newTaskID(),
		Title:     strings.TrimSpace(title),
		Completed: completed,
		OrderKey:  orderKey,
		CreatedAt: r.now(),
	})
	if err != nil {
		return model.Task{}, err
	}
	if err := r.put(ctx, t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (r *Redis) ListTasks(ctx context.Context) ([]model.Task, error) {
	vals, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, err
	}
	out := make([]model.Task, 0, len(vals))
	for id, raw := range vals {
		var t model.Task
		if err := json.Unmarshal([]byte(raw), &t); err != nil {
			return nil, fmt.Errorf("decode task %s: %w", id, err)
		}
		out = append(out, t)
	}
	return out, nil
}

func (r *Redis) UpdateTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	ok, err := r.client.HExists(ctx, r.key, t.ID).Result()
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotFound
	}
	return r.put(ctx, t)
}

func (r *Redis) DeleteTask(ctx context.Context, id string) error {
	n, err := r.client.HDel(ctx, r.key, strings.TrimSpace(id)).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *Redis) RestoreTask(ctx context.Context, t model.Task) error {
	t, err := cleanTask(t)
	if err != nil {
		return err
	}
	return r.put(ctx, t)
}

func (r *Redis) put(ctx context.Context, t model.Task) error {
	raw, err := json.Marshal(t)
	if err != nil {
		return err
	}
	return r.client.HSet(ctx, r.key, t.ID, raw).Err()
}

func (r *Redis) Close() error {
	if r == nil || !r.owned {
		return nil
	}
	return r.client.Close()
}
