// Package tasks defines the background jobs shared by the API and the worker.
package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
)

// Task types, shared by producer and consumer.
const (
	TypeAggregateRecompute = "aggregate:recompute"
)

// Aggregate kinds carried by an AggregateRecomputePayload.
const (
	KindCost   = "cost"
	KindRating = "rating"
)

// MaxRecomputeRetries bounds the worker's retries for one recompute task.
const MaxRecomputeRetries = 5

// AggregateRecomputePayload identifies the bootcamp field to recompute.
type AggregateRecomputePayload struct {
	BootcampID uint   `json:"bootcamp_id"`
	Kind       string `json:"kind"`
}

// Validate checks that the payload names a bootcamp and a known kind.
func (p AggregateRecomputePayload) Validate() error {
	if p.BootcampID == 0 {
		return fmt.Errorf("bootcamp_id is required")
	}
	switch p.Kind {
	case KindCost, KindRating:
		return nil
	default:
		return fmt.Errorf("unknown aggregate kind %q", p.Kind)
	}
}

// NewAggregateRecomputeTask builds a recompute task for one bootcamp field.
func NewAggregateRecomputeTask(bootcampID uint, kind string) (*asynq.Task, error) {
	p := AggregateRecomputePayload{BootcampID: bootcampID, Kind: kind}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeAggregateRecompute, payload, asynq.MaxRetry(MaxRecomputeRetries)), nil
}

// ParseAggregateRecomputePayload decodes and validates a task payload.
func ParseAggregateRecomputePayload(data []byte) (AggregateRecomputePayload, error) {
	var p AggregateRecomputePayload
	if err := json.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("decode %s payload: %w", TypeAggregateRecompute, err)
	}
	return p, p.Validate()
}

// RedisConnOpt turns REDIS_URL (redis:// URI or host:port) into asynq options.
func RedisConnOpt(addr string) (asynq.RedisConnOpt, error) {
	if strings.Contains(addr, "://") {
		return asynq.ParseRedisURI(addr)
	}
	return asynq.RedisClientOpt{Addr: addr}, nil
}

// Enqueuer hands failed recomputes to the background queue.
type Enqueuer interface {
	EnqueueRecompute(ctx context.Context, bootcampID uint, kind string) error
}

// Client enqueues tasks through asynq.
type Client struct {
	client *asynq.Client
}

// NewClient returns an enqueuing client for the given Redis connection.
func NewClient(opt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(opt)}
}

func (c *Client) EnqueueRecompute(ctx context.Context, bootcampID uint, kind string) error {
	task, err := NewAggregateRecomputeTask(bootcampID, kind)
	if err != nil {
		return err
	}
	if _, err := c.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeAggregateRecompute, err)
	}
	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
