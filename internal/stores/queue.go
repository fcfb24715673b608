package stores

import (
	"context"

	"github.com/MrEthical07/authcore/redisstore"
	"github.com/sirupsen/logrus"
)

const queuePrefix = "queue:"

// Queue is the FIFO work-queue view over the queue: namespace. Producers push
// to the head, consumers pop from the tail; no dedup, no priority. Queues are
// created implicitly on first push and a drained queue simply reports length
// zero.
type Queue struct {
	client *redisstore.Client
	log    *logrus.Logger
}

// NewQueue creates the queue view.
func NewQueue(client *redisstore.Client, log *logrus.Logger) *Queue {
	return &Queue{client: client, log: log}
}

// Push appends payload to the queue.
func (q *Queue) Push(ctx context.Context, name string, payload any) bool {
	if err := q.client.LPush(ctx, queuePrefix+name, payload); err != nil {
		q.log.WithError(err).WithField("queue", name).Warn("queue: push failed")
		return false
	}
	return true
}

// Pop takes the oldest payload into dest. Returns false on an empty queue or
// an unreachable store; only the latter is logged.
func (q *Queue) Pop(ctx context.Context, name string, dest any) bool {
	found, err := q.client.RPop(ctx, queuePrefix+name, dest)
	if err != nil {
		q.log.WithError(err).WithField("queue", name).Warn("queue: pop failed")
		return false
	}
	return found
}

// Len reports the number of queued payloads.
func (q *Queue) Len(ctx context.Context, name string) int64 {
	n, err := q.client.LLen(ctx, queuePrefix+name)
	if err != nil {
		q.log.WithError(err).WithField("queue", name).Warn("queue: len failed")
		return 0
	}
	return n
}
