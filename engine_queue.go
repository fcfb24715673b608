package authcore

import "context"

// AddToQueue appends a payload to the named FIFO queue, creating the queue on
// first push.
func (e *Engine) AddToQueue(ctx context.Context, name string, payload any) bool {
	if e == nil || e.queue == nil {
		return false
	}
	return e.queue.Push(ctx, name, payload)
}

// GetFromQueue pops the oldest payload into dest. Returns false on an empty
// queue.
func (e *Engine) GetFromQueue(ctx context.Context, name string, dest any) bool {
	if e == nil || e.queue == nil {
		return false
	}
	return e.queue.Pop(ctx, name, dest)
}

// GetQueueLength reports the number of pending payloads; a drained queue
// reports 0 rather than ceasing to exist.
func (e *Engine) GetQueueLength(ctx context.Context, name string) int64 {
	if e == nil || e.queue == nil {
		return 0
	}
	return e.queue.Len(ctx, name)
}
