package field

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type frameEntry struct {
	id FrameID
	fn func()
}

// FrameQueue is a Scheduler that holds frame requests until the host
// flushes them at its next repaint. Hosts with their own event loop
// (bubbletea, tests) embed it and call Flush once per repaint.
type FrameQueue struct {
	next      FrameID
	entries   []frameEntry
	cancelled map[FrameID]bool
	requested int
}

func NewFrameQueue() *FrameQueue {
	return &FrameQueue{cancelled: make(map[FrameID]bool)}
}

func (q *FrameQueue) RequestFrame(fn func()) FrameID {
	q.next++
	q.requested++
	q.entries = append(q.entries, frameEntry{id: q.next, fn: fn})
	return q.next
}

func (q *FrameQueue) CancelFrame(id FrameID) {
	for i, e := range q.entries {
		if e.id == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return
		}
	}
	if q.cancelled != nil {
		q.cancelled[id] = true
	}
}

// Len reports the number of pending requests.
func (q *FrameQueue) Len() int { return len(q.entries) }

// Requested reports how many frames were ever requested.
func (q *FrameQueue) Requested() int { return q.requested }

// Flush runs the callbacks that were pending when it was called. Frames
// requested by those callbacks wait for the next Flush.
func (q *FrameQueue) Flush() int {
	if len(q.entries) == 0 {
		return 0
	}
	batch := q.entries
	q.entries = nil
	if q.cancelled == nil {
		q.cancelled = make(map[FrameID]bool)
	}

	ran := 0
	for _, e := range batch {
		if q.cancelled[e.id] {
			continue
		}
		e.fn()
		ran++
	}
	clear(q.cancelled)
	return ran
}

// LoopScheduler drives a FrameQueue from Run on the calling goroutine,
// paced to a frame rate. Other goroutines hand work to the loop with Post.
type LoopScheduler struct {
	FrameQueue

	limiter *rate.Limiter
	events  chan func()
	done    chan struct{}
	once    sync.Once
}

// NewLoopScheduler paces frames at fps; fps <= 0 runs unthrottled.
func NewLoopScheduler(fps int) *LoopScheduler {
	limit := rate.Inf
	if fps > 0 {
		limit = rate.Limit(fps)
	}
	return &LoopScheduler{
		FrameQueue: *NewFrameQueue(),
		limiter:    rate.NewLimiter(limit, 1),
		events:     make(chan func(), 16),
		done:       make(chan struct{}),
	}
}

// Post queues fn to run on the loop goroutine between frames. It is safe
// to call from any goroutine and drops fn once Run has returned.
func (s *LoopScheduler) Post(fn func()) {
	select {
	case s.events <- fn:
	case <-s.done:
	}
}

// Run flushes frames until ctx is done or no frame is pending.
func (s *LoopScheduler) Run(ctx context.Context) error {
	defer s.once.Do(func() { close(s.done) })

	for s.Len() > 0 {
		res := s.limiter.Reserve()
		timer := time.NewTimer(res.Delay())

		select {
		case <-ctx.Done():
			timer.Stop()
			res.Cancel()
			return ctx.Err()
		case fn := <-s.events:
			timer.Stop()
			res.Cancel()
			fn()
			continue
		case <-timer.C:
		}
		s.Flush()
	}
	return nil
}
