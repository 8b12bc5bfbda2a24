package purchase

import (
	"context"
	"sync"
	"time"

	"github.com/nkiryanov/grail/internal/models"
)

const (
	StateIdle       = "idle"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

// Snapshot is a point in time copy of a flow
type Snapshot struct {
	Request    models.PurchaseRequest
	State      string
	Err        error           // set when failed
	Receipt    *models.Receipt // set when completed
	Quote      *models.TopUpQuote
	StartedAt  time.Time
	FinishedAt time.Time
}

func (s Snapshot) Terminal() bool {
	return s.State == StateCompleted || s.State == StateFailed
}

// Flow tracks one purchase request from submission to its terminal state
// Terminal states are final
type Flow struct {
	mu   sync.Mutex
	snap Snapshot
	done chan struct{}
}

func newFlow(req models.PurchaseRequest) *Flow {
	return &Flow{
		snap: Snapshot{Request: req, State: StateIdle, StartedAt: time.Now()},
		done: make(chan struct{}),
	}
}

func (f *Flow) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

// Done is closed when the flow reaches a terminal state
func (f *Flow) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the flow is terminal or ctx is done
// The flow itself keeps running when ctx is done
func (f *Flow) Wait(ctx context.Context) (Snapshot, error) {
	select {
	case <-f.done:
		return f.Snapshot(), nil
	case <-ctx.Done():
		return f.Snapshot(), ctx.Err()
	}
}

func (f *Flow) processing(quote *models.TopUpQuote) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap.State = StateProcessing
	f.snap.Quote = quote
}

func (f *Flow) complete(receipt models.Receipt) {
	f.finish(func(s *Snapshot) {
		s.State = StateCompleted
		s.Receipt = &receipt
	})
}

func (f *Flow) fail(err error) {
	f.finish(func(s *Snapshot) {
		s.State = StateFailed
		s.Err = err
	})
}

func (f *Flow) finish(fn func(*Snapshot)) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.snap.Terminal() {
		return
	}
	fn(&f.snap)
	f.snap.FinishedAt = time.Now()
	close(f.done)
}
