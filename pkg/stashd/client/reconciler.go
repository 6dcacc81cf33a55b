package client

import (
	"sync"
	"time"
)

// DefaultDebounce is how long the reconciler waits after the last gesture
// before committing the order.
const DefaultDebounce = 500 * time.Millisecond

// CommitFunc commits a merged ordered id sequence for a group and returns
// the ids the server actually updated. (*Client).Reorder satisfies it.
type CommitFunc func(groupID uint, orderedIDs []uint) ([]uint, error)

// Reconciler buffers rapid reorder gestures into a single commit.
//
// It mirrors the last known active and archived id lists for one group.
// A gesture mutates the local mirror immediately; the commit is debounced
// so only the final order within the window is ever sent. The merged
// sequence always places archived ids after active ids, regardless of
// which bucket the gesture touched. A failed commit is surfaced through
// the notify callback and the optimistic local order is not rolled back.
// Close must be called on teardown so a pending timer cannot fire a stale
// write after navigation away.
type Reconciler struct {
	mu       sync.Mutex
	groupID  uint
	active   []uint
	archived []uint
	timer    *time.Timer
	delay    time.Duration
	commit   CommitFunc
	notify   func(error)
	closed   bool
}

// NewReconciler creates a reconciler for one group. A delay of zero or
// less falls back to DefaultDebounce; notify may be nil.
func NewReconciler(groupID uint, commit CommitFunc, delay time.Duration, notify func(error)) *Reconciler {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Reconciler{
		groupID: groupID,
		delay:   delay,
		commit:  commit,
		notify:  notify,
	}
}

// SetState replaces both mirrored lists without scheduling a commit, for
// use when fresh server state arrives.
func (r *Reconciler) SetState(active, archived []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.active = append([]uint(nil), active...)
	r.archived = append([]uint(nil), archived...)
}

// SetActiveOrder applies a gesture on the active bucket and schedules a
// debounced commit.
func (r *Reconciler) SetActiveOrder(order []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.active = append([]uint(nil), order...)
	r.scheduleLocked()
}

// SetArchivedOrder applies a gesture on the archived bucket and schedules
// a debounced commit.
func (r *Reconciler) SetArchivedOrder(order []uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.archived = append([]uint(nil), order...)
	r.scheduleLocked()
}

// Pending reports whether a commit is waiting on the debounce timer
func (r *Reconciler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.timer != nil
}

// Flush commits a pending order immediately instead of waiting out the
// debounce window. No-op when nothing is pending.
func (r *Reconciler) Flush() {
	r.mu.Lock()
	if r.timer == nil {
		r.mu.Unlock()
		return
	}
	stopped := r.timer.Stop()
	r.mu.Unlock()
	if !stopped {
		// The timer already expired; its fire call owns the commit.
		return
	}
	r.fire()
}

// Close cancels any pending commit. Mandatory on teardown.
func (r *Reconciler) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.timer != nil {
		r.timer.Stop()
		r.timer = nil
	}
}

// scheduleLocked restarts the single debounce timer. A gesture arriving
// before the timer fires replaces the pending commit; intermediate orders
// are never sent.
func (r *Reconciler) scheduleLocked() {
	if r.timer != nil {
		r.timer.Stop()
	}
	r.timer = time.AfterFunc(r.delay, r.fire)
}

func (r *Reconciler) fire() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.timer = nil
	merged := make([]uint, 0, len(r.active)+len(r.archived))
	merged = append(merged, r.active...)
	merged = append(merged, r.archived...)
	groupID := r.groupID
	commit := r.commit
	notify := r.notify
	r.mu.Unlock()

	if _, err := commit(groupID, merged); err != nil && notify != nil {
		notify(err)
	}
}
