// Package approval implements the one-shot, in-memory queue of pending
// user-approval requests the provider bridge enqueues before any
// state-changing dApp request (sending a transaction, signing a
// message, granting account access). Nothing here is persisted: a
// process restart drops every pending request.
//
// Grounded on the teacher's context-deadline handling in
// internal/chain/retry.go, generalized from a single retry budget into
// a queue of independently timed-out entries.
package approval

import (
	"sync"
	"time"

	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

// Timeout is how long an approval may sit unanswered before it resolves
// with UserRejected and is swept from the queue.
const Timeout = 5 * time.Minute

// Request describes one pending approval. ID is caller-supplied (the
// provider bridge derives it from the originating EIP-1193 request) so
// the dApp's own retries can be recognized as duplicates.
type Request struct {
	ID          string
	WindowLabel string
	Origin      string
	Method      string
	Summary     map[string]string // redacted: no raw calldata, no private keys
}

// Response is what a user decision (or a timeout/disconnect) delivers
// to the sink: whether the action was approved, any data the approval
// collected (e.g. a password for transaction signing), and — for a
// request that never got a real decision — the reason it resolved
// without one (ErrUserRejected on timeout, ErrDisconnected on window
// close).
type Response struct {
	Approved bool
	Data     map[string]string
	Err      error
}

type entry struct {
	request   Request
	sink      chan Response
	expiresAt time.Time
}

// Queue holds pending approval requests. Safe for concurrent use.
type Queue struct {
	mu      sync.Mutex
	pending map[string]*entry
	timeout time.Duration
}

// New creates an empty approval queue using the default 5-minute
// timeout.
func New() *Queue {
	return NewWithTimeout(Timeout)
}

// NewWithTimeout creates an empty approval queue with a caller-supplied
// timeout, for testing.
func NewWithTimeout(timeout time.Duration) *Queue {
	return &Queue{pending: make(map[string]*entry), timeout: timeout}
}

// Enqueue registers req and returns a channel the caller awaits for the
// eventual decision. A request bearing an ID already pending is
// rejected with DuplicateRequest (EIP-1193 4905) rather than merged or
// queued twice.
func (q *Queue) Enqueue(req Request) (<-chan Response, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, exists := q.pending[req.ID]; exists {
		return nil, aerr.WithDetails(aerr.ErrDuplicateRequest, map[string]string{"id": req.ID})
	}

	sink := make(chan Response, 1)
	q.pending[req.ID] = &entry{request: req, sink: sink, expiresAt: time.Now().Add(q.timeout)}
	return sink, nil
}

// Pending returns a redacted summary of every request still awaiting a
// decision, for display to the user.
func (q *Queue) Pending() []Request {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]Request, 0, len(q.pending))
	for _, e := range q.pending {
		out = append(out, e.request)
	}
	return out
}

// Respond delivers a decision for id and removes it from the queue.
// Returns InvalidParams if id is not pending (already resolved, never
// existed, or already timed out and swept).
func (q *Queue) Respond(id string, approved bool, data map[string]string) error {
	q.mu.Lock()
	e, ok := q.pending[id]
	if ok {
		delete(q.pending, id)
	}
	q.mu.Unlock()

	if !ok {
		return aerr.WithDetails(aerr.ErrInvalidParams, map[string]string{
			"id": id, "reason": "unknown or already resolved approval id",
		})
	}

	e.sink <- Response{Approved: approved, Data: data}
	close(e.sink)
	return nil
}

// SweepExpired resolves every request whose timeout has passed as of
// now with UserRejected and removes it from the queue. Callers run this
// periodically with now = time.Now(); it takes no action on requests
// still within their window.
func (q *Queue) SweepExpired(now time.Time) {
	q.mu.Lock()
	var expired []*entry
	for id, e := range q.pending {
		if now.After(e.expiresAt) {
			expired = append(expired, e)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, e := range expired {
		e.sink <- Response{Approved: false, Err: aerr.ErrUserRejected}
		close(e.sink)
	}
}

// RemoveAllForWindow resolves and removes every pending request bound
// to windowLabel with Disconnected, called when that dApp window
// closes.
func (q *Queue) RemoveAllForWindow(windowLabel string) {
	q.mu.Lock()
	var dropped []*entry
	for id, e := range q.pending {
		if e.request.WindowLabel == windowLabel {
			dropped = append(dropped, e)
			delete(q.pending, id)
		}
	}
	q.mu.Unlock()

	for _, e := range dropped {
		e.sink <- Response{Approved: false, Err: aerr.ErrDisconnected}
		close(e.sink)
	}
}
