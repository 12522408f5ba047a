package approval_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aurumlabs/aurum-core/internal/approval"
	"github.com/aurumlabs/aurum-core/pkg/aerr"
)

func TestEnqueue_RejectsDuplicateID(t *testing.T) {
	q := approval.New()

	_, err := q.Enqueue(approval.Request{ID: "req-1", Method: "eth_sendTransaction"})
	require.NoError(t, err)

	_, err = q.Enqueue(approval.Request{ID: "req-1", Method: "eth_sendTransaction"})
	assert.ErrorIs(t, err, aerr.ErrDuplicateRequest)
}

func TestRespond_DeliversDecisionAndRemoves(t *testing.T) {
	q := approval.New()
	sink, err := q.Enqueue(approval.Request{ID: "req-1"})
	require.NoError(t, err)

	require.NoError(t, q.Respond("req-1", true, map[string]string{"password": "p@ssw0rd!"}))

	resp := <-sink
	assert.True(t, resp.Approved)
	assert.Equal(t, "p@ssw0rd!", resp.Data["password"])

	assert.Empty(t, q.Pending())
}

func TestRespond_UnknownID(t *testing.T) {
	q := approval.New()
	err := q.Respond("does-not-exist", true, nil)
	assert.ErrorIs(t, err, aerr.ErrInvalidParams)
}

func TestRespond_Rejection(t *testing.T) {
	q := approval.New()
	sink, err := q.Enqueue(approval.Request{ID: "req-1"})
	require.NoError(t, err)

	require.NoError(t, q.Respond("req-1", false, nil))

	resp := <-sink
	assert.False(t, resp.Approved)
}

func TestSweepExpired_LeavesFreshRequestsAlone(t *testing.T) {
	q := approval.NewWithTimeout(5 * time.Minute)
	sink, err := q.Enqueue(approval.Request{ID: "req-1"})
	require.NoError(t, err)

	q.SweepExpired(time.Now())
	assert.Len(t, q.Pending(), 1)

	select {
	case <-sink:
		t.Fatal("sink should not resolve before timeout")
	default:
	}
}

func TestSweepExpired_ResolvesWithUserRejected(t *testing.T) {
	q := approval.NewWithTimeout(5 * time.Minute)
	sink, err := q.Enqueue(approval.Request{ID: "req-1"})
	require.NoError(t, err)

	q.SweepExpired(time.Now().Add(6 * time.Minute))

	resp := <-sink
	assert.False(t, resp.Approved)
	assert.ErrorIs(t, resp.Err, aerr.ErrUserRejected)
	assert.Empty(t, q.Pending())
}

func TestRemoveAllForWindow_ResolvesWithDisconnected(t *testing.T) {
	q := approval.New()
	sinkA, err := q.Enqueue(approval.Request{ID: "req-a", WindowLabel: "window-a"})
	require.NoError(t, err)
	sinkB, err := q.Enqueue(approval.Request{ID: "req-b", WindowLabel: "window-b"})
	require.NoError(t, err)

	q.RemoveAllForWindow("window-a")

	resp := <-sinkA
	assert.False(t, resp.Approved)
	assert.ErrorIs(t, resp.Err, aerr.ErrDisconnected)

	assert.Len(t, q.Pending(), 1)
	_ = sinkB
}

func TestPending_ReturnsAllOutstanding(t *testing.T) {
	q := approval.New()
	_, err := q.Enqueue(approval.Request{ID: "req-1", Method: "eth_sendTransaction"})
	require.NoError(t, err)
	_, err = q.Enqueue(approval.Request{ID: "req-2", Method: "personal_sign"})
	require.NoError(t, err)

	assert.Len(t, q.Pending(), 2)
}
