// Package obsmetrics provides lightweight, in-process metrics
// collection using atomic counters — ambient observability the wallet
// core carries regardless of any dApp-facing Non-goal (spec.md §1
// excludes third-party price feeds and packaging, not counting your
// own RPC calls).
//
// Adapted from the teacher's internal/metrics/metrics.go, re-keyed
// from a single fixed (eth, bsv) chain pair to a per-network-id
// counter map since this repo supports an open-ended set of EVM
// networks, and extended with dApp-bridge counters (approvals,
// sessions, rate-limit rejections) the teacher's CLI had no analogue
// for.
package obsmetrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics holds application metrics using atomic counters for thread
// safety; no lock is held across an increment.
type Metrics struct {
	rpcCallsTotal   atomic.Int64
	rpcErrorsTotal  atomic.Int64
	rpcLatencyNanos atomic.Int64

	walletOpsTotal  atomic.Int64
	walletOpsErrors atomic.Int64

	approvalsRequested atomic.Int64
	approvalsApproved  atomic.Int64
	approvalsRejected  atomic.Int64
	approvalsExpired   atomic.Int64

	sessionsCreated atomic.Int64
	rateLimited     atomic.Int64

	mu           sync.Mutex
	perNetworkRPC map[string]int64
}

// Global is the process-wide metrics instance.
//
//nolint:gochecknoglobals // Intentional global for metrics access, matching the teacher's pattern
var Global = New()

// New creates an empty Metrics instance. Tests construct their own
// rather than sharing Global so assertions don't race each other.
func New() *Metrics {
	return &Metrics{perNetworkRPC: make(map[string]int64)}
}

// RecordRPCCall records an outbound chain-adapter RPC call against
// networkID with its duration and success status.
func (m *Metrics) RecordRPCCall(networkID string, duration time.Duration, err error) {
	m.rpcCallsTotal.Add(1)
	m.rpcLatencyNanos.Add(duration.Nanoseconds())
	if err != nil {
		m.rpcErrorsTotal.Add(1)
	}

	m.mu.Lock()
	m.perNetworkRPC[networkID]++
	m.mu.Unlock()
}

// RecordWalletOp records a wallet-service operation (create, unlock,
// derive, sign, ...).
func (m *Metrics) RecordWalletOp(err error) {
	m.walletOpsTotal.Add(1)
	if err != nil {
		m.walletOpsErrors.Add(1)
	}
}

// RecordApprovalRequested records a new pending approval enqueued.
func (m *Metrics) RecordApprovalRequested() { m.approvalsRequested.Add(1) }

// RecordApprovalResolved records how a pending approval was resolved.
func (m *Metrics) RecordApprovalResolved(approved, expired bool) {
	switch {
	case expired:
		m.approvalsExpired.Add(1)
	case approved:
		m.approvalsApproved.Add(1)
	default:
		m.approvalsRejected.Add(1)
	}
}

// RecordSessionCreated records a new dApp session.
func (m *Metrics) RecordSessionCreated() { m.sessionsCreated.Add(1) }

// RecordRateLimited records a request rejected by the per-origin rate
// limiter.
func (m *Metrics) RecordRateLimited() { m.rateLimited.Add(1) }

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	RPCCallsTotal      int64
	RPCErrorsTotal     int64
	RPCLatencyNanos    int64
	WalletOpsTotal     int64
	WalletOpsErrors    int64
	ApprovalsRequested int64
	ApprovalsApproved  int64
	ApprovalsRejected  int64
	ApprovalsExpired   int64
	SessionsCreated    int64
	RateLimited        int64
	PerNetworkRPC      map[string]int64
}

// Snapshot returns a point-in-time copy of all metrics.
func (m *Metrics) Snapshot() Snapshot {
	m.mu.Lock()
	perNetwork := make(map[string]int64, len(m.perNetworkRPC))
	for k, v := range m.perNetworkRPC {
		perNetwork[k] = v
	}
	m.mu.Unlock()

	return Snapshot{
		RPCCallsTotal:      m.rpcCallsTotal.Load(),
		RPCErrorsTotal:     m.rpcErrorsTotal.Load(),
		RPCLatencyNanos:    m.rpcLatencyNanos.Load(),
		WalletOpsTotal:     m.walletOpsTotal.Load(),
		WalletOpsErrors:    m.walletOpsErrors.Load(),
		ApprovalsRequested: m.approvalsRequested.Load(),
		ApprovalsApproved:  m.approvalsApproved.Load(),
		ApprovalsRejected:  m.approvalsRejected.Load(),
		ApprovalsExpired:   m.approvalsExpired.Load(),
		SessionsCreated:    m.sessionsCreated.Load(),
		RateLimited:        m.rateLimited.Load(),
		PerNetworkRPC:      perNetwork,
	}
}

// RPCLatencyAvgMs returns the average RPC latency in milliseconds, or
// 0 if no calls have been made.
func (m *Metrics) RPCLatencyAvgMs() float64 {
	calls := m.rpcCallsTotal.Load()
	if calls == 0 {
		return 0
	}
	return float64(m.rpcLatencyNanos.Load()) / float64(calls) / 1e6
}

// Reset zeroes all counters. Useful for tests sharing Global.
func (m *Metrics) Reset() {
	m.rpcCallsTotal.Store(0)
	m.rpcErrorsTotal.Store(0)
	m.rpcLatencyNanos.Store(0)
	m.walletOpsTotal.Store(0)
	m.walletOpsErrors.Store(0)
	m.approvalsRequested.Store(0)
	m.approvalsApproved.Store(0)
	m.approvalsRejected.Store(0)
	m.approvalsExpired.Store(0)
	m.sessionsCreated.Store(0)
	m.rateLimited.Store(0)

	m.mu.Lock()
	m.perNetworkRPC = make(map[string]int64)
	m.mu.Unlock()
}
