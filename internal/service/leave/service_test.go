package leave

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/leave"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memRequests struct {
	mu       sync.Mutex
	requests map[string]leave.Request
}

func newMemRequests() *memRequests {
	return &memRequests{requests: make(map[string]leave.Request)}
}

func (r *memRequests) GetByID(ctx context.Context, id string) (leave.Request, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return leave.Request{}, leave.ErrRequestNotFound
	}
	return req, nil
}

func (r *memRequests) Update(ctx context.Context, req leave.Request) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[req.ID]; !ok {
		return leave.ErrRequestNotFound
	}
	r.requests[req.ID] = req
	return nil
}

func (r *memRequests) put(req leave.Request) {
	r.mu.Lock()
	r.requests[req.ID] = req
	r.mu.Unlock()
}

type projectionCall struct {
	employeeID string
	start, end civil.Date
	kind       attendance.ProjectionKind
}

type fakeProjector struct {
	mu    sync.Mutex
	calls []projectionCall
	err   error
}

func (p *fakeProjector) Project(ctx context.Context, employeeID string, start, end civil.Date, kind attendance.ProjectionKind) (attendance.ProjectionResult, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return attendance.ProjectionResult{}, p.err
	}
	p.calls = append(p.calls, projectionCall{employeeID: employeeID, start: start, end: end, kind: kind})
	return attendance.ProjectionResult{Updated: 1}, nil
}

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var (
	reqStart = civil.Date{Year: 2025, Month: time.June, Day: 2}
	reqEnd   = civil.Date{Year: 2025, Month: time.June, Day: 4}
)

func pendingRequest(id string, kind leave.Kind) leave.Request {
	return leave.Request{
		ID:         id,
		EmployeeID: "emp-1",
		Kind:       kind,
		StartDate:  reqStart,
		EndDate:    reqEnd,
		Status:     leave.RequestPending,
		Reason:     "family event",
	}
}

// passthroughTransact runs fn directly, standing in for a real database
// transaction.
func passthroughTransact(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newTestService(requests *memRequests, projector *fakeProjector, now time.Time) *RequestService {
	return NewRequestService(requests, projector, passthroughTransact, fixedClock{now: now}, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestApprove_ProjectsSpanAndMarksApproved(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindLeave))

	approved, err := newTestService(requests, projector, now).Approve(context.Background(), "req-1", "mgr-1")
	require.NoError(t, err)

	assert.Equal(t, leave.RequestApproved, approved.Status)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, "mgr-1", *approved.ApprovedBy)
	require.NotNil(t, approved.ApprovedAt)
	assert.Equal(t, now, *approved.ApprovedAt)

	require.Len(t, projector.calls, 1)
	call := projector.calls[0]
	assert.Equal(t, "emp-1", call.employeeID)
	assert.Equal(t, reqStart, call.start)
	assert.Equal(t, reqEnd, call.end)
	assert.Equal(t, attendance.ProjectLeave, call.kind)
}

func TestApprove_WFHRequestProjectsWFH(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindWFH))

	_, err := newTestService(requests, projector, now).Approve(context.Background(), "req-1", "mgr-1")
	require.NoError(t, err)

	require.Len(t, projector.calls, 1)
	assert.Equal(t, attendance.ProjectWFH, projector.calls[0].kind)
}

func TestApprove_ProjectsAndUpdatesInOneTransaction(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindLeave))

	transactCalls := 0
	transact := func(ctx context.Context, fn func(ctx context.Context) error) error {
		transactCalls++
		// Nothing has touched the store before the transaction opens.
		assert.Empty(t, projector.calls)
		stored, err := requests.GetByID(ctx, "req-1")
		require.NoError(t, err)
		assert.Equal(t, leave.RequestPending, stored.Status)
		return fn(ctx)
	}
	service := NewRequestService(requests, projector, transact, fixedClock{now: now}, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Approve(context.Background(), "req-1", "mgr-1")
	require.NoError(t, err)

	assert.Equal(t, 1, transactCalls)
	assert.Len(t, projector.calls, 1)
	stored, err := requests.GetByID(context.Background(), "req-1")
	require.NoError(t, err)
	assert.Equal(t, leave.RequestApproved, stored.Status)
}

func TestApprove_TransactionFailureLeavesRequestPending(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindLeave))

	transact := func(ctx context.Context, fn func(ctx context.Context) error) error {
		return context.DeadlineExceeded
	}
	service := NewRequestService(requests, projector, transact, fixedClock{now: now}, 5*time.Second, slog.New(slog.NewTextHandler(io.Discard, nil)))

	_, err := service.Approve(context.Background(), "req-1", "mgr-1")
	assert.Error(t, err)

	stored, getErr := requests.GetByID(context.Background(), "req-1")
	require.NoError(t, getErr)
	assert.Equal(t, leave.RequestPending, stored.Status)
}

func TestApprove_AlreadyProcessed(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	req := pendingRequest("req-1", leave.KindLeave)
	req.Status = leave.RequestApproved
	requests.put(req)

	_, err := newTestService(requests, projector, now).Approve(context.Background(), "req-1", "mgr-1")
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
	assert.Empty(t, projector.calls)
}

func TestApprove_ProjectionFailureLeavesRequestPending(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{err: context.DeadlineExceeded}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindLeave))

	_, err := newTestService(requests, projector, now).Approve(context.Background(), "req-1", "mgr-1")
	assert.Error(t, err)

	stored, getErr := requests.GetByID(context.Background(), "req-1")
	require.NoError(t, getErr)
	assert.Equal(t, leave.RequestPending, stored.Status)
}

func TestApprove_UnknownRequest(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	_, err := newTestService(requests, projector, now).Approve(context.Background(), "missing", "mgr-1")
	assert.ErrorIs(t, err, leave.ErrRequestNotFound)
}

func TestReject_SetsReasonWithoutProjection(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	requests.put(pendingRequest("req-1", leave.KindLeave))

	rejected, err := newTestService(requests, projector, now).Reject(context.Background(), "req-1", "mgr-1", "coverage gap")
	require.NoError(t, err)

	assert.Equal(t, leave.RequestRejected, rejected.Status)
	require.NotNil(t, rejected.RejectionReason)
	assert.Equal(t, "coverage gap", *rejected.RejectionReason)
	assert.Empty(t, projector.calls)
}

func TestReject_AlreadyProcessed(t *testing.T) {
	t.Parallel()
	requests := newMemRequests()
	projector := &fakeProjector{}
	now := time.Date(2025, time.June, 1, 10, 0, 0, 0, time.UTC)

	req := pendingRequest("req-1", leave.KindLeave)
	req.Status = leave.RequestRejected
	requests.put(req)

	_, err := newTestService(requests, projector, now).Reject(context.Background(), "req-1", "mgr-1", "again")
	assert.ErrorIs(t, err, leave.ErrRequestAlreadyProcessed)
}
