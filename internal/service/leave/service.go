package leave

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/domain/leave"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
)

// Transact runs fn inside a single storage transaction. Repositories pick
// the transaction up from the context fn receives.
type Transact func(ctx context.Context, fn func(ctx context.Context) error) error

// RequestService processes leave/WFH approval decisions. Approval projects
// the request's date range onto attendance and marks the request approved
// in one transaction, so a request never reads approved with no projection
// committed.
type RequestService struct {
	requests     leave.Repository
	projector    attendance.Projector
	transact     Transact
	clock        civil.Clock
	storeTimeout time.Duration
	logger       *slog.Logger
}

func NewRequestService(
	requests leave.Repository,
	projector attendance.Projector,
	transact Transact,
	clock civil.Clock,
	storeTimeout time.Duration,
	logger *slog.Logger,
) *RequestService {
	return &RequestService{
		requests:     requests,
		projector:    projector,
		transact:     transact,
		clock:        clock,
		storeTimeout: storeTimeout,
		logger:       logger,
	}
}

func (s *RequestService) Approve(ctx context.Context, requestID, approverID string) (leave.Request, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}
	if req.Status != leave.RequestPending {
		return leave.Request{}, leave.ErrRequestAlreadyProcessed
	}

	kind := attendance.ProjectLeave
	if req.Kind == leave.KindWFH {
		kind = attendance.ProjectWFH
	}

	now := s.clock.Now()
	req.Status = leave.RequestApproved
	req.ApprovedBy = &approverID
	req.ApprovedAt = &now
	req.UpdatedAt = now

	var projection attendance.ProjectionResult
	err = s.transact(ctx, func(txCtx context.Context) error {
		projection, err = s.projector.Project(txCtx, req.EmployeeID, req.StartDate, req.EndDate, kind)
		if err != nil {
			return fmt.Errorf("project approved span: %w", err)
		}
		if err := s.update(txCtx, req); err != nil {
			return fmt.Errorf("persist approval: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Request{}, err
	}

	s.logger.Info("leave request approved",
		"request_id", req.ID,
		"employee_id", req.EmployeeID,
		"kind", string(req.Kind),
		"start", req.StartDate.String(),
		"end", req.EndDate.String(),
		"projected_created", projection.Created,
		"projected_updated", projection.Updated,
		"projected_skipped", projection.Skipped,
		"projected_failed", projection.Failed,
	)

	return req, nil
}

func (s *RequestService) Reject(ctx context.Context, requestID, approverID, reason string) (leave.Request, error) {
	req, err := s.load(ctx, requestID)
	if err != nil {
		return leave.Request{}, err
	}
	if req.Status != leave.RequestPending {
		return leave.Request{}, leave.ErrRequestAlreadyProcessed
	}

	now := s.clock.Now()
	req.Status = leave.RequestRejected
	req.ApprovedBy = &approverID
	req.RejectionReason = &reason
	req.UpdatedAt = now
	if err := s.update(ctx, req); err != nil {
		return leave.Request{}, fmt.Errorf("persist rejection: %w", err)
	}

	s.logger.Info("leave request rejected",
		"request_id", req.ID, "employee_id", req.EmployeeID, "reason", reason)

	return req, nil
}

func (s *RequestService) load(ctx context.Context, requestID string) (leave.Request, error) {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	req, err := s.requests.GetByID(storeCtx, requestID)
	if err != nil {
		return leave.Request{}, fmt.Errorf("load request %s: %w", requestID, err)
	}
	return req, nil
}

func (s *RequestService) update(ctx context.Context, req leave.Request) error {
	storeCtx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()
	return s.requests.Update(storeCtx, req)
}
