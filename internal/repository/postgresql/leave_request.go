package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrkit/attendance-engine/internal/domain/leave"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.Repository {
	return &leaveRequestRepository{db: db}
}

// GetByID implements leave.Repository.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, kind, start_date::text, end_date::text,
			   status, reason, rejection_reason, approved_by, approved_at,
			   created_at, updated_at
		FROM leave_requests
		WHERE id = $1
	`

	var req leave.Request
	var startStr, endStr string
	err := q.QueryRow(ctx, query, id).Scan(
		&req.ID, &req.EmployeeID, &req.Kind, &startStr, &endStr,
		&req.Status, &req.Reason, &req.RejectionReason, &req.ApprovedBy, &req.ApprovedAt,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request: %w", err)
	}

	if req.StartDate, err = civil.ParseDate(startStr); err != nil {
		return leave.Request{}, fmt.Errorf("invalid start_date column: %w", err)
	}
	if req.EndDate, err = civil.ParseDate(endStr); err != nil {
		return leave.Request{}, fmt.Errorf("invalid end_date column: %w", err)
	}

	return req, nil
}

// Update implements leave.Repository.
func (r *leaveRequestRepository) Update(ctx context.Context, req leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests
		SET status = $2,
			rejection_reason = $3,
			approved_by = $4,
			approved_at = $5,
			updated_at = $6
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		req.ID,
		req.Status,
		req.RejectionReason,
		req.ApprovedBy,
		req.ApprovedAt,
		req.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrRequestNotFound
	}

	return nil
}
