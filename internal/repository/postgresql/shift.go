package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrkit/attendance-engine/internal/domain/shift"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type shiftCatalog struct {
	db *database.DB
}

func NewShiftCatalog(db *database.DB) shift.Catalog {
	return &shiftCatalog{db: db}
}

// ShiftForEmployee implements shift.Catalog. An employee without an
// assigned shift returns (nil, nil).
func (r *shiftCatalog) ShiftForEmployee(ctx context.Context, employeeID string) (*shift.Shift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT s.id, s.category,
			   s.start_time::text, s.end_time::text, s.late_mark_time::text
		FROM shifts s
		JOIN employees e ON e.shift_id = s.id
		WHERE e.id = $1
	`

	var sh shift.Shift
	var startStr, endStr string
	var lateMarkStr *string
	err := q.QueryRow(ctx, query, employeeID).Scan(
		&sh.ID, &sh.Category, &startStr, &endStr, &lateMarkStr,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get shift for employee: %w", err)
	}

	if sh.StartTime, err = civil.ParseTimeOfDay(startStr); err != nil {
		return nil, fmt.Errorf("invalid start_time column: %w", err)
	}
	if sh.EndTime, err = civil.ParseTimeOfDay(endStr); err != nil {
		return nil, fmt.Errorf("invalid end_time column: %w", err)
	}
	if lateMarkStr != nil {
		if sh.LateMarkTime, err = civil.ParseTimeOfDay(*lateMarkStr); err != nil {
			return nil, fmt.Errorf("invalid late_mark_time column: %w", err)
		}
	}

	return &sh, nil
}
