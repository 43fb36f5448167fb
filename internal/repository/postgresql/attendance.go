package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrkit/attendance-engine/internal/domain/attendance"
	"github.com/hrkit/attendance-engine/internal/pkg/civil"
	"github.com/hrkit/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date::text, status,
	check_in_time::text, check_out_time::text,
	is_late, is_on_wfh, work_hours,
	location, device_info,
	created_at, updated_at`

// Create implements attendance.Repository.
func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	if att.ID == "" {
		att.ID = uuid.NewString()
	}

	query := `
		INSERT INTO attendances (
			id, employee_id, date, status,
			check_in_time, check_out_time,
			is_late, is_on_wfh, work_hours,
			location, device_info,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`

	_, err := q.Exec(ctx, query,
		att.ID,
		att.EmployeeID,
		att.Date.String(),
		att.Status,
		timeOfDayPtrToString(att.CheckInTime),
		timeOfDayPtrToString(att.CheckOutTime),
		att.IsLate,
		att.IsOnWFH,
		att.WorkHours,
		att.Location,
		att.DeviceInfo,
		att.CreatedAt,
		att.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return attendance.Attendance{}, fmt.Errorf(
				"attendance for employee %s on %s: %w",
				att.EmployeeID, att.Date, attendance.ErrDuplicateRecord,
			)
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.Repository. A missing record
// returns (nil, nil).
func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date civil.Date) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2
	`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date.String()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance: %w", err)
	}

	return &att, nil
}

// Update implements attendance.Repository.
func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET status = $2,
			check_in_time = $3,
			check_out_time = $4,
			is_late = $5,
			is_on_wfh = $6,
			work_hours = $7,
			location = $8,
			device_info = $9,
			updated_at = $10
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		att.ID,
		att.Status,
		timeOfDayPtrToString(att.CheckInTime),
		timeOfDayPtrToString(att.CheckOutTime),
		att.IsLate,
		att.IsOnWFH,
		att.WorkHours,
		att.Location,
		att.DeviceInfo,
		att.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrRecordNotFound
	}

	return nil
}

// ListPendingByDate implements attendance.Repository.
func (r *attendanceRepository) ListPendingByDate(ctx context.Context, date civil.Date) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT` + attendanceColumns + `
		FROM attendances
		WHERE date = $1 AND status = $2
		ORDER BY employee_id
	`

	rows, err := q.Query(ctx, query, date.String(), attendance.StatusPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attendances: %w", err)
	}

	return records, nil
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var (
		att      attendance.Attendance
		dateStr  string
		checkIn  *string
		checkOut *string
	)

	err := row.Scan(
		&att.ID, &att.EmployeeID, &dateStr, &att.Status,
		&checkIn, &checkOut,
		&att.IsLate, &att.IsOnWFH, &att.WorkHours,
		&att.Location, &att.DeviceInfo,
		&att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, err
	}

	if att.Date, err = civil.ParseDate(dateStr); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid date column: %w", err)
	}
	if att.CheckInTime, err = parseTimeOfDayPtr(checkIn); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid check_in_time column: %w", err)
	}
	if att.CheckOutTime, err = parseTimeOfDayPtr(checkOut); err != nil {
		return attendance.Attendance{}, fmt.Errorf("invalid check_out_time column: %w", err)
	}

	return att, nil
}

func timeOfDayPtrToString(t *civil.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func parseTimeOfDayPtr(s *string) (*civil.TimeOfDay, error) {
	if s == nil {
		return nil, nil
	}
	t, err := civil.ParseTimeOfDay(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
