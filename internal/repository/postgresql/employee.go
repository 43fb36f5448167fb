package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrkit/attendance-engine/internal/domain/employee"
	"github.com/hrkit/attendance-engine/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type employeeRepository struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.Repository {
	return &employeeRepository{db: db}
}

// GetByID implements employee.Repository. A missing employee returns
// (nil, nil).
func (r *employeeRepository) GetByID(ctx context.Context, id string) (*employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, employment_status = 'active', shift_id
		FROM employees
		WHERE id = $1
	`

	var emp employee.Employee
	err := q.QueryRow(ctx, query, id).Scan(&emp.ID, &emp.FullName, &emp.Active, &emp.ShiftID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}

	return &emp, nil
}

// ListActiveWithShift implements employee.Repository.
func (r *employeeRepository) ListActiveWithShift(ctx context.Context) ([]employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, full_name, employment_status = 'active', shift_id
		FROM employees
		WHERE employment_status = 'active' AND shift_id IS NOT NULL
		ORDER BY id
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list active employees: %w", err)
	}
	defer rows.Close()

	var employees []employee.Employee
	for rows.Next() {
		var emp employee.Employee
		if err := rows.Scan(&emp.ID, &emp.FullName, &emp.Active, &emp.ShiftID); err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}

	return employees, nil
}
