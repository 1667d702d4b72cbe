package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/navikon/atlasbot/internal/models"
)

var (
	// ErrEmployeeNotFound is returned when no record matches the predicate.
	ErrEmployeeNotFound = errors.New("employee not found")
	// ErrDuplicateEmail is returned when an insert collides with an existing email.
	ErrDuplicateEmail = errors.New("employee with this email already exists")
)

const pgUniqueViolation = "23505"

const employeeColumns = `id, first_name, last_name, COALESCE(email, ''), COALESCE(phone, ''),
		COALESCE(position, ''), COALESCE(department, ''), birthday_day, birthday_month, created_at`

func scanEmployee(row pgx.Row) (models.Employee, error) {
	var emp models.Employee
	err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Phone,
		&emp.Position, &emp.Department, &emp.BirthdayDay, &emp.BirthdayMonth, &emp.CreatedAt,
	)
	return emp, err
}

// FindFirst returns the first employee matching the predicate, in insertion
// order. If nothing matches, ErrEmployeeNotFound is returned.
func (r *Repository) FindFirst(ctx context.Context, pred Predicate) (models.Employee, error) {
	where, args := BuildWhere(pred)
	query := fmt.Sprintf(
		"SELECT %s FROM employees WHERE %s ORDER BY id LIMIT 1", employeeColumns, where,
	)

	emp, err := scanEmployee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Employee{}, ErrEmployeeNotFound
		}
		return models.Employee{}, fmt.Errorf("failed to find employee: %w", err)
	}

	return emp, nil
}

// FindMany returns every employee matching the predicate, in insertion order.
func (r *Repository) FindMany(ctx context.Context, pred Predicate) ([]models.Employee, error) {
	where, args := BuildWhere(pred)
	query := fmt.Sprintf("SELECT %s FROM employees WHERE %s ORDER BY id", employeeColumns, where)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// ListEmployees returns the whole directory ordered by first name, the order
// the /employees command displays it in.
func (r *Repository) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf("SELECT %s FROM employees ORDER BY first_name, last_name", employeeColumns)

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	defer rows.Close()

	return collectEmployees(rows)
}

// CreateEmployee inserts a new record and returns its assigned id. The caller
// is expected to have validated the data; a colliding email surfaces as
// ErrDuplicateEmail.
func (r *Repository) CreateEmployee(ctx context.Context, emp models.Employee) (int, error) {
	query := `
		INSERT INTO employees (first_name, last_name, email, phone, position, department, birthday_day, birthday_month)
		VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), NULLIF($5, ''), NULLIF($6, ''), $7, $8)
		RETURNING id`

	var id int
	err := r.db.QueryRow(
		ctx, query,
		emp.FirstName, emp.LastName, emp.Email, emp.Phone,
		emp.Position, emp.Department, emp.BirthdayDay, emp.BirthdayMonth,
	).Scan(&id)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return 0, ErrDuplicateEmail
		}
		return 0, fmt.Errorf("failed to create employee: %w", err)
	}

	return id, nil
}

// CountEmployees returns the total number of directory records.
func (r *Repository) CountEmployees(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, "SELECT count(*) FROM employees").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count employees: %w", err)
	}

	return count, nil
}

func collectEmployees(rows pgx.Rows) ([]models.Employee, error) {
	var employees []models.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee row: %w", err)
		}
		employees = append(employees, emp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employee rows: %w", err)
	}

	return employees, nil
}
