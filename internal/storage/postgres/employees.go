package postgres

import (
	"context"
	"errors"
	"fmt"

	"headstone-api/internal/models"
	"headstone-api/internal/storage"
	"headstone-api/internal/transport/dto"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// UserRepo implements storage.UserRepository.
type UserRepo struct {
	db     Querier
	logger *zap.Logger
}

var _ storage.UserRepository = (*UserRepo)(nil)

const userColumns = `id, username, password_hash, is_active, created_at, updated_at`

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepo) GetByID(ctx context.Context, id int64) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get user %d", id))
	}
	return u, nil
}

func (r *UserRepo) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username))
	if err != nil {
		return nil, mapReadError(err, "failed to get user by username")
	}
	return u, nil
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE username = $1)`, username).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func (r *UserRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	query := `
		INSERT INTO users (username, password_hash, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, NOW(), NOW())
		RETURNING ` + userColumns
	created, err := scanUser(r.db.QueryRow(ctx, query, u.Username, u.PasswordHash, u.IsActive))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, storage.ErrDuplicateUsername
		}
		return nil, mapWriteError(err, "failed to create user")
	}
	r.logger.Info("user created", zap.Int64("user_id", created.ID), zap.String("username", created.Username))
	return created, nil
}

// EmployeeRepo implements storage.EmployeeRepository. Every read joins the
// linked user so Employee.Username is populated.
type EmployeeRepo struct {
	db     Querier
	logger *zap.Logger
}

var _ storage.EmployeeRepository = (*EmployeeRepo)(nil)

const employeeSelect = `
	SELECT e.id, e.user_id, u.username, e.full_name, e.email, e.phone, e.role, e.is_active, e.created_at, e.updated_at
	FROM employees e
	LEFT JOIN users u ON u.id = e.user_id`

func scanEmployee(row rowScanner) (*models.Employee, error) {
	var (
		e        models.Employee
		username *string
	)
	err := row.Scan(&e.ID, &e.UserID, &username, &e.FullName, &e.Email, &e.Phone,
		&e.Role, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if username != nil {
		e.Username = *username
	}
	return &e, nil
}

// List returns employees ordered by name, optionally restricted to one role.
func (r *EmployeeRepo) List(ctx context.Context, req *dto.ListEmployeesRequest) ([]models.Employee, error) {
	b := entsql.Dialect(dialect.Postgres)
	e := b.Table("employees").As("e")
	u := b.Table("users").As("u")
	sel := b.Select(
		e.C("id"), e.C("user_id"), u.C("username"), e.C("full_name"), e.C("email"), e.C("phone"),
		e.C("role"), e.C("is_active"), e.C("created_at"), e.C("updated_at"),
	).
		From(e).
		LeftJoin(u).On(e.C("user_id"), u.C("id")).
		OrderBy(e.C("full_name"), e.C("id"))

	if req != nil && req.Role != "" {
		sel.Where(entsql.EQ(e.C("role"), req.Role))
	}

	query, args := sel.Query()
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error("failed to query employees", zap.Error(err))
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	employees, err := collect(rows, scanEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to scan employees: %w", err)
	}
	return employees, nil
}

func (r *EmployeeRepo) ListActiveTechnicians(ctx context.Context) ([]models.Employee, error) {
	rows, err := r.db.Query(ctx, employeeSelect+` WHERE e.role = $1 AND e.is_active ORDER BY e.full_name, e.id`, string(models.RoleTech))
	if err != nil {
		return nil, fmt.Errorf("failed to query technicians: %w", err)
	}
	techs, err := collect(rows, scanEmployee)
	if err != nil {
		return nil, fmt.Errorf("failed to scan technicians: %w", err)
	}
	return techs, nil
}

func (r *EmployeeRepo) GetByID(ctx context.Context, id int64) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, employeeSelect+` WHERE e.id = $1`, id))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get employee %d", id))
	}
	return e, nil
}

func (r *EmployeeRepo) GetByUserID(ctx context.Context, userID int64) (*models.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, employeeSelect+` WHERE e.user_id = $1`, userID))
	if err != nil {
		return nil, mapReadError(err, fmt.Sprintf("failed to get employee for user %d", userID))
	}
	return e, nil
}

func (r *EmployeeRepo) Create(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO employees (user_id, full_name, email, phone, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING id`,
		emp.UserID, emp.FullName, emp.Email, emp.Phone, string(emp.Role), emp.IsActive,
	).Scan(&id)
	if err != nil {
		return nil, mapWriteError(err, "failed to create employee")
	}
	r.logger.Info("employee created", zap.Int64("employee_id", id), zap.String("role", string(emp.Role)))
	return r.GetByID(ctx, id)
}

func (r *EmployeeRepo) Update(ctx context.Context, emp *models.Employee) (*models.Employee, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE employees
		SET full_name = $2, email = $3, phone = $4, role = $5, is_active = $6, updated_at = NOW()
		WHERE id = $1`,
		emp.ID, emp.FullName, emp.Email, emp.Phone, string(emp.Role), emp.IsActive,
	)
	if err != nil {
		return nil, mapWriteError(err, fmt.Sprintf("failed to update employee %d", emp.ID))
	}
	if tag.RowsAffected() == 0 {
		return nil, storage.ErrNotFound
	}
	return r.GetByID(ctx, emp.ID)
}
