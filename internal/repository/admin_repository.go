package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/acadtrack/query-portal/internal/domain"
)

// AdminRepository handles persistence for privileged accounts.
type AdminRepository interface {
	Create(ctx context.Context, admin *domain.AdminUser) error
	Update(ctx context.Context, admin *domain.AdminUser) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error)
	List(ctx context.Context) ([]domain.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
}

type adminRepository struct {
	pool *pgxpool.Pool
}

// NewAdminRepository instantiates the repository.
func NewAdminRepository(pool *pgxpool.Pool) AdminRepository {
	return &adminRepository{pool: pool}
}

const adminColumns = `id, name, email, password_hash, role, department, phone, status, last_login, created_at, updated_at`

func (r *adminRepository) Create(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        INSERT INTO admin_users (name, email, password_hash, role, department, phone, status)
        VALUES ($1,$2,$3,$4,$5,$6,$7)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.Department,
		admin.Phone,
		admin.Status,
	).Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)
}

func (r *adminRepository) Update(ctx context.Context, admin *domain.AdminUser) error {
	const query = `
        UPDATE admin_users SET name=$1, email=$2, password_hash=$3, role=$4, department=$5,
            phone=$6, status=$7, updated_at=NOW()
        WHERE id=$8
        RETURNING updated_at`

	if err := r.pool.QueryRow(ctx, query,
		admin.Name,
		admin.Email,
		admin.PasswordHash,
		admin.Role,
		admin.Department,
		admin.Phone,
		admin.Status,
		admin.ID,
	).Scan(&admin.UpdatedAt); err != nil {
		return err
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM admin_users WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *adminRepository) GetByID(ctx context.Context, id int64) (*domain.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE id=$1`, adminColumns)
	return r.fetchSingle(ctx, query, id)
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users WHERE email=$1`, adminColumns)
	return r.fetchSingle(ctx, query, email)
}

func (r *adminRepository) fetchSingle(ctx context.Context, query string, arg any) (*domain.AdminUser, error) {
	var admin domain.AdminUser
	if err := r.pool.QueryRow(ctx, query, arg).Scan(
		&admin.ID,
		&admin.Name,
		&admin.Email,
		&admin.PasswordHash,
		&admin.Role,
		&admin.Department,
		&admin.Phone,
		&admin.Status,
		&admin.LastLogin,
		&admin.CreatedAt,
		&admin.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &admin, nil
}

func (r *adminRepository) List(ctx context.Context) ([]domain.AdminUser, error) {
	query := fmt.Sprintf(`SELECT %s FROM admin_users ORDER BY id ASC`, adminColumns)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.AdminUser
	for rows.Next() {
		var admin domain.AdminUser
		if err := rows.Scan(
			&admin.ID,
			&admin.Name,
			&admin.Email,
			&admin.PasswordHash,
			&admin.Role,
			&admin.Department,
			&admin.Phone,
			&admin.Status,
			&admin.LastLogin,
			&admin.CreatedAt,
			&admin.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, admin)
	}
	return result, rows.Err()
}

func (r *adminRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login=$1 WHERE id=$2`, at, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
