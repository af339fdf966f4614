package users

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-cms/meridian-cms/internal/platform/db"
	"github.com/meridian-cms/meridian-cms/internal/shared"
)

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, email, name, token string) (User, error)
	Update(ctx context.Context, id int64, email, name string) (User, error)
	Delete(ctx context.Context, id int64) error
	SetPassword(ctx context.Context, id int64, hash string) error
	SetToken(ctx context.Context, id int64, token string) error
	Activate(ctx context.Context, id int64, hash string) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userColumns = `id, email, name, COALESCE(password_hash, ''), COALESCE(activation_token, ''), created_at, updated_at`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Name, &user.PasswordHash, &user.ActivationToken, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, err
	}
	return user, nil
}

// List returns all users ordered by id.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var users []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// Get fetches one user by id.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

// GetByEmail fetches one user by email.
func (r *Repository) GetByEmail(ctx context.Context, email string) (User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

// Create inserts a pending account carrying its activation token.
func (r *Repository) Create(ctx context.Context, email, name, token string) (User, error) {
	now := time.Now().UTC()
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, name, activation_token, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 RETURNING `+userColumns,
		email, name, token, pgtype.Timestamptz{Time: now, Valid: true})
	user, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return user, nil
}

// Update changes email and name.
func (r *Repository) Update(ctx context.Context, id int64, email, name string) (User, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE users SET email = $2, name = $3, updated_at = NOW() WHERE id = $1 RETURNING `+userColumns,
		id, email, name)
	user, err := scanUser(row)
	if err != nil {
		return User{}, mapUniqueViolation(err)
	}
	return user, nil
}

// Delete removes a user.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetPassword replaces the stored hash.
func (r *Repository) SetPassword(ctx context.Context, id int64, hash string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET password_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// SetToken stores a fresh activation token, returning the account to
// the pending state.
func (r *Repository) SetToken(ctx context.Context, id int64, token string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET activation_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Activate sets the password and clears the token in one transaction so
// the pending-to-active transition is never partially visible.
func (r *Repository) Activate(ctx context.Context, id int64, hash string) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE users SET password_hash = $2, activation_token = NULL, updated_at = NOW() WHERE id = $1`,
			id, hash)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return shared.ErrDuplicateEmail
	}
	return err
}

var _ RepositoryPort = (*Repository)(nil)
