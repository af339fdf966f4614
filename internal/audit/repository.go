package audit

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/meridian-cms/meridian-cms/internal/shared"
)

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Insert appends one entry. Tidak ada update atau delete.
func (r *Repository) Insert(ctx context.Context, entry Entry) error {
	target := pgtype.Text{String: entry.TargetPath, Valid: entry.TargetPath != ""}
	_, err := r.pool.Exec(ctx,
		`INSERT INTO action_logs (id, actor_id, language, message, target_path, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		entry.ID, entry.ActorID, entry.Language, entry.Message, target, entry.CreatedAt)
	return err
}

// List returns entries newest first, filtered and windowed.
func (r *Repository) List(ctx context.Context, filters ListFilters) ([]Entry, error) {
	window := shared.NewPagination(filters.Page, filters.PageSize, 0)
	actor := pgtype.Int8{Int64: filters.ActorID, Valid: filters.ActorID > 0}
	lang := pgtype.Text{String: filters.Language, Valid: filters.Language != ""}

	rows, err := r.pool.Query(ctx,
		`SELECT id, actor_id, language, message, target_path, created_at
		 FROM action_logs
		 WHERE ($1::bigint IS NULL OR actor_id = $1)
		   AND ($2::text IS NULL OR language = $2)
		 ORDER BY created_at DESC, id
		 OFFSET $3 LIMIT $4`,
		actor, lang, window.Offset(), window.PerPage)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var entry Entry
		var target pgtype.Text
		if err := rows.Scan(&entry.ID, &entry.ActorID, &entry.Language, &entry.Message, &target, &entry.CreatedAt); err != nil {
			return nil, err
		}
		if target.Valid {
			entry.TargetPath = target.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// Count reports how many entries match the filters.
func (r *Repository) Count(ctx context.Context, filters ListFilters) (int, error) {
	actor := pgtype.Int8{Int64: filters.ActorID, Valid: filters.ActorID > 0}
	lang := pgtype.Text{String: filters.Language, Valid: filters.Language != ""}

	var total int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*)
		 FROM action_logs
		 WHERE ($1::bigint IS NULL OR actor_id = $1)
		   AND ($2::text IS NULL OR language = $2)`,
		actor, lang).Scan(&total)
	return total, err
}

var (
	_ InsertPort = (*Repository)(nil)
	_ ListPort   = (*Repository)(nil)
)
