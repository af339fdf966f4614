package roles

import "context"

// RepositoryPort defines data access for user role associations.
// ReplaceRoles must swap the whole set in one transaction; a concurrent
// reader may see the old set or the new set, never a partial one.
type RepositoryPort interface {
	RoleNames(ctx context.Context, userID int64) ([]string, error)
	ReplaceRoles(ctx context.Context, userID int64, names []string) error
	DeleteRoles(ctx context.Context, userID int64) error
}
