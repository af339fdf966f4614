package roles

import (
	"context"
	"fmt"

	"log/slog"

	"github.com/meridian-cms/meridian-cms/internal/authz"
)

// Service maps stored role names through the declared registry. It
// implements authz.RoleSource; every request reads from the store so
// concurrent role changes take effect immediately.
type Service struct {
	repo     RepositoryPort
	registry *authz.Registry
	defaults authz.RoleSet
	logger   *slog.Logger
}

// NewService constructs a Service. Default role names are validated
// against the registry at startup.
func NewService(repo RepositoryPort, registry *authz.Registry, defaultNames []string, logger *slog.Logger) (*Service, error) {
	defaultRoles := make([]authz.Role, 0, len(defaultNames))
	for _, name := range defaultNames {
		role, ok := registry.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("roles: default role %q is not declared", name)
		}
		defaultRoles = append(defaultRoles, role)
	}
	return &Service{
		repo:     repo,
		registry: registry,
		defaults: authz.NewRoleSet(defaultRoles...),
		logger:   logger,
	}, nil
}

// GetRoles loads the user's granted role set. Stored names no longer in
// the registry are skipped with a warning; they may predate a registry
// change.
func (s *Service) GetRoles(ctx context.Context, userID int64) (authz.RoleSet, error) {
	names, err := s.repo.RoleNames(ctx, userID)
	if err != nil {
		return authz.RoleSet{}, err
	}
	held := make([]authz.Role, 0, len(names))
	for _, name := range names {
		role, ok := s.registry.Lookup(name)
		if !ok {
			if s.logger != nil {
				s.logger.Warn("skipping undeclared role", slog.String("role", name), slog.Int64("user_id", userID))
			}
			continue
		}
		held = append(held, role)
	}
	return authz.NewRoleSet(held...), nil
}

// SetRoles atomically replaces the user's role set.
func (s *Service) SetRoles(ctx context.Context, userID int64, set authz.RoleSet) error {
	return s.repo.ReplaceRoles(ctx, userID, set.Names())
}

// RemoveAll deletes every role association for the user.
func (s *Service) RemoveAll(ctx context.Context, userID int64) error {
	return s.repo.DeleteRoles(ctx, userID)
}

// DefaultRoles returns the set assigned at account creation.
func (s *Service) DefaultRoles() authz.RoleSet {
	return s.defaults
}

// Declared enumerates every role the application knows about.
func (s *Service) Declared() []authz.Role {
	return s.registry.All()
}

// Resolve validates a list of role names against the registry.
func (s *Service) Resolve(names []string) (authz.RoleSet, error) {
	resolved := make([]authz.Role, 0, len(names))
	for _, name := range names {
		role, ok := s.registry.Lookup(name)
		if !ok {
			return authz.RoleSet{}, fmt.Errorf("roles: unknown role %q", name)
		}
		resolved = append(resolved, role)
	}
	return authz.NewRoleSet(resolved...), nil
}

var _ authz.RoleSource = (*Service)(nil)
