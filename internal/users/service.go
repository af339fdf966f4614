package users

import (
	"context"
	"fmt"
	"strconv"

	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/text/language"

	"github.com/meridian-cms/meridian-cms/internal/audit"
	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/i18n"
	"github.com/meridian-cms/meridian-cms/internal/mail"
	"github.com/meridian-cms/meridian-cms/internal/shared"
)

// Recorder abstracts the audit writer so service tests can observe
// recorded actions.
type Recorder interface {
	Record(ctx context.Context, actorID int64, actionTag string, subject audit.Subject, targetPath string) error
}

// RoleStore is the slice of the roles service this module needs.
type RoleStore interface {
	GetRoles(ctx context.Context, userID int64) (authz.RoleSet, error)
	SetRoles(ctx context.Context, userID int64, set authz.RoleSet) error
	RemoveAll(ctx context.Context, userID int64) error
	DefaultRoles() authz.RoleSet
	Resolve(names []string) (authz.RoleSet, error)
}

// Service handles user lifecycle business logic: creation with
// activation mail, updates, deletion, password changes, role
// replacement and the activation/reset token flows.
type Service struct {
	repo      RepositoryPort
	roleStore RoleStore
	recorder  Recorder
	mailer    mail.Mailer
	catalog   *i18n.Catalog
	languages []language.Tag
	baseURL   string
	logger    *slog.Logger

	newToken func() string
}

// ServiceConfig groups the collaborators for NewService.
type ServiceConfig struct {
	Repo      RepositoryPort
	Roles     RoleStore
	Recorder  Recorder
	Mailer    mail.Mailer
	Catalog   *i18n.Catalog
	Languages []language.Tag
	BaseURL   string
	Logger    *slog.Logger
}

// NewService builds Service instance.
func NewService(cfg ServiceConfig) *Service {
	return &Service{
		repo:      cfg.Repo,
		roleStore: cfg.Roles,
		recorder:  cfg.Recorder,
		mailer:    cfg.Mailer,
		catalog:   cfg.Catalog,
		languages: cfg.Languages,
		baseURL:   cfg.BaseURL,
		logger:    cfg.Logger,
		newToken:  func() string { return uuid.NewString() },
	}
}

// List returns all users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches one user.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// Roles returns the user's granted role set.
func (s *Service) Roles(ctx context.Context, id int64) (authz.RoleSet, error) {
	if _, err := s.repo.Get(ctx, id); err != nil {
		return authz.RoleSet{}, err
	}
	return s.roleStore.GetRoles(ctx, id)
}

// Create inserts a pending account, grants the default role set, sends
// the activation mail and records the action.
func (s *Service) Create(ctx context.Context, actorID int64, email, name string) (User, error) {
	user, err := s.repo.Create(ctx, email, name, s.newToken())
	if err != nil {
		return User{}, err
	}
	if defaults := s.roleStore.DefaultRoles(); defaults.Len() > 0 {
		if err := s.roleStore.SetRoles(ctx, user.ID, defaults); err != nil {
			return User{}, err
		}
	}
	if err := s.sendTokenMail(ctx, user, "mail.activation.subject", "mail.activation.body"); err != nil {
		// Account exists; the mail can be resent. Do not fail creation.
		s.warn("send activation mail", err)
	}
	if err := s.recorder.Record(ctx, actorID, "CREATE", audit.UserSubject(user.Name), s.userPath(user.ID)); err != nil {
		return User{}, err
	}
	return user, nil
}

// Update changes email and name and records the action.
func (s *Service) Update(ctx context.Context, actorID, id int64, email, name string) (User, error) {
	user, err := s.repo.Update(ctx, id, email, name)
	if err != nil {
		return User{}, err
	}
	if err := s.recorder.Record(ctx, actorID, "UPDATE", audit.UserSubject(user.Name), s.userPath(user.ID)); err != nil {
		return User{}, err
	}
	return user, nil
}

// Delete removes the account and its role associations.
func (s *Service) Delete(ctx context.Context, actorID, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.roleStore.RemoveAll(ctx, id); err != nil {
		return err
	}
	return s.recorder.Record(ctx, actorID, "DELETE", audit.UserSubject(user.Name), "")
}

// ChangePassword hashes and stores a new password.
func (s *Service) ChangePassword(ctx context.Context, actorID, id int64, password string) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	if err := s.repo.SetPassword(ctx, id, string(hash)); err != nil {
		return err
	}
	return s.recorder.Record(ctx, actorID, "CHPASS", audit.UserSubject(user.Name), s.userPath(id))
}

// SetUserRoles resolves the names and atomically replaces the user's
// role set.
func (s *Service) SetUserRoles(ctx context.Context, actorID, id int64, names []string) (authz.RoleSet, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return authz.RoleSet{}, err
	}
	set, err := s.roleStore.Resolve(names)
	if err != nil {
		return authz.RoleSet{}, err
	}
	if err := s.roleStore.SetRoles(ctx, id, set); err != nil {
		return authz.RoleSet{}, err
	}
	if err := s.recorder.Record(ctx, actorID, "SETROLES", audit.UserSubject(user.Name), s.userPath(id)); err != nil {
		return authz.RoleSet{}, err
	}
	return set, nil
}

// Reset issues a fresh token, returning the account to pending, sends
// the reset mail and records the action.
func (s *Service) Reset(ctx context.Context, actorID, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	token := s.newToken()
	if err := s.repo.SetToken(ctx, id, token); err != nil {
		return err
	}
	user.ActivationToken = token
	if err := s.sendTokenMail(ctx, user, "mail.reset.subject", "mail.reset.body"); err != nil {
		return err
	}
	return s.recorder.Record(ctx, actorID, "RESET", audit.UserSubject(user.Name), s.userPath(id))
}

// ResendActivation resends the pending activation mail. An account
// without a token on file yields ErrNoActivationToken; callers treat it
// as a conflict, not a crash.
func (s *Service) ResendActivation(ctx context.Context, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.Pending() {
		return shared.ErrNoActivationToken
	}
	return s.sendTokenMail(ctx, user, "mail.activation.subject", "mail.activation.body")
}

// Activate validates the supplied token and, when valid, sets the
// password and clears the token in one transaction. The TokenCheck
// outcome is a decision value; err is reserved for store failures.
func (s *Service) Activate(ctx context.Context, id int64, token, password string) (TokenCheck, error) {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return TokenMismatch, err
	}
	check := user.CheckToken(token)
	if check != TokenValid {
		return check, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return TokenValid, err
	}
	if err := s.repo.Activate(ctx, id, string(hash)); err != nil {
		return TokenValid, err
	}
	if err := s.recorder.Record(ctx, user.ID, "ACTIVATE", audit.UserSubject(user.Name), s.userPath(id)); err != nil {
		return TokenValid, err
	}
	return TokenValid, nil
}

func (s *Service) sendTokenMail(ctx context.Context, user User, subjectKey, bodyKey string) error {
	if user.ActivationToken == "" {
		return shared.ErrNoActivationToken
	}
	link := fmt.Sprintf("%s/auth/activate?user=%d&token=%s", s.baseURL, user.ID, user.ActivationToken)
	msg := mail.Message{
		To:      user.Email,
		Subject: s.catalog.Render(s.languages, subjectKey),
		Body:    s.catalog.Render(s.languages, bodyKey, user.Name, link),
	}
	return s.mailer.Send(ctx, msg)
}

func (s *Service) userPath(id int64) string {
	return "/admin/users/" + strconv.FormatInt(id, 10)
}

func (s *Service) warn(msg string, err error) {
	if s.logger != nil {
		s.logger.Warn(msg, slog.Any("error", err))
	}
}
