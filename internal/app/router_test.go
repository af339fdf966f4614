package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"log/slog"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/meridian-cms/meridian-cms/internal/app"
	"github.com/meridian-cms/meridian-cms/internal/audit"
	"github.com/meridian-cms/meridian-cms/internal/auth"
	"github.com/meridian-cms/meridian-cms/internal/authz"
	"github.com/meridian-cms/meridian-cms/internal/i18n"
	"github.com/meridian-cms/meridian-cms/internal/mail"
	"github.com/meridian-cms/meridian-cms/internal/roles"
	"github.com/meridian-cms/meridian-cms/internal/shared"
	"github.com/meridian-cms/meridian-cms/internal/users"
)

type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]users.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, byID: make(map[int64]users.User)}
}

func (m *memUsers) add(email, name, password string) int64 {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.nextID
	m.nextID++
	m.byID[id] = users.User{
		ID:           id,
		Email:        email,
		Name:         name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	return id
}

func (m *memUsers) List(ctx context.Context) ([]users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]users.User, 0, len(m.byID))
	for _, u := range m.byID {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memUsers) Get(ctx context.Context, id int64) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return users.User{}, shared.ErrNotFound
}

func (m *memUsers) Create(ctx context.Context, email, name, token string) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if u.Email == email {
			return users.User{}, shared.ErrDuplicateEmail
		}
	}
	id := m.nextID
	m.nextID++
	u := users.User{ID: id, Email: email, Name: name, ActivationToken: token, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) Update(ctx context.Context, id int64, email, name string) (users.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return users.User{}, shared.ErrNotFound
	}
	u.Email, u.Name = email, name
	m.byID[id] = u
	return u, nil
}

func (m *memUsers) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(m.byID, id)
	return nil
}

func (m *memUsers) SetPassword(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

func (m *memUsers) SetToken(ctx context.Context, id int64, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.ActivationToken = token
	m.byID[id] = u
	return nil
}

func (m *memUsers) Activate(ctx context.Context, id int64, hash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return shared.ErrNotFound
	}
	u.ActivationToken = ""
	u.PasswordHash = hash
	m.byID[id] = u
	return nil
}

type memRoles struct {
	mu     sync.Mutex
	grants map[int64][]string
}

func newMemRoles() *memRoles { return &memRoles{grants: make(map[int64][]string)} }

func (m *memRoles) RoleNames(ctx context.Context, userID int64) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.grants[userID]...), nil
}

func (m *memRoles) ReplaceRoles(ctx context.Context, userID int64, names []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grants[userID] = append([]string(nil), names...)
	return nil
}

func (m *memRoles) DeleteRoles(ctx context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.grants, userID)
	return nil
}

type memAudit struct {
	mu      sync.Mutex
	entries []audit.Entry
}

func (m *memAudit) Insert(ctx context.Context, entry audit.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memAudit) List(ctx context.Context, filters audit.ListFilters) ([]audit.Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]audit.Entry, 0, len(m.entries))
	for _, e := range m.entries {
		if filters.Language != "" && e.Language != filters.Language {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memAudit) Count(ctx context.Context, filters audit.ListFilters) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, e := range m.entries {
		if filters.Language != "" && e.Language != filters.Language {
			continue
		}
		total++
	}
	return total, nil
}

type noopSessions struct{ users *memUsers }

func (s noopSessions) FindByEmail(ctx context.Context, email string) (users.User, error) {
	return s.users.GetByEmail(ctx, email)
}

func (s noopSessions) CreateSession(ctx context.Context, id string, userID int64, expiresAt time.Time, ip, ua string) error {
	return nil
}

func (s noopSessions) DeleteSession(ctx context.Context, id string) error { return nil }

type env struct {
	server *httptest.Server
	users  *memUsers
	roles  *memRoles
	audit  *memAudit
}

func newEnv(t *testing.T) *env {
	t.Helper()
	logger := slog.Default()

	mr := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	sessionManager := shared.NewSessionManager(redisClient, "meridian_session", "session-secret", time.Hour, false)
	csrfManager := shared.NewCSRFManager("csrf-secret")

	registry, err := authz.NewRegistry("admin", "editor", "viewer")
	require.NoError(t, err)
	rules, err := app.Rules(registry)
	require.NoError(t, err)

	usersRepo := newMemUsers()
	rolesRepo := newMemRoles()
	auditRepo := &memAudit{}

	rolesService, err := roles.NewService(rolesRepo, registry, []string{"viewer"}, logger)
	require.NoError(t, err)

	identity := auth.SessionIdentity{Users: usersRepo}
	gateway := authz.NewGateway(rules, rolesService, identity)
	guard := authz.Guard{Gateway: gateway, Logger: logger, LoginPath: "/auth/login"}

	catalog := i18n.DefaultCatalog()
	languages, err := i18n.ParseLanguages("en,id")
	require.NoError(t, err)
	recorder := audit.NewRecorder(auditRepo, catalog, languages)

	usersService := users.NewService(users.ServiceConfig{
		Repo:      usersRepo,
		Roles:     rolesService,
		Recorder:  recorder,
		Mailer:    &mail.LogMailer{Logger: logger},
		Catalog:   catalog,
		Languages: languages,
		BaseURL:   "http://backend.test",
		Logger:    logger,
	})

	authService := auth.NewService(noopSessions{users: usersRepo})

	cfg := &app.Config{AppEnv: "test", AppRequestTimeout: 10 * time.Second}
	router := app.NewRouter(app.RouterParams{
		Logger:         logger,
		Config:         cfg,
		SessionManager: sessionManager,
		CSRFManager:    csrfManager,
		AuthHandler:    auth.NewHandler(logger, authService, sessionManager, identity),
		UsersHandler:   users.NewHandler(logger, usersService, identity),
		RolesHandler:   roles.NewHandler(logger, rolesService),
		AuditHandler:   audit.NewHandler(logger, auditRepo),
		Gateway:        gateway,
		Guard:          guard,
		Catalog:        catalog,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &env{server: server, users: usersRepo, roles: rolesRepo, audit: auditRepo}
}

func (e *env) client(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func (e *env) csrfToken(t *testing.T, client *http.Client) string {
	t.Helper()
	res, err := client.Get(e.server.URL + "/csrf")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
	var payload struct {
		Token string `json:"csrf_token"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.NotEmpty(t, payload.Token)
	return payload.Token
}

func (e *env) login(t *testing.T, client *http.Client, email, password string) {
	t.Helper()
	token := e.csrfToken(t, client)
	body := fmt.Sprintf(`{"email":%q,"password":%q}`, email, password)
	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/auth/login", bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.CSRFHeader, token)
	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)
}

func TestAnonymousAdminRequiresLogin(t *testing.T) {
	e := newEnv(t)
	client := e.client(t)

	res, err := client.Get(e.server.URL + "/admin")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusUnauthorized, res.StatusCode)
	require.Equal(t, "/auth/login", res.Header.Get("Location"))
}

func TestAdminSeesFullMenu(t *testing.T) {
	e := newEnv(t)
	adminID := e.users.add("admin@backend.test", "Site Admin", "admin12345")
	require.NoError(t, e.roles.ReplaceRoles(context.Background(), adminID, []string{"admin"}))

	client := e.client(t)
	e.login(t, client, "admin@backend.test", "admin12345")

	res, err := client.Get(e.server.URL + "/admin?path=/admin/users/5/edit")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusOK, res.StatusCode)

	var payload struct {
		Menu []struct {
			Label  string `json:"label"`
			Route  string `json:"route"`
			Active bool   `json:"active"`
		} `json:"menu"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	require.Len(t, payload.Menu, 4)
	require.Equal(t, "Dashboard", payload.Menu[0].Label)

	// /admin/users/5/edit highlights the users entry, not the dashboard.
	for _, item := range payload.Menu {
		require.Equal(t, item.Route == "/admin/users", item.Active)
	}
}

func TestViewerMenuAndForbiddenRoutes(t *testing.T) {
	e := newEnv(t)
	viewerID := e.users.add("viewer@backend.test", "Read Only", "viewer12345")
	require.NoError(t, e.roles.ReplaceRoles(context.Background(), viewerID, []string{"viewer"}))

	client := e.client(t)
	e.login(t, client, "viewer@backend.test", "viewer12345")

	res, err := client.Get(e.server.URL + "/admin")
	require.NoError(t, err)
	var payload struct {
		Menu []struct {
			Route string `json:"route"`
		} `json:"menu"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&payload))
	res.Body.Close()
	require.Len(t, payload.Menu, 1)
	require.Equal(t, "/admin", payload.Menu[0].Route)

	res, err = client.Get(e.server.URL + "/admin/users")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestMutationsRequireCSRFToken(t *testing.T) {
	e := newEnv(t)
	adminID := e.users.add("admin@backend.test", "Site Admin", "admin12345")
	require.NoError(t, e.roles.ReplaceRoles(context.Background(), adminID, []string{"admin"}))

	client := e.client(t)
	e.login(t, client, "admin@backend.test", "admin12345")

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/admin/users",
		bytes.NewBufferString(`{"email":"new@backend.test","name":"New User"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusForbidden, res.StatusCode)
}

func TestAdminCreatesUserAndAuditTrails(t *testing.T) {
	e := newEnv(t)
	adminID := e.users.add("admin@backend.test", "Site Admin", "admin12345")
	require.NoError(t, e.roles.ReplaceRoles(context.Background(), adminID, []string{"admin"}))

	client := e.client(t)
	e.login(t, client, "admin@backend.test", "admin12345")
	token := e.csrfToken(t, client)

	req, err := http.NewRequest(http.MethodPost, e.server.URL+"/admin/users",
		bytes.NewBufferString(`{"email":"new@backend.test","name":"New User"}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(shared.CSRFHeader, token)

	res, err := client.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created struct {
		ID      int64 `json:"id"`
		Pending bool  `json:"pending"`
	}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	require.True(t, created.Pending)

	// Default role granted, one audit entry per configured language.
	names, err := e.roles.RoleNames(context.Background(), created.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"viewer"}, names)
	require.Len(t, e.audit.entries, 2)
	require.Equal(t, adminID, e.audit.entries[0].ActorID)
}
