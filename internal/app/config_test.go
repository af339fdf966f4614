package app

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-session-secret")
	t.Setenv("CSRF_SECRET", "test-csrf-secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.AppAddr)
	require.Equal(t, "en,id", cfg.Languages)
	require.Equal(t, []string{"admin", "editor", "viewer"}, cfg.RoleNames())
	require.Equal(t, []string{"viewer"}, cfg.DefaultRoleNames())
	require.Equal(t, "queue", cfg.MailMode)
	require.False(t, cfg.IsProduction())
}

func TestLoadConfigRequiresSecrets(t *testing.T) {
	t.Setenv("SESSION_SECRET", "")
	t.Setenv("CSRF_SECRET", "x")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestRoleNamesTrimsSpaces(t *testing.T) {
	cfg := &Config{Roles: " admin , editor ,, viewer "}
	require.Equal(t, []string{"admin", "editor", "viewer"}, cfg.RoleNames())
}
