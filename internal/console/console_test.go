package console_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/authvault/authvault/internal/audit"
	"github.com/authvault/authvault/internal/authz"
	"github.com/authvault/authvault/internal/config"
	"github.com/authvault/authvault/internal/console"
	"github.com/authvault/authvault/internal/db"
	"github.com/authvault/authvault/internal/hashing"
	"github.com/authvault/authvault/internal/identity"
	"github.com/authvault/authvault/internal/policy"
)

func newTestConsoleDeps(t *testing.T) (*identity.Store, *audit.Log) {
	t.Helper()

	cfg := &config.Config{
		Storage: config.Storage{Dir: t.TempDir(), DSN: ":memory:"},
		Hash:    config.Hash{Memory: 16 * 1024, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32},
		Policy: config.Policy{
			MinLength: 10, RequireUpper: true, RequireLower: true,
			RequireDigit: true, RequireSymbol: true, TempPasswordLength: 12,
		},
	}

	gdb, err := db.Open(cfg.Storage)
	require.NoError(t, err)

	auditLog, err := audit.New(cfg.Storage.Dir)
	require.NoError(t, err)

	return identity.New(cfg, gdb, hashing.New(cfg.Hash), policy.New(cfg.Policy), auditLog), auditLog
}

func TestConsoleDeanSession(t *testing.T) {
	store, auditLog := newTestConsoleDeps(t)

	results, err := store.Preload(identity.FacultyRoster(), false)
	require.NoError(t, err)

	var deanTemp string

	for _, r := range results {
		if r.Username == "Dr_Smith_1001" {
			deanTemp = r.TempPassword
		}
	}

	require.NotEmpty(t, deanTemp)

	script := strings.Join([]string{
		"1",                 // main menu: login
		"Dr_Smith_1001",     // username
		deanTemp,            // password
		deanTemp,            // forced reset: current password
		"Fresh-Cr3dential!", // forced reset: new password
		"1",                 // session menu: register new user (dean holds create_user)
		"alice",             // new username
		"Str0ng-Passw0rd!",  // new password
		"user",              // role
		"2",                 // session menu: view audit logs (dean holds view_logs)
		"0",                 // logout
		"2",                 // main menu: exit
	}, "\n") + "\n"

	var out bytes.Buffer

	c := console.New(strings.NewReader(script), &out, store, authz.Default(), auditLog, "AuthVault")
	require.NoError(t, c.Run())

	assert.Contains(t, out.String(), "A password change is required before continuing.")
	assert.Contains(t, out.String(), "Password changed successfully.")
	assert.Contains(t, out.String(), "alice registered successfully.")
	assert.Contains(t, out.String(), "Register new user")
	assert.Contains(t, out.String(), "View audit logs")

	// the registration went through the real store
	res, err := store.Login("alice", "Str0ng-Passw0rd!")
	require.NoError(t, err)
	assert.True(t, res.OK)
}

func TestConsoleUnprivilegedSessionHidesAdminActions(t *testing.T) {
	store, auditLog := newTestConsoleDeps(t)

	_, err := store.Register("Prof_Davis_1006", "Str0ng-Passw0rd!", identity.FacultyRoster()[5].Role)
	require.NoError(t, err)

	script := strings.Join([]string{
		"1",                // login
		"Prof_Davis_1006",  // username
		"Str0ng-Passw0rd!", // password
		"0",                // logout
		"2",                // exit
	}, "\n") + "\n"

	var out bytes.Buffer

	c := console.New(strings.NewReader(script), &out, store, authz.Default(), auditLog, "AuthVault")
	require.NoError(t, c.Run())

	assert.NotContains(t, out.String(), "Register new user")
	assert.NotContains(t, out.String(), "View audit logs")
	assert.Contains(t, out.String(), "Change password")
}

func TestConsoleRejectsBadLogin(t *testing.T) {
	store, auditLog := newTestConsoleDeps(t)

	script := "1\nghost\nwhatever\n2\n"

	var out bytes.Buffer

	c := console.New(strings.NewReader(script), &out, store, authz.Default(), auditLog, "AuthVault")
	require.NoError(t, c.Run())

	assert.Contains(t, out.String(), "Login failed: USER_NOT_FOUND")
}
