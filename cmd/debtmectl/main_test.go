package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestCodeCommand(t *testing.T) {
	// RFC 4226 secret; unix 59 is counter 0 -> 755224
	out, err := run(t, "code", "--secret", "3132333435363738393031323334353637383930", "--at", "59")
	require.NoError(t, err)
	assert.Equal(t, "755224 (valid 1s)\n", out)

	_, err = run(t, "code", "--secret", "zz")
	assert.Error(t, err)

	_, err = run(t, "code")
	assert.ErrorContains(t, err, "secret")
}

func TestNewSecretCommand(t *testing.T) {
	out, err := run(t, "new-secret", "--account", "shop@example.com")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 2)
	assert.Len(t, strings.TrimPrefix(lines[0], "secret: "), 40)
	assert.Contains(t, lines[1], "otpauth://totp/DebtMe:shop@example.com")
}

func TestMigrateList(t *testing.T) {
	out, err := run(t, "migrate", "--list")
	require.NoError(t, err)
	assert.Contains(t, out, "0001_init.up.sql")
	assert.Contains(t, out, "0002_employers.up.sql")
}

func TestCreateAdminNeedsPassword(t *testing.T) {
	t.Setenv("DEBTME_ADMIN_PASSWORD", "")
	_, err := run(t, "create-admin", "--email", "root@example.com")
	assert.ErrorContains(t, err, "DEBTME_ADMIN_PASSWORD")
}
