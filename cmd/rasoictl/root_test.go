package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootRegistersSubcommands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"seed-admin", "create-user", "export-orders", "migrate"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
	for _, name := range []string{"up", "down", "to", "status", "create", "validate"} {
		cmd, _, err := root.Find([]string{"migrate", name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestMigrateValidateEmbedded(t *testing.T) {
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"migrate", "validate"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "migrations ok\n", out.String())
}

func TestMigrateCreateWritesIntoDir(t *testing.T) {
	dir := t.TempDir()
	root := newRootCmd()
	out := &bytes.Buffer{}
	root.SetOut(out)
	root.SetArgs([]string{"migrate", "create", "add return reminders", "--dir", dir})

	require.NoError(t, root.Execute())
	path := strings.TrimSpace(out.String())
	assert.True(t, strings.HasPrefix(path, dir))
	assert.True(t, strings.HasSuffix(path, "_add_return_reminders.sql"))
}

func TestMigrateToRequiresVersion(t *testing.T) {
	root := newRootCmd()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"migrate", "to"})
	assert.Error(t, root.Execute())
}

func TestCreateUserFlagDefaults(t *testing.T) {
	cmd := newCreateUserCmd()
	role, err := cmd.Flags().GetString("role")
	require.NoError(t, err)
	assert.Equal(t, "worker", role)
}

func TestExportOrdersFlags(t *testing.T) {
	cmd := newExportOrdersCmd()
	require.NoError(t, cmd.ParseFlags([]string{"--status", "completed", "--from", "2026-11-01", "-o", "out.csv"}))

	status, _ := cmd.Flags().GetString("status")
	from, _ := cmd.Flags().GetString("from")
	output, _ := cmd.Flags().GetString("output")
	assert.Equal(t, "completed", status)
	assert.Equal(t, "2026-11-01", from)
	assert.Equal(t, "out.csv", output)
}
