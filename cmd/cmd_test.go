package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocdrive/ocdrive/internal/testutil"
	"github.com/ocdrive/ocdrive/pkg/domain"
	"github.com/ocdrive/ocdrive/pkg/models"
)

type harness struct {
	t   *testing.T
	srv *testutil.Server
	db  string
}

func newHarness(t *testing.T) *harness {
	t.Setenv("HOME", t.TempDir())
	return &harness{
		t:   t,
		srv: testutil.NewServer(t),
		db:  filepath.Join(t.TempDir(), "accounts.db"),
	}
}

func (h *harness) run(stdin string, args ...string) (string, error) {
	h.t.Helper()
	a := newApp()
	defer a.close()
	root := newRoot(a)
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args,
		"--store-path", h.db,
		"--remote-rate-limit=false",
		"--remote-max-retries", "0",
		"--remote-timeout", "5s",
	))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, err := h.run("", args...)
	require.NoError(h.t, err, out)
	return out
}

func (h *harness) addAccount() string {
	h.t.Helper()
	out, err := h.run(testutil.ServerPassword+"\n", "account", "add", h.srv.URL, "-u", testutil.ServerUser, "--password-stdin")
	require.NoError(h.t, err, out)
	return models.AccountName(testutil.ServerUser, h.srv.URL)
}

func TestAccountLifecycle(t *testing.T) {
	h := newHarness(t)
	name := h.addAccount()

	out := h.mustRun("account", "list")
	assert.Contains(t, out, name)
	assert.Contains(t, out, "basic")

	_, err := h.run(testutil.ServerPassword+"\n", "account", "add", h.srv.URL, "-u", testutil.ServerUser, "--password-stdin")
	assert.ErrorIs(t, err, domain.ErrAccountNotNew)

	out = h.mustRun("account", "password", name, "--token", "opaque")
	assert.Contains(t, out, "credentials of "+name+" updated")
	assert.Contains(t, h.mustRun("account", "list"), "bearer")

	h.mustRun("account", "remove", name)
	assert.NotContains(t, h.mustRun("account", "list"), name)

	_, err = h.run("", "account", "remove", name)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountAddRejectsWrongPassword(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("wrong\n", "account", "add", h.srv.URL, "-u", testutil.ServerUser, "--password-stdin")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	out := h.mustRun("account", "list")
	assert.NotContains(t, out, testutil.ServerUser+"@")
}

func TestAccountAddWithoutVerify(t *testing.T) {
	h := newHarness(t)
	out, err := h.run("secret\n", "account", "add", "https://cloud.example.com/", "-u", "alice", "--password-stdin", "--no-verify")
	require.NoError(t, err, out)
	assert.Contains(t, out, "alice@cloud.example.com")
}

func TestCommandsNeedAccount(t *testing.T) {
	h := newHarness(t)
	_, err := h.run("", "ls")
	assert.ErrorIs(t, err, errNoAccount)
}

func TestFileCommands(t *testing.T) {
	h := newHarness(t)
	h.addAccount()

	h.mustRun("mkdir", "/Docs/Reports", "-p")
	assert.True(t, h.srv.Exists("/Docs/Reports"))

	_, err := h.run("", "mkdir", "/Docs")
	assert.ErrorIs(t, err, domain.ErrSpecificMethodNotAllowed)

	local := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(local, []byte("hello"), 0644))
	out := h.mustRun("upload", local, "/Docs/notes.txt")
	assert.Contains(t, out, "/Docs/notes.txt")

	out = h.mustRun("ls", "/Docs")
	assert.Contains(t, out, "notes.txt")
	assert.Contains(t, out, "Reports/")

	h.mustRun("cp", "/Docs/notes.txt", "/Docs/copy.txt")
	h.mustRun("mv", "/Docs/copy.txt", "/Docs/Reports/moved.txt")
	assert.Equal(t, []byte("hello"), h.srv.ReadFile(t, "/Docs/Reports/moved.txt"))
	assert.False(t, h.srv.Exists("/Docs/copy.txt"))

	_, err = h.run("", "mv", "/Docs", "/Docs/Reports/Docs")
	assert.ErrorIs(t, err, domain.ErrMoveIntoDescendant)

	target := filepath.Join(t.TempDir(), "out.txt")
	out = h.mustRun("download", "/Docs/notes.txt", target)
	assert.Contains(t, out, "5 B")
	got, err := os.ReadFile(target)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(got))

	h.mustRun("rm", "/Docs/notes.txt", "/Docs/Reports")
	assert.False(t, h.srv.Exists("/Docs/notes.txt"))
	assert.False(t, h.srv.Exists("/Docs/Reports"))

	_, err = h.run("", "rm", "/Docs/missing.txt")
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestShareCommands(t *testing.T) {
	h := newHarness(t)
	h.addAccount()
	h.srv.Mkdir(t, "/Photos")
	h.srv.AddUser("bob", "Bob")

	out := h.mustRun("share", "create", "/Photos", "-t", "public", "-p", "r")
	assert.Contains(t, out, "created")
	assert.Contains(t, out, "/s/")

	h.mustRun("share", "create", "/Photos", "-w", "bob", "-p", "rus")
	h.mustRun("share", "create", "/Photos", "-t", "public", "--expire-in", "7d")

	out = h.mustRun("share", "list", "/Photos")
	assert.Contains(t, out, "public")
	assert.Contains(t, out, "Bob")
	assert.Contains(t, out, "ru--s")
	assert.Contains(t, out, "from now")

	_, err := h.run("", "share", "create", "/Photos", "-t", "user")
	assert.ErrorIs(t, err, domain.ErrShareWrongParameter)

	_, err = h.run("", "share", "delete", "999")
	assert.ErrorIs(t, err, domain.ErrShareNotFound)

	out = h.mustRun("sharees", "bo")
	assert.Contains(t, out, "bob")
}

func TestInfoCommands(t *testing.T) {
	h := newHarness(t)
	h.addAccount()

	out := h.mustRun("status")
	assert.Contains(t, out, "ownCloud")
	assert.Contains(t, out, "10.8.0")

	out = h.mustRun("capabilities", "--refresh")
	assert.Contains(t, out, "sharing api")
	assert.Contains(t, out, "yes")
}

func TestPermissions(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want int
	}{
		{"", 0},
		{"1", models.PermissionRead},
		{"31", models.PermissionAll},
		{"r", models.PermissionRead},
		{"rucds", models.PermissionAll},
		{"RS", models.PermissionRead | models.PermissionShare},
	} {
		got, err := parsePermissions(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
	_, err := parsePermissions("rx")
	assert.Error(t, err)

	assert.Equal(t, "rucds", formatPermissions(models.PermissionAll))
	assert.Equal(t, "r----", formatPermissions(models.PermissionRead))
	assert.Equal(t, "-", formatPermissions(-1))
}

func TestParseShareType(t *testing.T) {
	got, err := parseShareType("Public")
	require.NoError(t, err)
	assert.Equal(t, models.ShareTypePublicLink, got)

	_, err = parseShareType("room")
	assert.Error(t, err)
}
