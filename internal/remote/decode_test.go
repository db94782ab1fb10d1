package remote_test

import (
	"testing"

	"github.com/go-faster/jx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/internal/testutil"
	"github.com/ocdrive/ocdrive/pkg/models"
)

func TestDecodeSharee(t *testing.T) {
	raw := testutil.Sharee("Alice", "0", "alice", "alice@example.com")

	s, err := remote.DecodeSharee(jx.DecodeBytes(raw))
	require.NoError(t, err)
	assert.Equal(t, models.Sharee{
		Label:          "Alice",
		ShareType:      models.ShareTypeUser,
		ShareWith:      "alice",
		AdditionalInfo: "alice@example.com",
	}, s)
}

func TestDecodeShareeUnknownType(t *testing.T) {
	s, err := remote.DecodeSharee(jx.DecodeBytes(testutil.Sharee("x", "2", "x", "")))
	require.NoError(t, err)
	assert.Equal(t, models.ShareTypeUnknown, s.ShareType)
}

func TestDecodeCapabilities(t *testing.T) {
	want := testutil.RemoteCapability(func(c *models.RemoteCapability) {
		c.AccountName = ""
		c.FilesSharingAPIEnabled = models.CapabilityTrue
		c.FilesSharingPublicExpireDateDays = 7
		c.FilesVersioning = models.CapabilityTrue
	})
	var e jx.Encoder
	testutil.EncodeCapabilities(&e, want)

	got, err := remote.DecodeCapabilities(jx.DecodeBytes(e.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeCapabilitiesPartial(t *testing.T) {
	raw := []byte(`{
		"version": {"major": "10", "minor": 2, "micro": 1, "string": "10.2.1", "edition": "Enterprise"},
		"capabilities": {
			"core": {"pollinterval": 30, "status": {"installed": true}},
			"files_sharing": {"api_enabled": 1, "public": {"enabled": false, "password": {"enforced": true}}},
			"dav": {"chunking": "1.0"}
		}
	}`)
	c, err := remote.DecodeCapabilities(jx.DecodeBytes(raw))
	require.NoError(t, err)
	assert.Equal(t, 10, c.VersionMajor)
	assert.Equal(t, "Enterprise", c.VersionEdition)
	assert.Equal(t, 30, c.CorePollInterval)
	assert.True(t, c.FilesSharingAPIEnabled.IsTrue())
	assert.True(t, c.FilesSharingPublicEnabled.IsFalse())
	assert.True(t, c.FilesSharingPublicPasswordEnforced.IsTrue())
	assert.True(t, c.FilesSharingPublicPasswordEnforcedRO.IsUnknown())
	assert.True(t, c.FilesVersioning.IsUnknown())
}

func TestDecodeStatus(t *testing.T) {
	st, err := remote.DecodeStatus([]byte(`{"installed":true,"maintenance":"false","needsDbUpgrade":false,` +
		`"version":"10.8.0.4","versionstring":"10.8.0","edition":"Community","productname":"ownCloud"}`))
	require.NoError(t, err)
	assert.True(t, st.Installed)
	assert.False(t, st.Maintenance)
	assert.Equal(t, "10.8.0.4", st.Version)

	_, err = remote.DecodeStatus([]byte(`<html></html>`))
	assert.Error(t, err)
	_, err = remote.DecodeStatus([]byte(`{"version":"10.0"}`))
	assert.Error(t, err)
}

func TestParseServerVersion(t *testing.T) {
	v, err := remote.ParseServerVersion("10.8.0.4")
	require.NoError(t, err)
	assert.Equal(t, "10.8.0", v.String())

	v, err = remote.ParseServerVersion("9.1")
	require.NoError(t, err)
	assert.False(t, v.LessThan(remote.MinServerVersion))

	_, err = remote.ParseServerVersion("latest")
	assert.Error(t, err)
}

func TestCheckStatus(t *testing.T) {
	tests := []struct {
		name string
		st   models.ServerStatus
		want remote.ResultCode
	}{
		{"ok", models.ServerStatus{Installed: true, Version: "10.0.0.1"}, remote.OK},
		{"not installed", models.ServerStatus{Version: "10.0.0.1"}, remote.InstanceNotConfigured},
		{"maintenance", models.ServerStatus{Installed: true, Maintenance: true, Version: "10.0.0.1"}, remote.ServiceUnavailable},
		{"old", models.ServerStatus{Installed: true, Version: "8.2.11.2"}, remote.BadOcVersion},
		{"garbage version", models.ServerStatus{Installed: true, Version: "x"}, remote.WrongServerResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := tt.st
			res := remote.CheckStatus(&st)
			assert.Equal(t, tt.want, res.Code)
			assert.Equal(t, tt.want == remote.OK, res.IsSuccess())
			assert.Same(t, &st, res.Data)
		})
	}
}

func TestValidName(t *testing.T) {
	for _, name := range []string{"a", "photo 1.jpg", "ünïcode", ".hidden"} {
		assert.True(t, remote.ValidName(name), name)
	}
	for _, name := range []string{"", ".", "..", "a/b", `a\b`, "a:b", "a*b", "a?b", `a"b`, "a<b", "a>b", "a|b", "a\x01b"} {
		assert.False(t, remote.ValidName(name), name)
	}
}
