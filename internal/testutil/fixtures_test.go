package testutil

import (
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

func TestPrivateShareDefaults(t *testing.T) {
	s := PrivateShare("user", "/Photos/", "User", true)
	assert.Equal(t, models.ShareTypeUser, s.ShareType)
	assert.Equal(t, -1, s.Permissions)
	assert.Equal(t, int64(DefaultSource), s.FileSource)
	assert.Equal(t, int64(DefaultSharedDate), s.SharedDate)
	assert.Equal(t, int64(0), s.ExpirationDate)
	assert.Equal(t, DefaultToken, s.Token)
	assert.Equal(t, int64(-1), s.UserID)
	assert.Equal(t, int64(1), s.RemoteID)
	assert.Equal(t, DefaultAccountOwner, s.AccountOwner)
	assert.Equal(t, "User", s.SharedWithDisplayName)
}

func TestPublicShareDefaults(t *testing.T) {
	s := PublicShare("/Photos/", "link", "http://server/s/1", true)
	assert.Equal(t, models.ShareTypePublicLink, s.ShareType)
	assert.Equal(t, models.PermissionRead, s.Permissions)
	assert.Equal(t, int64(1000), s.ExpirationDate)
	assert.False(t, s.IsPasswordProtected())

	s = PublicShare("/a", "n", "l", false, func(s *models.Share) { s.ShareWith = "hash" })
	assert.True(t, s.IsPasswordProtected())
}

func TestCapabilityDefaults(t *testing.T) {
	c := Capability()
	assert.Equal(t, DefaultAccountName, c.AccountName)
	assert.Equal(t, []int{2, 1, 0}, []int{c.VersionMajor, c.VersionMinor, c.VersionMicro})
	assert.True(t, c.SharingAPIEnabled())
	assert.Equal(t, 4, c.FilesSharingSearchMinLength)
	assert.Equal(t, 0, c.FilesVersioning)

	rc := RemoteCapability()
	assert.True(t, rc.FilesSharingAPIEnabled.IsFalse())
	assert.True(t, rc.FilesSharingPublicEnabled.IsTrue())
}

func TestFileDefaults(t *testing.T) {
	f := File("default")
	assert.Equal(t, "/Photos", f.RemotePath)
	assert.Equal(t, "default", f.FileName)
	assert.Equal(t, int64(DefaultFileID), f.ID)
	assert.Equal(t, "1", f.RemoteID)
	assert.Equal(t, "private link", f.PrivateLink)
	assert.False(t, f.IsAvailableOffline())
}

func TestAccount(t *testing.T) {
	a := Account("admin@server", "owncloud")
	assert.Equal(t, "admin@server", a.Name)
	assert.Equal(t, "owncloud", a.Type)
	assert.Equal(t, "admin", a.Username())
}

func TestRemoteOperationResult(t *testing.T) {
	cause := errors.New("boom")
	res := RemoteOperationResult(42, false,
		WithHTTPPhrase("Not Found"),
		WithResultCode(remote.FileNotFound),
		WithException(cause),
	)
	assert.False(t, res.IsSuccess())
	assert.Equal(t, 42, res.Data)
	assert.Equal(t, "Not Found", res.HTTPPhrase)
	assert.Equal(t, remote.FileNotFound, res.Code)
	assert.Equal(t, cause, res.Err)

	ok := RemoteOperationResult("x", true)
	assert.True(t, ok.IsSuccess())
	assert.Equal(t, remote.OK, ok.Code)
}
