// Package testutil builds sample domain and remote objects with sensible
// defaults, and runs an in-process ownCloud server for tests.
package testutil

import (
	"github.com/go-faster/jx"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

// Option overrides a fixture default.
type Option[T any] func(*T)

func apply[T any](v *T, opts []Option[T]) *T {
	for _, o := range opts {
		o(v)
	}
	return v
}

const (
	DefaultSource       = 7
	DefaultSharedDate   = 1542628397
	DefaultToken        = "pwdasd12dasdWZ"
	DefaultAccountOwner = "admin@server"
	DefaultAccountName  = "user@server"
	DefaultFileID       = 9456985479
)

func share(shareType models.ShareType) models.Share {
	return models.Share{
		FileSource:   DefaultSource,
		ItemSource:   DefaultSource,
		ShareType:    shareType,
		Permissions:  models.PermissionRead,
		SharedDate:   DefaultSharedDate,
		Token:        DefaultToken,
		UserID:       -1,
		RemoteID:     1,
		AccountOwner: DefaultAccountOwner,
	}
}

// PrivateShare is a user share with unset (-1) permissions.
func PrivateShare(shareWith, path, displayName string, isFolder bool, opts ...Option[models.Share]) *models.Share {
	s := share(models.ShareTypeUser)
	s.ShareWith = shareWith
	s.Path = path
	s.Permissions = -1
	s.IsFolder = isFolder
	s.SharedWithDisplayName = displayName
	return apply(&s, opts)
}

// PublicShare is a read-only public link expiring at 1000.
func PublicShare(path, name, link string, isFolder bool, opts ...Option[models.Share]) *models.Share {
	s := share(models.ShareTypePublicLink)
	s.Path = path
	s.ExpirationDate = 1000
	s.IsFolder = isFolder
	s.Name = name
	s.ShareLink = link
	return apply(&s, opts)
}

func RemoteShare(shareType models.ShareType, path string, isFolder bool, opts ...Option[models.RemoteShare]) *models.RemoteShare {
	s := models.RemoteShare{
		ID:          1,
		FileSource:  DefaultSource,
		ItemSource:  DefaultSource,
		ShareType:   shareType,
		Path:        path,
		Permissions: models.PermissionRead,
		SharedDate:  DefaultSharedDate,
		Token:       DefaultToken,
		IsFolder:    isFolder,
		UserID:      -1,
	}
	return apply(&s, opts)
}

// Sharee encodes a sharee search entry the way the server sends it. The
// share type is a string, as some servers send it.
func Sharee(label, shareType, shareWith, additionalInfo string) jx.Raw {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("label")
	e.Str(label)
	e.FieldStart("value")
	e.ObjStart()
	e.FieldStart("shareType")
	e.Str(shareType)
	e.FieldStart("shareWith")
	e.Str(shareWith)
	e.FieldStart("shareWithAdditionalInfo")
	e.Str(additionalInfo)
	e.ObjEnd()
	e.ObjEnd()
	return jx.Raw(e.Bytes())
}

// Capability is version 2.1.0 with the sharing API and public links on and
// every other flag off.
func Capability(opts ...Option[models.Capability]) *models.Capability {
	c := models.Capability{
		AccountName:                 DefaultAccountName,
		VersionMajor:                2,
		VersionMinor:                1,
		VersionString:               "1.0.0",
		VersionEdition:              "1.0.0",
		FilesSharingAPIEnabled:      1,
		FilesSharingPublicEnabled:   1,
		FilesSharingSearchMinLength: 4,
	}
	return apply(&c, opts)
}

// RemoteCapability mirrors Capability but with the sharing API off.
func RemoteCapability(opts ...Option[models.RemoteCapability]) *models.RemoteCapability {
	f := models.CapabilityFalse
	c := models.RemoteCapability{
		AccountName:                          DefaultAccountName,
		VersionMajor:                         2,
		VersionMinor:                         1,
		VersionString:                        "1.0.0",
		VersionEdition:                       "1.0.0",
		FilesSharingAPIEnabled:               f,
		FilesSharingPublicEnabled:            models.CapabilityTrue,
		FilesSharingPublicPasswordEnforced:   f,
		FilesSharingPublicPasswordEnforcedRO: f,
		FilesSharingPublicPasswordEnforcedRW: f,
		FilesSharingPublicPasswordEnforcedUO: f,
		FilesSharingPublicExpireDateEnabled:  f,
		FilesSharingPublicExpireDateEnforced: f,
		FilesSharingPublicSendMail:           f,
		FilesSharingPublicUpload:             f,
		FilesSharingPublicMultiple:           f,
		FilesSharingPublicSupportsUploadOnly: f,
		FilesSharingUserSendMail:             f,
		FilesSharingResharing:                f,
		FilesSharingFederationOutgoing:       f,
		FilesSharingFederationIncoming:       f,
		FilesBigFileChunking:                 f,
		FilesUndelete:                        f,
		FilesVersioning:                      f,
	}
	return apply(&c, opts)
}

func Account(name, typ string, opts ...Option[models.Account]) *models.Account {
	a := models.Account{Name: name, Type: typ}
	return apply(&a, opts)
}

// File is "/Photos" renamed to name, not available offline.
func File(name string, opts ...Option[models.File]) *models.File {
	f := models.NewFile("/Photos")
	f.FileName = name
	f.ID = DefaultFileID
	f.RemoteID = "1"
	f.PrivateLink = "private link"
	f.AvailableOfflineStatus = models.NotAvailableOffline
	return apply(f, opts)
}

type resultFields struct {
	phrase   string
	httpCode int
	code     remote.ResultCode
	err      error
}

type ResultOption func(*resultFields)

func WithHTTPPhrase(phrase string) ResultOption {
	return func(f *resultFields) { f.phrase = phrase }
}

func WithHTTPCode(code int) ResultOption {
	return func(f *resultFields) { f.httpCode = code }
}

func WithResultCode(code remote.ResultCode) ResultOption {
	return func(f *resultFields) { f.code = code }
}

func WithException(err error) ResultOption {
	return func(f *resultFields) { f.err = err }
}

// RemoteOperationResult builds a result with exactly the given success flag.
// The code stays OK unless overridden, so a failed result without a code is
// possible, as from a misbehaving operation.
func RemoteOperationResult[T any](data T, success bool, opts ...ResultOption) *remote.Result[T] {
	var f resultFields
	for _, o := range opts {
		o(&f)
	}
	return &remote.Result[T]{
		Success:    success,
		Code:       f.code,
		Data:       data,
		HTTPCode:   f.httpCode,
		HTTPPhrase: f.phrase,
		Err:        f.err,
	}
}
