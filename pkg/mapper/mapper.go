package mapper

import (
	"strings"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

// ToShare binds a remote share to the account that listed it.
func ToShare(in *models.RemoteShare, accountOwner string) *models.Share {
	return &models.Share{
		FileSource:            in.FileSource,
		ItemSource:            in.ItemSource,
		ShareType:             in.ShareType,
		ShareWith:             in.ShareWith,
		Path:                  in.Path,
		Permissions:           in.Permissions,
		SharedDate:            in.SharedDate,
		ExpirationDate:        in.ExpirationDate,
		Token:                 in.Token,
		SharedWithDisplayName: in.SharedWithDisplayName,
		IsFolder:              in.IsFolder,
		UserID:                in.UserID,
		RemoteID:              in.ID,
		AccountOwner:          accountOwner,
		Name:                  in.Name,
		ShareLink:             in.ShareLink,
	}
}

func ToShares(in []models.RemoteShare, accountOwner string) []*models.Share {
	out := make([]*models.Share, 0, len(in))
	for i := range in {
		out = append(out, ToShare(&in[i], accountOwner))
	}
	return out
}

func ToCapability(in *models.RemoteCapability) *models.Capability {
	return &models.Capability{
		AccountName:                          in.AccountName,
		VersionMajor:                         in.VersionMajor,
		VersionMinor:                         in.VersionMinor,
		VersionMicro:                         in.VersionMicro,
		VersionString:                        in.VersionString,
		VersionEdition:                       in.VersionEdition,
		CorePollInterval:                     in.CorePollInterval,
		FilesSharingAPIEnabled:               int(in.FilesSharingAPIEnabled),
		FilesSharingSearchMinLength:          in.FilesSharingSearchMinLength,
		FilesSharingPublicEnabled:            int(in.FilesSharingPublicEnabled),
		FilesSharingPublicPasswordEnforced:   int(in.FilesSharingPublicPasswordEnforced),
		FilesSharingPublicPasswordEnforcedRO: int(in.FilesSharingPublicPasswordEnforcedRO),
		FilesSharingPublicPasswordEnforcedRW: int(in.FilesSharingPublicPasswordEnforcedRW),
		FilesSharingPublicPasswordEnforcedUO: int(in.FilesSharingPublicPasswordEnforcedUO),
		FilesSharingPublicExpireDateEnabled:  int(in.FilesSharingPublicExpireDateEnabled),
		FilesSharingPublicExpireDateDays:     in.FilesSharingPublicExpireDateDays,
		FilesSharingPublicExpireDateEnforced: int(in.FilesSharingPublicExpireDateEnforced),
		FilesSharingPublicSendMail:           int(in.FilesSharingPublicSendMail),
		FilesSharingPublicUpload:             int(in.FilesSharingPublicUpload),
		FilesSharingPublicMultiple:           int(in.FilesSharingPublicMultiple),
		FilesSharingPublicSupportsUploadOnly: int(in.FilesSharingPublicSupportsUploadOnly),
		FilesSharingUserSendMail:             int(in.FilesSharingUserSendMail),
		FilesSharingResharing:                int(in.FilesSharingResharing),
		FilesSharingFederationOutgoing:       int(in.FilesSharingFederationOutgoing),
		FilesSharingFederationIncoming:       int(in.FilesSharingFederationIncoming),
		FilesBigFileChunking:                 int(in.FilesBigFileChunking),
		FilesUndelete:                        int(in.FilesUndelete),
		FilesVersioning:                      int(in.FilesVersioning),
	}
}

func ToFile(in *remote.RemoteFile) *models.File {
	f := models.NewFile(in.RemotePath)
	if in.IsFolder && !strings.HasSuffix(f.RemotePath, "/") {
		f = models.NewFile(in.RemotePath + "/")
	}
	f.MimeType = in.MimeType
	if in.IsFolder {
		f.MimeType = models.MimeTypeDir
	}
	f.Length = in.Length
	f.Etag = in.Etag
	f.RemoteID = in.RemoteID
	if !in.ModTime.IsZero() {
		f.ModificationTimestamp = in.ModTime.UnixMilli()
	}
	return f
}

func ToFiles(in []remote.RemoteFile) []*models.File {
	out := make([]*models.File, 0, len(in))
	for i := range in {
		out = append(out, ToFile(&in[i]))
	}
	return out
}
