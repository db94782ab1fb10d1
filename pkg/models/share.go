package models

type ShareType int

const (
	ShareTypeUnknown    ShareType = -1
	ShareTypeUser       ShareType = 0
	ShareTypeGroup      ShareType = 1
	ShareTypePublicLink ShareType = 3
	ShareTypeEmail      ShareType = 4
	ShareTypeContact    ShareType = 5
	ShareTypeFederated  ShareType = 6
)

func ShareTypeFromValue(v int) ShareType {
	switch ShareType(v) {
	case ShareTypeUser, ShareTypeGroup, ShareTypePublicLink, ShareTypeEmail,
		ShareTypeContact, ShareTypeFederated:
		return ShareType(v)
	}
	return ShareTypeUnknown
}

func (t ShareType) String() string {
	switch t {
	case ShareTypeUser:
		return "user"
	case ShareTypeGroup:
		return "group"
	case ShareTypePublicLink:
		return "public"
	case ShareTypeEmail:
		return "email"
	case ShareTypeContact:
		return "contact"
	case ShareTypeFederated:
		return "federated"
	}
	return "unknown"
}

// Share permission bits as the OCS API defines them.
const (
	PermissionRead   = 1
	PermissionUpdate = 2
	PermissionCreate = 4
	PermissionDelete = 8
	PermissionShare  = 16
	PermissionAll    = 31
)

// Share is a share as the client keeps it, bound to the account that owns it.
type Share struct {
	FileSource               int64     `msgpack:"file_source"`
	ItemSource               int64     `msgpack:"item_source"`
	ShareType                ShareType `msgpack:"share_type"`
	ShareWith                string    `msgpack:"share_with"`
	Path                     string    `msgpack:"path"`
	Permissions              int       `msgpack:"permissions"`
	SharedDate               int64     `msgpack:"shared_date"`
	ExpirationDate           int64     `msgpack:"expiration_date"`
	Token                    string    `msgpack:"token"`
	SharedWithDisplayName    string    `msgpack:"shared_with_display_name"`
	SharedWithAdditionalInfo string    `msgpack:"shared_with_additional_info"`
	IsFolder                 bool      `msgpack:"is_folder"`
	UserID                   int64     `msgpack:"user_id"`
	RemoteID                 int64     `msgpack:"remote_id"`
	AccountOwner             string    `msgpack:"account_owner"`
	Name                     string    `msgpack:"name"`
	ShareLink                string    `msgpack:"share_link"`
}

// IsPasswordProtected reports whether a public link carries a password. The
// server echoes the password hash in share_with for protected links.
func (s *Share) IsPasswordProtected() bool {
	return s.ShareType == ShareTypePublicLink && s.ShareWith != ""
}

// RemoteShare is a share exactly as the OCS endpoint returns it.
type RemoteShare struct {
	ID                    int64
	FileSource            int64
	ItemSource            int64
	ShareType             ShareType
	ShareWith             string
	Path                  string
	Permissions           int
	SharedDate            int64
	ExpirationDate        int64
	Token                 string
	SharedWithDisplayName string
	IsFolder              bool
	UserID                int64
	Name                  string
	ShareLink             string
}

type Sharee struct {
	Label          string
	ShareType      ShareType
	ShareWith      string
	AdditionalInfo string
}
