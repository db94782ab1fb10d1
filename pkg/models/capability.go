package models

// CapabilityBoolean is the tri-state flag the capabilities endpoint reports.
type CapabilityBoolean int

const (
	CapabilityUnknown CapabilityBoolean = -1
	CapabilityFalse   CapabilityBoolean = 0
	CapabilityTrue    CapabilityBoolean = 1
)

func CapabilityBooleanFromValue(v int) (CapabilityBoolean, bool) {
	switch CapabilityBoolean(v) {
	case CapabilityUnknown, CapabilityFalse, CapabilityTrue:
		return CapabilityBoolean(v), true
	}
	return CapabilityUnknown, false
}

func CapabilityBooleanFromBool(b bool) CapabilityBoolean {
	if b {
		return CapabilityTrue
	}
	return CapabilityFalse
}

func (c CapabilityBoolean) IsTrue() bool    { return c == CapabilityTrue }
func (c CapabilityBoolean) IsFalse() bool   { return c == CapabilityFalse }
func (c CapabilityBoolean) IsUnknown() bool { return c == CapabilityUnknown }

// Capability is the per-account capability record. Flags are stored as the
// integer value of a CapabilityBoolean.
type Capability struct {
	AccountName                          string `msgpack:"account_name"`
	VersionMajor                         int    `msgpack:"version_major"`
	VersionMinor                         int    `msgpack:"version_minor"`
	VersionMicro                         int    `msgpack:"version_micro"`
	VersionString                        string `msgpack:"version_string"`
	VersionEdition                       string `msgpack:"version_edition"`
	CorePollInterval                     int    `msgpack:"core_poll_interval"`
	FilesSharingAPIEnabled               int    `msgpack:"sharing_api_enabled"`
	FilesSharingSearchMinLength          int    `msgpack:"sharing_search_min_length"`
	FilesSharingPublicEnabled            int    `msgpack:"sharing_public_enabled"`
	FilesSharingPublicPasswordEnforced   int    `msgpack:"sharing_public_password_enforced"`
	FilesSharingPublicPasswordEnforcedRO int    `msgpack:"sharing_public_password_enforced_ro"`
	FilesSharingPublicPasswordEnforcedRW int    `msgpack:"sharing_public_password_enforced_rw"`
	FilesSharingPublicPasswordEnforcedUO int    `msgpack:"sharing_public_password_enforced_uo"`
	FilesSharingPublicExpireDateEnabled  int    `msgpack:"sharing_public_expire_date_enabled"`
	FilesSharingPublicExpireDateDays     int    `msgpack:"sharing_public_expire_date_days"`
	FilesSharingPublicExpireDateEnforced int    `msgpack:"sharing_public_expire_date_enforced"`
	FilesSharingPublicSendMail           int    `msgpack:"sharing_public_send_mail"`
	FilesSharingPublicUpload             int    `msgpack:"sharing_public_upload"`
	FilesSharingPublicMultiple           int    `msgpack:"sharing_public_multiple"`
	FilesSharingPublicSupportsUploadOnly int    `msgpack:"sharing_public_supports_upload_only"`
	FilesSharingUserSendMail             int    `msgpack:"sharing_user_send_mail"`
	FilesSharingResharing                int    `msgpack:"sharing_resharing"`
	FilesSharingFederationOutgoing       int    `msgpack:"sharing_federation_outgoing"`
	FilesSharingFederationIncoming       int    `msgpack:"sharing_federation_incoming"`
	FilesBigFileChunking                 int    `msgpack:"files_big_file_chunking"`
	FilesUndelete                        int    `msgpack:"files_undelete"`
	FilesVersioning                      int    `msgpack:"files_versioning"`
}

func (c *Capability) SharingAPIEnabled() bool {
	return CapabilityBoolean(c.FilesSharingAPIEnabled).IsTrue()
}

func (c *Capability) PublicSharingEnabled() bool {
	return CapabilityBoolean(c.FilesSharingPublicEnabled).IsTrue()
}

type RemoteCapability struct {
	AccountName    string
	VersionMajor   int
	VersionMinor   int
	VersionMicro   int
	VersionString  string
	VersionEdition string

	CorePollInterval int

	FilesSharingAPIEnabled               CapabilityBoolean
	FilesSharingSearchMinLength          int
	FilesSharingPublicEnabled            CapabilityBoolean
	FilesSharingPublicPasswordEnforced   CapabilityBoolean
	FilesSharingPublicPasswordEnforcedRO CapabilityBoolean
	FilesSharingPublicPasswordEnforcedRW CapabilityBoolean
	FilesSharingPublicPasswordEnforcedUO CapabilityBoolean
	FilesSharingPublicExpireDateEnabled  CapabilityBoolean
	FilesSharingPublicExpireDateDays     int
	FilesSharingPublicExpireDateEnforced CapabilityBoolean
	FilesSharingPublicSendMail           CapabilityBoolean
	FilesSharingPublicUpload             CapabilityBoolean
	FilesSharingPublicMultiple           CapabilityBoolean
	FilesSharingPublicSupportsUploadOnly CapabilityBoolean
	FilesSharingUserSendMail             CapabilityBoolean
	FilesSharingResharing                CapabilityBoolean
	FilesSharingFederationOutgoing       CapabilityBoolean
	FilesSharingFederationIncoming       CapabilityBoolean

	FilesBigFileChunking CapabilityBoolean
	FilesUndelete        CapabilityBoolean
	FilesVersioning      CapabilityBoolean
}

// NewRemoteCapability returns a capability set with every flag unknown, which
// is what the parser starts from before reading the response.
func NewRemoteCapability() *RemoteCapability {
	return &RemoteCapability{
		FilesSharingAPIEnabled:               CapabilityUnknown,
		FilesSharingPublicEnabled:            CapabilityUnknown,
		FilesSharingPublicPasswordEnforced:   CapabilityUnknown,
		FilesSharingPublicPasswordEnforcedRO: CapabilityUnknown,
		FilesSharingPublicPasswordEnforcedRW: CapabilityUnknown,
		FilesSharingPublicPasswordEnforcedUO: CapabilityUnknown,
		FilesSharingPublicExpireDateEnabled:  CapabilityUnknown,
		FilesSharingPublicExpireDateEnforced: CapabilityUnknown,
		FilesSharingPublicSendMail:           CapabilityUnknown,
		FilesSharingPublicUpload:             CapabilityUnknown,
		FilesSharingPublicMultiple:           CapabilityUnknown,
		FilesSharingPublicSupportsUploadOnly: CapabilityUnknown,
		FilesSharingUserSendMail:             CapabilityUnknown,
		FilesSharingResharing:                CapabilityUnknown,
		FilesSharingFederationOutgoing:       CapabilityUnknown,
		FilesSharingFederationIncoming:       CapabilityUnknown,
		FilesBigFileChunking:                 CapabilityUnknown,
		FilesUndelete:                        CapabilityUnknown,
		FilesVersioning:                      CapabilityUnknown,
	}
}
