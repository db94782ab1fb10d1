package remote

// ResultCode is the status of a finished remote or local operation.
type ResultCode int

const (
	OK ResultCode = iota
	OKSSL
	OKNoSSL
	UnhandledHTTPCode
	Unauthorized
	FileNotFound
	InstanceNotConfigured
	UnknownError
	WrongConnection
	Timeout
	IncorrectAddress
	HostNotAvailable
	NoNetworkConnection
	SSLError
	SSLRecoverablePeerUnverified
	BadOcVersion
	Cancelled
	InvalidLocalFileName
	InvalidOverwrite
	Conflict
	OAuth2Error
	SyncConflict
	LocalStorageFull
	LocalStorageNotMoved
	LocalStorageNotCopied
	OAuth2ErrorAccessDenied
	QuotaExceeded
	AccountNotFound
	AccountException
	AccountNotNew
	AccountNotTheSame
	InvalidCharacterInName
	ShareNotFound
	LocalStorageNotRemoved
	Forbidden
	ShareForbidden
	SpecificForbidden
	OKRedirectToNonSecureConnection
	InvalidMoveIntoDescendant
	InvalidCopyIntoDescendant
	PartialMoveDone
	PartialCopyDone
	ShareWrongParameter
	WrongServerResponse
	InvalidCharacterDetectInServer
	DelayedForWifi
	LocalFileNotFound
	ServiceUnavailable
	SpecificServiceUnavailable
	SpecificUnsupportedMediaType
	SpecificMethodNotAllowed
	MaintenanceMode
	DelayedInPowerSaveMode
)

var codeNames = [...]string{
	OK:                              "OK",
	OKSSL:                           "OK_SSL",
	OKNoSSL:                         "OK_NO_SSL",
	UnhandledHTTPCode:               "UNHANDLED_HTTP_CODE",
	Unauthorized:                    "UNAUTHORIZED",
	FileNotFound:                    "FILE_NOT_FOUND",
	InstanceNotConfigured:           "INSTANCE_NOT_CONFIGURED",
	UnknownError:                    "UNKNOWN_ERROR",
	WrongConnection:                 "WRONG_CONNECTION",
	Timeout:                         "TIMEOUT",
	IncorrectAddress:                "INCORRECT_ADDRESS",
	HostNotAvailable:                "HOST_NOT_AVAILABLE",
	NoNetworkConnection:             "NO_NETWORK_CONNECTION",
	SSLError:                        "SSL_ERROR",
	SSLRecoverablePeerUnverified:    "SSL_RECOVERABLE_PEER_UNVERIFIED",
	BadOcVersion:                    "BAD_OC_VERSION",
	Cancelled:                       "CANCELLED",
	InvalidLocalFileName:            "INVALID_LOCAL_FILE_NAME",
	InvalidOverwrite:                "INVALID_OVERWRITE",
	Conflict:                        "CONFLICT",
	OAuth2Error:                     "OAUTH2_ERROR",
	SyncConflict:                    "SYNC_CONFLICT",
	LocalStorageFull:                "LOCAL_STORAGE_FULL",
	LocalStorageNotMoved:            "LOCAL_STORAGE_NOT_MOVED",
	LocalStorageNotCopied:           "LOCAL_STORAGE_NOT_COPIED",
	OAuth2ErrorAccessDenied:         "OAUTH2_ERROR_ACCESS_DENIED",
	QuotaExceeded:                   "QUOTA_EXCEEDED",
	AccountNotFound:                 "ACCOUNT_NOT_FOUND",
	AccountException:                "ACCOUNT_EXCEPTION",
	AccountNotNew:                   "ACCOUNT_NOT_NEW",
	AccountNotTheSame:               "ACCOUNT_NOT_THE_SAME",
	InvalidCharacterInName:          "INVALID_CHARACTER_IN_NAME",
	ShareNotFound:                   "SHARE_NOT_FOUND",
	LocalStorageNotRemoved:          "LOCAL_STORAGE_NOT_REMOVED",
	Forbidden:                       "FORBIDDEN",
	ShareForbidden:                  "SHARE_FORBIDDEN",
	SpecificForbidden:               "SPECIFIC_FORBIDDEN",
	OKRedirectToNonSecureConnection: "OK_REDIRECT_TO_NON_SECURE_CONNECTION",
	InvalidMoveIntoDescendant:       "INVALID_MOVE_INTO_DESCENDANT",
	InvalidCopyIntoDescendant:       "INVALID_COPY_INTO_DESCENDANT",
	PartialMoveDone:                 "PARTIAL_MOVE_DONE",
	PartialCopyDone:                 "PARTIAL_COPY_DONE",
	ShareWrongParameter:             "SHARE_WRONG_PARAMETER",
	WrongServerResponse:             "WRONG_SERVER_RESPONSE",
	InvalidCharacterDetectInServer:  "INVALID_CHARACTER_DETECT_IN_SERVER",
	DelayedForWifi:                  "DELAYED_FOR_WIFI",
	LocalFileNotFound:               "LOCAL_FILE_NOT_FOUND",
	ServiceUnavailable:              "SERVICE_UNAVAILABLE",
	SpecificServiceUnavailable:      "SPECIFIC_SERVICE_UNAVAILABLE",
	SpecificUnsupportedMediaType:    "SPECIFIC_UNSUPPORTED_MEDIA_TYPE",
	SpecificMethodNotAllowed:        "SPECIFIC_METHOD_NOT_ALLOWED",
	MaintenanceMode:                 "MAINTENANCE_MODE",
	DelayedInPowerSaveMode:          "DELAYED_IN_POWER_SAVE_MODE",
}

func (c ResultCode) String() string {
	if c >= 0 && int(c) < len(codeNames) {
		return codeNames[c]
	}
	return "UNKNOWN_RESULT_CODE"
}

// IsOK reports whether the code marks a successful operation.
func (c ResultCode) IsOK() bool {
	return c == OK || c == OKSSL || c == OKNoSSL
}

// Codes lists every defined result code in declaration order.
func Codes() []ResultCode {
	codes := make([]ResultCode, len(codeNames))
	for i := range codeNames {
		codes[i] = ResultCode(i)
	}
	return codes
}
