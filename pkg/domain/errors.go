// Package domain holds the error taxonomy the data layer reports to callers.
// Every failed remote or local operation surfaces as exactly one of these
// sentinels, so callers compare with errors.Is.
package domain

import "github.com/go-faster/errors"

var (
	// Connectivity.
	ErrNoConnectionWithServer  = errors.New("no connection with server")
	ErrServerResponseTimeout   = errors.New("server response timeout")
	ErrServerConnectionTimeout = errors.New("server connection timeout")
	ErrServerNotReachable      = errors.New("server not reachable")
	ErrNoNetworkConnection     = errors.New("no network connection")
	ErrIncorrectAddress        = errors.New("incorrect address")
	ErrSSLError                = errors.New("ssl error")
	ErrSSLRecoverablePeer      = errors.New("ssl peer unverified")
	ErrRedirectToNonSecure     = errors.New("redirected to non secure connection")
	ErrDelayedForWifi          = errors.New("delayed until wifi is available")
	ErrCancelled               = errors.New("operation cancelled")

	// Server.
	ErrUnhandledHTTPCode        = errors.New("unhandled http code")
	ErrInstanceNotConfigured    = errors.New("instance not configured")
	ErrBadOcVersion             = errors.New("unsupported server version")
	ErrWrongServerResponse      = errors.New("wrong server response")
	ErrServiceUnavailable       = errors.New("service unavailable")
	ErrSpecificServiceUnavail   = errors.New("service unavailable with message")
	ErrSpecificUnsupportedMedia = errors.New("unsupported media type")
	ErrSpecificMethodNotAllowed = errors.New("method not allowed")
	ErrUnknownError             = errors.New("unknown error")

	// Authentication.
	ErrUnauthorized            = errors.New("unauthorized")
	ErrOAuth2Error             = errors.New("oauth2 error")
	ErrOAuth2ErrorAccessDenied = errors.New("oauth2 access denied")
	ErrForbidden               = errors.New("forbidden")
	ErrSpecificForbidden       = errors.New("forbidden with message")
	ErrAccountNotFound         = errors.New("account not found")
	ErrAccountException        = errors.New("account error")
	ErrAccountNotNew           = errors.New("account already exists")
	ErrAccountNotTheSame       = errors.New("account does not match")

	// Files.
	ErrFileNotFound           = errors.New("file not found")
	ErrConflict               = errors.New("conflict")
	ErrSyncConflict           = errors.New("sync conflict")
	ErrInvalidOverwrite       = errors.New("invalid overwrite")
	ErrInvalidCharacterInName = errors.New("invalid character in name")
	ErrInvalidCharacter       = errors.New("invalid character detected by server")
	ErrMoveIntoDescendant     = errors.New("cannot move a folder into a descendant")
	ErrCopyIntoDescendant     = errors.New("cannot copy a folder into a descendant")
	ErrPartialMoveDone        = errors.New("move partially done")
	ErrPartialCopyDone        = errors.New("copy partially done")
	ErrQuotaExceeded          = errors.New("quota exceeded")

	// Local storage.
	ErrInvalidLocalFileName   = errors.New("invalid local file name")
	ErrLocalFileNotFound      = errors.New("local file not found")
	ErrLocalStorageFull       = errors.New("local storage full")
	ErrLocalStorageNotMoved   = errors.New("local storage not moved")
	ErrLocalStorageNotCopied  = errors.New("local storage not copied")
	ErrLocalStorageNotRemoved = errors.New("local storage not removed")

	// Sharing.
	ErrShareNotFound       = errors.New("share not found")
	ErrShareForbidden      = errors.New("share forbidden")
	ErrShareWrongParameter = errors.New("wrong share parameter")

	// ErrGeneric is returned for result codes without a dedicated error.
	ErrGeneric = errors.New("operation failed")
)

var retryable = []error{
	ErrNoConnectionWithServer,
	ErrServerResponseTimeout,
	ErrServerConnectionTimeout,
	ErrServerNotReachable,
	ErrNoNetworkConnection,
	ErrServiceUnavailable,
	ErrSpecificServiceUnavail,
	ErrDelayedForWifi,
}

// Retryable reports whether err is a transient connectivity or availability
// failure that may succeed when repeated later.
func Retryable(err error) bool {
	for _, target := range retryable {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
