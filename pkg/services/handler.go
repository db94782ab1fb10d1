package services

import (
	"context"
	"fmt"

	"github.com/go-faster/errors"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/domain"
)

// OperationError is a failed operation translated into the domain. It matches
// its sentinel through errors.Is and keeps the remote cause.
type OperationError struct {
	Code       remote.ResultCode
	HTTPCode   int
	HTTPPhrase string
	Err        error
	Cause      error
}

func (e *OperationError) Error() string {
	msg := e.Err.Error()
	if e.HTTPCode != 0 {
		msg = fmt.Sprintf("%s (http %d %s)", msg, e.HTTPCode, e.HTTPPhrase)
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *OperationError) Is(target error) bool {
	return target == e.Err
}

func (e *OperationError) Unwrap() error {
	return e.Cause
}

var codeErrors = map[remote.ResultCode]error{
	remote.WrongConnection:                 domain.ErrNoConnectionWithServer,
	remote.HostNotAvailable:                domain.ErrServerNotReachable,
	remote.UnhandledHTTPCode:               domain.ErrUnhandledHTTPCode,
	remote.Unauthorized:                    domain.ErrUnauthorized,
	remote.FileNotFound:                    domain.ErrFileNotFound,
	remote.InstanceNotConfigured:           domain.ErrInstanceNotConfigured,
	remote.UnknownError:                    domain.ErrUnknownError,
	remote.IncorrectAddress:                domain.ErrIncorrectAddress,
	remote.NoNetworkConnection:             domain.ErrNoNetworkConnection,
	remote.SSLError:                        domain.ErrSSLError,
	remote.SSLRecoverablePeerUnverified:    domain.ErrSSLRecoverablePeer,
	remote.BadOcVersion:                    domain.ErrBadOcVersion,
	remote.Cancelled:                       domain.ErrCancelled,
	remote.InvalidLocalFileName:            domain.ErrInvalidLocalFileName,
	remote.InvalidOverwrite:                domain.ErrInvalidOverwrite,
	remote.Conflict:                        domain.ErrConflict,
	remote.OAuth2Error:                     domain.ErrOAuth2Error,
	remote.SyncConflict:                    domain.ErrSyncConflict,
	remote.LocalStorageFull:                domain.ErrLocalStorageFull,
	remote.LocalStorageNotMoved:            domain.ErrLocalStorageNotMoved,
	remote.LocalStorageNotCopied:           domain.ErrLocalStorageNotCopied,
	remote.OAuth2ErrorAccessDenied:         domain.ErrOAuth2ErrorAccessDenied,
	remote.QuotaExceeded:                   domain.ErrQuotaExceeded,
	remote.AccountNotFound:                 domain.ErrAccountNotFound,
	remote.AccountException:                domain.ErrAccountException,
	remote.AccountNotNew:                   domain.ErrAccountNotNew,
	remote.AccountNotTheSame:               domain.ErrAccountNotTheSame,
	remote.InvalidCharacterInName:          domain.ErrInvalidCharacterInName,
	remote.ShareNotFound:                   domain.ErrShareNotFound,
	remote.LocalStorageNotRemoved:          domain.ErrLocalStorageNotRemoved,
	remote.Forbidden:                       domain.ErrForbidden,
	remote.ShareForbidden:                  domain.ErrShareForbidden,
	remote.SpecificForbidden:               domain.ErrSpecificForbidden,
	remote.OKRedirectToNonSecureConnection: domain.ErrRedirectToNonSecure,
	remote.InvalidMoveIntoDescendant:       domain.ErrMoveIntoDescendant,
	remote.InvalidCopyIntoDescendant:       domain.ErrCopyIntoDescendant,
	remote.PartialMoveDone:                 domain.ErrPartialMoveDone,
	remote.PartialCopyDone:                 domain.ErrPartialCopyDone,
	remote.ShareWrongParameter:             domain.ErrShareWrongParameter,
	remote.WrongServerResponse:             domain.ErrWrongServerResponse,
	remote.InvalidCharacterDetectInServer:  domain.ErrInvalidCharacter,
	remote.DelayedForWifi:                  domain.ErrDelayedForWifi,
	remote.LocalFileNotFound:               domain.ErrLocalFileNotFound,
	remote.ServiceUnavailable:              domain.ErrServiceUnavailable,
	remote.SpecificServiceUnavailable:      domain.ErrSpecificServiceUnavail,
	remote.SpecificUnsupportedMediaType:    domain.ErrSpecificUnsupportedMedia,
	remote.SpecificMethodNotAllowed:        domain.ErrSpecificMethodNotAllowed,
}

// ErrorFor returns the domain error a failed result code translates to.
// Timeouts need the cause to tell a slow response from a slow connect.
func ErrorFor(code remote.ResultCode, cause error) error {
	if code == remote.Timeout {
		if remote.IsResponseTimeout(cause) {
			return domain.ErrServerResponseTimeout
		}
		return domain.ErrServerConnectionTimeout
	}
	if err, ok := codeErrors[code]; ok {
		return err
	}
	return domain.ErrGeneric
}

// HandleResult returns the payload of a successful result or the domain
// error for its code.
func HandleResult[T any](res *remote.Result[T]) (T, error) {
	if res.IsSuccess() {
		return res.Data, nil
	}
	var zero T
	return zero, &OperationError{
		Code:       res.Code,
		HTTPCode:   res.HTTPCode,
		HTTPPhrase: res.HTTPPhrase,
		Err:        ErrorFor(res.Code, res.Err),
		Cause:      res.Err,
	}
}

// WaitForResult runs op on the calling goroutine and handles its result.
func WaitForResult[T any](ctx context.Context, op remote.Operation[T], client *remote.Client) (T, error) {
	return HandleResult(op.Execute(ctx, client))
}

// AwaitResult is WaitForResult that gives up as soon as ctx is done. The
// operation keeps running until it notices the cancellation itself.
func AwaitResult[T any](ctx context.Context, op remote.Operation[T], client *remote.Client) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, cancelled(err)
	}
	done := make(chan *remote.Result[T], 1)
	go func() {
		done <- op.Execute(ctx, client)
	}()
	select {
	case res := <-done:
		return HandleResult(res)
	case <-ctx.Done():
		return zero, cancelled(ctx.Err())
	}
}

func cancelled(cause error) error {
	return &OperationError{
		Code:  remote.Cancelled,
		Err:   domain.ErrCancelled,
		Cause: errors.Wrap(cause, "await"),
	}
}
