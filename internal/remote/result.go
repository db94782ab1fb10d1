package remote

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/xml"
	"net"
	"net/http"
	"net/url"
	"syscall"

	"github.com/go-faster/errors"
)

// Result carries the outcome of an Operation: the payload on success, the
// result code and the underlying cause otherwise.
type Result[T any] struct {
	Success    bool
	Code       ResultCode
	Data       T
	HTTPCode   int
	HTTPPhrase string
	Err        error
}

func (r *Result[T]) IsSuccess() bool {
	return r.Success
}

func NewResult[T any](data T) *Result[T] {
	return &Result[T]{Success: true, Code: OK, Data: data}
}

func NewFailure[T any](code ResultCode, err error) *Result[T] {
	return &Result[T]{Success: code.IsOK(), Code: code, Err: err}
}

// FromError classifies a transport or local error into a failed result.
func FromError[T any](err error) *Result[T] {
	return NewFailure[T](ClassifyError(err), err)
}

// FromHTTPResponse classifies a non-success HTTP response. body may hold a
// Sabre error document whose message turns generic codes into their
// specific variants.
func FromHTTPResponse[T any](status int, phrase string, body []byte) *Result[T] {
	msg := sabreMessage(body)
	code := ClassifyStatus(status, msg != "")
	res := NewFailure[T](code, nil)
	res.HTTPCode = status
	res.HTTPPhrase = phrase
	if msg != "" {
		res.Err = errors.New(msg)
	}
	return res
}

// Convert carries a failed result over to another payload type.
func Convert[T, U any](r *Result[U]) *Result[T] {
	return &Result[T]{
		Success:    r.Success,
		Code:       r.Code,
		HTTPCode:   r.HTTPCode,
		HTTPPhrase: r.HTTPPhrase,
		Err:        r.Err,
	}
}

func ClassifyStatus(status int, hasMessage bool) ResultCode {
	switch {
	case status >= 200 && status < 300:
		return OK
	case status == http.StatusUnauthorized:
		return Unauthorized
	case status == http.StatusForbidden:
		if hasMessage {
			return SpecificForbidden
		}
		return Forbidden
	case status == http.StatusNotFound:
		return FileNotFound
	case status == http.StatusMethodNotAllowed:
		return SpecificMethodNotAllowed
	case status == http.StatusConflict:
		return Conflict
	case status == http.StatusPreconditionFailed:
		return InvalidOverwrite
	case status == http.StatusUnsupportedMediaType:
		return SpecificUnsupportedMediaType
	case status == http.StatusInternalServerError:
		return InstanceNotConfigured
	case status == http.StatusServiceUnavailable:
		if hasMessage {
			return SpecificServiceUnavailable
		}
		return ServiceUnavailable
	case status == http.StatusInsufficientStorage:
		return QuotaExceeded
	}
	return UnhandledHTTPCode
}

// ClassifyError maps a Go error to the result code the remote library
// reports for the equivalent failure.
func ClassifyError(err error) ResultCode {
	if err == nil {
		return OK
	}
	var (
		dnsErr      *net.DNSError
		netErr      net.Error
		opErr       *net.OpError
		urlErr      *url.Error
		unknownAuth x509.UnknownAuthorityError
		hostErr     x509.HostnameError
		certErr     x509.CertificateInvalidError
		recordErr   tls.RecordHeaderError
		verifyErr   *tls.CertificateVerificationError
	)
	switch {
	case errors.Is(err, context.Canceled):
		return Cancelled
	case errors.Is(err, context.DeadlineExceeded):
		return Timeout
	case errors.Is(err, ErrTokenExpired):
		return Unauthorized
	case errors.Is(err, ErrRedirectToNonSecure):
		return OKRedirectToNonSecureConnection
	case errors.As(err, &unknownAuth), errors.As(err, &hostErr):
		return SSLRecoverablePeerUnverified
	case errors.As(err, &verifyErr):
		if errors.As(verifyErr.Err, &unknownAuth) || errors.As(verifyErr.Err, &hostErr) {
			return SSLRecoverablePeerUnverified
		}
		return SSLError
	case errors.As(err, &certErr), errors.As(err, &recordErr):
		return SSLError
	case errors.As(err, &dnsErr):
		return HostNotAvailable
	case errors.As(err, &netErr) && netErr.Timeout():
		return Timeout
	case errors.Is(err, syscall.ENETUNREACH):
		return NoNetworkConnection
	case errors.As(err, &opErr):
		return WrongConnection
	case errors.As(err, &urlErr) && urlErr.Op == "parse":
		return IncorrectAddress
	case errors.Is(err, ErrUnsupportedScheme):
		return IncorrectAddress
	}
	return UnknownError
}

// IsResponseTimeout reports whether err is a timeout hit while waiting for
// the server to answer, as opposed to while establishing the connection.
func IsResponseTimeout(err error) bool {
	if err == nil {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "dial" {
		return false
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}
	return errors.Is(err, context.DeadlineExceeded)
}

type sabreError struct {
	XMLName   xml.Name `xml:"error"`
	Exception string   `xml:"exception"`
	Message   string   `xml:"message"`
}

func sabreMessage(body []byte) string {
	if len(bytes.TrimSpace(body)) == 0 {
		return ""
	}
	var e sabreError
	if err := xml.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Message
}
