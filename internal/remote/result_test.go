package remote_test

import (
	"context"
	"crypto/x509"
	"net"
	"net/http"
	"net/url"
	"os"
	"syscall"
	"testing"

	"github.com/go-faster/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocdrive/ocdrive/internal/remote"
)

func TestResultCodeString(t *testing.T) {
	assert.Equal(t, "OK", remote.OK.String())
	assert.Equal(t, "SHARE_WRONG_PARAMETER", remote.ShareWrongParameter.String())
	assert.Equal(t, "OK_REDIRECT_TO_NON_SECURE_CONNECTION", remote.OKRedirectToNonSecureConnection.String())
	assert.Equal(t, "DELAYED_IN_POWER_SAVE_MODE", remote.DelayedInPowerSaveMode.String())
	assert.Equal(t, "UNKNOWN_RESULT_CODE", remote.ResultCode(-1).String())
	assert.Len(t, remote.Codes(), int(remote.DelayedInPowerSaveMode)+1)
}

func TestNewFailureSuccessFlag(t *testing.T) {
	assert.True(t, remote.NewFailure[int](remote.OKSSL, nil).IsSuccess())
	assert.False(t, remote.NewFailure[int](remote.OKRedirectToNonSecureConnection, nil).IsSuccess())
	assert.False(t, remote.NewFailure[int](remote.Conflict, nil).IsSuccess())
}

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status  int
		message bool
		want    remote.ResultCode
	}{
		{http.StatusOK, false, remote.OK},
		{http.StatusNoContent, false, remote.OK},
		{http.StatusUnauthorized, false, remote.Unauthorized},
		{http.StatusForbidden, false, remote.Forbidden},
		{http.StatusForbidden, true, remote.SpecificForbidden},
		{http.StatusNotFound, false, remote.FileNotFound},
		{http.StatusMethodNotAllowed, false, remote.SpecificMethodNotAllowed},
		{http.StatusConflict, false, remote.Conflict},
		{http.StatusPreconditionFailed, false, remote.InvalidOverwrite},
		{http.StatusUnsupportedMediaType, false, remote.SpecificUnsupportedMediaType},
		{http.StatusInternalServerError, false, remote.InstanceNotConfigured},
		{http.StatusServiceUnavailable, false, remote.ServiceUnavailable},
		{http.StatusServiceUnavailable, true, remote.SpecificServiceUnavailable},
		{http.StatusInsufficientStorage, false, remote.QuotaExceeded},
		{http.StatusTeapot, false, remote.UnhandledHTTPCode},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, remote.ClassifyStatus(tt.status, tt.message), "%d %v", tt.status, tt.message)
	}
}

func TestFromHTTPResponseSabreMessage(t *testing.T) {
	body := []byte(`<?xml version="1.0" encoding="utf-8"?>
<d:error xmlns:d="DAV:" xmlns:s="http://sabredav.org/ns">
  <s:exception>Sabre\DAV\Exception\ServiceUnavailable</s:exception>
  <s:message>System in maintenance mode.</s:message>
</d:error>`)
	res := remote.FromHTTPResponse[string](http.StatusServiceUnavailable, "Service Unavailable", body)
	assert.False(t, res.IsSuccess())
	assert.Equal(t, remote.SpecificServiceUnavailable, res.Code)
	assert.Equal(t, 503, res.HTTPCode)
	assert.Equal(t, "Service Unavailable", res.HTTPPhrase)
	require.Error(t, res.Err)
	assert.Equal(t, "System in maintenance mode.", res.Err.Error())

	plain := remote.FromHTTPResponse[string](http.StatusServiceUnavailable, "Service Unavailable", []byte("down"))
	assert.Equal(t, remote.ServiceUnavailable, plain.Code)
	assert.NoError(t, plain.Err)
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want remote.ResultCode
	}{
		{"nil", nil, remote.OK},
		{"canceled", context.Canceled, remote.Cancelled},
		{"deadline", errors.Wrap(context.DeadlineExceeded, "get"), remote.Timeout},
		{"expired token", remote.ErrTokenExpired, remote.Unauthorized},
		{"redirect", &url.Error{Op: "Get", URL: "http://x", Err: remote.ErrRedirectToNonSecure}, remote.OKRedirectToNonSecureConnection},
		{"unknown authority", &url.Error{Op: "Get", Err: x509.UnknownAuthorityError{}}, remote.SSLRecoverablePeerUnverified},
		{"hostname", x509.HostnameError{Certificate: &x509.Certificate{}, Host: "x"}, remote.SSLRecoverablePeerUnverified},
		{"invalid cert", x509.CertificateInvalidError{Cert: &x509.Certificate{}, Reason: x509.Expired}, remote.SSLError},
		{"dns", &net.DNSError{Err: "no such host", Name: "nowhere.invalid", IsNotFound: true}, remote.HostNotAvailable},
		{"read timeout", &net.OpError{Op: "read", Net: "tcp", Err: os.ErrDeadlineExceeded}, remote.Timeout},
		{"unreachable", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ENETUNREACH)}, remote.NoNetworkConnection},
		{"refused", &net.OpError{Op: "dial", Net: "tcp", Err: os.NewSyscallError("connect", syscall.ECONNREFUSED)}, remote.WrongConnection},
		{"bad url", &url.Error{Op: "parse", URL: "::", Err: errors.New("missing protocol scheme")}, remote.IncorrectAddress},
		{"scheme", remote.ErrUnsupportedScheme, remote.IncorrectAddress},
		{"other", errors.New("boom"), remote.UnknownError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, remote.ClassifyError(tt.err))
		})
	}
}

func TestIsResponseTimeout(t *testing.T) {
	assert.True(t, remote.IsResponseTimeout(&net.OpError{Op: "read", Err: os.ErrDeadlineExceeded}))
	assert.True(t, remote.IsResponseTimeout(context.DeadlineExceeded))
	assert.False(t, remote.IsResponseTimeout(&net.OpError{Op: "dial", Err: os.ErrDeadlineExceeded}))
	assert.False(t, remote.IsResponseTimeout(nil))
	assert.False(t, remote.IsResponseTimeout(errors.New("x")))
}

func TestConvert(t *testing.T) {
	src := remote.FromHTTPResponse[int](http.StatusNotFound, "Not Found", nil)
	dst := remote.Convert[string](src)
	assert.Equal(t, remote.FileNotFound, dst.Code)
	assert.Equal(t, 404, dst.HTTPCode)
	assert.False(t, dst.IsSuccess())
}
