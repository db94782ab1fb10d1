package remote

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/studio-b12/gowebdav"
	"go.uber.org/zap"
	"golang.org/x/net/proxy"
	"golang.org/x/time/rate"

	"github.com/ocdrive/ocdrive/internal/config"
	"github.com/ocdrive/ocdrive/internal/logging"
	"github.com/ocdrive/ocdrive/pkg/models"
)

var (
	ErrTokenExpired      = errors.New("access token expired")
	ErrUnsupportedScheme = errors.New("unsupported url scheme")
)

const (
	davFilesPath = "remote.php/dav/files"
	ocsPath      = "ocs/v2.php"
	statusPath   = "status.php"
)

// Client talks to one ownCloud server on behalf of one account.
type Client struct {
	account   *models.Account
	baseURL   *url.URL
	transport http.RoundTripper
	http      *http.Client
	logger    *zap.Logger
	timeout   time.Duration
}

// NewClient builds the transport stack: dialer (optionally proxied), rate
// limiting, retries for idempotent requests and authentication headers.
func NewClient(account *models.Account, cnf *config.RemoteConfig) (*Client, error) {
	serverURL := account.ServerURL
	if serverURL == "" {
		serverURL = cnf.ServerURL
	}
	base, err := url.Parse(strings.TrimSuffix(serverURL, "/") + "/")
	if err != nil {
		return nil, err
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, errors.Wrapf(ErrUnsupportedScheme, "%q", base.Scheme)
	}

	logger := logging.Component("remote").With(zap.String("account", account.Name))

	dialer := &net.Dialer{Timeout: cnf.ConnectTimeout, KeepAlive: 30 * time.Second}
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		TLSHandshakeTimeout: cnf.ConnectTimeout,
		MaxIdleConnsPerHost: cnf.Concurrency,
		IdleConnTimeout:     90 * time.Second,
		TLSClientConfig:     &tls.Config{InsecureSkipVerify: cnf.InsecureSkipVerify},
	}
	if cnf.Proxy != "" {
		if err := applyProxy(tr, dialer, cnf.Proxy); err != nil {
			return nil, err
		}
	}

	var rt http.RoundTripper = tr
	rt = &logTransport{next: rt, logger: logger}
	if cnf.MaxRetries > 0 {
		rt = &retryTransport{next: rt, retries: cnf.MaxRetries}
	}
	if cnf.RateLimit && cnf.Rate > 0 {
		rt = &rateTransport{next: rt, limiter: rate.NewLimiter(rate.Limit(cnf.Rate), max(cnf.RateBurst, 1))}
	}
	rt = &authTransport{next: rt, credentials: account.Credentials, userAgent: cnf.UserAgent}
	if base.Scheme == "https" {
		rt = &secureTransport{next: rt}
	}

	c := &Client{
		account:   account,
		baseURL:   base,
		transport: rt,
		logger:    logger,
		timeout:   cnf.Timeout,
	}
	c.http = &http.Client{
		Transport: rt,
		Timeout:   cnf.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= 10 {
				return errors.New("stopped after 10 redirects")
			}
			if via[0].URL.Scheme == "https" && req.URL.Scheme == "http" {
				return ErrRedirectToNonSecure
			}
			return nil
		},
	}
	return c, nil
}

// ErrRedirectToNonSecure stops a redirect chain that leaves https.
var ErrRedirectToNonSecure = errors.New("redirect to non secure connection")

func applyProxy(tr *http.Transport, dialer *net.Dialer, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return errors.Wrap(err, "parse proxy")
	}
	switch u.Scheme {
	case "http", "https":
		tr.Proxy = http.ProxyURL(u)
	case "socks5", "socks5h":
		d, err := proxy.FromURL(u, dialer)
		if err != nil {
			return errors.Wrap(err, "socks proxy")
		}
		cd, ok := d.(proxy.ContextDialer)
		if !ok {
			return errors.New("socks proxy does not support contexts")
		}
		tr.Proxy = nil
		tr.DialContext = cd.DialContext
	default:
		return errors.Wrapf(ErrUnsupportedScheme, "proxy %q", u.Scheme)
	}
	return nil
}

func (c *Client) Account() *models.Account {
	return c.account
}

func (c *Client) BaseURL() *url.URL {
	return c.baseURL
}

func (c *Client) Logger() *zap.Logger {
	return c.logger
}

// DavRoot is the WebDAV collection of the account's files.
func (c *Client) DavRoot() string {
	return c.baseURL.JoinPath(davFilesPath, c.account.Username()).String() + "/"
}

// DAV returns a WebDAV client whose requests run under ctx. Credentials come
// from the transport, so gowebdav never negotiates or resends a request.
func (c *Client) DAV(ctx context.Context) *gowebdav.Client {
	dav := gowebdav.NewAuthClient(c.DavRoot(), gowebdav.NewPreemptiveAuth(transportAuth{}))
	dav.SetTransport(&ctxTransport{ctx: ctx, next: c.transport})
	dav.SetTimeout(c.timeout)
	return dav
}

// NewRequest builds a request for a path relative to the server root.
func (c *Client) NewRequest(ctx context.Context, method, p string, query url.Values, body io.Reader) (*http.Request, error) {
	u := c.baseURL.JoinPath(p)
	if query != nil {
		u.RawQuery = query.Encode()
	}
	return http.NewRequestWithContext(ctx, method, u.String(), body)
}

func (c *Client) Do(req *http.Request) (*http.Response, error) {
	return c.http.Do(req)
}

// DavURL is the absolute URL of a remote path inside the account's files.
func (c *Client) DavURL(remotePath string) *url.URL {
	return c.baseURL.JoinPath(davFilesPath, c.account.Username(), remotePath)
}

type ctxTransport struct {
	ctx  context.Context
	next http.RoundTripper
}

func (t *ctxTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	return t.next.RoundTrip(req.WithContext(t.ctx))
}

type transportAuth struct{}

func (transportAuth) Authorize(*http.Client, *http.Request, string) error { return nil }

func (transportAuth) Verify(*http.Client, *http.Response, string) (bool, error) {
	return false, nil
}

func (a transportAuth) Clone() gowebdav.Authenticator { return a }

func (transportAuth) Close() error { return nil }

// secureTransport refuses plain http once the account lives on https. It
// covers redirects followed by clients other than c.http.
type secureTransport struct {
	next http.RoundTripper
}

func (t *secureTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.URL.Scheme != "https" {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, ErrRedirectToNonSecure
	}
	return t.next.RoundTrip(req)
}

type authTransport struct {
	next        http.RoundTripper
	credentials models.Credentials
	userAgent   string
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.credentials.Expired(time.Now()) {
		return nil, ErrTokenExpired
	}
	req = req.Clone(req.Context())
	switch t.credentials.Kind {
	case models.CredentialsBearer:
		req.Header.Set("Authorization", "Bearer "+t.credentials.Secret)
	case models.CredentialsBasic:
		req.SetBasicAuth(t.credentials.Username, t.credentials.Secret)
	}
	req.Header.Set("OCS-APIRequest", "true")
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if req.Header.Get("X-Request-ID") == "" {
		req.Header.Set("X-Request-ID", uuid.NewString())
	}
	return t.next.RoundTrip(req)
}

type rateTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *rateTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		if ctxErr := req.Context().Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, err
	}
	return t.next.RoundTrip(req)
}

var idempotent = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodOptions: true,
	"PROPFIND":         true,
}

// retryTransport repeats idempotent requests that failed before a response
// arrived. Requests with a body are retried only when it can be replayed.
type retryTransport struct {
	next    http.RoundTripper
	retries int
}

func (t *retryTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !idempotent[req.Method] || (req.Body != nil && req.Body != http.NoBody && req.GetBody == nil) {
		return t.next.RoundTrip(req)
	}

	var resp *http.Response
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second

	attempt := 0
	err := backoff.Retry(func() error {
		r := req
		if attempt > 0 && req.GetBody != nil {
			body, err := req.GetBody()
			if err != nil {
				return backoff.Permanent(err)
			}
			r = req.Clone(req.Context())
			r.Body = body
		}
		attempt++
		var err error
		resp, err = t.next.RoundTrip(r)
		if err == nil {
			return nil
		}
		switch ClassifyError(err) {
		case WrongConnection, Timeout:
			if req.Context().Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		return backoff.Permanent(err)
	}, backoff.WithContext(backoff.WithMaxRetries(b, uint64(t.retries)), req.Context()))
	return resp, err
}

type logTransport struct {
	next   http.RoundTripper
	logger *zap.Logger
}

func (t *logTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	fields := []zap.Field{
		zap.String("request_id", req.Header.Get("X-Request-ID")),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Duration("took", time.Since(start)),
	}
	if err != nil {
		t.logger.Debug("request.failed", append(fields, zap.Error(err))...)
		return nil, err
	}
	t.logger.Debug("request.done", append(fields, zap.Int("status", resp.StatusCode))...)
	return resp, nil
}
