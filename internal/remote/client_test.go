package remote_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/internal/testutil"
	"github.com/ocdrive/ocdrive/pkg/models"
)

func TestNewClientRejectsScheme(t *testing.T) {
	account := testutil.Account("u@ftp", models.AccountType, func(a *models.Account) {
		a.ServerURL = "ftp://server"
	})
	_, err := remote.NewClient(account, testutil.RemoteConfig())
	assert.ErrorIs(t, err, remote.ErrUnsupportedScheme)
}

func TestNewClientProxy(t *testing.T) {
	account := testutil.Account("u@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = "https://server"
	})
	cnf := testutil.RemoteConfig()

	cnf.Proxy = "socks5://127.0.0.1:1080"
	_, err := remote.NewClient(account, cnf)
	assert.NoError(t, err)

	cnf.Proxy = "http://127.0.0.1:3128"
	_, err = remote.NewClient(account, cnf)
	assert.NoError(t, err)

	cnf.Proxy = "gopher://127.0.0.1"
	_, err = remote.NewClient(account, cnf)
	assert.ErrorIs(t, err, remote.ErrUnsupportedScheme)
}

func TestClientHeaders(t *testing.T) {
	var got http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
		_, _ = w.Write([]byte(`{"installed":true,"maintenance":false,"version":"10.8.0.4"}`))
	}))
	defer srv.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = srv.URL
		a.Credentials = models.Credentials{Kind: models.CredentialsBearer, Username: "admin", Secret: "opaque-token"}
	})
	c, err := remote.NewClient(account, testutil.RemoteConfig())
	require.NoError(t, err)

	res := remote.GetStatus{}.Execute(context.Background(), c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.Equal(t, "Bearer opaque-token", got.Get("Authorization"))
	assert.Equal(t, "true", got.Get("OCS-APIRequest"))
	assert.Equal(t, "ocdrive-test", got.Get("User-Agent"))
	assert.NotEmpty(t, got.Get("X-Request-ID"))
}

func TestClientExpiredToken(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	srv := testutil.NewServer(t)
	account := srv.Account()
	account.Credentials = models.Credentials{Kind: models.CredentialsBearer, Username: "admin", Secret: token}

	res := remote.GetStatus{}.Execute(context.Background(), srv.ClientFor(t, account))
	assert.Equal(t, remote.Unauthorized, res.Code)
	assert.ErrorIs(t, res.Err, remote.ErrTokenExpired)
}

func TestClientRedirectToNonSecure(t *testing.T) {
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"installed":true,"version":"10.8.0.4"}`))
	}))
	defer plain.Close()
	secure := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, plain.URL+r.URL.Path, http.StatusFound)
	}))
	defer secure.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = secure.URL
	})
	cnf := testutil.RemoteConfig()
	cnf.InsecureSkipVerify = true
	c, err := remote.NewClient(account, cnf)
	require.NoError(t, err)

	res := remote.GetStatus{}.Execute(context.Background(), c)
	assert.Equal(t, remote.OKRedirectToNonSecureConnection, res.Code)
	assert.False(t, res.IsSuccess())
}

func TestDavRedirectToNonSecure(t *testing.T) {
	var plainHits atomic.Int32
	plain := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		plainHits.Add(1)
	}))
	defer plain.Close()
	secure := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, plain.URL+r.URL.Path, http.StatusFound)
	}))
	defer secure.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = secure.URL
	})
	cnf := testutil.RemoteConfig()
	cnf.InsecureSkipVerify = true
	c, err := remote.NewClient(account, cnf)
	require.NoError(t, err)

	list := remote.ReadFolder{Path: "/"}.Execute(context.Background(), c)
	assert.Equal(t, remote.OKRedirectToNonSecureConnection, list.Code)
	assert.False(t, list.IsSuccess())

	exists := remote.CheckPathExistence{Path: "/a"}.Execute(context.Background(), c)
	assert.Equal(t, remote.OKRedirectToNonSecureConnection, exists.Code)

	mkdir := remote.CreateFolder{Path: "/a/b", CreateParents: true}.Execute(context.Background(), c)
	assert.Equal(t, remote.OKRedirectToNonSecureConnection, mkdir.Code)

	assert.Zero(t, plainHits.Load())
}

func TestDavRequestsSentOnce(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		switch r.Method {
		case "PROPFIND":
			w.WriteHeader(http.StatusNotFound)
		case "MOVE", "COPY":
			w.WriteHeader(http.StatusCreated)
		}
	}))
	defer srv.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = srv.URL
	})
	c, err := remote.NewClient(account, testutil.RemoteConfig())
	require.NoError(t, err)
	ctx := context.Background()

	res := remote.CheckPathExistence{Path: "/a", SuccessIfAbsent: true}.Execute(ctx, c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.EqualValues(t, 1, hits.Load())

	moved := remote.MoveFile{Source: "/a", Target: "/b"}.Execute(ctx, c)
	require.True(t, moved.IsSuccess(), moved.Err)
	assert.EqualValues(t, 2, hits.Load())

	copied := remote.CopyFile{Source: "/a", Target: "/c"}.Execute(ctx, c)
	require.True(t, copied.IsSuccess(), copied.Err)
	assert.EqualValues(t, 3, hits.Load())
}

func TestClientUntrustedCertificate(t *testing.T) {
	secure := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
	defer secure.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = secure.URL
	})
	c, err := remote.NewClient(account, testutil.RemoteConfig())
	require.NoError(t, err)

	res := remote.GetStatus{}.Execute(context.Background(), c)
	assert.Equal(t, remote.SSLRecoverablePeerUnverified, res.Code)
}

func TestClientCancelled(t *testing.T) {
	srv := testutil.NewServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res := remote.GetStatus{}.Execute(ctx, srv.Client(t))
	assert.Equal(t, remote.Cancelled, res.Code)
}

func TestReadFolder(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/Photos/a.jpg", []byte("jpeg"))
	srv.WriteFile(t, "/Photos/b c.txt", []byte("text"))

	res := remote.ReadFolder{Path: "/Photos"}.Execute(context.Background(), srv.Client(t))
	require.True(t, res.IsSuccess(), res.Err)
	require.Len(t, res.Data, 2)
	paths := []string{res.Data[0].RemotePath, res.Data[1].RemotePath}
	assert.ElementsMatch(t, []string{"/Photos/a.jpg", "/Photos/b c.txt"}, paths)
	for _, f := range res.Data {
		assert.Equal(t, int64(4), f.Length)
		assert.NotEmpty(t, f.Etag)
	}
}

func TestCheckPathExistence(t *testing.T) {
	srv := testutil.NewServer(t)
	c := srv.Client(t)

	res := remote.CheckPathExistence{Path: "/missing"}.Execute(context.Background(), c)
	assert.Equal(t, remote.FileNotFound, res.Code)
	assert.Equal(t, http.StatusNotFound, res.HTTPCode)

	res = remote.CheckPathExistence{Path: "/missing", SuccessIfAbsent: true}.Execute(context.Background(), c)
	assert.True(t, res.IsSuccess())
	assert.False(t, res.Data)
}

func TestCreateFolderWithoutParent(t *testing.T) {
	srv := testutil.NewServer(t)
	c := srv.Client(t)

	res := remote.CreateFolder{Path: "/x/y"}.Execute(context.Background(), c)
	assert.Equal(t, remote.Conflict, res.Code)

	res = remote.CreateFolder{Path: "/x/y", CreateParents: true}.Execute(context.Background(), c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.True(t, srv.Exists("/x/y"))
}

func TestMoveOntoItself(t *testing.T) {
	srv := testutil.NewServer(t)
	res := remote.MoveFile{Source: "/a/", Target: "/a"}.Execute(context.Background(), srv.Client(t))
	assert.True(t, res.IsSuccess())
}

func TestMoveAndCopyOverwrite(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/a.txt", []byte("a"))
	srv.WriteFile(t, "/b.txt", []byte("b"))
	c := srv.Client(t)
	ctx := context.Background()

	res := remote.CopyFile{Source: "/a.txt", Target: "/b.txt"}.Execute(ctx, c)
	assert.Equal(t, remote.InvalidOverwrite, res.Code)
	assert.Equal(t, http.StatusPreconditionFailed, res.HTTPCode)
	assert.Equal(t, []byte("b"), srv.ReadFile(t, "/b.txt"))

	res = remote.CopyFile{Source: "/a.txt", Target: "/b.txt", Overwrite: true}.Execute(ctx, c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.Equal(t, []byte("a"), srv.ReadFile(t, "/b.txt"))

	srv.WriteFile(t, "/c.txt", []byte("c"))
	res = remote.MoveFile{Source: "/c.txt", Target: "/b.txt", Overwrite: true}.Execute(ctx, c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.False(t, srv.Exists("/c.txt"))
	assert.Equal(t, []byte("c"), srv.ReadFile(t, "/b.txt"))

	res = remote.MoveFile{Source: "/a.txt", Target: "/fresh.txt"}.Execute(ctx, c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.False(t, srv.Exists("/a.txt"))
	assert.Equal(t, []byte("a"), srv.ReadFile(t, "/fresh.txt"))
}

func TestMoveAndCopyMissingParent(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/a.txt", []byte("a"))
	c := srv.Client(t)
	ctx := context.Background()

	res := remote.MoveFile{Source: "/a.txt", Target: "/missing/a.txt"}.Execute(ctx, c)
	assert.Equal(t, remote.Conflict, res.Code)
	assert.Equal(t, http.StatusConflict, res.HTTPCode)

	res = remote.CopyFile{Source: "/a.txt", Target: "/missing/a.txt"}.Execute(ctx, c)
	assert.Equal(t, remote.Conflict, res.Code)

	assert.True(t, srv.Exists("/a.txt"))
	assert.False(t, srv.Exists("/missing"))
}

func TestMoveAndCopyMultiStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/xml; charset=utf-8")
		w.WriteHeader(http.StatusMultiStatus)
		_, _ = w.Write([]byte(`<?xml version="1.0"?><d:multistatus xmlns:d="DAV:">` +
			`<d:response><d:href>/remote.php/dav/files/admin/dir/locked.txt</d:href>` +
			`<d:status>HTTP/1.1 423 Locked</d:status></d:response></d:multistatus>`))
	}))
	defer srv.Close()

	account := testutil.Account("admin@server", models.AccountType, func(a *models.Account) {
		a.ServerURL = srv.URL
	})
	c, err := remote.NewClient(account, testutil.RemoteConfig())
	require.NoError(t, err)

	moved := remote.MoveFile{Source: "/dir", Target: "/other"}.Execute(context.Background(), c)
	assert.Equal(t, remote.PartialMoveDone, moved.Code)
	assert.Equal(t, http.StatusMultiStatus, moved.HTTPCode)
	assert.False(t, moved.IsSuccess())
	assert.Error(t, moved.Err)

	copied := remote.CopyFile{Source: "/dir", Target: "/other"}.Execute(context.Background(), c)
	assert.Equal(t, remote.PartialCopyDone, copied.Code)
	assert.False(t, copied.IsSuccess())
}

func TestUploadIfMatch(t *testing.T) {
	srv := testutil.NewServer(t)
	c := srv.Client(t)
	ctx := context.Background()
	local := filepath.Join(t.TempDir(), "draft.txt")
	require.NoError(t, os.WriteFile(local, []byte("v1"), 0o644))

	first := remote.UploadFile{LocalPath: local, RemotePath: "/draft.txt"}.Execute(ctx, c)
	require.True(t, first.IsSuccess(), first.Err)
	assert.Equal(t, srv.ETag(t, "/draft.txt"), first.Data.Etag)

	require.NoError(t, os.WriteFile(local, []byte("second"), 0o644))
	second := remote.UploadFile{LocalPath: local, RemotePath: "/draft.txt", IfMatch: first.Data.Etag}.Execute(ctx, c)
	require.True(t, second.IsSuccess(), second.Err)
	assert.Equal(t, []byte("second"), srv.ReadFile(t, "/draft.txt"))

	require.NoError(t, os.WriteFile(local, []byte("third draft"), 0o644))
	stale := remote.UploadFile{LocalPath: local, RemotePath: "/draft.txt", IfMatch: first.Data.Etag}.Execute(ctx, c)
	assert.Equal(t, remote.SyncConflict, stale.Code)
	assert.Equal(t, http.StatusPreconditionFailed, stale.HTTPCode)
	assert.False(t, stale.IsSuccess())
	assert.Equal(t, []byte("second"), srv.ReadFile(t, "/draft.txt"))
}

func TestRemoveFileLocalCopy(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/doc.txt", []byte("d"))
	local := filepath.Join(t.TempDir(), "doc.txt")
	require.NoError(t, os.WriteFile(local, []byte("d"), 0o644))

	res := remote.RemoveFile{Path: "/doc.txt", LocalPath: local}.Execute(context.Background(), srv.Client(t))
	require.True(t, res.IsSuccess(), res.Err)
	assert.NoFileExists(t, local)
	assert.False(t, srv.Exists("/doc.txt"))
}

func TestDownloadInvalidLocalName(t *testing.T) {
	srv := testutil.NewServer(t)
	for _, p := range []string{"", "dir/", "..", "a\x00b"} {
		res := remote.DownloadFile{RemotePath: "/f", LocalPath: p}.Execute(context.Background(), srv.Client(t))
		assert.Equal(t, remote.InvalidLocalFileName, res.Code, "%q", p)
	}
}

func TestDownloadLocalNotMoved(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/f.txt", []byte("f"))
	target := filepath.Join(t.TempDir(), "taken")
	require.NoError(t, os.MkdirAll(filepath.Join(target, "child"), 0o755))

	res := remote.DownloadFile{RemotePath: "/f.txt", LocalPath: target}.Execute(context.Background(), srv.Client(t))
	assert.Equal(t, remote.LocalStorageNotMoved, res.Code)
}

func TestShareOperations(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.WriteFile(t, "/report.pdf", []byte("pdf"))
	c := srv.Client(t)
	ctx := context.Background()

	created := remote.CreateShare{
		Path:           "/report.pdf",
		ShareType:      models.ShareTypePublicLink,
		Name:           "report",
		ExpirationDate: time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC).Unix(),
	}.Execute(ctx, c)
	require.True(t, created.IsSuccess(), created.Err)
	assert.Equal(t, models.ShareTypePublicLink, created.Data.ShareType)
	assert.Equal(t, "/report.pdf", created.Data.Path)
	assert.False(t, created.Data.IsFolder)
	assert.NotEmpty(t, created.Data.Token)
	assert.Equal(t, time.Date(2030, 1, 2, 0, 0, 0, 0, time.UTC).Unix(), created.Data.ExpirationDate)

	list := remote.GetShares{}.Execute(ctx, c)
	require.True(t, list.IsSuccess(), list.Err)
	require.Len(t, list.Data, 1)
	assert.Equal(t, created.Data.ID, list.Data[0].ID)

	missing := remote.GetShares{Path: "/nope"}.Execute(ctx, c)
	assert.Equal(t, remote.ShareNotFound, missing.Code)

	bad := remote.RemoveShare{}.Execute(ctx, c)
	assert.Equal(t, remote.ShareWrongParameter, bad.Code)

	perms := remote.CreateShare{Path: "/report.pdf", ShareType: models.ShareTypePublicLink, Permissions: 64}.Execute(ctx, c)
	assert.Equal(t, remote.ShareWrongParameter, perms.Code)

	relative := remote.CreateShare{Path: "report.pdf", ShareType: models.ShareTypePublicLink}.Execute(ctx, c)
	assert.Equal(t, remote.ShareWrongParameter, relative.Code)
}

func TestGetCapabilities(t *testing.T) {
	srv := testutil.NewServer(t)
	c := srv.Client(t)

	res := remote.GetCapabilities{}.Execute(context.Background(), c)
	require.True(t, res.IsSuccess(), res.Err)
	assert.Equal(t, c.Account().Name, res.Data.AccountName)
	assert.Equal(t, 10, res.Data.VersionMajor)
	assert.True(t, res.Data.FilesSharingAPIEnabled.IsTrue())
}

func TestGetSharees(t *testing.T) {
	srv := testutil.NewServer(t)
	srv.AddGroup("staff", "Staff")

	res := remote.GetSharees{Search: "staff", PerPage: 5}.Execute(context.Background(), srv.Client(t))
	require.True(t, res.IsSuccess(), res.Err)
	require.Len(t, res.Data, 1)
	assert.Equal(t, models.ShareTypeGroup, res.Data[0].ShareType)
	assert.Equal(t, "Staff", res.Data[0].Label)
}
