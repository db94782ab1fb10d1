package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-faster/jx"
	"github.com/google/uuid"
	"go.uber.org/zap/zapcore"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/net/webdav"

	"github.com/ocdrive/ocdrive/internal/checksum"
	"github.com/ocdrive/ocdrive/internal/chizap"
	"github.com/ocdrive/ocdrive/internal/config"
	"github.com/ocdrive/ocdrive/internal/logging"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

const (
	ServerUser     = "admin"
	ServerPassword = "admin"
)

type storedShare struct {
	models.RemoteShare
	owner        string
	passwordHash []byte
}

// Server is an in-process ownCloud: WebDAV files over a memory file system,
// the OCS sharing and capabilities API, and status.php.
type Server struct {
	*httptest.Server

	FS webdav.FileSystem

	mu           sync.Mutex
	status       models.ServerStatus
	capabilities *models.RemoteCapability
	users        map[string]string
	groups       map[string]string
	shares       map[int64]*storedShare
	fileIDs      map[string]int64
	checksums    map[string]string
	nextID       int64
	denySharing  bool
}

func NewServer(tb testing.TB) *Server {
	tb.Helper()
	s := &Server{
		FS: webdav.NewMemFS(),
		status: models.ServerStatus{
			Installed:     true,
			Version:       "10.8.0.4",
			VersionString: "10.8.0",
			Edition:       "Community",
			ProductName:   "ownCloud",
		},
		capabilities: defaultServerCapabilities(),
		users:        map[string]string{ServerUser: "Administrator"},
		groups:       map[string]string{},
		shares:       map[int64]*storedShare{},
		fileIDs:      map[string]int64{},
		checksums:    map[string]string{},
		nextID:       1,
	}

	dav := &webdav.Handler{
		Prefix:     "/remote.php/dav/files/" + ServerUser,
		FileSystem: s.FS,
		LockSystem: webdav.NewMemLS(),
	}

	r := chi.NewRouter()
	r.Get("/status.php", s.handleStatus)
	r.Route("/ocs/v2.php", func(r chi.Router) {
		r.Use(s.authenticate)
		r.Get("/cloud/capabilities", s.handleCapabilities)
		r.Route("/apps/files_sharing/api/v1", func(r chi.Router) {
			r.Get("/shares", s.handleListShares)
			r.Post("/shares", s.handleCreateShare)
			r.Delete("/shares/{id}", s.handleDeleteShare)
			r.Get("/sharees", s.handleSharees)
		})
	})

	mux := http.NewServeMux()
	mux.Handle("/remote.php/dav/", s.authenticate(s.preconditions(s.verifyChecksum(dav))))
	mux.Handle("/", r)

	logRequests := chizap.Middleware(logging.Component("testserver"), chizap.Options{Level: zapcore.DebugLevel})
	s.Server = httptest.NewServer(logRequests(mux))
	tb.Cleanup(s.Close)
	return s
}

func defaultServerCapabilities() *models.RemoteCapability {
	c := RemoteCapability()
	c.VersionMajor, c.VersionMinor, c.VersionMicro = 10, 8, 0
	c.VersionString, c.VersionEdition = "10.8.0", "Community"
	c.CorePollInterval = 60
	c.FilesSharingAPIEnabled = models.CapabilityTrue
	c.FilesSharingSearchMinLength = 2
	c.FilesSharingResharing = models.CapabilityTrue
	c.FilesBigFileChunking = models.CapabilityTrue
	c.FilesVersioning = models.CapabilityTrue
	return c
}

// Account returns an account for the server's admin user.
func (s *Server) Account() *models.Account {
	return &models.Account{
		Name:      models.AccountName(ServerUser, s.URL),
		Type:      models.AccountType,
		ServerURL: s.URL,
		Credentials: models.Credentials{
			Kind:     models.CredentialsBasic,
			Username: ServerUser,
			Secret:   ServerPassword,
		},
	}
}

// RemoteConfig is a client configuration suited to a local server.
func RemoteConfig() *config.RemoteConfig {
	return &config.RemoteConfig{
		Timeout:        5 * time.Second,
		ConnectTimeout: 2 * time.Second,
		UserAgent:      "ocdrive-test",
		Concurrency:    4,
	}
}

func (s *Server) Client(tb testing.TB) *remote.Client {
	tb.Helper()
	return s.ClientFor(tb, s.Account())
}

func (s *Server) ClientFor(tb testing.TB, account *models.Account) *remote.Client {
	tb.Helper()
	c, err := remote.NewClient(account, RemoteConfig())
	if err != nil {
		tb.Fatalf("new client: %v", err)
	}
	return c
}

func (s *Server) SetStatus(st models.ServerStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = st
}

func (s *Server) SetCapabilities(c *models.RemoteCapability) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.capabilities = c
}

func (s *Server) AddUser(name, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[name] = displayName
}

func (s *Server) AddGroup(name, displayName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.groups[name] = displayName
}

// DenySharing makes share creation fail as if the owner lacked the share
// permission.
func (s *Server) DenySharing(deny bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.denySharing = deny
}

// Mkdir creates a folder and its parents.
func (s *Server) Mkdir(tb testing.TB, p string) {
	tb.Helper()
	ctx := context.Background()
	cur := ""
	for _, part := range strings.Split(strings.Trim(p, "/"), "/") {
		if part == "" {
			continue
		}
		cur += "/" + part
		if err := s.FS.Mkdir(ctx, cur, 0o755); err != nil && !os.IsExist(err) {
			tb.Fatalf("mkdir %s: %v", cur, err)
		}
	}
}

// WriteFile stores content at p, creating parent folders.
func (s *Server) WriteFile(tb testing.TB, p string, content []byte) {
	tb.Helper()
	s.Mkdir(tb, path.Dir(p))
	f, err := s.FS.OpenFile(context.Background(), p, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		tb.Fatalf("open %s: %v", p, err)
	}
	defer f.Close()
	if _, err := f.Write(content); err != nil {
		tb.Fatalf("write %s: %v", p, err)
	}
}

func (s *Server) ReadFile(tb testing.TB, p string) []byte {
	tb.Helper()
	f, err := s.FS.OpenFile(context.Background(), p, os.O_RDONLY, 0)
	if err != nil {
		tb.Fatalf("open %s: %v", p, err)
	}
	defer f.Close()
	buf, err := io.ReadAll(f)
	if err != nil {
		tb.Fatalf("read %s: %v", p, err)
	}
	return buf
}

func (s *Server) Exists(p string) bool {
	_, err := s.FS.Stat(context.Background(), p)
	return err == nil
}

// CheckSharePassword reports whether password opens the public link id.
func (s *Server) CheckSharePassword(id int64, password string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.shares[id]
	if !ok || sh.passwordHash == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword(sh.passwordHash, []byte(password)) == nil
}

// ETag is the entity tag the server reports for p, without quotes.
func (s *Server) ETag(tb testing.TB, p string) string {
	tb.Helper()
	fi, err := s.FS.Stat(context.Background(), p)
	if err != nil {
		tb.Fatalf("stat %s: %v", p, err)
	}
	return etagOf(fi)
}

func etagOf(fi os.FileInfo) string {
	return fmt.Sprintf("%x%x", fi.ModTime().UnixNano(), fi.Size())
}

func davPath(p string) string {
	return path.Clean("/" + strings.TrimPrefix(p, "/remote.php/dav/files/"+ServerUser))
}

// preconditions answers the way ownCloud does where the memory handler
// differs: If-Match on uploads, and a missing destination parent on MOVE or
// COPY is a conflict.
func (s *Server) preconditions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		switch r.Method {
		case http.MethodPut:
			match := strings.Trim(r.Header.Get("If-Match"), `"`)
			if match == "" {
				break
			}
			fi, err := s.FS.Stat(ctx, davPath(r.URL.Path))
			if err != nil || (match != "*" && match != etagOf(fi)) {
				writeSabreError(w, http.StatusPreconditionFailed, "PreconditionFailed",
					"An If-Match header was specified, but none of the specified ETags matched.")
				return
			}
		case "MOVE", "COPY":
			u, err := url.Parse(r.Header.Get("Destination"))
			if err != nil {
				break
			}
			if _, err := s.FS.Stat(ctx, path.Dir(davPath(u.Path))); err != nil {
				writeSabreError(w, http.StatusConflict, "Conflict", "The destination node is not found")
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Checksum returns the OC-Checksum the last upload to p carried.
func (s *Server) Checksum(p string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.checksums[path.Clean(p)]
}

// verifyChecksum rejects uploads whose body does not match OC-Checksum.
func (s *Server) verifyChecksum(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sum := r.Header.Get(checksum.Header)
		if r.Method != http.MethodPut || sum == "" {
			next.ServeHTTP(w, r)
			return
		}
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if !checksum.Match(sum, data) {
			writeSabreError(w, http.StatusBadRequest, "BadRequest",
				"The computed checksum does not match the one received from the client.")
			return
		}
		p := davPath(r.URL.Path)
		s.mu.Lock()
		s.checksums[p] = sum
		s.mu.Unlock()
		r.Body = io.NopCloser(bytes.NewReader(data))
		next.ServeHTTP(w, r)
	})
}

func writeSabreError(w http.ResponseWriter, status int, exception, message string) {
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`<?xml version="1.0" encoding="utf-8"?>` +
		`<d:error xmlns:d="DAV:" xmlns:s="http://sabredav.org/ns">` +
		`<s:exception>Sabre\DAV\Exception\` + exception + `</s:exception>` +
		`<s:message>` + message + `</s:message></d:error>`))
}

func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != ServerUser || pass != ServerPassword {
			w.Header().Set("WWW-Authenticate", `Basic realm="ownCloud"`)
			writeSabreError(w, http.StatusUnauthorized, "NotAuthenticated", "Username or password was incorrect")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	st := s.status
	s.mu.Unlock()

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("installed")
	e.Bool(st.Installed)
	e.FieldStart("maintenance")
	e.Bool(st.Maintenance)
	e.FieldStart("needsDbUpgrade")
	e.Bool(st.NeedsDBUpgrade)
	e.FieldStart("version")
	e.Str(st.Version)
	e.FieldStart("versionstring")
	e.Str(st.VersionString)
	e.FieldStart("edition")
	e.Str(st.Edition)
	e.FieldStart("productname")
	e.Str(st.ProductName)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, e.Bytes())
}

func writeJSON(w http.ResponseWriter, status int, body []byte) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// writeOCS writes a v2 envelope, where the HTTP status follows the OCS code.
func writeOCS(w http.ResponseWriter, code int, message string, data func(e *jx.Encoder)) {
	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("ocs")
	e.ObjStart()
	e.FieldStart("meta")
	e.ObjStart()
	e.FieldStart("status")
	if code == http.StatusOK {
		e.Str("ok")
	} else {
		e.Str("failure")
	}
	e.FieldStart("statuscode")
	e.Int(code)
	e.FieldStart("message")
	e.Str(message)
	e.ObjEnd()
	e.FieldStart("data")
	if data == nil {
		e.ArrStart()
		e.ArrEnd()
	} else {
		data(&e)
	}
	e.ObjEnd()
	e.ObjEnd()
	writeJSON(w, code, e.Bytes())
}

func encodeCapBool(e *jx.Encoder, name string, v models.CapabilityBoolean) {
	if v.IsUnknown() {
		return
	}
	e.FieldStart(name)
	e.Bool(v.IsTrue())
}

// EncodeCapabilities writes the data member of a capabilities response.
// Unknown flags are left out.
func EncodeCapabilities(e *jx.Encoder, c *models.RemoteCapability) {
	e.ObjStart()
	e.FieldStart("version")
	e.ObjStart()
	e.FieldStart("major")
	e.Int(c.VersionMajor)
	e.FieldStart("minor")
	e.Int(c.VersionMinor)
	e.FieldStart("micro")
	e.Int(c.VersionMicro)
	e.FieldStart("string")
	e.Str(c.VersionString)
	e.FieldStart("edition")
	e.Str(c.VersionEdition)
	e.ObjEnd()

	e.FieldStart("capabilities")
	e.ObjStart()
	e.FieldStart("core")
	e.ObjStart()
	e.FieldStart("pollinterval")
	e.Int(c.CorePollInterval)
	e.ObjEnd()

	e.FieldStart("files_sharing")
	e.ObjStart()
	encodeCapBool(e, "api_enabled", c.FilesSharingAPIEnabled)
	e.FieldStart("search_min_length")
	e.Int(c.FilesSharingSearchMinLength)
	e.FieldStart("public")
	e.ObjStart()
	encodeCapBool(e, "enabled", c.FilesSharingPublicEnabled)
	e.FieldStart("password")
	e.ObjStart()
	encodeCapBool(e, "enforced", c.FilesSharingPublicPasswordEnforced)
	e.FieldStart("enforced_for")
	e.ObjStart()
	encodeCapBool(e, "read_only", c.FilesSharingPublicPasswordEnforcedRO)
	encodeCapBool(e, "read_write", c.FilesSharingPublicPasswordEnforcedRW)
	encodeCapBool(e, "upload_only", c.FilesSharingPublicPasswordEnforcedUO)
	e.ObjEnd()
	e.ObjEnd()
	e.FieldStart("expire_date")
	e.ObjStart()
	encodeCapBool(e, "enabled", c.FilesSharingPublicExpireDateEnabled)
	e.FieldStart("days")
	e.Int(c.FilesSharingPublicExpireDateDays)
	encodeCapBool(e, "enforced", c.FilesSharingPublicExpireDateEnforced)
	e.ObjEnd()
	encodeCapBool(e, "send_mail", c.FilesSharingPublicSendMail)
	encodeCapBool(e, "upload", c.FilesSharingPublicUpload)
	encodeCapBool(e, "multiple", c.FilesSharingPublicMultiple)
	encodeCapBool(e, "supports_upload_only", c.FilesSharingPublicSupportsUploadOnly)
	e.ObjEnd()
	e.FieldStart("user")
	e.ObjStart()
	encodeCapBool(e, "send_mail", c.FilesSharingUserSendMail)
	e.ObjEnd()
	encodeCapBool(e, "resharing", c.FilesSharingResharing)
	e.FieldStart("federation")
	e.ObjStart()
	encodeCapBool(e, "outgoing", c.FilesSharingFederationOutgoing)
	encodeCapBool(e, "incoming", c.FilesSharingFederationIncoming)
	e.ObjEnd()
	e.ObjEnd()

	e.FieldStart("files")
	e.ObjStart()
	encodeCapBool(e, "bigfilechunking", c.FilesBigFileChunking)
	encodeCapBool(e, "undelete", c.FilesUndelete)
	encodeCapBool(e, "versioning", c.FilesVersioning)
	e.ObjEnd()
	e.ObjEnd()
	e.ObjEnd()
}

func (s *Server) handleCapabilities(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	c := *s.capabilities
	s.mu.Unlock()
	writeOCS(w, http.StatusOK, "OK", func(e *jx.Encoder) { EncodeCapabilities(e, &c) })
}

func (s *Server) fileID(p string) int64 {
	if id, ok := s.fileIDs[p]; ok {
		return id
	}
	id := int64(len(s.fileIDs) + 100)
	s.fileIDs[p] = id
	return id
}

func encodeShare(e *jx.Encoder, sh *storedShare) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(strconv.FormatInt(sh.ID, 10))
	e.FieldStart("share_type")
	e.Int(int(sh.ShareType))
	e.FieldStart("uid_owner")
	e.Str(sh.owner)
	e.FieldStart("permissions")
	e.Int(sh.Permissions)
	e.FieldStart("stime")
	e.Int64(sh.SharedDate)
	e.FieldStart("expiration")
	if sh.ExpirationDate > 0 {
		e.Str(time.Unix(sh.ExpirationDate, 0).UTC().Format("2006-01-02 15:04:05"))
	} else {
		e.Null()
	}
	e.FieldStart("token")
	if sh.Token != "" {
		e.Str(sh.Token)
	} else {
		e.Null()
	}
	e.FieldStart("path")
	e.Str(strings.TrimSuffix(sh.Path, "/"))
	e.FieldStart("item_type")
	if sh.IsFolder {
		e.Str("folder")
	} else {
		e.Str("file")
	}
	e.FieldStart("item_source")
	e.Str(strconv.FormatInt(sh.ItemSource, 10))
	e.FieldStart("file_source")
	e.Int64(sh.FileSource)
	e.FieldStart("share_with")
	e.Str(sh.ShareWith)
	e.FieldStart("share_with_displayname")
	e.Str(sh.SharedWithDisplayName)
	e.FieldStart("name")
	e.Str(sh.Name)
	if sh.ShareLink != "" {
		e.FieldStart("url")
		e.Str(sh.ShareLink)
	}
	e.ObjEnd()
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	p := r.URL.Query().Get("path")
	if p != "" && !s.Exists(p) {
		writeOCS(w, http.StatusNotFound, "Wrong path, file/folder doesn't exist", nil)
		return
	}

	s.mu.Lock()
	var list []*storedShare
	for _, sh := range s.shares {
		if p == "" || strings.TrimSuffix(sh.Path, "/") == path.Clean(p) {
			list = append(list, sh)
		}
	}
	s.mu.Unlock()
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })

	writeOCS(w, http.StatusOK, "OK", func(e *jx.Encoder) {
		e.ArrStart()
		for _, sh := range list {
			encodeShare(e, sh)
		}
		e.ArrEnd()
	})
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeOCS(w, http.StatusBadRequest, "Invalid request", nil)
		return
	}
	p := path.Clean("/" + r.PostForm.Get("path"))
	info, err := s.FS.Stat(r.Context(), p)
	if err != nil {
		writeOCS(w, http.StatusNotFound, "Wrong path, file/folder doesn't exist", nil)
		return
	}
	shareType, err := strconv.Atoi(r.PostForm.Get("shareType"))
	if err != nil {
		writeOCS(w, http.StatusBadRequest, "Unknown share type", nil)
		return
	}
	perms := models.PermissionRead
	if v := r.PostForm.Get("permissions"); v != "" {
		if perms, err = strconv.Atoi(v); err != nil || perms < 1 || perms > models.PermissionAll {
			writeOCS(w, http.StatusBadRequest, "invalid permissions", nil)
			return
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.denySharing {
		writeOCS(w, http.StatusForbidden, "Cannot increase permissions", nil)
		return
	}

	sh := &storedShare{owner: ServerUser}
	sh.ShareType = models.ShareTypeFromValue(shareType)
	sh.Path = p
	sh.IsFolder = info.IsDir()
	sh.Permissions = perms
	sh.SharedDate = time.Now().Unix()
	sh.FileSource = s.fileID(p)
	sh.ItemSource = sh.FileSource
	sh.Name = r.PostForm.Get("name")

	switch sh.ShareType {
	case models.ShareTypeUser:
		with := r.PostForm.Get("shareWith")
		display, ok := s.users[with]
		if !ok {
			writeOCS(w, http.StatusNotFound, "Sharing "+p+" failed, could not find "+with, nil)
			return
		}
		sh.ShareWith, sh.SharedWithDisplayName = with, display
	case models.ShareTypeGroup:
		with := r.PostForm.Get("shareWith")
		display, ok := s.groups[with]
		if !ok {
			writeOCS(w, http.StatusNotFound, "Sharing "+p+" failed, could not find "+with, nil)
			return
		}
		sh.ShareWith, sh.SharedWithDisplayName = with, display
	case models.ShareTypePublicLink:
		sh.Token = strings.ReplaceAll(uuid.NewString(), "-", "")[:15]
		sh.ShareLink = s.URL + "/s/" + sh.Token
		if pw := r.PostForm.Get("password"); pw != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
			if err != nil {
				writeOCS(w, http.StatusInternalServerError, err.Error(), nil)
				return
			}
			sh.passwordHash = hash
			sh.ShareWith = string(hash)
		}
		if v := r.PostForm.Get("expireDate"); v != "" {
			t, err := time.Parse(time.DateOnly, v)
			if err != nil {
				writeOCS(w, http.StatusBadRequest, "Invalid date, date format must be YYYY-MM-DD", nil)
				return
			}
			sh.ExpirationDate = t.Unix()
		}
	default:
		writeOCS(w, http.StatusBadRequest, "Unknown share type", nil)
		return
	}

	sh.ID = s.nextID
	s.nextID++
	s.shares[sh.ID] = sh
	writeOCS(w, http.StatusOK, "OK", func(e *jx.Encoder) { encodeShare(e, sh) })
}

func (s *Server) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.shares[id]; err != nil || !ok {
		writeOCS(w, http.StatusNotFound, "Wrong share ID, share doesn't exist", nil)
		return
	}
	delete(s.shares, id)
	writeOCS(w, http.StatusOK, "OK", nil)
}

type shareeEntry struct {
	label, with string
	shareType   models.ShareType
}

func encodeSharees(e *jx.Encoder, list []shareeEntry) {
	e.ArrStart()
	for _, sh := range list {
		e.ObjStart()
		e.FieldStart("label")
		e.Str(sh.label)
		e.FieldStart("value")
		e.ObjStart()
		e.FieldStart("shareType")
		e.Int(int(sh.shareType))
		e.FieldStart("shareWith")
		e.Str(sh.with)
		e.ObjEnd()
		e.ObjEnd()
	}
	e.ArrEnd()
}

func matchSharees(all map[string]string, search string, t models.ShareType) (exact, partial []shareeEntry) {
	search = strings.ToLower(search)
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		display := all[name]
		entry := shareeEntry{label: display, with: name, shareType: t}
		switch {
		case strings.ToLower(name) == search || strings.ToLower(display) == search:
			exact = append(exact, entry)
		case strings.Contains(strings.ToLower(name), search) || strings.Contains(strings.ToLower(display), search):
			partial = append(partial, entry)
		}
	}
	return exact, partial
}

func (s *Server) handleSharees(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	s.mu.Lock()
	exactUsers, users := matchSharees(s.users, search, models.ShareTypeUser)
	exactGroups, groups := matchSharees(s.groups, search, models.ShareTypeGroup)
	s.mu.Unlock()

	if n, err := strconv.Atoi(r.URL.Query().Get("perPage")); err == nil && n > 0 {
		if len(users) > n {
			users = users[:n]
		}
		if len(groups) > n {
			groups = groups[:n]
		}
	}

	writeOCS(w, http.StatusOK, "OK", func(e *jx.Encoder) {
		e.ObjStart()
		e.FieldStart("exact")
		e.ObjStart()
		e.FieldStart("users")
		encodeSharees(e, exactUsers)
		e.FieldStart("groups")
		encodeSharees(e, exactGroups)
		e.FieldStart("remotes")
		encodeSharees(e, nil)
		e.ObjEnd()
		e.FieldStart("users")
		encodeSharees(e, users)
		e.FieldStart("groups")
		encodeSharees(e, groups)
		e.FieldStart("remotes")
		encodeSharees(e, nil)
		e.ObjEnd()
	})
}
