package remote

import (
	"context"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/go-faster/errors"
	"go.uber.org/zap"

	"github.com/ocdrive/ocdrive/internal/checksum"
)

// RemoteFile is a WebDAV resource as the server describes it.
type RemoteFile struct {
	RemotePath string
	MimeType   string
	Length     int64
	Etag       string
	RemoteID   string
	ModTime    time.Time
	IsFolder   bool
}

const forbiddenNameChars = `\/:*?"<>|`

// ValidName reports whether name can be used as a single path segment.
func ValidName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	for _, r := range name {
		if r < 0x20 || strings.ContainsRune(forbiddenNameChars, r) {
			return false
		}
	}
	return true
}

func cleanPath(p string) string {
	return path.Clean("/" + p)
}

func isDescendant(parent, child string) bool {
	parent, child = cleanPath(parent), cleanPath(child)
	if parent == "/" {
		return child != "/"
	}
	return strings.HasPrefix(child, parent+"/")
}

func toRemoteFile(dir string, fi os.FileInfo) RemoteFile {
	f := RemoteFile{
		RemotePath: path.Join(cleanPath(dir), fi.Name()),
		Length:     fi.Size(),
		ModTime:    fi.ModTime(),
		IsFolder:   fi.IsDir(),
	}
	if e, ok := fi.(interface{ ETag() string }); ok {
		f.Etag = strings.Trim(e.ETag(), `"`)
	}
	if ct, ok := fi.(interface{ ContentType() string }); ok {
		f.MimeType = ct.ContentType()
	}
	if f.IsFolder {
		f.RemotePath += "/"
		f.MimeType = "DIR"
	} else if f.MimeType == "" {
		f.MimeType = "application/octet-stream"
	}
	return f
}

// ReadFolder lists the direct children of a folder.
type ReadFolder struct {
	Path string
}

func (op ReadFolder) Execute(ctx context.Context, c *Client) *Result[[]RemoteFile] {
	infos, err := c.DAV(ctx).ReadDir(cleanPath(op.Path))
	if err != nil {
		return davFailure[[]RemoteFile](ctx, err)
	}
	files := make([]RemoteFile, 0, len(infos))
	for _, fi := range infos {
		files = append(files, toRemoteFile(op.Path, fi))
	}
	return NewResult(files)
}

// CheckPathExistence succeeds when the path exists. With SuccessIfAbsent the
// outcome is inverted into Data and a missing path is not a failure.
type CheckPathExistence struct {
	Path            string
	SuccessIfAbsent bool
}

func (op CheckPathExistence) Execute(ctx context.Context, c *Client) *Result[bool] {
	_, err := c.DAV(ctx).Stat(cleanPath(op.Path))
	if err == nil {
		return NewResult(true)
	}
	if status, ok := davStatus(err); ok && status == http.StatusNotFound && op.SuccessIfAbsent {
		return NewResult(false)
	}
	return davFailure[bool](ctx, err)
}

type CreateFolder struct {
	Path          string
	CreateParents bool
}

func (op CreateFolder) Execute(ctx context.Context, c *Client) *Result[struct{}] {
	p := cleanPath(op.Path)
	if !ValidName(path.Base(p)) {
		return NewFailure[struct{}](InvalidCharacterInName, errors.Errorf("invalid folder name %q", path.Base(p)))
	}
	res := mkcol(ctx, c, p)
	if res.Code == Conflict && op.CreateParents {
		if err := c.DAV(ctx).MkdirAll(path.Dir(p), 0o755); err != nil {
			return davFailure[struct{}](ctx, err)
		}
		res = mkcol(ctx, c, p)
	}
	return res
}

// mkcol is issued directly: an existing collection must surface as 405.
func mkcol(ctx context.Context, c *Client, p string) *Result[struct{}] {
	req, err := http.NewRequestWithContext(ctx, "MKCOL", c.DavURL(p).String(), nil)
	if err != nil {
		return FromError[struct{}](err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[struct{}](ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return responseFailure[struct{}](resp)
	}
	return NewResult(struct{}{})
}

// MoveFile renames Source to Target. Moving onto itself is a no-op.
type MoveFile struct {
	Source    string
	Target    string
	Overwrite bool
}

func (op MoveFile) Execute(ctx context.Context, c *Client) *Result[struct{}] {
	return transfer(ctx, c, op.Source, op.Target, op.Overwrite, false)
}

type CopyFile struct {
	Source    string
	Target    string
	Overwrite bool
}

func (op CopyFile) Execute(ctx context.Context, c *Client) *Result[struct{}] {
	return transfer(ctx, c, op.Source, op.Target, op.Overwrite, true)
}

func transfer(ctx context.Context, c *Client, source, target string, overwrite, copying bool) *Result[struct{}] {
	src, dst := cleanPath(source), cleanPath(target)
	if src == dst {
		return NewResult(struct{}{})
	}
	if !ValidName(path.Base(dst)) {
		return NewFailure[struct{}](InvalidCharacterInName, errors.Errorf("invalid target name %q", path.Base(dst)))
	}
	if isDescendant(src, dst) {
		code := InvalidMoveIntoDescendant
		if copying {
			code = InvalidCopyIntoDescendant
		}
		return NewFailure[struct{}](code, errors.Errorf("%s is inside %s", dst, src))
	}

	method := "MOVE"
	if copying {
		method = "COPY"
	}
	req, err := http.NewRequestWithContext(ctx, method, c.DavURL(src).String(), nil)
	if err != nil {
		return FromError[struct{}](err)
	}
	req.Header.Set("Destination", c.DavURL(dst).String())
	req.Header.Set("Overwrite", "F")
	if overwrite {
		req.Header.Set("Overwrite", "T")
	}
	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[struct{}](ctx, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusCreated, http.StatusNoContent:
		return NewResult(struct{}{})
	case http.StatusMultiStatus:
		code := PartialMoveDone
		if copying {
			code = PartialCopyDone
		}
		res := responseFailure[struct{}](resp)
		res.Code, res.Success = code, false
		res.Err = errors.Errorf("%s %s: some members failed", method, src)
		return res
	}
	return responseFailure[struct{}](resp)
}

// RemoveFile deletes a remote path and, when LocalPath is set, its local copy.
type RemoveFile struct {
	Path      string
	LocalPath string
}

func (op RemoveFile) Execute(ctx context.Context, c *Client) *Result[struct{}] {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.DavURL(cleanPath(op.Path)).String(), nil)
	if err != nil {
		return FromError[struct{}](err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[struct{}](ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		return responseFailure[struct{}](resp)
	}
	if op.LocalPath != "" {
		if err := os.RemoveAll(op.LocalPath); err != nil {
			return NewFailure[struct{}](LocalStorageNotRemoved, err)
		}
	}
	return NewResult(struct{}{})
}

// UploadFile puts a local file at RemotePath. A non-empty IfMatch makes the
// upload conditional on the remote etag.
type UploadFile struct {
	LocalPath  string
	RemotePath string
	IfMatch    string
}

func (op UploadFile) Execute(ctx context.Context, c *Client) *Result[*RemoteFile] {
	f, err := os.Open(op.LocalPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewFailure[*RemoteFile](LocalFileNotFound, err)
		}
		return FromError[*RemoteFile](err)
	}
	defer f.Close()
	st, err := f.Stat()
	if err != nil {
		return FromError[*RemoteFile](err)
	}
	if st.IsDir() {
		return NewFailure[*RemoteFile](LocalFileNotFound, errors.Errorf("%s is a directory", op.LocalPath))
	}

	sum, err := checksum.FromReader(f)
	if err != nil {
		return FromError[*RemoteFile](err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return FromError[*RemoteFile](err)
	}

	remotePath := cleanPath(op.RemotePath)
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.DavURL(remotePath).String(), f)
	if err != nil {
		return FromError[*RemoteFile](err)
	}
	req.ContentLength = st.Size()
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("OC-Mtime", strconv.FormatInt(st.ModTime().Unix(), 10))
	req.Header.Set(checksum.Header, sum)
	if op.IfMatch != "" {
		req.Header.Set("If-Match", `"`+strings.Trim(op.IfMatch, `"`)+`"`)
	}

	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[*RemoteFile](ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusPreconditionFailed && op.IfMatch != "" {
		res := responseFailure[*RemoteFile](resp)
		res.Code, res.Success = SyncConflict, false
		return res
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return responseFailure[*RemoteFile](resp)
	}
	c.logger.Debug("upload.done", zap.String("path", remotePath), zap.Int64("size", st.Size()))
	return NewResult(&RemoteFile{
		RemotePath: remotePath,
		MimeType:   "application/octet-stream",
		Length:     st.Size(),
		Etag:       strings.Trim(resp.Header.Get("ETag"), `"`),
		RemoteID:   resp.Header.Get("OC-FileId"),
		ModTime:    st.ModTime(),
	})
}

// DownloadFile writes a remote file to LocalPath through a temporary file in
// the same directory. Data is the number of bytes written.
type DownloadFile struct {
	RemotePath string
	LocalPath  string
}

func validLocalName(p string) bool {
	if p == "" || strings.ContainsRune(p, 0) || strings.HasSuffix(p, string(filepath.Separator)) {
		return false
	}
	base := filepath.Base(p)
	return base != "." && base != ".." && base != string(filepath.Separator)
}

type recordingWriter struct {
	w   io.Writer
	err error
}

func (rw *recordingWriter) Write(p []byte) (int, error) {
	n, err := rw.w.Write(p)
	if err != nil {
		rw.err = err
	}
	return n, err
}

func localWriteFailure(err error) *Result[int64] {
	if errors.Is(err, syscall.ENOSPC) {
		return NewFailure[int64](LocalStorageFull, err)
	}
	return NewFailure[int64](LocalStorageNotCopied, err)
}

func (op DownloadFile) Execute(ctx context.Context, c *Client) *Result[int64] {
	if !validLocalName(op.LocalPath) {
		return NewFailure[int64](InvalidLocalFileName, errors.Errorf("invalid local file name %q", op.LocalPath))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.DavURL(cleanPath(op.RemotePath)).String(), nil)
	if err != nil {
		return FromError[int64](err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[int64](ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseFailure[int64](resp)
	}

	dir := filepath.Dir(op.LocalPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return localWriteFailure(err)
	}
	tmp, err := os.CreateTemp(dir, ".ocdrive-*.part")
	if err != nil {
		return localWriteFailure(err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	rw := &recordingWriter{w: tmp}
	n, err := io.Copy(rw, resp.Body)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		rw.err, err = cerr, cerr
	}
	if err != nil {
		if rw.err != nil {
			return localWriteFailure(rw.err)
		}
		return requestFailure[int64](ctx, err)
	}
	if err := os.Rename(tmpName, op.LocalPath); err != nil {
		return NewFailure[int64](LocalStorageNotMoved, err)
	}
	if mt, err := http.ParseTime(resp.Header.Get("Last-Modified")); err == nil {
		_ = os.Chtimes(op.LocalPath, mt, mt)
	}
	return NewResult(n)
}
