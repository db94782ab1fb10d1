package models

import "strings"

type AvailableOfflineStatus int

const (
	NotAvailableOffline AvailableOfflineStatus = iota
	AvailableOffline
	AvailableOfflineParent
)

const MimeTypeDir = "DIR"

type File struct {
	ID                     int64                  `msgpack:"id"`
	RemotePath             string                 `msgpack:"remote_path"`
	FileName               string                 `msgpack:"file_name"`
	MimeType               string                 `msgpack:"mime_type"`
	Length                 int64                  `msgpack:"length"`
	Etag                   string                 `msgpack:"etag"`
	RemoteID               string                 `msgpack:"remote_id"`
	PrivateLink            string                 `msgpack:"private_link"`
	ModificationTimestamp  int64                  `msgpack:"modification_timestamp"`
	AvailableOfflineStatus AvailableOfflineStatus `msgpack:"available_offline_status"`
}

// NewFile returns a file rooted at remotePath. Folder paths end with a slash.
func NewFile(remotePath string) *File {
	f := &File{RemotePath: remotePath}
	name := strings.TrimSuffix(remotePath, "/")
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	f.FileName = name
	if strings.HasSuffix(remotePath, "/") {
		f.MimeType = MimeTypeDir
	}
	return f
}

func (f *File) IsFolder() bool {
	return f.MimeType == MimeTypeDir
}

func (f *File) IsAvailableOffline() bool {
	return f.AvailableOfflineStatus != NotAvailableOffline
}

type ServerStatus struct {
	Installed      bool
	Maintenance    bool
	NeedsDBUpgrade bool
	Version        string
	VersionString  string
	Edition        string
	ProductName    string
}
