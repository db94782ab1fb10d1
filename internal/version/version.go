package version

import (
	"runtime"
)

var (
	Version   = "development"
	CommitSHA = "unknown"
)

type Info struct {
	Version   string
	CommitSHA string
	GoVersion string
	Os        string
	Arch      string
}

func GetVersionInfo() *Info {
	return &Info{
		Version:   Version,
		CommitSHA: CommitSHA,
		GoVersion: runtime.Version(),
		Os:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// UserAgent is the default User-Agent of the remote client.
func UserAgent() string {
	return "ocdrive/" + Version + " (" + runtime.GOOS + "; " + runtime.GOARCH + ")"
}
