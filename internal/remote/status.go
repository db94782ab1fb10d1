package remote

import (
	"context"
	"io"
	"net/http"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ocdrive/ocdrive/pkg/models"
)

// MinServerVersion is the oldest server release the client talks to.
var MinServerVersion = semver.MustParse("9.1.0")

// GetStatus reads status.php, which needs no authentication.
type GetStatus struct{}

func (GetStatus) Execute(ctx context.Context, c *Client) *Result[*models.ServerStatus] {
	req, err := c.NewRequest(ctx, http.MethodGet, statusPath, nil, nil)
	if err != nil {
		return FromError[*models.ServerStatus](err)
	}
	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[*models.ServerStatus](ctx, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return responseFailure[*models.ServerStatus](resp)
	}
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return requestFailure[*models.ServerStatus](ctx, err)
	}
	st, err := DecodeStatus(raw)
	if err != nil {
		return NewFailure[*models.ServerStatus](WrongServerResponse, err)
	}
	return CheckStatus(st)
}

// CheckStatus turns a decoded status into a result: an uninstalled,
// maintained or too old server is a failure carrying the status.
func CheckStatus(st *models.ServerStatus) *Result[*models.ServerStatus] {
	var res *Result[*models.ServerStatus]
	switch {
	case !st.Installed:
		res = NewFailure[*models.ServerStatus](InstanceNotConfigured, errors.New("server not installed"))
	case st.Maintenance:
		res = NewFailure[*models.ServerStatus](ServiceUnavailable, errors.New("server in maintenance mode"))
	default:
		v, err := ParseServerVersion(st.Version)
		if err != nil {
			res = NewFailure[*models.ServerStatus](WrongServerResponse, err)
		} else if v.LessThan(MinServerVersion) {
			res = NewFailure[*models.ServerStatus](BadOcVersion, errors.Errorf("server version %s not supported", st.Version))
		} else {
			return NewResult(st)
		}
	}
	res.Data = st
	return res
}

// ParseServerVersion reads the first three parts of a dotted version such as
// "10.8.0.4".
func ParseServerVersion(s string) (*semver.Version, error) {
	parts := strings.Split(strings.TrimSpace(s), ".")
	if len(parts) > 3 {
		parts = parts[:3]
	}
	v, err := semver.NewVersion(strings.Join(parts, "."))
	if err != nil {
		return nil, errors.Wrapf(err, "parse version %q", s)
	}
	return v, nil
}

func DecodeStatus(raw []byte) (*models.ServerStatus, error) {
	st := &models.ServerStatus{}
	seen := false
	err := jx.DecodeBytes(raw).Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "installed":
			seen = true
			st.Installed, err = readBool(d)
		case "maintenance":
			st.Maintenance, err = readBool(d)
		case "needsDbUpgrade":
			st.NeedsDBUpgrade, err = readBool(d)
		case "version":
			st.Version, err = readString(d)
		case "versionstring":
			st.VersionString, err = readString(d)
		case "edition":
			st.Edition, err = readString(d)
		case "productname":
			st.ProductName, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		return nil, errors.Wrap(err, "decode status")
	}
	if !seen {
		return nil, errors.New("status without installed flag")
	}
	return st, nil
}
