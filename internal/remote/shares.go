package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-playground/validator/v10"

	"github.com/ocdrive/ocdrive/pkg/models"
)

const (
	sharesPath = "apps/files_sharing/api/v1/shares"
	shareDate  = "2006-01-02 15:04:05"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func shareValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// GetShares lists the shares of Path, or every share of the user when Path
// is empty.
type GetShares struct {
	Path     string
	Reshares bool
	Subfiles bool
}

func (op GetShares) Execute(ctx context.Context, c *Client) *Result[[]models.RemoteShare] {
	q := url.Values{}
	if op.Path != "" {
		q.Set("path", cleanPath(op.Path))
	}
	if op.Reshares {
		q.Set("reshares", "true")
	}
	if op.Subfiles {
		q.Set("subfiles", "true")
	}
	return ocsCall[[]models.RemoteShare]{
		method: http.MethodGet,
		path:   sharesPath,
		query:  q,
		codes:  shareCodes,
		parse:  decodeShares,
	}.do(ctx, c)
}

// CreateShare shares Path. ShareWith is the user, group or address for every
// type except public links, where it is unused.
type CreateShare struct {
	Path           string           `validate:"required,startswith=/"`
	ShareType      models.ShareType `validate:"oneof=0 1 3 4 5 6"`
	ShareWith      string           `validate:"required_unless=ShareType 3"`
	Permissions    int              `validate:"min=0,max=31"`
	Name           string           `validate:"max=255"`
	Password       string
	ExpirationDate int64 `validate:"gte=0"`
	PublicUpload   bool
}

func (op CreateShare) Execute(ctx context.Context, c *Client) *Result[models.RemoteShare] {
	if err := shareValidator().Struct(op); err != nil {
		return NewFailure[models.RemoteShare](ShareWrongParameter, errors.Wrap(err, "share parameters"))
	}
	form := url.Values{}
	form.Set("path", cleanPath(op.Path))
	form.Set("shareType", strconv.Itoa(int(op.ShareType)))
	if op.ShareWith != "" {
		form.Set("shareWith", op.ShareWith)
	}
	if op.Permissions > 0 {
		form.Set("permissions", strconv.Itoa(op.Permissions))
	}
	if op.Name != "" {
		form.Set("name", op.Name)
	}
	if op.Password != "" {
		form.Set("password", op.Password)
	}
	if op.ExpirationDate > 0 {
		form.Set("expireDate", time.Unix(op.ExpirationDate, 0).UTC().Format(time.DateOnly))
	}
	if op.PublicUpload {
		form.Set("publicUpload", "true")
	}
	res := ocsCall[[]models.RemoteShare]{
		method: http.MethodPost,
		path:   sharesPath,
		form:   form,
		codes:  shareCodes,
		parse:  decodeShares,
	}.do(ctx, c)
	if !res.IsSuccess() {
		return Convert[models.RemoteShare](res)
	}
	if len(res.Data) == 0 {
		return NewFailure[models.RemoteShare](WrongServerResponse, errors.New("created share missing from response"))
	}
	return NewResult(res.Data[0])
}

type RemoveShare struct {
	ID int64
}

func (op RemoveShare) Execute(ctx context.Context, c *Client) *Result[struct{}] {
	if op.ID <= 0 {
		return NewFailure[struct{}](ShareWrongParameter, errors.Errorf("invalid share id %d", op.ID))
	}
	return ocsCall[struct{}]{
		method: http.MethodDelete,
		path:   sharesPath + "/" + strconv.FormatInt(op.ID, 10),
		codes:  shareCodes,
	}.do(ctx, c)
}

func decodeShares(d *jx.Decoder) ([]models.RemoteShare, error) {
	shares := []models.RemoteShare{}
	err := eachObject(d, func(d *jx.Decoder) error {
		s, err := decodeShare(d)
		if err != nil {
			return err
		}
		shares = append(shares, s)
		return nil
	})
	return shares, err
}

func decodeShare(d *jx.Decoder) (models.RemoteShare, error) {
	s := models.RemoteShare{ShareType: models.ShareTypeUnknown}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		var err error
		switch key {
		case "id":
			s.ID, err = readInt64(d)
		case "file_source":
			s.FileSource, err = readInt64(d)
		case "item_source":
			s.ItemSource, err = readInt64(d)
		case "share_type":
			var n int64
			n, err = readInt64(d)
			s.ShareType = models.ShareTypeFromValue(int(n))
		case "share_with":
			s.ShareWith, err = readString(d)
		case "share_with_displayname":
			s.SharedWithDisplayName, err = readString(d)
		case "path":
			s.Path, err = readString(d)
		case "permissions":
			var n int64
			n, err = readInt64(d)
			s.Permissions = int(n)
		case "stime":
			s.SharedDate, err = readInt64(d)
		case "expiration":
			var exp string
			exp, err = readString(d)
			if err == nil && exp != "" {
				t, perr := time.ParseInLocation(shareDate, exp, time.UTC)
				if perr != nil {
					return errors.Wrap(perr, "expiration")
				}
				s.ExpirationDate = t.Unix()
			}
		case "token":
			s.Token, err = readString(d)
		case "item_type":
			var t string
			t, err = readString(d)
			s.IsFolder = t == "folder"
		case "uid_owner":
			var owner string
			owner, err = readString(d)
			if n, perr := strconv.ParseInt(owner, 10, 64); perr == nil {
				s.UserID = n
			}
		case "name":
			s.Name, err = readString(d)
		case "url":
			s.ShareLink, err = readString(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err == nil && s.IsFolder && s.Path != "" && s.Path[len(s.Path)-1] != '/' {
		s.Path += "/"
	}
	return s, err
}
