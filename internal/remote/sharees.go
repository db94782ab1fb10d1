package remote

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/jx"

	"github.com/ocdrive/ocdrive/pkg/models"
)

const shareesPath = "apps/files_sharing/api/v1/sharees"

// GetSharees searches users, groups and remotes a file can be shared with.
// Exact matches come first.
type GetSharees struct {
	Search  string
	Page    int
	PerPage int
}

func (op GetSharees) Execute(ctx context.Context, c *Client) *Result[[]models.Sharee] {
	q := url.Values{}
	q.Set("search", op.Search)
	q.Set("itemType", "file")
	q.Set("page", strconv.Itoa(max(op.Page, 1)))
	if op.PerPage > 0 {
		q.Set("perPage", strconv.Itoa(op.PerPage))
	}
	return ocsCall[[]models.Sharee]{
		method: http.MethodGet,
		path:   shareesPath,
		query:  q,
		parse:  decodeShareeGroups,
	}.do(ctx, c)
}

func decodeShareeGroups(d *jx.Decoder) ([]models.Sharee, error) {
	var exact, rest []models.Sharee
	list := func(dst *[]models.Sharee) func(d *jx.Decoder) error {
		return func(d *jx.Decoder) error {
			return eachObject(d, func(d *jx.Decoder) error {
				s, err := DecodeSharee(d)
				if err != nil {
					return err
				}
				*dst = append(*dst, s)
				return nil
			})
		}
	}
	if d.Next() != jx.Object {
		return nil, d.Skip()
	}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "exact":
			if d.Next() != jx.Object {
				return d.Skip()
			}
			return d.Obj(func(d *jx.Decoder, _ string) error {
				return list(&exact)(d)
			})
		case "users", "groups", "remotes":
			return list(&rest)(d)
		}
		return d.Skip()
	})
	return append(exact, rest...), err
}

// DecodeSharee reads {"label":..., "value":{"shareType":..., "shareWith":...,
// "shareWithAdditionalInfo":...}}.
func DecodeSharee(d *jx.Decoder) (models.Sharee, error) {
	s := models.Sharee{ShareType: models.ShareTypeUnknown}
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch key {
		case "label":
			var err error
			s.Label, err = readString(d)
			return err
		case "value":
			return d.Obj(func(d *jx.Decoder, key string) error {
				var err error
				switch key {
				case "shareType":
					var n int64
					n, err = readInt64(d)
					s.ShareType = models.ShareTypeFromValue(int(n))
				case "shareWith":
					s.ShareWith, err = readString(d)
				case "shareWithAdditionalInfo":
					s.AdditionalInfo, err = readString(d)
				default:
					err = d.Skip()
				}
				return err
			})
		}
		return d.Skip()
	})
	return s, err
}
