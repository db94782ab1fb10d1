package remote

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/ocdrive/ocdrive/pkg/models"
)

const maxOCSBody = 10 << 20

// OCS status codes outside the HTTP range.
const (
	ocsOK           = 100
	ocsUnauthorized = 997
	ocsNotFound     = 998
)

type ocsMeta struct {
	Status     string
	StatusCode int
	Message    string
}

func (m ocsMeta) ok() bool {
	return m.StatusCode == ocsOK || m.StatusCode == http.StatusOK
}

// ocsCodes overrides the default classification of OCS status codes.
type ocsCodes map[int]ResultCode

var shareCodes = ocsCodes{
	http.StatusBadRequest: ShareWrongParameter,
	http.StatusForbidden:  ShareForbidden,
	http.StatusNotFound:   ShareNotFound,
	ocsNotFound:           ShareNotFound,
}

type ocsCall[T any] struct {
	method string
	path   string
	query  url.Values
	form   url.Values
	codes  ocsCodes
	parse  func(d *jx.Decoder) (T, error)
}

func (o ocsCall[T]) do(ctx context.Context, c *Client) *Result[T] {
	query := url.Values{}
	for k, v := range o.query {
		query[k] = v
	}
	query.Set("format", "json")

	var body io.Reader
	if o.form != nil {
		body = strings.NewReader(o.form.Encode())
	}
	req, err := c.NewRequest(ctx, o.method, ocsPath+"/"+o.path, query, body)
	if err != nil {
		return FromError[T](err)
	}
	if o.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Do(req)
	if err != nil {
		return requestFailure[T](ctx, err)
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxOCSBody))
	if err != nil {
		return requestFailure[T](ctx, err)
	}

	meta, data, err := decodeEnvelope(raw)
	if err != nil {
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return FromHTTPResponse[T](resp.StatusCode, http.StatusText(resp.StatusCode), raw)
		}
		return NewFailure[T](WrongServerResponse, err)
	}
	if !meta.ok() {
		res := NewFailure[T](o.classify(meta.StatusCode, resp.StatusCode), errors.New(meta.Message))
		res.HTTPCode = resp.StatusCode
		res.HTTPPhrase = http.StatusText(resp.StatusCode)
		if meta.Message == "" {
			res.Err = errors.Errorf("ocs status %d", meta.StatusCode)
		}
		return res
	}

	if o.parse == nil {
		var zero T
		return NewResult(zero)
	}
	v, err := o.parse(jx.DecodeBytes(data))
	if err != nil {
		return NewFailure[T](WrongServerResponse, errors.Wrap(err, "decode ocs data"))
	}
	res := NewResult(v)
	res.HTTPCode = resp.StatusCode
	res.HTTPPhrase = http.StatusText(resp.StatusCode)
	return res
}

func (o ocsCall[T]) classify(ocsCode, httpCode int) ResultCode {
	if code, ok := o.codes[ocsCode]; ok {
		return code
	}
	switch ocsCode {
	case ocsUnauthorized:
		return Unauthorized
	case ocsNotFound:
		return FileNotFound
	}
	if ocsCode >= 400 && ocsCode < 600 {
		return ClassifyStatus(ocsCode, false)
	}
	if httpCode >= 400 {
		return ClassifyStatus(httpCode, false)
	}
	return UnknownError
}

// decodeEnvelope splits {"ocs":{"meta":{...},"data":...}} into its parts.
func decodeEnvelope(raw []byte) (ocsMeta, jx.Raw, error) {
	var (
		meta    ocsMeta
		data    jx.Raw
		hasMeta bool
	)
	err := jx.DecodeBytes(raw).Obj(func(d *jx.Decoder, key string) error {
		if key != "ocs" {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			switch key {
			case "meta":
				hasMeta = true
				return d.Obj(func(d *jx.Decoder, key string) error {
					var err error
					switch key {
					case "status":
						meta.Status, err = readString(d)
					case "statuscode":
						var n int64
						n, err = readInt64(d)
						meta.StatusCode = int(n)
					case "message":
						meta.Message, err = readString(d)
					default:
						err = d.Skip()
					}
					return err
				})
			case "data":
				r, err := d.Raw()
				if err != nil {
					return err
				}
				data = append(jx.Raw(nil), r...)
				return nil
			}
			return d.Skip()
		})
	})
	if err != nil {
		return meta, nil, errors.Wrap(err, "decode ocs envelope")
	}
	if !hasMeta {
		return meta, nil, errors.New("ocs envelope without meta")
	}
	if data == nil {
		data = jx.Raw("null")
	}
	return meta, data, nil
}

func readString(d *jx.Decoder) (string, error) {
	switch d.Next() {
	case jx.String:
		return d.Str()
	case jx.Null:
		return "", d.Null()
	case jx.Number, jx.Bool:
		r, err := d.Raw()
		return string(r), err
	}
	return "", d.Skip()
}

// readInt64 accepts numbers, numeric strings, booleans and null; servers
// disagree on how ids are typed.
func readInt64(d *jx.Decoder) (int64, error) {
	switch d.Next() {
	case jx.Number:
		f, err := d.Float64()
		return int64(f), err
	case jx.String:
		s, err := d.Str()
		if err != nil || s == "" {
			return 0, err
		}
		return strconv.ParseInt(s, 10, 64)
	case jx.Bool:
		b, err := d.Bool()
		if b {
			return 1, err
		}
		return 0, err
	case jx.Null:
		return 0, d.Null()
	}
	return 0, d.Skip()
}

func readBool(d *jx.Decoder) (bool, error) {
	switch d.Next() {
	case jx.Bool:
		return d.Bool()
	case jx.String:
		s, err := d.Str()
		if err != nil || s == "" {
			return false, err
		}
		return strconv.ParseBool(s)
	case jx.Number, jx.Null:
		n, err := readInt64(d)
		return n != 0, err
	}
	return false, d.Skip()
}

func readCapability(d *jx.Decoder) (models.CapabilityBoolean, error) {
	switch d.Next() {
	case jx.Bool:
		b, err := d.Bool()
		return models.CapabilityBooleanFromBool(b), err
	case jx.Number, jx.String:
		n, err := readInt64(d)
		if err != nil {
			return models.CapabilityUnknown, err
		}
		v, _ := models.CapabilityBooleanFromValue(int(n))
		return v, nil
	case jx.Null:
		return models.CapabilityUnknown, d.Null()
	}
	return models.CapabilityUnknown, d.Skip()
}

// eachObject calls fn for a single object or for every object of an array.
func eachObject(d *jx.Decoder, fn func(d *jx.Decoder) error) error {
	switch d.Next() {
	case jx.Array:
		return d.Arr(fn)
	case jx.Object:
		return fn(d)
	case jx.Null:
		return d.Null()
	}
	return d.Skip()
}
