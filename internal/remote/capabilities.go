package remote

import (
	"context"
	"net/http"

	"github.com/go-faster/jx"

	"github.com/ocdrive/ocdrive/pkg/models"
)

const capabilitiesPath = "cloud/capabilities"

// GetCapabilities reads the server capabilities. Flags the server does not
// report stay unknown.
type GetCapabilities struct{}

func (GetCapabilities) Execute(ctx context.Context, c *Client) *Result[*models.RemoteCapability] {
	res := ocsCall[*models.RemoteCapability]{
		method: http.MethodGet,
		path:   capabilitiesPath,
		parse:  DecodeCapabilities,
	}.do(ctx, c)
	if res.IsSuccess() && res.Data != nil {
		res.Data.AccountName = c.Account().Name
	}
	return res
}

type capField func(d *jx.Decoder) error

func capObj(fields map[string]capField) func(d *jx.Decoder) error {
	return func(d *jx.Decoder) error {
		if d.Next() != jx.Object {
			return d.Skip()
		}
		return d.Obj(func(d *jx.Decoder, key string) error {
			if f, ok := fields[key]; ok {
				return f(d)
			}
			return d.Skip()
		})
	}
}

func capBool(dst *models.CapabilityBoolean) capField {
	return func(d *jx.Decoder) (err error) {
		*dst, err = readCapability(d)
		return err
	}
}

func capInt(dst *int) capField {
	return func(d *jx.Decoder) error {
		n, err := readInt64(d)
		*dst = int(n)
		return err
	}
}

func capString(dst *string) capField {
	return func(d *jx.Decoder) (err error) {
		*dst, err = readString(d)
		return err
	}
}

// DecodeCapabilities reads the "data" member of the capabilities response.
func DecodeCapabilities(d *jx.Decoder) (*models.RemoteCapability, error) {
	c := models.NewRemoteCapability()

	password := capObj(map[string]capField{
		"enforced": capBool(&c.FilesSharingPublicPasswordEnforced),
		"enforced_for": capObj(map[string]capField{
			"read_only":   capBool(&c.FilesSharingPublicPasswordEnforcedRO),
			"read_write":  capBool(&c.FilesSharingPublicPasswordEnforcedRW),
			"upload_only": capBool(&c.FilesSharingPublicPasswordEnforcedUO),
		}),
	})
	expire := capObj(map[string]capField{
		"enabled":  capBool(&c.FilesSharingPublicExpireDateEnabled),
		"days":     capInt(&c.FilesSharingPublicExpireDateDays),
		"enforced": capBool(&c.FilesSharingPublicExpireDateEnforced),
	})
	public := capObj(map[string]capField{
		"enabled":              capBool(&c.FilesSharingPublicEnabled),
		"password":             password,
		"expire_date":          expire,
		"send_mail":            capBool(&c.FilesSharingPublicSendMail),
		"upload":               capBool(&c.FilesSharingPublicUpload),
		"multiple":             capBool(&c.FilesSharingPublicMultiple),
		"supports_upload_only": capBool(&c.FilesSharingPublicSupportsUploadOnly),
	})
	sharing := capObj(map[string]capField{
		"api_enabled":       capBool(&c.FilesSharingAPIEnabled),
		"search_min_length": capInt(&c.FilesSharingSearchMinLength),
		"public":            public,
		"user":              capObj(map[string]capField{"send_mail": capBool(&c.FilesSharingUserSendMail)}),
		"resharing":         capBool(&c.FilesSharingResharing),
		"federation": capObj(map[string]capField{
			"outgoing": capBool(&c.FilesSharingFederationOutgoing),
			"incoming": capBool(&c.FilesSharingFederationIncoming),
		}),
	})
	files := capObj(map[string]capField{
		"bigfilechunking": capBool(&c.FilesBigFileChunking),
		"undelete":        capBool(&c.FilesUndelete),
		"versioning":      capBool(&c.FilesVersioning),
	})
	root := capObj(map[string]capField{
		"version": capObj(map[string]capField{
			"major":   capInt(&c.VersionMajor),
			"minor":   capInt(&c.VersionMinor),
			"micro":   capInt(&c.VersionMicro),
			"string":  capString(&c.VersionString),
			"edition": capString(&c.VersionEdition),
		}),
		"capabilities": capObj(map[string]capField{
			"core":          capObj(map[string]capField{"pollinterval": capInt(&c.CorePollInterval)}),
			"files_sharing": sharing,
			"files":         files,
		}),
	})
	if err := root(d); err != nil {
		return nil, err
	}
	return c, nil
}
