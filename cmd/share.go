package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/ocdrive/ocdrive/internal/duration"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
	"github.com/ocdrive/ocdrive/pkg/services"
)

var shareTypes = map[string]models.ShareType{
	"user":      models.ShareTypeUser,
	"group":     models.ShareTypeGroup,
	"public":    models.ShareTypePublicLink,
	"email":     models.ShareTypeEmail,
	"contact":   models.ShareTypeContact,
	"federated": models.ShareTypeFederated,
}

func parseShareType(s string) (models.ShareType, error) {
	t, ok := shareTypes[strings.ToLower(s)]
	if !ok {
		return models.ShareTypeUnknown, errors.Errorf("unknown share type %q", s)
	}
	return t, nil
}

// parsePermissions accepts either the numeric bit set or letters out of
// "rucds" (read, update, create, delete, share).
func parsePermissions(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	bits := map[rune]int{
		'r': models.PermissionRead,
		'u': models.PermissionUpdate,
		'c': models.PermissionCreate,
		'd': models.PermissionDelete,
		's': models.PermissionShare,
	}
	perm := 0
	for _, r := range strings.ToLower(s) {
		b, ok := bits[r]
		if !ok {
			return 0, errors.Errorf("unknown permission %q", r)
		}
		perm |= b
	}
	return perm, nil
}

func formatPermissions(p int) string {
	if p < 0 {
		return "-"
	}
	var b strings.Builder
	for _, bit := range []struct {
		mask int
		ch   byte
	}{
		{models.PermissionRead, 'r'},
		{models.PermissionUpdate, 'u'},
		{models.PermissionCreate, 'c'},
		{models.PermissionDelete, 'd'},
		{models.PermissionShare, 's'},
	} {
		if p&bit.mask != 0 {
			b.WriteByte(bit.ch)
		} else {
			b.WriteByte('-')
		}
	}
	return b.String()
}

func (a *app) shares(cmd *cobra.Command) (*services.ShareService, error) {
	client, err := a.client(cmd.Context())
	if err != nil {
		return nil, err
	}
	return services.NewShareService(client), nil
}

func newShareCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share",
		Short: "Manage shares",
	}
	cmd.AddCommand(newShareListCmd(a), newShareCreateCmd(a), newShareDeleteCmd(a))
	return cmd
}

func shareTarget(s *models.Share) string {
	switch {
	case s.ShareLink != "":
		return s.ShareLink
	case s.SharedWithDisplayName != "":
		return s.SharedWithDisplayName
	case s.ShareType == models.ShareTypePublicLink:
		return s.Token
	}
	return s.ShareWith
}

func newShareListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "list [path]",
		Aliases: []string{"ls"},
		Short:   "List shares of a path, or all shares",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var p string
			if len(args) == 1 {
				p = args[0]
			}
			svc, err := a.shares(cmd)
			if err != nil {
				return err
			}
			shares, err := svc.List(cmd.Context(), p)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(shares))
			for _, s := range shares {
				rows = append(rows, []string{
					strconv.FormatInt(s.RemoteID, 10),
					s.Path,
					s.ShareType.String(),
					shareTarget(s),
					formatPermissions(s.Permissions),
					formatUnix(s.ExpirationDate),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Path", "Type", "With", "Perms", "Expires"}, rows))
			return nil
		},
	}
}

func newShareCreateCmd(a *app) *cobra.Command {
	var (
		typ          string
		with         string
		perms        string
		name         string
		password     string
		expire       string
		expireIn     time.Duration
		publicUpload bool
	)
	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Share a file or folder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shareType, err := parseShareType(typ)
			if err != nil {
				return err
			}
			permissions, err := parsePermissions(perms)
			if err != nil {
				return err
			}
			req := remote.CreateShare{
				Path:         args[0],
				ShareType:    shareType,
				ShareWith:    with,
				Permissions:  permissions,
				Name:         name,
				Password:     password,
				PublicUpload: publicUpload,
			}
			if expire != "" {
				t, err := time.ParseInLocation(time.DateOnly, expire, time.UTC)
				if err != nil {
					return errors.Wrap(err, "expire")
				}
				req.ExpirationDate = t.Unix()
			} else if expireIn > 0 {
				req.ExpirationDate = time.Now().Add(expireIn).Unix()
			}
			svc, err := a.shares(cmd)
			if err != nil {
				return err
			}
			share, err := svc.Create(cmd.Context(), req)
			if err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "share %d created", share.RemoteID)
			if share.ShareLink != "" {
				fmt.Fprintln(cmd.OutOrStdout(), share.ShareLink)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&typ, "type", "t", "user", "Share type: user, group, public, email, contact or federated")
	cmd.Flags().StringVarP(&with, "with", "w", "", "Recipient of the share")
	cmd.Flags().StringVarP(&perms, "permissions", "p", "", "Permissions as a number or letters of rucds")
	cmd.Flags().StringVar(&name, "name", "", "Public link name")
	cmd.Flags().StringVar(&password, "password", "", "Public link password")
	cmd.Flags().StringVar(&expire, "expire", "", "Expiration date (YYYY-MM-DD)")
	duration.Var(cmd.Flags(), &expireIn, "expire-in", 0, "Expire after a duration such as 7d or 2w")
	cmd.Flags().BoolVar(&publicUpload, "public-upload", false, "Allow uploads through a public link")
	return cmd
}

func newShareDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Aliases: []string{"rm"},
		Short:   "Delete a share",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return errors.Wrap(err, "share id")
			}
			svc, err := a.shares(cmd)
			if err != nil {
				return err
			}
			if err := svc.Delete(cmd.Context(), id); err != nil {
				return err
			}
			printOK(cmd.OutOrStdout(), "share %d deleted", id)
			return nil
		},
	}
}

func newShareesCmd(a *app) *cobra.Command {
	var page, perPage int
	cmd := &cobra.Command{
		Use:   "sharees <search>",
		Short: "Search users and groups to share with",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.shares(cmd)
			if err != nil {
				return err
			}
			sharees, err := svc.Sharees(cmd.Context(), args[0], page, perPage)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(sharees))
			for _, s := range sharees {
				rows = append(rows, []string{s.Label, s.ShareType.String(), s.ShareWith, s.AdditionalInfo})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Label", "Type", "Share with", "Info"}, rows))
			return nil
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "Result page")
	cmd.Flags().IntVar(&perPage, "per-page", 30, "Results per page")
	return cmd
}
