package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ocdrive/ocdrive/pkg/models"
	"github.com/ocdrive/ocdrive/pkg/services"
)

func (a *app) capabilities(cmd *cobra.Command) (*services.CapabilityService, error) {
	ctx := cmd.Context()
	client, err := a.client(ctx)
	if err != nil {
		return nil, err
	}
	c, err := a.cache(ctx)
	if err != nil {
		return nil, err
	}
	return services.NewCapabilityService(client, c, a.cfg.Cache.TTL), nil
}

func newCapabilitiesCmd(a *app) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "capabilities",
		Short: "Show the server capabilities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.capabilities(cmd)
			if err != nil {
				return err
			}
			get := svc.Get
			if refresh {
				get = svc.Refresh
			}
			c, err := get(cmd.Context())
			if err != nil {
				return err
			}
			printCapability(cmd, c)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "Bypass the cache")
	return cmd
}

func printCapability(cmd *cobra.Command, c *models.Capability) {
	printPairs(cmd.OutOrStdout(), [][2]string{
		{"account", c.AccountName},
		{"version", fmt.Sprintf("%s (%s)", c.VersionString, c.VersionEdition)},
		{"poll interval", strconv.Itoa(c.CorePollInterval)},
		{"sharing api", formatFlag(c.FilesSharingAPIEnabled)},
		{"sharee search min", strconv.Itoa(c.FilesSharingSearchMinLength)},
		{"public links", formatFlag(c.FilesSharingPublicEnabled)},
		{"link password enforced", formatFlag(c.FilesSharingPublicPasswordEnforced)},
		{"link expiration", formatFlag(c.FilesSharingPublicExpireDateEnabled)},
		{"link expiration days", strconv.Itoa(c.FilesSharingPublicExpireDateDays)},
		{"link expiration enforced", formatFlag(c.FilesSharingPublicExpireDateEnforced)},
		{"link upload", formatFlag(c.FilesSharingPublicUpload)},
		{"multiple links", formatFlag(c.FilesSharingPublicMultiple)},
		{"resharing", formatFlag(c.FilesSharingResharing)},
		{"federation outgoing", formatFlag(c.FilesSharingFederationOutgoing)},
		{"federation incoming", formatFlag(c.FilesSharingFederationIncoming)},
		{"chunking", formatFlag(c.FilesBigFileChunking)},
		{"undelete", formatFlag(c.FilesUndelete)},
		{"versioning", formatFlag(c.FilesVersioning)},
	})
}

func newStatusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the server status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := a.client(cmd.Context())
			if err != nil {
				return err
			}
			st, err := services.NewServerService(client).Status(cmd.Context())
			if err != nil {
				return err
			}
			printPairs(cmd.OutOrStdout(), [][2]string{
				{"server", client.BaseURL().String()},
				{"product", st.ProductName},
				{"version", st.VersionString},
				{"edition", st.Edition},
			})
			printOK(cmd.OutOrStdout(), "server is available")
			return nil
		},
	}
}
