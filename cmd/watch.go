package cmd

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/ocdrive/ocdrive/pkg/domain"
	"github.com/ocdrive/ocdrive/pkg/services"
)

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Refresh server status and capabilities on a schedule",
		Long:  "Refresh server status and capabilities on the watch-schedule cron spec until interrupted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			client, err := a.client(ctx)
			if err != nil {
				return err
			}
			caps, err := a.capabilities(cmd)
			if err != nil {
				return err
			}
			server := services.NewServerService(client)
			logger := a.logger.Named("watch")

			cronLogger := cron.PrintfLogger(zap.NewStdLog(logger))
			c := cron.New(cron.WithLogger(cronLogger), cron.WithChain(
				cron.Recover(cronLogger),
				cron.SkipIfStillRunning(cronLogger),
			))
			refresh := func() {
				err := refreshState(ctx, server, caps, logger)
				switch {
				case err == nil, ctx.Err() != nil:
				case domain.Retryable(err):
					logger.Warn("refresh.unavailable", zap.Error(err))
				default:
					logger.Error("refresh", zap.Error(err))
				}
			}
			if _, err := c.AddFunc(a.cfg.Watch.Schedule, refresh); err != nil {
				return errors.Wrapf(err, "schedule %q", a.cfg.Watch.Schedule)
			}
			refresh()
			c.Start()
			logger.Info("watching", zap.String("account", client.Account().Name),
				zap.String("schedule", a.cfg.Watch.Schedule))
			<-ctx.Done()
			<-c.Stop().Done()
			return nil
		},
	}
}

func refreshState(ctx context.Context, server *services.ServerService, caps *services.CapabilityService, logger *zap.Logger) error {
	st, err := server.Status(ctx)
	if err != nil {
		return errors.Wrap(err, "status")
	}
	c, err := caps.Refresh(ctx)
	if err != nil {
		return errors.Wrap(err, "capabilities")
	}
	logger.Info("refreshed",
		zap.String("version", st.VersionString),
		zap.Bool("sharing", c.SharingAPIEnabled()),
		zap.Bool("public_links", c.PublicSharingEnabled()))
	return nil
}
