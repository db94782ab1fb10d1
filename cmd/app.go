package cmd

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/ocdrive/ocdrive/internal/cache"
	"github.com/ocdrive/ocdrive/internal/config"
	"github.com/ocdrive/ocdrive/internal/kv"
	"github.com/ocdrive/ocdrive/internal/logging"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/internal/version"
	"github.com/ocdrive/ocdrive/pkg/models"
	"github.com/ocdrive/ocdrive/pkg/services"
)

var errNoAccount = errors.New("no account selected, pass --remote-account or add one with 'ocdrive account add'")

// app holds what the commands share: configuration, the account store and
// the cache. Resources open lazily and close after the command ran.
type app struct {
	cfg     config.Config
	loader  *config.ConfigLoader
	logger  *zap.Logger
	store   kv.KV
	cacher  cache.Cacher
	closers []func() error
}

func newApp() *app {
	return &app{loader: config.NewConfigLoader()}
}

func (a *app) load(cmd *cobra.Command) error {
	if err := a.loader.Load(cmd, &a.cfg); err != nil {
		return err
	}
	if err := a.loader.Validate(); err != nil {
		return err
	}
	lvl, err := zapcore.ParseLevel(a.cfg.Log.Level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	logging.Configure(logging.Options{
		Level:       lvl,
		Format:      a.cfg.Log.Format,
		File:        a.cfg.Log.File,
		MaxSizeMB:   a.cfg.Log.MaxSize,
		MaxBackups:  a.cfg.Log.MaxBackups,
		MaxAgeDays:  a.cfg.Log.MaxAge,
		Development: a.cfg.Log.Development,
	})
	if a.cfg.Remote.UserAgent == "ocdrive" {
		a.cfg.Remote.UserAgent = version.UserAgent()
	}
	a.logger = logging.Component("cli")
	return nil
}

func (a *app) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && a.logger != nil {
			a.logger.Warn("close", zap.Error(err))
		}
	}
	a.closers = nil
	a.store = nil
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *app) accounts() (*services.AccountService, error) {
	if a.store == nil {
		store, closeFn, err := kv.NewBoltKV(&a.cfg.Store)
		if err != nil {
			return nil, err
		}
		a.store = store
		a.closers = append(a.closers, closeFn)
	}
	return services.NewAccountService(a.store), nil
}

func (a *app) cache(ctx context.Context) (cache.Cacher, error) {
	if a.cacher == nil {
		c, err := cache.NewCache(ctx, &a.cfg.Cache)
		if err != nil {
			return nil, err
		}
		a.cacher = c
	}
	return a.cacher, nil
}

// account resolves the account to operate on: the configured one, or the
// only stored one.
func (a *app) account(ctx context.Context) (*models.Account, error) {
	svc, err := a.accounts()
	if err != nil {
		return nil, err
	}
	if a.cfg.Remote.Account != "" {
		return svc.Get(ctx, a.cfg.Remote.Account)
	}
	list, err := svc.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) != 1 {
		return nil, errNoAccount
	}
	return list[0], nil
}

func (a *app) client(ctx context.Context) (*remote.Client, error) {
	account, err := a.account(ctx)
	if err != nil {
		return nil, err
	}
	return remote.NewClient(account, &a.cfg.Remote)
}
