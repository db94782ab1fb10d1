package services

import (
	"context"

	"github.com/ocdrive/ocdrive/internal/kv"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

// AccountService manages the locally stored accounts.
type AccountService struct {
	store kv.KV
}

func NewAccountService(store kv.KV) *AccountService {
	return &AccountService{store: store}
}

func (s *AccountService) Add(ctx context.Context, a *models.Account) (*models.Account, error) {
	return WaitForResult[*models.Account](ctx, remote.AddAccount{Store: s.store, Account: a}, nil)
}

func (s *AccountService) Get(ctx context.Context, name string) (*models.Account, error) {
	return WaitForResult[*models.Account](ctx, remote.GetAccount{Store: s.store, Name: name}, nil)
}

func (s *AccountService) List(ctx context.Context) ([]*models.Account, error) {
	return WaitForResult[[]*models.Account](ctx, remote.ListAccounts{Store: s.store}, nil)
}

func (s *AccountService) Remove(ctx context.Context, name string) error {
	_, err := WaitForResult[struct{}](ctx, remote.RemoveAccount{Store: s.store, Name: name}, nil)
	return err
}

func (s *AccountService) UpdateCredentials(ctx context.Context, name string, c models.Credentials) (*models.Account, error) {
	return WaitForResult[*models.Account](ctx, remote.UpdateCredentials{Store: s.store, Name: name, Credentials: c}, nil)
}
