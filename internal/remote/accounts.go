package remote

import (
	"context"
	"sort"
	"time"

	"github.com/go-faster/errors"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/ocdrive/ocdrive/internal/kv"
	"github.com/ocdrive/ocdrive/pkg/models"
)

// Account operations work on the local store only; the client argument is
// ignored and may be nil.

func loadAccount(store kv.KV, name string) (*models.Account, *Result[*models.Account]) {
	raw, err := store.Get(name)
	if errors.Is(err, kv.ErrNotFound) {
		return nil, NewFailure[*models.Account](AccountNotFound, errors.Errorf("account %q not found", name))
	}
	if err != nil {
		return nil, NewFailure[*models.Account](AccountException, err)
	}
	var a models.Account
	if err := msgpack.Unmarshal(raw, &a); err != nil {
		return nil, NewFailure[*models.Account](AccountException, errors.Wrap(err, "decode account"))
	}
	return &a, nil
}

func storeAccount(store kv.KV, a *models.Account) error {
	raw, err := msgpack.Marshal(a)
	if err != nil {
		return errors.Wrap(err, "encode account")
	}
	return store.Set(a.Name, raw)
}

type AddAccount struct {
	Store   kv.KV
	Account *models.Account
}

func (op AddAccount) Execute(_ context.Context, _ *Client) *Result[*models.Account] {
	a := *op.Account
	if a.Name == "" {
		a.Name = models.AccountName(a.Credentials.Username, a.ServerURL)
	}
	if a.Type == "" {
		a.Type = models.AccountType
	}
	_, err := op.Store.Get(a.Name)
	switch {
	case err == nil:
		return NewFailure[*models.Account](AccountNotNew, errors.Errorf("account %q already exists", a.Name))
	case !errors.Is(err, kv.ErrNotFound):
		return NewFailure[*models.Account](AccountException, err)
	}
	now := time.Now().UTC()
	a.CreatedAt, a.UpdatedAt = now, now
	if err := storeAccount(op.Store, &a); err != nil {
		return NewFailure[*models.Account](AccountException, err)
	}
	return NewResult(&a)
}

type GetAccount struct {
	Store kv.KV
	Name  string
}

func (op GetAccount) Execute(_ context.Context, _ *Client) *Result[*models.Account] {
	a, failure := loadAccount(op.Store, op.Name)
	if failure != nil {
		return failure
	}
	return NewResult(a)
}

type ListAccounts struct {
	Store kv.KV
}

func (op ListAccounts) Execute(_ context.Context, _ *Client) *Result[[]*models.Account] {
	names, err := op.Store.Keys()
	if err != nil {
		return NewFailure[[]*models.Account](AccountException, err)
	}
	sort.Strings(names)
	accounts := make([]*models.Account, 0, len(names))
	for _, name := range names {
		a, failure := loadAccount(op.Store, name)
		if failure != nil {
			return Convert[[]*models.Account](failure)
		}
		accounts = append(accounts, a)
	}
	return NewResult(accounts)
}

type RemoveAccount struct {
	Store kv.KV
	Name  string
}

func (op RemoveAccount) Execute(_ context.Context, _ *Client) *Result[struct{}] {
	if _, failure := loadAccount(op.Store, op.Name); failure != nil {
		return Convert[struct{}](failure)
	}
	if err := op.Store.Delete(op.Name); err != nil {
		return NewFailure[struct{}](AccountException, err)
	}
	return NewResult(struct{}{})
}

// UpdateCredentials replaces the credentials of an account. The username is
// part of the account identity and cannot change.
type UpdateCredentials struct {
	Store       kv.KV
	Name        string
	Credentials models.Credentials
}

func (op UpdateCredentials) Execute(_ context.Context, _ *Client) *Result[*models.Account] {
	a, failure := loadAccount(op.Store, op.Name)
	if failure != nil {
		return failure
	}
	if op.Credentials.Username != "" && op.Credentials.Username != a.Username() {
		return NewFailure[*models.Account](AccountNotTheSame,
			errors.Errorf("credentials belong to %q, not %q", op.Credentials.Username, a.Username()))
	}
	if op.Credentials.Username == "" {
		op.Credentials.Username = a.Username()
	}
	a.Credentials = op.Credentials
	a.UpdatedAt = time.Now().UTC()
	if err := storeAccount(op.Store, a); err != nil {
		return NewFailure[*models.Account](AccountException, err)
	}
	return NewResult(a)
}
