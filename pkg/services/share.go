package services

import (
	"context"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/mapper"
	"github.com/ocdrive/ocdrive/pkg/models"
)

type ShareService struct {
	client *remote.Client
}

func NewShareService(client *remote.Client) *ShareService {
	return &ShareService{client: client}
}

func (s *ShareService) owner() string {
	return s.client.Account().Name
}

// List returns the shares of path, or all shares of the account when path
// is empty.
func (s *ShareService) List(ctx context.Context, path string) ([]*models.Share, error) {
	shares, err := WaitForResult[[]models.RemoteShare](ctx, remote.GetShares{Path: path}, s.client)
	if err != nil {
		return nil, err
	}
	return mapper.ToShares(shares, s.owner()), nil
}

func (s *ShareService) Create(ctx context.Context, req remote.CreateShare) (*models.Share, error) {
	share, err := WaitForResult[models.RemoteShare](ctx, req, s.client)
	if err != nil {
		return nil, err
	}
	return mapper.ToShare(&share, s.owner()), nil
}

func (s *ShareService) Delete(ctx context.Context, id int64) error {
	_, err := WaitForResult[struct{}](ctx, remote.RemoveShare{ID: id}, s.client)
	return err
}

func (s *ShareService) Sharees(ctx context.Context, search string, page, perPage int) ([]models.Sharee, error) {
	return WaitForResult[[]models.Sharee](ctx, remote.GetSharees{Search: search, Page: page, PerPage: perPage}, s.client)
}
