package services

import (
	"context"

	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/models"
)

type ServerService struct {
	client *remote.Client
}

func NewServerService(client *remote.Client) *ServerService {
	return &ServerService{client: client}
}

// Status checks that the server is installed, out of maintenance and recent
// enough.
func (s *ServerService) Status(ctx context.Context) (*models.ServerStatus, error) {
	return WaitForResult[*models.ServerStatus](ctx, remote.GetStatus{}, s.client)
}
