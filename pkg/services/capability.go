package services

import (
	"context"
	"time"

	"github.com/ocdrive/ocdrive/internal/cache"
	"github.com/ocdrive/ocdrive/internal/remote"
	"github.com/ocdrive/ocdrive/pkg/mapper"
	"github.com/ocdrive/ocdrive/pkg/models"
)

// CapabilityService serves capabilities from the cache, reading them from the
// server on a miss.
type CapabilityService struct {
	client *remote.Client
	cache  cache.Cacher
	ttl    time.Duration
}

func NewCapabilityService(client *remote.Client, c cache.Cacher, ttl time.Duration) *CapabilityService {
	return &CapabilityService{client: client, cache: c, ttl: ttl}
}

func (s *CapabilityService) key() string {
	return cache.KeyCapabilities(s.client.Account().Name)
}

func (s *CapabilityService) Get(ctx context.Context) (*models.Capability, error) {
	return cache.Fetch(ctx, s.cache, s.key(), s.ttl, func() (*models.Capability, error) {
		return s.fetch(ctx)
	})
}

// Refresh reads capabilities from the server and replaces the cached copy.
func (s *CapabilityService) Refresh(ctx context.Context) (*models.Capability, error) {
	c, err := s.fetch(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, s.key(), c, s.ttl); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CapabilityService) fetch(ctx context.Context) (*models.Capability, error) {
	rc, err := WaitForResult[*models.RemoteCapability](ctx, remote.GetCapabilities{}, s.client)
	if err != nil {
		return nil, err
	}
	return mapper.ToCapability(rc), nil
}
