package repositories

import (
	"context"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	gocache "github.com/patrickmn/go-cache"
	"time"
)

type organizationRepository interface {
	GetByID(ctx context.Context, id string) (*models.Organization, error)
}

// CachedOrganizations keeps plan lookups off the store for repeated saves.
type CachedOrganizations struct {
	repo  organizationRepository
	cache *gocache.Cache
}

func NewCachedOrganizations(repo organizationRepository) *CachedOrganizations {
	return &CachedOrganizations{repo: repo, cache: gocache.New(5*time.Minute, 10*time.Minute)}
}

func (c CachedOrganizations) GetByID(ctx context.Context, id string) (*models.Organization, error) {
	if value, found := c.cache.Get(id); found {
		org := value.(models.Organization)
		return &org, nil
	}

	org, err := c.repo.GetByID(ctx, id)
	if err != nil || org == nil {
		return org, err
	}

	c.cache.Set(id, *org, gocache.DefaultExpiration)
	return org, nil
}

func (c CachedOrganizations) Invalidate(id string) {
	c.cache.Delete(id)
}
