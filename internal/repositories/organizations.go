package repositories

import (
	"context"
	"errors"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"gorm.io/gorm"
)

type Organizations struct {
	db *gorm.DB
}

func NewOrganizationsRepository(db *gorm.DB) *Organizations {
	return &Organizations{db: db}
}

func (repo *Organizations) Add(ctx context.Context, org *models.Organization) error {
	return repo.db.WithContext(ctx).Omit("Plan").Create(org).Error
}

// GetByID loads the organization with its plan, nil when it does not exist.
func (repo *Organizations) GetByID(ctx context.Context, id string) (*models.Organization, error) {

	var org models.Organization
	if err := repo.db.WithContext(ctx).Preload("Plan").First(&org, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}

func (repo *Organizations) GetPlanByName(ctx context.Context, name string) (*models.Plan, error) {

	var plan models.Plan
	if err := repo.db.WithContext(ctx).First(&plan, "name = ?", name).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &plan, nil
}
