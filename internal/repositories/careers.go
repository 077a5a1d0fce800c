package repositories

import (
	"context"
	"errors"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"gorm.io/gorm"
)

type Careers struct {
	db *gorm.DB
}

func NewCareersRepository(db *gorm.DB) *Careers {
	return &Careers{db: db}
}

func (repo *Careers) Create(ctx context.Context, career *models.Career) error {
	return repo.db.WithContext(ctx).Create(career).Error
}

// GetByID returns nil without an error when the career does not exist.
func (repo *Careers) GetByID(ctx context.Context, id string) (*models.Career, error) {

	var career models.Career
	if err := repo.db.WithContext(ctx).First(&career, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &career, nil
}

func (repo *Careers) Save(ctx context.Context, career *models.Career) error {
	return repo.db.WithContext(ctx).Save(career).Error
}

func (repo *Careers) GetByOrg(ctx context.Context, orgID string) ([]models.Career, error) {

	var careers []models.Career
	if err := repo.db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Order("updated_at DESC").
		Find(&careers).Error; err != nil {
		return nil, err
	}
	return careers, nil
}

func (repo *Careers) CountByStatus(ctx context.Context, orgID string, status models.Status) (int64, error) {

	var count int64
	if err := repo.db.WithContext(ctx).Model(&models.Career{}).
		Where("org_id = ? AND status = ?", orgID, status).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (repo *Careers) CountAllByStatus(ctx context.Context) (map[models.Status]int64, error) {

	var rows []struct {
		Status models.Status
		Count  int64
	}
	if err := repo.db.WithContext(ctx).Model(&models.Career{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.Status]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
