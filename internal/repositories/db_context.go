package repositories

import (
	"fmt"
	"github.com/glebarez/sqlite"
	"github.com/maxaizer/career-wizard/internal/config"
	"github.com/maxaizer/career-wizard/internal/domain/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type DbContext struct {
	DB *gorm.DB
}

// NewDbContext opens a SQLite database at the given path.
func NewDbContext(connectionString string) (*DbContext, error) {
	return Open(config.DBConfig{Driver: config.DriverSqlite, ConnectionString: connectionString})
}

func Open(cfg config.DBConfig) (*DbContext, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.ConnectionString)
	case config.DriverSqlite, "":
		dialector = sqlite.Open(cfg.ConnectionString)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Error),
	})
	if err != nil {
		return nil, err
	}

	return &DbContext{DB: db}, nil
}

func (c *DbContext) Migrate() error {
	err := c.DB.AutoMigrate(models.Plan{})
	if err != nil {
		return fmt.Errorf("failed to migrate Plan entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Organization{})
	if err != nil {
		return fmt.Errorf("failed to migrate Organization entity: %w", err)
	}

	err = c.DB.AutoMigrate(models.Career{})
	if err != nil {
		return fmt.Errorf("failed to migrate Career entity: %w", err)
	}

	if err = c.DB.Exec("CREATE INDEX IF NOT EXISTS idx_careers_org_status ON careers (org_id, status)").
		Error; err != nil {
		return fmt.Errorf("failed to create careers index: %w", err)
	}

	return nil
}

// PopulatePlans seeds the plan table when it is empty.
func (c *DbContext) PopulatePlans(plans []config.PlanConfig) error {
	var plansCount int64
	if err := c.DB.Model(models.Plan{}).Count(&plansCount).Error; err != nil {
		return fmt.Errorf("failed to count plans: %w", err)
	}
	if plansCount > 0 || len(plans) == 0 {
		return nil
	}

	entities := make([]models.Plan, 0, len(plans))
	for _, plan := range plans {
		entities = append(entities, models.Plan{Name: plan.Name, JobLimit: plan.JobLimit})
	}

	if err := c.DB.Create(&entities).Error; err != nil {
		return fmt.Errorf("failed to create plans in the database: %w", err)
	}
	return nil
}

func (c *DbContext) Close() error {
	db, err := c.DB.DB()
	if err != nil {
		return err
	}

	return db.Close()
}
