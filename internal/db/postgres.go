package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yungbote/prejudice-risk-backend/internal/catalog"
	"github.com/yungbote/prejudice-risk-backend/internal/logger"
	"github.com/yungbote/prejudice-risk-backend/internal/types"
	"github.com/yungbote/prejudice-risk-backend/internal/utils"
)

type PostgresService struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPostgresService(log *logger.Logger) (*PostgresService, error) {
	serviceLog := log.With("service", "PostgresService")

	log.Info("Loading environment variables...")
	postgresHost := utils.GetEnv("POSTGRES_HOST", "localhost", log)
	postgresPort := utils.GetEnv("POSTGRES_PORT", "5432", log)
	postgresUser := utils.GetEnv("POSTGRES_USER", "postgres", log)
	postgresPassword := utils.GetEnv("POSTGRES_PASSWORD", "", log)
	postgresName := utils.GetEnv("POSTGRES_NAME", "prejudice_risk", log)

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", postgresUser, postgresPassword, postgresHost, postgresPort, postgresName)

	log.Info("Connecting to Postgres...")
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Error("Failed to connect to Postgres", "error", err)
		return nil, fmt.Errorf("failed to connect to Postgres: %w", err)
	}

	return &PostgresService{db: gormDB, log: serviceLog}, nil
}

func (s *PostgresService) AutoMigrateAll() error {
	s.log.Info("Auto migrating postgres tables...")
	if err := Migrate(s.db); err != nil {
		s.log.Error("Auto migration failed for postgres tables", "error", err)
		return err
	}
	s.log.Info("Configuring foreign key relationships for postgres tables...")
	for _, stmt := range []string{
		`ALTER TABLE "factor_ratings" DROP CONSTRAINT IF EXISTS "fk_factor_ratings_assessment_id"`,
		`ALTER TABLE "factor_ratings" ADD CONSTRAINT "fk_factor_ratings_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessments"("id") ON DELETE CASCADE`,
		`ALTER TABLE "results" DROP CONSTRAINT IF EXISTS "fk_results_assessment_id"`,
		`ALTER TABLE "results" ADD CONSTRAINT "fk_results_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessments"("id") ON DELETE CASCADE`,
		`ALTER TABLE "cms_links" DROP CONSTRAINT IF EXISTS "fk_cms_links_assessment_id"`,
		`ALTER TABLE "cms_links" ADD CONSTRAINT "fk_cms_links_assessment_id" FOREIGN KEY ("assessment_id") REFERENCES "assessments"("id") ON DELETE CASCADE`,
		`ALTER TABLE "webhook_deliveries" DROP CONSTRAINT IF EXISTS "fk_webhook_deliveries_webhook_id"`,
		`ALTER TABLE "webhook_deliveries" ADD CONSTRAINT "fk_webhook_deliveries_webhook_id" FOREIGN KEY ("webhook_id") REFERENCES "webhooks"("id") ON DELETE CASCADE`,
	} {
		if err := s.db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("failed to configure foreign keys: %w", err)
		}
	}
	return nil
}

func (s *PostgresService) DB() *gorm.DB {
	return s.db
}

// Migrate creates or updates every table and seeds the factor catalog. Shared
// by the postgres service and the sqlite test helper.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&types.Assessment{},
		&types.YearCounter{},
		&types.FactorRating{},
		&types.Result{},
		&types.CMSLink{},
		&types.APIKey{},
		&types.Webhook{},
		&types.WebhookDelivery{},
		&types.FactorDefinition{},
	); err != nil {
		return err
	}
	return seedFactorDefinitions(gormDB)
}

func seedFactorDefinitions(gormDB *gorm.DB) error {
	for _, def := range catalog.Definitions() {
		var count int64
		if err := gormDB.Model(&types.FactorDefinition{}).
			Where("factor_id = ?", def.FactorID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		row := def
		if err := gormDB.Create(&row).Error; err != nil {
			return err
		}
	}
	return nil
}
