package repository

import (
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/config"
	"github.com/DMcoder75/jecalumni4-Jan26-sub000/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB connects to postgres. TranslateError makes unique violations surface
// as gorm.ErrDuplicatedKey regardless of driver.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{TranslateError: true}
	if !cfg.IsProd() {
		gormConfig.Logger = logger.Default.LogMode(logger.Info)
	}

	db, err := gorm.Open(postgres.Open(cfg.PostgresDSN()), gormConfig)
	if err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Message{},
		&models.PendingNotification{},
	)
}
