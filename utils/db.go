package utils

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"learnhub/config"
	"learnhub/models"
)

// InitDB opens the postgres connection and migrates the core tables. The
// final-test tables are deliberately left out: they are optional schema,
// created on demand through the admin migrate endpoint and detected at
// runtime by the schema gate.
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Chapter{},
		&models.ChapterProgress{},
	); err != nil {
		return nil, err
	}

	return db, nil
}
