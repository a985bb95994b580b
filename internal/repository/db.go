package repository

import (
	"fmt"

	model "auction-marketplace/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Connect opens the Postgres database and migrates the schema.
// TranslateError maps driver unique-violation errors to gorm.ErrDuplicatedKey
// so the unique-email constraint surfaces as ErrDuplicateEmail.
func Connect(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := db.AutoMigrate(&model.User{}, &model.Item{}, &model.Bid{}, &model.Message{}); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}
	return db, nil
}
