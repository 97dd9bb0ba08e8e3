package database

import (
	"github.com/believerchat/backend/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Database struct {
	db *gorm.DB
}

func NewDatabase(db *gorm.DB) *Database {
	return &Database{db: db}
}

func Connect(dsn string) (*Database, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	d := &Database{db: db}
	if err := d.Migrate(); err != nil {
		return nil, err
	}

	return d, nil
}

func (d *Database) Migrate() error {
	return d.db.AutoMigrate(
		&models.User{},
		&models.Connection{},
		&models.Group{},
		&models.GroupMember{},
		&models.GroupJoinRequest{},
		&models.Message{},
	)
}
