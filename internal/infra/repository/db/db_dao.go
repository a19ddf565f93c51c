package db

import (
	domain "github.com/RoyceAzure/lab/eventro/internal/domain/model"
	"github.com/RoyceAzure/lab/eventro/internal/infra/repository/db/model"
	"gorm.io/gorm"
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	if conn == nil {
		panic("db dao dependency conn is nil")
	}
	return &DbDao{
		DB: conn,
	}
}

// InitMigrate 冪等
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.Order{},
		&model.OrderItem{},
		&domain.Category{},
		&domain.Listing{},
		&domain.Package{},
		&domain.Country{},
		&domain.State{},
		&domain.City{},
	)
}

func (d *DbDao) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
