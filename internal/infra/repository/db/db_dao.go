package db

import (
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/RoyceAzure/lab/storefront/internal/infra/repository/db/model"
)

type DbDao struct {
	*gorm.DB
}

func NewDbDao(conn *gorm.DB) *DbDao {
	return &DbDao{DB: conn}
}

// NewPostgresConn 建立 postgres 連線
func NewPostgresConn(host, port, user, password, dbName string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbName)
	return gorm.Open(postgres.Open(dsn), &gorm.Config{})
}

// 初始化db schema
// 冪等性
func (d *DbDao) InitMigrate() error {
	return d.AutoMigrate(
		&model.Product{},
		&model.Variant{},
		&model.Order{},
		&model.OrderLine{},
		&model.StaffNote{},
		&model.StockMovement{},
	)
}
