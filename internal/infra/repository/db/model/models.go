package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// DB 映射模型，與 domain model 分離
// Variant 是活的實體（庫存會變動），OrderLine 是送單當下的不可變快照

type Product struct {
	ProductID   string    `gorm:"primaryKey;type:varchar(50)"`
	Name        string    `gorm:"not null;type:varchar(100)"`
	Brand       string    `gorm:"not null;type:varchar(100)"`
	Description string    `gorm:"type:text"`
	Variants    []Variant `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	BaseModel
}

type Variant struct {
	VariantID string          `gorm:"primaryKey;type:varchar(50)"`
	ProductID string          `gorm:"not null;index;type:varchar(50)"`
	Name      string          `gorm:"not null;type:varchar(100)"`
	Color     string          `gorm:"type:varchar(50)"`
	Capacity  string          `gorm:"type:varchar(50)"`
	Price     decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Stock     uint            `gorm:"not null;type:int"`
	ImageURL  string          `gorm:"type:text"`
	BaseModel
}

type Order struct {
	OrderID         string          `gorm:"primaryKey;type:varchar(50)"`
	UserID          string          `gorm:"not null;index;type:varchar(50)"`
	CustomerName    string          `gorm:"not null;type:varchar(100)"`
	Lines           []OrderLine     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	Amount          decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Status          string          `gorm:"not null;type:varchar(20)"`
	ShippingAddress string          `gorm:"not null;type:text"`
	OrderDate       time.Time       `gorm:"not null"`
	Notes           []StaffNote     `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	BaseModel
}

type OrderLine struct {
	LineID      string          `gorm:"primaryKey;type:varchar(50)"`
	OrderID     string          `gorm:"not null;index;type:varchar(50)"`
	VariantID   string          `gorm:"not null;type:varchar(50)"`
	ProductName string          `gorm:"not null;type:varchar(100)"`
	VariantName string          `gorm:"not null;type:varchar(100)"`
	Price       decimal.Decimal `gorm:"not null;type:decimal(10,2)"`
	Quantity    int             `gorm:"not null"`
	BaseModel
}

type StaffNote struct {
	NoteID     string    `gorm:"primaryKey;type:varchar(50)"`
	OrderID    string    `gorm:"not null;index;type:varchar(50)"`
	Content    string    `gorm:"not null;type:text"`
	AuthorName string    `gorm:"not null;type:varchar(100)"`
	CreatedAt  time.Time `gorm:"not null"`
}

type StockMovement struct {
	MovementID string    `gorm:"primaryKey;type:varchar(50)"`
	VariantID  string    `gorm:"not null;index;type:varchar(50)"`
	QtyChange  int       `gorm:"not null"`
	Reason     string    `gorm:"not null;type:varchar(255)"`
	CreatedAt  time.Time `gorm:"not null"`
}
