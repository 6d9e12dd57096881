// Package adapters はportfolioフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
)

// StockModel is the GORM model for the stocks table.
type StockModel struct {
	ID          string `gorm:"primaryKey;size:36"`
	Symbol      string `gorm:"size:10;not null;uniqueIndex"`
	CompanyName string `gorm:"size:150;not null"`
	Industry    string `gorm:"size:150;not null"`
	Sector      string `gorm:"size:150;not null"`
	CreatedAt   time.Time
}

// TableName returns the table name for GORM.
func (StockModel) TableName() string {
	return "stocks"
}

// ToEntity converts the GORM model to a domain entity.
func (m *StockModel) ToEntity() *entity.Stock {
	return &entity.Stock{
		ID:          m.ID,
		Symbol:      m.Symbol,
		CompanyName: m.CompanyName,
		Industry:    m.Industry,
		Sector:      m.Sector,
		CreatedAt:   m.CreatedAt,
	}
}

// HoldingModel is the GORM model for the holdings table.
// The composite unique index enforces at most one row per (user, stock) pair.
type HoldingModel struct {
	ID        string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"not null;uniqueIndex:holding_user_stock,priority:1"`
	StockID   string `gorm:"size:36;not null;uniqueIndex:holding_user_stock,priority:2"`
	Quantity  int64  `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Stock *StockModel `gorm:"foreignKey:StockID"`
}

// TableName returns the table name for GORM.
func (HoldingModel) TableName() string {
	return "holdings"
}

// ToEntity converts the GORM model to a domain entity.
func (m *HoldingModel) ToEntity() *entity.Holding {
	h := &entity.Holding{
		ID:        m.ID,
		UserID:    m.UserID,
		StockID:   m.StockID,
		Quantity:  m.Quantity,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Stock != nil {
		h.Stock = m.Stock.ToEntity()
	}
	return h
}

// TransactionModel is the GORM model for the transactions table.
// Rows are append-only: the repository never updates or deletes them.
type TransactionModel struct {
	ID              string          `gorm:"primaryKey;size:36"`
	UserID          uint            `gorm:"index;not null"`
	StockID         string          `gorm:"size:36;not null"`
	TransactionType string          `gorm:"size:4;not null"`
	Quantity        int64           `gorm:"not null"`
	CostPerShare    decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	TotalCost       decimal.Decimal `gorm:"type:decimal(15,2);not null"`
	CreatedAt       time.Time       `gorm:"index"`

	Stock *StockModel `gorm:"foreignKey:StockID"`
}

// TableName returns the table name for GORM.
func (TransactionModel) TableName() string {
	return "transactions"
}

// ToEntity converts the GORM model to a domain entity.
func (m *TransactionModel) ToEntity() *entity.Transaction {
	t := &entity.Transaction{
		ID:           m.ID,
		UserID:       m.UserID,
		StockID:      m.StockID,
		Type:         entity.TransactionType(m.TransactionType),
		Quantity:     m.Quantity,
		CostPerShare: m.CostPerShare,
		TotalCost:    m.TotalCost,
		CreatedAt:    m.CreatedAt,
	}
	if m.Stock != nil {
		t.Stock = m.Stock.ToEntity()
	}
	return t
}
