// Package adapters はstocksフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
)

// historyMySQL はHistoryRepositoryインターフェースのMySQL実装です。
type historyMySQL struct {
	db *gorm.DB
}

var _ usecase.HistoryRepository = (*historyMySQL)(nil)

// NewHistoryMySQL は指定されたgorm.DB接続でhistoryMySQLの新しいインスタンスを生成します。
func NewHistoryMySQL(db *gorm.DB) *historyMySQL {
	return &historyMySQL{db: db}
}

// PricePointModel is the GORM model for the price_points table.
type PricePointModel struct {
	ID     uint            `gorm:"primaryKey"`
	Symbol string          `gorm:"size:10;not null;uniqueIndex:price_sym_time,priority:1"`
	Time   time.Time       `gorm:"not null;uniqueIndex:price_sym_time,priority:2"`
	Close  decimal.Decimal `gorm:"type:decimal(15,2);not null"`
}

// TableName returns the table name for GORM.
func (PricePointModel) TableName() string {
	return "price_points"
}

func toModel(p entity.PricePoint) PricePointModel {
	return PricePointModel{
		Symbol: p.Symbol,
		Time:   p.Time,
		Close:  p.Close,
	}
}

// UpsertBatch は日次終値を(symbol, time)をキーに一括で挿入または更新します。
func (r *historyMySQL) UpsertBatch(ctx context.Context, points []entity.PricePoint) error {
	if len(points) == 0 {
		return nil
	}
	ms := make([]PricePointModel, 0, len(points))
	for _, p := range points {
		ms = append(ms, toModel(p))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "symbol"}, {Name: "time"}},
		DoUpdates: clause.AssignmentColumns([]string{"close"}),
	}).Create(&ms).Error
}

// Find はシンボルの日次終値を古い順に最大outputsize件返します。
// 直近outputsize件を選んでから時系列順に並べ直します。
func (r *historyMySQL) Find(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
	var rows []PricePointModel
	if err := r.db.WithContext(ctx).
		Where("symbol = ?", symbol).
		Order("time DESC").
		Limit(outputsize).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	points := make([]entity.PricePoint, 0, len(rows))
	for i := len(rows) - 1; i >= 0; i-- {
		points = append(points, entity.PricePoint{
			Symbol: rows[i].Symbol,
			Time:   rows[i].Time,
			Close:  rows[i].Close,
		})
	}
	return points, nil
}
