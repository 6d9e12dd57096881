package adapters

import (
	"context"
	"errors"

	"github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/portfolio/usecase"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
)

// ledgerMySQL はTradeLedger/PortfolioLedgerインターフェースのMySQL実装です。
// GORMを使用し、買い・売りの複数行書き込みを単一トランザクションでコミットします。
type ledgerMySQL struct {
	db *gorm.DB
}

// ledgerMySQLが各インターフェースを実装していることをコンパイル時に検証します。
var (
	_ usecase.TradeLedger     = (*ledgerMySQL)(nil)
	_ usecase.PortfolioLedger = (*ledgerMySQL)(nil)
)

// NewLedgerMySQL は指定されたgorm.DB接続でledgerMySQLの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタです。
func NewLedgerMySQL(db *gorm.DB) *ledgerMySQL {
	return &ledgerMySQL{db: db}
}

// errHoldingRace は同一(user, stock)ペアへの並行初回買いが衝突したことを示す内部エラーです。
// トランザクション全体を1回リトライするシグナルとして使います。
var errHoldingRace = errors.New("holding insert race")

// isDuplicateKey はユニーク制約違反かどうかを判定します。
// MySQLエラー1062、またはドライバのエラー変換によるgorm.ErrDuplicatedKeyを検出します。
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

// lockForUpdate は行ロック（SELECT ... FOR UPDATE）を付与します。
// SQLite（テスト用）はFOR UPDATEをサポートせず、書き込みを自前で直列化するため、
// ロック句はMySQLダイアレクトのみに適用します。
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// findOrCreateStock はシンボルで株式を検索し、存在しなければクォートのメタデータで作成します。
// 並行する初回買い同士が作成を競った場合、敗者はユニーク制約違反を検出して
// 勝者の行を読み直します。既存行のメタデータは更新しません（write-once）。
func findOrCreateStock(tx *gorm.DB, symbol, companyName, industry, sector string) (*StockModel, error) {
	var sm StockModel
	err := tx.Where("symbol = ?", symbol).First(&sm).Error
	if err == nil {
		return &sm, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	sm = StockModel{
		ID:          uuid.NewString(),
		Symbol:      symbol,
		CompanyName: companyName,
		Industry:    industry,
		Sector:      sector,
	}
	if err := tx.Create(&sm).Error; err != nil {
		if isDuplicateKey(err) {
			// 作成レースの敗者: 勝者の行を読み直す
			var winner StockModel
			if err := tx.Where("symbol = ?", symbol).First(&winner).Error; err != nil {
				return nil, err
			}
			return &winner, nil
		}
		return nil, err
	}
	return &sm, nil
}

// RecordBuy は買い注文の台帳書き込みをアトミックに実行します。
//
// トランザクション内容:
//  1. 株式のupsert-if-absent（メタデータはクォート由来）
//  2. (user, stock)の保有行をFOR UPDATEでロックし、加算または新規作成
//  3. 取引エントリを追記（total_cost = quantity × costPerShare）
//
// 保有の新規作成がユニーク制約で弾かれた場合（並行初回買い）、
// トランザクション全体を1回だけリトライします。
func (r *ledgerMySQL) RecordBuy(ctx context.Context, userID uint, quote *stockentity.StockQuote, quantity int64, costPerShare decimal.Decimal) (*usecase.BuyRecord, error) {
	var rec *usecase.BuyRecord

	run := func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			sm, err := findOrCreateStock(tx, quote.Symbol, quote.CompanyName, quote.Industry, quote.Sector)
			if err != nil {
				return err
			}

			created := false
			var hm HoldingModel
			err = lockForUpdate(tx).
				Where("user_id = ? AND stock_id = ?", userID, sm.ID).
				First(&hm).Error
			switch {
			case err == nil:
				hm.Quantity += quantity
				if err := tx.Model(&hm).Update("quantity", hm.Quantity).Error; err != nil {
					return err
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				created = true
				hm = HoldingModel{
					ID:       uuid.NewString(),
					UserID:   userID,
					StockID:  sm.ID,
					Quantity: quantity,
				}
				if err := tx.Create(&hm).Error; err != nil {
					if isDuplicateKey(err) {
						// 並行する初回買いに敗北。トランザクションごとやり直す。
						return errHoldingRace
					}
					return err
				}
			default:
				return err
			}

			tm := TransactionModel{
				ID:              uuid.NewString(),
				UserID:          userID,
				StockID:         sm.ID,
				TransactionType: string(entity.TransactionTypeBuy),
				Quantity:        quantity,
				CostPerShare:    costPerShare,
				TotalCost:       costPerShare.Mul(decimal.NewFromInt(quantity)),
			}
			if err := tx.Create(&tm).Error; err != nil {
				return err
			}

			holding := hm.ToEntity()
			holding.Stock = sm.ToEntity()
			rec = &usecase.BuyRecord{
				Holding:     holding,
				Transaction: tm.ToEntity(),
				Created:     created,
			}
			return nil
		})
	}

	err := run()
	if errors.Is(err, errHoldingRace) {
		// フォールバックリトライ: 今度は勝者の行が見つかり加算パスを通る
		err = run()
		if errors.Is(err, errHoldingRace) {
			return nil, usecase.ErrStoreConflict
		}
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// RecordSell は売り注文の台帳書き込みをアトミックに実行します。
// 保有数量の検証はロック取得後に行うため、並行売りによる過剰売却は発生しません。
// 数量がちょうど0になった保有は削除します（0で永続化しない）。
func (r *ledgerMySQL) RecordSell(ctx context.Context, userID uint, symbol string, quantity int64, costPerShare decimal.Decimal) (*usecase.SellRecord, error) {
	var rec *usecase.SellRecord

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var sm StockModel
		if err := tx.Where("symbol = ?", symbol).First(&sm).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrStockNotFound
			}
			return err
		}

		var hm HoldingModel
		err := lockForUpdate(tx).
			Where("user_id = ? AND stock_id = ?", userID, sm.ID).
			First(&hm).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return usecase.ErrNotOwned
			}
			return err
		}

		if hm.Quantity < quantity {
			return usecase.ErrInsufficientShares
		}

		remaining := hm.Quantity - quantity
		if remaining == 0 {
			if err := tx.Delete(&hm).Error; err != nil {
				return err
			}
		} else {
			if err := tx.Model(&hm).Update("quantity", remaining).Error; err != nil {
				return err
			}
		}

		tm := TransactionModel{
			ID:              uuid.NewString(),
			UserID:          userID,
			StockID:         sm.ID,
			TransactionType: string(entity.TransactionTypeSell),
			Quantity:        quantity,
			CostPerShare:    costPerShare,
			TotalCost:       costPerShare.Mul(decimal.NewFromInt(quantity)),
		}
		if err := tx.Create(&tm).Error; err != nil {
			return err
		}

		rec = &usecase.SellRecord{
			RemainingQuantity: remaining,
			Transaction:       tm.ToEntity(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// FindHoldingsByUser はユーザーの全保有をStock付きで返します。
func (r *ledgerMySQL) FindHoldingsByUser(ctx context.Context, userID uint) ([]*entity.Holding, error) {
	var models []HoldingModel
	if err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	holdings := make([]*entity.Holding, 0, len(models))
	for i := range models {
		holdings = append(holdings, models[i].ToEntity())
	}
	return holdings, nil
}

// FindHoldingBySymbol はユーザーのシンボル指定の保有をStock付きで返します。
// 保有が存在しない場合は(nil, nil)を返します。
func (r *ledgerMySQL) FindHoldingBySymbol(ctx context.Context, userID uint, symbol string) (*entity.Holding, error) {
	var hm HoldingModel
	err := r.db.WithContext(ctx).
		Preload("Stock").
		Joins("JOIN stocks ON stocks.id = holdings.stock_id").
		Where("holdings.user_id = ? AND stocks.symbol = ?", userID, symbol).
		First(&hm).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return hm.ToEntity(), nil
}

// FindTransactionPage はユーザーの取引履歴をcreated_atの降順で1ページ分返します。
// ページ範囲外のoffsetは空のリストを返します。
func (r *ledgerMySQL) FindTransactionPage(ctx context.Context, userID uint, offset, limit int) ([]*entity.Transaction, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).
		Model(&TransactionModel{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var models []TransactionModel
	if err := r.db.WithContext(ctx).
		Preload("Stock").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(limit).
		Find(&models).Error; err != nil {
		return nil, 0, err
	}

	txs := make([]*entity.Transaction, 0, len(models))
	for i := range models {
		txs = append(txs, models[i].ToEntity())
	}
	return txs, total, nil
}

// ListStockSymbols は台帳に存在する全株式のシンボルを返します。
// 価格履歴の一括取得（ingest）で使用します。
func (r *ledgerMySQL) ListStockSymbols(ctx context.Context) ([]string, error) {
	var symbols []string
	if err := r.db.WithContext(ctx).
		Model(&StockModel{}).
		Order("symbol ASC").
		Pluck("symbol", &symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}
