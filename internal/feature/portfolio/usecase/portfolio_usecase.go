package usecase

import (
	"context"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
)

const (
	// DefaultPage は取引履歴のデフォルトページ番号です。
	DefaultPage = 1
	// DefaultPerPage は取引履歴の1ページあたりのデフォルト件数です。
	DefaultPerPage = 10
	// MaxPerPage は取引履歴の1ページあたりの最大件数です。
	MaxPerPage = 100
)

// PortfolioLedger は保有と取引履歴の読み取りレイヤーを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type PortfolioLedger interface {
	// FindHoldingsByUser はユーザーの全保有をStock付きで返します。
	FindHoldingsByUser(ctx context.Context, userID uint) ([]*entity.Holding, error)

	// FindTransactionPage はユーザーの取引履歴をcreated_atの降順で1ページ分返します。
	// 戻り値の2つ目は全取引件数です。各取引はStockを含みます。
	FindTransactionPage(ctx context.Context, userID uint, offset, limit int) ([]*entity.Transaction, int64, error)
}

// TransactionPage は取引履歴のページネーション結果です。
type TransactionPage struct {
	Transactions []*entity.Transaction
	Page         int
	PerPage      int
	Total        int64
	HasNext      bool
	HasPrev      bool
}

// portfolioUsecase は保有・取引履歴の照会ロジックを実装します。
type portfolioUsecase struct {
	ledger PortfolioLedger
}

// NewPortfolioUsecase はportfolioUsecaseの新しいインスタンスを生成します。
func NewPortfolioUsecase(ledger PortfolioLedger) *portfolioUsecase {
	return &portfolioUsecase{ledger: ledger}
}

// GetPortfolio はユーザーの全保有をStock付きで返します。
func (u *portfolioUsecase) GetPortfolio(ctx context.Context, userID uint) ([]*entity.Holding, error) {
	return u.ledger.FindHoldingsByUser(ctx, userID)
}

// GetTransactions はユーザーの取引履歴を新しい順にページネーションして返します。
// pageやperPageが範囲外の場合はデフォルト値を使用し、
// 存在しないページは空のリストを返します（エラーにはしません）。
func (u *portfolioUsecase) GetTransactions(ctx context.Context, userID uint, page, perPage int) (*TransactionPage, error) {
	if page <= 0 {
		page = DefaultPage
	}
	if perPage <= 0 || perPage > MaxPerPage {
		perPage = DefaultPerPage
	}

	offset := (page - 1) * perPage
	txs, total, err := u.ledger.FindTransactionPage(ctx, userID, offset, perPage)
	if err != nil {
		return nil, err
	}

	return &TransactionPage{
		Transactions: txs,
		Page:         page,
		PerPage:      perPage,
		Total:        total,
		HasNext:      int64(page*perPage) < total,
		HasPrev:      page > 1,
	}, nil
}
