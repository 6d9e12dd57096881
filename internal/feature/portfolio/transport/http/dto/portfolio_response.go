package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
)

// StockRes はAPIレスポンスに埋め込む株式メタデータです。
type StockRes struct {
	ID          string `json:"id"`
	Symbol      string `json:"symbol"`
	CompanyName string `json:"company_name"`
	Industry    string `json:"industry"`
	Sector      string `json:"sector"`
}

// UserStockRes はユーザーの保有1件のレスポンスDTOです。
type UserStockRes struct {
	ID       string    `json:"id"`
	UserID   uint      `json:"user_id"`
	StockID  string    `json:"stock_id"`
	Quantity int64     `json:"quantity"`
	Stock    *StockRes `json:"stock"`
}

// TransactionRes は取引履歴1件のレスポンスDTOです。
type TransactionRes struct {
	ID              string          `json:"id"`
	StockID         string          `json:"stock_id"`
	TransactionType string          `json:"transaction_type"`
	Quantity        int64           `json:"quantity"`
	CostPerShare    decimal.Decimal `json:"cost_per_share"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	CreatedAt       time.Time       `json:"created_at"`
	Stock           *StockRes       `json:"stock"`
}

// BuyRes は買い注文成功時のレスポンスです。
// NewUserStockはこの買いで保有が新規作成された場合のみ非nilです。
type BuyRes struct {
	Message      string          `json:"message"`
	Quantity     int64           `json:"quantity"`
	TotalCost    decimal.Decimal `json:"total_cost"`
	NewUserStock *UserStockRes   `json:"new_user_stock"`
}

// SellRes は売り注文成功時のレスポンスです。Quantityは売却後の残数量です。
type SellRes struct {
	Message   string          `json:"message"`
	Quantity  int64           `json:"quantity"`
	TotalCost decimal.Decimal `json:"total_cost"`
}

// TransactionPageRes は取引履歴のページネーションレスポンスです。
type TransactionPageRes struct {
	Transactions      []TransactionRes `json:"transactions"`
	Page              int              `json:"page"`
	PerPage           int              `json:"per_page"`
	TotalTransactions int64            `json:"total_transactions"`
	HasNext           bool             `json:"has_next"`
	HasPrev           bool             `json:"has_prev"`
}

// NewStockRes はStockエンティティをDTOに変換します。nilはnilのまま返します。
func NewStockRes(s *entity.Stock) *StockRes {
	if s == nil {
		return nil
	}
	return &StockRes{
		ID:          s.ID,
		Symbol:      s.Symbol,
		CompanyName: s.CompanyName,
		Industry:    s.Industry,
		Sector:      s.Sector,
	}
}

// NewUserStockRes はHoldingエンティティをDTOに変換します。nilはnilのまま返します。
func NewUserStockRes(h *entity.Holding) *UserStockRes {
	if h == nil {
		return nil
	}
	return &UserStockRes{
		ID:       h.ID,
		UserID:   h.UserID,
		StockID:  h.StockID,
		Quantity: h.Quantity,
		Stock:    NewStockRes(h.Stock),
	}
}

// NewTransactionRes はTransactionエンティティをDTOに変換します。
func NewTransactionRes(t *entity.Transaction) TransactionRes {
	return TransactionRes{
		ID:              t.ID,
		StockID:         t.StockID,
		TransactionType: string(t.Type),
		Quantity:        t.Quantity,
		CostPerShare:    t.CostPerShare,
		TotalCost:       t.TotalCost,
		CreatedAt:       t.CreatedAt,
		Stock:           NewStockRes(t.Stock),
	}
}
