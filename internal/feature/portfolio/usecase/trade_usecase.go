package usecase

import (
	"context"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
	stockentity "portfolio_backend/internal/feature/stocks/domain/entity"
)

// MarketQuoter は外部マーケットデータプロバイダから現在値と銘柄情報を取得します。
// Goの慣例に従い、インターフェースはプロバイダー（platform/externalapi）ではなくコンシューマー（usecase）が定義します。
type MarketQuoter interface {
	// GetQuote は指定されたシンボルの現在値と企業メタデータを返します。
	// シンボルが存在しない場合はstocksフィーチャーのdomain.ErrSymbolNotFound、
	// プロバイダに到達できない場合はdomain.ErrQuoteUnavailableを返します。
	GetQuote(ctx context.Context, symbol string) (*stockentity.StockQuote, error)
}

// BuyRecord は1回の買い注文による台帳書き込みの結果です。
type BuyRecord struct {
	// Holding はコミット後の保有レコードです。Stockを含みます。
	Holding *entity.Holding
	// Transaction は追記された台帳エントリです。
	Transaction *entity.Transaction
	// Created はこの買いで保有レコードが新規作成された場合にtrueです。
	Created bool
}

// SellRecord は1回の売り注文による台帳書き込みの結果です。
type SellRecord struct {
	// RemainingQuantity はコミット後の保有数量です。保有が削除された場合は0です。
	RemainingQuantity int64
	// Transaction は追記された台帳エントリです。
	Transaction *entity.Transaction
}

// TradeLedger は買い・売りの複数行書き込みをアトミックに実行する台帳ストアを抽象化します。
// 同一(user, stock)ペアに対する並行操作は実装側で直列化されます。
type TradeLedger interface {
	// RecordBuy は「株式のupsert-if-absent、保有の作成または加算、取引エントリの追記」を
	// 1つのトランザクションとしてコミットします。
	RecordBuy(ctx context.Context, userID uint, quote *stockentity.StockQuote, quantity int64, costPerShare decimal.Decimal) (*BuyRecord, error)

	// RecordSell は「保有の減算（0になれば削除）と取引エントリの追記」を
	// 1つのトランザクションとしてコミットします。
	// ErrStockNotFound / ErrNotOwned / ErrInsufficientShares を返すことがあります。
	RecordSell(ctx context.Context, userID uint, symbol string, quantity int64, costPerShare decimal.Decimal) (*SellRecord, error)
}

// TradeConfig は取引検証の設定値を保持します。
type TradeConfig struct {
	// PriceTolerancePct はクライアント価格と現在値の許容乖離（パーセント）です。
	// 1.0 の場合、expected*0.99 〜 expected*1.01 の範囲を受理します。
	PriceTolerancePct decimal.Decimal
}

// LoadTradeConfig は環境変数から取引設定を読み込みます。
// TRADE_PRICE_TOLERANCE_PCT が未設定または不正な場合は1%を使用します。
func LoadTradeConfig() TradeConfig {
	tol := decimal.NewFromInt(1)
	if v := os.Getenv("TRADE_PRICE_TOLERANCE_PCT"); v != "" {
		if parsed, err := decimal.NewFromString(v); err == nil && parsed.IsPositive() {
			tol = parsed
		}
	}
	return TradeConfig{PriceTolerancePct: tol}
}

// BuyResult は買い注文APIに返す結果です。
type BuyResult struct {
	// Quantity はコミット後の保有数量です。
	Quantity int64
	// TotalCost はこの取引の総額（quantity × costPerShare）です。
	TotalCost decimal.Decimal
	// NewHolding はこの買いで保有が新規作成された場合のみ設定されます。
	NewHolding *entity.Holding
}

// SellResult は売り注文APIに返す結果です。
type SellResult struct {
	// Quantity はコミット後の保有数量です。全株売却時は0です。
	Quantity int64
	// TotalCost はこの取引の総額です。
	TotalCost decimal.Decimal
}

// tradeUsecase は買い・売り注文のビジネスロジックを実装します。
type tradeUsecase struct {
	market MarketQuoter
	ledger TradeLedger
	cfg    TradeConfig
}

// NewTradeUsecase はtradeUsecaseの新しいインスタンスを生成します。
func NewTradeUsecase(market MarketQuoter, ledger TradeLedger, cfg TradeConfig) *tradeUsecase {
	return &tradeUsecase{market: market, ledger: ledger, cfg: cfg}
}

// normalizeSymbol はシンボルをトリムして大文字に正規化します。
func normalizeSymbol(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

// validateQuote は入力を検証し、現在値を取得してトレランスバンドをチェックします。
// 戻り値は正規化済みシンボルと取得したクォートです。
func (u *tradeUsecase) validateQuote(ctx context.Context, symbol string, quantity int64, clientPrice decimal.Decimal) (*stockentity.StockQuote, error) {
	if symbol == "" || quantity <= 0 || !clientPrice.IsPositive() {
		return nil, ErrInvalidInput
	}

	// 台帳のクリティカルセクションに入る前に外部プロバイダを呼び出す。
	// ここではロックを一切保持しない。
	quote, err := u.market.GetQuote(ctx, symbol)
	if err != nil {
		return nil, err
	}

	// クォート表示からサーバ検証までの遅延を吸収しつつ、
	// 古い・改竄された価格を拒否するトレランスバンド
	hundred := decimal.NewFromInt(100)
	lower := quote.CurrentPrice.Mul(hundred.Sub(u.cfg.PriceTolerancePct)).Div(hundred)
	upper := quote.CurrentPrice.Mul(hundred.Add(u.cfg.PriceTolerancePct)).Div(hundred)
	if clientPrice.Cmp(lower) < 0 || clientPrice.Cmp(upper) > 0 {
		return nil, ErrPriceMismatch
	}
	return quote, nil
}

// Buy は買い注文を検証し、台帳にアトミックに適用します。
//
// 手順:
//  1. 入力検証（数量 > 0、価格 > 0、シンボル非空）
//  2. クォート取得とトレランスバンド検証
//  3. 株式upsert・保有加算・取引追記を1トランザクションでコミット
//
// 取引のcost_per_shareにはクライアントがロックインした価格を使用します
// （ゲートウェイ価格ではない）。
func (u *tradeUsecase) Buy(ctx context.Context, userID uint, symbol string, quantity int64, clientPrice decimal.Decimal) (*BuyResult, error) {
	symbol = normalizeSymbol(symbol)
	quote, err := u.validateQuote(ctx, symbol, quantity, clientPrice)
	if err != nil {
		return nil, err
	}

	rec, err := u.ledger.RecordBuy(ctx, userID, quote, quantity, clientPrice)
	if err != nil {
		return nil, err
	}

	res := &BuyResult{
		Quantity:  rec.Holding.Quantity,
		TotalCost: rec.Transaction.TotalCost,
	}
	if rec.Created {
		res.NewHolding = rec.Holding
	}
	return res, nil
}

// Sell は売り注文を検証し、台帳にアトミックに適用します。
// 保有数量の検証は競合状態を避けるため台帳トランザクション内で行われます。
func (u *tradeUsecase) Sell(ctx context.Context, userID uint, symbol string, quantity int64, clientPrice decimal.Decimal) (*SellResult, error) {
	symbol = normalizeSymbol(symbol)
	if _, err := u.validateQuote(ctx, symbol, quantity, clientPrice); err != nil {
		return nil, err
	}

	rec, err := u.ledger.RecordSell(ctx, userID, symbol, quantity, clientPrice)
	if err != nil {
		return nil, err
	}

	return &SellResult{
		Quantity:  rec.RemainingQuantity,
		TotalCost: rec.Transaction.TotalCost,
	}, nil
}
