// Package usecase は株式詳細照会のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	portfolioentity "portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain"
	"portfolio_backend/internal/feature/stocks/domain/entity"
)

const (
	// HistoryOutputSize はチャート用に取得する日次終値の件数です（約1年分）。
	HistoryOutputSize = 365
)

// ErrInvalidSymbol は空または不正なシンボルが指定されたことを示します。
var ErrInvalidSymbol = errors.New("invalid stock symbol")

// MarketRepository は外部マーケットデータプロバイダを抽象化します。
// Goの慣例に従い、インターフェースは利用者（usecase）側で定義します。
type MarketRepository interface {
	// GetQuote はシンボルの現在値と企業メタデータを返します。
	GetQuote(ctx context.Context, symbol string) (*entity.StockQuote, error)
	// GetDailySeries はシンボルの日次終値を古い順に最大outputsize件返します。
	GetDailySeries(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error)
}

// HistoryRepository は日次終値の永続化レイヤーを抽象化します。
type HistoryRepository interface {
	// Find はデータベースから日次終値を古い順に最大outputsize件返します。
	Find(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error)
	// UpsertBatch は日次終値を一括で挿入または更新します。
	UpsertBatch(ctx context.Context, points []entity.PricePoint) error
}

// HoldingReader はユーザーの保有を読み取るレイヤーを抽象化します。
// portfolioフィーチャーの台帳アダプタが実装します。
type HoldingReader interface {
	// FindHoldingBySymbol はユーザーのシンボル指定の保有をStock付きで返します。
	// 保有が存在しない場合は(nil, nil)を返します。
	FindHoldingBySymbol(ctx context.Context, userID uint, symbol string) (*portfolioentity.Holding, error)
}

// StockInfo は株式詳細エンドポイントのinfoオブジェクトです。
type StockInfo struct {
	Symbol                     string
	CompanyName                string
	Exchange                   string
	Currency                   string
	Industry                   string
	Sector                     string
	CurrentPrice               decimal.Decimal
	PreviousClose              decimal.Decimal
	RegularMarketChange        decimal.Decimal
	RegularMarketChangePercent decimal.Decimal
}

// StockDetail は株式詳細照会の結果です。
// 未知のシンボルの場合、Infoはnil、Dataは空、Holdingはnilになります。
type StockDetail struct {
	Info    *StockInfo
	Data    []entity.PricePoint
	Holding *portfolioentity.Holding
}

// stockUsecase は株式詳細照会のユースケースを実装します。
type stockUsecase struct {
	market   MarketRepository
	history  HistoryRepository
	holdings HoldingReader
}

// NewStockUsecase はstockUsecaseの新しいインスタンスを生成します。
func NewStockUsecase(market MarketRepository, history HistoryRepository, holdings HoldingReader) *stockUsecase {
	return &stockUsecase{market: market, history: history, holdings: holdings}
}

// GetStockDetail はシンボルの現在値情報・日次終値チャートデータ・
// 呼び出しユーザーの保有を返します。
//
// プロバイダが未知のシンボルと報告した場合はエラーではなく空の詳細を返します
// （「存在しない株式」とサーバ障害を区別するため）。
// 履歴の取得に失敗した場合はinfoのみ返し、dataは空になります。
func (u *stockUsecase) GetStockDetail(ctx context.Context, userID uint, symbol string) (*StockDetail, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, ErrInvalidSymbol
	}

	quote, err := u.market.GetQuote(ctx, symbol)
	if err != nil {
		if errors.Is(err, domain.ErrSymbolNotFound) {
			// 未知のシンボルは成功レスポンス（info=null, data=[], user_stock=null）
			return &StockDetail{Data: []entity.PricePoint{}}, nil
		}
		return nil, err
	}

	detail := &StockDetail{
		Info: buildStockInfo(quote),
		Data: u.loadHistory(ctx, symbol),
	}

	holding, err := u.holdings.FindHoldingBySymbol(ctx, userID, symbol)
	if err != nil {
		return nil, err
	}
	detail.Holding = holding

	return detail, nil
}

// buildStockInfo はクォートから表示用のinfoオブジェクトを組み立てます。
// 前日終値比の変化額・変化率は小数第2位に丸めます。
func buildStockInfo(q *entity.StockQuote) *StockInfo {
	info := &StockInfo{
		Symbol:        q.Symbol,
		CompanyName:   q.CompanyName,
		Exchange:      q.Exchange,
		Currency:      q.Currency,
		Industry:      q.Industry,
		Sector:        q.Sector,
		CurrentPrice:  q.CurrentPrice,
		PreviousClose: q.PreviousClose,
	}
	if q.PreviousClose.IsPositive() {
		change := q.CurrentPrice.Sub(q.PreviousClose)
		info.RegularMarketChange = change.Round(2)
		info.RegularMarketChangePercent = change.
			Div(q.PreviousClose).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return info
}

// loadHistory は日次終値をストアから読み、空の場合はプロバイダから取得して
// ストアに書き戻します。失敗はチャートなし（空スライス）に劣化させます。
func (u *stockUsecase) loadHistory(ctx context.Context, symbol string) []entity.PricePoint {
	points, err := u.history.Find(ctx, symbol, HistoryOutputSize)
	if err != nil {
		slog.Error("failed to load price history", "symbol", symbol, "error", err)
		return []entity.PricePoint{}
	}
	if len(points) > 0 {
		return points
	}

	// ストア未整備のシンボルはプロバイダから直接取得（write-through）
	points, err = u.market.GetDailySeries(ctx, symbol, HistoryOutputSize)
	if err != nil {
		slog.Error("failed to fetch price history", "symbol", symbol, "error", err)
		return []entity.PricePoint{}
	}
	if err := u.history.UpsertBatch(ctx, points); err != nil {
		// 保存失敗でもレスポンスは返せる
		slog.Error("failed to store price history", "symbol", symbol, "error", err)
	}
	return points
}
