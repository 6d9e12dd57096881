// Package dto はstocksフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import (
	"github.com/shopspring/decimal"

	portfoliodto "portfolio_backend/internal/feature/portfolio/transport/http/dto"
	"portfolio_backend/internal/feature/stocks/usecase"
)

// StockInfoRes は株式詳細のinfoオブジェクトです。
type StockInfoRes struct {
	Symbol                     string          `json:"symbol"`
	CompanyName                string          `json:"company_name"`
	Exchange                   string          `json:"exchange"`
	Currency                   string          `json:"currency"`
	Industry                   string          `json:"industry"`
	Sector                     string          `json:"sector"`
	CurrentPrice               decimal.Decimal `json:"current_price"`
	PreviousClose              decimal.Decimal `json:"previous_close"`
	RegularMarketChange        decimal.Decimal `json:"regular_market_change"`
	RegularMarketChangePercent decimal.Decimal `json:"regular_market_change_percent"`
}

// StockDetailRes は株式詳細照会のレスポンスです。
// Dataの各要素は [エポックミリ秒, 終値] の2要素配列で、チャート描画にそのまま使えます。
// 未知のシンボルの場合、Infoとユーザー保有はnull、Dataは空配列になります。
type StockDetailRes struct {
	Info      *StockInfoRes              `json:"info"`
	Data      [][2]float64               `json:"data"`
	UserStock *portfoliodto.UserStockRes `json:"user_stock"`
}

// NewStockDetailRes はユースケースの結果をレスポンスDTOに変換します。
func NewStockDetailRes(d *usecase.StockDetail) StockDetailRes {
	res := StockDetailRes{
		Data:      make([][2]float64, 0, len(d.Data)),
		UserStock: portfoliodto.NewUserStockRes(d.Holding),
	}
	if d.Info != nil {
		res.Info = &StockInfoRes{
			Symbol:                     d.Info.Symbol,
			CompanyName:                d.Info.CompanyName,
			Exchange:                   d.Info.Exchange,
			Currency:                   d.Info.Currency,
			Industry:                   d.Info.Industry,
			Sector:                     d.Info.Sector,
			CurrentPrice:               d.Info.CurrentPrice,
			PreviousClose:              d.Info.PreviousClose,
			RegularMarketChange:        d.Info.RegularMarketChange,
			RegularMarketChangePercent: d.Info.RegularMarketChangePercent,
		}
	}
	for _, p := range d.Data {
		res.Data = append(res.Data, [2]float64{
			float64(p.Time.UnixMilli()),
			p.Close.InexactFloat64(),
		})
	}
	return res
}
