// Package dto はportfolioフィーチャーのHTTPトランスポート層のデータ転送オブジェクトを定義します。
package dto

import "github.com/shopspring/decimal"

// TradeReq は /stocks/buy と /stocks/sell のリクエストボディを表します。
// CurrentPriceはクライアントが取引画面で見た価格で、サーバ側で現在値との乖離を検証します。
type TradeReq struct {
	Symbol       string          `json:"symbol" binding:"required"`
	Quantity     int64           `json:"quantity" binding:"required,gt=0"`
	CurrentPrice decimal.Decimal `json:"current_price" binding:"required"`
}
