// Package handler はportfolioフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/portfolio/transport/http/dto"
	"portfolio_backend/internal/feature/portfolio/usecase"
	stocksdomain "portfolio_backend/internal/feature/stocks/domain"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// TradeUsecase は買い・売り注文のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type TradeUsecase interface {
	Buy(ctx context.Context, userID uint, symbol string, quantity int64, clientPrice decimal.Decimal) (*usecase.BuyResult, error)
	Sell(ctx context.Context, userID uint, symbol string, quantity int64, clientPrice decimal.Decimal) (*usecase.SellResult, error)
}

// TradeHandler は買い・売り注文のHTTPリクエストを処理します。
type TradeHandler struct {
	uc TradeUsecase
}

// NewTradeHandler はTradeHandlerの新しいインスタンスを生成します。
func NewTradeHandler(uc TradeUsecase) *TradeHandler {
	return &TradeHandler{uc: uc}
}

// Buy は株式の買い注文APIエンドポイントを処理します。
//
// エンドポイント: POST /stocks/buy
// ボディ: {"symbol": "AAPL", "quantity": 10, "current_price": "150.00"}
func (h *TradeHandler) Buy(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req dto.TradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("buy validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid data"})
		return
	}

	result, err := h.uc.Buy(c.Request.Context(), userID, req.Symbol, req.Quantity, req.CurrentPrice)
	if err != nil {
		h.writeTradeError(c, "buy", userID, req.Symbol, err)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	c.JSON(http.StatusOK, dto.BuyRes{
		Message:      fmt.Sprintf("Successfully bought %d shares of %s", req.Quantity, symbol),
		Quantity:     result.Quantity,
		TotalCost:    result.TotalCost,
		NewUserStock: dto.NewUserStockRes(result.NewHolding),
	})
}

// Sell は株式の売り注文APIエンドポイントを処理します。
//
// エンドポイント: POST /stocks/sell
// ボディはBuyと同一形式です。
func (h *TradeHandler) Sell(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	var req dto.TradeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("sell validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid data"})
		return
	}

	result, err := h.uc.Sell(c.Request.Context(), userID, req.Symbol, req.Quantity, req.CurrentPrice)
	if err != nil {
		h.writeTradeError(c, "sell", userID, req.Symbol, err)
		return
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	c.JSON(http.StatusOK, dto.SellRes{
		Message:   fmt.Sprintf("Successfully sold %d shares of %s", req.Quantity, symbol),
		Quantity:  result.Quantity,
		TotalCost: result.TotalCost,
	})
}

// writeTradeError はユースケースのエラーをHTTPステータスに対応付けます。
// サーバ側の失敗は詳細をログに残し、レスポンスボディは汎用メッセージに留めます。
func (h *TradeHandler) writeTradeError(c *gin.Context, op string, userID uint, symbol string, err error) {
	switch {
	case errors.Is(err, usecase.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid data"})
	case errors.Is(err, stocksdomain.ErrSymbolNotFound):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid stock symbol"})
	case errors.Is(err, usecase.ErrPriceMismatch):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "the current price is incorrect"})
	case errors.Is(err, usecase.ErrStockNotFound):
		c.JSON(http.StatusNotFound, api.MessageResponse{Message: "stock not found"})
	case errors.Is(err, usecase.ErrNotOwned):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "you do not own this stock"})
	case errors.Is(err, usecase.ErrInsufficientShares):
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "not enough shares to sell"})
	case errors.Is(err, stocksdomain.ErrQuoteUnavailable):
		slog.Error("market quote unavailable", "operation", op, "error", err, "user_id", userID, "symbol", symbol)
		c.JSON(http.StatusBadGateway, api.MessageResponse{Message: "market data is unavailable"})
	default:
		slog.Error("trade failed", "operation", op, "error", err, "user_id", userID, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong"})
	}
}
