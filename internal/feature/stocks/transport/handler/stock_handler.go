// Package handler はstocksフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/stocks/domain"
	"portfolio_backend/internal/feature/stocks/transport/http/dto"
	"portfolio_backend/internal/feature/stocks/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// StockUsecase は株式詳細照会のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type StockUsecase interface {
	GetStockDetail(ctx context.Context, userID uint, symbol string) (*usecase.StockDetail, error)
}

// StockHandler は株式詳細のHTTPリクエストを処理します。
type StockHandler struct {
	uc StockUsecase
}

// NewStockHandler はStockHandlerの新しいインスタンスを生成します。
func NewStockHandler(uc StockUsecase) *StockHandler {
	return &StockHandler{uc: uc}
}

// GetStock は銘柄の現在値情報・日次チャートデータ・呼び出しユーザーの保有を返します。
// 未知のシンボルはエラーではなく {info: null, data: [], user_stock: null} を返します。
//
// エンドポイント: GET /stocks/:symbol
func (h *StockHandler) GetStock(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	symbol := c.Param("symbol")

	detail, err := h.uc.GetStockDetail(c.Request.Context(), userID, symbol)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidSymbol):
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid stock symbol"})
		case errors.Is(err, domain.ErrQuoteUnavailable):
			slog.Error("market quote unavailable", "operation", "get_stock", "error", err, "user_id", userID, "symbol", symbol)
			c.JSON(http.StatusBadGateway, api.MessageResponse{Message: "market data is unavailable"})
		default:
			slog.Error("stock detail lookup failed", "error", err, "user_id", userID, "symbol", symbol)
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong fetching stock data"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.NewStockDetailRes(detail))
}
