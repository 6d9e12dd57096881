package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/portfolio/transport/http/dto"
	"portfolio_backend/internal/feature/portfolio/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// PortfolioUsecase は保有・取引履歴照会のユースケースインターフェースを定義します。
type PortfolioUsecase interface {
	GetPortfolio(ctx context.Context, userID uint) ([]*entity.Holding, error)
	GetTransactions(ctx context.Context, userID uint, page, perPage int) (*usecase.TransactionPage, error)
}

// PortfolioHandler は保有・取引履歴のHTTPリクエストを処理します。
type PortfolioHandler struct {
	uc PortfolioUsecase
}

// NewPortfolioHandler はPortfolioHandlerの新しいインスタンスを生成します。
func NewPortfolioHandler(uc PortfolioUsecase) *PortfolioHandler {
	return &PortfolioHandler{uc: uc}
}

// GetPortfolio はユーザーの全保有を返します。
//
// エンドポイント: GET /users/me/portfolio
func (h *PortfolioHandler) GetPortfolio(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	holdings, err := h.uc.GetPortfolio(c.Request.Context(), userID)
	if err != nil {
		slog.Error("portfolio lookup failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong"})
		return
	}

	out := make([]*dto.UserStockRes, 0, len(holdings))
	for _, hdg := range holdings {
		out = append(out, dto.NewUserStockRes(hdg))
	}
	c.JSON(http.StatusOK, out)
}

// GetTransactions はユーザーの取引履歴を新しい順に1ページ分返します。
//
// エンドポイント: GET /users/me/transactions?page=1&per_page=10
func (h *PortfolioHandler) GetTransactions(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	// 不正な値はusecase側でデフォルトに丸められる
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))

	result, err := h.uc.GetTransactions(c.Request.Context(), userID, page, perPage)
	if err != nil {
		slog.Error("transaction page lookup failed", "error", err, "user_id", userID, "page", page)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong"})
		return
	}

	out := make([]dto.TransactionRes, 0, len(result.Transactions))
	for _, t := range result.Transactions {
		out = append(out, dto.NewTransactionRes(t))
	}
	c.JSON(http.StatusOK, dto.TransactionPageRes{
		Transactions:      out,
		Page:              result.Page,
		PerPage:           result.PerPage,
		TotalTransactions: result.Total,
		HasNext:           result.HasNext,
		HasPrev:           result.HasPrev,
	})
}
