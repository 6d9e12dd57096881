// Package handler はadvisorフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/advisor/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// AdvisorUsecase はポートフォリオ分析のユースケースインターフェースを定義します。
type AdvisorUsecase interface {
	GetAnalysis(ctx context.Context, userID uint) ([]string, error)
}

// AdvisorHandler はポートフォリオ分析のHTTPリクエストを処理します。
type AdvisorHandler struct {
	uc AdvisorUsecase
}

// NewAdvisorHandler はAdvisorHandlerの新しいインスタンスを生成します。
func NewAdvisorHandler(uc AdvisorUsecase) *AdvisorHandler {
	return &AdvisorHandler{uc: uc}
}

// GetAnalysis はユーザーのポートフォリオに対するAIコメントを3文で返します。
//
// エンドポイント: GET /users/me/portfolio/analysis
func (h *AdvisorHandler) GetAnalysis(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)

	sentences, err := h.uc.GetAnalysis(c.Request.Context(), userID)
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrEmptyPortfolio):
			c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "portfolio is empty"})
		case errors.Is(err, usecase.ErrAnalysisFailed):
			// 外部サービスの失敗内容はログのみに残す
			slog.Error("portfolio analysis failed", "error", err, "user_id", userID)
			c.JSON(http.StatusBadGateway, api.MessageResponse{Message: "analysis is unavailable"})
		default:
			slog.Error("portfolio analysis lookup failed", "error", err, "user_id", userID)
			c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"analysis": sentences})
}
