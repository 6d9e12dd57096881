package router

import (
	"github.com/gin-gonic/gin"

	advisorhandler "portfolio_backend/internal/feature/advisor/transport/handler"
	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	portfoliohandler "portfolio_backend/internal/feature/portfolio/transport/handler"
	stockshandler "portfolio_backend/internal/feature/stocks/transport/handler"
	"portfolio_backend/internal/platform/http/handler"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// NewRouter はアプリケーションの全ルートを登録したgin.Engineを生成します。
func NewRouter(
	authHandler *authhandler.AuthHandler,
	trade *portfoliohandler.TradeHandler,
	portfolio *portfoliohandler.PortfolioHandler,
	stocks *stockshandler.StockHandler,
	advisor *advisorhandler.AdvisorHandler,
	sessions jwtmw.SessionVerifier,
) *gin.Engine {
	r := gin.Default()

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	// 新規ユーザー登録
	r.POST("/signup", authHandler.Signup)
	// ログイン（JWT 発行）
	r.POST("/login", authHandler.Login)
	// トークン検証（未認証でも200を返す）
	r.GET("/auth/validate", jwtmw.AuthOptional(sessions), authHandler.Validate)

	// 認証必須のルート
	auth := r.Group("/")
	// リクエストヘッダーに JWT が必要になる
	auth.Use(jwtmw.AuthRequired(sessions))
	{
		auth.POST("/logout", authHandler.Logout)

		auth.POST("/stocks/buy", trade.Buy)
		auth.POST("/stocks/sell", trade.Sell)
		auth.GET("/stocks/:symbol", stocks.GetStock)

		auth.GET("/users/me/portfolio", portfolio.GetPortfolio)
		auth.GET("/users/me/transactions", portfolio.GetTransactions)
		auth.GET("/users/me/portfolio/analysis", advisor.GetAnalysis)
	}

	return r
}
