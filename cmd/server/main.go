package main

import (
	"context"
	"log"
	"os"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_backend/internal/app/di"
	"portfolio_backend/internal/app/router"
	advisorhandler "portfolio_backend/internal/feature/advisor/transport/handler"
	advisorusecase "portfolio_backend/internal/feature/advisor/usecase"
	authadapters "portfolio_backend/internal/feature/auth/adapters"
	authhandler "portfolio_backend/internal/feature/auth/transport/handler"
	authusecase "portfolio_backend/internal/feature/auth/usecase"
	portfolioadapters "portfolio_backend/internal/feature/portfolio/adapters"
	portfoliohandler "portfolio_backend/internal/feature/portfolio/transport/handler"
	portfoliousecase "portfolio_backend/internal/feature/portfolio/usecase"
	stocksadapters "portfolio_backend/internal/feature/stocks/adapters"
	stockshandler "portfolio_backend/internal/feature/stocks/transport/handler"
	stocksusecase "portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/cache"
	infradb "portfolio_backend/internal/platform/db"
	jwt "portfolio_backend/internal/platform/jwt"
	infraredis "portfolio_backend/internal/platform/redis"
)

func main() {
	// db
	db := infradb.OpenDB()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
		rdb = nil
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	userRepo := authadapters.NewUserMySQL(db)
	sessionRepo := di.NewSessionRepository(rdb, db)
	ledger := portfolioadapters.NewLedgerMySQL(db)
	historyRepo := stocksadapters.NewHistoryMySQL(db)
	market := di.NewMarket()

	// Redisキャッシュでラップ
	ttl := cache.TimeUntilNextMarketMorning()
	cachedHistoryRepo := cache.NewCachingHistoryRepository(rdb, ttl, historyRepo, "history")

	// 外部テキスト生成（Gemini）
	textGen, err := di.NewTextGenerator(context.Background())
	if err != nil {
		log.Fatal("failed to create text generator:", err)
	}

	// JWT
	if os.Getenv(jwt.EnvKeyJWTSecret) == "" {
		log.Println("[WARN] JWT_SECRET is not set. Set a strong secret in production.")
	}
	jwtGen := jwt.NewGenerator(os.Getenv(jwt.EnvKeyJWTSecret), 7*24*time.Hour)

	// Usecase
	authUC := authusecase.NewAuthUsecase(userRepo, sessionRepo, jwtGen)
	tradeUC := portfoliousecase.NewTradeUsecase(market, ledger, portfoliousecase.LoadTradeConfig())
	portfolioUC := portfoliousecase.NewPortfolioUsecase(ledger)
	stockUC := stocksusecase.NewStockUsecase(market, cachedHistoryRepo, ledger)
	advisorUC := advisorusecase.NewAdvisorUsecase(ledger, textGen)

	// Handler
	authH := authhandler.NewAuthHandler(authUC)
	tradeH := portfoliohandler.NewTradeHandler(tradeUC)
	portfolioH := portfoliohandler.NewPortfolioHandler(portfolioUC)
	stocksH := stockshandler.NewStockHandler(stockUC)
	advisorH := advisorhandler.NewAdvisorHandler(advisorUC)

	// ルータ生成
	router := router.NewRouter(authH, tradeH, portfolioH, stocksH, advisorH, authUC)

	if err := router.Run(":8080"); err != nil {
		log.Fatal(err)
	}
}
