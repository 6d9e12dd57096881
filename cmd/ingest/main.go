package main

import (
	"context"
	"log"
	"time"

	"portfolio_backend/internal/app/di"
	portfolioadapters "portfolio_backend/internal/feature/portfolio/adapters"
	stocksadapters "portfolio_backend/internal/feature/stocks/adapters"
	"portfolio_backend/internal/feature/stocks/usecase"
	infradb "portfolio_backend/internal/platform/db"
	"portfolio_backend/internal/shared/ratelimiter"
)

func main() {

	db := infradb.OpenDB()
	market := di.NewMarket()
	historyRepo := stocksadapters.NewHistoryMySQL(db)
	ledger := portfolioadapters.NewLedgerMySQL(db)

	// 無料プランのAPI制限（8req/min）に合わせる
	limiter := ratelimiter.NewRateLimiter(8, time.Minute)
	uc := usecase.NewIngestUsecase(market, historyRepo, limiter)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	symbols, err := ledger.ListStockSymbols(ctx)
	if err != nil {
		log.Fatal("failed to load symbols:", err)
	}

	if err := uc.IngestAll(ctx, symbols); err != nil {
		log.Fatal(err)
	}
	log.Println("ingest ok")
}
