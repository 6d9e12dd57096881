package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	portfolioentity "portfolio_backend/internal/feature/portfolio/domain/entity"
	"portfolio_backend/internal/feature/stocks/domain"
	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
)

// ErrDB はモックと期待値の間で共有されるセンチネルエラーです。
var ErrDB = errors.New("database error")

// mockMarketRepository はMarketRepositoryインターフェースのモック実装です。
type mockMarketRepository struct {
	GetQuoteFunc       func(ctx context.Context, symbol string) (*entity.StockQuote, error)
	GetDailySeriesFunc func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error)
	SeriesCalls        int
}

func (m *mockMarketRepository) GetQuote(ctx context.Context, symbol string) (*entity.StockQuote, error) {
	if m.GetQuoteFunc != nil {
		return m.GetQuoteFunc(ctx, symbol)
	}
	return nil, errors.New("GetQuoteFunc is not implemented")
}

func (m *mockMarketRepository) GetDailySeries(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
	m.SeriesCalls++
	if m.GetDailySeriesFunc != nil {
		return m.GetDailySeriesFunc(ctx, symbol, outputsize)
	}
	return nil, errors.New("GetDailySeriesFunc is not implemented")
}

// mockHistoryRepository はHistoryRepositoryインターフェースのモック実装です。
type mockHistoryRepository struct {
	FindFunc        func(ctx context.Context, symbol string, limit int) ([]entity.PricePoint, error)
	UpsertBatchFunc func(ctx context.Context, points []entity.PricePoint) error
	UpsertCalls     int
}

func (m *mockHistoryRepository) Find(ctx context.Context, symbol string, limit int) ([]entity.PricePoint, error) {
	if m.FindFunc != nil {
		return m.FindFunc(ctx, symbol, limit)
	}
	return nil, errors.New("FindFunc is not implemented")
}

func (m *mockHistoryRepository) UpsertBatch(ctx context.Context, points []entity.PricePoint) error {
	m.UpsertCalls++
	if m.UpsertBatchFunc != nil {
		return m.UpsertBatchFunc(ctx, points)
	}
	return nil
}

// mockHoldingReader はHoldingReaderインターフェースのモック実装です。
type mockHoldingReader struct {
	FindHoldingBySymbolFunc func(ctx context.Context, userID uint, symbol string) (*portfolioentity.Holding, error)
}

func (m *mockHoldingReader) FindHoldingBySymbol(ctx context.Context, userID uint, symbol string) (*portfolioentity.Holding, error) {
	if m.FindHoldingBySymbolFunc != nil {
		return m.FindHoldingBySymbolFunc(ctx, userID, symbol)
	}
	return nil, nil
}

func testPoints(symbol string, n int) []entity.PricePoint {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]entity.PricePoint, 0, n)
	for i := 0; i < n; i++ {
		points = append(points, entity.PricePoint{
			Symbol: symbol,
			Time:   base.AddDate(0, 0, i),
			Close:  decimal.NewFromInt(int64(100 + i)),
		})
	}
	return points
}

func TestStockUsecase_GetStockDetail(t *testing.T) {
	ctx := context.Background()

	quote := &entity.StockQuote{
		Symbol:        "AAPL",
		CompanyName:   "Apple Inc.",
		Exchange:      "NASDAQ",
		Currency:      "USD",
		Industry:      "Technology",
		Sector:        "Consumer Electronics",
		CurrentPrice:  decimal.RequireFromString("192.50"),
		PreviousClose: decimal.RequireFromString("190.00"),
	}

	t.Run("success: info, history and holding", func(t *testing.T) {
		market := &mockMarketRepository{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.StockQuote, error) {
				if symbol != "AAPL" {
					t.Errorf("GetQuote called with %q, want normalized AAPL", symbol)
				}
				return quote, nil
			},
		}
		history := &mockHistoryRepository{
			FindFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PricePoint, error) {
				return testPoints(symbol, 3), nil
			},
		}
		holdings := &mockHoldingReader{
			FindHoldingBySymbolFunc: func(ctx context.Context, userID uint, symbol string) (*portfolioentity.Holding, error) {
				return &portfolioentity.Holding{ID: "h1", UserID: userID, Quantity: 10}, nil
			},
		}
		uc := usecase.NewStockUsecase(market, history, holdings)

		// 小文字・空白付きでも正規化される
		detail, err := uc.GetStockDetail(ctx, 1, " aapl ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if detail.Info == nil {
			t.Fatal("info is nil")
		}
		if detail.Info.CompanyName != "Apple Inc." {
			t.Errorf("company name mismatch: %s", detail.Info.CompanyName)
		}
		// 192.50 - 190.00 = 2.50, 2.50/190.00*100 = 1.32 (四捨五入)
		if !detail.Info.RegularMarketChange.Equal(decimal.RequireFromString("2.50")) {
			t.Errorf("change mismatch: got %s, want 2.50", detail.Info.RegularMarketChange)
		}
		if !detail.Info.RegularMarketChangePercent.Equal(decimal.RequireFromString("1.32")) {
			t.Errorf("change percent mismatch: got %s, want 1.32", detail.Info.RegularMarketChangePercent)
		}
		if len(detail.Data) != 3 {
			t.Errorf("data length mismatch: got %d, want 3", len(detail.Data))
		}
		if detail.Holding == nil || detail.Holding.Quantity != 10 {
			t.Errorf("holding mismatch: %+v", detail.Holding)
		}
	})

	t.Run("unknown symbol returns empty detail without error", func(t *testing.T) {
		market := &mockMarketRepository{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.StockQuote, error) {
				return nil, domain.ErrSymbolNotFound
			},
		}
		uc := usecase.NewStockUsecase(market, &mockHistoryRepository{}, &mockHoldingReader{})

		detail, err := uc.GetStockDetail(ctx, 1, "NOPE")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Info != nil {
			t.Errorf("info should be nil, got %+v", detail.Info)
		}
		if detail.Data == nil || len(detail.Data) != 0 {
			t.Errorf("data should be an empty slice, got %v", detail.Data)
		}
		if detail.Holding != nil {
			t.Errorf("holding should be nil, got %+v", detail.Holding)
		}
	})

	t.Run("empty symbol is rejected", func(t *testing.T) {
		uc := usecase.NewStockUsecase(&mockMarketRepository{}, &mockHistoryRepository{}, &mockHoldingReader{})

		_, err := uc.GetStockDetail(ctx, 1, "   ")
		if !errors.Is(err, usecase.ErrInvalidSymbol) {
			t.Fatalf("expected %v, got %v", usecase.ErrInvalidSymbol, err)
		}
	})

	t.Run("provider outage propagates", func(t *testing.T) {
		market := &mockMarketRepository{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.StockQuote, error) {
				return nil, domain.ErrQuoteUnavailable
			},
		}
		uc := usecase.NewStockUsecase(market, &mockHistoryRepository{}, &mockHoldingReader{})

		_, err := uc.GetStockDetail(ctx, 1, "AAPL")
		if !errors.Is(err, domain.ErrQuoteUnavailable) {
			t.Fatalf("expected %v, got %v", domain.ErrQuoteUnavailable, err)
		}
	})

	t.Run("empty store triggers live fetch with write-through", func(t *testing.T) {
		market := &mockMarketRepository{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.StockQuote, error) {
				return quote, nil
			},
			GetDailySeriesFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return testPoints(symbol, 5), nil
			},
		}
		history := &mockHistoryRepository{
			FindFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PricePoint, error) {
				return []entity.PricePoint{}, nil
			},
		}
		uc := usecase.NewStockUsecase(market, history, &mockHoldingReader{})

		detail, err := uc.GetStockDetail(ctx, 1, "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(detail.Data) != 5 {
			t.Errorf("data length mismatch: got %d, want 5", len(detail.Data))
		}
		if market.SeriesCalls != 1 {
			t.Errorf("GetDailySeries was called %d times, expected 1", market.SeriesCalls)
		}
		if history.UpsertCalls != 1 {
			t.Errorf("UpsertBatch was called %d times, expected 1", history.UpsertCalls)
		}
	})

	t.Run("history failure degrades to empty chart", func(t *testing.T) {
		market := &mockMarketRepository{
			GetQuoteFunc: func(ctx context.Context, symbol string) (*entity.StockQuote, error) {
				return quote, nil
			},
			GetDailySeriesFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return nil, domain.ErrQuoteUnavailable
			},
		}
		history := &mockHistoryRepository{
			FindFunc: func(ctx context.Context, symbol string, limit int) ([]entity.PricePoint, error) {
				return nil, ErrDB
			},
		}
		uc := usecase.NewStockUsecase(market, history, &mockHoldingReader{})

		detail, err := uc.GetStockDetail(ctx, 1, "AAPL")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if detail.Info == nil {
			t.Fatal("info should survive a history failure")
		}
		if len(detail.Data) != 0 {
			t.Errorf("data should be empty, got %d points", len(detail.Data))
		}
	})
}
