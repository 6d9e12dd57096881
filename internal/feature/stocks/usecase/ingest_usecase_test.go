package usecase_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
)

var ErrMarketAPI = errors.New("market API error")

// mockRateLimiter はRateLimiterInterfaceのモック実装です。
type mockRateLimiter struct {
	WaitIfNeededCalls int
}

func (m *mockRateLimiter) WaitIfNeeded() {
	m.WaitIfNeededCalls++
	// テストでは待機せずに即座に返す
}

func ingestTestPoints() []entity.PricePoint {
	testTime := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return []entity.PricePoint{
		{Symbol: "AAPL", Time: testTime, Close: decimal.RequireFromString("105.00")},
		{Symbol: "AAPL", Time: testTime.AddDate(0, 0, -1), Close: decimal.RequireFromString("100.00")},
	}
}

func TestIngestUsecase_FetchAndStore(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name              string
		inputSymbol       string
		mockGetDailyFunc  func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error)
		mockUpsertFunc    func(ctx context.Context, points []entity.PricePoint) error
		expectedErr       error
		expectUpsertCalls int
	}{
		{
			name:        "success: data fetch and save succeed",
			inputSymbol: "AAPL",
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				if symbol != "AAPL" || outputsize != 365 {
					t.Errorf("GetDailySeries called with unexpected params: got symbol=%s, outputsize=%d", symbol, outputsize)
				}
				return ingestTestPoints(), nil
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				if len(points) != 2 {
					t.Errorf("points count mismatch: got %d, want 2", len(points))
				}
				return nil
			},
			expectedErr:       nil,
			expectUpsertCalls: 1,
		},
		{
			name:        "error: MarketRepository returns error",
			inputSymbol: "GOOG",
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return nil, ErrMarketAPI
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				t.Error("UpsertBatch should not be called")
				return nil
			},
			expectedErr:       ErrMarketAPI,
			expectUpsertCalls: 0,
		},
		{
			name:        "error: HistoryRepository returns error",
			inputSymbol: "MSFT",
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return ingestTestPoints(), nil
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				return ErrDB
			},
			expectedErr:       ErrDB,
			expectUpsertCalls: 1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			upsertCalls := 0
			market := &mockMarketRepository{
				GetDailySeriesFunc: tc.mockGetDailyFunc,
			}
			history := &mockHistoryRepository{
				UpsertBatchFunc: func(ctx context.Context, points []entity.PricePoint) error {
					upsertCalls++
					return tc.mockUpsertFunc(ctx, points)
				},
			}

			uc := usecase.NewIngestUsecase(market, history, &mockRateLimiter{})
			err := uc.FetchAndStore(ctx, tc.inputSymbol)

			if tc.expectedErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			} else if !errors.Is(err, tc.expectedErr) {
				t.Fatalf("expected %v, got %v", tc.expectedErr, err)
			}

			if upsertCalls != tc.expectUpsertCalls {
				t.Errorf("UpsertBatch was called %d times, expected %d", upsertCalls, tc.expectUpsertCalls)
			}
		})
	}
}

func TestIngestUsecase_IngestAll(t *testing.T) {
	ctx := context.Background()

	testCases := []struct {
		name              string
		inputSymbols      []string
		mockGetDailyFunc  func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error)
		mockUpsertFunc    func(ctx context.Context, points []entity.PricePoint) error
		expectedFetches   int
	}{
		{
			name:         "success: fetch all symbols",
			inputSymbols: []string{"AAPL", "GOOG"},
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return ingestTestPoints(), nil
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				return nil
			},
			expectedFetches: 2,
		},
		{
			name:         "success: empty symbol list",
			inputSymbols: []string{},
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				t.Error("GetDailySeries should not be called")
				return nil, errors.New("should not be called")
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				t.Error("UpsertBatch should not be called")
				return nil
			},
			expectedFetches: 0,
		},
		{
			name:         "success: continues processing even when some symbols fail",
			inputSymbols: []string{"AAPL", "INVALID", "GOOG"},
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				if symbol == "INVALID" {
					return nil, ErrMarketAPI
				}
				return ingestTestPoints(), nil
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				return nil
			},
			// IngestAllはエラーでも止まらず全シンボルを試行する
			expectedFetches: 3,
		},
		{
			name:         "success: continues processing even when UpsertBatch fails",
			inputSymbols: []string{"AAPL", "GOOG"},
			mockGetDailyFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
				return ingestTestPoints(), nil
			},
			mockUpsertFunc: func(ctx context.Context, points []entity.PricePoint) error {
				return ErrDB
			},
			expectedFetches: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fetches := 0
			market := &mockMarketRepository{
				GetDailySeriesFunc: func(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
					fetches++
					return tc.mockGetDailyFunc(ctx, symbol, outputsize)
				},
			}
			history := &mockHistoryRepository{
				UpsertBatchFunc: tc.mockUpsertFunc,
			}
			rl := &mockRateLimiter{}

			uc := usecase.NewIngestUsecase(market, history, rl)
			err := uc.IngestAll(ctx, tc.inputSymbols)

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if fetches != tc.expectedFetches {
				t.Errorf("GetDailySeries was called %d times, expected %d", fetches, tc.expectedFetches)
			}
			// レートリミッターは1シンボルにつき1回呼ばれる
			if rl.WaitIfNeededCalls != len(tc.inputSymbols) {
				t.Errorf("WaitIfNeeded was called %d times, expected %d", rl.WaitIfNeededCalls, len(tc.inputSymbols))
			}
		})
	}
}
