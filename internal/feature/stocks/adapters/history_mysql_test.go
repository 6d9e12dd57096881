package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_backend/internal/feature/stocks/domain/entity"
)

// setupTestDB prepares an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to initialize test database")

	err = db.AutoMigrate(&PricePointModel{})
	require.NoError(t, err, "failed to migrate table")

	return db
}

func points(symbol string, days int, base time.Time) []entity.PricePoint {
	out := make([]entity.PricePoint, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, entity.PricePoint{
			Symbol: symbol,
			Time:   base.AddDate(0, 0, i),
			Close:  decimal.NewFromInt(int64(100 + i)),
		})
	}
	return out
}

func TestHistoryMySQL_UpsertBatch(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("insert then update the same day", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewHistoryMySQL(db)

		require.NoError(t, repo.UpsertBatch(ctx, points("AAPL", 3, base)))

		// 同じ(symbol, time)の再投入は行を増やさず終値を更新する
		updated := []entity.PricePoint{
			{Symbol: "AAPL", Time: base, Close: decimal.RequireFromString("999.00")},
		}
		require.NoError(t, repo.UpsertBatch(ctx, updated))

		var count int64
		db.Model(&PricePointModel{}).Count(&count)
		assert.Equal(t, int64(3), count)

		got, err := repo.Find(ctx, "AAPL", 10)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.True(t, got[0].Close.Equal(decimal.RequireFromString("999.00")),
			"first day should carry the updated close, got %s", got[0].Close)
	})

	t.Run("empty batch is a no-op", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewHistoryMySQL(db)

		assert.NoError(t, repo.UpsertBatch(ctx, nil))
	})
}

func TestHistoryMySQL_Find(t *testing.T) {
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	db := setupTestDB(t)
	repo := NewHistoryMySQL(db)
	require.NoError(t, repo.UpsertBatch(ctx, points("AAPL", 5, base)))
	require.NoError(t, repo.UpsertBatch(ctx, points("MSFT", 2, base)))

	t.Run("returns points oldest first", func(t *testing.T) {
		got, err := repo.Find(ctx, "AAPL", 10)
		require.NoError(t, err)

		require.Len(t, got, 5)
		for i := 1; i < len(got); i++ {
			assert.True(t, got[i].Time.After(got[i-1].Time), "points must be in ascending time order")
		}
	})

	t.Run("limit keeps the most recent points", func(t *testing.T) {
		got, err := repo.Find(ctx, "AAPL", 2)
		require.NoError(t, err)

		require.Len(t, got, 2)
		// 直近2日分が時系列順で返る
		assert.Equal(t, base.AddDate(0, 0, 3).Unix(), got[0].Time.Unix())
		assert.Equal(t, base.AddDate(0, 0, 4).Unix(), got[1].Time.Unix())
	})

	t.Run("unknown symbol returns empty slice", func(t *testing.T) {
		got, err := repo.Find(ctx, "NOPE", 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
