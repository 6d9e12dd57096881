package usecase

import (
	"context"
	"log/slog"

	"portfolio_backend/internal/shared/ratelimiter"
)

const (
	// ingestOutputSize は1シンボルあたり取得する日次終値の件数です。
	ingestOutputSize = 365
)

// IngestUsecase は外部プロバイダから日次終値を取得し、
// データベースに永続化するユースケースを定義します。
type IngestUsecase struct {
	market      MarketRepository
	history     HistoryRepository
	rateLimiter ratelimiter.RateLimiterInterface
}

// NewIngestUsecase は新しいIngestUsecaseを作成します。
func NewIngestUsecase(market MarketRepository, history HistoryRepository, rateLimiter ratelimiter.RateLimiterInterface) *IngestUsecase {
	return &IngestUsecase{market: market, history: history, rateLimiter: rateLimiter}
}

// FetchAndStore は1シンボルの日次終値をプロバイダから取得し、
// データベースに一括で挿入（または更新）します。
func (iu *IngestUsecase) FetchAndStore(ctx context.Context, symbol string) error {
	points, err := iu.market.GetDailySeries(ctx, symbol, ingestOutputSize)
	if err != nil {
		return err
	}
	return iu.history.UpsertBatch(ctx, points)
}

// IngestAll は指定された全シンボルの日次終値を取得し、データベースに永続化します。
// プロバイダのレートリミットを考慮して、リクエスト間に適切な待機時間を設けます。
func (iu *IngestUsecase) IngestAll(ctx context.Context, symbols []string) error {
	for _, s := range symbols {
		iu.rateLimiter.WaitIfNeeded()
		if err := iu.FetchAndStore(ctx, s); err != nil {
			// 1シンボルの失敗で処理を止めず、ログに出力して次へ進む
			slog.Error("failed to ingest price history", "symbol", s, "error", err)
			continue
		}
	}
	return nil
}
