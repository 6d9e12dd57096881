package twelvedata

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	portfoliousecase "portfolio_backend/internal/feature/portfolio/usecase"
	"portfolio_backend/internal/feature/stocks/domain"
	"portfolio_backend/internal/feature/stocks/domain/entity"
	"portfolio_backend/internal/feature/stocks/usecase"
	"portfolio_backend/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataMarket はTwelve Data外部APIからクォートと株価履歴を取得する
// マーケットゲートウェイ実装です。
type TwelveDataMarket struct {
	cfg    Config
	client *http.Client
}

// TwelveDataMarketが各コンシューマーインターフェースを実装していることをコンパイル時に検証します。
var (
	_ usecase.MarketRepository      = (*TwelveDataMarket)(nil)
	_ portfoliousecase.MarketQuoter = (*TwelveDataMarket)(nil)
)

// NewTwelveDataMarket は指定された設定とHTTPクライアントでTwelveDataMarketの新しいインスタンスを生成します。
func NewTwelveDataMarket(cfg Config, client *http.Client) *TwelveDataMarket {
	return &TwelveDataMarket{cfg: cfg, client: client}
}

// getJSON は指定されたパスにGETリクエストを送り、レスポンスをoutにデコードします。
// トランスポートエラー・タイムアウト・HTTPエラーはすべてdomain.ErrQuoteUnavailableに畳み込みます。
func (t *TwelveDataMarket) getJSON(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)
	u := fmt.Sprintf("%s%s?%s", t.cfg.BaseURL, path, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", domain.ErrQuoteUnavailable, err)
	}

	res, err := t.client.Do(req)
	if err != nil {
		// タイムアウト・接続失敗はプロバイダ障害として扱う（InvalidInputではない）
		return fmt.Errorf("%w: %v", domain.ErrQuoteUnavailable, err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("%w: twelvedata http %d", domain.ErrQuoteUnavailable, res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrQuoteUnavailable, err)
	}
	return nil
}

// apiError はレスポンスボディ内のエラー表現をドメインエラーに変換します。
// code 404は未知のシンボル、それ以外のエラーはプロバイダ障害です。
func apiError(e dto.APIError) error {
	if e.Status != "error" {
		return nil
	}
	if e.Code == http.StatusNotFound {
		return domain.ErrSymbolNotFound
	}
	return fmt.Errorf("%w: twelvedata: %s", domain.ErrQuoteUnavailable, e.Message)
}

// GetQuote は/quoteと/profileを組み合わせて、シンボルの現在値と
// 企業メタデータ（会社名・業種・セクター）を返します。
func (t *TwelveDataMarket) GetQuote(ctx context.Context, symbol string) (*entity.StockQuote, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	var quote dto.QuoteResponse
	if err := t.getJSON(ctx, "/quote", q, &quote); err != nil {
		return nil, err
	}
	if err := apiError(quote.APIError); err != nil {
		return nil, err
	}

	current, err := decimal.NewFromString(quote.Close)
	if err != nil {
		return nil, fmt.Errorf("%w: parse close %q: %v", domain.ErrQuoteUnavailable, quote.Close, err)
	}
	prev, err := decimal.NewFromString(quote.PreviousClose)
	if err != nil {
		return nil, fmt.Errorf("%w: parse previous_close %q: %v", domain.ErrQuoteUnavailable, quote.PreviousClose, err)
	}

	p := url.Values{}
	p.Set("symbol", symbol)
	var profile dto.ProfileResponse
	if err := t.getJSON(ctx, "/profile", p, &profile); err != nil {
		return nil, err
	}
	if err := apiError(profile.APIError); err != nil {
		return nil, err
	}

	return &entity.StockQuote{
		Symbol:        symbol,
		CompanyName:   profile.Name,
		Exchange:      quote.Exchange,
		Currency:      quote.Currency,
		Industry:      profile.Industry,
		Sector:        profile.Sector,
		CurrentPrice:  current,
		PreviousClose: prev,
	}, nil
}

// GetDailySeries は/time_seriesからシンボルの日次終値を取得し、
// 古い順に並べ替えて返します。
func (t *TwelveDataMarket) GetDailySeries(ctx context.Context, symbol string, outputsize int) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", "1day")
	q.Set("outputsize", strconv.Itoa(outputsize))

	var body dto.TimeSeriesResponse
	if err := t.getJSON(ctx, "/time_series", q, &body); err != nil {
		return nil, err
	}
	if err := apiError(body.APIError); err != nil {
		return nil, err
	}

	// Twelve Dataは新しい順で返すため、逆順にして時系列順に並べる
	points := make([]entity.PricePoint, 0, len(body.Values))
	for i := len(body.Values) - 1; i >= 0; i-- {
		v := body.Values[i]

		tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
		if err != nil {
			tm, err = time.Parse("2006-01-02", v.Datetime)
			if err != nil {
				return nil, fmt.Errorf("%w: parse time %q: %v", domain.ErrQuoteUnavailable, v.Datetime, err)
			}
		}
		c, err := decimal.NewFromString(v.Close)
		if err != nil {
			return nil, fmt.Errorf("%w: parse close %q: %v", domain.ErrQuoteUnavailable, v.Close, err)
		}

		points = append(points, entity.PricePoint{
			Symbol: symbol,
			Time:   tm,
			Close:  c,
		})
	}
	return points, nil
}
