// Package usecase はポートフォリオ分析コメント生成のビジネスロジックを実装します。
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio_backend/internal/feature/portfolio/domain/entity"
)

const (
	// AnalysisSentences は分析結果として返す文の数です。
	AnalysisSentences = 3
)

var (
	// ErrEmptyPortfolio は保有が1つもないユーザーが分析を要求したことを示します。
	ErrEmptyPortfolio = errors.New("portfolio is empty")

	// ErrAnalysisFailed は外部テキスト生成サービスの失敗、
	// または利用できない形式の応答を示します。
	ErrAnalysisFailed = errors.New("portfolio analysis failed")
)

// PortfolioReader はユーザーの保有を読み取るレイヤーを抽象化します。
// portfolioフィーチャーの台帳アダプタが実装します。
type PortfolioReader interface {
	FindHoldingsByUser(ctx context.Context, userID uint) ([]*entity.Holding, error)
}

// TextGenerator は外部テキスト生成サービスを抽象化します。
// Goの慣例に従い、インターフェースはプロバイダー（adapters/gemini）ではなくコンシューマー（usecase）が定義します。
type TextGenerator interface {
	// Generate はプロンプトからテキストを生成します。出力長は実装側で制限されます。
	Generate(ctx context.Context, prompt string) (string, error)
}

// advisorUsecase はポートフォリオ分析のユースケースを実装します。
// 状態は一切変更しない読み取り専用のパスです。
type advisorUsecase struct {
	portfolio PortfolioReader
	generator TextGenerator
}

// NewAdvisorUsecase はadvisorUsecaseの新しいインスタンスを生成します。
func NewAdvisorUsecase(portfolio PortfolioReader, generator TextGenerator) *advisorUsecase {
	return &advisorUsecase{portfolio: portfolio, generator: generator}
}

// buildPrompt は保有一覧から固定テンプレートのプロンプトを組み立てます。
func buildPrompt(holdings []*entity.Holding) string {
	var b strings.Builder
	b.WriteString("You are a financial advisor. A user holds the following stock portfolio:\n")
	for _, h := range holdings {
		symbol := h.StockID
		if h.Stock != nil {
			symbol = h.Stock.Symbol
		}
		fmt.Fprintf(&b, "- %d shares of %s\n", h.Quantity, symbol)
	}
	fmt.Fprintf(&b, "Give a brief assessment of this portfolio in exactly %d numbered sentences, one per line, formatted like \"1. ...\". Do not output anything else.", AnalysisSentences)
	return b.String()
}

// splitSentences は生成されたテキストを改行で分割し、番号付きの文のみを抽出します。
func splitSentences(text string) []string {
	var sentences []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		sentences = append(sentences, line)
	}
	return sentences
}

// GetAnalysis はユーザーの保有からプロンプトを組み立てて外部サービスに転送し、
// 応答をちょうど3つの番号付き文に分割して返します。
// 外部サービスの失敗は汎用エラーとして返します。リトライは行いません。
func (u *advisorUsecase) GetAnalysis(ctx context.Context, userID uint) ([]string, error) {
	holdings, err := u.portfolio.FindHoldingsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(holdings) == 0 {
		return nil, ErrEmptyPortfolio
	}

	text, err := u.generator.Generate(ctx, buildPrompt(holdings))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	sentences := splitSentences(text)
	if len(sentences) < AnalysisSentences {
		return nil, fmt.Errorf("%w: expected %d sentences, got %d", ErrAnalysisFailed, AnalysisSentences, len(sentences))
	}
	return sentences[:AnalysisSentences], nil
}
