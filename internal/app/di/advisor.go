package di

import (
	"context"

	"portfolio_backend/internal/feature/advisor/adapters/gemini"
	"portfolio_backend/internal/feature/advisor/usecase"
)

// NewTextGenerator creates the Gemini-backed text generator for the advisor.
// GOOGLE_API_KEY(またはGEMINI_API_KEY)が未設定の場合はエラーを返します。
func NewTextGenerator(ctx context.Context) (usecase.TextGenerator, error) {
	gen, err := gemini.NewGeminiGenerator(ctx)
	if err != nil {
		return nil, err
	}
	return gen, nil
}
