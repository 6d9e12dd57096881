package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_backend/internal/feature/advisor/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// mockAdvisorUsecase is a mock implementation of the AdvisorUsecase interface.
type mockAdvisorUsecase struct {
	GetAnalysisFunc func(ctx context.Context, userID uint) ([]string, error)
}

func (m *mockAdvisorUsecase) GetAnalysis(ctx context.Context, userID uint) ([]string, error) {
	if m.GetAnalysisFunc != nil {
		return m.GetAnalysisFunc(ctx, userID)
	}
	return nil, nil
}

// newAdvisorRouter builds a router with the authenticated user preset in the context.
func newAdvisorRouter(h *AdvisorHandler) *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(jwtmw.ContextUserID, uint(1))
	})
	r.GET("/users/me/portfolio/analysis", h.GetAnalysis)
	return r
}

func performAnalysis(t *testing.T, r *gin.Engine) *httptest.ResponseRecorder {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, "/users/me/portfolio/analysis", nil)
	require.NoError(t, err)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdvisorHandler_GetAnalysis(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("success: three sentences returned", func(t *testing.T) {
		mockUC := &mockAdvisorUsecase{
			GetAnalysisFunc: func(ctx context.Context, userID uint) ([]string, error) {
				assert.Equal(t, uint(1), userID)
				return []string{
					"Your portfolio is concentrated in technology.",
					"Apple makes up the bulk of your holdings.",
					"Consider diversifying into other sectors.",
				}, nil
			},
		}
		r := newAdvisorRouter(NewAdvisorHandler(mockUC))

		w := performAnalysis(t, r)

		require.Equal(t, http.StatusOK, w.Code)

		var body map[string][]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body["analysis"], 3)
		assert.Equal(t, "Your portfolio is concentrated in technology.", body["analysis"][0])
	})

	t.Run("failure: empty portfolio maps to 400", func(t *testing.T) {
		mockUC := &mockAdvisorUsecase{
			GetAnalysisFunc: func(ctx context.Context, userID uint) ([]string, error) {
				return nil, usecase.ErrEmptyPortfolio
			},
		}
		r := newAdvisorRouter(NewAdvisorHandler(mockUC))

		w := performAnalysis(t, r)

		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.JSONEq(t, `{"message":"portfolio is empty"}`, w.Body.String())
	})

	t.Run("failure: generation failure maps to 502", func(t *testing.T) {
		mockUC := &mockAdvisorUsecase{
			GetAnalysisFunc: func(ctx context.Context, userID uint) ([]string, error) {
				return nil, usecase.ErrAnalysisFailed
			},
		}
		r := newAdvisorRouter(NewAdvisorHandler(mockUC))

		w := performAnalysis(t, r)

		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"message":"analysis is unavailable"}`, w.Body.String())
	})

	t.Run("failure: unexpected error maps to 500", func(t *testing.T) {
		mockUC := &mockAdvisorUsecase{
			GetAnalysisFunc: func(ctx context.Context, userID uint) ([]string, error) {
				return nil, errors.New("database error")
			},
		}
		r := newAdvisorRouter(NewAdvisorHandler(mockUC))

		w := performAnalysis(t, r)

		require.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"message":"something went wrong"}`, w.Body.String())
	})
}
