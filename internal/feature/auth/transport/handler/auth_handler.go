// Package handler はauthフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_backend/internal/api"
	"portfolio_backend/internal/feature/auth/domain/entity"
	"portfolio_backend/internal/feature/auth/transport/http/dto"
	"portfolio_backend/internal/feature/auth/usecase"
	jwtmw "portfolio_backend/internal/platform/jwt"
)

// AuthUsecase は認証操作のユースケースを定義します。
// Goの慣例に従い、インターフェースはプロバイダー（usecase）ではなくコンシューマー（handler）が定義します。
type AuthUsecase interface {
	// Signup は指定されたプロフィールで新規ユーザーを登録します。
	Signup(ctx context.Context, email, password, firstName, lastName string) (*entity.User, error)
	// Login はユーザーを認証し、セッションを作成して成功時にJWTトークンを返します。
	Login(ctx context.Context, email, password, userAgent, ipAddress string) (string, *entity.User, error)
	// Logout はセッションを失効させます。
	Logout(ctx context.Context, sessionID string) error
	// GetUser はIDでユーザーを取得します。
	GetUser(ctx context.Context, id uint) (*entity.User, error)
}

// AuthHandler は認証操作のHTTPリクエストを処理します。
// AuthUsecaseインターフェースに依存し、JSONリクエスト/レスポンスを処理します。
type AuthHandler struct {
	auth AuthUsecase
}

// NewAuthHandler はAuthHandlerの新しいインスタンスを生成します。
// 依存性注入用のコンストラクタで、外部からAuthUsecaseを注入します。
func NewAuthHandler(auth AuthUsecase) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// Signup はユーザー登録APIエンドポイントを処理します。
// - リクエストJSONをSignupReqにバインド
// - バリデーションエラー時は400を返却
// - メール重複時は409を返却
// - 成功時は201でユーザー情報を返却
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("signup validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	user, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password, req.FirstName, req.LastName)
	if err != nil {
		if errors.Is(err, usecase.ErrEmailAlreadyExists) {
			slog.Warn("signup conflict", "email", req.Email, "remote_addr", c.ClientIP())
			c.JSON(http.StatusConflict, api.MessageResponse{Message: "user already exists"})
			return
		}
		slog.Error("signup failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "signup failed"})
		return
	}
	slog.Info("user signup successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusCreated, dto.NewUserRes(user))
}

// Login はユーザーログインAPIエンドポイントを処理します。
// - リクエストJSONをLoginReqにバインド
// - バリデーションエラー時は400を返却
// - 認証失敗時は401を返却
// - 認証成功時はJWTトークンとユーザー情報付きで200を返却
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginReq
	if err := c.ShouldBindJSON(&req); err != nil {
		slog.Warn("login validation failed", "error", err, "remote_addr", c.ClientIP())
		c.JSON(http.StatusBadRequest, api.MessageResponse{Message: "invalid request"})
		return
	}
	token, user, err := h.auth.Login(c.Request.Context(), req.Email, req.Password, c.Request.UserAgent(), c.ClientIP())
	if err != nil {
		// ユーザー列挙攻撃を防止するため、実際のエラーを公開しない
		slog.Warn("login failed", "error", err, "email", req.Email, "remote_addr", c.ClientIP())
		c.JSON(http.StatusUnauthorized, api.MessageResponse{Message: "invalid email or password"})
		return
	}
	slog.Info("user login successful", "email", user.Email, "remote_addr", c.ClientIP())
	c.JSON(http.StatusOK, dto.LoginRes{Token: token, User: dto.NewUserRes(user)})
}

// Logout は現在のセッションを失効させます。
// 失効済みトークンでの再ログアウトも成功として扱います。
func (h *AuthHandler) Logout(c *gin.Context) {
	sessionID := c.GetString(jwtmw.ContextSessionID)
	if err := h.auth.Logout(c.Request.Context(), sessionID); err != nil {
		slog.Error("logout failed", "error", err, "session_id", sessionID)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "logout failed"})
		return
	}
	c.JSON(http.StatusOK, api.MessageResponse{Message: "successfully logged out"})
}

// Validate は現在のトークンの有効性とユーザー情報を返します。
// 任意認証のエンドポイントで、未認証でも200で is_authenticated: false を返します。
func (h *AuthHandler) Validate(c *gin.Context) {
	userID := c.GetUint(jwtmw.ContextUserID)
	if userID == 0 {
		c.JSON(http.StatusOK, dto.ValidateRes{IsAuthenticated: false, User: nil})
		return
	}

	user, err := h.auth.GetUser(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			c.JSON(http.StatusOK, dto.ValidateRes{IsAuthenticated: false, User: nil})
			return
		}
		slog.Error("session validation failed", "error", err, "user_id", userID)
		c.JSON(http.StatusInternalServerError, api.MessageResponse{Message: "something went wrong"})
		return
	}

	res := dto.NewUserRes(user)
	c.JSON(http.StatusOK, dto.ValidateRes{IsAuthenticated: true, User: &res})
}
