package dto

import (
	"time"

	"portfolio_backend/internal/feature/auth/domain/entity"
)

// UserRes はユーザー情報のレスポンスDTOです。パスワードハッシュは含みません。
type UserRes struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginRes はログイン成功時のレスポンスです。
type LoginRes struct {
	Token string  `json:"token"`
	User  UserRes `json:"user"`
}

// ValidateRes は /auth/validate のレスポンスです。
// 未認証の場合、IsAuthenticatedはfalse、Userはnullになります。
type ValidateRes struct {
	IsAuthenticated bool     `json:"is_authenticated"`
	User            *UserRes `json:"user"`
}

// NewUserRes はUserエンティティをDTOに変換します。
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}
