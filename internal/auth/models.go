package auth

import (
	"github.com/ycfeng/slimhub/internal/plan"
)

// LoginRequest — запрос на вход с параметрами профиля
type LoginRequest struct {
	Username     string  `json:"username"`
	Password     string  `json:"password"`
	Age          int     `json:"age"`
	HeightCm     float64 `json:"height_cm"`
	WeightKg     float64 `json:"weight_kg"`
	TargetKg     float64 `json:"target_kg"`
	BodyType     string  `json:"body_type"`
	ActivityType string  `json:"activity_type"`
}

// LoginResponse — ответ на успешный вход
type LoginResponse struct {
	AccessToken string           `json:"access_token"`
	TokenType   string           `json:"token_type"`
	ExpiresIn   int64            `json:"expires_in"`
	User        plan.UserProfile `json:"user"`
}

// MeResponse — профиль текущего пользователя
type MeResponse struct {
	User plan.UserProfile `json:"user"`
}

// JWTClaims — claims для JWT token
type JWTClaims struct {
	Sub string `json:"sub"` // user id
	Iss string `json:"iss"` // issuer
	Exp int64  `json:"exp"` // expiration time
	Iat int64  `json:"iat"` // issued at
}

// ErrorResponse — формат ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
