package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/ycfeng/slimhub/internal/config"
	"github.com/ycfeng/slimhub/internal/plan"
	"github.com/ycfeng/slimhub/internal/storage"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrInvalidProfile = errors.New("invalid profile")
	ErrUserNotFound   = errors.New("user not found")
)

// Service — сервис авторизации
type Service struct {
	config  *config.Config
	storage storage.Storage
}

func NewService(cfg *config.Config, storage storage.Storage) *Service {
	return &Service{
		config:  cfg,
		storage: storage,
	}
}

// Login находит или создаёт пользователя по имени и выдаёт JWT.
// Профиль перезаписывается параметрами из запроса, кэш планов и журнал
// остаются привязаны к прежнему user id.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*LoginResponse, error) {
	if err := validateLoginRequest(req); err != nil {
		return nil, err
	}

	username := strings.TrimSpace(req.Username)

	profile := plan.UserProfile{
		Username:     username,
		Age:          req.Age,
		HeightCm:     req.HeightCm,
		WeightKg:     req.WeightKg,
		TargetKg:     req.TargetKg,
		BodyType:     req.BodyType,
		ActivityType: req.ActivityType,
	}

	user, err := s.findOrCreateUser(ctx, username, &profile)
	if err != nil {
		return nil, fmt.Errorf("failed to get/create user: %w", err)
	}
	profile.ID = user.ID.String()

	ttl := time.Duration(s.config.JWTTTLMinutes) * time.Minute
	accessToken, err := s.generateJWT(user.ID.String(), ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate JWT: %w", err)
	}

	return &LoginResponse{
		AccessToken: accessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(ttl.Seconds()),
		User:        profile,
	}, nil
}

// Me возвращает профиль пользователя по id из токена
func (s *Service) Me(ctx context.Context, userID string) (*MeResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, ErrUserNotFound
	}

	user, err := s.storage.GetUser(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	var profile plan.UserProfile
	if len(user.Profile) > 0 {
		if err := json.Unmarshal(user.Profile, &profile); err != nil {
			return nil, fmt.Errorf("failed to decode stored profile: %w", err)
		}
	}
	profile.ID = user.ID.String()
	profile.Username = user.Username

	return &MeResponse{User: profile}, nil
}

func (s *Service) findOrCreateUser(ctx context.Context, username string, profile *plan.UserProfile) (*storage.UserRow, error) {
	payload, err := json.Marshal(profile)
	if err != nil {
		return nil, err
	}

	existing, err := s.storage.GetUserByUsername(ctx, username)
	if err == nil {
		if err := s.storage.UpdateUserProfile(ctx, existing.ID, payload); err != nil {
			return nil, err
		}
		return existing, nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return nil, err
	}

	user := &storage.UserRow{
		ID:       uuid.New(),
		Username: username,
		Profile:  payload,
	}
	if err := s.storage.CreateUser(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func validateLoginRequest(req *LoginRequest) error {
	if strings.TrimSpace(req.Username) == "" {
		return fmt.Errorf("%w: username is required", ErrInvalidProfile)
	}
	if strings.TrimSpace(req.Password) == "" {
		return fmt.Errorf("%w: password is required", ErrInvalidProfile)
	}
	if req.Age <= 0 || req.Age > 120 {
		return fmt.Errorf("%w: age must be between 1 and 120", ErrInvalidProfile)
	}
	if req.HeightCm <= 0 {
		return fmt.Errorf("%w: height_cm must be positive", ErrInvalidProfile)
	}
	if req.WeightKg <= 0 {
		return fmt.Errorf("%w: weight_kg must be positive", ErrInvalidProfile)
	}
	if req.TargetKg <= 0 {
		return fmt.Errorf("%w: target_kg must be positive", ErrInvalidProfile)
	}

	switch req.BodyType {
	case plan.BodyPear, plan.BodyApple, plan.BodyBalanced:
	default:
		return fmt.Errorf("%w: body_type must be one of pear, apple, balanced", ErrInvalidProfile)
	}

	switch req.ActivityType {
	case plan.ActivitySedentary, plan.ActivityAerobic, plan.ActivityAnaerobic, plan.ActivityMixed:
	default:
		return fmt.Errorf("%w: activity_type must be one of sedentary, aerobic, anaerobic, mixed", ErrInvalidProfile)
	}

	return nil
}

func (s *Service) generateJWT(userID string, ttl time.Duration) (string, error) {
	now := time.Now()
	exp := now.Add(ttl)

	claims := jwt.MapClaims{
		"sub": userID,
		"iss": s.config.JWTIssuer,
		"exp": exp.Unix(),
		"iat": now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.JWTSecret))
}

// VerifyJWT — проверка JWT токена
func (s *Service) VerifyJWT(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})

	if err != nil {
		return "", ErrInvalidToken
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		sub, ok := claims["sub"].(string)
		if !ok {
			return "", ErrInvalidToken
		}
		return sub, nil
	}

	return "", ErrInvalidToken
}
