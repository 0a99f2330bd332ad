package service

import (
	"context"
	"english_admin/internal/model"
	"english_admin/internal/session"
	"english_admin/pkg/logger"
	"errors"
	"strings"

	"go.uber.org/zap"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthService 控制台登录态，底层是会话存储
type AuthService struct {
	store *session.Store
}

func NewAuthService(store *session.Store) *AuthService {
	return &AuthService{store: store}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*model.UserProfile, error) {
	email := strings.TrimSpace(req.Email)
	if email == "" || req.Password == "" {
		return nil, errors.New("email and password are required")
	}
	st, err := s.store.Login(ctx, email, req.Password)
	if err != nil {
		logger.L().Warn("console login failed", zap.String("email", email), zap.Error(err))
		return nil, err
	}
	logger.L().Info("console login", zap.String("userId", st.User.UserID))
	return st.User, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.Logout(ctx)
}

// Me 未登录时返回 nil
func (s *AuthService) Me() *model.UserProfile {
	return s.store.User()
}

func (s *AuthService) Authenticated() bool {
	return s.store.Authenticated()
}
