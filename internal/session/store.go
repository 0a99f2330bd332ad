package session

import (
	"context"
	"encoding/json"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Authenticator 由 api.Client 实现
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*model.LoginResponse, error)
}

// State 当前登录态的快照；User 为 nil 表示未登录
type State struct {
	User  *model.UserProfile `json:"user"`
	Token string             `json:"-"`
}

func (s State) Authenticated() bool {
	return s.User != nil && s.Token != ""
}

// Store 控制台唯一的登录态，显式 Init/Login/Logout，依赖注入而非全局变量
type Store struct {
	mu        sync.RWMutex
	kv        KV
	auth      Authenticator
	state     State
	listeners []func(State)
	now       func() time.Time
}

func NewStore(kv KV, auth Authenticator) *Store {
	return &Store{kv: kv, auth: auth, now: time.Now}
}

// SetAuthenticator 客户端与登录态互相依赖时在构造后注入
func (s *Store) SetAuthenticator(auth Authenticator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auth = auth
}

// Init 启动时从持久化存储恢复；token 与用户信息同时存在才算已登录
func (s *Store) Init(ctx context.Context) error {
	token, hasToken, err := s.kv.Get(ctx, util.KeyAdminToken)
	if err != nil {
		return fmt.Errorf("restore session token: %w", err)
	}
	rawUser, hasUser, err := s.kv.Get(ctx, util.KeyAdminUser)
	if err != nil {
		return fmt.Errorf("restore session user: %w", err)
	}

	restored := State{}
	if hasToken && hasUser && token != "" {
		var user model.UserProfile
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			logger.L().Warn("discarding unreadable admin_user", zap.Error(err))
		} else if info, ok := util.InspectToken(token); ok && info.Expired(s.now()) {
			logger.L().Info("stored admin token expired", zap.Time("expiresAt", info.ExpiresAt))
		} else {
			restored = State{User: &user, Token: token}
		}
	}

	if !restored.Authenticated() && (hasToken || hasUser) {
		if err := s.kv.Delete(ctx, util.KeyAdminToken, util.KeyAdminUser); err != nil {
			logger.L().Warn("failed to clear stale session", zap.Error(err))
		}
	}

	s.set(restored)
	if restored.Authenticated() {
		logger.L().Info("session restored", zap.String("user", restored.User.Email))
	}
	return nil
}

// Login 失败时保持原状态
func (s *Store) Login(ctx context.Context, email, password string) (State, error) {
	s.mu.RLock()
	auth := s.auth
	s.mu.RUnlock()
	if auth == nil {
		return State{}, errors.New("session store has no authenticator")
	}

	resp, err := auth.Login(ctx, email, password)
	if err != nil {
		return s.Current(), err
	}
	if resp.Token == "" {
		return s.Current(), errors.New("login response did not contain a token")
	}

	user := resp.UserProfile
	if user.Email == "" {
		user.Email = email
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return s.Current(), err
	}
	if err := s.kv.Set(ctx, util.KeyAdminToken, resp.Token); err != nil {
		return s.Current(), fmt.Errorf("persist token: %w", err)
	}
	if err := s.kv.Set(ctx, util.KeyAdminUser, string(rawUser)); err != nil {
		return s.Current(), fmt.Errorf("persist user: %w", err)
	}

	next := State{User: &user, Token: resp.Token}
	s.set(next)
	logger.L().Info("admin logged in", zap.String("user", user.Email))
	return next, nil
}

// Logout 同时清除内存与持久化存储
func (s *Store) Logout(ctx context.Context) error {
	s.set(State{})
	if err := s.kv.Delete(ctx, util.KeyAdminToken, util.KeyAdminUser); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

// Expire 收到 401 时由 api.Client 回调
func (s *Store) Expire(ctx context.Context) {
	if !s.Authenticated() {
		return
	}
	logger.L().Warn("session expired, back to login")
	if err := s.Logout(ctx); err != nil {
		logger.L().Error("failed to clear expired session", zap.Error(err))
	}
}

func (s *Store) Current() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

func (s *Store) User() *model.UserProfile {
	return s.Current().User
}

// Token 实现 api.TokenSource
func (s *Store) Token() string {
	return s.Current().Token
}

func (s *Store) Authenticated() bool {
	return s.Current().Authenticated()
}

// Subscribe 每次状态变化后回调，例如退出登录时清空各页面内存状态
func (s *Store) Subscribe(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) set(next State) {
	s.mu.Lock()
	s.state = next
	listeners := append([]func(State){}, s.listeners...)
	s.mu.Unlock()

	for _, fn := range listeners {
		fn(next)
	}
}
