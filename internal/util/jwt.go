package util

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo 后端签发 token 中控制台关心的字段；控制台没有密钥，只做不验签解析
type TokenInfo struct {
	Subject   string
	ExpiresAt time.Time
}

// InspectToken 解析失败或非 JWT 时返回 ok=false，调用方按不透明 token 处理
func InspectToken(token string) (TokenInfo, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{}, false
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info, true
}

// Expired 没有 exp 的 token 视为未过期
func (t TokenInfo) Expired(now time.Time) bool {
	return !t.ExpiresAt.IsZero() && now.After(t.ExpiresAt)
}
