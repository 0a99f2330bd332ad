package model

// swagger:model User
type User struct {
	UserID       string `json:"userId"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	CurrentLevel string `json:"currentLevel,omitempty"`
	TotalXP      int    `json:"totalXP,omitempty"`
}

func (u User) EntityID() string { return u.UserID }

type UserSummary struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

// UserProfile 登录响应去掉 token 后的部分
// swagger:model UserProfile
type UserProfile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role,omitempty"`
	Message  string `json:"message,omitempty"`
}

// LoginResponse POST /auth/login
type LoginResponse struct {
	Token string `json:"token"`
	UserProfile
}
