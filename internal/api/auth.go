package api

import (
	"context"
	"english_admin/internal/model"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login 登录接口不携带 token，401 也不触发会话过期回调
func (c *Client) Login(ctx context.Context, email, password string) (*model.LoginResponse, error) {
	req, err := c.newJSONRequest(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var resp model.LoginResponse
	if err := c.send(ctx, req, "/auth/login", &resp, false); err != nil {
		return nil, err
	}
	return &resp, nil
}
