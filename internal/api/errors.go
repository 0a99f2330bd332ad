package api

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorBody 后端统一错误结构
type ErrorBody struct {
	Status           int               `json:"status"`
	Error            string            `json:"error"`
	Message          string            `json:"message"`
	Path             string            `json:"path"`
	ValidationErrors map[string]string `json:"validationErrors"`
}

// NetworkError 传输层失败：连不上、超时、被取消
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// APIError 非 2xx 响应
type APIError struct {
	Status int
	Body   ErrorBody
	Raw    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message())
}

// Message 面向用户的提示：字段错误 > body.message > body.error > 通用提示
func (e *APIError) Message() string {
	if len(e.Body.ValidationErrors) > 0 {
		return "Validation errors:\n" + joinFields(e.Body.ValidationErrors)
	}
	if e.Body.Message != "" {
		return e.Body.Message
	}
	if e.Body.Error != "" {
		return e.Body.Error
	}
	if raw := strings.TrimSpace(e.Raw); raw != "" && !strings.HasPrefix(raw, "{") && len(raw) < 200 {
		return raw
	}
	return fmt.Sprintf("Request failed (%d %s)", e.Status, http.StatusText(e.Status))
}

// APIValidationError 后端返回了 validationErrors
type APIValidationError struct {
	APIError
}

func (e *APIValidationError) Unwrap() error { return &e.APIError }

func (e *APIValidationError) Fields() map[string]string {
	return e.Body.ValidationErrors
}

// NotFoundError 404，例如游戏内容不存在
type NotFoundError struct {
	APIError
}

func (e *NotFoundError) Unwrap() error { return &e.APIError }

// UnauthorizedError 401，token 过期或无效
type UnauthorizedError struct {
	APIError
}

func (e *UnauthorizedError) Unwrap() error { return &e.APIError }

func classify(status int, body ErrorBody, raw string) error {
	base := APIError{Status: status, Body: body, Raw: raw}
	switch {
	case status == http.StatusUnauthorized:
		return &UnauthorizedError{APIError: base}
	case status == http.StatusNotFound:
		return &NotFoundError{APIError: base}
	case len(body.ValidationErrors) > 0:
		return &APIValidationError{APIError: base}
	default:
		return &base
	}
}

// Describe 把任意错误转换成可以直接展示给管理员的文本
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message()
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return "Cannot reach the server. Please check that the backend is running."
	}
	return err.Error()
}

// FieldErrors 提取后端字段级错误，没有时返回 nil
func FieldErrors(err error) map[string]string {
	var vErr *APIValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields()
	}
	return nil
}

func IsUnauthorized(err error) bool {
	var u *UnauthorizedError
	return errors.As(err, &u)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+": "+fields[k])
	}
	return strings.Join(lines, "\n")
}
