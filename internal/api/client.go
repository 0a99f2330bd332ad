package api

import (
	"bytes"
	"context"
	"encoding/json"
	"english_admin/internal/config"
	"english_admin/pkg/logger"
	"english_admin/pkg/monitoring"
	"english_admin/pkg/tracing"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const maxResponseBytes = 10 << 20

// TokenSource 由登录态提供当前 token，空串表示未登录
type TokenSource interface {
	Token() string
}

// Client 平台后端的唯一 HTTP 入口：统一 baseURL、Bearer token、错误分类
type Client struct {
	mu             sync.RWMutex
	baseURL        *url.URL
	http           *http.Client
	limiter        *rate.Limiter
	tokens         TokenSource
	onUnauthorized func(ctx context.Context)
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

func NewClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	c := &Client{http: &http.Client{}}
	if err := c.Reconfigure(cfg); err != nil {
		return nil, err
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Reconfigure 配置热更新：baseURL、超时、限流
func (c *Client) Reconfigure(cfg config.APIConfig) error {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return fmt.Errorf("invalid api base url: %w", err)
	}

	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.baseURL = base
	c.http.Timeout = cfg.Timeout()
	if c.limiter == nil {
		c.limiter = rate.NewLimiter(limit, burst)
	} else {
		c.limiter.SetLimit(limit)
		c.limiter.SetBurst(burst)
	}
	return nil
}

// Bind 登录态与客户端互相依赖，构造完成后再绑定
func (c *Client) Bind(ts TokenSource, onUnauthorized func(ctx context.Context)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tokens = ts
	c.onUnauthorized = onUnauthorized
}

// BaseURL 例如 http://localhost:8080/api
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL.String()
}

// Origin 例如 http://localhost:8080，用于补全后端返回的相对文件地址
func (c *Client) Origin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return (&url.URL{Scheme: c.baseURL.Scheme, Host: c.baseURL.Host}).String()
}

// Do 发送 JSON 请求，2xx 时把响应解码进 out（out 可为 nil）
func (c *Client) Do(ctx context.Context, method, path string, body, out interface{}) error {
	req, err := c.newJSONRequest(ctx, method, path, body)
	if err != nil {
		return err
	}
	return c.send(ctx, req, path, out, true)
}

func (c *Client) newJSONRequest(ctx context.Context, method, path string, body interface{}) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.resolve(path), reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func (c *Client) resolve(path string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL.String() + path
}

func (c *Client) send(ctx context.Context, req *http.Request, path string, out interface{}, auth bool) error {
	c.mu.RLock()
	hc, limiter, tokens, onUnauthorized := c.http, c.limiter, c.tokens, c.onUnauthorized
	c.mu.RUnlock()

	op := req.Method + " " + path
	route := routeLabel(path)

	if err := limiter.Wait(ctx); err != nil {
		return &NetworkError{Op: op, Err: err}
	}

	if auth && tokens != nil {
		if token := tokens.Token(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	ctx, span := tracing.StartClientSpan(ctx, req, route)
	start := time.Now()

	resp, err := hc.Do(req)
	if err != nil {
		monitoring.ObserveUpstream(req.Method, route, 0, time.Since(start))
		netErr := &NetworkError{Op: op, Err: err}
		tracing.EndClientSpan(span, 0, netErr)
		logger.L().Warn("platform api unreachable", zap.String("op", op), zap.Error(err))
		return netErr
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	elapsed := time.Since(start)
	monitoring.ObserveUpstream(req.Method, route, resp.StatusCode, elapsed)
	if err != nil {
		netErr := &NetworkError{Op: op, Err: err}
		tracing.EndClientSpan(span, resp.StatusCode, netErr)
		return netErr
	}

	logger.L().Debug("platform api call",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", elapsed),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body ErrorBody
		_ = json.Unmarshal(data, &body)
		apiErr := classify(resp.StatusCode, body, string(data))
		tracing.EndClientSpan(span, resp.StatusCode, apiErr)
		logger.L().Warn("platform api error",
			zap.String("op", op),
			zap.Int("status", resp.StatusCode),
			zap.String("message", Describe(apiErr)),
		)
		if auth && resp.StatusCode == http.StatusUnauthorized && onUnauthorized != nil {
			onUnauthorized(ctx)
		}
		return apiErr
	}
	tracing.EndClientSpan(span, resp.StatusCode, nil)

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode %s response: %w", op, err)
	}
	return nil
}

// routeLabel 把 ID 段替换成 :id，避免指标标签基数爆炸
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	segments := strings.Split(path, "/")
	for i, seg := range segments {
		if looksLikeID(seg) {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}

func looksLikeID(seg string) bool {
	if seg == "" {
		return false
	}
	if _, err := uuid.Parse(seg); err == nil {
		return true
	}
	for _, r := range seg {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
