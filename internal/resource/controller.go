package resource

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"english_admin/pkg/monitoring"
	"errors"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Filter Param 交给后端（技能、用户、父 ID），Query 在本地匹配
type Filter struct {
	Param string `json:"param,omitempty"`
	Query string `json:"query,omitempty"`
}

// Input 提交给数据源的内容；Options 仅在选项需单独创建时非空
type Input struct {
	Payload map[string]interface{}
	Options []form.OptionDraft
}

type Source[T model.Entity] interface {
	List(ctx context.Context, f Filter) ([]T, error)
	Create(ctx context.Context, in Input) (T, error)
	Update(ctx context.Context, id string, in Input) (T, error)
	Delete(ctx context.Context, id string) error
}

// View 页面渲染所需的快照
type View[T model.Entity] struct {
	Items      []T    `json:"items"`
	Total      int    `json:"total"`
	Loading    bool   `json:"loading"`
	Submitting bool   `json:"submitting"`
	Notice     string `json:"notice,omitempty"`
	Filter     Filter `json:"filter"`
}

// Controller 通用的列表/详情逻辑：变更成功后整表重新拉取，不做乐观合并
type Controller[T model.Entity] struct {
	mu         sync.Mutex
	name       string
	source     Source[T]
	schema     *form.Schema
	search     func(T) string
	items      []T
	loading    bool
	submitting bool
	notice     string
	filter     Filter
	generation uint64
}

type Option[T model.Entity] func(*Controller[T])

// WithSearch 本地搜索使用的文本，默认不支持搜索
func WithSearch[T model.Entity](fn func(T) string) Option[T] {
	return func(c *Controller[T]) { c.search = fn }
}

func NewController[T model.Entity](name string, source Source[T], schema *form.Schema, opts ...Option[T]) *Controller[T] {
	c := &Controller[T]{name: name, source: source, schema: schema, items: []T{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller[T]) Name() string { return c.name }

func (c *Controller[T]) Schema() *form.Schema { return c.schema }

// Refresh 拉取列表。失败时列表置空并给出提示；Reset 之后返回的旧结果直接丢弃
func (c *Controller[T]) Refresh(ctx context.Context, f Filter) error {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.loading = true
	c.filter = f
	c.mu.Unlock()

	items, err := c.source.List(ctx, f)

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return util.ErrStaleResponse
	}
	c.loading = false
	if err != nil {
		c.items = []T{}
		c.notice = api.Describe(err)
		monitoring.ListFailures.WithLabelValues(c.name).Inc()
		logger.L().Warn("list failed", zap.String("resource", c.name), zap.Error(err))
		return err
	}
	if items == nil {
		items = []T{}
	}
	c.items = items
	c.notice = ""
	return nil
}

// Reload 按当前过滤条件重新拉取
func (c *Controller[T]) Reload(ctx context.Context) error {
	c.mu.Lock()
	f := c.filter
	c.mu.Unlock()
	return c.Refresh(ctx, f)
}

func (c *Controller[T]) View() View[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	items := c.items
	if q := strings.ToLower(strings.TrimSpace(c.filter.Query)); q != "" && c.search != nil {
		matched := make([]T, 0, len(items))
		for _, it := range items {
			if strings.Contains(strings.ToLower(c.search(it)), q) {
				matched = append(matched, it)
			}
		}
		items = matched
	} else {
		items = append([]T{}, items...)
	}

	return View[T]{
		Items:      items,
		Total:      len(items),
		Loading:    c.loading,
		Submitting: c.submitting,
		Notice:     c.notice,
		Filter:     c.filter,
	}
}

// Find 在当前列表中按 ID 查找
func (c *Controller[T]) Find(id string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, it := range c.items {
		if it.EntityID() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Create 先做客户端校验，通过后才发请求；失败时调用方保留表单原样
func (c *Controller[T]) Create(ctx context.Context, st form.State) (T, error) {
	var zero T
	in, err := c.prepare(st)
	if err != nil {
		return zero, err
	}
	if err := c.begin(); err != nil {
		return zero, err
	}
	defer c.end()

	item, err := c.source.Create(ctx, in)
	if err != nil {
		c.logMutation("create", "", err)
		return zero, err
	}
	_ = c.Reload(ctx)
	return item, nil
}

func (c *Controller[T]) Update(ctx context.Context, id string, st form.State) (T, error) {
	var zero T
	if found, ok := c.Find(id); ok && c.schema != nil {
		merged, err := Patch(c.schema, found, st)
		if err != nil {
			return zero, err
		}
		st = merged
	}
	in, err := c.prepare(st)
	if err != nil {
		return zero, err
	}
	if err := c.begin(); err != nil {
		return zero, err
	}
	defer c.end()

	item, err := c.source.Update(ctx, id, in)
	if err != nil {
		c.logMutation("update", id, err)
		return zero, err
	}
	_ = c.Reload(ctx)
	return item, nil
}

// Remove 未确认时不发任何请求
func (c *Controller[T]) Remove(ctx context.Context, id string, confirmed bool) error {
	if !confirmed {
		return util.ErrConfirmationDeclined
	}
	if err := c.begin(); err != nil {
		return err
	}
	defer c.end()

	if err := c.source.Delete(ctx, id); err != nil {
		c.logMutation("delete", id, err)
		return err
	}
	_ = c.Reload(ctx)
	return nil
}

// Reset 退出登录或关闭页面时清空内存状态，进行中的请求结果会被丢弃
func (c *Controller[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items = []T{}
	c.loading = false
	c.notice = ""
	c.filter = Filter{}
}

// Patch 以已拉取的记录为底叠加 patch 中出现的字段，后端按整条记录覆盖
func Patch(schema *form.Schema, record interface{}, patch form.State) (form.State, error) {
	base, err := schema.From(record)
	if err != nil {
		return form.State{}, err
	}
	for k, v := range patch.Values {
		base.Values[k] = v
	}
	if patch.Options != nil {
		base.Options = append([]form.OptionDraft{}, patch.Options...)
	}
	return base, nil
}

func (c *Controller[T]) prepare(st form.State) (Input, error) {
	if c.schema == nil {
		return Input{}, errors.New("resource " + c.name + " has no form schema")
	}
	return Prepare(c.schema, st)
}

// Prepare 先做客户端校验，再生成提交内容；选项需单独创建时放入 Options
func Prepare(schema *form.Schema, st form.State) (Input, error) {
	if err := schema.Validate(st); err != nil {
		return Input{}, err
	}
	in := Input{Payload: schema.Payload(st)}
	if rule := schema.Options; rule != nil && !rule.Embedded && rule.Applies(st.Values) {
		in.Options = st.Filled()
	}
	return in, nil
}

func (c *Controller[T]) begin() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return util.ErrBusy
	}
	c.submitting = true
	return nil
}

func (c *Controller[T]) end() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}

func (c *Controller[T]) logMutation(op, id string, err error) {
	logger.L().Warn("mutation failed",
		zap.String("resource", c.name),
		zap.String("op", op),
		zap.String("id", id),
		zap.Error(err),
	)
}

// FieldErrors 合并客户端与后端的字段级错误
func FieldErrors(err error) map[string]string {
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		return vErr.Fields
	}
	return api.FieldErrors(err)
}
