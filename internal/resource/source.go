package resource

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/model"
)

// EndpointSource 直接映射到一个后端集合；Parent 为空表示顶层资源
type EndpointSource[T model.Entity] struct {
	Endpoint api.Endpoint[T]
	Parent   string
	// ListFunc 需要按 Filter.Param 切换接口时覆盖默认列表
	ListFunc func(ctx context.Context, f Filter) ([]T, error)
	// AfterSave 题目保存后单独写入选项等后续操作
	AfterSave func(ctx context.Context, item T, in Input, created bool) error
}

func (s EndpointSource[T]) List(ctx context.Context, f Filter) ([]T, error) {
	if s.ListFunc != nil {
		return s.ListFunc(ctx, f)
	}
	return s.Endpoint.List(ctx, s.Parent)
}

func (s EndpointSource[T]) Create(ctx context.Context, in Input) (T, error) {
	item, err := s.Endpoint.Create(ctx, s.Parent, in.Payload)
	if err != nil {
		return item, err
	}
	if s.AfterSave != nil {
		if err := s.AfterSave(ctx, item, in, true); err != nil {
			return item, err
		}
	}
	return item, nil
}

func (s EndpointSource[T]) Update(ctx context.Context, id string, in Input) (T, error) {
	item, err := s.Endpoint.Update(ctx, id, in.Payload)
	if err != nil {
		return item, err
	}
	if s.AfterSave != nil {
		if err := s.AfterSave(ctx, item, in, false); err != nil {
			return item, err
		}
	}
	return item, nil
}

func (s EndpointSource[T]) Delete(ctx context.Context, id string) error {
	return s.Endpoint.Delete(ctx, id)
}
