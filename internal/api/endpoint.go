package api

import (
	"context"
	"english_admin/internal/model"
	"net/http"
	"net/url"
	"strings"
)

// Endpoint 一类后端资源的 CRUD 路径。
// collection 形如 /exams 或 /exams/{}/sections，item 形如 /sections/{}；
// {} 依次替换为父 ID / 记录 ID
type Endpoint[T model.Entity] struct {
	client     *Client
	collection string
	item       string
	list       string
}

func NewEndpoint[T model.Entity](c *Client, collection, item string) Endpoint[T] {
	return Endpoint[T]{client: c, collection: collection, item: item, list: collection}
}

// ListFrom 列表接口与创建接口路径不同时使用，例如 /games/{}/content
func (e Endpoint[T]) ListFrom(list string) Endpoint[T] {
	e.list = list
	return e
}

func (e Endpoint[T]) List(ctx context.Context, parentID string) ([]T, error) {
	var items []T
	if err := e.client.Do(ctx, http.MethodGet, expand(e.list, parentID), nil, &items); err != nil {
		return nil, err
	}
	if items == nil {
		items = []T{}
	}
	return items, nil
}

func (e Endpoint[T]) Get(ctx context.Context, id string) (T, error) {
	var item T
	err := e.client.Do(ctx, http.MethodGet, expand(e.item, id), nil, &item)
	return item, err
}

func (e Endpoint[T]) Create(ctx context.Context, parentID string, body interface{}) (T, error) {
	var item T
	err := e.client.Do(ctx, http.MethodPost, expand(e.collection, parentID), body, &item)
	return item, err
}

func (e Endpoint[T]) Update(ctx context.Context, id string, body interface{}) (T, error) {
	var item T
	err := e.client.Do(ctx, http.MethodPut, expand(e.item, id), body, &item)
	return item, err
}

func (e Endpoint[T]) Delete(ctx context.Context, id string) error {
	return e.client.Do(ctx, http.MethodDelete, expand(e.item, id), nil, nil)
}

func expand(pattern, id string) string {
	return strings.Replace(pattern, "{}", url.PathEscape(id), 1)
}
