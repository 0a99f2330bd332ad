package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/content"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"fmt"
	"sync"
)

// ContentService 游戏内容编辑，每个游戏一个 Editor
type ContentService struct {
	client     *api.Client
	dispatcher *content.Dispatcher

	mu      sync.Mutex
	editors map[string]*content.Editor
}

func NewContentService(c *api.Client) *ContentService {
	return &ContentService{
		client:     c,
		dispatcher: content.NewDispatcher(c),
		editors:    make(map[string]*content.Editor),
	}
}

func (s *ContentService) Dispatcher() *content.Dispatcher { return s.dispatcher }

// Open 取游戏记录决定内容类型，然后拉取内容；类型不支持时返回 *content.UnsupportedError
func (s *ContentService) Open(ctx context.Context, gameID string) (*content.Editor, error) {
	game, err := s.client.Games().Get(ctx, gameID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	ed, ok := s.editors[gameID]
	s.mu.Unlock()
	// 游戏类型被改过时重新选择变体
	if ok && ed.Variant.Kind() == content.Normalize(string(game.GameType)) {
		ed.Game = game
		return ed, ed.Reload(ctx)
	}

	ed, err = s.dispatcher.Open(ctx, game)
	if ed == nil {
		return nil, err
	}
	s.mu.Lock()
	s.editors[gameID] = ed
	s.mu.Unlock()
	return ed, err
}

// ContentView 内容列表连同每行摘要
type ContentView struct {
	Game      model.Game        `json:"game"`
	Kind      model.GameType    `json:"kind"`
	Items     []model.Entity    `json:"items"`
	Summaries []content.Preview `json:"summaries"`
	Total     int               `json:"total"`
	Notice    string            `json:"notice,omitempty"`
	Form      form.View         `json:"form"`
}

func (s *ContentService) View(ed *content.Editor) ContentView {
	v := ed.View()
	return ContentView{
		Game:      ed.Game,
		Kind:      ed.Variant.Kind(),
		Items:     v.Items,
		Summaries: ed.Summaries(),
		Total:     v.Total,
		Notice:    v.Notice,
		Form:      ed.Variant.Schema().Describe(ed.NewForm()),
	}
}

func (s *ContentService) Create(ctx context.Context, gameID string, st form.State) (model.Entity, error) {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ed.Create(ctx, st)
}

func (s *ContentService) Update(ctx context.Context, gameID, itemID string, st form.State) (model.Entity, error) {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ed.Update(ctx, itemID, st)
}

func (s *ContentService) Delete(ctx context.Context, gameID, itemID string, confirmed bool) error {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return err
	}
	return ed.Remove(ctx, itemID, confirmed)
}

// Preview 表单实时预览，拼图会给出词数和难度
func (s *ContentService) Preview(ctx context.Context, gameID string, st form.State) (content.Preview, error) {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return content.Preview{}, err
	}
	return ed.Variant.PreviewForm(st), nil
}

// Form itemID 为空时为新建表单（displayOrder 排在最后），否则取当前列表中的条目
func (s *ContentService) Form(ctx context.Context, gameID, itemID string) (*form.Schema, form.State, error) {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return nil, form.State{}, err
	}
	schema := ed.Variant.Schema()
	if itemID == "" {
		return schema, ed.NewForm(), nil
	}
	item, ok := ed.Find(itemID)
	if !ok {
		return nil, form.State{}, fmt.Errorf("content item %s: %w", itemID, util.ErrUnknownResource)
	}
	st, err := schema.From(item)
	return schema, st, err
}

// Schema 当前游戏内容的表单定义
func (s *ContentService) Schema(ctx context.Context, gameID string) (*form.Schema, error) {
	ed, err := s.editor(ctx, gameID)
	if err != nil {
		return nil, err
	}
	return ed.Variant.Schema(), nil
}

// Current 已打开的编辑器，不发起请求
func (s *ContentService) Current(gameID string) (*content.Editor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ed, ok := s.editors[gameID]
	return ed, ok
}

func (s *ContentService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, ed := range s.editors {
		ed.Reset()
		delete(s.editors, id)
	}
}

func (s *ContentService) editor(ctx context.Context, gameID string) (*content.Editor, error) {
	s.mu.Lock()
	ed, ok := s.editors[gameID]
	s.mu.Unlock()
	if ok {
		return ed, nil
	}
	ed, err := s.Open(ctx, gameID)
	if ed == nil {
		return nil, err
	}
	return ed, nil
}
