package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/navigator"
	"english_admin/internal/resource"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"
)

// childWriter 某个子集合的写接口；create 为空表示只读，delete 为空表示不可删
type childWriter struct {
	schema *form.Schema
	create func(ctx context.Context, parentID string, in resource.Input) (model.Entity, error)
	update func(ctx context.Context, id string, in resource.Input) (model.Entity, error)
	delete func(ctx context.Context, id string) error
	// optionsOf 选项单独存放时，编辑表单需要另行拉取
	optionsOf func(ctx context.Context, id string) ([]form.OptionDraft, error)
}

func writerFor[T model.Entity](schema *form.Schema, ep api.Endpoint[T]) childWriter {
	return childWriter{
		schema: schema,
		create: func(ctx context.Context, parentID string, in resource.Input) (model.Entity, error) {
			it, err := ep.Create(ctx, parentID, in.Payload)
			if err != nil {
				return nil, err
			}
			return it, nil
		},
		update: func(ctx context.Context, id string, in resource.Input) (model.Entity, error) {
			it, err := ep.Update(ctx, id, in.Payload)
			if err != nil {
				return nil, err
			}
			return it, nil
		},
		delete: ep.Delete,
	}
}

func deleteOnly[T model.Entity](ep api.Endpoint[T]) childWriter {
	return childWriter{delete: ep.Delete}
}

type navEntry struct {
	nav     *navigator.Navigator
	writers map[string]childWriter
	busy    bool
}

// NavigationService 管理几棵下钻树以及各层子集合的增删改
type NavigationService struct {
	mu    sync.Mutex
	trees map[string]*navEntry
}

func NewNavigationService(c *api.Client) *NavigationService {
	s := &NavigationService{trees: make(map[string]*navEntry)}

	questions := writerFor(form.ExamQuestion, c.Questions())
	questions.create = func(ctx context.Context, sectionID string, in resource.Input) (model.Entity, error) {
		q, err := c.Questions().Create(ctx, sectionID, in.Payload)
		if err != nil {
			return nil, err
		}
		if err := saveQuestionOptions(ctx, c, q.QuestionID, in.Options, false); err != nil {
			// 选项没存全则撤回题目，表单保持新建状态可以直接重试
			if delErr := c.Questions().Delete(ctx, q.QuestionID); delErr != nil {
				logger.L().Error("rollback question failed",
					zap.String("questionId", q.QuestionID), zap.Error(delErr))
				return q, err
			}
			return nil, err
		}
		return q, nil
	}
	questions.update = func(ctx context.Context, id string, in resource.Input) (model.Entity, error) {
		q, err := c.Questions().Update(ctx, id, in.Payload)
		if err != nil {
			return nil, err
		}
		return q, saveQuestionOptions(ctx, c, id, in.Options, true)
	}

	questions.optionsOf = func(ctx context.Context, id string) ([]form.OptionDraft, error) {
		opts, err := c.Options().List(ctx, id)
		if err != nil {
			return nil, err
		}
		out := make([]form.OptionDraft, len(opts))
		for i, o := range opts {
			out[i] = form.OptionDraft{OptionID: o.OptionID, OptionText: o.OptionText, IsCorrect: o.IsCorrect, Explanation: o.Explanation}
		}
		return out, nil
	}

	s.register(navigator.ExamTree(c), map[string]childWriter{
		navigator.ChildSections:  writerFor(form.Section, c.Sections()),
		navigator.ChildQuestions: questions,
		navigator.ChildOptions:   deleteOnly(c.Options()),
	})
	s.register(navigator.LessonTree(c), map[string]childWriter{
		navigator.ChildSubs:      writerFor(form.SubLesson, c.SubLessons()),
		navigator.ChildMaterials: writerFor(form.Material, c.Materials()),
		navigator.ChildExercises: writerFor(form.Exercise, c.Exercises()),
	})
	s.register(navigator.GameTree(c), map[string]childWriter{
		navigator.ChildRooms:   writerFor(form.Room, c.Rooms()),
		navigator.ChildPlayers: deleteOnly(c.Players()),
	})
	s.register(navigator.SessionTree(c), map[string]childWriter{
		navigator.ChildSessions: deleteOnly(c.Sessions()),
	})
	return s
}

// saveQuestionOptions 选项单独建表；更新题目时先删旧选项再按表单重建
func saveQuestionOptions(ctx context.Context, c *api.Client, questionID string, opts []form.OptionDraft, replace bool) error {
	ep := c.Options()
	if replace {
		existing, err := ep.List(ctx, questionID)
		if err != nil {
			return err
		}
		for _, o := range existing {
			if err := ep.Delete(ctx, o.OptionID); err != nil {
				return err
			}
		}
	}
	for _, o := range opts {
		if _, err := ep.Create(ctx, questionID, map[string]interface{}{
			"optionText":  o.OptionText,
			"isCorrect":   o.IsCorrect,
			"explanation": o.Explanation,
			"orderIndex":  o.OrderIndex,
		}); err != nil {
			return fmt.Errorf("save option %d: %w", o.OrderIndex, err)
		}
	}
	return nil
}

func (s *NavigationService) register(tree *navigator.Tree, writers map[string]childWriter) {
	s.trees[tree.Name] = &navEntry{nav: navigator.New(tree), writers: writers}
}

func (s *NavigationService) entry(tree string) (*navEntry, error) {
	e, ok := s.trees[tree]
	if !ok {
		return nil, fmt.Errorf("tree %q: %w", tree, util.ErrUnknownResource)
	}
	return e, nil
}

func (s *NavigationService) Trees() []string {
	out := make([]string, 0, len(s.trees))
	for name := range s.trees {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func (s *NavigationService) Navigator(tree string) (*navigator.Navigator, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, err
	}
	return e.nav, nil
}

func (s *NavigationService) Open(ctx context.Context, tree string, depth int, id string) ([]navigator.FrameView, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, err
	}
	err = e.nav.Open(ctx, depth, id)
	return e.nav.Frames(), err
}

func (s *NavigationService) Close(tree string, depth int) ([]navigator.FrameView, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, err
	}
	e.nav.Close(depth)
	return e.nav.Frames(), nil
}

func (s *NavigationService) Frames(tree string) ([]navigator.FrameView, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, err
	}
	return e.nav.Frames(), nil
}

// ChildSchema 子集合的表单定义，只读集合返回 nil
func (s *NavigationService) ChildSchema(tree, child string) (*form.Schema, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, err
	}
	w, ok := e.writers[child]
	if !ok {
		return nil, fmt.Errorf("%s has no child %q: %w", tree, child, util.ErrUnknownResource)
	}
	return w.schema, nil
}

// ChildForm 子记录的表单：id 为空时为新建默认值，否则取 depth 层已拉取的记录
func (s *NavigationService) ChildForm(ctx context.Context, tree string, depth int, child, id string) (*form.Schema, form.State, error) {
	e, w, err := s.writer(tree, depth, child)
	if err != nil {
		return nil, form.State{}, err
	}
	if w.schema == nil {
		return nil, form.State{}, fmt.Errorf("%s is read-only: %w", child, util.ErrUnknownResource)
	}
	if id == "" {
		if _, ok := e.nav.Selected(depth); !ok {
			return nil, form.State{}, util.ErrParentNotSelected
		}
		st := w.schema.New()
		if items, err := e.nav.Children(depth, child); err == nil {
			if _, ok := w.schema.Field("orderIndex"); ok {
				st = w.schema.Set(st, "orderIndex", float64(len(items)+1))
			}
		}
		return w.schema, st, nil
	}

	items, err := e.nav.Children(depth, child)
	if err != nil {
		return nil, form.State{}, err
	}
	for _, it := range items {
		if it.EntityID() != id {
			continue
		}
		st, err := w.schema.From(it)
		if err != nil {
			return nil, form.State{}, err
		}
		if w.optionsOf != nil && w.schema.Options != nil && w.schema.Options.Applies(st.Values) {
			opts, err := w.optionsOf(ctx, id)
			if err != nil {
				return nil, form.State{}, err
			}
			if len(opts) > 0 {
				st.Options = opts
				st = st.Renumbered()
			}
		}
		return w.schema, st, nil
	}
	return nil, form.State{}, fmt.Errorf("%s %s is not under the selected parent: %w", child, id, util.ErrParentNotSelected)
}

// CreateChild 在 depth 层选中的节点下新建子记录，成功后重新拉取该层
func (s *NavigationService) CreateChild(ctx context.Context, tree string, depth int, child string, st form.State) (model.Entity, error) {
	e, w, err := s.writer(tree, depth, child)
	if err != nil {
		return nil, err
	}
	if w.create == nil {
		return nil, fmt.Errorf("%s is read-only: %w", child, util.ErrUnknownResource)
	}
	parentID, ok := e.nav.Selected(depth)
	if !ok {
		return nil, util.ErrParentNotSelected
	}
	in, err := prepare(w.schema, st)
	if err != nil {
		return nil, err
	}
	if err := s.begin(e); err != nil {
		return nil, err
	}
	defer s.end(e)

	it, err := w.create(ctx, parentID, in)
	if err != nil {
		if it != nil {
			// 记录已写入后端，列表要反映出来
			s.reload(ctx, tree, e, depth)
		}
		return nil, err
	}
	s.reload(ctx, tree, e, depth)
	return it, nil
}

func (s *NavigationService) UpdateChild(ctx context.Context, tree string, depth int, child, id string, st form.State) (model.Entity, error) {
	e, w, err := s.writer(tree, depth, child)
	if err != nil {
		return nil, err
	}
	if w.update == nil {
		return nil, fmt.Errorf("%s is read-only: %w", child, util.ErrUnknownResource)
	}
	found, err := ownsChild(e, depth, child, id)
	if err != nil {
		return nil, err
	}
	if st, err = s.patch(ctx, w, found, st); err != nil {
		return nil, err
	}
	in, err := prepare(w.schema, st)
	if err != nil {
		return nil, err
	}
	if err := s.begin(e); err != nil {
		return nil, err
	}
	defer s.end(e)

	it, err := w.update(ctx, id, in)
	if err != nil {
		if it != nil {
			s.reload(ctx, tree, e, depth)
		}
		return nil, err
	}
	s.reload(ctx, tree, e, depth)
	return it, nil
}

// DeleteChild 后端负责级联删除下级记录
func (s *NavigationService) DeleteChild(ctx context.Context, tree string, depth int, child, id string, confirmed bool) error {
	e, w, err := s.writer(tree, depth, child)
	if err != nil {
		return err
	}
	if w.delete == nil {
		return fmt.Errorf("%s is read-only: %w", child, util.ErrUnknownResource)
	}
	if !confirmed {
		return util.ErrConfirmationDeclined
	}
	if _, err := ownsChild(e, depth, child, id); err != nil {
		return err
	}
	if err := s.begin(e); err != nil {
		return err
	}
	defer s.end(e)

	if err := w.delete(ctx, id); err != nil {
		return err
	}
	// 被删的节点若正处于选中状态，关闭它以下的帧
	if sel, ok := e.nav.Selected(depth + 1); ok && sel == id {
		e.nav.Close(depth + 1)
	}
	s.reload(ctx, tree, e, depth)
	return nil
}

// Reset 退出登录时清空所有下钻状态
func (s *NavigationService) Reset() {
	for _, e := range s.trees {
		e.nav.Reset()
	}
}

// writer 只接受 depth 层自身的子集合，外键才会指向该层选中的节点
func (s *NavigationService) writer(tree string, depth int, child string) (*navEntry, childWriter, error) {
	e, err := s.entry(tree)
	if err != nil {
		return nil, childWriter{}, err
	}
	w, ok := e.writers[child]
	if !ok || !levelHasChild(e.nav.Tree(), depth, child) {
		return nil, childWriter{}, fmt.Errorf("%s level %d has no child %q: %w", tree, depth, child, util.ErrUnknownResource)
	}
	return e, w, nil
}

func levelHasChild(tree *navigator.Tree, depth int, child string) bool {
	if depth < 0 || depth >= len(tree.Levels) {
		return false
	}
	for _, ch := range tree.Levels[depth].Children {
		if ch.Name == child {
			return true
		}
	}
	return false
}

// ownsChild id 必须是 depth 层选中节点下已拉取的子记录
func ownsChild(e *navEntry, depth int, child, id string) (model.Entity, error) {
	if _, ok := e.nav.Selected(depth); !ok {
		return nil, util.ErrParentNotSelected
	}
	items, err := e.nav.Children(depth, child)
	if err != nil {
		return nil, err
	}
	for _, it := range items {
		if it.EntityID() == id {
			return it, nil
		}
	}
	return nil, fmt.Errorf("%s %s is not under the selected parent: %w", child, id, util.ErrParentNotSelected)
}

// patch 未提交选项时沿用后端现有选项，避免更新题干时清空选项
func (s *NavigationService) patch(ctx context.Context, w childWriter, found model.Entity, st form.State) (form.State, error) {
	if w.schema == nil {
		return st, nil
	}
	merged, err := resource.Patch(w.schema, found, st)
	if err != nil {
		return form.State{}, err
	}
	if st.Options == nil && w.optionsOf != nil && w.schema.Options != nil && w.schema.Options.Applies(merged.Values) {
		opts, err := w.optionsOf(ctx, found.EntityID())
		if err != nil {
			return form.State{}, err
		}
		if len(opts) > 0 {
			merged.Options = opts
			merged = merged.Renumbered()
		}
	}
	return merged, nil
}

func (s *NavigationService) begin(e *navEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.busy {
		return util.ErrBusy
	}
	e.busy = true
	return nil
}

func (s *NavigationService) end(e *navEntry) {
	s.mu.Lock()
	e.busy = false
	s.mu.Unlock()
}

func (s *NavigationService) reload(ctx context.Context, tree string, e *navEntry, depth int) {
	if err := e.nav.Reload(ctx, depth); err != nil {
		logger.L().Warn("reload after child mutation failed",
			zap.String("tree", tree), zap.Int("depth", depth), zap.Error(err))
	}
}

func prepare(schema *form.Schema, st form.State) (resource.Input, error) {
	if schema == nil {
		return resource.Input{}, util.ErrUnknownResource
	}
	return resource.Prepare(schema, st)
}
