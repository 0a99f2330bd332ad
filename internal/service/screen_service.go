package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/resource"
	"english_admin/internal/util"
	"fmt"
	"sort"
	"strings"
)

// Screen 一个顶层管理页，对 handler 屏蔽具体记录类型
type Screen interface {
	Name() string
	Schema() *form.Schema
	Editable() bool
	Refresh(ctx context.Context, f resource.Filter) error
	Snapshot() interface{}
	Find(id string) (model.Entity, bool)
	Create(ctx context.Context, st form.State) (model.Entity, error)
	Update(ctx context.Context, id string, st form.State) (model.Entity, error)
	Remove(ctx context.Context, id string, confirmed bool) error
	Reset()
}

type screen[T model.Entity] struct {
	*resource.Controller[T]
	// readOnly 连删除也不允许
	readOnly bool
}

func (s screen[T]) Editable() bool { return s.Schema() != nil }

func (s screen[T]) Snapshot() interface{} { return s.View() }

func (s screen[T]) Find(id string) (model.Entity, bool) {
	it, ok := s.Controller.Find(id)
	if !ok {
		return nil, false
	}
	return it, true
}

func (s screen[T]) Create(ctx context.Context, st form.State) (model.Entity, error) {
	if !s.Editable() {
		return nil, fmt.Errorf("%s is read-only: %w", s.Name(), util.ErrUnknownResource)
	}
	it, err := s.Controller.Create(ctx, st)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s screen[T]) Update(ctx context.Context, id string, st form.State) (model.Entity, error) {
	if !s.Editable() {
		return nil, fmt.Errorf("%s is read-only: %w", s.Name(), util.ErrUnknownResource)
	}
	it, err := s.Controller.Update(ctx, id, st)
	if err != nil {
		return nil, err
	}
	return it, nil
}

func (s screen[T]) Remove(ctx context.Context, id string, confirmed bool) error {
	if s.readOnly {
		return fmt.Errorf("%s is read-only: %w", s.Name(), util.ErrUnknownResource)
	}
	return s.Controller.Remove(ctx, id, confirmed)
}

const (
	ScreenExams               = "exams"
	ScreenLessons             = "lessons"
	ScreenGames               = "games"
	ScreenAssessmentQuestions = "assessment-questions"
	ScreenSessions            = "sessions"
	ScreenUsers               = "users"
)

type ScreenService struct {
	screens map[string]Screen
}

func NewScreenService(c *api.Client) *ScreenService {
	s := &ScreenService{screens: make(map[string]Screen)}

	s.add(screen[model.Exam]{Controller: resource.NewController[model.Exam](ScreenExams,
		resource.EndpointSource[model.Exam]{Endpoint: c.Exams()},
		form.Exam,
		resource.WithSearch(func(e model.Exam) string { return join(e.Title, e.ExamType, e.Level) }),
	)})

	s.add(screen[model.Lesson]{Controller: resource.NewController[model.Lesson](ScreenLessons,
		resource.EndpointSource[model.Lesson]{Endpoint: c.Lessons()},
		form.Lesson,
		resource.WithSearch(func(l model.Lesson) string { return join(l.Title, l.LessonType, l.Level) }),
	)})

	s.add(screen[model.Game]{Controller: resource.NewController[model.Game](ScreenGames,
		resource.EndpointSource[model.Game]{Endpoint: c.Games()},
		form.Game,
		resource.WithSearch(func(g model.Game) string { return join(g.Title, string(g.GameType), g.Level) }),
	)})

	// 按技能过滤走后端接口，搜索在本地
	questions := c.AssessmentQuestions()
	s.add(screen[model.AssessmentQuestion]{Controller: resource.NewController[model.AssessmentQuestion](ScreenAssessmentQuestions,
		resource.EndpointSource[model.AssessmentQuestion]{
			Endpoint: questions,
			ListFunc: func(ctx context.Context, f resource.Filter) ([]model.AssessmentQuestion, error) {
				return c.AssessmentQuestionsBySkill(ctx, model.SkillType(strings.ToUpper(f.Param)))
			},
		},
		form.AssessmentQuestion,
		resource.WithSearch(func(q model.AssessmentQuestion) string {
			return join(q.TextContent, string(q.SkillType), string(q.QuestionType))
		}),
	)})

	s.add(screen[model.Session]{Controller: resource.NewController[model.Session](ScreenSessions,
		resource.EndpointSource[model.Session]{Endpoint: c.Sessions()},
		nil,
		resource.WithSearch(func(ss model.Session) string { return join(ss.Username(), ss.ExamTitle(), ss.UserID) }),
	)})

	s.add(screen[model.User]{Controller: resource.NewController[model.User](ScreenUsers,
		resource.EndpointSource[model.User]{Endpoint: c.Users()},
		nil,
		resource.WithSearch(func(u model.User) string { return join(u.Username, u.Email) }),
	), readOnly: true})

	return s
}

func (s *ScreenService) add(sc Screen) {
	s.screens[sc.Name()] = sc
}

func (s *ScreenService) Get(name string) (Screen, error) {
	sc, ok := s.screens[name]
	if !ok {
		return nil, fmt.Errorf("screen %q: %w", name, util.ErrUnknownResource)
	}
	return sc, nil
}

func (s *ScreenService) Names() []string {
	out := make([]string, 0, len(s.screens))
	for name := range s.screens {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

// Reset 退出登录时清空所有页面
func (s *ScreenService) Reset() {
	for _, sc := range s.screens {
		sc.Reset()
	}
}

func join(parts ...string) string {
	return strings.Join(parts, " ")
}
