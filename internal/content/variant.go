package content

import (
	"context"
	"encoding/json"
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/resource"
	"english_admin/internal/util"
	"fmt"
	"strings"
)

// Preview 表单实时预览与列表展示共用的摘要
type Preview struct {
	Summary    string `json:"summary"`
	WordCount  int    `json:"wordCount,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
}

// Variant 一种游戏内容的增删改查能力
type Variant interface {
	Kind() model.GameType
	Resource() string
	Schema() *form.Schema
	// NewForm existing 为当前条目数，用于默认 displayOrder
	NewForm(existing int) form.State
	List(ctx context.Context, gameID string) ([]model.Entity, error)
	Add(ctx context.Context, gameID string, st form.State) (model.Entity, error)
	Edit(ctx context.Context, itemID string, st form.State) (model.Entity, error)
	Delete(ctx context.Context, itemID string) error
	Summarize(item model.Entity) Preview
	PreviewForm(st form.State) Preview

	source(gameID string) resource.Source[model.Entity]
}

type variant[T model.Entity] struct {
	kind      model.GameType
	schema    *form.Schema
	endpoint  api.Endpoint[T]
	summarize func(T) Preview
}

func (v *variant[T]) Kind() model.GameType { return v.kind }

func (v *variant[T]) Resource() string { return v.schema.Resource }

func (v *variant[T]) Schema() *form.Schema { return v.schema }

func (v *variant[T]) NewForm(existing int) form.State {
	st := v.schema.New()
	if _, ok := v.schema.Field("displayOrder"); ok {
		st = v.schema.Set(st, "displayOrder", float64(existing+1))
	}
	return st
}

func (v *variant[T]) List(ctx context.Context, gameID string) ([]model.Entity, error) {
	return v.source(gameID).List(ctx, resource.Filter{})
}

func (v *variant[T]) Add(ctx context.Context, gameID string, st form.State) (model.Entity, error) {
	if err := v.schema.Validate(st); err != nil {
		return nil, err
	}
	return v.source(gameID).Create(ctx, resource.Input{Payload: v.schema.Payload(st)})
}

func (v *variant[T]) Edit(ctx context.Context, itemID string, st form.State) (model.Entity, error) {
	if err := v.schema.Validate(st); err != nil {
		return nil, err
	}
	return v.source("").Update(ctx, itemID, resource.Input{Payload: v.schema.Payload(st)})
}

func (v *variant[T]) Delete(ctx context.Context, itemID string) error {
	return v.endpoint.Delete(ctx, itemID)
}

func (v *variant[T]) Summarize(item model.Entity) Preview {
	t, ok := item.(T)
	if !ok {
		return Preview{}
	}
	return v.summarize(t)
}

func (v *variant[T]) source(gameID string) resource.Source[model.Entity] {
	return &itemSource[T]{endpoint: v.endpoint, gameID: gameID}
}

// itemSource 把带类型的内容接口擦除为 model.Entity，供通用控制器使用
type itemSource[T model.Entity] struct {
	endpoint api.Endpoint[T]
	gameID   string
}

func (s *itemSource[T]) List(ctx context.Context, _ resource.Filter) ([]model.Entity, error) {
	items, err := s.endpoint.List(ctx, s.gameID)
	if err != nil {
		return nil, err
	}
	out := make([]model.Entity, len(items))
	for i, it := range items {
		out[i] = it
	}
	return out, nil
}

func (s *itemSource[T]) Create(ctx context.Context, in resource.Input) (model.Entity, error) {
	item, err := s.endpoint.Create(ctx, s.gameID, in.Payload)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemSource[T]) Update(ctx context.Context, id string, in resource.Input) (model.Entity, error) {
	item, err := s.endpoint.Update(ctx, id, in.Payload)
	if err != nil {
		return nil, err
	}
	return item, nil
}

func (s *itemSource[T]) Delete(ctx context.Context, id string) error {
	return s.endpoint.Delete(ctx, id)
}

// PreviewForm 先把表单转成记录再摘要，保证与列表展示一致
func (v *variant[T]) PreviewForm(st form.State) Preview {
	var t T
	raw, err := json.Marshal(v.schema.Payload(st))
	if err != nil {
		return Preview{}
	}
	if err := json.Unmarshal(raw, &t); err != nil {
		return Preview{}
	}
	return v.summarize(t)
}

// UnsupportedError 游戏类型没有对应的内容编辑器
type UnsupportedError struct {
	GameType string
}

func (e *UnsupportedError) Error() string {
	if e.GameType == "" {
		return "Content editing is not supported for games without a type"
	}
	return fmt.Sprintf("Content editing for game type %q is not supported", e.GameType)
}

func (e *UnsupportedError) Unwrap() error { return util.ErrUnsupportedGameType }

// Normalize 兼容旧数据中带空格的写法，例如 "WORD MATCH"、"flash card"
func Normalize(gameType string) model.GameType {
	s := strings.ToUpper(strings.TrimSpace(gameType))
	s = strings.Join(strings.Fields(s), "_")
	switch s {
	case "FLASH_CARD", "FLASH_CARDS", "FLASHCARDS":
		return model.GameFlashcard
	case "WORDMATCH":
		return model.GameWordMatch
	}
	return model.GameType(s)
}

// Dispatcher 按 gameType 选出唯一的内容变体
type Dispatcher struct {
	variants map[model.GameType]Variant
}

func NewDispatcher(c *api.Client) *Dispatcher {
	d := &Dispatcher{variants: make(map[model.GameType]Variant)}
	for _, v := range []Variant{
		&variant[model.WordPair]{kind: model.GameWordMatch, schema: form.WordPair, endpoint: c.WordPairs(), summarize: summarizeWordPair},
		&variant[model.Flashcard]{kind: model.GameFlashcard, schema: form.Flashcard, endpoint: c.Flashcards(), summarize: summarizeFlashcard},
		&variant[model.SpellingWord]{kind: model.GameSpelling, schema: form.SpellingWord, endpoint: c.SpellingWords(), summarize: summarizeSpelling},
		&variant[model.QuizQuestion]{kind: model.GameQuiz, schema: form.QuizQuestion, endpoint: c.QuizQuestions(), summarize: summarizeQuiz},
		&variant[model.Puzzle]{kind: model.GamePuzzle, schema: form.Puzzle, endpoint: c.Puzzles(), summarize: summarizePuzzle},
	} {
		d.variants[v.Kind()] = v
	}
	return d
}

func (d *Dispatcher) Dispatch(gameType string) (Variant, error) {
	v, ok := d.variants[Normalize(gameType)]
	if !ok {
		return nil, &UnsupportedError{GameType: gameType}
	}
	return v, nil
}

// Kinds 支持的游戏类型
func (d *Dispatcher) Kinds() []model.GameType {
	out := make([]model.GameType, 0, len(model.GameTypes))
	for _, k := range model.GameTypes {
		if _, ok := d.variants[k]; ok {
			out = append(out, k)
		}
	}
	return out
}

func summarizeWordPair(w model.WordPair) Preview {
	return Preview{Summary: fmt.Sprintf("%s → %s", w.EnglishWord, w.VietnameseTranslation)}
}

func summarizeFlashcard(f model.Flashcard) Preview {
	return Preview{Summary: fmt.Sprintf("%s / %s", f.Front, f.Back)}
}

func summarizeSpelling(s model.SpellingWord) Preview {
	return Preview{Summary: fmt.Sprintf("%s (%s)", s.Word, s.Difficulty), Difficulty: s.Difficulty}
}

var quizLetters = []string{"A", "B", "C", "D"}

func summarizeQuiz(q model.QuizQuestion) Preview {
	letter := "?"
	if q.CorrectAnswer >= 0 && q.CorrectAnswer < len(quizLetters) {
		letter = quizLetters[q.CorrectAnswer]
	}
	return Preview{Summary: fmt.Sprintf("%s [answer %s]", q.Question, letter)}
}

func summarizePuzzle(p model.Puzzle) Preview {
	return Preview{
		Summary:    p.Sentence,
		WordCount:  WordCount(p.Sentence),
		Difficulty: PuzzleDifficulty(p.Sentence),
	}
}
