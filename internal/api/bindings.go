package api

import (
	"context"
	"english_admin/internal/model"
	"fmt"
	"net/http"
)

func (c *Client) Exams() Endpoint[model.Exam] {
	return NewEndpoint[model.Exam](c, "/exams", "/exams/{}")
}

func (c *Client) Sections() Endpoint[model.Section] {
	return NewEndpoint[model.Section](c, "/exams/{}/sections", "/sections/{}")
}

func (c *Client) Questions() Endpoint[model.ExamQuestion] {
	return NewEndpoint[model.ExamQuestion](c, "/sections/{}/questions", "/questions/{}")
}

func (c *Client) Options() Endpoint[model.Option] {
	return NewEndpoint[model.Option](c, "/questions/{}/options", "/options/{}")
}

func (c *Client) Lessons() Endpoint[model.Lesson] {
	return NewEndpoint[model.Lesson](c, "/lessons", "/lessons/{}")
}

func (c *Client) SubLessons() Endpoint[model.SubLesson] {
	return NewEndpoint[model.SubLesson](c, "/lessons/{}/sub-lessons", "/sub-lessons/{}")
}

func (c *Client) Materials() Endpoint[model.Material] {
	return NewEndpoint[model.Material](c, "/sub-lessons/{}/materials", "/sub-lessons/materials/{}")
}

func (c *Client) Exercises() Endpoint[model.Exercise] {
	return NewEndpoint[model.Exercise](c, "/sub-lessons/{}/exercises", "/sub-lessons/exercises/{}")
}

func (c *Client) Games() Endpoint[model.Game] {
	return NewEndpoint[model.Game](c, "/games", "/games/{}")
}

func (c *Client) Rooms() Endpoint[model.Room] {
	return NewEndpoint[model.Room](c, "/games/{}/rooms", "/rooms/{}")
}

func (c *Client) Players() Endpoint[model.RoomPlayer] {
	return NewEndpoint[model.RoomPlayer](c, "/rooms/{}/players", "/room-players/{}")
}

// 游戏内容：列表统一走 /games/{}/content，增删改按类型分路径

func (c *Client) WordPairs() Endpoint[model.WordPair] {
	return gameContent[model.WordPair](c, "word-pairs")
}

func (c *Client) Flashcards() Endpoint[model.Flashcard] {
	return gameContent[model.Flashcard](c, "flashcards")
}

func (c *Client) SpellingWords() Endpoint[model.SpellingWord] {
	return gameContent[model.SpellingWord](c, "spelling-words")
}

func (c *Client) QuizQuestions() Endpoint[model.QuizQuestion] {
	return gameContent[model.QuizQuestion](c, "quiz-questions")
}

func (c *Client) Puzzles() Endpoint[model.Puzzle] {
	return gameContent[model.Puzzle](c, "puzzles")
}

func gameContent[T model.Entity](c *Client, segment string) Endpoint[T] {
	return NewEndpoint[T](c, "/games/{}/"+segment, "/games/"+segment+"/{}").ListFrom("/games/{}/content")
}

func (c *Client) AssessmentQuestions() Endpoint[model.AssessmentQuestion] {
	return NewEndpoint[model.AssessmentQuestion](c, "/assessments/questions", "/assessments/questions/{}")
}

// AssessmentQuestionsBySkill skill 为空时返回全部题目
func (c *Client) AssessmentQuestionsBySkill(ctx context.Context, skill model.SkillType) ([]model.AssessmentQuestion, error) {
	if skill == "" {
		return c.AssessmentQuestions().List(ctx, "")
	}
	return NewEndpoint[model.AssessmentQuestion](c, "/assessments/questions/skill/{}", "").List(ctx, string(skill))
}

// Assessments 某个用户的分级测试结果
func (c *Client) Assessments() Endpoint[model.Assessment] {
	return NewEndpoint[model.Assessment](c, "/assessments/users/{}", "/assessments/{}")
}

// ApplyTemplate 后端按模板批量生成题目，响应为纯文本
func (c *Client) ApplyTemplate(ctx context.Context, name string) error {
	if name == "" {
		return fmt.Errorf("template name is required")
	}
	return c.Do(ctx, http.MethodPost, expand("/assessments/templates/{}", name), nil, nil)
}

// Sessions List("") 返回全部作答记录
func (c *Client) Sessions() Endpoint[model.Session] {
	return NewEndpoint[model.Session](c, "/sessions", "/sessions/{}")
}

func (c *Client) ExamSessions() Endpoint[model.Session] {
	return NewEndpoint[model.Session](c, "/sessions/exam/{}", "/sessions/{}")
}

func (c *Client) Answers() Endpoint[model.Answer] {
	return NewEndpoint[model.Answer](c, "/sessions/{}/answers", "/answers/{}")
}

func (c *Client) Users() Endpoint[model.User] {
	return NewEndpoint[model.User](c, "/users", "/users/{}")
}
