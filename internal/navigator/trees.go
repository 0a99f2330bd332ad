package navigator

import "english_admin/internal/api"

// 子集合名，同时作为下一层的 From
const (
	ChildSections  = "sections"
	ChildQuestions = "questions"
	ChildOptions   = "options"
	ChildSubs      = "subLessons"
	ChildMaterials = "materials"
	ChildExercises = "exercises"
	ChildRooms     = "rooms"
	ChildPlayers   = "players"
	ChildSessions  = "sessions"
	ChildAnswers   = "answers"
)

// ExamTree 考试 -> 分组 -> 题目（含选项）
func ExamTree(c *api.Client) *Tree {
	return &Tree{Name: "exams", Levels: []Level{
		{Name: "exam", Children: []Child{{Name: ChildSections, Fetch: FromEndpoint(c.Sections())}}},
		{Name: "section", From: ChildSections, Children: []Child{{Name: ChildQuestions, Fetch: FromEndpoint(c.Questions())}}},
		{Name: "question", From: ChildQuestions, Children: []Child{{Name: ChildOptions, Fetch: FromEndpoint(c.Options())}}},
	}}
}

// LessonTree 课程 -> 子课程 -> 资料与练习
func LessonTree(c *api.Client) *Tree {
	return &Tree{Name: "lessons", Levels: []Level{
		{Name: "lesson", Children: []Child{{Name: ChildSubs, Fetch: FromEndpoint(c.SubLessons())}}},
		{Name: "subLesson", From: ChildSubs, Children: []Child{
			{Name: ChildMaterials, Fetch: FromEndpoint(c.Materials())},
			{Name: ChildExercises, Fetch: FromEndpoint(c.Exercises())},
		}},
	}}
}

// GameTree 游戏 -> 房间 -> 玩家
func GameTree(c *api.Client) *Tree {
	return &Tree{Name: "games", Levels: []Level{
		{Name: "game", Children: []Child{{Name: ChildRooms, Fetch: FromEndpoint(c.Rooms())}}},
		{Name: "room", From: ChildRooms, Children: []Child{{Name: ChildPlayers, Fetch: FromEndpoint(c.Players())}}},
	}}
}

// SessionTree 考试 -> 作答记录 -> 答案
func SessionTree(c *api.Client) *Tree {
	return &Tree{Name: "sessions", Levels: []Level{
		{Name: "exam", Children: []Child{{Name: ChildSessions, Fetch: FromEndpoint(c.ExamSessions())}}},
		{Name: "session", From: ChildSessions, Children: []Child{{Name: ChildAnswers, Fetch: FromEndpoint(c.Answers())}}},
	}}
}
