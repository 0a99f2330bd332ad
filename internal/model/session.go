package model

// Session 考试作答记录，控制台只读（可删除）
// swagger:model Session
type Session struct {
	SessionID    string       `json:"sessionId"`
	UserID       string       `json:"userId"`
	ExamID       string       `json:"examId"`
	User         *UserSummary `json:"user,omitempty"`
	Exam         *ExamSummary `json:"exam,omitempty"`
	StartTime    Timestamp    `json:"startTime"`
	FinishedAt   Timestamp    `json:"finishedAt"`
	FinalScore   float64      `json:"finalScore"`
	TotalCorrect int          `json:"totalCorrect"`
	BandScore    float64      `json:"bandScore"`
}

func (s Session) EntityID() string { return s.SessionID }

// Username 优先使用嵌套的 user
func (s Session) Username() string {
	if s.User != nil {
		return s.User.Username
	}
	return ""
}

func (s Session) ExamTitle() string {
	if s.Exam != nil {
		return s.Exam.Title
	}
	return ""
}

type ExamSummary struct {
	ExamID string `json:"examId"`
	Title  string `json:"title"`
}

// swagger:model Answer
type Answer struct {
	AnswerID       string  `json:"answerId"`
	SessionID      string  `json:"sessionId"`
	QuestionID     string  `json:"questionId"`
	SelectedOption *Option `json:"selectedOption,omitempty"`
	TextResponse   *string `json:"textResponse,omitempty"`
	IsCorrect      bool    `json:"isCorrect"`
	ScoreEarned    float64 `json:"scoreEarned"`
}

func (a Answer) EntityID() string { return a.AnswerID }

// Response 作答内容的展示文本
func (a Answer) Response() string {
	if a.SelectedOption != nil {
		return a.SelectedOption.OptionText
	}
	if a.TextResponse != nil {
		return *a.TextResponse
	}
	return ""
}
