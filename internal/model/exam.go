package model

// swagger:model Exam
type Exam struct {
	ExamID          string `json:"examId"`
	Title           string `json:"title"`
	ExamType        string `json:"examType"`
	Level           string `json:"level"`
	Description     string `json:"description,omitempty"`
	DurationMinutes int    `json:"durationMinutes"`
	TotalScore      int    `json:"totalScore"`
}

func (e Exam) EntityID() string { return e.ExamID }

// swagger:model Section
type Section struct {
	SectionID       string `json:"sectionId"`
	ExamID          string `json:"examId"`
	Title           string `json:"title"`
	InstructionText string `json:"instructionText"`
	MediaURL        string `json:"mediaUrl,omitempty"`
	OrderIndex      int    `json:"orderIndex"`
}

func (s Section) EntityID() string { return s.SectionID }

// swagger:model ExamQuestion
type ExamQuestion struct {
	QuestionID        string       `json:"questionId"`
	SectionID         string       `json:"sectionId"`
	QuestionType      QuestionType `json:"questionType"`
	SkillType         SkillType    `json:"skillType"`
	TextContent       string       `json:"textContent"`
	ScorePoints       float64      `json:"scorePoints"`
	CorrectAnswerText string       `json:"correctAnswerText"`
}

func (q ExamQuestion) EntityID() string { return q.QuestionID }

// swagger:model Option
type Option struct {
	OptionID    string `json:"optionId"`
	QuestionID  string `json:"questionId"`
	OptionText  string `json:"optionText"`
	IsCorrect   bool   `json:"isCorrect"`
	Explanation string `json:"explanation"`
}

func (o Option) EntityID() string { return o.OptionID }
