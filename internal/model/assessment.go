package model

// AssessmentQuestion 分级测试题库
// swagger:model AssessmentQuestion
type AssessmentQuestion struct {
	QuestionID        string             `json:"questionId"`
	SkillType         SkillType          `json:"skillType"`
	QuestionType      QuestionType       `json:"questionType"`
	TextContent       string             `json:"textContent"`
	AudioFileURL      string             `json:"audioFileUrl"`
	ReadingPassage    string             `json:"readingPassage"`
	ScorePoints       float64            `json:"scorePoints"`
	CorrectAnswerText string             `json:"correctAnswerText"`
	DifficultyLevel   string             `json:"difficultyLevel"`
	OrderIndex        int                `json:"orderIndex"`
	Options           []AssessmentOption `json:"options,omitempty"`
}

func (q AssessmentQuestion) EntityID() string { return q.QuestionID }

type AssessmentOption struct {
	OptionID   string `json:"optionId,omitempty"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
	OrderIndex int    `json:"orderIndex"`
}

// Assessment 用户的分级测试结果，控制台只读
// swagger:model Assessment
type Assessment struct {
	AssessmentID    string    `json:"assessmentId"`
	UserID          string    `json:"userId"`
	OverallLevel    string    `json:"overallLevel"`
	OverallScore    float64   `json:"overallScore"`
	ListeningScore  float64   `json:"listeningScore"`
	ReadingScore    float64   `json:"readingScore"`
	WritingScore    float64   `json:"writingScore"`
	SpeakingScore   float64   `json:"speakingScore"`
	GrammarScore    float64   `json:"grammarScore"`
	VocabularyScore float64   `json:"vocabularyScore"`
	CompletedAt     Timestamp `json:"completedAt"`
}

func (a Assessment) EntityID() string { return a.AssessmentID }
