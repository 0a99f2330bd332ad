package model

// swagger:model Lesson
type Lesson struct {
	LessonID                 string `json:"lessonId"`
	Title                    string `json:"title"`
	LessonType               string `json:"lessonType"`
	Level                    string `json:"level"`
	Description              string `json:"description"`
	Content                  string `json:"content"`
	EstimatedDurationMinutes int    `json:"estimatedDurationMinutes"`
	XPReward                 int    `json:"xpReward"`
	DifficultyLevel          string `json:"difficultyLevel"`
	OrderIndex               int    `json:"orderIndex"`
	IsActive                 bool   `json:"isActive"`
}

func (l Lesson) EntityID() string { return l.LessonID }

// swagger:model SubLesson
type SubLesson struct {
	SubLessonID string    `json:"subLessonId"`
	LessonID    string    `json:"lessonId"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	OrderIndex  int       `json:"orderIndex"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   Timestamp `json:"createdAt"`
}

func (s SubLesson) EntityID() string { return s.SubLessonID }

// swagger:model Material
type Material struct {
	MaterialID   string       `json:"materialId"`
	SubLessonID  string       `json:"subLessonId"`
	MaterialType MaterialType `json:"materialType"`
	Title        string       `json:"title"`
	Content      string       `json:"content"`
	FileURL      string       `json:"fileUrl"`
	OrderIndex   int          `json:"orderIndex"`
}

func (m Material) EntityID() string { return m.MaterialID }

// swagger:model Exercise
type Exercise struct {
	ExerciseID    string           `json:"exerciseId"`
	SubLessonID   string           `json:"subLessonId"`
	ExerciseType  QuestionType     `json:"exerciseType"`
	Title         string           `json:"title"`
	QuestionText  string           `json:"questionText"`
	CorrectAnswer string           `json:"correctAnswer"`
	ScorePoints   float64          `json:"scorePoints"`
	OrderIndex    int              `json:"orderIndex"`
	Options       []ExerciseOption `json:"options,omitempty"`
}

func (e Exercise) EntityID() string { return e.ExerciseID }

type ExerciseOption struct {
	OptionID   string `json:"optionId,omitempty"`
	OptionText string `json:"optionText"`
	IsCorrect  bool   `json:"isCorrect"`
	OrderIndex int    `json:"orderIndex"`
}
