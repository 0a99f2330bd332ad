package model

// swagger:model Game
type Game struct {
	GameID                   string   `json:"gameId"`
	Title                    string   `json:"title"`
	GameType                 GameType `json:"gameType"`
	Level                    string   `json:"level"`
	Description              string   `json:"description"`
	DifficultyLevel          string   `json:"difficultyLevel"`
	XPReward                 int      `json:"xpReward"`
	EstimatedDurationMinutes int      `json:"estimatedDurationMinutes"`
	IsActive                 bool     `json:"isActive"`
}

func (g Game) EntityID() string { return g.GameID }

// swagger:model Room
type Room struct {
	RoomID         string     `json:"roomId"`
	GameID         string     `json:"gameId"`
	RoomName       string     `json:"roomName"`
	MaxPlayers     int        `json:"maxPlayers"`
	CurrentPlayers int        `json:"currentPlayers"`
	Status         RoomStatus `json:"status"`
	StartedAt      Timestamp  `json:"startedAt"`
	FinishedAt     Timestamp  `json:"finishedAt"`
}

func (r Room) EntityID() string { return r.RoomID }

// swagger:model RoomPlayer
type RoomPlayer struct {
	RoomPlayerID          string       `json:"roomPlayerId"`
	RoomID                string       `json:"roomId"`
	UserID                string       `json:"userId"`
	User                  *UserSummary `json:"user,omitempty"`
	Score                 float64      `json:"score"`
	RankPosition          int          `json:"rankPosition"`
	MistakesCount         int          `json:"mistakesCount"`
	CompletionTimeSeconds int          `json:"completionTimeSeconds"`
	Status                string       `json:"status"`
	JoinedAt              Timestamp    `json:"joinedAt"`
	FinishedAt            Timestamp    `json:"finishedAt"`
}

func (p RoomPlayer) EntityID() string { return p.RoomPlayerID }

// 游戏内容，按 gameType 区分五种形态

// swagger:model WordPair
type WordPair struct {
	PairID                string `json:"pairId"`
	EnglishWord           string `json:"englishWord"`
	VietnameseTranslation string `json:"vietnameseTranslation"`
	DisplayOrder          int    `json:"displayOrder"`
}

func (w WordPair) EntityID() string { return w.PairID }

// swagger:model Flashcard
type Flashcard struct {
	CardID       string `json:"cardId"`
	Front        string `json:"front"`
	Back         string `json:"back"`
	Example      string `json:"example"`
	DisplayOrder int    `json:"displayOrder"`
}

func (f Flashcard) EntityID() string { return f.CardID }

// swagger:model SpellingWord
type SpellingWord struct {
	WordID     string `json:"wordId"`
	Word       string `json:"word"`
	Hint       string `json:"hint"`
	Difficulty string `json:"difficulty"`
}

func (s SpellingWord) EntityID() string { return s.WordID }

// swagger:model QuizQuestion
type QuizQuestion struct {
	QuestionID    string `json:"questionId"`
	Question      string `json:"question"`
	OptionA       string `json:"optionA"`
	OptionB       string `json:"optionB"`
	OptionC       string `json:"optionC"`
	OptionD       string `json:"optionD"`
	CorrectAnswer int    `json:"correctAnswer"`
	Explanation   string `json:"explanation"`
}

func (q QuizQuestion) EntityID() string { return q.QuestionID }

// swagger:model Puzzle
type Puzzle struct {
	PuzzleID   string `json:"puzzleId"`
	Sentence   string `json:"sentence"`
	Hint       string `json:"hint"`
	PuzzleType string `json:"puzzleType"`
}

func (p Puzzle) EntityID() string { return p.PuzzleID }
