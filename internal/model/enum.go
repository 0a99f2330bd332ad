package model

type SkillType string

const (
	SkillListening  SkillType = "LISTENING"
	SkillReading    SkillType = "READING"
	SkillWriting    SkillType = "WRITING"
	SkillSpeaking   SkillType = "SPEAKING"
	SkillGrammar    SkillType = "GRAMMAR"
	SkillVocabulary SkillType = "VOCABULARY"
)

var SkillTypes = []SkillType{SkillListening, SkillReading, SkillWriting, SkillSpeaking, SkillGrammar, SkillVocabulary}

type QuestionType string

const (
	QuestionMultipleChoice QuestionType = "MULTIPLE_CHOICE"
	QuestionTextInput      QuestionType = "TEXT_INPUT"
	QuestionTrueFalse      QuestionType = "TRUE_FALSE"
	QuestionFillBlank      QuestionType = "FILL_BLANK"
	// 仅课程练习使用
	QuestionMatching QuestionType = "MATCHING"
)

var QuestionTypes = []QuestionType{QuestionMultipleChoice, QuestionTextInput, QuestionTrueFalse, QuestionFillBlank}

type MaterialType string

const (
	MaterialText  MaterialType = "TEXT"
	MaterialVideo MaterialType = "VIDEO"
	MaterialAudio MaterialType = "AUDIO"
	MaterialPDF   MaterialType = "PDF"
	MaterialImage MaterialType = "IMAGE"
)

var MaterialTypes = []MaterialType{MaterialText, MaterialVideo, MaterialAudio, MaterialPDF, MaterialImage}

type GameType string

const (
	GameWordMatch GameType = "WORD_MATCH"
	GameFlashcard GameType = "FLASHCARD"
	GameSpelling  GameType = "SPELLING"
	GameQuiz      GameType = "QUIZ"
	GamePuzzle    GameType = "PUZZLE"
)

var GameTypes = []GameType{GameWordMatch, GameFlashcard, GameSpelling, GameQuiz, GamePuzzle}

type RoomStatus string

const (
	RoomWaiting  RoomStatus = "WAITING"
	RoomPlaying  RoomStatus = "PLAYING"
	RoomFinished RoomStatus = "FINISHED"
)

// Levels CEFR 风格的学习等级
var Levels = []string{"BEGINNER", "ELEMENTARY", "INTERMEDIATE", "UPPER_INTERMEDIATE", "ADVANCED"}

var Difficulties = []string{"EASY", "MEDIUM", "HARD"}

var ExamTypes = []string{"IELTS", "TOEIC", "TOEFL", "GENERAL"}

var LessonTypes = []string{"GRAMMAR", "VOCABULARY", "LISTENING", "READING", "WRITING", "SPEAKING"}
