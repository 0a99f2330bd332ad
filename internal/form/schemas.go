package form

import (
	"english_admin/internal/model"
	"sort"
)

func choices[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

var (
	mc        = string(model.QuestionMultipleChoice)
	trueFalse = string(model.QuestionTrueFalse)
)

// preferredQuestionType 考试题目按技能给出的默认题型
var preferredQuestionType = map[model.SkillType]model.QuestionType{
	model.SkillListening:  model.QuestionMultipleChoice,
	model.SkillReading:    model.QuestionMultipleChoice,
	model.SkillWriting:    model.QuestionTextInput,
	model.SkillSpeaking:   model.QuestionTextInput,
	model.SkillGrammar:    model.QuestionMultipleChoice,
	model.SkillVocabulary: model.QuestionFillBlank,
}

// switchQuestionType 切换题型：选择题保留已有选项或补足空选项并清空答案；
// 判断题答案默认 TRUE；其他题型清空答案与选项
func switchQuestionType(st State, typeField, answerField string, newType string, seed int, keepOptions bool) State {
	prevAnswer := st.Values.String(answerField)
	st.Values[typeField] = newType
	if newType == mc {
		st.Values[answerField] = ""
		if !keepOptions || len(st.Options) == 0 {
			st.Options = blankOptions(seed)
		}
		return st.Renumbered()
	}

	st.Options = []OptionDraft{}
	if newType == trueFalse {
		if prevAnswer == "FALSE" {
			st.Values[answerField] = "FALSE"
		} else {
			st.Values[answerField] = "TRUE"
		}
	} else {
		st.Values[answerField] = ""
	}
	return st
}

var Exam = &Schema{
	Resource: "exams",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always, Rules: "max=255"},
		{Name: "examType", Label: "Exam type", Type: Enum, Default: "IELTS", Choices: model.ExamTypes, Required: Always},
		{Name: "level", Label: "Level", Type: Text, Default: "Intermediate"},
		{Name: "description", Label: "Description", Type: LongText, Default: ""},
		{Name: "durationMinutes", Label: "Duration (minutes)", Type: Integer, Default: 60.0, Required: Always, Rules: "min=1,max=600"},
		{Name: "totalScore", Label: "Total score", Type: Integer, Default: 40.0, Rules: "min=0"},
	},
}

var Section = &Schema{
	Resource: "sections",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always},
		{Name: "instructionText", Label: "Instructions", Type: LongText, Default: ""},
		{Name: "mediaUrl", Label: "Media URL", Type: Text, Default: ""},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
}

var ExamQuestion = &Schema{
	Resource: "questions",
	Fields: []Field{
		{Name: "skillType", Label: "Skill", Type: Enum, Default: string(model.SkillListening), Choices: choices(model.SkillTypes), Required: Always},
		{Name: "questionType", Label: "Question type", Type: Enum, Default: mc, Choices: choices(model.QuestionTypes), Required: Always},
		{Name: "textContent", Label: "Question text", Type: LongText, Default: "", Required: Always},
		{Name: "scorePoints", Label: "Points", Type: Number, Default: 1.0, Rules: "gte=0"},
		{Name: "correctAnswerText", Label: "Correct answer", Type: Text, Default: "", Visible: Not(When("questionType", mc))},
	},
	Options: &OptionRule{
		Applies:     When("questionType", mc),
		Seed:        2,
		MinFilled:   2,
		AnswerField: "correctAnswerText",
	},
	Resets: []Reset{
		{Field: "skillType", Apply: func(prev Values, next State) State {
			preferred, ok := preferredQuestionType[model.SkillType(next.Values.String("skillType"))]
			if !ok || next.Values.Is("questionType", string(preferred)) {
				return next
			}
			return switchQuestionType(next, "questionType", "correctAnswerText", string(preferred), 2, true)
		}},
		{Field: "questionType", Apply: func(prev Values, next State) State {
			return switchQuestionType(next, "questionType", "correctAnswerText", next.Values.String("questionType"), 2, true)
		}},
	},
}

var Lesson = &Schema{
	Resource: "lessons",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always, Rules: "max=255"},
		{Name: "lessonType", Label: "Lesson type", Type: Enum, Default: "GRAMMAR", Choices: model.LessonTypes, Required: Always},
		{Name: "level", Label: "Level", Type: Enum, Default: "BEGINNER", Choices: model.Levels, Required: Always},
		{Name: "description", Label: "Description", Type: LongText, Default: ""},
		{Name: "content", Label: "Content", Type: LongText, Default: ""},
		{Name: "estimatedDurationMinutes", Label: "Duration (minutes)", Type: Integer, Default: 15.0, Rules: "min=1"},
		{Name: "xpReward", Label: "XP reward", Type: Integer, Default: 10.0, Rules: "min=0"},
		{Name: "difficultyLevel", Label: "Difficulty", Type: Enum, Default: "EASY", Choices: model.Difficulties},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
		{Name: "isActive", Label: "Active", Type: Bool, Default: true},
	},
}

var SubLesson = &Schema{
	Resource: "sub-lessons",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always},
		{Name: "content", Label: "Content", Type: LongText, Default: ""},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
}

var textMaterial = When("materialType", string(model.MaterialText))

var Material = &Schema{
	Resource: "materials",
	Fields: []Field{
		{Name: "materialType", Label: "Material type", Type: Enum, Default: string(model.MaterialText), Choices: choices(model.MaterialTypes), Required: Always},
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always},
		{Name: "content", Label: "Content", Type: LongText, Default: "", Required: textMaterial},
		{Name: "fileUrl", Label: "File URL", Type: Text, Default: "", Visible: Not(textMaterial), Required: Not(textMaterial)},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
	Resets: []Reset{
		{Field: "materialType", Apply: func(prev Values, next State) State {
			// 换成另一种文件类型时旧地址不再适用
			if !prev.Is("materialType", next.Values.String("materialType")) {
				next.Values["fileUrl"] = ""
			}
			return next
		}},
	},
}

var exerciseTypes = []string{mc, string(model.QuestionTextInput), trueFalse, string(model.QuestionFillBlank), string(model.QuestionMatching)}

var Exercise = &Schema{
	Resource: "exercises",
	Fields: []Field{
		{Name: "exerciseType", Label: "Exercise type", Type: Enum, Default: mc, Choices: exerciseTypes, Required: Always},
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always},
		{Name: "questionText", Label: "Question text", Type: LongText, Default: "", Required: Always},
		{Name: "correctAnswer", Label: "Correct answer", Type: Text, Default: "", Visible: Not(When("exerciseType", mc))},
		{Name: "scorePoints", Label: "Points", Type: Number, Default: 10.0, Rules: "gte=0"},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
	Options: &OptionRule{
		Applies:     When("exerciseType", mc),
		Seed:        1,
		MinFilled:   2,
		NoBlank:     true,
		AnswerField: "correctAnswer",
		Embedded:    true,
	},
	Resets: []Reset{
		{Field: "exerciseType", Apply: func(prev Values, next State) State {
			return switchQuestionType(next, "exerciseType", "correctAnswer", next.Values.String("exerciseType"), 1, true)
		}},
	},
}

var Game = &Schema{
	Resource: "games",
	Fields: []Field{
		{Name: "title", Label: "Title", Type: Text, Default: "", Required: Always},
		{Name: "gameType", Label: "Game type", Type: Enum, Default: string(model.GameWordMatch), Choices: choices(model.GameTypes), Required: Always},
		{Name: "level", Label: "Level", Type: Enum, Default: "BEGINNER", Choices: model.Levels},
		{Name: "description", Label: "Description", Type: LongText, Default: ""},
		{Name: "xpReward", Label: "XP reward", Type: Integer, Default: 5.0, Rules: "min=0"},
		{Name: "difficultyLevel", Label: "Difficulty", Type: Enum, Default: "EASY", Choices: model.Difficulties},
		{Name: "estimatedDurationMinutes", Label: "Duration (minutes)", Type: Integer, Default: 10.0, Rules: "min=1"},
		{Name: "isActive", Label: "Active", Type: Bool, Default: true},
	},
}

var Room = &Schema{
	Resource: "rooms",
	Fields: []Field{
		{Name: "roomName", Label: "Room name", Type: Text, Default: "", Required: Always},
		{Name: "maxPlayers", Label: "Max players", Type: Integer, Default: 4.0, Required: Always, Rules: "min=2,max=50"},
	},
}

// multipleChoiceSkills 分级测试中使用选择题的技能，其余为文本作答
var multipleChoiceSkills = []string{
	string(model.SkillListening), string(model.SkillReading), string(model.SkillGrammar), string(model.SkillVocabulary),
}

var (
	listening = When("skillType", string(model.SkillListening))
	reading   = When("skillType", string(model.SkillReading))
)

var AssessmentQuestion = &Schema{
	Resource: "assessment-questions",
	Fields: []Field{
		{Name: "skillType", Label: "Skill", Type: Enum, Default: string(model.SkillListening), Choices: choices(model.SkillTypes), Required: Always},
		{Name: "questionType", Label: "Question type", Type: Enum, Default: mc, Choices: choices(model.QuestionTypes), Required: Always},
		{Name: "textContent", Label: "Question text", Type: LongText, Default: "", Required: Always},
		{Name: "audioFileUrl", Label: "Audio file", Type: Text, Default: "", Visible: listening},
		{Name: "readingPassage", Label: "Reading passage", Type: LongText, Default: "", Visible: reading, Required: reading},
		{Name: "scorePoints", Label: "Points", Type: Number, Default: 20.0, Rules: "gte=0"},
		{Name: "correctAnswerText", Label: "Correct answer", Type: Text, Default: "", Visible: Not(When("questionType", mc))},
		{Name: "difficultyLevel", Label: "Difficulty", Type: Enum, Default: "INTERMEDIATE", Choices: model.Levels},
		{Name: "orderIndex", Label: "Order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
	Options: &OptionRule{
		Applies:     When("questionType", mc),
		Seed:        1,
		MinFilled:   2,
		AnswerField: "correctAnswerText",
		Embedded:    true,
	},
	Resets: []Reset{
		{Field: "skillType", Apply: func(prev Values, next State) State {
			skill := next.Values.String("skillType")
			if contains(multipleChoiceSkills, skill) {
				next.Values["questionType"] = mc
				next.Options = blankOptions(1)
			} else {
				next.Values["questionType"] = string(model.QuestionTextInput)
				next.Options = []OptionDraft{}
			}
			if skill != string(model.SkillListening) {
				next.Values["audioFileUrl"] = ""
			}
			if skill != string(model.SkillReading) {
				next.Values["readingPassage"] = ""
			}
			return next
		}},
		{Field: "questionType", Apply: func(prev Values, next State) State {
			// 写作与口语固定为文本作答
			if next.Values.Is("skillType", string(model.SkillWriting), string(model.SkillSpeaking)) {
				next.Values["questionType"] = string(model.QuestionTextInput)
			}
			if next.Values.Is("questionType", mc) {
				next.Options = blankOptions(1)
			} else {
				next.Options = []OptionDraft{}
			}
			return next
		}},
	},
}

var registry = map[string]*Schema{}

func register(schemas ...*Schema) {
	for _, s := range schemas {
		registry[s.Resource] = s
	}
}

func init() {
	register(Exam, Section, ExamQuestion, Lesson, SubLesson, Material, Exercise, Game, Room, AssessmentQuestion,
		WordPair, Flashcard, SpellingWord, QuizQuestion, Puzzle)
}

// Lookup 按资源名取表单定义
func Lookup(resource string) (*Schema, bool) {
	s, ok := registry[resource]
	return s, ok
}

func Resources() []string {
	out := make([]string, 0, len(registry))
	for name := range registry {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
