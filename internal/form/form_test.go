package form

import (
	"english_admin/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssessmentSkillResets(t *testing.T) {
	s := AssessmentQuestion
	st := s.New()
	st.Values["audioFileUrl"] = "http://localhost:8080/api/files/audio/a.mp3"
	st = UpdateOption(st, 0, "optionText", "Monday")

	writing := s.Set(st, "skillType", "WRITING")
	assert.Equal(t, "TEXT_INPUT", writing.Values.String("questionType"))
	assert.Empty(t, writing.Options)
	assert.Equal(t, "", writing.Values.String("audioFileUrl"))

	listening := s.Set(writing, "skillType", "LISTENING")
	assert.Equal(t, "MULTIPLE_CHOICE", listening.Values.String("questionType"))
	require.Len(t, listening.Options, 1)
	assert.Equal(t, OptionDraft{OptionText: "", IsCorrect: false, OrderIndex: 1}, listening.Options[0])

	// 纯函数：原状态不受影响
	assert.Equal(t, "LISTENING", st.Values.String("skillType"))
	assert.Equal(t, "Monday", st.Options[0].OptionText)
	assert.Equal(t, "http://localhost:8080/api/files/audio/a.mp3", st.Values.String("audioFileUrl"))
}

func TestAssessmentResetIsDeterministic(t *testing.T) {
	st := AssessmentQuestion.New()
	a := AssessmentQuestion.Set(st, "skillType", "READING")
	b := AssessmentQuestion.Set(st, "skillType", "READING")
	assert.Equal(t, a, b)
}

func TestAssessmentWritingLocksTextInput(t *testing.T) {
	st := AssessmentQuestion.Set(AssessmentQuestion.New(), "skillType", "SPEAKING")
	st = AssessmentQuestion.Set(st, "questionType", "MULTIPLE_CHOICE")
	assert.Equal(t, "TEXT_INPUT", st.Values.String("questionType"))
	assert.Empty(t, st.Options)
}

func TestExamQuestionPreferredType(t *testing.T) {
	s := ExamQuestion
	st := s.New()
	require.Len(t, st.Options, 2)

	vocab := s.Set(st, "skillType", string(model.SkillVocabulary))
	assert.Equal(t, "FILL_BLANK", vocab.Values.String("questionType"))
	assert.Empty(t, vocab.Options)
	assert.Equal(t, "", vocab.Values.String("correctAnswerText"))

	grammar := s.Set(vocab, "skillType", string(model.SkillGrammar))
	assert.Equal(t, "MULTIPLE_CHOICE", grammar.Values.String("questionType"))
	assert.Len(t, grammar.Options, 2)

	// 题型已经是首选题型时不改动
	st = UpdateOption(st, 0, "optionText", "kept")
	reading := s.Set(st, "skillType", string(model.SkillReading))
	assert.Equal(t, "kept", reading.Options[0].OptionText)
}

func TestExamQuestionTrueFalseAnswer(t *testing.T) {
	s := ExamQuestion
	tf := s.Set(s.New(), "questionType", "TRUE_FALSE")
	assert.Equal(t, "TRUE", tf.Values.String("correctAnswerText"))
	assert.Empty(t, tf.Options)

	tf = s.Set(tf, "correctAnswerText", "FALSE")
	again := s.Set(tf, "questionType", "TRUE_FALSE")
	assert.Equal(t, "FALSE", again.Values.String("correctAnswerText"))

	text := s.Set(tf, "questionType", "TEXT_INPUT")
	assert.Equal(t, "", text.Values.String("correctAnswerText"))
}

func TestMultipleChoiceValidation(t *testing.T) {
	s := AssessmentQuestion
	st := s.Set(s.New(), "textContent", "What time is it?")

	err := s.Validate(st)
	require.Error(t, err)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, MsgTooFewOptions, vErr.Message)

	st = UpdateOption(st, 0, "optionText", "Noon")
	st = UpdateOption(AddOption(st), 1, "optionText", "Midnight")
	st = AddOption(st) // 空选项不计数
	err = s.Validate(st)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, MsgNoCorrect, vErr.Message)

	st = UpdateOption(st, 1, "isCorrect", true)
	require.NoError(t, s.Validate(st))

	payload := s.Payload(st)
	opts, ok := payload["options"].([]OptionDraft)
	require.True(t, ok)
	assert.Len(t, opts, 2)
	assert.Equal(t, "", payload["correctAnswerText"])
	assert.Nil(t, payload["readingPassage"])
}

func TestNonMultipleChoiceNeedsAnswer(t *testing.T) {
	s := ExamQuestion
	st := s.Set(s.New(), "questionType", "FILL_BLANK")
	st = s.Set(st, "textContent", "I ___ to school.")

	err := s.Validate(st)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, MsgMissingAnswer, vErr.Fields["correctAnswerText"])

	st = s.Set(st, "correctAnswerText", "  go ")
	assert.NoError(t, s.Validate(st))
}

func TestExerciseRejectsBlankOptions(t *testing.T) {
	s := Exercise
	st := s.New()
	st = s.Set(st, "title", "Past tense")
	st = s.Set(st, "questionText", "Pick one")
	st = UpdateOption(st, 0, "optionText", "went")
	st = UpdateOption(st, 0, "isCorrect", true)
	st = AddOption(AddOption(st))
	st = UpdateOption(st, 1, "optionText", "goed")

	err := s.Validate(st)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, MsgBlankOption, vErr.Message)

	st = RemoveOption(st, 2)
	assert.NoError(t, s.Validate(st))
}

func TestRemoveOptionKeepsOne(t *testing.T) {
	st := AssessmentQuestion.New()
	require.Len(t, st.Options, 1)
	assert.Len(t, RemoveOption(st, 0).Options, 1)

	st = AddOption(AddOption(st))
	st = RemoveOption(st, 0)
	require.Len(t, st.Options, 2)
	assert.Equal(t, 1, st.Options[0].OrderIndex)
	assert.Equal(t, 2, st.Options[1].OrderIndex)
}

func TestRequiredAndRules(t *testing.T) {
	st := Exam.New()
	st = Exam.Set(st, "durationMinutes", "0")

	err := Exam.Validate(st)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Title is required", vErr.Fields["title"])
	assert.Contains(t, vErr.Fields["durationMinutes"], "Duration (minutes)")
	assert.Contains(t, vErr.Fields["durationMinutes"], "1")

	st = Exam.Set(st, "title", "Mock")
	st = Exam.Set(st, "durationMinutes", 45)
	require.NoError(t, Exam.Validate(st))
	assert.Equal(t, int64(45), Exam.Payload(st)["durationMinutes"])
}

func TestEnumChoices(t *testing.T) {
	st := SpellingWord.Set(SpellingWord.New(), "word", "necessary")
	st = SpellingWord.Set(st, "difficulty", "IMPOSSIBLE")
	err := SpellingWord.Validate(st)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Contains(t, vErr.Fields["difficulty"], "EASY, MEDIUM, HARD")
}

func TestQuizQuestionRules(t *testing.T) {
	s := QuizQuestion
	st := s.New()
	for field, v := range map[string]string{"question": "2+2?", "optionA": "3", "optionB": "4", "optionD": "5"} {
		st = s.Set(st, field, v)
	}
	st = s.Set(st, "correctAnswer", 4)

	err := s.Validate(st)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Option C is required", vErr.Fields["optionC"])
	assert.Contains(t, vErr.Fields["correctAnswer"], "Correct answer")

	st = s.Set(st, "optionC", "4")
	st = s.Set(st, "correctAnswer", 1)
	err = s.Validate(st)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Duplicates optionB", vErr.Fields["optionC"])

	st = s.Set(st, "optionC", "6")
	assert.NoError(t, s.Validate(st))
}

func TestFromRecord(t *testing.T) {
	q := model.AssessmentQuestion{
		QuestionID:   "q1",
		SkillType:    model.SkillReading,
		QuestionType: model.QuestionMultipleChoice,
		TextContent:  "Main idea?",
		ScorePoints:  5,
		Options: []model.AssessmentOption{
			{OptionText: "B", IsCorrect: true, OrderIndex: 2},
			{OptionText: "A", OrderIndex: 1},
		},
	}
	st, err := AssessmentQuestion.From(q)
	require.NoError(t, err)
	assert.Equal(t, "READING", st.Values.String("skillType"))
	assert.Equal(t, 5.0, st.Values.Float("scorePoints"))
	require.Len(t, st.Options, 2)
	assert.Equal(t, "B", st.Options[0].OptionText)
	assert.Equal(t, 1, st.Options[0].OrderIndex)

	lesson, err := Lesson.From(model.Lesson{LessonID: "l1", Title: "Tenses", XPReward: 30})
	require.NoError(t, err)
	assert.Equal(t, 30, lesson.Values.Int("xpReward"))
	assert.Nil(t, lesson.Options)
}

func TestMaterialTypeClearsFileURL(t *testing.T) {
	st := Material.Set(Material.New(), "materialType", "AUDIO")
	st = Material.Set(st, "fileUrl", "http://cdn/a.mp3")
	video := Material.Set(st, "materialType", "VIDEO")
	assert.Equal(t, "", video.Values.String("fileUrl"))

	same := Material.Set(st, "materialType", "AUDIO")
	assert.Equal(t, "http://cdn/a.mp3", same.Values.String("fileUrl"))
	assert.Nil(t, Material.Payload(Material.Set(st, "materialType", "TEXT"))["fileUrl"])
}

func TestLookup(t *testing.T) {
	for _, name := range []string{"exams", "sections", "questions", "lessons", "sub-lessons", "materials", "exercises",
		"games", "rooms", "assessment-questions", "word-pairs", "flashcards", "spelling-words", "quiz-questions", "puzzles"} {
		s, ok := Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, name, s.Resource)
	}
	_, ok := Lookup("nope")
	assert.False(t, ok)
}

func TestApplyChange(t *testing.T) {
	s := AssessmentQuestion
	st := s.New()

	next, err := s.Apply(st, Change{Op: OpAddOption})
	require.NoError(t, err)
	require.Len(t, next.Options, 2)

	next, err = s.Apply(next, Change{Op: OpUpdateOption, Index: 1, Field: "optionText", Value: "Tuesday"})
	require.NoError(t, err)
	assert.Equal(t, "Tuesday", next.Options[1].OptionText)

	next, err = s.Apply(next, Change{Field: "skillType", Value: "WRITING"})
	require.NoError(t, err)
	assert.Empty(t, next.Options)

	_, err = s.Apply(next, Change{Op: OpAddOption})
	assert.Error(t, err)
	_, err = s.Apply(next, Change{Field: "nope", Value: 1})
	assert.Error(t, err)
	_, err = s.Apply(next, Change{Op: "shuffle"})
	assert.Error(t, err)

	// 原状态不变
	assert.Len(t, st.Options, 1)
}
