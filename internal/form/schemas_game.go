package form

import (
	"fmt"
	"strings"
)

// 游戏内容的五种表单

var WordPair = &Schema{
	Resource: "word-pairs",
	Fields: []Field{
		{Name: "englishWord", Label: "English word", Type: Text, Default: "", Required: Always},
		{Name: "vietnameseTranslation", Label: "Vietnamese translation", Type: Text, Default: "", Required: Always},
		{Name: "displayOrder", Label: "Display order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
}

var Flashcard = &Schema{
	Resource: "flashcards",
	Fields: []Field{
		{Name: "front", Label: "Front", Type: Text, Default: "", Required: Always},
		{Name: "back", Label: "Back", Type: Text, Default: "", Required: Always},
		{Name: "example", Label: "Example", Type: LongText, Default: ""},
		{Name: "displayOrder", Label: "Display order", Type: Integer, Default: 1.0, Rules: "min=1"},
	},
}

var SpellingWord = &Schema{
	Resource: "spelling-words",
	Fields: []Field{
		{Name: "word", Label: "Word", Type: Text, Default: "", Required: Always, Rules: "max=64"},
		{Name: "hint", Label: "Hint", Type: Text, Default: ""},
		{Name: "difficulty", Label: "Difficulty", Type: Enum, Default: "MEDIUM", Choices: []string{"EASY", "MEDIUM", "HARD"}, Required: Always},
	},
}

var quizOptions = []string{"optionA", "optionB", "optionC", "optionD"}

var QuizQuestion = &Schema{
	Resource: "quiz-questions",
	Fields: []Field{
		{Name: "question", Label: "Question", Type: LongText, Default: "", Required: Always},
		{Name: "optionA", Label: "Option A", Type: Text, Default: "", Required: Always},
		{Name: "optionB", Label: "Option B", Type: Text, Default: "", Required: Always},
		{Name: "optionC", Label: "Option C", Type: Text, Default: "", Required: Always},
		{Name: "optionD", Label: "Option D", Type: Text, Default: "", Required: Always},
		{Name: "correctAnswer", Label: "Correct answer", Type: Integer, Default: 0.0, Required: Always, Rules: "min=0,max=3"},
		{Name: "explanation", Label: "Explanation", Type: LongText, Default: ""},
	},
	Checks: []Check{distinctQuizOptions},
}

// distinctQuizOptions 四个选项不能重复，否则正确答案有歧义
func distinctQuizOptions(st State) map[string]string {
	seen := make(map[string]string, len(quizOptions))
	errs := make(map[string]string)
	for _, name := range quizOptions {
		text := strings.ToLower(strings.TrimSpace(st.Values.String(name)))
		if text == "" {
			continue
		}
		if first, dup := seen[text]; dup {
			errs[name] = fmt.Sprintf("Duplicates %s", first)
			continue
		}
		seen[text] = name
	}
	return errs
}

var Puzzle = &Schema{
	Resource: "puzzles",
	Fields: []Field{
		{Name: "sentence", Label: "Sentence", Type: LongText, Default: "", Required: Always},
		{Name: "hint", Label: "Hint", Type: Text, Default: ""},
		{Name: "puzzleType", Label: "Puzzle type", Type: Enum, Default: "sentence", Choices: []string{"sentence", "phrase"}, Required: Always},
	},
}
