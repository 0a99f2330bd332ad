package content

import "strings"

const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// WordCount 按空白切分计数
func WordCount(sentence string) int {
	return len(strings.Fields(sentence))
}

// PuzzleDifficulty ≤4 词为 Easy，5~7 为 Medium，其余为 Hard
func PuzzleDifficulty(sentence string) string {
	switch n := WordCount(sentence); {
	case n <= 4:
		return DifficultyEasy
	case n <= 7:
		return DifficultyMedium
	default:
		return DifficultyHard
	}
}
