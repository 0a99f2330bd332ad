package content_test

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/content"
	"english_admin/internal/form"
	"english_admin/internal/model"
	"english_admin/internal/util"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token string

func (t token) Token() string { return string(t) }

func setup(t *testing.T) (*apitest.Server, *content.Dispatcher) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.APIConfig(), api.WithTokenSource(token(srv.Token)))
	require.NoError(t, err)
	return srv, content.NewDispatcher(c)
}

func TestPuzzleDifficulty(t *testing.T) {
	cases := []struct {
		sentence string
		words    int
		want     string
	}{
		{"I love cats", 3, content.DifficultyEasy},
		{"I really love learning English every day", 7, content.DifficultyMedium},
		{"I really love learning English every single day of my life", 11, content.DifficultyHard},
		{"  one   two three four ", 4, content.DifficultyEasy},
		{"one two three four five", 5, content.DifficultyMedium},
		{"", 0, content.DifficultyEasy},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.words, content.WordCount(tc.sentence), tc.sentence)
		assert.Equal(t, tc.want, content.PuzzleDifficulty(tc.sentence), tc.sentence)
	}
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, model.GameWordMatch, content.Normalize("WORD MATCH"))
	assert.Equal(t, model.GameWordMatch, content.Normalize("word_match"))
	assert.Equal(t, model.GameFlashcard, content.Normalize("FLASH CARD"))
	assert.Equal(t, model.GameFlashcard, content.Normalize("flashcard"))
	assert.Equal(t, model.GamePuzzle, content.Normalize(" puzzle "))
}

func TestDispatchUnsupported(t *testing.T) {
	_, d := setup(t)
	_, err := d.Dispatch("CROSSWORD")
	require.Error(t, err)
	assert.ErrorIs(t, err, util.ErrUnsupportedGameType)
	var unsupported *content.UnsupportedError
	require.ErrorAs(t, err, &unsupported)
	assert.Contains(t, err.Error(), "not supported")

	for _, k := range model.GameTypes {
		v, err := d.Dispatch(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, v.Kind())
	}
}

func TestPuzzlePreviewMatchesList(t *testing.T) {
	srv, d := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Order words", "gameType": "PUZZLE"})
	ed, err := d.Open(context.Background(), model.Game{GameID: gameID, GameType: model.GamePuzzle})
	require.NoError(t, err)

	st := ed.NewForm()
	st = form.Puzzle.Set(st, "sentence", "I really love learning English every day")
	preview := ed.Variant.PreviewForm(st)
	assert.Equal(t, content.DifficultyMedium, preview.Difficulty)

	_, err = ed.Create(context.Background(), st)
	require.NoError(t, err)
	summaries := ed.Summaries()
	require.Len(t, summaries, 1)
	assert.Equal(t, preview, summaries[0])
}

func TestWordPairDisplayOrderDefault(t *testing.T) {
	srv, d := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Match", "gameType": "WORD MATCH"})
	srv.Seed("word-pairs", map[string]interface{}{"gameId": gameID, "englishWord": "cat", "vietnameseTranslation": "con mèo", "displayOrder": 1})
	srv.Seed("word-pairs", map[string]interface{}{"gameId": gameID, "englishWord": "dog", "vietnameseTranslation": "con chó", "displayOrder": 2})

	ed, err := d.Open(context.Background(), model.Game{GameID: gameID, GameType: "WORD MATCH"})
	require.NoError(t, err)
	assert.Equal(t, model.GameWordMatch, ed.Variant.Kind())
	assert.Equal(t, 3, ed.NewForm().Values.Int("displayOrder"))
	assert.Equal(t, "cat → con mèo", ed.Summaries()[0].Summary)
}

func TestQuizValidationBlocksRequest(t *testing.T) {
	srv, d := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Quiz", "gameType": "QUIZ"})
	v, err := d.Dispatch("QUIZ")
	require.NoError(t, err)

	st := form.QuizQuestion.Set(v.NewForm(0), "question", "Capital of France?")
	_, err = v.Add(context.Background(), gameID, st)
	require.Error(t, err)
	assert.True(t, form.IsValidation(err))
	assert.Equal(t, 0, srv.Count(http.MethodPost, "/api/games/"+gameID+"/quiz-questions"))

	for field, val := range map[string]string{"optionA": "Paris", "optionB": "Rome", "optionC": "Berlin", "optionD": "Madrid"} {
		st = form.QuizQuestion.Set(st, field, val)
	}
	item, err := v.Add(context.Background(), gameID, st)
	require.NoError(t, err)
	q, ok := item.(model.QuizQuestion)
	require.True(t, ok)
	assert.Equal(t, "Capital of France? [answer A]", v.Summarize(q).Summary)
}

func TestEditAndDeleteUseItemPaths(t *testing.T) {
	srv, d := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Spell", "gameType": "SPELLING"})
	wordID := srv.Seed("spelling-words", map[string]interface{}{"gameId": gameID, "word": "recieve", "difficulty": "EASY"})

	ed, err := d.Open(context.Background(), model.Game{GameID: gameID, GameType: model.GameSpelling})
	require.NoError(t, err)
	item, ok := ed.Find(wordID)
	require.True(t, ok)

	st, err := form.SpellingWord.From(item)
	require.NoError(t, err)
	st = form.SpellingWord.Set(st, "word", "receive")
	_, err = ed.Update(context.Background(), wordID, st)
	require.NoError(t, err)
	assert.Equal(t, 1, srv.Count(http.MethodPut, "/api/games/spelling-words/"+wordID))
	assert.Equal(t, "receive (EASY)", ed.Summaries()[0].Summary)

	require.NoError(t, ed.Remove(context.Background(), wordID, true))
	assert.Equal(t, 1, srv.Count(http.MethodDelete, "/api/games/spelling-words/"+wordID))
	assert.Empty(t, ed.View().Items)
}

func TestOpenUnsupportedGame(t *testing.T) {
	_, d := setup(t)
	_, err := d.Open(context.Background(), model.Game{GameID: "g1", GameType: "MEMORY"})
	assert.ErrorIs(t, err, util.ErrUnsupportedGameType)
}
