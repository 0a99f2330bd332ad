package navigator_test

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/api/apitest"
	"english_admin/internal/model"
	"english_admin/internal/navigator"
	"english_admin/internal/util"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type token string

func (t token) Token() string { return string(t) }

func setup(t *testing.T) (*apitest.Server, *api.Client) {
	t.Helper()
	srv := apitest.NewServer()
	t.Cleanup(srv.Close)
	c, err := api.NewClient(srv.APIConfig(), api.WithTokenSource(token(srv.Token)))
	require.NoError(t, err)
	return srv, c
}

func seedExam(srv *apitest.Server) (examID, sectionID, questionID string) {
	examID = srv.Seed("exams", map[string]interface{}{"title": "IELTS"})
	sectionID = srv.Seed("sections", map[string]interface{}{"examId": examID, "title": "Listening"})
	srv.Seed("sections", map[string]interface{}{"examId": examID, "title": "Reading"})
	questionID = srv.Seed("questions", map[string]interface{}{"sectionId": sectionID, "textContent": "Where?"})
	srv.Seed("options", map[string]interface{}{"questionId": questionID, "optionText": "Here", "isCorrect": true})
	return
}

func TestDrillDown(t *testing.T) {
	srv, c := setup(t)
	examID, sectionID, questionID := seedExam(srv)
	nav := navigator.New(navigator.ExamTree(c))
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, 0, examID))
	sections, err := nav.Children(0, navigator.ChildSections)
	require.NoError(t, err)
	assert.Len(t, sections, 2)

	require.NoError(t, nav.Open(ctx, 1, sectionID))
	require.NoError(t, nav.Open(ctx, 2, questionID))

	frames := nav.Frames()
	require.Len(t, frames, 3)
	assert.Equal(t, "section", frames[1].Level)
	node, ok := frames[1].Node.(model.Section)
	require.True(t, ok)
	assert.Equal(t, "Listening", node.Title)
	assert.Equal(t, 1, frames[2].Children[navigator.ChildOptions].Total)
}

func TestOpenRequiresParent(t *testing.T) {
	srv, c := setup(t)
	_, sectionID, _ := seedExam(srv)
	nav := navigator.New(navigator.ExamTree(c))

	err := nav.Open(context.Background(), 1, sectionID)
	assert.ErrorIs(t, err, util.ErrParentNotSelected)
	assert.Equal(t, 0, srv.Count(http.MethodGet, "/api/sections/"+sectionID+"/questions"))
}

func TestOpenRejectsForeignChild(t *testing.T) {
	srv, c := setup(t)
	examID, _, _ := seedExam(srv)
	other := srv.Seed("exams", map[string]interface{}{"title": "TOEIC"})
	foreign := srv.Seed("sections", map[string]interface{}{"examId": other, "title": "Part 1"})
	nav := navigator.New(navigator.ExamTree(c))

	require.NoError(t, nav.Open(context.Background(), 0, examID))
	assert.ErrorIs(t, nav.Open(context.Background(), 1, foreign), util.ErrParentNotSelected)
	assert.Equal(t, 1, nav.Depth())
}

func TestCloseClearsDeeperFrames(t *testing.T) {
	srv, c := setup(t)
	examID, sectionID, questionID := seedExam(srv)
	nav := navigator.New(navigator.ExamTree(c))
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, 0, examID))
	require.NoError(t, nav.Open(ctx, 1, sectionID))
	require.NoError(t, nav.Open(ctx, 2, questionID))

	nav.Close(1)
	assert.Equal(t, 1, nav.Depth())
	_, ok := nav.Selected(1)
	assert.False(t, ok)
	_, err := nav.Children(2, navigator.ChildOptions)
	assert.ErrorIs(t, err, util.ErrParentNotSelected)

	// 重新选中上层会丢弃下层
	require.NoError(t, nav.Open(ctx, 1, sectionID))
	require.NoError(t, nav.Open(ctx, 2, questionID))
	require.NoError(t, nav.Open(ctx, 0, examID))
	assert.Equal(t, 1, nav.Depth())
}

func TestLateChildrenAfterCloseAreDropped(t *testing.T) {
	srv, c := setup(t)
	examID, _, _ := seedExam(srv)
	nav := navigator.New(navigator.ExamTree(c))
	path := "/api/exams/" + examID + "/sections"

	release := srv.Hold(http.MethodGet, path)
	done := make(chan error, 1)
	go func() { done <- nav.Open(context.Background(), 0, examID) }()

	require.Eventually(t, func() bool { return srv.Count(http.MethodGet, path) == 1 }, time.Second, 5*time.Millisecond)
	frames := nav.Frames()
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Children[navigator.ChildSections].Loading)

	nav.Close(0)
	release()

	assert.ErrorIs(t, <-done, util.ErrStaleResponse)
	assert.Empty(t, nav.Frames())
}

func TestChildFailureKeepsSiblings(t *testing.T) {
	srv, c := setup(t)
	lessonID := srv.Seed("lessons", map[string]interface{}{"title": "Tenses"})
	subID := srv.Seed("sub-lessons", map[string]interface{}{"lessonId": lessonID, "title": "Past"})
	srv.Seed("materials", map[string]interface{}{"subLessonId": subID, "title": "Notes"})
	srv.Fail(http.MethodGet, "/api/sub-lessons/"+subID+"/exercises", http.StatusInternalServerError, map[string]interface{}{"message": "exercise store down"})

	nav := navigator.New(navigator.LessonTree(c))
	ctx := context.Background()
	require.NoError(t, nav.Open(ctx, 0, lessonID))
	err := nav.Open(ctx, 1, subID)
	require.Error(t, err)

	frame := nav.Frames()[1]
	assert.Equal(t, 1, frame.Children[navigator.ChildMaterials].Total)
	ex := frame.Children[navigator.ChildExercises]
	assert.Equal(t, 0, ex.Total)
	assert.NotNil(t, ex.Items)
	assert.Equal(t, "exercise store down", ex.Notice)
	assert.False(t, ex.Loading)
}

func TestReloadPicksUpNewChildren(t *testing.T) {
	srv, c := setup(t)
	gameID := srv.Seed("games", map[string]interface{}{"title": "Match"})
	nav := navigator.New(navigator.GameTree(c))
	ctx := context.Background()

	require.NoError(t, nav.Open(ctx, 0, gameID))
	rooms, _ := nav.Children(0, navigator.ChildRooms)
	assert.Empty(t, rooms)

	srv.Seed("rooms", map[string]interface{}{"gameId": gameID, "roomName": "Lobby"})
	require.NoError(t, nav.Reload(ctx, 0))
	rooms, _ = nav.Children(0, navigator.ChildRooms)
	assert.Len(t, rooms, 1)

	assert.ErrorIs(t, nav.Reload(ctx, 3), util.ErrParentNotSelected)
}
