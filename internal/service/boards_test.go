package service_test

import (
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateBoard(t *testing.T) {
	f := newFixture(t, service.Options{})
	u := f.mustRegister(t, "owneruser", "")

	board, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "  Sprint 1  ", Description: "two weeks"})

	require.NoError(t, err)
	assert.Equal(t, "Sprint 1", board.Name)
	assert.Equal(t, "AB12CD", board.Code)
	assert.Equal(t, u.ID, board.CreatedBy)
	assert.Equal(t, board.ID, f.app.Session().CurrentBoardID)

	members := f.app.Members(board.ID)
	require.Len(t, members, 1)
	assert.Equal(t, u.ID, members[0].ID)
}

func TestCreateBoard_Rejections(t *testing.T) {
	f := newFixture(t, service.Options{})

	_, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Sprint 1"})
	assert.ErrorIs(t, err, service.ErrNotAuthenticated)

	f.mustRegister(t, "owneruser", "")
	_, err = f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "   "})
	assert.ErrorIs(t, err, service.ErrValidation)
	assert.Empty(t, f.app.Snapshot().Boards)
}

func TestCreateBoard_CodesAreUnique(t *testing.T) {
	f := newFixture(t, service.Options{NewCode: sequentialCodes("AB12CD", "AB12CD", "ab12cd", "EF34GH")})
	f.mustRegister(t, "owneruser", "")

	first, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "First"})
	require.NoError(t, err)
	second, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Second"})
	require.NoError(t, err)

	assert.Equal(t, "AB12CD", first.Code)
	assert.Equal(t, "EF34GH", second.Code)
}

func TestCreateBoard_StuckGeneratorFallsBack(t *testing.T) {
	f := newFixture(t, service.Options{NewCode: func() string { return "AB12CD" }})
	f.mustRegister(t, "owneruser", "")

	first, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "First"})
	require.NoError(t, err)
	second, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Second"})
	require.NoError(t, err)

	assert.NotEqual(t, first.Code, second.Code)
	assert.Regexp(t, `^[A-Z0-9]{6}$`, second.Code)
}

func TestDeleteBoard_Cascades(t *testing.T) {
	// Arrange: Sprint 1 with two members, tasks and notifications.
	f := newFixture(t, service.Options{})
	owner := f.mustRegister(t, "owneruser", "")
	keep, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Backlog"})
	require.NoError(t, err)
	sprint, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Sprint 1"})
	require.NoError(t, err)
	require.Equal(t, "EF34GH", sprint.Code)

	member := f.mustRegister(t, "memberuser", sprint.Code)
	f.loginAs(t, "owneruser")
	require.True(t, f.app.SetCurrentBoard(f.ctx, sprint.ID))

	doomed, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Ship it", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)
	survivor, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{BoardID: keep.ID, Title: "Groom"})
	require.NoError(t, err)
	require.NotEmpty(t, f.app.ListForUser(member.ID))
	require.NotEmpty(t, f.app.ListForUser(owner.ID), "board_joined for the owner")

	// Act
	require.NoError(t, f.app.DeleteBoard(f.ctx, sprint.ID))

	// Assert
	_, ok := f.app.Board(sprint.ID)
	assert.False(t, ok)
	_, ok = f.app.Task(doomed.ID)
	assert.False(t, ok)
	_, ok = f.app.Task(survivor.ID)
	assert.True(t, ok)
	assert.Empty(t, f.app.GetTasksForBoard(sprint.ID))

	for _, u := range f.app.Users() {
		assert.NotContains(t, u.BoardIDs, sprint.ID)
	}
	for _, n := range f.app.Snapshot().Notifications {
		assert.NotEqual(t, sprint.ID, n.Payload.BoardID)
		assert.NotEqual(t, doomed.ID, n.Payload.TaskID)
	}
	assert.Equal(t, keep.ID, f.app.Session().CurrentBoardID, "falls back to a remaining board")
}

func TestDeleteBoard_LastBoardClearsSelection(t *testing.T) {
	f := newFixture(t, service.Options{})
	f.mustRegister(t, "owneruser", "")
	board, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Only"})
	require.NoError(t, err)

	require.NoError(t, f.app.DeleteBoard(f.ctx, board.ID))

	assert.Empty(t, f.app.Session().CurrentBoardID)
	_, ok := f.app.CurrentBoard()
	assert.False(t, ok)
}

func TestDeleteBoard_Permissions(t *testing.T) {
	f := newFixture(t, service.Options{SeedDemo: true, NewCode: sequentialCodes("DEMO01", "AB12CD")})
	f.mustRegister(t, "owneruser", "")
	board, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Sprint 1"})
	require.NoError(t, err)

	f.mustRegister(t, "memberuser", board.Code)
	err = f.app.DeleteBoard(f.ctx, board.ID)
	assert.ErrorIs(t, err, service.ErrForbidden)
	_, ok := f.app.Board(board.ID)
	assert.True(t, ok)

	assert.ErrorIs(t, f.app.DeleteBoard(f.ctx, "missing"), service.ErrBoardNotFound)

	require.True(t, f.app.DemoLogin(f.ctx, model.RoleAdmin))
	assert.NoError(t, f.app.DeleteBoard(f.ctx, board.ID), "admins may delete any board")
}

func TestSetCurrentBoard(t *testing.T) {
	f := newFixture(t, service.Options{})
	f.mustRegister(t, "owneruser", "")
	first, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "First"})
	require.NoError(t, err)
	second, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Second"})
	require.NoError(t, err)

	assert.True(t, f.app.SetCurrentBoard(f.ctx, first.ID))
	assert.Equal(t, first.ID, f.app.Session().CurrentBoardID)

	f.mustRegister(t, "strangeruser", "")
	assert.False(t, f.app.SetCurrentBoard(f.ctx, second.ID), "non-members cannot select")
	assert.Empty(t, f.app.Session().CurrentBoardID)
	assert.False(t, f.app.SetCurrentBoard(f.ctx, "missing"))
}

func TestBoardsForUser(t *testing.T) {
	f := newFixture(t, service.Options{})
	u := f.mustRegister(t, "owneruser", "")
	first, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "First"})
	require.NoError(t, err)
	f.clock.Advance(time.Minute)
	second, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Second"})
	require.NoError(t, err)

	boards := f.app.BoardsForUser(u.ID)

	require.Len(t, boards, 2)
	assert.Equal(t, first.ID, boards[0].ID)
	assert.Equal(t, second.ID, boards[1].ID)
	assert.Nil(t, f.app.BoardsForUser("missing"))
}

func TestGenerateBoardLink_UnknownBoard(t *testing.T) {
	f := newFixture(t, service.Options{})

	_, err := f.app.GenerateBoardLink("missing")

	assert.ErrorIs(t, err, service.ErrBoardNotFound)
}

func TestGenerateBoardLink_DefaultBase(t *testing.T) {
	f := newFixture(t, service.Options{})
	f.mustRegister(t, "owneruser", "")
	board, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Sprint 1"})
	require.NoError(t, err)

	link, err := f.app.GenerateBoardLink(board.ID)

	require.NoError(t, err)
	assert.Equal(t, "http://localhost:5173/?board=AB12CD", link)
}
