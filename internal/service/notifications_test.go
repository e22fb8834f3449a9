package service_test

import (
	"testing"
	"time"

	"taskboard/internal/model"
	"taskboard/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func kinds(notes []model.Notification) []string {
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Kind
	}
	return out
}

func TestAssignmentNotifiesOthersOnly(t *testing.T) {
	f := newFixture(t, service.Options{})
	owner, member, _ := boardWithMember(t, f)

	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{
		Title:       "Review",
		AssigneeIDs: []string{owner.ID, member.ID},
	})
	require.NoError(t, err)

	notes := f.app.ListForUser(member.ID)
	require.Len(t, notes, 1)
	assert.Equal(t, model.KindTaskAssigned, notes[0].Kind)
	assert.Equal(t, task.ID, notes[0].Payload.TaskID)
	assert.Equal(t, owner.ID, notes[0].Payload.ActorID)
	assert.False(t, notes[0].IsRead)
	assert.Equal(t, 1, f.app.UnreadCount(member.ID))

	assert.NotContains(t, kinds(f.app.ListForUser(owner.ID)), model.KindTaskAssigned)
}

func TestUpdateTask_NotifiesNewAssigneesOnly(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, board := boardWithMember(t, f)
	third := f.mustRegister(t, "thirduser", board.Code)
	f.loginAs(t, "owneruser")
	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Review", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)

	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{member.ID, third.ID}})
	require.NoError(t, err)

	assert.Len(t, f.app.ListForUser(member.ID), 1, "existing assignee is not told again")
	assert.Equal(t, []string{model.KindTaskAssigned}, kinds(f.app.ListForUser(third.ID)))
}

func TestCompletionNotifiesAssignees(t *testing.T) {
	f := newFixture(t, service.Options{})
	owner, member, _ := boardWithMember(t, f)
	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Review", AssigneeIDs: []string{owner.ID, member.ID}})
	require.NoError(t, err)

	f.loginAs(t, "memberuser")
	done := model.StatusCompleted
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	assert.Contains(t, kinds(f.app.ListForUser(owner.ID)), model.KindTaskCompleted)
	assert.NotContains(t, kinds(f.app.ListForUser(member.ID)), model.KindTaskCompleted, "the actor is not notified")

	// Completing again is not a transition.
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)
	completed := 0
	for _, n := range f.app.ListForUser(owner.ID) {
		if n.Kind == model.KindTaskCompleted {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
}

func TestDedup_WhileUnread(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)
	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Review", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)

	// Unassign and reassign: the unread notification suppresses a second one.
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{}})
	require.NoError(t, err)
	f.clock.Advance(48 * time.Hour)
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{member.ID}})
	require.NoError(t, err)
	notes := f.app.ListForUser(member.ID)
	require.Len(t, notes, 1)

	// Once read, the same event is delivered again.
	f.loginAs(t, "memberuser")
	require.True(t, f.app.MarkRead(f.ctx, notes[0].ID))
	f.loginAs(t, "owneruser")
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{}})
	require.NoError(t, err)
	_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{member.ID}})
	require.NoError(t, err)

	assert.Len(t, f.app.ListForUser(member.ID), 2)
	assert.Equal(t, 1, f.app.UnreadCount(member.ID))
}

func TestDedup_Window(t *testing.T) {
	f := newFixture(t, service.Options{DedupWindow: time.Hour})
	_, member, _ := boardWithMember(t, f)
	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Review", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)

	reassign := func() {
		t.Helper()
		_, err := f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{}})
		require.NoError(t, err)
		_, err = f.app.UpdateTask(f.ctx, task.ID, service.UpdateTaskRequest{AssigneeIDs: &[]string{member.ID}})
		require.NoError(t, err)
	}

	f.clock.Advance(30 * time.Minute)
	reassign()
	assert.Len(t, f.app.ListForUser(member.ID), 1, "inside the window")

	f.clock.Advance(time.Hour)
	reassign()
	assert.Len(t, f.app.ListForUser(member.ID), 2, "window elapsed")
}

func TestDedup_DistinctSubjectsAndKinds(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)

	first, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "One", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)
	_, err = f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Two", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)
	done := model.StatusCompleted
	_, err = f.app.UpdateTask(f.ctx, first.ID, service.UpdateTaskRequest{Status: &done})
	require.NoError(t, err)

	assert.Len(t, f.app.ListForUser(member.ID), 3)
}

func TestMarkRead(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)
	_, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Review", AssigneeIDs: []string{member.ID}})
	require.NoError(t, err)
	id := f.app.ListForUser(member.ID)[0].ID

	assert.False(t, f.app.MarkRead(f.ctx, id), "only the recipient may mark it")
	assert.False(t, f.app.MarkRead(f.ctx, "missing"))

	f.loginAs(t, "memberuser")
	assert.True(t, f.app.MarkRead(f.ctx, id))
	assert.True(t, f.app.MarkRead(f.ctx, id), "marking twice is harmless")
	assert.Equal(t, 0, f.app.UnreadCount(member.ID))
	assert.True(t, f.app.ListForUser(member.ID)[0].IsRead)
}

func TestMarkAllRead(t *testing.T) {
	f := newFixture(t, service.Options{})
	owner, member, _ := boardWithMember(t, f)
	for _, title := range []string{"One", "Two", "Three"} {
		_, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: title, AssigneeIDs: []string{member.ID}})
		require.NoError(t, err)
	}
	ownerUnread := f.app.UnreadCount(owner.ID)

	f.loginAs(t, "memberuser")
	assert.Equal(t, 3, f.app.MarkAllRead(f.ctx))
	assert.Equal(t, 0, f.app.MarkAllRead(f.ctx))
	assert.Equal(t, 0, f.app.UnreadCount(member.ID))
	assert.Equal(t, ownerUnread, f.app.UnreadCount(owner.ID), "other users are untouched")
}

func TestListForUser_NewestFirst(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)
	var titles []string
	for _, title := range []string{"One", "Two", "Three"} {
		f.clock.Advance(time.Minute)
		_, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: title, AssigneeIDs: []string{member.ID}})
		require.NoError(t, err)
		titles = append([]string{title}, titles...)
	}

	notes := f.app.ListForUser(member.ID)

	require.Len(t, notes, 3)
	for i, n := range notes {
		assert.Equal(t, titles[i], n.Payload.Message)
	}
}

func TestListForUser_SameInstantKeepsReverseInsertion(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)
	for _, title := range []string{"One", "Two"} {
		_, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: title, AssigneeIDs: []string{member.ID}})
		require.NoError(t, err)
	}

	notes := f.app.ListForUser(member.ID)

	require.Len(t, notes, 2)
	assert.Equal(t, "Two", notes[0].Payload.Message)
}

func TestDeadlineWarnings(t *testing.T) {
	f := newFixture(t, service.Options{DeadlineWarning: 24 * time.Hour})
	_, member, _ := boardWithMember(t, f)

	soon := f.clock.now.Add(6 * time.Hour)
	task, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Soon", AssigneeIDs: []string{member.ID}, Deadline: &soon})
	require.NoError(t, err)
	later := f.clock.now.Add(72 * time.Hour)
	_, err = f.app.AddTask(f.ctx, service.CreateTaskRequest{Title: "Later", AssigneeIDs: []string{member.ID}, Deadline: &later})
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{model.KindTaskAssigned, model.KindDeadlineSoon, model.KindTaskAssigned},
		kinds(f.app.ListForUser(member.ID)))

	assert.Equal(t, 0, f.app.SweepDeadlines(f.ctx), "nothing new while the warning is unread")

	f.clock.Advance(7 * time.Hour)
	assert.Equal(t, 1, f.app.SweepDeadlines(f.ctx))
	assert.Equal(t, model.KindDeadlinePassed, f.app.ListForUser(member.ID)[0].Kind)
	assert.Equal(t, task.ID, f.app.ListForUser(member.ID)[0].Payload.TaskID)

	f.clock.Advance(48 * time.Hour)
	assert.Equal(t, 1, f.app.SweepDeadlines(f.ctx), "Later is now due within a day")
}

func TestSweepDeadlines_SkipsCompleted(t *testing.T) {
	f := newFixture(t, service.Options{})
	_, member, _ := boardWithMember(t, f)
	past := f.clock.now.Add(-time.Hour)
	_, err := f.app.AddTask(f.ctx, service.CreateTaskRequest{
		Title:       "Done",
		Status:      model.StatusCompleted,
		AssigneeIDs: []string{member.ID},
		Deadline:    &past,
	})
	require.NoError(t, err)

	assert.Equal(t, 0, f.app.SweepDeadlines(f.ctx))
	assert.Equal(t, []string{model.KindTaskAssigned}, kinds(f.app.ListForUser(member.ID)))
}

func TestBoardJoined_EachNewcomerAnnounced(t *testing.T) {
	f := newFixture(t, service.Options{})
	owner := f.mustRegister(t, "owneruser", "")
	board, err := f.app.CreateBoard(f.ctx, service.CreateBoardRequest{Name: "Sprint 1"})
	require.NoError(t, err)

	first := f.mustRegister(t, "firstjoiner", board.Code)
	second := f.mustRegister(t, "secondjoiner", board.Code)

	var actors []string
	for _, n := range f.app.ListForUser(owner.ID) {
		if n.Kind == model.KindBoardJoined {
			assert.Equal(t, board.ID, n.Payload.BoardID)
			actors = append(actors, n.Payload.ActorID)
		}
	}
	assert.ElementsMatch(t, []string{first.ID, second.ID}, actors)
}
