package service

import (
	"context"
	"slices"
	"strings"
	"time"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// AddTask creates a task on req.BoardID, or on the current board when that
// is empty. Assignees who are not board members are dropped; with no
// assignees given the creator is assigned.
func (a *App) AddTask(ctx context.Context, req CreateTaskRequest) (model.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	if err == nil {
		if req.BoardID == "" {
			req.BoardID = a.state.Session.CurrentBoardID
		}
		err = a.boardAccess(u, req.BoardID)
	}
	if err == nil {
		req.Title = strings.TrimSpace(req.Title)
		if req.Title == "" {
			err = ErrEmptyTitle
		} else {
			err = a.check(req)
		}
	}
	a.metrics.Operation("add_task", err)
	if err != nil {
		return model.Task{}, err
	}

	now := a.timestamp()
	assignees := req.AssigneeIDs
	if assignees == nil {
		assignees = []string{u.ID}
	}
	task := model.Task{
		ID:            a.newID(),
		BoardID:       req.BoardID,
		Title:         req.Title,
		Description:   req.Description,
		Status:        req.Status,
		Priority:      req.Priority,
		AssigneeIDs:   a.filterAssignees(req.BoardID, assignees),
		CreatorID:     u.ID,
		Deadline:      utcPtr(req.Deadline),
		IsPinned:      req.IsPinned,
		Comments:      []model.Comment{},
		Attachments:   make([]model.Attachment, 0, len(req.Attachments)),
		VoiceMessages: make([]model.VoiceMessage, 0, len(req.VoiceMessages)),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if task.Status == "" {
		task.Status = model.StatusCreated
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	for _, in := range req.Attachments {
		task.Attachments = append(task.Attachments, a.newAttachment(in))
	}
	for _, in := range req.VoiceMessages {
		task.VoiceMessages = append(task.VoiceMessages, a.newVoiceMessage(u.ID, in, now))
	}

	a.state.Tasks = append(a.state.Tasks, task)
	payload := taskPayload(&task)
	a.notifyAll(task.AssigneeIDs, u.ID, model.KindTaskAssigned, payload)
	if kind := a.deadlineKind(&task, now); kind != "" {
		a.notifyAll(task.AssigneeIDs, u.ID, kind, payload)
	}
	a.commit(ctx)

	a.logger.Debug("task created", zap.String("task_id", task.ID), zap.String("board_id", task.BoardID))
	return task.Clone(), nil
}

// UpdateTask applies a partial change. New assignees, completion and
// deadline changes notify the affected assignees other than the actor.
func (a *App) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (model.Task, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, t, err := a.taskAccess(id)
	var comments []model.Comment
	if err == nil {
		err = a.check(req)
	}
	if err == nil && req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			err = ErrEmptyTitle
		}
		req.Title = &trimmed
	}
	if err == nil && req.Comments != nil {
		comments, err = a.commentList(u.ID, *req.Comments)
	}
	a.metrics.Operation("update_task", err)
	if err != nil {
		return model.Task{}, err
	}

	before := t.Clone()
	now := a.timestamp()

	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Description != nil {
		t.Description = *req.Description
	}
	if req.Status != nil {
		t.Status = *req.Status
	}
	if req.Priority != nil {
		t.Priority = *req.Priority
	}
	if req.AssigneeIDs != nil {
		t.AssigneeIDs = a.filterAssignees(t.BoardID, *req.AssigneeIDs)
	}
	switch {
	case req.ClearDeadline:
		t.Deadline = nil
	case req.Deadline != nil:
		t.Deadline = utcPtr(req.Deadline)
	}
	if req.IsPinned != nil {
		t.IsPinned = *req.IsPinned
	}
	if comments != nil {
		t.Comments = comments
	}
	t.UpdatedAt = now

	payload := taskPayload(t)
	var added []string
	for _, uid := range t.AssigneeIDs {
		if !before.IsAssigned(uid) {
			added = append(added, uid)
		}
	}
	a.notifyAll(added, u.ID, model.KindTaskAssigned, payload)
	if t.Status == model.StatusCompleted && before.Status != model.StatusCompleted {
		a.notifyAll(t.AssigneeIDs, u.ID, model.KindTaskCompleted, payload)
	}
	if !sameDeadline(before.Deadline, t.Deadline) {
		if kind := a.deadlineKind(t, now); kind != "" {
			a.notifyAll(t.AssigneeIDs, u.ID, kind, payload)
		}
	}
	a.commit(ctx)
	return t.Clone(), nil
}

// DeleteTask removes a task and the notifications about it.
func (a *App) DeleteTask(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, _, err := a.taskAccess(id)
	a.metrics.Operation("delete_task", err)
	if err != nil {
		return err
	}

	a.state.Tasks = slices.DeleteFunc(a.state.Tasks, func(t model.Task) bool { return t.ID == id })
	a.state.Notifications = slices.DeleteFunc(a.state.Notifications, func(n model.Notification) bool {
		return n.Payload.TaskID == id
	})
	a.commit(ctx)
	return nil
}

// AddComment appends a comment by the current user. Comments are never
// edited in place.
func (a *App) AddComment(ctx context.Context, taskID, content string) (model.Comment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, t, err := a.taskAccess(taskID)
	if err == nil && strings.TrimSpace(content) == "" {
		err = ErrEmptyComment
	}
	a.metrics.Operation("add_comment", err)
	if err != nil {
		return model.Comment{}, err
	}

	c := model.Comment{
		ID:        a.newID(),
		UserID:    u.ID,
		Content:   content,
		CreatedAt: a.timestamp(),
	}
	t.Comments = append(t.Comments, c)
	t.UpdatedAt = c.CreatedAt
	a.commit(ctx)
	return c, nil
}

// AddAttachment appends attachment metadata; the bytes stay behind ContentRef.
func (a *App) AddAttachment(ctx context.Context, taskID string, in AttachmentInput) (model.Attachment, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, t, err := a.taskAccess(taskID)
	if err == nil {
		err = a.check(in)
	}
	a.metrics.Operation("add_attachment", err)
	if err != nil {
		return model.Attachment{}, err
	}

	att := a.newAttachment(in)
	t.Attachments = append(t.Attachments, att)
	t.UpdatedAt = a.timestamp()
	a.commit(ctx)
	return att, nil
}

func (a *App) RemoveAttachment(ctx context.Context, taskID, attachmentID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, t, err := a.taskAccess(taskID)
	if err == nil && !slices.ContainsFunc(t.Attachments, func(x model.Attachment) bool { return x.ID == attachmentID }) {
		err = ErrAttachmentNotFound
	}
	a.metrics.Operation("remove_attachment", err)
	if err != nil {
		return err
	}

	t.Attachments = slices.DeleteFunc(t.Attachments, func(x model.Attachment) bool { return x.ID == attachmentID })
	t.UpdatedAt = a.timestamp()
	a.commit(ctx)
	return nil
}

// AddVoiceMessage appends a voice clip recorded by the current user.
func (a *App) AddVoiceMessage(ctx context.Context, taskID string, in VoiceMessageInput) (model.VoiceMessage, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, t, err := a.taskAccess(taskID)
	if err == nil {
		err = a.check(in)
	}
	a.metrics.Operation("add_voice_message", err)
	if err != nil {
		return model.VoiceMessage{}, err
	}

	now := a.timestamp()
	vm := a.newVoiceMessage(u.ID, in, now)
	t.VoiceMessages = append(t.VoiceMessages, vm)
	t.UpdatedAt = now
	a.commit(ctx)
	return vm, nil
}

func (a *App) RemoveVoiceMessage(ctx context.Context, taskID, voiceID string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	_, t, err := a.taskAccess(taskID)
	if err == nil && !slices.ContainsFunc(t.VoiceMessages, func(x model.VoiceMessage) bool { return x.ID == voiceID }) {
		err = ErrVoiceNotFound
	}
	a.metrics.Operation("remove_voice_message", err)
	if err != nil {
		return err
	}

	t.VoiceMessages = slices.DeleteFunc(t.VoiceMessages, func(x model.VoiceMessage) bool { return x.ID == voiceID })
	t.UpdatedAt = a.timestamp()
	a.commit(ctx)
	return nil
}

// Task returns one task.
func (a *App) Task(id string) (model.Task, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	t := a.taskByID(id)
	if t == nil {
		return model.Task{}, false
	}
	return t.Clone(), true
}

// GetTasksForBoard lists the tasks of a board in creation order.
func (a *App) GetTasksForBoard(boardID string) []model.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tasksFor(boardID)
}

// CurrentBoardTasks lists the tasks of the session's board.
func (a *App) CurrentBoardTasks() []model.Task {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.tasksFor(a.state.Session.CurrentBoardID)
}

// ActiveTaskCount counts the current board's tasks that are not completed.
func (a *App) ActiveTaskCount() int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for _, t := range a.state.Tasks {
		if t.BoardID == a.state.Session.CurrentBoardID && t.Status != model.StatusCompleted {
			count++
		}
	}
	return count
}

func (a *App) tasksFor(boardID string) []model.Task {
	out := []model.Task{}
	if boardID == "" {
		return out
	}
	for _, t := range a.state.Tasks {
		if t.BoardID == boardID {
			out = append(out, t.Clone())
		}
	}
	return out
}

// boardAccess allows board members and admins.
func (a *App) boardAccess(u *model.User, boardID string) error {
	if boardID == "" || a.boardByID(boardID) == nil {
		return ErrBoardNotFound
	}
	if !u.IsMember(boardID) && !u.IsAdmin() {
		return ErrForbidden
	}
	return nil
}

// taskAccess resolves the acting user and a task they may change.
func (a *App) taskAccess(taskID string) (*model.User, *model.Task, error) {
	u, err := a.currentUser()
	if err != nil {
		return nil, nil, err
	}
	t := a.taskByID(taskID)
	if t == nil {
		return nil, nil, ErrTaskNotFound
	}
	if err := a.boardAccess(u, t.BoardID); err != nil {
		return nil, nil, err
	}
	return u, t, nil
}

// filterAssignees keeps board members only, without duplicates, in the
// given order.
func (a *App) filterAssignees(boardID string, ids []string) []string {
	members := a.memberIDs(boardID)
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if members[id] && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

// commentList turns a client-supplied comment list into stored comments.
func (a *App) commentList(actorID string, records []CommentRecord) ([]model.Comment, error) {
	now := a.timestamp()
	out := make([]model.Comment, 0, len(records))
	for _, r := range records {
		if strings.TrimSpace(r.Content) == "" {
			return nil, ErrEmptyComment
		}
		c := model.Comment{ID: r.ID, UserID: r.UserID, Content: r.Content, CreatedAt: r.CreatedAt.UTC()}
		if c.ID == "" {
			c.ID = a.newID()
		}
		if c.UserID == "" {
			c.UserID = actorID
		}
		if r.CreatedAt.IsZero() {
			c.CreatedAt = now
		}
		out = append(out, c)
	}
	return out, nil
}

func (a *App) newAttachment(in AttachmentInput) model.Attachment {
	return model.Attachment{
		ID:         a.newID(),
		Name:       in.Name,
		Size:       in.Size,
		MimeType:   in.MimeType,
		ContentRef: in.ContentRef,
	}
}

func (a *App) newVoiceMessage(userID string, in VoiceMessageInput, now time.Time) model.VoiceMessage {
	return model.VoiceMessage{
		ID:         a.newID(),
		UserID:     userID,
		ContentRef: in.ContentRef,
		Duration:   in.Duration,
		CreatedAt:  now,
	}
}

func taskPayload(t *model.Task) model.NotificationPayload {
	return model.NotificationPayload{TaskID: t.ID, BoardID: t.BoardID, Message: t.Title}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func sameDeadline(x, y *time.Time) bool {
	if x == nil || y == nil {
		return x == y
	}
	return x.Equal(*y)
}
