package service

import (
	"context"
	"slices"
	"time"

	"taskboard/internal/model"
)

// emit stores a notification unless an equivalent unread one for the same
// user, subject and kind is still inside the suppression window. It reports
// whether a notification was created.
func (a *App) emit(userID, kind string, payload model.NotificationPayload) bool {
	n := model.Notification{
		ID:        a.newID(),
		UserID:    userID,
		Kind:      kind,
		Payload:   payload,
		CreatedAt: a.timestamp(),
	}
	if a.suppressed(&n) {
		return false
	}
	a.state.Notifications = append(a.state.Notifications, n)
	a.metrics.Notification(kind)
	return true
}

func (a *App) suppressed(n *model.Notification) bool {
	subject := n.Subject()
	for _, existing := range a.state.Notifications {
		if existing.IsRead || existing.UserID != n.UserID || existing.Kind != n.Kind || existing.Subject() != subject {
			continue
		}
		if a.dedupWindow == 0 || n.CreatedAt.Sub(existing.CreatedAt) < a.dedupWindow {
			return true
		}
	}
	return false
}

// notifyAll emits kind to each recipient except the actor.
func (a *App) notifyAll(recipients []string, actorID, kind string, payload model.NotificationPayload) {
	payload.ActorID = actorID
	for _, id := range recipients {
		if id == actorID {
			continue
		}
		a.emit(id, kind, payload)
	}
}

// deadlineKind classifies a task's deadline relative to now. It returns ""
// when no warning is due.
func (a *App) deadlineKind(t *model.Task, now time.Time) string {
	if t.Deadline == nil || t.Status == model.StatusCompleted {
		return ""
	}
	switch {
	case !t.Deadline.After(now):
		return model.KindDeadlinePassed
	case t.Deadline.Sub(now) <= a.deadlineWarning:
		return model.KindDeadlineSoon
	}
	return ""
}

// SweepDeadlines warns the assignees of every open task whose deadline is
// close or gone. It returns how many notifications were created.
func (a *App) SweepDeadlines(ctx context.Context) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := a.timestamp()
	before := len(a.state.Notifications)
	for i := range a.state.Tasks {
		t := &a.state.Tasks[i]
		kind := a.deadlineKind(t, now)
		if kind == "" {
			continue
		}
		a.notifyAll(t.AssigneeIDs, "", kind, model.NotificationPayload{
			TaskID:  t.ID,
			BoardID: t.BoardID,
			Message: t.Title,
		})
	}
	created := len(a.state.Notifications) - before
	if created > 0 {
		a.commit(ctx)
	}
	return created
}

// MarkRead flips a notification to read. Marking an already read one is a
// no-op. It returns false if the id is unknown or belongs to someone else.
func (a *App) MarkRead(ctx context.Context, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.state.Notifications {
		n := &a.state.Notifications[i]
		if n.ID != id {
			continue
		}
		if n.UserID != a.state.Session.CurrentUserID {
			return false
		}
		if !n.IsRead {
			n.IsRead = true
			a.commit(ctx)
		}
		return true
	}
	return false
}

// MarkAllRead marks every unread notification of the current user.
func (a *App) MarkAllRead(ctx context.Context) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	userID := a.state.Session.CurrentUserID
	marked := 0
	for i := range a.state.Notifications {
		n := &a.state.Notifications[i]
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			marked++
		}
	}
	if marked > 0 {
		a.commit(ctx)
	}
	return marked
}

// ListForUser returns a user's notifications, newest first.
func (a *App) ListForUser(userID string) []model.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []model.Notification
	for _, n := range a.state.Notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	// Stored in creation order; ties on timestamp keep that order reversed.
	slices.Reverse(out)
	slices.SortStableFunc(out, func(x, y model.Notification) int {
		return y.CreatedAt.Compare(x.CreatedAt)
	})
	return out
}

func (a *App) UnreadCount(userID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()

	count := 0
	for _, n := range a.state.Notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count
}
