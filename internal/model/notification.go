package model

import "time"

// Notification kinds emitted by the dispatcher.
const (
	KindTaskAssigned   = "task_assigned"
	KindTaskCompleted  = "task_completed"
	KindDeadlineSoon   = "deadline_soon"
	KindDeadlinePassed = "deadline_passed"
	KindBoardJoined    = "board_joined"
)

type Notification struct {
	ID        string              `json:"id"`
	UserID    string              `json:"userId"`
	Kind      string              `json:"kind"`
	Payload   NotificationPayload `json:"payload"`
	IsRead    bool                `json:"isRead"`
	CreatedAt time.Time           `json:"createdAt"`
}

// NotificationPayload points at the entity the notification is about.
type NotificationPayload struct {
	TaskID  string `json:"taskId,omitempty"`
	BoardID string `json:"boardId,omitempty"`
	ActorID string `json:"actorId,omitempty"`
	Message string `json:"message,omitempty"`
}

// Subject returns the id used for duplicate suppression. A join is keyed on
// the board and the newcomer, so every new member is announced.
func (n *Notification) Subject() string {
	switch {
	case n.Payload.TaskID != "":
		return n.Payload.TaskID
	case n.Kind == KindBoardJoined:
		return n.Payload.BoardID + "/" + n.Payload.ActorID
	}
	return n.Payload.BoardID
}
