package model

import (
	"slices"
	"time"
)

// Task statuses, in board column order.
const (
	StatusCreated    = "created"
	StatusInProgress = "in-progress"
	StatusCompleted  = "completed"
)

// Task priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

type Task struct {
	ID            string         `json:"id"`
	BoardID       string         `json:"boardId"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Status        string         `json:"status"`
	Priority      string         `json:"priority"`
	AssigneeIDs   []string       `json:"assigneeIds"`
	CreatorID     string         `json:"creatorId"`
	Deadline      *time.Time     `json:"deadline,omitempty"`
	IsPinned      bool           `json:"isPinned"`
	Comments      []Comment      `json:"comments"`
	Attachments   []Attachment   `json:"attachments"`
	VoiceMessages []VoiceMessage `json:"voiceMessages"`
	CreatedAt     time.Time      `json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

func (t *Task) IsAssigned(userID string) bool {
	return slices.Contains(t.AssigneeIDs, userID)
}

// Clone returns a deep copy so callers can never alias the stored slices.
func (t Task) Clone() Task {
	out := t
	out.AssigneeIDs = slices.Clone(t.AssigneeIDs)
	out.Comments = slices.Clone(t.Comments)
	out.Attachments = slices.Clone(t.Attachments)
	out.VoiceMessages = slices.Clone(t.VoiceMessages)
	if t.Deadline != nil {
		d := *t.Deadline
		out.Deadline = &d
	}
	return out
}

type Comment struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Attachment holds metadata only; the bytes live behind ContentRef.
type Attachment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	MimeType   string `json:"mimeType"`
	ContentRef string `json:"contentRef"`
}

type VoiceMessage struct {
	ID         string        `json:"id"`
	UserID     string        `json:"userId"`
	ContentRef string        `json:"contentRef"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ValidStatus reports whether s is one of the task statuses.
func ValidStatus(s string) bool {
	return s == StatusCreated || s == StatusInProgress || s == StatusCompleted
}

// ValidPriority reports whether p is one of the task priorities.
func ValidPriority(p string) bool {
	return p == PriorityLow || p == PriorityMedium || p == PriorityHigh
}
