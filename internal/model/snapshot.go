package model

// Session is the single active login of the process.
type Session struct {
	CurrentUserID  string `json:"currentUserId,omitempty"`
	CurrentBoardID string `json:"currentBoardId,omitempty"`
}

// Snapshot is the complete persisted state. It is always written and read
// as one record.
type Snapshot struct {
	Users            []User            `json:"users"`
	Boards           []Board           `json:"boards"`
	Tasks            []Task            `json:"tasks"`
	Notifications    []Notification    `json:"notifications"`
	SavedCredentials *SavedCredentials `json:"savedCredentials,omitempty"`
	Session          Session           `json:"session"`
}

// NewSnapshot returns the empty first-run state.
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Users:         []User{},
		Boards:        []Board{},
		Tasks:         []Task{},
		Notifications: []Notification{},
	}
}

// Normalize replaces nil collections so a decoded snapshot behaves like a
// fresh one.
func (s *Snapshot) Normalize() {
	if s.Users == nil {
		s.Users = []User{}
	}
	if s.Boards == nil {
		s.Boards = []Board{}
	}
	if s.Tasks == nil {
		s.Tasks = []Task{}
	}
	if s.Notifications == nil {
		s.Notifications = []Notification{}
	}
	for i := range s.Users {
		if s.Users[i].BoardIDs == nil {
			s.Users[i].BoardIDs = []string{}
		}
	}
	for i := range s.Tasks {
		t := &s.Tasks[i]
		if t.AssigneeIDs == nil {
			t.AssigneeIDs = []string{}
		}
		if t.Comments == nil {
			t.Comments = []Comment{}
		}
		if t.Attachments == nil {
			t.Attachments = []Attachment{}
		}
		if t.VoiceMessages == nil {
			t.VoiceMessages = []VoiceMessage{}
		}
	}
}
