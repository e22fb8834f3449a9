package model

import (
	"slices"
	"time"
)

// Roles a user can hold across the whole application.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Email      string    `json:"email"`
	Password   string    `json:"password"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Patronymic string    `json:"patronymic,omitempty"`
	Role       string    `json:"role"`
	BoardIDs   []string  `json:"boardIds"`
	Avatar     string    `json:"avatar,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsMember reports whether the user belongs to the given board.
func (u *User) IsMember(boardID string) bool {
	return slices.Contains(u.BoardIDs, boardID)
}

// Join adds the board to the user's membership set. It returns false if the
// user was already a member.
func (u *User) Join(boardID string) bool {
	if u.IsMember(boardID) {
		return false
	}
	u.BoardIDs = append(u.BoardIDs, boardID)
	return true
}

// Leave removes the board from the user's membership set.
func (u *User) Leave(boardID string) {
	u.BoardIDs = slices.DeleteFunc(u.BoardIDs, func(id string) bool { return id == boardID })
}

// SavedCredentials is the optional login prefill cache. It lives next to the
// session, not inside it, so logging out keeps it.
type SavedCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
