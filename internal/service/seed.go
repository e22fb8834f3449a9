package service

import (
	"taskboard/internal/model"
)

// Demo account credentials offered on the login screen.
const (
	DemoAdminUsername = "admin123"
	DemoUserUsername  = "user1234"
	DemoPassword      = "password123"
)

// seedDemo installs the two demo accounts and a board they share.
func (a *App) seedDemo() error {
	hash, err := a.passwords.Hash(DemoPassword)
	if err != nil {
		return err
	}
	now := a.timestamp()

	board := model.Board{
		ID:          a.newID(),
		Name:        "Demo board",
		Description: "Shared board of the demo accounts",
		Code:        a.uniqueCode(),
		CreatedAt:   now,
	}
	admin := model.User{
		ID:        a.newID(),
		Username:  DemoAdminUsername,
		Email:     "admin@taskboard.local",
		Password:  hash,
		FirstName: "Demo",
		LastName:  "Admin",
		Role:      model.RoleAdmin,
		BoardIDs:  []string{board.ID},
		CreatedAt: now,
	}
	user := model.User{
		ID:        a.newID(),
		Username:  DemoUserUsername,
		Email:     "user@taskboard.local",
		Password:  hash,
		FirstName: "Demo",
		LastName:  "User",
		Role:      model.RoleUser,
		BoardIDs:  []string{board.ID},
		CreatedAt: now,
	}
	board.CreatedBy = admin.ID

	a.state.Boards = append(a.state.Boards, board)
	a.state.Users = append(a.state.Users, admin, user)
	a.logger.Info("seeded demo accounts")
	return nil
}
