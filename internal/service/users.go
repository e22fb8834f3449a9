package service

import (
	"context"
	"errors"
	"slices"
	"strings"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// TaskStats summarizes one user's assignments on a board.
type TaskStats struct {
	Total      int `json:"total"`
	Completed  int `json:"completed"`
	InProgress int `json:"inProgress"`
}

// createUser validates req, checks account uniqueness and appends the user.
// It returns a pointer into the users slice.
func (a *App) createUser(req RegisterRequest, role string) (*model.User, error) {
	if err := a.check(req); err != nil {
		return nil, err
	}
	if err := a.accountConflict(req.Username, req.Email, ""); err != nil {
		return nil, err
	}
	hash, err := a.passwords.Hash(req.Password)
	if err != nil {
		return nil, err
	}

	a.state.Users = append(a.state.Users, model.User{
		ID:         a.newID(),
		Username:   req.Username,
		Email:      req.Email,
		Password:   hash,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Patronymic: req.Patronymic,
		Role:       role,
		BoardIDs:   []string{},
		Avatar:     req.Avatar,
		CreatedAt:  a.timestamp(),
	})
	return &a.state.Users[len(a.state.Users)-1], nil
}

// accountConflict enforces case-insensitive uniqueness of username and email,
// ignoring the user with id exceptID.
func (a *App) accountConflict(username, email, exceptID string) error {
	for _, u := range a.state.Users {
		if u.ID == exceptID {
			continue
		}
		if username != "" && strings.EqualFold(u.Username, username) {
			return ErrUsernameTaken
		}
		if email != "" && strings.EqualFold(u.Email, email) {
			return ErrEmailTaken
		}
	}
	return nil
}

// AddUser lets an admin create an account. The new user joins the admin's
// current board, if one is selected.
func (a *App) AddUser(ctx context.Context, req AddUserRequest) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.currentUser()
	if err == nil && !actor.IsAdmin() {
		err = ErrForbidden
	}
	if err == nil {
		err = a.check(req)
	}
	if err != nil {
		a.metrics.Operation("add_user", err)
		return model.User{}, err
	}
	actorID := actor.ID

	role := req.Role
	if role == "" {
		role = model.RoleUser
	}
	u, err := a.createUser(req.RegisterRequest, role)
	a.metrics.Operation("add_user", err)
	if err != nil {
		return model.User{}, err
	}
	if boardID := a.state.Session.CurrentBoardID; boardID != "" {
		u.Join(boardID)
	}
	a.commit(ctx)

	a.logger.Info("user added", zap.String("user_id", u.ID), zap.String("by", actorID))
	return cloneUser(*u), nil
}

// UpdateUser applies a partial profile change. Admins may edit anyone and
// change roles; other users may only edit themselves.
func (a *App) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.prepareUserUpdate(id, req)
	var hash string
	if err == nil && req.Password != nil {
		hash, err = a.passwords.Hash(*req.Password)
	}
	a.metrics.Operation("update_user", err)
	if err != nil {
		return model.User{}, err
	}

	if req.Username != nil {
		u.Username = *req.Username
	}
	if req.Email != nil {
		u.Email = *req.Email
	}
	if req.Password != nil {
		u.Password = hash
	}
	if req.FirstName != nil {
		u.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		u.LastName = *req.LastName
	}
	if req.Patronymic != nil {
		u.Patronymic = *req.Patronymic
	}
	if req.Avatar != nil {
		u.Avatar = *req.Avatar
	}
	if req.Role != nil {
		u.Role = *req.Role
	}
	a.commit(ctx)
	return cloneUser(*u), nil
}

func (a *App) prepareUserUpdate(id string, req UpdateUserRequest) (*model.User, error) {
	actor, err := a.currentUser()
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && (actor.ID != id || req.Role != nil) {
		return nil, ErrForbidden
	}
	u := a.userByID(id)
	if u == nil {
		return nil, ErrUserNotFound
	}
	if err := a.check(req); err != nil {
		return nil, err
	}
	var username, email string
	if req.Username != nil {
		username = *req.Username
	}
	if req.Email != nil {
		email = *req.Email
	}
	if err := a.accountConflict(username, email, id); err != nil {
		return nil, err
	}
	return u, nil
}

// DeleteUser removes an account. Only admins may delete, and never
// themselves. The user leaves every board, is stripped from every task's
// assignees and loses their notifications.
func (a *App) DeleteUser(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	actor, err := a.currentUser()
	switch {
	case err != nil:
	case actor.ID == id:
		err = ErrSelfDelete
	case !actor.IsAdmin():
		err = ErrForbidden
	case a.userByID(id) == nil:
		err = ErrUserNotFound
	}
	a.metrics.Operation("delete_user", err)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			a.logger.Info("user deletion denied", zap.String("target", id), zap.Error(err))
		}
		return err
	}
	actorID := actor.ID

	a.state.Users = slices.DeleteFunc(a.state.Users, func(u model.User) bool { return u.ID == id })
	for i := range a.state.Tasks {
		t := &a.state.Tasks[i]
		t.AssigneeIDs = slices.DeleteFunc(t.AssigneeIDs, func(uid string) bool { return uid == id })
	}
	a.state.Notifications = slices.DeleteFunc(a.state.Notifications, func(n model.Notification) bool {
		return n.UserID == id
	})
	if a.state.SavedCredentials != nil && a.userByUsername(a.state.SavedCredentials.Username) == nil {
		a.state.SavedCredentials = nil
	}
	a.commit(ctx)

	a.logger.Info("user deleted", zap.String("user_id", id), zap.String("by", actorID))
	return nil
}

// User returns one account.
func (a *App) User(id string) (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := a.userByID(id)
	if u == nil {
		return model.User{}, false
	}
	return cloneUser(*u), true
}

// Users returns every account.
func (a *App) Users() []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.User, len(a.state.Users))
	for i, u := range a.state.Users {
		out[i] = cloneUser(u)
	}
	return out
}

// Members returns the users whose board lists contain boardID.
func (a *App) Members(boardID string) []model.User {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []model.User
	for _, u := range a.state.Users {
		if u.IsMember(boardID) {
			out = append(out, cloneUser(u))
		}
	}
	return out
}

// UserStats counts the tasks on boardID assigned to userID.
func (a *App) UserStats(userID, boardID string) TaskStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	var stats TaskStats
	for _, t := range a.state.Tasks {
		if t.BoardID != boardID || !t.IsAssigned(userID) {
			continue
		}
		stats.Total++
		switch t.Status {
		case model.StatusCompleted:
			stats.Completed++
		case model.StatusInProgress:
			stats.InProgress++
		}
	}
	return stats
}
