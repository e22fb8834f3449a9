package service

import (
	"context"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// BoardCodeParam is the query parameter that carries a join code in board links.
const BoardCodeParam = "board"

// Register creates a regular account and logs it in. When boardCode names an
// existing board the new user joins it and it becomes the current board;
// otherwise the user starts without boards. Nothing changes on failure.
func (a *App) Register(ctx context.Context, req RegisterRequest, boardCode string) (model.User, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.createUser(req, model.RoleUser)
	a.metrics.Operation("register", err)
	if err != nil {
		return model.User{}, err
	}

	a.state.Session = model.Session{CurrentUserID: u.ID}
	if b := a.boardByCode(boardCode); b != nil {
		a.joinBoard(u, b)
		a.state.Session.CurrentBoardID = b.ID
	}
	a.commit(ctx)

	a.logger.Info("user registered", zap.String("user_id", u.ID), zap.String("username", u.Username))
	return cloneUser(*u), nil
}

// Login succeeds iff a user with exactly this username and password exists.
// A resolvable boardCode is joined and selected; otherwise the user's first
// board (if any) becomes current.
func (a *App) Login(ctx context.Context, username, password, boardCode string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.login(ctx, username, password, boardCode)
}

// DemoLogin logs in as the seeded admin or regular demo account.
func (a *App) DemoLogin(ctx context.Context, role string) bool {
	username := DemoUserUsername
	if role == model.RoleAdmin {
		username = DemoAdminUsername
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.login(ctx, username, DemoPassword, "")
}

func (a *App) login(ctx context.Context, username, password, boardCode string) bool {
	u := a.userByUsername(username)
	if u == nil || !a.passwords.Matches(u.Password, password) {
		a.metrics.Operation("login", ErrNotAuthenticated)
		a.logger.Info("login rejected", zap.String("username", username))
		return false
	}

	a.state.Session = model.Session{CurrentUserID: u.ID}
	if b := a.boardByCode(boardCode); b != nil {
		a.joinBoard(u, b)
		a.state.Session.CurrentBoardID = b.ID
	} else {
		a.state.Session.CurrentBoardID = a.firstBoardOf(u)
	}
	a.commit(ctx)

	a.metrics.Operation("login", nil)
	a.logger.Info("user logged in", zap.String("user_id", u.ID))
	return true
}

// Logout ends the session. Saved credentials are kept.
func (a *App) Logout(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.Session = model.Session{}
	a.commit(ctx)
	a.metrics.Operation("logout", nil)
}

// JoinBoardByCode adds the current user to the board with the given code and
// selects it. It returns false for an unknown code or without a session.
func (a *App) JoinBoardByCode(ctx context.Context, code string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	if err != nil {
		a.metrics.Operation("join_board", err)
		return false
	}
	b := a.boardByCode(code)
	if b == nil {
		a.metrics.Operation("join_board", ErrBoardNotFound)
		return false
	}

	a.joinBoard(u, b)
	a.state.Session.CurrentBoardID = b.ID
	a.commit(ctx)
	a.metrics.Operation("join_board", nil)
	return true
}

// joinBoard adds membership and tells the board's creator about newcomers.
func (a *App) joinBoard(u *model.User, b *model.Board) {
	if !u.Join(b.ID) {
		return
	}
	if b.CreatedBy != "" && b.CreatedBy != u.ID {
		a.emit(b.CreatedBy, model.KindBoardJoined, model.NotificationPayload{
			BoardID: b.ID,
			ActorID: u.ID,
			Message: u.FirstName + " " + u.LastName + " joined " + b.Name,
		})
	}
}

// RememberCredentials stores a login prefill. It is independent of the session.
func (a *App) RememberCredentials(ctx context.Context, username, password string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.state.SavedCredentials = &model.SavedCredentials{Username: username, Password: password}
	a.commit(ctx)
}

func (a *App) ClearSavedCredentials(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.SavedCredentials == nil {
		return
	}
	a.state.SavedCredentials = nil
	a.commit(ctx)
}

func (a *App) SavedCredentials() (model.SavedCredentials, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state.SavedCredentials == nil {
		return model.SavedCredentials{}, false
	}
	return *a.state.SavedCredentials, true
}

func (a *App) Session() model.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.state.Session
}

// CurrentUser returns the logged-in user.
func (a *App) CurrentUser() (model.User, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	if err != nil {
		return model.User{}, false
	}
	return cloneUser(*u), true
}

// CodeFromURL extracts the join code from a board link or a raw query string.
// It returns "" when there is none.
func CodeFromURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		return normalizeCode(u.Query().Get(BoardCodeParam))
	}
	q, err := url.ParseQuery(strings.TrimPrefix(raw, "?"))
	if err != nil {
		return ""
	}
	return normalizeCode(q.Get(BoardCodeParam))
}
