package service

import (
	"context"
	"errors"
	"net/url"
	"slices"
	"strings"

	"go.uber.org/zap"

	"taskboard/internal/model"
)

// CreateBoard creates a board owned by the current user, who becomes its sole
// member, and selects it.
func (a *App) CreateBoard(ctx context.Context, req CreateBoardRequest) (model.Board, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	if err == nil {
		req.Name = strings.TrimSpace(req.Name)
		err = a.check(req)
	}
	a.metrics.Operation("create_board", err)
	if err != nil {
		return model.Board{}, err
	}

	board := model.Board{
		ID:          a.newID(),
		Name:        req.Name,
		Description: req.Description,
		Code:        a.uniqueCode(),
		CreatedBy:   u.ID,
		CreatedAt:   a.timestamp(),
	}
	a.state.Boards = append(a.state.Boards, board)
	u.Join(board.ID)
	a.state.Session.CurrentBoardID = board.ID
	a.commit(ctx)

	a.logger.Info("board created", zap.String("board_id", board.ID), zap.String("code", board.Code))
	return board, nil
}

// DeleteBoard removes a board, its tasks, every membership in it and the
// notifications about it. Only an admin or the board's creator may do this.
func (a *App) DeleteBoard(ctx context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	var board *model.Board
	if err == nil {
		board = a.boardByID(id)
		switch {
		case board == nil:
			err = ErrBoardNotFound
		case !u.IsAdmin() && board.CreatedBy != u.ID:
			err = ErrForbidden
		}
	}
	a.metrics.Operation("delete_board", err)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			a.logger.Info("board deletion denied", zap.String("board_id", id), zap.String("user_id", u.ID))
		}
		return err
	}

	// Work out everything the cascade touches before changing anything.
	doomedTasks := make(map[string]bool)
	for _, t := range a.state.Tasks {
		if t.BoardID == id {
			doomedTasks[t.ID] = true
		}
	}
	actorID := u.ID

	a.state.Tasks = slices.DeleteFunc(a.state.Tasks, func(t model.Task) bool { return doomedTasks[t.ID] })
	a.state.Notifications = slices.DeleteFunc(a.state.Notifications, func(n model.Notification) bool {
		return n.Payload.BoardID == id || doomedTasks[n.Payload.TaskID]
	})
	for i := range a.state.Users {
		a.state.Users[i].Leave(id)
	}
	a.state.Boards = slices.DeleteFunc(a.state.Boards, func(b model.Board) bool { return b.ID == id })

	if a.state.Session.CurrentBoardID == id {
		a.state.Session.CurrentBoardID = a.firstBoardOf(a.userByID(actorID))
	}
	a.commit(ctx)

	a.logger.Info("board deleted",
		zap.String("board_id", id),
		zap.Int("tasks_removed", len(doomedTasks)),
		zap.String("by", actorID),
	)
	return nil
}

// SetCurrentBoard selects a board for the session. It does nothing and
// returns false when the current user is not a member.
func (a *App) SetCurrentBoard(ctx context.Context, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	u, err := a.currentUser()
	if err != nil || !u.IsMember(id) || a.boardByID(id) == nil {
		return false
	}
	if a.state.Session.CurrentBoardID != id {
		a.state.Session.CurrentBoardID = id
		a.commit(ctx)
	}
	return true
}

// GenerateBoardLink returns the shareable URL for a board: the configured
// base address with the board's code in the "board" query parameter.
func (a *App) GenerateBoardLink(id string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.boardByID(id)
	if b == nil {
		return "", ErrBoardNotFound
	}
	return boardLink(a.baseURL, b.Code)
}

func boardLink(base, code string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set(BoardCodeParam, code)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Board returns one board.
func (a *App) Board(id string) (model.Board, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.boardByID(id)
	if b == nil {
		return model.Board{}, false
	}
	return *b, true
}

// CurrentBoard returns the session's selected board.
func (a *App) CurrentBoard() (model.Board, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	b := a.boardByID(a.state.Session.CurrentBoardID)
	if b == nil {
		return model.Board{}, false
	}
	return *b, true
}

// BoardsForUser lists the boards userID belongs to, in joining order.
func (a *App) BoardsForUser(userID string) []model.Board {
	a.mu.Lock()
	defer a.mu.Unlock()

	u := a.userByID(userID)
	if u == nil {
		return nil
	}
	out := make([]model.Board, 0, len(u.BoardIDs))
	for _, id := range u.BoardIDs {
		if b := a.boardByID(id); b != nil {
			out = append(out, *b)
		}
	}
	return out
}
