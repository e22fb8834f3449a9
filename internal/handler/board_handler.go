package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type BoardHandler struct {
	app *service.App
}

func NewBoardHandler(app *service.App) *BoardHandler {
	return &BoardHandler{app: app}
}

type BoardResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Code        string `json:"code"`
	CreatedBy   string `json:"createdBy"`
	CreatedAt   string `json:"createdAt"`
}

func toBoardResponse(b model.Board) BoardResponse {
	return BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		Code:        b.Code,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt.Format(time.RFC3339),
	}
}

// Create creates a new board for the authenticated user and selects it
func (h *BoardHandler) Create(c *gin.Context) {
	var req service.CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	board, err := h.app.CreateBoard(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBoardResponse(board))
}

// GetAll lists the boards the authenticated user belongs to
func (h *BoardHandler) GetAll(c *gin.Context) {
	user, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	boards := h.app.BoardsForUser(user.ID)
	response := make([]BoardResponse, len(boards))
	for i, board := range boards {
		response[i] = toBoardResponse(board)
	}
	c.JSON(http.StatusOK, response)
}

func (h *BoardHandler) GetByID(c *gin.Context) {
	board, ok := h.visible(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Delete(c *gin.Context) {
	if err := h.app.DeleteBoard(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Select makes the board the session's current board
func (h *BoardHandler) Select(c *gin.Context) {
	id := c.Param("id")
	if !h.app.SetCurrentBoard(c.Request.Context(), id) {
		if _, ok := h.app.Board(id); !ok {
			respondError(c, service.ErrBoardNotFound)
			return
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "You are not a member of this board"})
		return
	}
	board, _ := h.app.Board(id)
	c.JSON(http.StatusOK, toBoardResponse(board))
}

func (h *BoardHandler) Members(c *gin.Context) {
	board, ok := h.visible(c, c.Param("id"))
	if !ok {
		return
	}

	members := h.app.Members(board.ID)
	response := make([]UserResponse, len(members))
	for i, u := range members {
		response[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, response)
}

// Tasks lists the board's tasks in creation order
func (h *BoardHandler) Tasks(c *gin.Context) {
	board, ok := h.visible(c, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.app.GetTasksForBoard(board.ID))
}

// visible loads a board the current user may look at: members and admins.
// On failure it has already written the response.
func (h *BoardHandler) visible(c *gin.Context, id string) (model.Board, bool) {
	return visibleBoard(c, h.app, id)
}

func visibleBoard(c *gin.Context, app *service.App, id string) (model.Board, bool) {
	user, ok := app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return model.Board{}, false
	}
	board, ok := app.Board(id)
	if !ok {
		respondError(c, service.ErrBoardNotFound)
		return model.Board{}, false
	}
	if !user.IsMember(board.ID) && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this board"})
		return model.Board{}, false
	}
	return board, true
}
