package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/service"
)

// BoardShareHandler раздаёт ссылки-приглашения и принимает коды досок
type BoardShareHandler struct {
	app *service.App
}

func NewBoardShareHandler(app *service.App) *BoardShareHandler {
	return &BoardShareHandler{app: app}
}

// JoinRequest содержит либо код доски, либо ссылку-приглашение
type JoinRequest struct {
	Code string `json:"code"`
	Link string `json:"link"`
}

type LinkResponse struct {
	Code string `json:"code"`
	Link string `json:"link"`
}

// GetLink возвращает ссылку-приглашение на доску
func (h *BoardShareHandler) GetLink(c *gin.Context) {
	board, ok := visibleBoard(c, h.app, c.Param("id"))
	if !ok {
		return
	}

	link, err := h.app.GenerateBoardLink(board.ID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, LinkResponse{Code: board.Code, Link: link})
}

// Join добавляет текущего пользователя в доску по коду или ссылке
func (h *BoardShareHandler) Join(c *gin.Context) {
	var req JoinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	code := req.Code
	if code == "" {
		code = service.CodeFromURL(req.Link)
	}
	if code == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Board code is required"})
		return
	}

	if !h.app.JoinBoardByCode(c.Request.Context(), code) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Board not found"})
		return
	}
	board, _ := h.app.CurrentBoard()
	c.JSON(http.StatusOK, toBoardResponse(board))
}
