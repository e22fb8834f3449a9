package handler

import (
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

// ColumnHandler отдаёт доску в виде колонок по статусам задач
type ColumnHandler struct {
	app *service.App
}

func NewColumnHandler(app *service.App) *ColumnHandler {
	return &ColumnHandler{app: app}
}

// columns задаёт порядок и заголовки колонок доски
var columns = []struct {
	Status string
	Title  string
}{
	{model.StatusCreated, "Created"},
	{model.StatusInProgress, "In progress"},
	{model.StatusCompleted, "Completed"},
}

type ColumnResponse struct {
	Status string       `json:"status"`
	Title  string       `json:"title"`
	Tasks  []model.Task `json:"tasks"`
}

// TaskMoveRequest представляет запрос на перемещение задачи в другую колонку
type TaskMoveRequest struct {
	Status string `json:"status" binding:"required,oneof=created in-progress completed"`
}

// GetAll группирует задачи доски по статусу; закреплённые задачи идут первыми
func (h *ColumnHandler) GetAll(c *gin.Context) {
	board, ok := visibleBoard(c, h.app, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, groupByStatus(h.app.GetTasksForBoard(board.ID)))
}

// MoveTask меняет статус задачи
func (h *ColumnHandler) MoveTask(c *gin.Context) {
	var req TaskMoveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	task, err := h.app.UpdateTask(c.Request.Context(), c.Param("id"), service.UpdateTaskRequest{Status: &req.Status})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

func groupByStatus(tasks []model.Task) []ColumnResponse {
	out := make([]ColumnResponse, len(columns))
	for i, col := range columns {
		out[i] = ColumnResponse{Status: col.Status, Title: col.Title, Tasks: []model.Task{}}
		for _, t := range tasks {
			if t.Status == col.Status {
				out[i].Tasks = append(out[i].Tasks, t)
			}
		}
		slices.SortStableFunc(out[i].Tasks, func(x, y model.Task) int {
			switch {
			case x.IsPinned == y.IsPinned:
				return 0
			case x.IsPinned:
				return -1
			}
			return 1
		})
	}
	return out
}
