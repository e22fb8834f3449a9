package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"taskboard/internal/model"
	"taskboard/internal/service"
)

type TaskHandler struct {
	app *service.App
}

func NewTaskHandler(app *service.App) *TaskHandler {
	return &TaskHandler{app: app}
}

// CommentRequest представляет запрос на добавление комментария
type CommentRequest struct {
	Content string `json:"content"`
}

// Create создает новую задачу на указанной или текущей доске
func (h *TaskHandler) Create(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	task, err := h.app.AddTask(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, task)
}

// GetByID получает задачу по ID
func (h *TaskHandler) GetByID(c *gin.Context) {
	task, ok := visibleTask(c, h.app, c.Param("id"))
	if !ok {
		return
	}
	c.JSON(http.StatusOK, task)
}

// GetCurrent возвращает задачи текущей доски
func (h *TaskHandler) GetCurrent(c *gin.Context) {
	c.JSON(http.StatusOK, h.app.CurrentBoardTasks())
}

// Update частично обновляет задачу
func (h *TaskHandler) Update(c *gin.Context) {
	var req service.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	task, err := h.app.UpdateTask(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, task)
}

// Delete удаляет задачу
func (h *TaskHandler) Delete(c *gin.Context) {
	if err := h.app.DeleteTask(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddComment добавляет комментарий к задаче
func (h *TaskHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	comment, err := h.app.AddComment(c.Request.Context(), c.Param("id"), req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

// visibleTask загружает задачу, если текущий пользователь состоит в её доске
// или является администратором. При ошибке ответ уже записан.
func visibleTask(c *gin.Context, app *service.App, id string) (model.Task, bool) {
	user, ok := app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return model.Task{}, false
	}
	task, ok := app.Task(id)
	if !ok {
		respondError(c, service.ErrTaskNotFound)
		return model.Task{}, false
	}
	if !user.IsMember(task.BoardID) && !user.IsAdmin() {
		c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to view this task"})
		return model.Task{}, false
	}
	return task, true
}
