package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskboard/internal/auth"
	"taskboard/internal/model"
	"taskboard/internal/service"
)

type UserHandler struct {
	app    *service.App
	tokens *auth.Manager
	logger *zap.Logger
}

func NewUserHandler(app *service.App, tokens *auth.Manager, logger *zap.Logger) *UserHandler {
	return &UserHandler{app: app, tokens: tokens, logger: logger}
}

// RegisterRequest is the sign-up form; BoardCode optionally joins a board.
type RegisterRequest struct {
	service.RegisterRequest
	BoardCode string `json:"boardCode"`
}

type LoginRequest struct {
	Username  string `json:"username" binding:"required"`
	Password  string `json:"password" binding:"required"`
	BoardCode string `json:"boardCode"`
	Remember  bool   `json:"remember"`
}

type DemoLoginRequest struct {
	Role string `json:"role" binding:"required,oneof=admin user"`
}

type UserResponse struct {
	ID         string   `json:"id"`
	Username   string   `json:"username"`
	Email      string   `json:"email"`
	FirstName  string   `json:"firstName"`
	LastName   string   `json:"lastName"`
	Patronymic string   `json:"patronymic,omitempty"`
	Role       string   `json:"role"`
	BoardIDs   []string `json:"boardIds"`
	Avatar     string   `json:"avatar,omitempty"`
	CreatedAt  string   `json:"createdAt"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

type SessionResponse struct {
	User               UserResponse   `json:"user"`
	CurrentBoard       *BoardResponse `json:"currentBoard"`
	UnreadCount        int            `json:"unreadCount"`
	ActiveTaskCount    int            `json:"activeTaskCount"`
	PersistenceWarning string         `json:"persistenceWarning,omitempty"`
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:         u.ID,
		Username:   u.Username,
		Email:      u.Email,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Patronymic: u.Patronymic,
		Role:       u.Role,
		BoardIDs:   u.BoardIDs,
		Avatar:     u.Avatar,
		CreatedAt:  u.CreatedAt.Format(time.RFC3339),
	}
}

// issue signs a token for u and writes the auth response.
func (h *UserHandler) issue(c *gin.Context, status int, u model.User) {
	token, err := h.tokens.GenerateToken(u.ID)
	if err != nil {
		h.logger.Error("token signing failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}
	c.JSON(status, AuthResponse{Token: token, User: toUserResponse(u)})
}

func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.app.Register(c.Request.Context(), req.RegisterRequest, req.BoardCode)
	if err != nil {
		respondError(c, err)
		return
	}
	h.issue(c, http.StatusCreated, user)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if !h.app.Login(c.Request.Context(), req.Username, req.Password, req.BoardCode) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}
	if req.Remember {
		h.app.RememberCredentials(c.Request.Context(), req.Username, req.Password)
	}

	user, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	h.issue(c, http.StatusOK, user)
}

// DemoLogin signs in as one of the seeded demo accounts.
func (h *UserHandler) DemoLogin(c *gin.Context) {
	var req DemoLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	if !h.app.DemoLogin(c.Request.Context(), req.Role) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Demo accounts are not available"})
		return
	}
	user, _ := h.app.CurrentUser()
	h.issue(c, http.StatusOK, user)
}

func (h *UserHandler) Logout(c *gin.Context) {
	h.app.Logout(c.Request.Context())
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) Session(c *gin.Context) {
	user, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}

	resp := SessionResponse{
		User:            toUserResponse(user),
		UnreadCount:     h.app.UnreadCount(user.ID),
		ActiveTaskCount: h.app.ActiveTaskCount(),
	}
	if board, ok := h.app.CurrentBoard(); ok {
		br := toBoardResponse(board)
		resp.CurrentBoard = &br
	}
	if err := h.app.PersistenceWarning(); err != nil {
		resp.PersistenceWarning = "Changes could not be saved: " + err.Error()
	}
	c.JSON(http.StatusOK, resp)
}

// SavedCredentials returns the remembered login form, if any.
func (h *UserHandler) SavedCredentials(c *gin.Context) {
	creds, ok := h.app.SavedCredentials()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No saved credentials"})
		return
	}
	c.JSON(http.StatusOK, creds)
}

func (h *UserHandler) ClearSavedCredentials(c *gin.Context) {
	h.app.ClearSavedCredentials(c.Request.Context())
	c.Status(http.StatusNoContent)
}

// GetAll lists every account. Admin only.
func (h *UserHandler) GetAll(c *gin.Context) {
	actor, ok := h.app.CurrentUser()
	if !ok {
		respondError(c, service.ErrNotAuthenticated)
		return
	}
	if !actor.IsAdmin() {
		respondError(c, service.ErrForbidden)
		return
	}

	users := h.app.Users()
	response := make([]UserResponse, len(users))
	for i, u := range users {
		response[i] = toUserResponse(u)
	}
	c.JSON(http.StatusOK, response)
}

func (h *UserHandler) Create(c *gin.Context) {
	var req service.AddUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.app.AddUser(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toUserResponse(user))
}

func (h *UserHandler) Update(c *gin.Context) {
	var req service.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}

	user, err := h.app.UpdateUser(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toUserResponse(user))
}

func (h *UserHandler) Delete(c *gin.Context) {
	if err := h.app.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Stats counts the user's tasks on the board given by ?boardId, defaulting
// to the current board.
func (h *UserHandler) Stats(c *gin.Context) {
	userID := c.Param("id")
	if _, ok := h.app.User(userID); !ok {
		respondError(c, service.ErrUserNotFound)
		return
	}

	boardID := c.Query("boardId")
	if boardID == "" {
		boardID = h.app.Session().CurrentBoardID
	}
	c.JSON(http.StatusOK, h.app.UserStats(userID, boardID))
}
