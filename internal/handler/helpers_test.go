package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/handler"
	"taskboard/internal/repository"
	"taskboard/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// Мок хранилища вложений
type MockBlobStore struct {
	mock.Mock
}

func (m *MockBlobStore) Put(ctx context.Context, data []byte) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *MockBlobStore) Get(ctx context.Context, ref string) ([]byte, error) {
	args := m.Called(ctx, ref)
	data := args.Get(0)
	if data == nil {
		return nil, args.Error(1)
	}
	return data.([]byte), args.Error(1)
}

type testEnv struct {
	router *gin.Engine
	app    *service.App
	tokens *auth.Manager
	blobs  *MockBlobStore
}

func setupTest(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	logger := zaptest.NewLogger(t)

	gw := repository.NewGateway(repository.NewMemorySnapshotRepository(), "", logger)
	app, err := service.Open(context.Background(), gw, service.Options{Logger: logger, SeedDemo: true})
	require.NoError(t, err)

	env := &testEnv{
		router: gin.New(),
		app:    app,
		tokens: auth.NewManager("test-secret", time.Hour),
		blobs:  new(MockBlobStore),
	}

	users := handler.NewUserHandler(app, env.tokens, logger)
	boards := handler.NewBoardHandler(app)
	shares := handler.NewBoardShareHandler(app)
	columns := handler.NewColumnHandler(app)
	tasks := handler.NewTaskHandler(app)
	files := handler.NewAttachmentHandler(app, env.blobs, logger)
	notes := handler.NewNotificationHandler(app)

	r := env.router
	r.POST("/register", users.Register)
	r.POST("/login", users.Login)
	r.POST("/login/demo", users.DemoLogin)
	r.GET("/credentials", users.SavedCredentials)
	r.POST("/logout", users.Logout)
	r.GET("/session", users.Session)
	r.GET("/users", users.GetAll)
	r.POST("/users", users.Create)
	r.PUT("/users/:id", users.Update)
	r.DELETE("/users/:id", users.Delete)
	r.GET("/users/:id/stats", users.Stats)
	r.POST("/boards", boards.Create)
	r.GET("/boards", boards.GetAll)
	r.GET("/boards/:id", boards.GetByID)
	r.DELETE("/boards/:id", boards.Delete)
	r.POST("/boards/:id/select", boards.Select)
	r.GET("/boards/:id/tasks", boards.Tasks)
	r.GET("/boards/:id/link", shares.GetLink)
	r.POST("/boards/join", shares.Join)
	r.GET("/boards/:id/columns", columns.GetAll)
	r.POST("/tasks", tasks.Create)
	r.GET("/tasks/:id", tasks.GetByID)
	r.PUT("/tasks/:id", tasks.Update)
	r.DELETE("/tasks/:id", tasks.Delete)
	r.POST("/tasks/:id/move", columns.MoveTask)
	r.POST("/tasks/:id/comments", tasks.AddComment)
	r.POST("/tasks/:id/attachments", files.Upload)
	r.GET("/tasks/:id/attachments/:attachmentId", files.Download)
	r.POST("/tasks/:id/voice", files.UploadVoice)
	r.GET("/notifications", notes.GetAll)
	r.POST("/notifications/:id/read", notes.MarkRead)
	r.POST("/notifications/read-all", notes.MarkAllRead)
	return env
}

func (e *testEnv) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req, _ := http.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func (e *testEnv) upload(path, filename string, content []byte, fields map[string]string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		_ = w.WriteField(k, v)
	}
	part, _ := w.CreateFormFile("file", filename)
	_, _ = part.Write(content)
	_ = w.Close()

	req, _ := http.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decode[T any](t *testing.T, resp *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &out), resp.Body.String())
	return out
}

func registerBody(username string) handler.RegisterRequest {
	return handler.RegisterRequest{RegisterRequest: service.RegisterRequest{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password1",
		FirstName: "Test",
		LastName:  "User",
	}}
}
