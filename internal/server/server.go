package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"taskboard/internal/auth"
	"taskboard/internal/blob"
	"taskboard/internal/config"
	"taskboard/internal/handler"
	"taskboard/internal/metrics"
	"taskboard/internal/middleware"
	"taskboard/internal/repository"
	"taskboard/internal/service"
)

type Server struct {
	Engine *gin.Engine
	App    *service.App
	Config *config.Config

	logger *zap.Logger
	close  func() error
}

// Init wires storage, the state container and the HTTP routes.
func Init(cfg *config.Config, logger *zap.Logger) (*Server, error) {
	ctx := context.Background()

	repo, closeRepo, err := repository.Open(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("open %s storage: %w", cfg.StorageBackend, err)
	}
	logger.Info("storage ready", zap.String("backend", repo.Name()))
	gateway := repository.NewGateway(repo, cfg.SnapshotKey, logger)

	blobs, err := openBlobs(cfg)
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)
	m.WatchPersistence(reg, gateway)

	app, err := service.Open(ctx, gateway, Options(cfg, logger, m))
	if err != nil {
		_ = closeRepo()
		return nil, err
	}

	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.JWTExpiryHours)*time.Hour)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(logger.Named("http")))
	registerRoutes(r, app, tokens, blobs, logger)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine: r,
		App:    app,
		Config: cfg,
		logger: logger,
		close:  closeRepo,
	}, nil
}

// openBlobs keeps uploaded bytes in memory when the snapshot itself is not durable.
func openBlobs(cfg *config.Config) (blob.Store, error) {
	if cfg.StorageBackend == "memory" {
		return blob.NewMemoryStore(), nil
	}
	return blob.NewDirStore(cfg.BlobDir)
}

// Options maps configuration onto the state container's options.
func Options(cfg *config.Config, logger *zap.Logger, m *metrics.Metrics) service.Options {
	opts := service.Options{
		Logger:          logger,
		Metrics:         m,
		BaseURL:         cfg.BaseURL,
		DedupWindow:     cfg.DedupWindow,
		DeadlineWarning: cfg.DeadlineWarning,
		SeedDemo:        cfg.SeedDemo,
	}
	if cfg.HashPasswords {
		opts.Passwords = service.BcryptPasswords{}
	}
	return opts
}

func registerRoutes(r *gin.Engine, app *service.App, tokens *auth.Manager, blobs blob.Store, logger *zap.Logger) {
	userHandler := handler.NewUserHandler(app, tokens, logger)
	boardHandler := handler.NewBoardHandler(app)
	boardShareHandler := handler.NewBoardShareHandler(app)
	columnHandler := handler.NewColumnHandler(app)
	taskHandler := handler.NewTaskHandler(app)
	attachmentHandler := handler.NewAttachmentHandler(app, blobs, logger)
	notificationHandler := handler.NewNotificationHandler(app)

	r.GET("/healthz", func(c *gin.Context) {
		status := gin.H{"status": "ok"}
		if err := app.PersistenceWarning(); err != nil {
			status["persistence"] = err.Error()
		}
		c.JSON(http.StatusOK, status)
	})

	// Public routes
	r.POST("/register", userHandler.Register)
	r.POST("/login", userHandler.Login)
	r.POST("/login/demo", userHandler.DemoLogin)
	r.GET("/credentials", userHandler.SavedCredentials)
	r.DELETE("/credentials", userHandler.ClearSavedCredentials)

	// Protected routes - require a token of the logged-in user
	authorized := r.Group("/")
	authorized.Use(middleware.JWTAuthMiddleware(tokens), middleware.RequireSession(app))
	{
		authorized.POST("/logout", userHandler.Logout)
		authorized.GET("/session", userHandler.Session)

		// User routes
		authorized.GET("/users", userHandler.GetAll)
		authorized.POST("/users", userHandler.Create)
		authorized.PUT("/users/:id", userHandler.Update)
		authorized.DELETE("/users/:id", userHandler.Delete)
		authorized.GET("/users/:id/stats", userHandler.Stats)

		// Board routes
		authorized.POST("/boards", boardHandler.Create)
		authorized.GET("/boards", boardHandler.GetAll)
		authorized.GET("/boards/:id", boardHandler.GetByID)
		authorized.DELETE("/boards/:id", boardHandler.Delete)
		authorized.POST("/boards/:id/select", boardHandler.Select)
		authorized.GET("/boards/:id/members", boardHandler.Members)
		authorized.GET("/boards/:id/tasks", boardHandler.Tasks)
		authorized.GET("/boards/:id/columns", columnHandler.GetAll)

		// Board sharing routes
		authorized.GET("/boards/:id/link", boardShareHandler.GetLink)
		authorized.POST("/boards/join", boardShareHandler.Join)

		// Task routes
		authorized.POST("/tasks", taskHandler.Create)
		authorized.GET("/tasks", taskHandler.GetCurrent)
		authorized.GET("/tasks/:id", taskHandler.GetByID)
		authorized.PUT("/tasks/:id", taskHandler.Update)
		authorized.DELETE("/tasks/:id", taskHandler.Delete)
		authorized.POST("/tasks/:id/move", columnHandler.MoveTask)
		authorized.POST("/tasks/:id/comments", taskHandler.AddComment)

		// Attachment routes
		authorized.POST("/tasks/:id/attachments", attachmentHandler.Upload)
		authorized.GET("/tasks/:id/attachments/:attachmentId", attachmentHandler.Download)
		authorized.DELETE("/tasks/:id/attachments/:attachmentId", attachmentHandler.Remove)
		authorized.POST("/tasks/:id/voice", attachmentHandler.UploadVoice)
		authorized.GET("/tasks/:id/voice/:voiceId", attachmentHandler.DownloadVoice)
		authorized.DELETE("/tasks/:id/voice/:voiceId", attachmentHandler.RemoveVoice)

		// Notification routes
		authorized.GET("/notifications", notificationHandler.GetAll)
		authorized.GET("/notifications/unread", notificationHandler.UnreadCount)
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead)
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead)
	}
}

// sweepDeadlines checks task deadlines every interval until ctx ends.
func (s *Server) sweepDeadlines(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := s.App.SweepDeadlines(ctx); n > 0 {
				s.logger.Info("deadline warnings sent", zap.Int("count", n))
			}
		}
	}
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:              ":" + s.Config.ServerPort,
		Handler:           s.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	go s.sweepDeadlines(ctx, s.Config.SweepInterval)

	go func() {
		s.logger.Info("server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Fatal("failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.logger.Info("shutting down server")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server forced to shutdown", zap.Error(err))
	}
	if err := s.close(); err != nil {
		s.logger.Warn("closing storage failed", zap.Error(err))
	}

	s.logger.Info("server exited properly")
}
