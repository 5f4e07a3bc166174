package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	httpHandlers "github.com/studyplanner/core/internal/adapters/http"
	"github.com/studyplanner/core/internal/adapters/repository"
	"github.com/studyplanner/core/internal/application/services"
	"github.com/studyplanner/core/internal/infrastructure/config"
	"github.com/studyplanner/core/internal/infrastructure/database"
	"github.com/studyplanner/core/internal/infrastructure/logger"
	"github.com/studyplanner/core/internal/planner"
	"github.com/studyplanner/core/internal/ports"
	"github.com/studyplanner/core/internal/store"
	"github.com/studyplanner/core/internal/websocket"
)

// Server represents the HTTP server
type Server struct {
	echo   *echo.Echo
	config *config.Config
	logger *logger.Logger
	db     *database.DB
	store  *store.Store
	hub    *websocket.Hub
	coord  *planner.Coordinator
}

// CustomValidator wraps the validator
type CustomValidator struct {
	validator *validator.Validate
}

// Validate validates structs
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

// New creates a new server instance. A nil db runs the planner in
// local-only mode: no hosted mirroring and no account surface.
func New(cfg *config.Config, db *database.DB, st *store.Store, appLogger *logger.Logger) (*Server, error) {
	e := echo.New()

	e.Validator = &CustomValidator{validator: validator.New()}

	e.HideBanner = true
	e.HidePort = true

	e.HTTPErrorHandler = customErrorHandler(appLogger)

	// Domain collections over the local store
	subjects := planner.NewSubjects(st)
	tasks := planner.NewTasks(st)
	exams := planner.NewExams(st)
	lectures := planner.NewLectures(st, subjects)
	settings := planner.NewSettings(st)
	views := planner.NewViews(subjects, tasks, exams, lectures)
	coord := planner.NewCoordinator(st, subjects, tasks, exams, lectures, settings, appLogger)

	// Hosted repositories, wired only when a database is attached
	var (
		userRepo    ports.UserRepository
		subjectRepo ports.SubjectRepository
		taskRepo    ports.TaskRepository
		examRepo    ports.ExamRepository
		lectureRepo ports.LectureRepository
	)
	if db != nil {
		userRepo = repository.NewUserRepository(db.DB)
		subjectRepo = repository.NewSubjectRepository(db.DB)
		taskRepo = repository.NewTaskRepository(db.DB)
		examRepo = repository.NewExamRepository(db.DB)
		lectureRepo = repository.NewLectureRepository(db.DB)
	}

	// Initialize services
	var authService *services.AuthService
	if userRepo != nil {
		authService = services.NewAuthService(userRepo, cfg.JWT, appLogger)
	}
	subjectService := services.NewSubjectService(st, subjects, lectures, coord, subjectRepo, lectureRepo, appLogger)
	taskService := services.NewTaskService(st, tasks, taskRepo, appLogger)
	examService := services.NewExamService(st, exams, examRepo, appLogger)
	lectureService := services.NewLectureService(st, lectures, views, lectureRepo, appLogger)
	calendarService := services.NewCalendarService(views)
	settingsService := services.NewSettingsService(settings)

	// Change feed hub, watching every collection key
	hub := websocket.NewHub(appLogger)
	hub.Watch(st,
		planner.KeySubjects,
		planner.KeyTasks,
		planner.KeyExams,
		planner.KeyLectures,
		planner.KeySectionLabels,
		planner.KeyStatusSettings,
		planner.KeyCompletionStatus,
	)

	// Initialize handlers
	var authHandler *httpHandlers.AuthHandler
	if authService != nil {
		authHandler = httpHandlers.NewAuthHandler(authService, appLogger)
	}
	subjectHandler := httpHandlers.NewSubjectHandler(subjectService, lectureService, appLogger)
	taskHandler := httpHandlers.NewTaskHandler(taskService, appLogger)
	examHandler := httpHandlers.NewExamHandler(examService, appLogger)
	lectureHandler := httpHandlers.NewLectureHandler(lectureService, appLogger)
	calendarHandler := httpHandlers.NewCalendarHandler(calendarService, appLogger)
	settingsHandler := httpHandlers.NewSettingsHandler(settingsService, appLogger)
	wsHandler := httpHandlers.NewWebSocketHandler(hub, appLogger)

	server := &Server{
		echo:   e,
		config: cfg,
		logger: appLogger,
		db:     db,
		store:  st,
		hub:    hub,
		coord:  coord,
	}

	server.setupMiddleware()
	server.setupRoutes(authHandler, subjectHandler, taskHandler, examHandler, lectureHandler, calendarHandler, settingsHandler, wsHandler, authService)

	if cfg.Metrics.Enabled {
		server.setupMetrics()
	}

	return server, nil
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware() {
	s.echo.Use(middleware.Recover())

	s.echo.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:       true,
		LogStatus:    true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		LogRemoteIP:  true,
		LogUserAgent: true,
		LogValuesFunc: func(c echo.Context, values middleware.RequestLoggerValues) error {
			fields := []interface{}{
				"method", values.Method,
				"uri", values.URI,
				"status", values.Status,
				"latency_ms", float64(values.Latency.Nanoseconds()) / 1000000,
				"remote_ip", values.RemoteIP,
				"user_agent", values.UserAgent,
			}

			if values.Error != nil {
				fields = append(fields, "error", values.Error.Error())
				s.logger.Errorw("HTTP request failed", fields...)
			} else {
				s.logger.Infow("HTTP request", fields...)
			}

			return nil
		},
	}))

	s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: strings.Split(s.config.Security.CORSAllowedOrigins, ","),
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowMethods: []string{echo.GET, echo.HEAD, echo.PUT, echo.PATCH, echo.POST, echo.DELETE},
	}))

	s.echo.Use(middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{Rate: rate.Limit(s.config.Security.RateLimitRequests), Burst: s.config.Security.RateLimitRequests, ExpiresIn: s.config.Security.RateLimitWindow},
		),
		IdentifierExtractor: func(ctx echo.Context) (string, error) {
			return ctx.RealIP(), nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(http.StatusForbidden, map[string]string{"message": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(http.StatusTooManyRequests, map[string]string{"message": "rate limit exceeded"})
		},
	}))

	s.echo.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		HSTSMaxAge:            31536000,
		ContentSecurityPolicy: "default-src 'self'",
	}))

	s.echo.Use(middleware.RequestID())

	s.echo.Use(middleware.TimeoutWithConfig(middleware.TimeoutConfig{
		Timeout: 30 * time.Second,
	}))
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(authHandler *httpHandlers.AuthHandler, subjectHandler *httpHandlers.SubjectHandler, taskHandler *httpHandlers.TaskHandler, examHandler *httpHandlers.ExamHandler, lectureHandler *httpHandlers.LectureHandler, calendarHandler *httpHandlers.CalendarHandler, settingsHandler *httpHandlers.SettingsHandler, wsHandler *httpHandlers.WebSocketHandler, authService *services.AuthService) {
	// Root welcome endpoint; non-GET methods get an explicit 405 body
	s.echo.Any("/", httpHandlers.Welcome)

	// Health check routes
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/health/detailed", s.detailedHealthCheck)
	s.echo.GET("/ready", s.readinessCheck)

	// Change feed
	s.echo.GET("/ws", wsHandler.Subscribe)

	// API v1 routes
	v1 := s.echo.Group("/api/v1")

	auth := s.authMiddleware(authService)

	// Auth routes, only with a hosted backend attached
	if authHandler != nil {
		authGroup := v1.Group("/auth")
		authGroup.POST("/signup", authHandler.SignUp)
		authGroup.POST("/signin", authHandler.SignIn)
		authGroup.POST("/signout", authHandler.SignOut, auth)
		authGroup.POST("/forgot-password", authHandler.ForgotPassword)
		authGroup.POST("/reset-password", authHandler.ResetPassword)
		authGroup.POST("/change-password", authHandler.ChangePassword, auth)
		authGroup.GET("/me", authHandler.GetCurrentUser, auth)
		authGroup.PUT("/me", authHandler.UpdateProfile, auth)
	}

	// Subject routes, sections and statuses nested under their subject
	subjectGroup := v1.Group("/subjects", auth)
	subjectGroup.GET("", subjectHandler.ListSubjects)
	subjectGroup.POST("", subjectHandler.CreateSubject)
	subjectGroup.GET("/:id", subjectHandler.GetSubject)
	subjectGroup.PUT("/:id", subjectHandler.UpdateSubject)
	subjectGroup.DELETE("/:id", subjectHandler.DeleteSubject)
	subjectGroup.GET("/:id/progress", subjectHandler.GetSubjectProgress)
	subjectGroup.POST("/:id/sections", subjectHandler.AddSection)
	subjectGroup.PUT("/:id/sections/:sectionId", subjectHandler.RenameSection)
	subjectGroup.DELETE("/:id/sections/:sectionId", subjectHandler.DeleteSection)
	subjectGroup.POST("/:id/statuses", subjectHandler.AddStatus)
	subjectGroup.PUT("/:id/statuses/:name", subjectHandler.RecolorStatus)
	subjectGroup.DELETE("/:id/statuses/:name", subjectHandler.DeleteStatus)

	// Task routes
	taskGroup := v1.Group("/tasks", auth)
	taskGroup.GET("", taskHandler.ListTasks)
	taskGroup.POST("", taskHandler.CreateTask)
	taskGroup.PUT("/:id", taskHandler.UpdateTask)
	taskGroup.POST("/:id/toggle", taskHandler.ToggleTask)
	taskGroup.DELETE("/:id", taskHandler.DeleteTask)

	// Exam routes
	examGroup := v1.Group("/exams", auth)
	examGroup.GET("", examHandler.ListExams)
	examGroup.POST("", examHandler.CreateExam)
	examGroup.PUT("/:id", examHandler.UpdateExam)
	examGroup.DELETE("/:id", examHandler.DeleteExam)

	// Lecture routes
	lectureGroup := v1.Group("/lectures", auth)
	lectureGroup.GET("", lectureHandler.ListLectures)
	lectureGroup.POST("", lectureHandler.CreateLecture)
	lectureGroup.PUT("/:id", lectureHandler.UpdateLecture)
	lectureGroup.POST("/:id/cycle-status", lectureHandler.CycleStatus)
	lectureGroup.POST("/:id/cycle-completion", lectureHandler.CycleCompletion)
	lectureGroup.DELETE("/:id", lectureHandler.DeleteLecture)

	// Calendar routes
	calendarGroup := v1.Group("/calendar", auth)
	calendarGroup.GET("/events", calendarHandler.ListEvents)
	calendarGroup.GET("/subjects/:id", calendarHandler.ResolveSubject)

	// Settings routes
	settingsGroup := v1.Group("/settings", auth)
	settingsGroup.GET("/statuses", settingsHandler.GetStatusSettings)
	settingsGroup.PUT("/statuses/:key", settingsHandler.SetStatusSetting)
	settingsGroup.DELETE("/statuses/:key", settingsHandler.RemoveStatusSetting)
	settingsGroup.GET("/completion", settingsHandler.GetCompletionSettings)
	settingsGroup.GET("/sections", settingsHandler.GetSectionLabels)
	settingsGroup.POST("/sections", settingsHandler.AddSectionLabel)
}

// setupMetrics configures Prometheus metrics
func (s *Server) setupMetrics() {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	requestDuration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	feedClients := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Name: "change_feed_clients",
			Help: "Connected change feed clients",
		},
		func() float64 { return float64(s.hub.ClientCount()) },
	)

	registry.MustRegister(requestsTotal, requestDuration, feedClients)

	s.echo.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			duration := time.Since(start)
			status := c.Response().Status

			requestsTotal.WithLabelValues(
				c.Request().Method,
				c.Path(),
				fmt.Sprintf("%d", status),
			).Inc()

			requestDuration.WithLabelValues(
				c.Request().Method,
				c.Path(),
			).Observe(duration.Seconds())

			return err
		}
	})

	metricsHandler := promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
	s.echo.GET("/metrics", echo.WrapHandler(metricsHandler))
}

// authMiddleware validates bearer tokens. Without an auth service the
// planner runs local-only and unauthenticated, so the middleware passes
// requests straight through.
func (s *Server) authMiddleware(authService *services.AuthService) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if authService == nil {
				return next(c)
			}

			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization header")
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid authorization header format")
			}

			claims, err := authService.ValidateToken(parts[1])
			if err != nil {
				s.logger.Warnw("Invalid token", "error", err, "ip", c.RealIP())
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
			}

			c.Set("user", claims.UserID)
			c.Set("user_email", claims.Email)

			return next(c)
		}
	}
}

// Health check handlers
func (s *Server) healthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) detailedHealthCheck(c echo.Context) error {
	status := "ok"
	checks := make(map[string]interface{})

	// Local store check
	if err := s.store.LastError(); err != nil {
		status = "error"
		checks["store"] = map[string]interface{}{
			"status": "error",
			"error":  err.Error(),
		}
	} else {
		checks["store"] = map[string]interface{}{
			"status": "ok",
			"keys":   s.store.Keys(),
		}
	}

	// Hosted database check, when attached
	if s.db != nil {
		if err := s.db.HealthCheck(); err != nil {
			status = "error"
			checks["database"] = map[string]interface{}{
				"status": "error",
				"error":  err.Error(),
			}
		} else {
			checks["database"] = map[string]interface{}{
				"status": "ok",
				"stats":  s.db.GetConnectionInfo(),
			}
		}
	}

	checks["change_feed"] = map[string]interface{}{
		"status":  "ok",
		"clients": s.hub.ClientCount(),
	}

	response := map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC().Format(time.RFC3339),
		"checks": checks,
		"version": map[string]string{
			"app": s.config.App.Version,
			"go":  "1.21",
		},
	}

	if status == "ok" {
		return c.JSON(http.StatusOK, response)
	}
	return c.JSON(http.StatusServiceUnavailable, response)
}

func (s *Server) readinessCheck(c echo.Context) error {
	if s.db != nil {
		if err := s.db.Ping(); err != nil {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{
				"status": "not_ready",
				"reason": "database_not_ready",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "ready",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// Start starts the HTTP server and the change feed hub
func (s *Server) Start(address string) error {
	go s.hub.Run()
	s.logger.Infow("Starting server", "address", address)
	return s.echo.Start(address)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Infow("Shutting down server")
	s.hub.Close()
	s.coord.Close()
	return s.echo.Shutdown(ctx)
}

// customErrorHandler handles HTTP errors
func customErrorHandler(logger *logger.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		var (
			code = http.StatusInternalServerError
			msg  interface{}
		)

		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = he.Message
			if he.Internal != nil {
				err = fmt.Errorf("%v, %v", err, he.Internal)
			}
		} else if e, ok := err.(*validator.ValidationErrors); ok {
			code = http.StatusBadRequest
			msg = map[string]string{"message": "validation failed", "details": e.Error()}
		} else {
			msg = map[string]string{"message": http.StatusText(code)}
		}

		if code == http.StatusInternalServerError {
			logger.Errorw("Internal server error", "error", err, "path", c.Request().URL.Path)
		}

		if !c.Response().Committed {
			if c.Request().Method == echo.HEAD {
				err = c.NoContent(code)
			} else {
				err = c.JSON(code, msg)
			}
			if err != nil {
				logger.Errorw("Error sending response", "error", err)
			}
		}
	}
}
