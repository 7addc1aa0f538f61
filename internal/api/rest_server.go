package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/annel0/voxel-terrain/internal/engine"
	"github.com/annel0/voxel-terrain/internal/logging"
	"github.com/annel0/voxel-terrain/internal/middleware"
)

// World доступ к движку из HTTP-горутин. Реализуется *engine.Engine.
type World interface {
	Do(ctx context.Context, fn func(*engine.Engine) error) error
}

// RestServer административный REST API мира
type RestServer struct {
	router  *gin.Engine
	world   World
	server  *http.Server
	metrics *ServerMetrics
	timeout time.Duration
	logger  *logging.Logger
}

// Config содержит конфигурацию для REST сервера
type Config struct {
	Port  string // порт для запуска сервера, ":8088"
	World World
	// Registry регистр для HTTP-метрик и /metrics; nil - дефолтный
	Registry *prometheus.Registry
	// Timeout ожидание горутины мира на один запрос
	Timeout time.Duration
}

// GenericResponse представляет общий ответ API
type GenericResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewRestServer создает новый REST API сервер
func NewRestServer(config Config) *RestServer {
	if config.Port == "" {
		config.Port = ":8088"
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}

	router := gin.New()
	router.Use(gin.Recovery())

	// === Observability middleware ===
	router.Use(otelgin.Middleware("voxel_api"))
	router.Use(middleware.NewRequestLogger().Handler())

	promMw := middleware.NewPrometheusMiddleware("voxel_api", config.Registry)
	router.Use(promMw.Handler())
	promMw.RegisterMetricsEndpoint(router)

	rs := &RestServer{
		router:  router,
		world:   config.World,
		metrics: NewServerMetrics(),
		timeout: config.Timeout,
		logger:  logging.GetServerLogger(),
	}
	rs.server = &http.Server{
		Addr:              config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	rs.setupRoutes()
	return rs
}

// Handler http.Handler сервера (для тестов и встраивания)
func (rs *RestServer) Handler() http.Handler {
	return rs.router
}

// setupRoutes настраивает маршруты REST API
func (rs *RestServer) setupRoutes() {
	rs.router.GET("/health", rs.handleHealth)

	v1 := rs.router.Group("/api/v1")
	{
		v1.GET("/server", rs.handleServerInfo)

		v1.GET("/blocks/:x/:y/:z", rs.handleGetBlock)
		v1.PUT("/blocks/:x/:y/:z", rs.handleSetBlock)

		v1.GET("/chunks/:cx/:cz", rs.handleGetChunk)
		v1.POST("/chunks/:cx/:cz/request", rs.handleRequestChunk)

		world := v1.Group("/world")
		world.POST("/save", rs.handleSave)
		world.DELETE("", rs.handleReset)
		world.GET("/export", rs.handleExport)
		world.POST("/import", rs.handleImport)
	}
}

// do выполняет fn в горутине мира с таймаутом запроса
func (rs *RestServer) do(c *gin.Context, fn func(*engine.Engine) error) error {
	ctx, cancel := context.WithTimeout(c.Request.Context(), rs.timeout)
	defer cancel()
	return rs.world.Do(ctx, fn)
}

// fail пишет ответ об ошибке обращения к миру
func (rs *RestServer) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, engine.ErrStopped):
		status = http.StatusServiceUnavailable
	case errors.Is(err, context.DeadlineExceeded):
		status = http.StatusGatewayTimeout
	}
	rs.logger.Warn("Запрос %s %s: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(status, GenericResponse{Success: false, Message: err.Error()})
}

// handleHealth проверка состояния сервера
func (rs *RestServer) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// handleServerInfo метрики процесса и сводка мира
func (rs *RestServer) handleServerInfo(c *gin.Context) {
	var stats engine.Stats
	if err := rs.do(c, func(e *engine.Engine) error {
		stats = e.Stats()
		return nil
	}); err != nil {
		rs.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, GenericResponse{
		Success: true,
		Message: "Информация о сервере",
		Data: gin.H{
			"name":    "voxel-terrain",
			"process": rs.metrics.Snapshot(),
			"world":   stats,
		},
	})
}

// Start запускает REST сервер и блокируется до Stop
func (rs *RestServer) Start() error {
	rs.logger.Info("🌐 REST API слушает %s", rs.server.Addr)
	if err := rs.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("rest api: %w", err)
	}
	return nil
}

// Stop плавно останавливает REST сервер
func (rs *RestServer) Stop(ctx context.Context) error {
	return rs.server.Shutdown(ctx)
}
