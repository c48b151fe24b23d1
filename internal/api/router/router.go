package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"uni-scheduler/backend/config"
	"uni-scheduler/backend/internal/api/handler"
	"uni-scheduler/backend/internal/api/middleware"
	"uni-scheduler/backend/pkg/redis"
)

// Pinger 健康检查依赖
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时限流退化为进程内令牌桶
func Setup(cfg *config.Config, h *handler.Handler, db Pinger, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	var window middleware.SlidingWindow
	if rdb != nil {
		window = rdb
	}

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimitBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.Ping(ctx); err != nil {
			logger.Warn("健康检查失败", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up", "redis": rdb != nil})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RateLimit(window, cfg.Scheduler.RateLimitPerMinute, time.Minute, logger))
	{
		// 排课记录
		placements := v1.Group("/placements")
		{
			placements.GET("", h.Placement.ListPlacements)
			placements.GET("/:id", h.Placement.GetPlacement)
			placements.POST("", h.Placement.CreatePlacement)
			placements.PUT("/:id", h.Placement.UpdatePlacement)
			placements.DELETE("/:id", h.Placement.DeletePlacement)
		}

		// 冲突查询
		conflicts := v1.Group("/conflicts")
		{
			conflicts.GET("/rooms", h.Conflict.RoomConflicts)
			conflicts.GET("/professors", h.Conflict.ProfessorConflicts)
		}

		// 自动排课
		schedules := v1.Group("/schedules")
		{
			schedules.POST("/generate", h.Generation.Generate)
		}
	}

	return r
}
