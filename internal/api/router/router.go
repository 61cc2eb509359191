package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"seatplan-pro/config"
	"seatplan-pro/internal/api/handler"
	"seatplan-pro/internal/api/middleware"
	"seatplan-pro/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
// rdb 为 nil 时生成接口不限流；db 为 nil 时健康检查跳过数据库探测
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.BodyLimit))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}
	generateLimit := middleware.RateLimit(limiter, cfg.RateLimit.GeneratePerMinute, time.Minute, logger)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 基础数据
		v1.GET("/departments", h.Catalog.ListDepartments)
		v1.GET("/buildings", h.Catalog.ListBuildings)
		v1.GET("/rooms", h.Catalog.ListRooms)

		invigilators := v1.Group("/invigilators")
		{
			invigilators.GET("", h.Catalog.ListInvigilators)
			invigilators.POST("/upload", h.Catalog.UploadInvigilators)
		}

		students := v1.Group("/students")
		{
			students.GET("", h.Catalog.ListStudents)
			students.POST("/upload", h.Catalog.UploadStudents)
			students.POST("/import", h.Catalog.ImportStudents)
		}

		// 考试
		exams := v1.Group("/exams")
		{
			exams.GET("", h.Exam.ListExams)
			exams.POST("", h.Exam.CreateExam)
			exams.GET("/:id", h.Exam.GetExam)
			exams.PUT("/:id", h.Exam.UpdateExam)
			exams.DELETE("/:id", h.Exam.DeleteExam)

			// 座位编排
			exams.POST("/:id/generate-seats", generateLimit, h.SeatPlan.GenerateSeats)
			exams.GET("/:id/seat-chart", h.SeatPlan.ExportSeatChart)
			exams.GET("/:id/duty-calendar", h.SeatPlan.ExportDutyCalendar)
		}

		v1.GET("/exam-rooms/:examId", h.SeatPlan.GetExamRooms)
	}

	return r
}

// healthCheck 探测数据库连通性；Redis 为可选依赖，仅报告状态
func healthCheck(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := gin.H{"status": "ok", "redis": rdb != nil}

		if db != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status["status"] = "degraded"
				status["database"] = err.Error()
				c.JSON(http.StatusServiceUnavailable, status)
				return
			}
		}

		c.JSON(http.StatusOK, status)
	}
}
