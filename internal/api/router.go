package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/studiable/studyspots-backend-go/internal/config"
	"github.com/studiable/studyspots-backend-go/internal/handler"
	"github.com/studiable/studyspots-backend-go/internal/middleware"
)

// Handlers 路由依赖的全部处理器
type Handlers struct {
	Spots   *handler.SpotHandler
	Geocode *handler.GeocodeHandler
	Saved   *handler.SavedHandler
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"message": "Study Spots API is running",
		})
	})

	// API 路由组
	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(60, time.Minute))
	{
		// 自习地点搜索
		api.POST("/spots/search", h.Spots.Search)

		// 地理编码与地址联想
		api.POST("/geocode", h.Geocode.Geocode)
		api.POST("/autocomplete", h.Geocode.Autocomplete)

		// 收藏地点（需要登录）
		saved := api.Group("/saved")
		saved.Use(middleware.RequireAuth(cfg.JWTSecret))
		{
			saved.POST("", h.Saved.Save)
			saved.GET("", h.Saved.List)
			saved.DELETE("/:id", h.Saved.Delete)
		}
	}

	return r
}
