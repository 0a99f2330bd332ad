package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/session"
	"english_admin/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

// HealthController DB 与 Redis 只在登录态存放于其中时才检查
type HealthController struct {
	DB     *gorm.DB
	Redis  *redis.Client
	Store  *session.Store
	Client *api.Client
}

func NewHealthController(db *gorm.DB, rdb *redis.Client, store *session.Store, client *api.Client) *HealthController {
	return &HealthController{DB: db, Redis: rdb, Store: store, Client: client}
}

// @Summary 健康检查
// @Description 检查会话存储可用性，并给出上游地址与登录状态
// @Tags 系统
// @Produce json
// @Success 200 {object} util.Response
// @Failure 503 {object} util.Response
// @Router /api/health [get]
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	components := gin.H{}

	if c.DB != nil {
		sqlDB, err := c.DB.DB()
		if err != nil {
			util.InternalServerError(ctx)
			return
		}
		if err := sqlDB.PingContext(ctx.Request.Context()); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
			return
		}
		components["database"] = "up"
	}

	if c.Redis != nil {
		if err := c.Redis.Ping(ctx.Request.Context()).Err(); err != nil {
			util.Error(ctx, http.StatusServiceUnavailable, "Redis unavailable")
			return
		}
		components["redis"] = "up"
	}

	util.Success(ctx, gin.H{
		"status":        "ok",
		"components":    components,
		"upstream":      c.Client.BaseURL(),
		"authenticated": c.Store.Authenticated(),
	})
}
