package controller

import (
	"english_admin/internal/service"
	"english_admin/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	AuthService      *service.AuthService
}

func NewDashboardController(dashboardService *service.DashboardService, authService *service.AuthService) *DashboardController {
	return &DashboardController{DashboardService: dashboardService, AuthService: authService}
}

// @Summary 获取仪表盘数据
// @Description 考试、用户、课程、游戏、作答记录的数量；单项失败时为 0 并附带提示
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.Response{data=service.DashboardStats}
// @Failure 401 {object} util.Response
// @Router /console/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	stats := c.DashboardService.Stats(ctx.Request.Context())

	// 任一计数收到 401 时会话已被清除
	if !c.AuthService.Authenticated() {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, stats)
}
