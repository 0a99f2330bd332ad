package controller

import (
	"english_admin/internal/service"
	"english_admin/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 平台用户（只读）
type UserController struct {
	UserService *service.UserService
	Screens     *service.ScreenService
}

func NewUserController(userService *service.UserService, screens *service.ScreenService) *UserController {
	return &UserController{UserService: userService, Screens: screens}
}

// GetUsers godoc
// @Summary 获取用户列表
// @Description 按用户名或邮箱本地搜索
// @Tags 用户管理
// @Produce  json
// @Param   q query string false "搜索关键词"
// @Success 200 {object} util.Response "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /console/users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	sc, err := c.Screens.Get(service.ScreenUsers)
	if err != nil {
		respondError(ctx, err)
		return
	}
	listScreen(ctx, sc)
}

// GetUser godoc
// @Summary 用户详情
// @Description 用户记录与分级测试结果
// @Tags 用户管理
// @Produce  json
// @Param   id path string true "用户 ID"
// @Success 200 {object} util.Response{data=service.UserDetail}
// @Failure 404 {object} util.Response "用户不存在"
// @Router /console/users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	detail, err := c.UserService.Detail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}
