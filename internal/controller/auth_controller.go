package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"net/http"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{AuthService: authService}
}

// Login godoc
// @Summary 管理员登录
// @Description 使用平台账号登录，token 保存在控制台会话存储中
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body service.LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=model.UserProfile} "登录成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "邮箱或密码错误"
// @Failure 502 {object} util.Response "平台后端不可用"
// @Router /console/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req service.LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Login(ctx.Request.Context(), req)
	if err != nil {
		// 登录失败的 401 不是会话过期，直接给出后端提示
		if api.IsUnauthorized(err) {
			util.Error(ctx, http.StatusUnauthorized, api.Describe(err))
			return
		}
		respondError(ctx, err)
		return
	}

	util.Success(ctx, user)
}

// Logout godoc
// @Summary 退出登录
// @Description 清除内存与持久化的登录态，并清空所有页面状态
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response
// @Router /console/logout [post]
func (c *AuthController) Logout(ctx *gin.Context) {
	if err := c.AuthService.Logout(ctx.Request.Context()); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"redirect": "/console/login"})
}

// Me godoc
// @Summary 当前管理员
// @Tags 认证
// @Produce  json
// @Success 200 {object} util.Response{data=model.UserProfile}
// @Failure 401 {object} util.Response
// @Router /console/me [get]
func (c *AuthController) Me(ctx *gin.Context) {
	user := c.AuthService.Me()
	if user == nil {
		util.Unauthorized(ctx)
		return
	}
	util.Success(ctx, user)
}
