package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/content"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"errors"

	"github.com/gin-gonic/gin"
)

// ContentController 游戏内容：按游戏类型分派到单词配对、闪卡、拼写、测验、拼图
type ContentController struct {
	ContentService *service.ContentService
}

func NewContentController(contentService *service.ContentService) *ContentController {
	return &ContentController{ContentService: contentService}
}

// unsupported 类型不支持不是错误，页面显示提示
func unsupported(ctx *gin.Context, err error) bool {
	var uErr *content.UnsupportedError
	if !errors.As(err, &uErr) {
		return false
	}
	util.Success(ctx, gin.H{
		"supported": false,
		"gameType":  uErr.GameType,
		"message":   uErr.Error(),
	})
	return true
}

// List godoc
// @Summary 游戏内容列表
// @Description 先取游戏记录确定内容类型，再拉取内容；类型不支持时 supported=false
// @Tags 游戏内容
// @Produce json
// @Param id path string true "游戏 ID"
// @Success 200 {object} util.Response{data=service.ContentView}
// @Failure 404 {object} util.Response "游戏不存在"
// @Router /console/games/{id}/content [get]
func (c *ContentController) List(ctx *gin.Context) {
	ed, err := c.ContentService.Open(ctx.Request.Context(), ctx.Param("id"))
	if unsupported(ctx, err) {
		return
	}
	if ed == nil {
		respondError(ctx, err)
		return
	}
	if api.IsUnauthorized(err) {
		util.Unauthorized(ctx)
		return
	}
	// 内容拉取失败时列表为空，错误在 notice 中
	util.Success(ctx, c.ContentService.View(ed))
}

// Form godoc
// @Summary 游戏内容表单
// @Tags 游戏内容
// @Produce json
// @Param id path string true "游戏 ID"
// @Param itemId query string false "内容 ID，为空时新建"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/games/{id}/content/form [get]
func (c *ContentController) Form(ctx *gin.Context) {
	schema, st, err := c.ContentService.Form(ctx.Request.Context(), ctx.Param("id"), ctx.Query("itemId"))
	if unsupported(ctx, err) {
		return
	}
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, FormResponse{Form: schema.Describe(st), State: st})
}

// Change godoc
// @Summary 游戏内容表单联动
// @Tags 游戏内容
// @Accept json
// @Produce json
// @Param id path string true "游戏 ID"
// @Param body body FormChangeRequest true "当前表单与修改"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/games/{id}/content/form/change [post]
func (c *ContentController) Change(ctx *gin.Context) {
	schema, err := c.ContentService.Schema(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	applyChange(ctx, schema)
}

// Preview godoc
// @Summary 游戏内容预览
// @Description 拼图返回词数与难度（easy/medium/hard）
// @Tags 游戏内容
// @Accept json
// @Produce json
// @Param id path string true "游戏 ID"
// @Param body body form.State true "表单"
// @Success 200 {object} util.Response{data=content.Preview}
// @Router /console/games/{id}/content/preview [post]
func (c *ContentController) Preview(ctx *gin.Context) {
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	p, err := c.ContentService.Preview(ctx.Request.Context(), ctx.Param("id"), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, p)
}

// Create godoc
// @Summary 新建游戏内容
// @Tags 游戏内容
// @Accept json
// @Produce json
// @Param id path string true "游戏 ID"
// @Param body body form.State true "表单"
// @Success 201 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/games/{id}/content [post]
func (c *ContentController) Create(ctx *gin.Context) {
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	gameID := ctx.Param("id")
	item, err := c.ContentService.Create(ctx.Request.Context(), gameID, st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondWithView(ctx, gameID, item, true)
}

// Update godoc
// @Summary 修改游戏内容
// @Tags 游戏内容
// @Accept json
// @Produce json
// @Param id path string true "游戏 ID"
// @Param itemId path string true "内容 ID"
// @Param body body form.State true "表单"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/games/{id}/content/{itemId} [put]
func (c *ContentController) Update(ctx *gin.Context) {
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	gameID := ctx.Param("id")
	item, err := c.ContentService.Update(ctx.Request.Context(), gameID, ctx.Param("itemId"), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	c.respondWithView(ctx, gameID, item, false)
}

// Delete godoc
// @Summary 删除游戏内容
// @Tags 游戏内容
// @Produce json
// @Param id path string true "游戏 ID"
// @Param itemId path string true "内容 ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "未确认"
// @Router /console/games/{id}/content/{itemId} [delete]
func (c *ContentController) Delete(ctx *gin.Context) {
	gameID := ctx.Param("id")
	if err := c.ContentService.Delete(ctx.Request.Context(), gameID, ctx.Param("itemId"), confirmed(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	c.respondWithView(ctx, gameID, nil, false)
}

func (c *ContentController) respondWithView(ctx *gin.Context, gameID string, item interface{}, created bool) {
	// 增删改之后列表已由通用控制器重新拉取
	body := gin.H{}
	if item != nil {
		body["item"] = item
	}
	if ed, ok := c.ContentService.Current(gameID); ok {
		body["content"] = c.ContentService.View(ed)
	}
	if created {
		util.Created(ctx, body)
		return
	}
	util.Success(ctx, body)
}
