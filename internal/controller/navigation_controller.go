package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// NavigationController 下钻页面：考试 -> 分组 -> 题目，课程 -> 子课程 -> 资料/练习，游戏 -> 房间 -> 玩家
type NavigationController struct {
	NavigationService *service.NavigationService
}

func NewNavigationController(nav *service.NavigationService) *NavigationController {
	return &NavigationController{NavigationService: nav}
}

// OpenRequest 选中 depth 层的节点
// swagger:model OpenRequest
type OpenRequest struct {
	Depth int    `json:"depth"`
	ID    string `json:"id" binding:"required"`
}

func depthParam(ctx *gin.Context) (int, bool) {
	depth, err := strconv.Atoi(ctx.Param("depth"))
	if err != nil || depth < 0 {
		util.BadRequest(ctx, "depth must be a non-negative integer")
		return 0, false
	}
	return depth, true
}

// Frames godoc
// @Summary 当前下钻路径
// @Tags 下钻
// @Produce json
// @Param tree path string true "exams | lessons | games | sessions"
// @Success 200 {object} util.Response
// @Router /console/nav/{tree} [get]
func (c *NavigationController) Frames(ctx *gin.Context) {
	frames, err := c.NavigationService.Frames(ctx.Param("tree"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, frames)
}

// Open godoc
// @Summary 打开一层
// @Description 丢弃 depth 及更深的帧，压入新帧并拉取子集合；子集合拉取失败时对应集合为空并带 notice
// @Tags 下钻
// @Accept json
// @Produce json
// @Param tree path string true "下钻树"
// @Param body body OpenRequest true "层级与节点 ID"
// @Success 200 {object} util.Response
// @Failure 400 {object} util.Response "上级未选中"
// @Router /console/nav/{tree}/open [post]
func (c *NavigationController) Open(ctx *gin.Context) {
	var req OpenRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	frames, err := c.NavigationService.Open(ctx.Request.Context(), ctx.Param("tree"), req.Depth, req.ID)
	switch {
	case err == nil:
	case errors.Is(err, util.ErrParentNotSelected), errors.Is(err, util.ErrUnknownResource):
		respondError(ctx, err)
		return
	case api.IsUnauthorized(err):
		util.Unauthorized(ctx)
		return
	case errors.Is(err, util.ErrStaleResponse):
		util.Conflict(ctx, err.Error())
		return
	}
	util.Success(ctx, frames)
}

// Close godoc
// @Summary 关闭一层
// @Description 原子地清除 depth 及更深层的全部选中状态与子集合
// @Tags 下钻
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "层级"
// @Success 200 {object} util.Response
// @Router /console/nav/{tree}/{depth} [delete]
func (c *NavigationController) Close(ctx *gin.Context) {
	depth, ok := depthParam(ctx)
	if !ok {
		return
	}
	frames, err := c.NavigationService.Close(ctx.Param("tree"), depth)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, frames)
}

// ChildForm godoc
// @Summary 子记录表单
// @Tags 下钻
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "父节点所在层"
// @Param child path string true "子集合"
// @Param id query string false "子记录 ID，为空时新建"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/nav/{tree}/{depth}/{child}/form [get]
func (c *NavigationController) ChildForm(ctx *gin.Context) {
	depth, ok := depthParam(ctx)
	if !ok {
		return
	}
	schema, st, err := c.NavigationService.ChildForm(ctx.Request.Context(), ctx.Param("tree"), depth, ctx.Param("child"), ctx.Query("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, FormResponse{Form: schema.Describe(st), State: st})
}

// ChildChange godoc
// @Summary 子记录表单联动
// @Tags 下钻
// @Accept json
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "父节点所在层"
// @Param child path string true "子集合"
// @Param body body FormChangeRequest true "当前表单与修改"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/nav/{tree}/{depth}/{child}/form/change [post]
func (c *NavigationController) ChildChange(ctx *gin.Context) {
	schema, err := c.NavigationService.ChildSchema(ctx.Param("tree"), ctx.Param("child"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	applyChange(ctx, schema)
}

// CreateChild godoc
// @Summary 新建子记录
// @Description 在 depth 层选中的节点下新建，成功后重新拉取该层子集合
// @Tags 下钻
// @Accept json
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "父节点所在层"
// @Param child path string true "子集合"
// @Param body body form.State true "表单"
// @Success 201 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/nav/{tree}/{depth}/{child} [post]
func (c *NavigationController) CreateChild(ctx *gin.Context) {
	depth, ok := depthParam(ctx)
	if !ok {
		return
	}
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	tree := ctx.Param("tree")
	item, err := c.NavigationService.CreateChild(ctx.Request.Context(), tree, depth, ctx.Param("child"), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	frames, _ := c.NavigationService.Frames(tree)
	util.Created(ctx, gin.H{"item": item, "frames": frames})
}

// UpdateChild godoc
// @Summary 修改子记录
// @Tags 下钻
// @Accept json
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "父节点所在层"
// @Param child path string true "子集合"
// @Param id path string true "子记录 ID"
// @Param body body form.State true "表单"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/nav/{tree}/{depth}/{child}/{id} [put]
func (c *NavigationController) UpdateChild(ctx *gin.Context) {
	depth, ok := depthParam(ctx)
	if !ok {
		return
	}
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	tree := ctx.Param("tree")
	item, err := c.NavigationService.UpdateChild(ctx.Request.Context(), tree, depth, ctx.Param("child"), ctx.Param("id"), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	frames, _ := c.NavigationService.Frames(tree)
	util.Success(ctx, gin.H{"item": item, "frames": frames})
}

// DeleteChild godoc
// @Summary 删除子记录
// @Description 必须带 confirm=true；下级记录由后端级联删除
// @Tags 下钻
// @Produce json
// @Param tree path string true "下钻树"
// @Param depth path int true "父节点所在层"
// @Param child path string true "子集合"
// @Param id path string true "子记录 ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "未确认"
// @Router /console/nav/{tree}/{depth}/{child}/{id} [delete]
func (c *NavigationController) DeleteChild(ctx *gin.Context) {
	depth, ok := depthParam(ctx)
	if !ok {
		return
	}
	tree := ctx.Param("tree")
	if err := c.NavigationService.DeleteChild(ctx.Request.Context(), tree, depth, ctx.Param("child"), ctx.Param("id"), confirmed(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	frames, _ := c.NavigationService.Frames(tree)
	util.Success(ctx, frames)
}
