package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/resource"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// ScreenController 顶层管理页（考试、课程、游戏、题库、作答记录、用户）共用的接口
type ScreenController struct {
	Screens *service.ScreenService
}

func NewScreenController(screens *service.ScreenService) *ScreenController {
	return &ScreenController{Screens: screens}
}

// FormChangeRequest 表单编辑预览：对 State 应用一次 Change
// swagger:model FormChangeRequest
type FormChangeRequest struct {
	State  form.State  `json:"state"`
	Change form.Change `json:"change"`
}

// FormResponse 表单描述连同可直接回传的 State
type FormResponse struct {
	Form  form.View  `json:"form"`
	State form.State `json:"state"`
}

func (c *ScreenController) screen(ctx *gin.Context) (service.Screen, bool) {
	sc, err := c.Screens.Get(ctx.Param("screen"))
	if err != nil {
		respondError(ctx, err)
		return nil, false
	}
	return sc, true
}

// List godoc
// @Summary 列表
// @Description 拉取列表；param 交给后端过滤（如技能），q 在本地搜索。拉取失败时返回空列表和 notice
// @Tags 管理页
// @Produce json
// @Param screen path string true "exams | lessons | games | assessment-questions | sessions | users"
// @Param q query string false "搜索"
// @Param param query string false "后端过滤参数"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Router /console/screens/{screen} [get]
func (c *ScreenController) List(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	listScreen(ctx, sc)
}

func listScreen(ctx *gin.Context, sc service.Screen) {
	param := ctx.Query("param")
	if param == "" {
		param = ctx.Query("skill")
	}
	err := sc.Refresh(ctx.Request.Context(), resource.Filter{Param: param, Query: ctx.Query("q")})
	switch {
	case api.IsUnauthorized(err):
		util.Unauthorized(ctx)
		return
	case errors.Is(err, util.ErrStaleResponse):
		util.Conflict(ctx, err.Error())
		return
	}
	// 其他错误已体现在 notice 中
	util.Success(ctx, sc.Snapshot())
}

// Form godoc
// @Summary 表单
// @Description 不带 id 返回新建表单默认值；带 id 返回当前列表中该记录的编辑表单
// @Tags 管理页
// @Produce json
// @Param screen path string true "管理页"
// @Param id query string false "记录 ID"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/screens/{screen}/form [get]
func (c *ScreenController) Form(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	schema := sc.Schema()
	if schema == nil {
		respondError(ctx, fmt.Errorf("%s is read-only: %w", sc.Name(), util.ErrUnknownResource))
		return
	}

	st := schema.New()
	if id := ctx.Query("id"); id != "" {
		record, found := sc.Find(id)
		if !found {
			util.NotFound(ctx)
			return
		}
		var err error
		if st, err = schema.From(record); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
	}
	util.Success(ctx, FormResponse{Form: schema.Describe(st), State: st})
}

// Change godoc
// @Summary 表单联动
// @Description 修改一个字段或选项后重新计算派生字段（题型、选项、音频等），不发起后端请求
// @Tags 管理页
// @Accept json
// @Produce json
// @Param screen path string true "管理页"
// @Param body body FormChangeRequest true "当前表单与修改"
// @Success 200 {object} util.Response{data=FormResponse}
// @Router /console/screens/{screen}/form/change [post]
func (c *ScreenController) Change(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	applyChange(ctx, sc.Schema())
}

func applyChange(ctx *gin.Context, schema *form.Schema) {
	if schema == nil {
		respondError(ctx, util.ErrUnknownResource)
		return
	}
	var req FormChangeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	next, err := schema.Apply(req.State, req.Change)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}
	util.Success(ctx, FormResponse{Form: schema.Describe(next), State: next})
}

// Create godoc
// @Summary 新建
// @Description 先做客户端校验（不通过时不请求后端），成功后整表重新拉取
// @Tags 管理页
// @Accept json
// @Produce json
// @Param screen path string true "管理页"
// @Param body body form.State true "表单"
// @Success 201 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/screens/{screen} [post]
func (c *ScreenController) Create(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	item, err := sc.Create(ctx.Request.Context(), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, gin.H{"item": item, "list": sc.Snapshot()})
}

// Update godoc
// @Summary 修改
// @Tags 管理页
// @Accept json
// @Produce json
// @Param screen path string true "管理页"
// @Param id path string true "记录 ID"
// @Param body body form.State true "表单"
// @Success 200 {object} util.Response
// @Failure 422 {object} util.Response "字段错误"
// @Router /console/screens/{screen}/{id} [put]
func (c *ScreenController) Update(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	st, ok := bindState(ctx)
	if !ok {
		return
	}
	item, err := sc.Update(ctx.Request.Context(), ctx.Param("id"), st)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"item": item, "list": sc.Snapshot()})
}

// Delete godoc
// @Summary 删除
// @Description 必须带 confirm=true，否则不发起请求并返回 409
// @Tags 管理页
// @Produce json
// @Param screen path string true "管理页"
// @Param id path string true "记录 ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "未确认"
// @Router /console/screens/{screen}/{id} [delete]
func (c *ScreenController) Delete(ctx *gin.Context) {
	sc, ok := c.screen(ctx)
	if !ok {
		return
	}
	if err := sc.Remove(ctx.Request.Context(), ctx.Param("id"), confirmed(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, sc.Snapshot())
}
