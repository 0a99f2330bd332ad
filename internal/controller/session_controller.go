package controller

import (
	"bytes"
	"english_admin/internal/service"
	"english_admin/internal/util"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// SessionController 考试作答记录
type SessionController struct {
	SessionService *service.SessionService
}

func NewSessionController(sessionService *service.SessionService) *SessionController {
	return &SessionController{SessionService: sessionService}
}

// @Summary 考试的作答记录
// @Tags 作答记录
// @Produce json
// @Param id path string true "考试 ID"
// @Success 200 {object} util.Response{data=[]model.Session}
// @Router /console/exams/{id}/sessions [get]
func (c *SessionController) ByExam(ctx *gin.Context) {
	list, err := c.SessionService.ByExam(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 作答明细
// @Tags 作答记录
// @Produce json
// @Param id path string true "作答记录 ID"
// @Success 200 {object} util.Response{data=[]model.Answer}
// @Router /console/sessions/{id}/answers [get]
func (c *SessionController) Answers(ctx *gin.Context) {
	list, err := c.SessionService.Answers(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 作答报告
// @Description 概要与逐题作答、得分的 PDF
// @Tags 作答记录
// @Produce application/pdf
// @Param id path string true "作答记录 ID"
// @Success 200 {file} binary
// @Router /console/sessions/{id}/report.pdf [get]
func (c *SessionController) Report(ctx *gin.Context) {
	id := ctx.Param("id")
	var buf bytes.Buffer
	if err := c.SessionService.Report(ctx.Request.Context(), id, &buf); err != nil {
		respondError(ctx, err)
		return
	}
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=session-%s.pdf", id))
	ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// @Summary 删除作答记录
// @Tags 作答记录
// @Produce json
// @Param id path string true "作答记录 ID"
// @Param confirm query bool true "确认删除"
// @Success 200 {object} util.Response
// @Failure 409 {object} util.Response "未确认"
// @Router /console/sessions/{id} [delete]
func (c *SessionController) Delete(ctx *gin.Context) {
	if err := c.SessionService.Delete(ctx.Request.Context(), ctx.Param("id"), confirmed(ctx)); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"id": ctx.Param("id")})
}
