package controller

import (
	"english_admin/internal/service"
	"english_admin/internal/util"

	"github.com/gin-gonic/gin"
)

type AssessmentController struct {
	Service *service.AssessmentService
	Storage *service.StorageService
}

func NewAssessmentController(svc *service.AssessmentService, storage *service.StorageService) *AssessmentController {
	return &AssessmentController{Service: svc, Storage: storage}
}

// @Summary 用户的分级测试结果
// @Tags 分级测试
// @Produce json
// @Param userId path string true "用户 ID"
// @Success 200 {object} util.Response{data=[]model.Assessment}
// @Router /console/assessments/users/{userId} [get]
func (c *AssessmentController) ByUser(ctx *gin.Context) {
	list, err := c.Service.ByUser(ctx.Request.Context(), ctx.Param("userId"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, list)
}

// @Summary 可用的题目模板
// @Tags 分级测试
// @Produce json
// @Success 200 {object} util.Response{data=[]string}
// @Router /console/assessments/templates [get]
func (c *AssessmentController) Templates(ctx *gin.Context) {
	util.Success(ctx, service.AssessmentTemplates)
}

// @Summary 应用题目模板
// @Description 由后端批量生成分级测试题，完成后题库列表重新拉取
// @Tags 分级测试
// @Produce json
// @Param name path string true "模板名"
// @Success 200 {object} util.Response
// @Router /console/assessments/templates/{name} [post]
func (c *AssessmentController) ApplyTemplate(ctx *gin.Context) {
	if err := c.Service.ApplyTemplate(ctx.Request.Context(), ctx.Param("name")); err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"template": ctx.Param("name")})
}

// @Summary 上传题目音频
// @Description 校验类型与大小后上传到配置的存储，返回可写入 audioUrl 的地址
// @Tags 分级测试
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "音频文件"
// @Success 201 {object} util.Response{data=service.AudioUpload}
// @Failure 400 {object} util.Response "不是音频"
// @Failure 413 {object} util.Response "文件过大"
// @Router /console/media/audio [post]
func (c *AssessmentController) UploadAudio(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "File is required")
		return
	}
	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer src.Close()

	upload, err := c.Storage.UploadAudio(ctx.Request.Context(), file.Filename, src, file.Size)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, upload)
}
