package controller

import (
	"english_admin/internal/api"
	"english_admin/internal/form"
	"english_admin/internal/util"
	"english_admin/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError 把各层错误映射为 HTTP 响应，表单类错误带字段明细
func respondError(ctx *gin.Context, err error) {
	var (
		vErr     *form.ValidationError
		apiVErr  *api.APIValidationError
		notFound *api.NotFoundError
		unauth   *api.UnauthorizedError
		netErr   *api.NetworkError
		upstream *api.APIError
	)

	switch {
	case errors.As(err, &vErr):
		util.ValidationFailed(ctx, vErr.Error(), vErr.Fields)
	case errors.As(err, &apiVErr):
		util.ValidationFailed(ctx, api.Describe(err), apiVErr.Fields())
	case errors.As(err, &unauth), errors.Is(err, util.ErrNotAuthenticated):
		// 会话已由客户端的 401 回调清掉
		util.Unauthorized(ctx)
	case errors.As(err, &notFound):
		util.Error(ctx, http.StatusNotFound, api.Describe(err))
	case errors.Is(err, util.ErrUnknownResource):
		util.Error(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, util.ErrConfirmationDeclined),
		errors.Is(err, util.ErrBusy),
		errors.Is(err, util.ErrStaleResponse):
		util.Conflict(ctx, err.Error())
	case errors.Is(err, util.ErrParentNotSelected),
		errors.Is(err, util.ErrUnsupportedGameType),
		errors.Is(err, util.ErrInvalidAudio):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAudioTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
	case errors.As(err, &netErr), errors.As(err, &upstream):
		logger.L().Warn("upstream call failed", zap.String("path", ctx.FullPath()), zap.Error(err))
		util.BadGateway(ctx, api.Describe(err))
	default:
		util.LogInternalError(ctx, err)
	}
}

// bindState 请求体为 form.State
func bindState(ctx *gin.Context) (form.State, bool) {
	var st form.State
	if err := ctx.ShouldBindJSON(&st); err != nil {
		util.BadRequest(ctx, err.Error())
		return st, false
	}
	if st.Values == nil {
		st.Values = form.Values{}
	}
	return st, true
}

func confirmed(ctx *gin.Context) bool {
	return util.ParseBool(ctx.Query("confirm"))
}
