package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/model"
	"english_admin/pkg/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// UserService 平台用户只读：列表走通用页面，这里负责详情
type UserService struct {
	client *api.Client
}

func NewUserService(c *api.Client) *UserService {
	return &UserService{client: c}
}

// UserDetail 用户记录连同其分级测试结果
// swagger:model UserDetail
type UserDetail struct {
	User        model.User         `json:"user"`
	Assessments []model.Assessment `json:"assessments"`
	Notice      string             `json:"notice,omitempty"`
}

// Detail 用户不存在时返回错误；测试结果拉取失败只记 notice
func (s *UserService) Detail(ctx context.Context, userID string) (*UserDetail, error) {
	var (
		user        model.User
		assessments []model.Assessment
		listErr     error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		user, err = s.client.Users().Get(gctx, userID)
		return err
	})
	g.Go(func() error {
		assessments, listErr = s.client.Assessments().List(gctx, userID)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	detail := &UserDetail{User: user, Assessments: assessments}
	if listErr != nil {
		logger.L().Warn("assessments for user unavailable", zap.String("userId", userID), zap.Error(listErr))
		detail.Assessments = []model.Assessment{}
		detail.Notice = api.Describe(listErr)
	}
	if detail.Assessments == nil {
		detail.Assessments = []model.Assessment{}
	}
	return detail, nil
}
