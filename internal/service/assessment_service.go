package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/internal/model"
	"english_admin/internal/resource"
	"english_admin/pkg/logger"
	"errors"
	"strings"

	"go.uber.org/zap"
)

// 后端内置的题目模板
var AssessmentTemplates = []string{"basic", "ielts", "toeic"}

// AssessmentService 分级测试：用户结果只读，题库走通用页面
type AssessmentService struct {
	client  *api.Client
	screens *ScreenService
}

func NewAssessmentService(c *api.Client, screens *ScreenService) *AssessmentService {
	return &AssessmentService{client: c, screens: screens}
}

func (s *AssessmentService) ByUser(ctx context.Context, userID string) ([]model.Assessment, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, errors.New("userId is required")
	}
	return s.client.Assessments().List(ctx, userID)
}

// ApplyTemplate 后端批量生成题目，完成后刷新题库列表
func (s *AssessmentService) ApplyTemplate(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if err := s.client.ApplyTemplate(ctx, name); err != nil {
		return err
	}
	logger.L().Info("assessment template applied", zap.String("template", name))

	sc, err := s.screens.Get(ScreenAssessmentQuestions)
	if err != nil {
		return err
	}
	if err := sc.Refresh(ctx, resource.Filter{}); err != nil {
		logger.L().Warn("refresh after template failed", zap.Error(err))
	}
	return nil
}
