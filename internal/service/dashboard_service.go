package service

import (
	"context"
	"english_admin/internal/api"
	"english_admin/pkg/logger"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardStats 首页计数，某项失败时为 0 并在 Notices 中说明
type DashboardStats struct {
	Exams    int               `json:"exams"`
	Users    int               `json:"users"`
	Lessons  int               `json:"lessons"`
	Games    int               `json:"games"`
	Sessions int               `json:"sessions"`
	Notices  map[string]string `json:"notices,omitempty"`
}

type DashboardService struct {
	client *api.Client
}

func NewDashboardService(c *api.Client) *DashboardService {
	return &DashboardService{client: c}
}

func (s *DashboardService) Stats(ctx context.Context) DashboardStats {
	var (
		stats DashboardStats
		mu    sync.Mutex
		g     errgroup.Group
	)
	stats.Notices = make(map[string]string)

	count := func(name string, dst *int, fetch func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := fetch(ctx)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Notices[name] = api.Describe(err)
				logger.L().Warn("dashboard count failed", zap.String("resource", name), zap.Error(err))
				return nil
			}
			*dst = n
			return nil
		})
	}

	c := s.client
	count("exams", &stats.Exams, func(ctx context.Context) (int, error) {
		items, err := c.Exams().List(ctx, "")
		return len(items), err
	})
	count("users", &stats.Users, func(ctx context.Context) (int, error) {
		items, err := c.Users().List(ctx, "")
		return len(items), err
	})
	count("lessons", &stats.Lessons, func(ctx context.Context) (int, error) {
		items, err := c.Lessons().List(ctx, "")
		return len(items), err
	})
	count("games", &stats.Games, func(ctx context.Context) (int, error) {
		items, err := c.Games().List(ctx, "")
		return len(items), err
	})
	count("sessions", &stats.Sessions, func(ctx context.Context) (int, error) {
		items, err := c.Sessions().List(ctx, "")
		return len(items), err
	})

	_ = g.Wait()
	if len(stats.Notices) == 0 {
		stats.Notices = nil
	}
	return stats
}
