package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// 快照保留30天
const snapshotTTL = 30 * 24 * time.Hour

// AnalyticsService 经营分析服务
type AnalyticsService struct {
	db      *gorm.DB
	redis   *redis.Client
	prefix  string
	cron    *cron.Cron
	running bool
}

// Dashboard 经营看板数据
type Dashboard struct {
	Users    int64   `json:"users"`
	Products int64   `json:"products"`
	Orders   int64   `json:"orders"`
	Designs  int64   `json:"designs"`
	Revenue  float64 `json:"revenue"` // 已完成订单总额
}

// NewAnalyticsService 创建经营分析服务
func NewAnalyticsService(db *gorm.DB, redisClient *redis.Client, prefix string) *AnalyticsService {
	return &AnalyticsService{
		db:     db,
		redis:  redisClient,
		prefix: prefix,
		cron:   cron.New(),
	}
}

// GetDashboard 按可见范围统计经营数据
func (s *AnalyticsService) GetDashboard(scope authz.ScopeFilter) (*Dashboard, error) {
	dashboard := &Dashboard{}

	userQuery := s.db.Model(&models.User{})
	productQuery := s.db.Model(&models.Product{})
	orderQuery := s.db.Model(&models.Order{})
	designQuery := s.db.Model(&models.Design{})

	if !scope.Global {
		if scope.TenantID == nil {
			return dashboard, nil
		}
		tenantID := *scope.TenantID
		userQuery = userQuery.Where("tenant_id = ?", tenantID)
		productQuery = productQuery.Where("tenant_id = ?", tenantID)
		orderQuery = orderQuery.Where("tenant_id = ?", tenantID)
		designQuery = designQuery.Where("tenant_id = ?", tenantID)
	}

	if err := userQuery.Count(&dashboard.Users).Error; err != nil {
		return nil, err
	}
	if err := productQuery.Count(&dashboard.Products).Error; err != nil {
		return nil, err
	}
	if err := orderQuery.Count(&dashboard.Orders).Error; err != nil {
		return nil, err
	}
	if err := designQuery.Count(&dashboard.Designs).Error; err != nil {
		return nil, err
	}

	var revenue *float64
	err := orderQuery.Where("status = ?", models.OrderStatusCompleted).
		Select("SUM(total_amount)").Scan(&revenue).Error
	if err != nil {
		return nil, err
	}
	if revenue != nil {
		dashboard.Revenue = *revenue
	}

	return dashboard, nil
}

// Start 启动每日快照任务（每天凌晨2点）
func (s *AnalyticsService) Start() error {
	if s.running {
		return fmt.Errorf("快照任务已经在运行")
	}

	_, err := s.cron.AddFunc("0 2 * * *", func() {
		if err := s.TakeSnapshot(); err != nil {
			logger.GetLogger().Errorf("经营数据快照失败: %v", err)
		}
	})
	if err != nil {
		return err
	}

	s.cron.Start()
	s.running = true
	logger.GetLogger().Info("经营数据快照任务启动成功")
	return nil
}

// Stop 停止快照任务
func (s *AnalyticsService) Stop() {
	if !s.running {
		return
	}
	s.cron.Stop()
	s.running = false
}

// TakeSnapshot 将平台全量统计写入Redis，供看板展示趋势
func (s *AnalyticsService) TakeSnapshot() error {
	dashboard, err := s.GetDashboard(authz.ScopeFilter{Global: true})
	if err != nil {
		return err
	}

	data, err := json.Marshal(dashboard)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s:analytics:daily:%s", s.prefix, time.Now().Format("2006-01-02"))
	return s.redis.Set(context.Background(), key, data, snapshotTTL).Err()
}
