package services

import (
	"fmt"
	"unicode/utf8"

	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"gorm.io/gorm"
)

// TenantService 租户服务
type TenantService struct {
	db *gorm.DB
}

// TenantStats 租户统计信息
type TenantStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// NewTenantService 创建租户服务
func NewTenantService(db *gorm.DB) *TenantService {
	return &TenantService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建租户
func (s *TenantService) Create(name, slug string, domain *string) (*models.Tenant, error) {
	// 验证参数
	if err := s.ValidateCreateParams(name, slug); err != nil {
		return nil, err
	}

	// 检查slug是否重复
	var count int64
	s.db.Model(&models.Tenant{}).Where("slug = ?", slug).Count(&count)
	if count > 0 {
		return nil, errors.NewValidationError("slug", "租户标识已存在")
	}

	tenant := &models.Tenant{
		Name:     name,
		Slug:     slug,
		Domain:   domain,
		IsActive: true,
	}

	err := s.db.Create(tenant).Error
	return tenant, err
}

// GetByID 根据ID获取租户
func (s *TenantService) GetByID(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.First(&tenant, id).Error
	return &tenant, err
}

// GetBySlug 根据标识获取租户
func (s *TenantService) GetBySlug(slug string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := s.db.Where("slug = ?", slug).First(&tenant).Error
	return &tenant, err
}

// GetWithFiltersAndPage 组合查询（分页版本）
func (s *TenantService) GetWithFiltersAndPage(keyword string, page, pageSize int) ([]*models.Tenant, int64, error) {
	var tenants []*models.Tenant
	var total int64

	query := s.db.Model(&models.Tenant{})

	if keyword != "" {
		searchPattern := fmt.Sprintf("%%%s%%", keyword)
		query = query.Where("name LIKE ? OR slug LIKE ?", searchPattern, searchPattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Offset(offset).Limit(pageSize).Find(&tenants).Error
	if err != nil {
		return nil, 0, err
	}

	// 统计每个租户的用户数量
	for i := range tenants {
		var userCount int64
		s.db.Model(&models.User{}).Where("tenant_id = ?", tenants[i].ID).Count(&userCount)
		tenants[i].UserCount = int(userCount)
	}

	return tenants, total, nil
}

// Update 更新租户
func (s *TenantService) Update(id uint, name string, domain *string) (*models.Tenant, error) {
	if !s.ValidateName(name) {
		return nil, errors.NewValidationError("name", "租户名称长度必须在2-100个字符之间")
	}

	var tenant models.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}

	tenant.Name = name
	tenant.Domain = domain

	err := s.db.Save(&tenant).Error
	return &tenant, err
}

// Deactivate 停用租户（软删除：保留订单和历史数据）
func (s *TenantService) Deactivate(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	tenant.IsActive = false
	err := s.db.Save(&tenant).Error
	return &tenant, err
}

// Activate 启用租户
func (s *TenantService) Activate(id uint) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.First(&tenant, id).Error; err != nil {
		return nil, err
	}
	tenant.IsActive = true
	err := s.db.Save(&tenant).Error
	return &tenant, err
}

// GetStats 租户统计
func (s *TenantService) GetStats() (*TenantStats, error) {
	stats := &TenantStats{}

	if err := s.db.Model(&models.Tenant{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.db.Model(&models.Tenant{}).Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

// ========== 验证方法 ==========

// ValidateName 验证租户名称
func (s *TenantService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 100
}

// ValidateSlug 验证租户标识
func (s *TenantService) ValidateSlug(slug string) bool {
	if len(slug) < 2 || len(slug) > 50 {
		return false
	}
	// 只允许小写字母、数字和连字符
	for _, r := range slug {
		if !((r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-') {
			return false
		}
	}
	return true
}

// ValidateCreateParams 验证创建租户的参数
func (s *TenantService) ValidateCreateParams(name, slug string) error {
	if !s.ValidateName(name) {
		return errors.NewValidationError("name", "租户名称长度必须在2-100个字符之间")
	}
	if !s.ValidateSlug(slug) {
		return errors.NewValidationError("slug", "租户标识长度必须在2-50个字符之间，且只能包含小写字母、数字和连字符")
	}
	return nil
}
