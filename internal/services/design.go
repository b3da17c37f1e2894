package services

import (
	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DesignService 设计稿服务
type DesignService struct {
	db *gorm.DB
}

// NewDesignService 创建设计稿服务
func NewDesignService(db *gorm.DB) *DesignService {
	return &DesignService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建设计稿，metadata 存放尺寸、颜色等设计参数
func (s *DesignService) Create(tenantID, ownerID uint, name string, metadata datatypes.JSON) (*models.Design, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "设计稿名称不能为空")
	}

	design := &models.Design{
		Name:     name,
		TenantID: tenantID,
		OwnerID:  ownerID,
		FileKey:  "designs/" + uuid.New().String(),
		Metadata: metadata,
		Status:   models.DesignStatusDraft,
	}

	err := s.db.Create(design).Error
	return design, err
}

// GetByID 根据ID获取设计稿
func (s *DesignService) GetByID(id uint) (*models.Design, error) {
	var design models.Design
	err := s.db.Preload("Owner").First(&design, id).Error
	return &design, err
}

// GetWithScopeAndPage 按可见范围分页查询设计稿
// 客户的own-scope范围会把查询收窄到 owner_id = 本人
func (s *DesignService) GetWithScopeAndPage(scope authz.ScopeFilter, status string, page, pageSize int) ([]*models.Design, int64, error) {
	var designs []*models.Design
	var total int64

	query := s.db.Model(&models.Design{})

	// 应用可见范围
	if !scope.Global {
		if scope.TenantID == nil {
			return []*models.Design{}, 0, nil
		}
		query = query.Where("tenant_id = ?", *scope.TenantID)
		if scope.OwnerID != nil {
			query = query.Where("owner_id = ?", *scope.OwnerID)
		}
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&designs).Error
	if err != nil {
		return nil, 0, err
	}

	return designs, total, nil
}

// Update 更新设计稿
func (s *DesignService) Update(id uint, name, status string, metadata datatypes.JSON) (*models.Design, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "设计稿名称不能为空")
	}
	if !isValidDesignStatus(status) {
		return nil, errors.NewValidationError("status", "非法的设计稿状态")
	}

	var design models.Design
	if err := s.db.First(&design, id).Error; err != nil {
		return nil, err
	}

	design.Name = name
	design.Status = status
	if metadata != nil {
		design.Metadata = metadata
	}

	err := s.db.Save(&design).Error
	return &design, err
}

// Delete 删除设计稿
func (s *DesignService) Delete(id uint) error {
	var design models.Design
	if err := s.db.First(&design, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&design).Error
}

// ========== 内部方法 ==========

func isValidDesignStatus(status string) bool {
	switch status {
	case models.DesignStatusDraft, models.DesignStatusFinal, models.DesignStatusArchived:
		return true
	}
	return false
}
