package services

import (
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"gorm.io/gorm"
)

// PermissionService 权限注册表
type PermissionService struct {
	db *gorm.DB
}

// NewPermissionService 创建权限服务
func NewPermissionService(db *gorm.DB) *PermissionService {
	return &PermissionService{db: db}
}

// ========== 注册表维护方法 ==========

// UpsertPermission 幂等写入权限：按名称定位，已存在时更新描述和resource/action，保留ID和已有授权
func (s *PermissionService) UpsertPermission(name, description, resource, action string) (*models.Permission, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "权限名不能为空")
	}
	if resource == "" || action == "" {
		return nil, errors.NewValidationError("resource/action", "资源和操作不能为空")
	}

	var permission models.Permission
	err := s.db.Where("name = ?", name).First(&permission).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		permission = models.Permission{
			Name:        name,
			Description: description,
			Resource:    resource,
			Action:      action,
		}
		if err := s.db.Create(&permission).Error; err != nil {
			return nil, err
		}
		return &permission, nil
	}

	if permission.Description != description || permission.Resource != resource || permission.Action != action {
		permission.Description = description
		permission.Resource = resource
		permission.Action = action
		if err := s.db.Save(&permission).Error; err != nil {
			return nil, err
		}
	}
	return &permission, nil
}

// ========== 查询方法 ==========

// GetWithPage 分页获取权限
func (s *PermissionService) GetWithPage(resource string, page, pageSize int) ([]*models.Permission, int64, error) {
	var permissions []*models.Permission
	var total int64

	query := s.db.Model(&models.Permission{})

	// 按资源筛选
	if resource != "" {
		query = query.Where("resource = ?", resource)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("id").Offset(offset).Limit(pageSize).Find(&permissions).Error
	if err != nil {
		return nil, 0, err
	}

	return permissions, total, nil
}

// GetByName 根据名称获取权限
func (s *PermissionService) GetByName(name string) (*models.Permission, error) {
	var permission models.Permission
	err := s.db.Where("name = ?", name).First(&permission).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("权限", name)
		}
		return nil, err
	}
	return &permission, nil
}

// ListAll 获取全部权限
func (s *PermissionService) ListAll() ([]models.Permission, error) {
	var permissions []models.Permission
	err := s.db.Order("id").Find(&permissions).Error
	return permissions, err
}
