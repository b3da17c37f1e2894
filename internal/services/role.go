package services

import (
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"gorm.io/gorm"
)

// RoleService 角色注册表与授权表
type RoleService struct {
	db    *gorm.DB
	cache *PermissionCache
}

// NewRoleService 创建角色服务，cache 可为nil（不启用权限缓存）
func NewRoleService(db *gorm.DB, cache *PermissionCache) *RoleService {
	return &RoleService{db: db, cache: cache}
}

// ========== 注册表维护方法 ==========

// UpsertRole 幂等写入角色：按名称定位，已存在时仅更新描述，保留ID和已有授权
// isSystem 只在首次创建时生效：种子写入的预置角色为系统角色，管理端新建的不是
func (s *RoleService) UpsertRole(name, description string, isSystem bool) (*models.Role, error) {
	if name == "" {
		return nil, errors.NewValidationError("name", "角色名不能为空")
	}

	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		role = models.Role{Name: name, Description: description, IsSystem: isSystem}
		if err := s.db.Create(&role).Error; err != nil {
			return nil, err
		}
		return &role, nil
	}

	if role.Description != description {
		role.Description = description
		if err := s.db.Save(&role).Error; err != nil {
			return nil, err
		}
	}
	return &role, nil
}

// Grant 给角色授予权限：按 (role_id, permission_id) 幂等写入
// 角色或权限名不存在时返回 NotFoundError，必须显式上报——这通常意味着种子配置写错了名字
func (s *RoleService) Grant(roleName, permissionName string, ownScopeOnly bool) error {
	role, err := s.getByName(roleName)
	if err != nil {
		return err
	}
	permission, err := s.getPermissionByName(permissionName)
	if err != nil {
		return err
	}

	var grant models.RolePermission
	err = s.db.Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).First(&grant).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			return err
		}
		grant = models.RolePermission{
			RoleID:       role.ID,
			PermissionID: permission.ID,
			OwnScopeOnly: ownScopeOnly,
		}
		if err := s.db.Create(&grant).Error; err != nil {
			return err
		}
		s.invalidate(roleName)
		return nil
	}

	// 重复授予是无操作；own-scope标记变化时跟随最新配置
	if grant.OwnScopeOnly != ownScopeOnly {
		grant.OwnScopeOnly = ownScopeOnly
		if err := s.db.Save(&grant).Error; err != nil {
			return err
		}
		s.invalidate(roleName)
	}
	return nil
}

// Revoke 回收授权：连接行不存在时是无操作，角色或权限名不存在仍然报错
func (s *RoleService) Revoke(roleName, permissionName string) error {
	role, err := s.getByName(roleName)
	if err != nil {
		return err
	}
	permission, err := s.getPermissionByName(permissionName)
	if err != nil {
		return err
	}

	err = s.db.Where("role_id = ? AND permission_id = ?", role.ID, permission.ID).
		Delete(&models.RolePermission{}).Error
	if err != nil {
		return err
	}
	s.invalidate(roleName)
	return nil
}

// ListPermissions 返回角色的权限名集合
func (s *RoleService) ListPermissions(roleName string) ([]string, error) {
	role, err := s.getByName(roleName)
	if err != nil {
		return nil, err
	}

	var permissions []models.Permission
	err = s.db.
		Joins("JOIN role_permissions ON permissions.id = role_permissions.permission_id").
		Where("role_permissions.role_id = ?", role.ID).
		Find(&permissions).Error
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(permissions))
	for _, permission := range permissions {
		names = append(names, permission.Name)
	}
	return names, nil
}

// GrantDetail 授权明细（权限 + own-scope标记）
type GrantDetail struct {
	Permission   models.Permission `json:"permission"`
	OwnScopeOnly bool              `json:"own_scope_only"`
}

// ListGrantDetails 返回角色的授权明细，供授权判定和管理端展示使用
func (s *RoleService) ListGrantDetails(roleName string) ([]GrantDetail, error) {
	role, err := s.getByName(roleName)
	if err != nil {
		return nil, err
	}

	var grants []models.RolePermission
	if err := s.db.Where("role_id = ?", role.ID).Find(&grants).Error; err != nil {
		return nil, err
	}
	if len(grants) == 0 {
		return []GrantDetail{}, nil
	}

	permissionIDs := make([]uint, 0, len(grants))
	for _, grant := range grants {
		permissionIDs = append(permissionIDs, grant.PermissionID)
	}

	var permissions []models.Permission
	if err := s.db.Where("id IN ?", permissionIDs).Find(&permissions).Error; err != nil {
		return nil, err
	}
	permissionByID := make(map[uint]models.Permission, len(permissions))
	for _, permission := range permissions {
		permissionByID[permission.ID] = permission
	}

	details := make([]GrantDetail, 0, len(grants))
	for _, grant := range grants {
		permission, ok := permissionByID[grant.PermissionID]
		if !ok {
			continue
		}
		details = append(details, GrantDetail{
			Permission:   permission,
			OwnScopeOnly: grant.OwnScopeOnly,
		})
	}
	return details, nil
}

// ========== 查询方法 ==========

// GetByName 根据名称获取角色
func (s *RoleService) GetByName(name string) (*models.Role, error) {
	return s.getByName(name)
}

// GetAll 获取全部角色（预置角色只有4个，不分页）
func (s *RoleService) GetAll() ([]*models.Role, error) {
	var roles []*models.Role
	err := s.db.Order("id").Find(&roles).Error
	return roles, err
}

// ========== 内部方法 ==========

func (s *RoleService) getByName(name string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("角色", name)
		}
		return nil, err
	}
	return &role, nil
}

func (s *RoleService) getPermissionByName(name string) (*models.Permission, error) {
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

func (s *RoleService) invalidate(roleName string) {
	if s.cache != nil {
		s.cache.Invalidate(roleName)
	}
}
