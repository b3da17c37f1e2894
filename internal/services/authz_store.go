package services

import (
	"letsprint/internal/authz"
	"letsprint/internal/models"

	"gorm.io/gorm"
)

// AuthzStore 授权判定的注册表读取适配器：gorm为准，Redis缓存授权集
type AuthzStore struct {
	db    *gorm.DB
	cache *PermissionCache
}

// NewAuthzStore 创建授权读取适配器，cache 可为nil
func NewAuthzStore(db *gorm.DB, cache *PermissionCache) *AuthzStore {
	return &AuthzStore{db: db, cache: cache}
}

// GetRole 读取角色，未知角色返回 (nil, nil)
func (s *AuthzStore) GetRole(name string) (*authz.RoleInfo, error) {
	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &authz.RoleInfo{
		Name:   role.Name,
		Global: models.IsPlatformRole(role.Name),
	}, nil
}

// ListGrants 读取角色授权集，优先走缓存
func (s *AuthzStore) ListGrants(roleName string) ([]authz.Grant, error) {
	if s.cache != nil {
		if grants, ok := s.cache.Get(roleName); ok {
			return grants, nil
		}
	}

	var rows []struct {
		Resource     string
		Action       string
		OwnScopeOnly bool
	}
	err := s.db.Model(&models.RolePermission{}).
		Select("permissions.resource, permissions.action, role_permissions.own_scope_only").
		Joins("JOIN permissions ON permissions.id = role_permissions.permission_id").
		Joins("JOIN roles ON roles.id = role_permissions.role_id").
		Where("roles.name = ?", roleName).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	grants := make([]authz.Grant, 0, len(rows))
	for _, row := range rows {
		grants = append(grants, authz.Grant{
			Resource:     row.Resource,
			Action:       row.Action,
			OwnScopeOnly: row.OwnScopeOnly,
		})
	}

	if s.cache != nil {
		s.cache.Set(roleName, grants)
	}
	return grants, nil
}
