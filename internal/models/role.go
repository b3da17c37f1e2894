package models

import "time"

// Role 角色模型
type Role struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"` // 角色名即身份标识，如 "business_owner"
	Description string `gorm:"size:255" json:"description"`               // 角色描述
	IsSystem    bool   `gorm:"default:false" json:"is_system"`            // 是否系统角色（不可删除）

	// 关联关系
	Permissions []Permission `gorm:"many2many:role_permissions;" json:"permissions,omitempty"`
}

// 系统预定义角色常量
const (
	RoleSuperAdmin      = "super_admin"      // 平台超级管理员（不绑定租户）
	RoleBusinessOwner   = "business_owner"   // 商户老板
	RoleProductionOwner = "production_owner" // 生产负责人
	RoleClient          = "client"           // 客户
)

// IsPlatformRole 判断角色是否为平台级角色（不要求租户归属）
func IsPlatformRole(name string) bool {
	return name == RoleSuperAdmin
}

// RolePermission 角色权限关联表
// OwnScopeOnly 为真时该授权只覆盖本人名下的记录（客户的订单、设计稿）
type RolePermission struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	RoleID       uint      `gorm:"not null;uniqueIndex:idx_role_permission" json:"role_id"`
	PermissionID uint      `gorm:"not null;uniqueIndex:idx_role_permission" json:"permission_id"`
	OwnScopeOnly bool      `gorm:"default:false" json:"own_scope_only"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName 指定表名
func (RolePermission) TableName() string {
	return "role_permissions"
}
