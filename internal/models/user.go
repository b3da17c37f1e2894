package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型
// 每个用户只有一个角色；平台级角色（super_admin）的 TenantID 为空，租户级角色必须归属某个租户
type User struct {
	BaseModel
	Email         string     `json:"email" gorm:"unique;not null;size:100;index"`
	PasswordHash  string     `json:"-" gorm:"not null;size:255"`
	Name          string     `json:"name" gorm:"not null;size:100"`
	RoleID        uint       `json:"role_id" gorm:"not null;index"`
	TenantID      *uint      `json:"tenant_id" gorm:"index"`
	IsActive      bool       `json:"is_active" gorm:"default:true"`
	EmailVerified bool       `json:"email_verified" gorm:"default:false"`
	LastLoginAt   *time.Time `json:"last_login_at"`

	// 关联关系
	Role   *Role   `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName 表名
func (u *User) TableName() string {
	return "users"
}

// SetPassword 设置密码 - 数据操作方法
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword 验证密码 - 数据操作方法
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}
