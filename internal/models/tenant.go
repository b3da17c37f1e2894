package models

// Tenant 租户模型 - 一个打印店商户即一个租户
type Tenant struct {
	BaseModel
	Name     string  `json:"name" gorm:"not null;size:100"`
	Slug     string  `json:"slug" gorm:"unique;not null;size:50;index"`
	Domain   *string `json:"domain" gorm:"size:100"` // 自定义域名，可选
	IsActive bool    `json:"is_active" gorm:"default:true"`

	UserCount int `json:"user_count" gorm:"-"` // 用户数量，不存储在数据库中
}

// TableName 表名
func (t *Tenant) TableName() string {
	return "tenants"
}
