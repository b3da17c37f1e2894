package models

import "gorm.io/datatypes"

// Design 设计稿模型
// OwnerID 是上传设计稿的用户，即所有权判定的 owner
type Design struct {
	BaseModel
	Name     string         `json:"name" gorm:"not null;size:255"`
	TenantID uint           `json:"tenant_id" gorm:"not null;index"`
	OwnerID  uint           `json:"owner_id" gorm:"not null;index"`
	FileKey  string         `json:"file_key" gorm:"size:255"`      // 存储层对象键
	Metadata datatypes.JSON `json:"metadata" gorm:"type:jsonb"`    // 尺寸、颜色、页数等设计参数
	Status   string         `json:"status" gorm:"size:20;default:'draft'"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Owner  *User   `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
}

// TableName 表名
func (d *Design) TableName() string {
	return "designs"
}

// 设计稿状态常量
const (
	DesignStatusDraft    = "draft"
	DesignStatusFinal    = "final"
	DesignStatusArchived = "archived"
)
