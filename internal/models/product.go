package models

// Product 商品模型
// TenantID 为空表示平台级模板商品，租户可在此基础上建立自己的商品目录
type Product struct {
	BaseModel
	Name        string  `json:"name" gorm:"not null;size:255;index"`
	Description string  `json:"description" gorm:"type:text"`
	Category    string  `json:"category" gorm:"size:100;index"`
	Price       float64 `json:"price" gorm:"not null"`
	ImageURL    string  `json:"image_url" gorm:"size:255"`
	IsActive    bool    `json:"is_active" gorm:"default:true"`
	TenantID    *uint   `json:"tenant_id" gorm:"index"`

	Tenant *Tenant `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
}

// TableName 表名
func (p *Product) TableName() string {
	return "products"
}
