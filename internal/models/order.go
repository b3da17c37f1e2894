package models

// Order 订单模型
// ClientID 是下单客户，即所有权判定的 owner
type Order struct {
	BaseModel
	OrderNumber string  `json:"order_number" gorm:"unique;not null;size:50;index"`
	TenantID    uint    `json:"tenant_id" gorm:"not null;index"`
	ClientID    uint    `json:"client_id" gorm:"not null;index"`
	ProductID   uint    `json:"product_id" gorm:"not null"`
	Quantity    int     `json:"quantity" gorm:"default:1"`
	TotalAmount float64 `json:"total_amount" gorm:"not null"`
	Status      string  `json:"status" gorm:"size:20;default:'pending'"`
	Notes       string  `json:"notes" gorm:"type:text"`

	Tenant  *Tenant  `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	Client  *User    `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Product *Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// TableName 表名
func (o *Order) TableName() string {
	return "orders"
}

// 订单状态常量
const (
	OrderStatusPending    = "pending"
	OrderStatusConfirmed  = "confirmed"
	OrderStatusProduction = "production"
	OrderStatusCompleted  = "completed"
	OrderStatusCancelled  = "cancelled"
)
