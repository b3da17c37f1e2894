package models

// Permission 权限模型
// Name 是唯一身份标识（如 "create_order"），Resource+Action 表达能力本身（orders + create）
type Permission struct {
	BaseModel
	Name        string `gorm:"uniqueIndex;size:100;not null" json:"name"` // 权限名，如 "create_order"
	Description string `gorm:"size:255" json:"description"`               // 权限描述
	Resource    string `gorm:"size:50;not null;index" json:"resource"`    // 资源，如 "orders"
	Action      string `gorm:"size:50;not null" json:"action"`            // 操作，如 "create"
}

// Code 返回 "resource:action" 形式的能力编码，供授权判定使用
func (p *Permission) Code() string {
	return p.Resource + ":" + p.Action
}

// 资源常量
const (
	ResourceUsers    = "users"
	ResourceProducts = "products"
	ResourceOrders   = "orders"
	ResourceDesigns  = "designs"
	ResourceTenants  = "tenants"
	ResourceSystem   = "system"
)

// 操作常量
const (
	ActionCreate = "create" // 创建
	ActionRead   = "read"   // 读取
	ActionUpdate = "update" // 更新
	ActionDelete = "delete" // 删除
)
