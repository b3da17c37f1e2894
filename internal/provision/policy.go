package provision

import "letsprint/internal/models"

// RoleSeed 预置角色
type RoleSeed struct {
	Name        string
	Description string
}

// PermissionSeed 预置权限
type PermissionSeed struct {
	Name        string
	Description string
	Resource    string
	Action      string
}

// GrantSeed 预置授权
type GrantSeed struct {
	Role         string
	Permission   string
	OwnScopeOnly bool
}

// ProductSeed 预置示例商品
type ProductSeed struct {
	Name        string
	Description string
	Category    string
	Price       float64
	ImageURL    string
}

// DefaultRoles 四个系统角色
var DefaultRoles = []RoleSeed{
	{Name: models.RoleSuperAdmin, Description: "平台超级管理员，拥有全部权限"},
	{Name: models.RoleBusinessOwner, Description: "商户老板，管理本店用户、商品和订单"},
	{Name: models.RoleProductionOwner, Description: "生产负责人，管理商品和订单生产"},
	{Name: models.RoleClient, Description: "客户，下单并管理自己的设计稿"},
}

// DefaultPermissions 24项预置权限
var DefaultPermissions = []PermissionSeed{
	// 用户管理
	{Name: "create_user", Description: "创建用户", Resource: models.ResourceUsers, Action: models.ActionCreate},
	{Name: "read_user", Description: "查看用户", Resource: models.ResourceUsers, Action: models.ActionRead},
	{Name: "update_user", Description: "更新用户", Resource: models.ResourceUsers, Action: models.ActionUpdate},
	{Name: "delete_user", Description: "停用用户", Resource: models.ResourceUsers, Action: models.ActionDelete},

	// 商品管理
	{Name: "create_product", Description: "创建商品", Resource: models.ResourceProducts, Action: models.ActionCreate},
	{Name: "read_product", Description: "查看商品", Resource: models.ResourceProducts, Action: models.ActionRead},
	{Name: "update_product", Description: "更新商品", Resource: models.ResourceProducts, Action: models.ActionUpdate},
	{Name: "delete_product", Description: "删除商品", Resource: models.ResourceProducts, Action: models.ActionDelete},

	// 订单管理
	{Name: "create_order", Description: "创建订单", Resource: models.ResourceOrders, Action: models.ActionCreate},
	{Name: "read_order", Description: "查看订单", Resource: models.ResourceOrders, Action: models.ActionRead},
	{Name: "update_order", Description: "更新订单", Resource: models.ResourceOrders, Action: models.ActionUpdate},
	{Name: "delete_order", Description: "删除订单", Resource: models.ResourceOrders, Action: models.ActionDelete},
	{Name: "manage_all_orders", Description: "管理全部订单", Resource: models.ResourceOrders, Action: "manage_all"},

	// 设计稿管理
	{Name: "create_design", Description: "上传设计稿", Resource: models.ResourceDesigns, Action: models.ActionCreate},
	{Name: "read_design", Description: "查看设计稿", Resource: models.ResourceDesigns, Action: models.ActionRead},
	{Name: "update_design", Description: "更新设计稿", Resource: models.ResourceDesigns, Action: models.ActionUpdate},
	{Name: "delete_design", Description: "删除设计稿", Resource: models.ResourceDesigns, Action: models.ActionDelete},

	// 租户管理
	{Name: "create_tenant", Description: "创建租户", Resource: models.ResourceTenants, Action: models.ActionCreate},
	{Name: "read_tenant", Description: "查看租户", Resource: models.ResourceTenants, Action: models.ActionRead},
	{Name: "update_tenant", Description: "更新租户", Resource: models.ResourceTenants, Action: models.ActionUpdate},
	{Name: "delete_tenant", Description: "停用租户", Resource: models.ResourceTenants, Action: models.ActionDelete},

	// 系统功能
	{Name: "view_analytics", Description: "查看经营分析", Resource: models.ResourceSystem, Action: "view_analytics"},
	{Name: "manage_settings", Description: "管理系统设置", Resource: models.ResourceSystem, Action: "manage_settings"},
}

// DefaultGrants 除super_admin外的固定授权矩阵
// super_admin 在执行时按权限注册表快照授予全部权限：新增权限后需重跑种子才会补授，
// 不做动态通配，避免schema变更带来意外提权
var DefaultGrants = []GrantSeed{
	// business_owner：本店用户读写（不可停用）、商品全量、订单建改（不可删）、设计稿全量、租户读改、经营分析
	{Role: models.RoleBusinessOwner, Permission: "create_user"},
	{Role: models.RoleBusinessOwner, Permission: "read_user"},
	{Role: models.RoleBusinessOwner, Permission: "update_user"},
	{Role: models.RoleBusinessOwner, Permission: "create_product"},
	{Role: models.RoleBusinessOwner, Permission: "read_product"},
	{Role: models.RoleBusinessOwner, Permission: "update_product"},
	{Role: models.RoleBusinessOwner, Permission: "delete_product"},
	{Role: models.RoleBusinessOwner, Permission: "create_order"},
	{Role: models.RoleBusinessOwner, Permission: "read_order"},
	{Role: models.RoleBusinessOwner, Permission: "update_order"},
	{Role: models.RoleBusinessOwner, Permission: "create_design"},
	{Role: models.RoleBusinessOwner, Permission: "read_design"},
	{Role: models.RoleBusinessOwner, Permission: "update_design"},
	{Role: models.RoleBusinessOwner, Permission: "delete_design"},
	{Role: models.RoleBusinessOwner, Permission: "read_tenant"},
	{Role: models.RoleBusinessOwner, Permission: "update_tenant"},
	{Role: models.RoleBusinessOwner, Permission: "view_analytics"},

	// production_owner：商品全量、订单读改、设计稿只读、经营分析
	{Role: models.RoleProductionOwner, Permission: "create_product"},
	{Role: models.RoleProductionOwner, Permission: "read_product"},
	{Role: models.RoleProductionOwner, Permission: "update_product"},
	{Role: models.RoleProductionOwner, Permission: "delete_product"},
	{Role: models.RoleProductionOwner, Permission: "read_order"},
	{Role: models.RoleProductionOwner, Permission: "update_order"},
	{Role: models.RoleProductionOwner, Permission: "read_design"},
	{Role: models.RoleProductionOwner, Permission: "view_analytics"},

	// client：订单建查（仅限本人）、商品只读、设计稿全量（仅限本人）
	{Role: models.RoleClient, Permission: "create_order", OwnScopeOnly: true},
	{Role: models.RoleClient, Permission: "read_order", OwnScopeOnly: true},
	{Role: models.RoleClient, Permission: "read_product"},
	{Role: models.RoleClient, Permission: "create_design", OwnScopeOnly: true},
	{Role: models.RoleClient, Permission: "read_design", OwnScopeOnly: true},
	{Role: models.RoleClient, Permission: "update_design", OwnScopeOnly: true},
	{Role: models.RoleClient, Permission: "delete_design", OwnScopeOnly: true},
}

// DefaultProducts 8个平台模板商品
var DefaultProducts = []ProductSeed{
	{Name: "Business Cards (100 pcs)", Description: "双面铜版纸名片，350g覆哑膜", Category: "business-cards", Price: 29.99, ImageURL: "/images/products/business-cards.jpg"},
	{Name: "Flyers A5 (500 pcs)", Description: "A5宣传单页，157g铜版纸", Category: "flyers", Price: 89.99, ImageURL: "/images/products/flyers-a5.jpg"},
	{Name: "Posters A2 (10 pcs)", Description: "A2海报，200g铜版纸", Category: "posters", Price: 49.99, ImageURL: "/images/products/posters-a2.jpg"},
	{Name: "Custom T-Shirt", Description: "定制T恤，纯棉数码直喷", Category: "apparel", Price: 19.99, ImageURL: "/images/products/t-shirt.jpg"},
	{Name: "Ceramic Mug 11oz", Description: "定制马克杯，热转印", Category: "gifts", Price: 14.99, ImageURL: "/images/products/mug.jpg"},
	{Name: "Vinyl Banner 3x6 ft", Description: "户外喷绘横幅，带扣眼", Category: "banners", Price: 79.99, ImageURL: "/images/products/banner.jpg"},
	{Name: "Sticker Pack (50 pcs)", Description: "不干胶贴纸，模切任意形状", Category: "stickers", Price: 12.99, ImageURL: "/images/products/stickers.jpg"},
	{Name: "Canvas Print 16x20", Description: "油画布装饰画，实木内框", Category: "wall-art", Price: 59.99, ImageURL: "/images/products/canvas.jpg"},
}
