package provision

import (
	"testing"

	"letsprint/internal/models"
)

func grantNames(role string) map[string]GrantSeed {
	out := make(map[string]GrantSeed)
	for _, grant := range DefaultGrants {
		if grant.Role == role {
			out[grant.Permission] = grant
		}
	}
	return out
}

func TestDefaultRolesCount(t *testing.T) {
	if len(DefaultRoles) != 4 {
		t.Fatalf("角色数 = %d, 期望 4", len(DefaultRoles))
	}

	seen := make(map[string]bool)
	for _, role := range DefaultRoles {
		if role.Name == "" {
			t.Fatal("角色名不能为空")
		}
		if seen[role.Name] {
			t.Fatalf("角色名重复: %s", role.Name)
		}
		seen[role.Name] = true
	}

	for _, name := range []string{
		models.RoleSuperAdmin, models.RoleBusinessOwner,
		models.RoleProductionOwner, models.RoleClient,
	} {
		if !seen[name] {
			t.Fatalf("缺少预置角色: %s", name)
		}
	}
}

func TestDefaultPermissionsCount(t *testing.T) {
	if len(DefaultPermissions) != 24 {
		t.Fatalf("权限数 = %d, 期望 24", len(DefaultPermissions))
	}

	// 名称唯一，resource/action齐全
	seen := make(map[string]bool)
	byResource := make(map[string]int)
	for _, permission := range DefaultPermissions {
		if permission.Name == "" || permission.Resource == "" || permission.Action == "" {
			t.Fatalf("权限字段不完整: %+v", permission)
		}
		if seen[permission.Name] {
			t.Fatalf("权限名重复: %s", permission.Name)
		}
		seen[permission.Name] = true
		byResource[permission.Resource]++
	}

	// 各资源的权限数分布
	expected := map[string]int{
		models.ResourceUsers:    4,
		models.ResourceProducts: 4,
		models.ResourceOrders:   5,
		models.ResourceDesigns:  4,
		models.ResourceTenants:  4,
		models.ResourceSystem:   2,
	}
	for resource, count := range expected {
		if byResource[resource] != count {
			t.Fatalf("资源 %s 的权限数 = %d, 期望 %d", resource, byResource[resource], count)
		}
	}
}

func TestGrantsReferenceDefinedNames(t *testing.T) {
	roles := make(map[string]bool)
	for _, role := range DefaultRoles {
		roles[role.Name] = true
	}
	permissions := make(map[string]bool)
	for _, permission := range DefaultPermissions {
		permissions[permission.Name] = true
	}

	// 授权矩阵里的每个名字都必须在注册表中定义，写错名字要在这里被抓住
	for _, grant := range DefaultGrants {
		if !roles[grant.Role] {
			t.Fatalf("授权引用了未定义的角色: %s", grant.Role)
		}
		if !permissions[grant.Permission] {
			t.Fatalf("授权引用了未定义的权限: %s", grant.Permission)
		}
	}
}

func TestBusinessOwnerGrantSet(t *testing.T) {
	grants := grantNames(models.RoleBusinessOwner)

	expected := []string{
		"create_user", "read_user", "update_user",
		"create_product", "read_product", "update_product", "delete_product",
		"create_order", "read_order", "update_order",
		"create_design", "read_design", "update_design", "delete_design",
		"read_tenant", "update_tenant",
		"view_analytics",
	}
	if len(grants) != len(expected) {
		t.Fatalf("business_owner 授权数 = %d, 期望 %d", len(grants), len(expected))
	}
	for _, name := range expected {
		if _, ok := grants[name]; !ok {
			t.Fatalf("business_owner 缺少授权: %s", name)
		}
	}

	// 老板不能停用用户、不能删订单、不能动租户生命周期
	for _, name := range []string{"delete_user", "delete_order", "create_tenant", "delete_tenant", "manage_all_orders", "manage_settings"} {
		if _, ok := grants[name]; ok {
			t.Fatalf("business_owner 不应拥有授权: %s", name)
		}
	}
}

func TestProductionOwnerGrantSet(t *testing.T) {
	grants := grantNames(models.RoleProductionOwner)

	expected := []string{
		"create_product", "read_product", "update_product", "delete_product",
		"read_order", "update_order",
		"read_design",
		"view_analytics",
	}
	if len(grants) != len(expected) {
		t.Fatalf("production_owner 授权数 = %d, 期望 %d", len(grants), len(expected))
	}
	for _, name := range expected {
		if _, ok := grants[name]; !ok {
			t.Fatalf("production_owner 缺少授权: %s", name)
		}
	}
}

func TestClientGrantSet(t *testing.T) {
	grants := grantNames(models.RoleClient)

	expected := []string{
		"create_order", "read_order",
		"read_product",
		"create_design", "read_design", "update_design", "delete_design",
	}
	if len(grants) != len(expected) {
		t.Fatalf("client 授权数 = %d, 期望 %d", len(grants), len(expected))
	}
	for _, name := range expected {
		if _, ok := grants[name]; !ok {
			t.Fatalf("client 缺少授权: %s", name)
		}
	}

	// 订单和设计稿的授权仅限本人，商品浏览不限
	for name, grant := range grants {
		if name == "read_product" {
			if grant.OwnScopeOnly {
				t.Fatal("read_product 不应限本人")
			}
			continue
		}
		if !grant.OwnScopeOnly {
			t.Fatalf("client 的授权 %s 应仅限本人", name)
		}
	}
}

func TestSuperAdminHasNoFixedGrants(t *testing.T) {
	// super_admin 在种子执行时按注册表快照全量授予，不在固定矩阵里
	if grants := grantNames(models.RoleSuperAdmin); len(grants) != 0 {
		t.Fatalf("super_admin 不应出现在固定授权矩阵中, 实际 %d 条", len(grants))
	}
}

func TestDefaultProducts(t *testing.T) {
	if len(DefaultProducts) != 8 {
		t.Fatalf("示例商品数 = %d, 期望 8", len(DefaultProducts))
	}

	first := DefaultProducts[0]
	if first.Name != "Business Cards (100 pcs)" {
		t.Fatalf("首个商品 = %s, 期望 Business Cards (100 pcs)", first.Name)
	}
	if first.Price != 29.99 {
		t.Fatalf("首个商品价格 = %v, 期望 29.99", first.Price)
	}

	// 同名商品会被种子跳过，因此名称必须唯一
	seen := make(map[string]bool)
	for _, product := range DefaultProducts {
		if product.Price <= 0 {
			t.Fatalf("商品 %s 价格非法: %v", product.Name, product.Price)
		}
		if seen[product.Name] {
			t.Fatalf("商品名重复: %s", product.Name)
		}
		seen[product.Name] = true
	}
}
