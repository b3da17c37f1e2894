package authz

import (
	"errors"
	"testing"
)

// fakePolicyStore 内存注册表，和种子策略保持一致的缩减版
type fakePolicyStore struct {
	roles  map[string]RoleInfo
	grants map[string][]Grant
	err    error
}

func (f *fakePolicyStore) GetRole(name string) (*RoleInfo, error) {
	if f.err != nil {
		return nil, f.err
	}
	role, ok := f.roles[name]
	if !ok {
		return nil, nil
	}
	return &role, nil
}

func (f *fakePolicyStore) ListGrants(roleName string) ([]Grant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.grants[roleName], nil
}

func uintPtr(v uint) *uint { return &v }

func newTestStore() *fakePolicyStore {
	return &fakePolicyStore{
		roles: map[string]RoleInfo{
			"super_admin":      {Name: "super_admin", Global: true},
			"business_owner":   {Name: "business_owner"},
			"production_owner": {Name: "production_owner"},
			"client":           {Name: "client"},
		},
		grants: map[string][]Grant{
			"super_admin": {
				{Resource: "tenants", Action: "delete"},
				{Resource: "products", Action: "update"},
				{Resource: "orders", Action: "read"},
			},
			"business_owner": {
				{Resource: "products", Action: "update"},
				{Resource: "orders", Action: "read"},
				{Resource: "users", Action: "create"},
			},
			"production_owner": {
				{Resource: "orders", Action: "update"},
			},
			"client": {
				{Resource: "orders", Action: "create", OwnScopeOnly: true},
				{Resource: "orders", Action: "read", OwnScopeOnly: true},
				{Resource: "designs", Action: "read", OwnScopeOnly: true},
				{Resource: "products", Action: "read"},
			},
		},
	}
}

func TestAuthorizeUnknownRole(t *testing.T) {
	a := NewAuthorizer(newTestStore())

	decision, err := a.Authorize(Principal{UserID: 1, RoleName: "ghost"}, "orders:read", Target{})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonUnknownRole {
		t.Fatalf("decision = %+v, 期望 Deny(unknown_role)", decision)
	}
}

func TestAuthorizePermissionNotGranted(t *testing.T) {
	a := NewAuthorizer(newTestStore())
	client := Principal{UserID: 10, RoleName: "client", TenantID: uintPtr(1)}

	decision, err := a.Authorize(client, "tenants:delete", Target{})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonPermissionNotGranted {
		t.Fatalf("decision = %+v, 期望 Deny(permission_not_granted)", decision)
	}
}

func TestAuthorizeTenantIsolation(t *testing.T) {
	a := NewAuthorizer(newTestStore())

	// 租户A的老板操作租户B的商品
	ownerA := Principal{UserID: 2, RoleName: "business_owner", TenantID: uintPtr(1)}
	decision, err := a.Authorize(ownerA, "products:update", Target{TenantID: uintPtr(2)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonTenantMismatch {
		t.Fatalf("decision = %+v, 期望 Deny(tenant_mismatch)", decision)
	}

	// 本租户操作放行
	decision, err = a.Authorize(ownerA, "products:update", Target{TenantID: uintPtr(1)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}
}

func TestAuthorizeOwnScope(t *testing.T) {
	a := NewAuthorizer(newTestStore())
	client := Principal{UserID: 10, RoleName: "client", TenantID: uintPtr(1)}

	// 读取他人订单被拒
	decision, err := a.Authorize(client, "orders:read", Target{TenantID: uintPtr(1), OwnerID: uintPtr(11)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonNotOwner {
		t.Fatalf("decision = %+v, 期望 Deny(not_owner)", decision)
	}

	// 本人订单放行
	decision, err = a.Authorize(client, "orders:read", Target{TenantID: uintPtr(1), OwnerID: uintPtr(10)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}

	// 商品读取无own-scope限制，全租户可见
	decision, err = a.Authorize(client, "products:read", Target{TenantID: uintPtr(1)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}
}

func TestAuthorizePlatformOwnedRecord(t *testing.T) {
	a := NewAuthorizer(newTestStore())
	owner := Principal{UserID: 2, RoleName: "business_owner", TenantID: uintPtr(1)}

	// 平台模板商品不归属任何租户，租户级角色即使持有update授权也不能改
	decision, err := a.Authorize(owner, "products:update", Target{PlatformOwned: true})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonTenantMismatch {
		t.Fatalf("decision = %+v, 期望 Deny(tenant_mismatch)", decision)
	}

	// 平台级角色不受限制
	admin := Principal{UserID: 1, RoleName: "super_admin"}
	decision, err = a.Authorize(admin, "products:update", Target{PlatformOwned: true})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}

	// 租户ID未知（nil）只在路由级门禁出现，不等于平台归属，仍然放行
	decision, err = a.Authorize(owner, "products:update", Target{})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}
}

func TestAuthorizeGlobalRoleSkipsTenantAndOwner(t *testing.T) {
	a := NewAuthorizer(newTestStore())
	admin := Principal{UserID: 1, RoleName: "super_admin"}

	decision, err := a.Authorize(admin, "orders:read", Target{TenantID: uintPtr(5), OwnerID: uintPtr(99)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if !decision.Allowed {
		t.Fatalf("decision = %+v, 期望 Allow", decision)
	}
}

func TestAuthorizeTenantScopedRoleWithoutTenant(t *testing.T) {
	a := NewAuthorizer(newTestStore())

	// 租户级角色缺失租户归属时不得跨入任何租户
	orphan := Principal{UserID: 3, RoleName: "business_owner", TenantID: nil}
	decision, err := a.Authorize(orphan, "orders:read", Target{TenantID: uintPtr(1)})
	if err != nil {
		t.Fatalf("判定失败: %v", err)
	}
	if decision.Allowed || decision.Reason != ReasonTenantMismatch {
		t.Fatalf("decision = %+v, 期望 Deny(tenant_mismatch)", decision)
	}
}

func TestAuthorizeInvalidResourceAction(t *testing.T) {
	a := NewAuthorizer(newTestStore())
	admin := Principal{UserID: 1, RoleName: "super_admin"}

	if _, err := a.Authorize(admin, "orders", Target{}); err == nil {
		t.Fatal("缺少冒号的编码应返回错误")
	}
	if _, err := a.Authorize(admin, ":read", Target{}); err == nil {
		t.Fatal("缺少资源的编码应返回错误")
	}
}

func TestAuthorizeStoreError(t *testing.T) {
	store := newTestStore()
	store.err = errors.New("connection refused")
	a := NewAuthorizer(store)

	if _, err := a.Authorize(Principal{UserID: 1, RoleName: "client"}, "orders:read", Target{}); err == nil {
		t.Fatal("底层读取失败应透传错误而非给出判定")
	}
}

func TestResolveScope(t *testing.T) {
	a := NewAuthorizer(newTestStore())

	// 平台管理员：全局
	scope, err := a.ResolveScope(Principal{UserID: 1, RoleName: "super_admin"}, "orders")
	if err != nil {
		t.Fatalf("解析范围失败: %v", err)
	}
	if !scope.Global {
		t.Fatalf("scope = %+v, 期望 Global", scope)
	}

	// 商户老板：限本租户
	scope, err = a.ResolveScope(Principal{UserID: 2, RoleName: "business_owner", TenantID: uintPtr(1)}, "orders")
	if err != nil {
		t.Fatalf("解析范围失败: %v", err)
	}
	if scope.Global || scope.TenantID == nil || *scope.TenantID != 1 || scope.OwnerID != nil {
		t.Fatalf("scope = %+v, 期望仅限租户1", scope)
	}

	// 客户查订单：限本租户且仅限本人
	scope, err = a.ResolveScope(Principal{UserID: 10, RoleName: "client", TenantID: uintPtr(1)}, "orders")
	if err != nil {
		t.Fatalf("解析范围失败: %v", err)
	}
	if scope.OwnerID == nil || *scope.OwnerID != 10 {
		t.Fatalf("scope = %+v, 期望仅限本人", scope)
	}

	// 客户查商品：限本租户但不限本人
	scope, err = a.ResolveScope(Principal{UserID: 10, RoleName: "client", TenantID: uintPtr(1)}, "products")
	if err != nil {
		t.Fatalf("解析范围失败: %v", err)
	}
	if scope.OwnerID != nil {
		t.Fatalf("scope = %+v, 商品不应限本人", scope)
	}

	// 未知角色报错
	if _, err := a.ResolveScope(Principal{UserID: 1, RoleName: "ghost"}, "orders"); err == nil {
		t.Fatal("未知角色应返回错误")
	}
}
