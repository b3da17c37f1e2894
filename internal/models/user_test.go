package models

import "testing"

func TestSetAndCheckPassword(t *testing.T) {
	user := &User{}
	if err := user.SetPassword("Client@2024"); err != nil {
		t.Fatalf("设置密码失败: %v", err)
	}
	if user.PasswordHash == "" || user.PasswordHash == "Client@2024" {
		t.Fatal("密码应以哈希形式存储")
	}

	if !user.CheckPassword("Client@2024") {
		t.Fatal("正确密码校验失败")
	}
	if user.CheckPassword("wrong-password") {
		t.Fatal("错误密码不应通过校验")
	}
}

func TestPermissionCode(t *testing.T) {
	p := &Permission{Name: "create_order", Resource: ResourceOrders, Action: ActionCreate}
	if got := p.Code(); got != "orders:create" {
		t.Fatalf("Code() = %s, 期望 orders:create", got)
	}
}

func TestIsPlatformRole(t *testing.T) {
	if !IsPlatformRole(RoleSuperAdmin) {
		t.Fatal("super_admin 应为平台级角色")
	}
	for _, name := range []string{RoleBusinessOwner, RoleProductionOwner, RoleClient} {
		if IsPlatformRole(name) {
			t.Fatalf("%s 不应为平台级角色", name)
		}
	}
}
