package jwt

import (
	"testing"
	"time"
)

const testSecret = "unit-test-secret-key-32-bytes!!!"

func uintPtr(v uint) *uint { return &v }

func TestGenerateAndVerifyToken(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	token, err := manager.GenerateToken(7, "owner@letsprint.com", "business_owner", uintPtr(3))
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	claims, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("验证token失败: %v", err)
	}
	if claims.UserID != 7 {
		t.Fatalf("user_id = %d, 期望 7", claims.UserID)
	}
	if claims.RoleName != "business_owner" {
		t.Fatalf("role_name = %s, 期望 business_owner", claims.RoleName)
	}
	if claims.TenantID == nil || *claims.TenantID != 3 {
		t.Fatalf("tenant_id = %v, 期望 3", claims.TenantID)
	}
	if claims.Email != "owner@letsprint.com" {
		t.Fatalf("email = %s", claims.Email)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)
	other := NewJWTManager("another-secret-entirely-32-bytes", time.Hour)

	token, err := manager.GenerateToken(1, "admin@letsprint.com", "super_admin", nil)
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	if _, err := other.VerifyToken(token); err == nil {
		t.Fatal("错误密钥验证应失败")
	}
}

func TestVerifyExpiredToken(t *testing.T) {
	manager := NewJWTManager(testSecret, -time.Minute)

	token, err := manager.GenerateToken(1, "admin@letsprint.com", "super_admin", nil)
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	if _, err := manager.VerifyToken(token); err == nil {
		t.Fatal("过期token验证应失败")
	}
}

func TestPlatformRoleHasNoTenant(t *testing.T) {
	manager := NewJWTManager(testSecret, time.Hour)

	token, err := manager.GenerateToken(1, "admin@letsprint.com", "super_admin", nil)
	if err != nil {
		t.Fatalf("生成token失败: %v", err)
	}

	claims, err := manager.VerifyToken(token)
	if err != nil {
		t.Fatalf("验证token失败: %v", err)
	}
	if claims.TenantID != nil {
		t.Fatalf("平台级角色tenant_id应为空, 实际 %v", *claims.TenantID)
	}
}
