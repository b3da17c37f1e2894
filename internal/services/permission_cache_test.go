package services

import (
	"testing"

	"letsprint/internal/authz"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

func newTestCache(t *testing.T) *PermissionCache {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewPermissionCache(client, "letsprint:cache")
}

func TestPermissionCacheSetGet(t *testing.T) {
	cache := newTestCache(t)

	grants := []authz.Grant{
		{Resource: "orders", Action: "create", OwnScopeOnly: true},
		{Resource: "products", Action: "read"},
	}
	cache.Set("client", grants)

	got, ok := cache.Get("client")
	if !ok {
		t.Fatal("写入后读取应命中")
	}
	if len(got) != 2 {
		t.Fatalf("授权数 = %d, 期望 2", len(got))
	}
	if got[0].Resource != "orders" || !got[0].OwnScopeOnly {
		t.Fatalf("grants[0] = %+v, own-scope标记丢失", got[0])
	}
}

func TestPermissionCacheMiss(t *testing.T) {
	cache := newTestCache(t)

	if _, ok := cache.Get("business_owner"); ok {
		t.Fatal("未写入的角色不应命中")
	}
}

func TestPermissionCacheInvalidate(t *testing.T) {
	cache := newTestCache(t)

	cache.Set("client", []authz.Grant{{Resource: "orders", Action: "read", OwnScopeOnly: true}})
	cache.Invalidate("client")

	if _, ok := cache.Get("client"); ok {
		t.Fatal("失效后不应命中")
	}
}

func TestPermissionCacheRoleIsolation(t *testing.T) {
	cache := newTestCache(t)

	cache.Set("client", []authz.Grant{{Resource: "orders", Action: "read", OwnScopeOnly: true}})
	cache.Set("production_owner", []authz.Grant{{Resource: "orders", Action: "update"}})
	cache.Invalidate("client")

	if _, ok := cache.Get("production_owner"); !ok {
		t.Fatal("失效一个角色不应影响其他角色")
	}
}
