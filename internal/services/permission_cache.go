package services

import (
	"context"
	"encoding/json"
	"time"

	"letsprint/internal/authz"
	"letsprint/pkg/logger"

	"github.com/go-redis/redis/v8"
)

// 权限缓存有效期：授权表只在种子和管理端变更时写入，短TTL即可兜底漏删
const permissionCacheTTL = 5 * time.Minute

// PermissionCache 角色授权集的Redis缓存
// 授权判定在每个请求上都要读授权集，缓存避免每次都打两条join查询
type PermissionCache struct {
	client *redis.Client
	prefix string
}

// NewPermissionCache 创建权限缓存
func NewPermissionCache(client *redis.Client, prefix string) *PermissionCache {
	return &PermissionCache{client: client, prefix: prefix}
}

// Get 读取角色授权集，未命中或反序列化失败返回 (nil, false)
func (c *PermissionCache) Get(roleName string) ([]authz.Grant, bool) {
	data, err := c.client.Get(context.Background(), c.key(roleName)).Bytes()
	if err != nil {
		return nil, false
	}

	var grants []authz.Grant
	if err := json.Unmarshal(data, &grants); err != nil {
		logger.GetLogger().Warnf("权限缓存反序列化失败, role=%s: %v", roleName, err)
		return nil, false
	}
	return grants, true
}

// Set 写入角色授权集，失败只记日志不影响主流程
func (c *PermissionCache) Set(roleName string, grants []authz.Grant) {
	data, err := json.Marshal(grants)
	if err != nil {
		return
	}
	if err := c.client.Set(context.Background(), c.key(roleName), data, permissionCacheTTL).Err(); err != nil {
		logger.GetLogger().Warnf("权限缓存写入失败, role=%s: %v", roleName, err)
	}
}

// Invalidate 失效角色授权集，授权变更（grant/revoke）后调用
func (c *PermissionCache) Invalidate(roleName string) {
	if err := c.client.Del(context.Background(), c.key(roleName)).Err(); err != nil {
		logger.GetLogger().Warnf("权限缓存删除失败, role=%s: %v", roleName, err)
	}
}

func (c *PermissionCache) key(roleName string) string {
	return c.prefix + ":perms:" + roleName
}
