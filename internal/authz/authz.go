package authz

import (
	"fmt"
	"strings"
)

// 拒绝原因常量
const (
	ReasonUnknownRole          = "unknown_role"
	ReasonPermissionNotGranted = "permission_not_granted"
	ReasonTenantMismatch       = "tenant_mismatch"
	ReasonNotOwner             = "not_owner"
)

// Principal 认证后的请求主体
type Principal struct {
	UserID   uint   `json:"user_id"`
	RoleName string `json:"role_name"`
	TenantID *uint  `json:"tenant_id"`
}

// Target 请求目标记录的归属标识，未知的维度传nil表示不参与判定
// PlatformOwned 标记目标是归属平台而非任何租户的记录（如平台模板商品、平台账号），
// 这类记录对租户级角色一律拒绝；租户ID未知和记录无租户归属是两回事，不能都用nil表达
type Target struct {
	TenantID      *uint
	OwnerID       *uint
	PlatformOwned bool
}

// Decision 授权判定结果
// Deny 是正常业务结果而非错误，Reason 用于审计日志和403响应
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason,omitempty"`
}

// Allow 允许
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny 拒绝
func Deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

// Grant 角色对某项能力的授权
// OwnScopeOnly 为真时授权只覆盖本人名下的记录
type Grant struct {
	Resource     string
	Action       string
	OwnScopeOnly bool
}

// RoleInfo 授权判定所需的角色信息
// Global 为真表示不受租户隔离约束（平台级角色）
type RoleInfo struct {
	Name   string
	Global bool
}

// PolicyStore 授权判定依赖的注册表读取接口
// GetRole 对未知角色返回 (nil, nil)，错误仅表示底层读取失败
type PolicyStore interface {
	GetRole(name string) (*RoleInfo, error)
	ListGrants(roleName string) ([]Grant, error)
}

// ScopeFilter 数据可见范围
// Global 为真表示无租户限制；OwnerID 非空表示仅限本人记录
type ScopeFilter struct {
	Global   bool
	TenantID *uint
	OwnerID  *uint
}

// Authorizer 授权判定器：纯读取、无副作用，同一注册表状态下结果确定
type Authorizer struct {
	store PolicyStore
}

// NewAuthorizer 创建授权判定器
func NewAuthorizer(store PolicyStore) *Authorizer {
	return &Authorizer{store: store}
}

// Authorize 执行授权判定
// resourceAction 形如 "orders:read"；判定顺序：角色 → 授权 → 租户隔离 → 所有权
func (a *Authorizer) Authorize(principal Principal, resourceAction string, target Target) (Decision, error) {
	role, err := a.store.GetRole(principal.RoleName)
	if err != nil {
		return Decision{}, err
	}
	if role == nil {
		return Deny(ReasonUnknownRole), nil
	}

	resource, action, err := splitResourceAction(resourceAction)
	if err != nil {
		return Decision{}, err
	}

	grant, err := a.findGrant(principal.RoleName, resource, action)
	if err != nil {
		return Decision{}, err
	}
	if grant == nil {
		return Deny(ReasonPermissionNotGranted), nil
	}

	// 平台级角色不受租户隔离和所有权约束
	if role.Global {
		return Allow(), nil
	}

	// 平台级记录不归属任何租户，租户级角色无权触碰
	if target.PlatformOwned {
		return Deny(ReasonTenantMismatch), nil
	}

	// 租户隔离：目标记录归属其他租户即拒绝
	if target.TenantID != nil {
		if principal.TenantID == nil || *principal.TenantID != *target.TenantID {
			return Deny(ReasonTenantMismatch), nil
		}
	}

	// 所有权：own-scope授权只覆盖本人名下的记录
	if grant.OwnScopeOnly && target.OwnerID != nil {
		if *target.OwnerID != principal.UserID {
			return Deny(ReasonNotOwner), nil
		}
	}

	return Allow(), nil
}

// ResolveScope 计算主体对某资源的可见范围，供列表查询过滤使用
func (a *Authorizer) ResolveScope(principal Principal, resource string) (ScopeFilter, error) {
	role, err := a.store.GetRole(principal.RoleName)
	if err != nil {
		return ScopeFilter{}, err
	}
	if role == nil {
		return ScopeFilter{}, fmt.Errorf("未知角色: %s", principal.RoleName)
	}

	if role.Global {
		return ScopeFilter{Global: true}, nil
	}

	scope := ScopeFilter{TenantID: principal.TenantID}

	// 读授权带own-scope标记时，可见范围进一步收窄到本人记录
	grant, err := a.findGrant(principal.RoleName, resource, "read")
	if err != nil {
		return ScopeFilter{}, err
	}
	if grant != nil && grant.OwnScopeOnly {
		userID := principal.UserID
		scope.OwnerID = &userID
	}

	return scope, nil
}

// findGrant 在角色的授权集中查找指定能力
func (a *Authorizer) findGrant(roleName, resource, action string) (*Grant, error) {
	grants, err := a.store.ListGrants(roleName)
	if err != nil {
		return nil, err
	}
	for i := range grants {
		if grants[i].Resource == resource && grants[i].Action == action {
			return &grants[i], nil
		}
	}
	return nil, nil
}

// splitResourceAction 解析 "resource:action" 编码
func splitResourceAction(resourceAction string) (string, string, error) {
	parts := strings.SplitN(resourceAction, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("非法的资源操作编码: %s", resourceAction)
	}
	return parts[0], parts[1], nil
}
