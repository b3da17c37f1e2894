package middleware

import (
	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/internal/services"
	"letsprint/pkg/jwt"
	"letsprint/pkg/response"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// AuthMiddleware 认证与授权中间件
type AuthMiddleware struct {
	userService *services.UserService
	authorizer  *authz.Authorizer
	jwtManager  *jwt.JWTManager
}

func NewAuthMiddleware(db *gorm.DB, authorizer *authz.Authorizer) *AuthMiddleware {
	return &AuthMiddleware{
		userService: services.NewUserService(db),
		authorizer:  authorizer,
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

// RequireLogin 校验JWT并将当前用户写入上下文
func (m *AuthMiddleware) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 从Authorization头获取JWT token
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		// 检查Bearer格式
		if !strings.HasPrefix(authHeader, "Bearer ") {
			response.Unauthorized(c, "认证头格式错误")
			c.Abort()
			return
		}

		tokenString := authHeader[7:] // 去掉 "Bearer "

		claims, err := m.jwtManager.VerifyToken(tokenString)
		if err != nil {
			response.Unauthorized(c, "Token无效或已过期")
			c.Abort()
			return
		}

		// 获取用户信息
		user, err := m.userService.GetByID(claims.UserID)
		if err != nil {
			response.Unauthorized(c, "用户不存在")
			c.Abort()
			return
		}

		// 停用的用户不再放行，即使token尚未过期
		if !user.IsActive {
			response.Unauthorized(c, "用户已被禁用")
			c.Abort()
			return
		}

		// 角色与租户以数据库为准，token签发后的变更立即生效
		c.Set("user", user)
		c.Set("user_id", user.ID)
		c.Set("principal", authz.Principal{
			UserID:   user.ID,
			RoleName: user.Role.Name,
			TenantID: user.TenantID,
		})

		c.Next()
	}
}

// RequirePermission 路由级权限门禁，只判能力不判具体记录
// 记录级的租户和归属校验由handler在加载记录后完成
func (m *AuthMiddleware) RequirePermission(resourceAction string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		decision, err := m.authorizer.Authorize(principal, resourceAction, authz.Target{})
		if err != nil {
			response.ServerError(c, "权限检查失败")
			c.Abort()
			return
		}

		if !decision.Allowed {
			response.Forbidden(c, DenyMessage(decision.Reason))
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequirePlatformRole 仅平台级角色可通过
func (m *AuthMiddleware) RequirePlatformRole() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipal(c)
		if !ok {
			response.Unauthorized(c, "请先登录")
			c.Abort()
			return
		}

		if !models.IsPlatformRole(principal.RoleName) {
			response.Forbidden(c, "需要平台管理员权限")
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetPrincipal 从上下文取出当前访问主体
func GetPrincipal(c *gin.Context) (authz.Principal, bool) {
	value, exists := c.Get("principal")
	if !exists {
		return authz.Principal{}, false
	}
	principal, ok := value.(authz.Principal)
	return principal, ok
}

// GetCurrentUser 从上下文取出当前用户
func GetCurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get("user")
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

// DenyMessage 将拒绝原因翻译为响应消息
func DenyMessage(reason string) string {
	switch reason {
	case authz.ReasonUnknownRole:
		return "角色不存在或已停用"
	case authz.ReasonPermissionNotGranted:
		return "权限不足"
	case authz.ReasonTenantMismatch:
		return "无权访问其他租户的数据"
	case authz.ReasonNotOwner:
		return "只能操作自己的资源"
	default:
		return "访问被拒绝"
	}
}
