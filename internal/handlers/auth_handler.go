package handlers

import (
	"strings"
	"time"

	"letsprint/internal/middleware"
	"letsprint/internal/services"
	"letsprint/pkg/jwt"
	"letsprint/pkg/logger"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService *services.UserService
	roleService *services.RoleService
	jwtManager  *jwt.JWTManager
}

func NewAuthHandler(userService *services.UserService, roleService *services.RoleService) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		roleService: roleService,
		jwtManager:  jwt.GetJWTManager(), // 使用全局JWT管理器
	}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token     string   `json:"token"`
	ExpiresAt int64    `json:"expires_at"`
	User      UserInfo `json:"user"`
}

type UserInfo struct {
	ID       uint   `json:"id"`
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	TenantID *uint  `json:"tenant_id"`
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "请求参数错误: "+err.Error())
		return
	}

	// 根据邮箱获取用户
	user, err := h.userService.GetByEmail(req.Email)
	if err != nil {
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	// 检查用户状态
	if !user.IsActive {
		response.Unauthorized(c, "用户已被禁用")
		return
	}

	// 验证密码
	if !user.CheckPassword(req.Password) {
		response.Unauthorized(c, "邮箱或密码错误")
		return
	}

	// 生成Token
	token, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role.Name, user.TenantID)
	if err != nil {
		response.ServerError(c, "生成Token失败")
		return
	}

	// 更新最后登录时间，失败不影响登录流程
	if err := h.userService.UpdateLastLogin(user.ID); err != nil {
		logger.GetLogger().Warnf("更新最后登录时间失败: user=%d error=%v", user.ID, err)
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	resp := LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User: UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			Name:     user.Name,
			Role:     user.Role.Name,
			TenantID: user.TenantID,
		},
	}

	response.Success(c, resp)
}

// Logout 用户登出
func (h *AuthHandler) Logout(c *gin.Context) {
	// Token无状态，服务端无需清理，前端删除本地token即可
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		response.Success(c, gin.H{"message": "登出成功"})
		return
	}

	claims, err := h.jwtManager.VerifyToken(authHeader[7:])
	if err != nil {
		response.Success(c, gin.H{"message": "登出成功"})
		return
	}

	logger.GetLogger().Infof("用户登出: user=%d email=%s", claims.UserID, claims.Email)

	response.Success(c, gin.H{
		"message":     "登出成功",
		"user_id":     claims.UserID,
		"logout_time": time.Now(),
	})
}

// RefreshToken 刷新Token
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		response.Unauthorized(c, "缺少认证头")
		return
	}

	if !strings.HasPrefix(authHeader, "Bearer ") {
		response.Unauthorized(c, "认证头格式错误")
		return
	}

	claims, err := h.jwtManager.VerifyToken(authHeader[7:])
	if err != nil {
		response.Unauthorized(c, "Token无效")
		return
	}

	// 获取用户信息，角色以数据库为准
	user, err := h.userService.GetByID(claims.UserID)
	if err != nil {
		response.Unauthorized(c, "用户不存在")
		return
	}

	if !user.IsActive {
		response.Unauthorized(c, "用户已被禁用")
		return
	}

	newToken, err := h.jwtManager.GenerateToken(user.ID, user.Email, user.Role.Name, user.TenantID)
	if err != nil {
		response.ServerError(c, "生成新Token失败")
		return
	}

	expiresAt := time.Now().Add(h.jwtManager.GetTokenDuration()).Unix()

	response.Success(c, gin.H{
		"token":      newToken,
		"expires_at": expiresAt,
		"message":    "Token刷新成功",
	})
}

// Me 获取当前登录用户的完整信息
func (h *AuthHandler) Me(c *gin.Context) {
	user, ok := middleware.GetCurrentUser(c)
	if !ok {
		response.Unauthorized(c, "未登录")
		return
	}

	// 当前角色的权限名列表；读取失败不能伪装成空权限集
	permissions, err := h.roleService.ListPermissions(user.Role.Name)
	if err != nil {
		logger.GetLogger().Warnf("读取角色权限失败, role=%s: %v", user.Role.Name, err)
		response.ServerError(c, "查询失败")
		return
	}

	responseData := gin.H{
		"user": gin.H{
			"id":            user.ID,
			"email":         user.Email,
			"name":          user.Name,
			"tenant_id":     user.TenantID,
			"is_active":     user.IsActive,
			"created_at":    user.CreatedAt,
			"last_login_at": user.LastLoginAt,
		},
		"role": gin.H{
			"id":          user.Role.ID,
			"name":        user.Role.Name,
			"description": user.Role.Description,
		},
		"permissions": permissions,
	}

	if user.Tenant != nil {
		responseData["tenant"] = gin.H{
			"id":   user.Tenant.ID,
			"name": user.Tenant.Name,
			"slug": user.Tenant.Slug,
		}
	}

	response.Success(c, responseData)
}
