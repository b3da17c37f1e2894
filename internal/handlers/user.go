package handlers

import (
	"strconv"

	"letsprint/internal/authz"
	"letsprint/internal/middleware"
	"letsprint/internal/models"
	"letsprint/internal/services"
	"letsprint/pkg/errors"
	"letsprint/pkg/pagination"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateUserRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Role     string `json:"role" binding:"required"`
	TenantID *uint  `json:"tenant_id"`
}

type UpdateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	NewPassword string `json:"new_password" binding:"required"`
}

type UserHandler struct {
	service    *services.UserService
	authorizer *authz.Authorizer
}

func NewUserHandler(service *services.UserService, authorizer *authz.Authorizer) *UserHandler {
	return &UserHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// userTarget 构造用户记录操作的判定目标
// 平台账号（tenant_id为空，如超级管理员）标记为平台归属，租户级角色不可读改
func userTarget(user *models.User) authz.Target {
	if user.TenantID == nil {
		return authz.Target{PlatformOwned: true}
	}
	return authz.Target{TenantID: user.TenantID}
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
func (h *UserHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	// 租户级主体只能在自己的租户下建用户；平台级角色的账号只有平台能建
	tenantID := req.TenantID
	if tenantID == nil {
		tenantID = principal.TenantID
	}
	target := authz.Target{TenantID: tenantID}
	if models.IsPlatformRole(req.Role) {
		target = authz.Target{PlatformOwned: true}
	}
	decision, err := h.authorizer.Authorize(principal, "users:create", target)
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if err := h.service.ValidateCreateParams(req.Email, req.Password, req.Name); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.service.Create(req.Email, req.Password, req.Name, req.Role, tenantID)
	if err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		if errors.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, user)
}

// GetAll 获取用户列表（按主体可见范围过滤，支持分页）
func (h *UserHandler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "users")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")

	users, total, err := h.service.GetWithScopeAndPage(scope, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, users, pageInfo)
}

// GetByID 获取用户
func (h *UserHandler) GetByID(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	// 记录级校验：加载记录后按归属租户判定
	decision, err := h.authorizer.Authorize(principal, "users:read", userTarget(user))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	response.Success(c, user)
}

// Update 更新用户
func (h *UserHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "users:update", userTarget(user))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if err := h.service.ValidateUpdateParams(req.Name, req.Email); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.service.Update(uint(id), req.Name, req.Email)
	if err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "更新失败")
		return
	}

	response.Success(c, updated)
}

// Deactivate 停用用户（软删除，保留记录）
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.setActive(c, false)
}

// Activate 恢复用户
func (h *UserHandler) Activate(c *gin.Context) {
	h.setActive(c, true)
}

func (h *UserHandler) setActive(c *gin.Context, active bool) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "users:delete", userTarget(user))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	var updated interface{}
	if active {
		updated, err = h.service.Activate(uint(id))
	} else {
		updated, err = h.service.Deactivate(uint(id))
	}
	if err != nil {
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, updated)
}

// ResetPassword 重置用户密码
func (h *UserHandler) ResetPassword(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	user, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "用户不存在")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "users:update", userTarget(user))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if err := h.service.ResetPassword(uint(id), req.NewPassword); err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "重置失败")
		return
	}

	response.Success(c, gin.H{"message": "密码重置成功"})
}
