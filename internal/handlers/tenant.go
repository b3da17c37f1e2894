package handlers

import (
	"strconv"

	"letsprint/internal/authz"
	"letsprint/internal/middleware"
	"letsprint/internal/services"
	"letsprint/pkg/errors"
	"letsprint/pkg/pagination"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type CreateTenantRequest struct {
	Name   string  `json:"name" binding:"required"`
	Slug   string  `json:"slug" binding:"required"`
	Domain *string `json:"domain"`
}

type UpdateTenantRequest struct {
	Name   string  `json:"name"`
	Domain *string `json:"domain"`
}

type TenantHandler struct {
	service    *services.TenantService
	authorizer *authz.Authorizer
}

func NewTenantHandler(service *services.TenantService, authorizer *authz.Authorizer) *TenantHandler {
	return &TenantHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// Create 创建租户（仅平台级角色，路由层已用 tenants:create 把关）
func (h *TenantHandler) Create(c *gin.Context) {
	var req CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if err := h.service.ValidateCreateParams(req.Name, req.Slug); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	tenant, err := h.service.Create(req.Name, req.Slug, req.Domain)
	if err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, tenant)
}

// GetAll 获取租户列表（支持分页）
// 租户级主体只能看到自己的租户
func (h *TenantHandler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "tenants")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !scope.Global {
		if scope.TenantID == nil {
			response.Success(c, []interface{}{})
			return
		}
		tenant, err := h.service.GetByID(*scope.TenantID)
		if err != nil {
			response.NotFound(c, "租户不存在")
			return
		}
		response.Success(c, []interface{}{tenant})
		return
	}

	pageParams := pagination.ParsePageParams(c)
	keyword := c.Query("keyword")

	tenants, total, err := h.service.GetWithFiltersAndPage(keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, tenants, pageInfo)
}

// GetByID 获取租户
func (h *TenantHandler) GetByID(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}

	// 租户级主体只能看自己的租户
	tenantID := tenant.ID
	decision, err := h.authorizer.Authorize(principal, "tenants:read", authz.Target{TenantID: &tenantID})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	response.Success(c, tenant)
}

// Update 更新租户
func (h *TenantHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenant, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "租户不存在")
		return
	}

	tenantID := tenant.ID
	decision, err := h.authorizer.Authorize(principal, "tenants:update", authz.Target{TenantID: &tenantID})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	updated, err := h.service.Update(uint(id), req.Name, req.Domain)
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

// Deactivate 停用租户（软删除，保留数据）
func (h *TenantHandler) Deactivate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, err := h.service.Deactivate(uint(id))
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, "租户不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, tenant)
}

// Activate 恢复租户
func (h *TenantHandler) Activate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	tenant, err := h.service.Activate(uint(id))
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, "租户不存在")
			return
		}
		response.ServerError(c, "操作失败")
		return
	}

	response.Success(c, tenant)
}
