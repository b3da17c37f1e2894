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
	"gorm.io/datatypes"
)

type CreateDesignRequest struct {
	Name     string         `json:"name" binding:"required"`
	Metadata datatypes.JSON `json:"metadata"`
}

type UpdateDesignRequest struct {
	Name     string         `json:"name"`
	Status   string         `json:"status"`
	Metadata datatypes.JSON `json:"metadata"`
}

type DesignHandler struct {
	service    *services.DesignService
	authorizer *authz.Authorizer
}

func NewDesignHandler(service *services.DesignService, authorizer *authz.Authorizer) *DesignHandler {
	return &DesignHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// Create 上传设计稿（归属当前用户）
func (h *DesignHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if principal.TenantID == nil {
		response.BadRequest(c, "平台账号不能上传设计稿")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "designs:create", authz.Target{
		TenantID: principal.TenantID,
		OwnerID:  &principal.UserID,
	})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	design, err := h.service.Create(*principal.TenantID, principal.UserID, req.Name, req.Metadata)
	if err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, design)
}

// GetAll 获取设计稿列表（按主体可见范围过滤，支持分页）
// 客户只能看到自己的设计稿，生产负责人看到全店设计稿
func (h *DesignHandler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "designs")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	designs, total, err := h.service.GetWithScopeAndPage(scope, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, designs, pageInfo)
}

// GetByID 获取设计稿
func (h *DesignHandler) GetByID(c *gin.Context) {
	design, ok := h.loadAndAuthorize(c, "designs:read")
	if !ok {
		return
	}

	response.Success(c, design)
}

// Update 更新设计稿
func (h *DesignHandler) Update(c *gin.Context) {
	design, ok := h.loadAndAuthorize(c, "designs:update")
	if !ok {
		return
	}

	var req UpdateDesignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	updated, err := h.service.Update(design.ID, req.Name, req.Status, req.Metadata)
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

// Delete 删除设计稿
func (h *DesignHandler) Delete(c *gin.Context) {
	design, ok := h.loadAndAuthorize(c, "designs:delete")
	if !ok {
		return
	}

	if err := h.service.Delete(design.ID); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}

// loadAndAuthorize 加载设计稿并按归属租户和上传人做记录级判定
func (h *DesignHandler) loadAndAuthorize(c *gin.Context, resourceAction string) (*models.Design, bool) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return nil, false
	}

	design, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "设计稿不存在")
		return nil, false
	}

	decision, err := h.authorizer.Authorize(principal, resourceAction, authz.Target{
		TenantID: &design.TenantID,
		OwnerID:  &design.OwnerID,
	})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return nil, false
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return nil, false
	}

	return design, true
}
