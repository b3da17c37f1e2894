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

type CreateProductRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required"`
	ImageURL    string  `json:"image_url"`
	TenantID    *uint   `json:"tenant_id"`
}

type UpdateProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
}

type ProductHandler struct {
	service    *services.ProductService
	authorizer *authz.Authorizer
}

func NewProductHandler(service *services.ProductService, authorizer *authz.Authorizer) *ProductHandler {
	return &ProductHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// mutationTarget 构造商品改动操作的判定目标
// 平台模板商品（tenant_id为空）标记为平台归属：租户级角色可以读模板，但改和删只属于平台
func mutationTarget(product *models.Product) authz.Target {
	if product.TenantID == nil {
		return authz.Target{PlatformOwned: true}
	}
	return authz.Target{TenantID: product.TenantID}
}

// Create 创建商品
// 平台级主体可建平台模板商品（tenant_id为空），租户级主体只能建本店商品
func (h *ProductHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	tenantID := req.TenantID
	if tenantID == nil {
		tenantID = principal.TenantID
	}
	decision, err := h.authorizer.Authorize(principal, "products:create", authz.Target{TenantID: tenantID})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if err := h.service.ValidateCreateParams(req.Name, req.Price); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	product, err := h.service.Create(tenantID, req.Name, req.Description, req.Category, req.Price, req.ImageURL)
	if err != nil {
		response.ServerError(c, "创建失败")
		return
	}

	response.Success(c, product)
}

// GetAll 获取商品列表（本店商品 + 平台模板，支持分页）
func (h *ProductHandler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "products")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	category := c.Query("category")
	keyword := c.Query("keyword")

	products, total, err := h.service.GetWithScopeAndPage(scope, category, keyword, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, products, pageInfo)
}

// GetByID 获取商品
func (h *ProductHandler) GetByID(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	product, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "商品不存在")
		return
	}

	// 平台模板商品（tenant_id为空）任何角色可读
	decision, err := h.authorizer.Authorize(principal, "products:read", authz.Target{TenantID: product.TenantID})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	response.Success(c, product)
}

// Update 更新商品
func (h *ProductHandler) Update(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	var req UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	product, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "商品不存在")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "products:update", mutationTarget(product))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	updated, err := h.service.Update(uint(id), req.Name, req.Description, req.Category, req.Price, req.ImageURL)
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

// Delete 删除商品
func (h *ProductHandler) Delete(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return
	}

	product, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "商品不存在")
		return
	}

	decision, err := h.authorizer.Authorize(principal, "products:delete", mutationTarget(product))
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if err := h.service.Delete(uint(id)); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}
