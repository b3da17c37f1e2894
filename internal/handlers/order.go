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

type CreateOrderRequest struct {
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required"`
	Notes     string `json:"notes"`
	ClientID  *uint  `json:"client_id"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type OrderHandler struct {
	service    *services.OrderService
	authorizer *authz.Authorizer
}

func NewOrderHandler(service *services.OrderService, authorizer *authz.Authorizer) *OrderHandler {
	return &OrderHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// Create 创建订单
// 客户为自己下单；代客下单需要非own-scope的创建授权
func (h *OrderHandler) Create(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	if principal.TenantID == nil {
		response.BadRequest(c, "平台账号不能下单")
		return
	}

	clientID := principal.UserID
	if req.ClientID != nil {
		clientID = *req.ClientID
	}

	decision, err := h.authorizer.Authorize(principal, "orders:create", authz.Target{
		TenantID: principal.TenantID,
		OwnerID:  &clientID,
	})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return
	}

	if req.Quantity <= 0 {
		response.BadRequest(c, "数量必须大于0")
		return
	}

	order, err := h.service.Create(*principal.TenantID, clientID, req.ProductID, req.Quantity, req.Notes)
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

	response.Success(c, order)
}

// GetAll 获取订单列表（按主体可见范围过滤，支持分页）
// 客户只能看到自己的订单，店主看到全店订单
func (h *OrderHandler) GetAll(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "orders")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	pageParams := pagination.ParsePageParams(c)
	status := c.Query("status")

	orders, total, err := h.service.GetWithScopeAndPage(scope, status, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, orders, pageInfo)
}

// GetByID 获取订单
func (h *OrderHandler) GetByID(c *gin.Context) {
	order, ok := h.loadAndAuthorize(c, "orders:read")
	if !ok {
		return
	}

	response.Success(c, order)
}

// UpdateStatus 推进订单状态
func (h *OrderHandler) UpdateStatus(c *gin.Context) {
	order, ok := h.loadAndAuthorize(c, "orders:update")
	if !ok {
		return
	}

	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	updated, err := h.service.UpdateStatus(order.ID, req.Status)
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

// Delete 删除订单
func (h *OrderHandler) Delete(c *gin.Context) {
	order, ok := h.loadAndAuthorize(c, "orders:delete")
	if !ok {
		return
	}

	if err := h.service.Delete(order.ID); err != nil {
		response.ServerError(c, "删除失败")
		return
	}

	response.Success(c, nil)
}

// loadAndAuthorize 加载订单并按归属租户和下单客户做记录级判定
func (h *OrderHandler) loadAndAuthorize(c *gin.Context, resourceAction string) (*models.Order, bool) {
	principal, _ := middleware.GetPrincipal(c)

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		response.BadRequest(c, "ID格式错误")
		return nil, false
	}

	order, err := h.service.GetByID(uint(id))
	if err != nil {
		response.NotFound(c, "订单不存在")
		return nil, false
	}

	decision, err := h.authorizer.Authorize(principal, resourceAction, authz.Target{
		TenantID: &order.TenantID,
		OwnerID:  &order.ClientID,
	})
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return nil, false
	}
	if !decision.Allowed {
		response.Forbidden(c, middleware.DenyMessage(decision.Reason))
		return nil, false
	}

	return order, true
}
