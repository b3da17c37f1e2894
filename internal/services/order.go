package services

import (
	"strings"

	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderService 订单服务
type OrderService struct {
	db *gorm.DB
}

// NewOrderService 创建订单服务
func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建订单：按商品单价计算总额，生成订单号
func (s *OrderService) Create(tenantID, clientID, productID uint, quantity int, notes string) (*models.Order, error) {
	if quantity < 1 {
		return nil, errors.NewValidationError("quantity", "数量必须大于0")
	}

	var product models.Product
	if err := s.db.First(&product, productID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("商品", "")
		}
		return nil, err
	}
	if !product.IsActive {
		return nil, errors.NewValidationError("product_id", "商品已下架")
	}

	order := &models.Order{
		OrderNumber: newOrderNumber(),
		TenantID:    tenantID,
		ClientID:    clientID,
		ProductID:   productID,
		Quantity:    quantity,
		TotalAmount: product.Price * float64(quantity),
		Status:      models.OrderStatusPending,
		Notes:       notes,
	}

	err := s.db.Create(order).Error
	return order, err
}

// GetByID 根据ID获取订单
func (s *OrderService) GetByID(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.Preload("Product").Preload("Client").First(&order, id).Error
	return &order, err
}

// GetWithScopeAndPage 按可见范围分页查询订单
// 客户的own-scope范围会把查询收窄到 client_id = 本人
func (s *OrderService) GetWithScopeAndPage(scope authz.ScopeFilter, status string, page, pageSize int) ([]*models.Order, int64, error) {
	var orders []*models.Order
	var total int64

	query := s.db.Model(&models.Order{})

	// 应用可见范围
	if !scope.Global {
		if scope.TenantID == nil {
			return []*models.Order{}, 0, nil
		}
		query = query.Where("tenant_id = ?", *scope.TenantID)
		if scope.OwnerID != nil {
			query = query.Where("client_id = ?", *scope.OwnerID)
		}
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Preload("Product").Order("created_at DESC").Offset(offset).Limit(pageSize).Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}

	return orders, total, nil
}

// UpdateStatus 更新订单状态
func (s *OrderService) UpdateStatus(id uint, status string) (*models.Order, error) {
	if !isValidOrderStatus(status) {
		return nil, errors.NewValidationError("status", "非法的订单状态")
	}

	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return nil, err
	}

	order.Status = status
	err := s.db.Save(&order).Error
	return &order, err
}

// Delete 删除订单
func (s *OrderService) Delete(id uint) error {
	var order models.Order
	if err := s.db.First(&order, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&order).Error
}

// ========== 内部方法 ==========

// newOrderNumber 生成订单号，如 ORD-1A2B3C4D
func newOrderNumber() string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return "ORD-" + id[:8]
}

func isValidOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending, models.OrderStatusConfirmed,
		models.OrderStatusProduction, models.OrderStatusCompleted,
		models.OrderStatusCancelled:
		return true
	}
	return false
}
