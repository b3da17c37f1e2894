package services

import (
	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"gorm.io/gorm"
)

// ProductService 商品服务
type ProductService struct {
	db *gorm.DB
}

// NewProductService 创建商品服务
func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{db: db}
}

// ========== 基础CRUD方法 ==========

// Create 创建商品，tenantID为空表示平台模板商品
func (s *ProductService) Create(tenantID *uint, name, description, category string, price float64, imageURL string) (*models.Product, error) {
	if err := s.ValidateCreateParams(name, price); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        name,
		Description: description,
		Category:    category,
		Price:       price,
		ImageURL:    imageURL,
		IsActive:    true,
		TenantID:    tenantID,
	}

	err := s.db.Create(product).Error
	return product, err
}

// GetByID 根据ID获取商品
func (s *ProductService) GetByID(id uint) (*models.Product, error) {
	var product models.Product
	err := s.db.First(&product, id).Error
	return &product, err
}

// GetWithScopeAndPage 按可见范围分页查询商品
// 租户范围下除本店商品外还能看到平台模板商品（tenant_id为空）
func (s *ProductService) GetWithScopeAndPage(scope authz.ScopeFilter, category, keyword string, page, pageSize int) ([]*models.Product, int64, error) {
	var products []*models.Product
	var total int64

	query := s.db.Model(&models.Product{})

	// 应用可见范围
	if !scope.Global {
		if scope.TenantID == nil {
			return []*models.Product{}, 0, nil
		}
		query = query.Where("tenant_id = ? OR tenant_id IS NULL", *scope.TenantID)
	}

	if category != "" {
		query = query.Where("category = ?", category)
	}
	if keyword != "" {
		query = query.Where("name LIKE ?", "%"+keyword+"%")
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Order("id").Offset(offset).Limit(pageSize).Find(&products).Error
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// Update 更新商品
func (s *ProductService) Update(id uint, name, description, category string, price float64, imageURL string) (*models.Product, error) {
	if err := s.ValidateCreateParams(name, price); err != nil {
		return nil, err
	}

	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, err
	}

	product.Name = name
	product.Description = description
	product.Category = category
	product.Price = price
	product.ImageURL = imageURL

	err := s.db.Save(&product).Error
	return &product, err
}

// Delete 删除商品
func (s *ProductService) Delete(id uint) error {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return err
	}
	return s.db.Delete(&product).Error
}

// Deactivate 下架商品
func (s *ProductService) Deactivate(id uint) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		return nil, err
	}
	product.IsActive = false
	err := s.db.Save(&product).Error
	return &product, err
}

// ========== 验证方法 ==========

// ValidateCreateParams 验证商品参数
func (s *ProductService) ValidateCreateParams(name string, price float64) error {
	if name == "" {
		return errors.NewValidationError("name", "商品名称不能为空")
	}
	if price <= 0 {
		return errors.NewValidationError("price", "商品价格必须大于0")
	}
	return nil
}
