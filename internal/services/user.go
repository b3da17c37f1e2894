package services

import (
	"strings"
	"time"
	"unicode/utf8"

	"letsprint/internal/authz"
	"letsprint/internal/models"
	"letsprint/pkg/errors"

	"gorm.io/gorm"
)

// UserService 用户服务
type UserService struct {
	db *gorm.DB
}

// NewUserService 创建用户服务
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserStats 用户统计信息
type UserStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`
	Inactive int64 `json:"inactive"`
}

// ========== 基础CRUD方法 ==========

// Create 创建用户
// 平台级角色不绑定租户，租户级角色必须归属某个租户
func (s *UserService) Create(email, password, name, roleName string, tenantID *uint) (*models.User, error) {
	// 验证参数
	if err := s.ValidateCreateParams(email, password, name); err != nil {
		return nil, err
	}

	// 检查角色是否存在
	var role models.Role
	if err := s.db.Where("name = ?", roleName).First(&role).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("角色", roleName)
		}
		return nil, err
	}

	// 租户级角色必须归属租户
	if models.IsPlatformRole(roleName) {
		tenantID = nil
	} else {
		if tenantID == nil {
			return nil, errors.NewValidationError("tenant_id", "租户级角色必须指定租户")
		}
		var tenantCount int64
		s.db.Model(&models.Tenant{}).Where("id = ?", *tenantID).Count(&tenantCount)
		if tenantCount == 0 {
			return nil, errors.NewNotFoundError("租户", "")
		}
	}

	// 检查邮箱是否重复
	var emailCount int64
	s.db.Model(&models.User{}).Where("email = ?", email).Count(&emailCount)
	if emailCount > 0 {
		return nil, errors.NewValidationError("email", "邮箱已存在")
	}

	user := &models.User{
		Email:    email,
		Name:     name,
		RoleID:   role.ID,
		TenantID: tenantID,
		IsActive: true,
	}

	// 设置密码
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.db.Create(user).Error; err != nil {
		return nil, err
	}

	// 重新加载数据（包含关联）
	if err := s.db.Preload("Role").Preload("Tenant").First(user, user.ID).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID 根据ID获取用户
func (s *UserService) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Preload("Tenant").First(&user, id).Error
	return &user, err
}

// GetByEmail 根据邮箱获取用户
func (s *UserService) GetByEmail(email string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Role").Preload("Tenant").Where("email = ?", email).First(&user).Error
	return &user, err
}

// GetWithScopeAndPage 按可见范围分页查询用户
func (s *UserService) GetWithScopeAndPage(scope authz.ScopeFilter, keyword string, page, pageSize int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	query := s.db.Model(&models.User{})

	// 应用可见范围
	if !scope.Global {
		if scope.TenantID == nil {
			return []*models.User{}, 0, nil
		}
		query = query.Where("tenant_id = ?", *scope.TenantID)
	}

	if keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("email LIKE ? OR name LIKE ?", pattern, pattern)
	}

	// 计算总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	offset := (page - 1) * pageSize
	err := query.Preload("Role").Preload("Tenant").Offset(offset).Limit(pageSize).Find(&users).Error
	if err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

// Update 更新用户
func (s *UserService) Update(id uint, name, email string) (*models.User, error) {
	if err := s.ValidateUpdateParams(name, email); err != nil {
		return nil, err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}

	// 邮箱变更时检查重复
	if user.Email != email {
		var count int64
		s.db.Model(&models.User{}).Where("email = ? AND id <> ?", email, id).Count(&count)
		if count > 0 {
			return nil, errors.NewValidationError("email", "邮箱已存在")
		}
		user.EmailVerified = false
	}

	user.Name = name
	user.Email = email

	err := s.db.Save(&user).Error
	return &user, err
}

// Deactivate 停用用户（软删除：保留订单和审计记录的引用）
func (s *UserService) Deactivate(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	user.IsActive = false
	err := s.db.Save(&user).Error
	return &user, err
}

// Activate 启用用户
func (s *UserService) Activate(id uint) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	user.IsActive = true
	err := s.db.Save(&user).Error
	return &user, err
}

// UpdateLastLogin 更新最后登录时间
func (s *UserService) UpdateLastLogin(id uint) error {
	now := time.Now()
	return s.db.Model(&models.User{}).Where("id = ?", id).Update("last_login_at", now).Error
}

// ResetPassword 重置密码
func (s *UserService) ResetPassword(id uint, newPassword string) error {
	if err := s.ValidatePassword(newPassword); err != nil {
		return err
	}

	var user models.User
	if err := s.db.First(&user, id).Error; err != nil {
		return err
	}
	if err := user.SetPassword(newPassword); err != nil {
		return err
	}
	return s.db.Save(&user).Error
}

// GetStats 用户统计
func (s *UserService) GetStats(scope authz.ScopeFilter) (*UserStats, error) {
	stats := &UserStats{}

	query := s.db.Model(&models.User{})
	if !scope.Global && scope.TenantID != nil {
		query = query.Where("tenant_id = ?", *scope.TenantID)
	}

	if err := query.Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := query.Where("is_active = ?", true).Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active
	return stats, nil
}

// ========== 验证方法 ==========

// ValidateEmail 验证邮箱格式
func (s *UserService) ValidateEmail(email string) bool {
	if len(email) < 5 || len(email) > 100 {
		return false
	}
	at := strings.Index(email, "@")
	dot := strings.LastIndex(email, ".")
	return at > 0 && dot > at+1 && dot < len(email)-1
}

// ValidatePassword 验证密码强度
func (s *UserService) ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.NewValidationError("password", "密码长度至少8个字符")
	}
	if len(password) > 72 {
		// bcrypt输入上限
		return errors.NewValidationError("password", "密码长度不能超过72个字符")
	}
	return nil
}

// ValidateName 验证姓名
func (s *UserService) ValidateName(name string) bool {
	runeCount := utf8.RuneCountInString(name)
	return runeCount >= 2 && runeCount <= 50
}

// ValidateCreateParams 验证创建用户的参数
func (s *UserService) ValidateCreateParams(email, password, name string) error {
	if !s.ValidateEmail(email) {
		return errors.NewValidationError("email", "邮箱格式错误")
	}
	if err := s.ValidatePassword(password); err != nil {
		return err
	}
	if !s.ValidateName(name) {
		return errors.NewValidationError("name", "姓名长度必须在2-50个字符之间")
	}
	return nil
}

// ValidateUpdateParams 验证更新用户的参数
func (s *UserService) ValidateUpdateParams(name, email string) error {
	if !s.ValidateName(name) {
		return errors.NewValidationError("name", "姓名长度必须在2-50个字符之间")
	}
	if !s.ValidateEmail(email) {
		return errors.NewValidationError("email", "邮箱格式错误")
	}
	return nil
}
