package provision

import (
	"fmt"

	"letsprint/internal/models"
	"letsprint/internal/services"
	"letsprint/pkg/logger"

	"gorm.io/gorm"
)

// Run 执行种子数据初始化，整体幂等，可安全重复执行
// db 由调用方传入并负责生命周期，避免包级全局持久层句柄
func Run(db *gorm.DB, adminEmail, adminPassword string) error {
	appLogger := logger.GetLogger()
	appLogger.Info("Starting seed data initialization...")

	roleService := services.NewRoleService(db, nil)
	permissionService := services.NewPermissionService(db)

	// 1. 写入角色
	if err := seedRoles(roleService); err != nil {
		return fmt.Errorf("初始化角色失败: %v", err)
	}

	// 2. 写入权限
	if err := seedPermissions(permissionService); err != nil {
		return fmt.Errorf("初始化权限失败: %v", err)
	}

	// 3. 写入授权矩阵
	if err := seedGrants(roleService, permissionService); err != nil {
		return fmt.Errorf("初始化授权矩阵失败: %v", err)
	}

	// 4. 创建超级管理员
	if err := seedSuperAdmin(db, adminEmail, adminPassword); err != nil {
		return fmt.Errorf("创建超级管理员失败: %v", err)
	}

	// 5. 写入示例商品
	if err := seedProducts(db); err != nil {
		return fmt.Errorf("初始化示例商品失败: %v", err)
	}

	appLogger.Info("Seed data initialization completed successfully")
	return nil
}

// seedRoles 幂等写入四个系统角色
func seedRoles(roleService *services.RoleService) error {
	for _, seed := range DefaultRoles {
		if _, err := roleService.UpsertRole(seed.Name, seed.Description, true); err != nil {
			return err
		}
	}
	logger.GetLogger().Infof("角色初始化完成，共 %d 个", len(DefaultRoles))
	return nil
}

// seedPermissions 幂等写入预置权限
func seedPermissions(permissionService *services.PermissionService) error {
	for _, seed := range DefaultPermissions {
		if _, err := permissionService.UpsertPermission(seed.Name, seed.Description, seed.Resource, seed.Action); err != nil {
			return err
		}
	}
	logger.GetLogger().Infof("权限初始化完成，共 %d 项", len(DefaultPermissions))
	return nil
}

// seedGrants 写入授权矩阵
// super_admin 按此刻权限注册表的快照授予全部权限；名字写错的授权会以 NotFoundError 中断种子，
// 绝不静默跳过
func seedGrants(roleService *services.RoleService, permissionService *services.PermissionService) error {
	// super_admin：注册表快照全量授予
	allPermissions, err := permissionService.ListAll()
	if err != nil {
		return err
	}
	for _, permission := range allPermissions {
		if err := roleService.Grant(models.RoleSuperAdmin, permission.Name, false); err != nil {
			return err
		}
	}

	// 其余角色：固定矩阵
	for _, seed := range DefaultGrants {
		if err := roleService.Grant(seed.Role, seed.Permission, seed.OwnScopeOnly); err != nil {
			return err
		}
	}

	logger.GetLogger().Info("授权矩阵初始化完成")
	return nil
}

// seedSuperAdmin 创建超级管理员用户，已存在则跳过
func seedSuperAdmin(db *gorm.DB, email, password string) error {
	var count int64
	db.Model(&models.User{}).Where("email = ?", email).Count(&count)
	if count > 0 {
		logger.GetLogger().Info("超级管理员已存在，跳过创建")
		return nil
	}

	var role models.Role
	if err := db.Where("name = ?", models.RoleSuperAdmin).First(&role).Error; err != nil {
		return fmt.Errorf("获取super_admin角色失败: %v", err)
	}

	user := &models.User{
		Email:         email,
		Name:          "Platform Admin",
		RoleID:        role.ID,
		TenantID:      nil, // 平台级角色不绑定租户
		IsActive:      true,
		EmailVerified: true,
	}

	if err := user.SetPassword(password); err != nil {
		return fmt.Errorf("设置密码失败: %v", err)
	}

	if err := db.Create(user).Error; err != nil {
		return err
	}

	logger.GetLogger().Infof("超级管理员创建成功 - 邮箱: %s", email)
	return nil
}

// seedProducts 写入示例商品，同名商品已存在则跳过
func seedProducts(db *gorm.DB) error {
	created := 0
	for _, seed := range DefaultProducts {
		var count int64
		db.Model(&models.Product{}).Where("name = ?", seed.Name).Count(&count)
		if count > 0 {
			continue
		}

		product := &models.Product{
			Name:        seed.Name,
			Description: seed.Description,
			Category:    seed.Category,
			Price:       seed.Price,
			ImageURL:    seed.ImageURL,
			IsActive:    true,
			TenantID:    nil, // 平台模板商品
		}
		if err := db.Create(product).Error; err != nil {
			return fmt.Errorf("创建商品 %s 失败: %v", seed.Name, err)
		}
		created++
	}

	logger.GetLogger().Infof("示例商品初始化完成，新建 %d 个", created)
	return nil
}
