package router

import (
	"time"

	"letsprint/internal/authz"
	"letsprint/internal/database"
	"letsprint/internal/handlers"
	"letsprint/internal/middleware"
	"letsprint/internal/services"
	"letsprint/pkg/config"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

// SetupRouter 设置路由
func SetupRouter() *gin.Engine {
	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.SetupCORS())

	// 注册路由
	registerRoutes(router)
	return router
}

// 注册所有路由
func registerRoutes(router *gin.Engine) {
	db := database.GetDB()
	cfg := config.GetConfig()

	// 授权判定器：注册表读取走数据库，权限集合走Redis缓存
	cache := services.NewPermissionCache(database.GetRedisClient(), cfg.Redis.Prefix)
	authorizer := authz.NewAuthorizer(services.NewAuthzStore(db, cache))
	auth := middleware.NewAuthMiddleware(db, authorizer)

	roleService := services.NewRoleService(db, cache)

	// API路由组
	api := router.Group("/api/v1")
	{
		// 健康检查接口
		api.GET("/health", healthCheck)
		api.GET("/ping", ping)

		// JWT认证路由（无需认证）
		authHandler := handlers.NewAuthHandler(services.NewUserService(db), roleService)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/login", authHandler.Login)          // 用户登录
			authGroup.POST("/logout", authHandler.Logout)        // 用户登出
			authGroup.POST("/refresh", authHandler.RefreshToken) // 刷新Token

			// 获取当前用户完整信息
			authGroup.GET("/me", auth.RequireLogin(), authHandler.Me)
		}

		// 用户路由
		userHandler := handlers.NewUserHandler(services.NewUserService(db), authorizer)
		users := api.Group("/users")
		{
			users.POST("", auth.RequireLogin(), auth.RequirePermission("users:create"), userHandler.Create)
			users.GET("", auth.RequireLogin(), auth.RequirePermission("users:read"), userHandler.GetAll)
			users.GET("/:id", auth.RequireLogin(), auth.RequirePermission("users:read"), userHandler.GetByID)
			users.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("users:update"), userHandler.Update)

			// 停用代替物理删除，历史订单还要引用这些用户
			users.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("users:delete"), userHandler.Deactivate)
			users.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("users:delete"), userHandler.Activate)
			users.POST("/:id/reset-password", auth.RequireLogin(), auth.RequirePermission("users:update"), userHandler.ResetPassword)
		}

		// 租户路由
		tenantHandler := handlers.NewTenantHandler(services.NewTenantService(db), authorizer)
		tenants := api.Group("/tenants")
		{
			tenants.POST("", auth.RequireLogin(), auth.RequirePermission("tenants:create"), tenantHandler.Create)
			tenants.GET("", auth.RequireLogin(), auth.RequirePermission("tenants:read"), tenantHandler.GetAll)
			tenants.GET("/:id", auth.RequireLogin(), auth.RequirePermission("tenants:read"), tenantHandler.GetByID)
			tenants.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("tenants:update"), tenantHandler.Update)

			// 租户生命周期（仅平台级角色持有 tenants:delete）
			tenants.POST("/:id/deactivate", auth.RequireLogin(), auth.RequirePermission("tenants:delete"), tenantHandler.Deactivate)
			tenants.POST("/:id/activate", auth.RequireLogin(), auth.RequirePermission("tenants:delete"), tenantHandler.Activate)
		}

		// 角色与授权路由（仅平台管理员可改注册表）
		roleHandler := handlers.NewRoleHandler(roleService)
		roles := api.Group("/roles")
		{
			roles.GET("", auth.RequireLogin(), roleHandler.GetAll)
			roles.GET("/:name", auth.RequireLogin(), roleHandler.GetByName)
			roles.GET("/:name/grants", auth.RequireLogin(), roleHandler.GetGrants)

			roles.PUT("", auth.RequireLogin(), auth.RequirePlatformRole(), roleHandler.Upsert)
			roles.POST("/:name/grants", auth.RequireLogin(), auth.RequirePlatformRole(), roleHandler.Grant)
			roles.DELETE("/:name/grants", auth.RequireLogin(), auth.RequirePlatformRole(), roleHandler.Revoke)
		}

		// 权限注册表路由（只读，权限由种子维护）
		permissionHandler := handlers.NewPermissionHandler(services.NewPermissionService(db))
		permissions := api.Group("/permissions")
		{
			permissions.GET("", auth.RequireLogin(), permissionHandler.GetAll)
			permissions.GET("/:name", auth.RequireLogin(), permissionHandler.GetByName)
		}

		// 商品路由
		productHandler := handlers.NewProductHandler(services.NewProductService(db), authorizer)
		products := api.Group("/products")
		{
			products.POST("", auth.RequireLogin(), auth.RequirePermission("products:create"), productHandler.Create)
			products.GET("", auth.RequireLogin(), auth.RequirePermission("products:read"), productHandler.GetAll)
			products.GET("/:id", auth.RequireLogin(), auth.RequirePermission("products:read"), productHandler.GetByID)
			products.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("products:update"), productHandler.Update)
			products.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("products:delete"), productHandler.Delete)
		}

		// 订单路由
		orderHandler := handlers.NewOrderHandler(services.NewOrderService(db), authorizer)
		orders := api.Group("/orders")
		{
			orders.POST("", auth.RequireLogin(), auth.RequirePermission("orders:create"), orderHandler.Create)
			orders.GET("", auth.RequireLogin(), auth.RequirePermission("orders:read"), orderHandler.GetAll)
			orders.GET("/:id", auth.RequireLogin(), auth.RequirePermission("orders:read"), orderHandler.GetByID)
			orders.PUT("/:id/status", auth.RequireLogin(), auth.RequirePermission("orders:update"), orderHandler.UpdateStatus)
			orders.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("orders:delete"), orderHandler.Delete)
		}

		// 设计稿路由
		designHandler := handlers.NewDesignHandler(services.NewDesignService(db), authorizer)
		designs := api.Group("/designs")
		{
			designs.POST("", auth.RequireLogin(), auth.RequirePermission("designs:create"), designHandler.Create)
			designs.GET("", auth.RequireLogin(), auth.RequirePermission("designs:read"), designHandler.GetAll)
			designs.GET("/:id", auth.RequireLogin(), auth.RequirePermission("designs:read"), designHandler.GetByID)
			designs.PUT("/:id", auth.RequireLogin(), auth.RequirePermission("designs:update"), designHandler.Update)
			designs.DELETE("/:id", auth.RequireLogin(), auth.RequirePermission("designs:delete"), designHandler.Delete)
		}

		// 经营分析路由
		analyticsHandler := handlers.NewAnalyticsHandler(
			services.NewAnalyticsService(db, database.GetRedisClient(), cfg.Redis.Prefix), authorizer)
		analytics := api.Group("/analytics")
		{
			analytics.GET("/dashboard", auth.RequireLogin(), auth.RequirePermission("system:view_analytics"), analyticsHandler.GetDashboard)
		}
	}
}

func healthCheck(c *gin.Context) {
	data := map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now(),
		"service":   "letsprint",
		"version":   "1.0.0",
	}
	response.Success(c, data)
}

func ping(c *gin.Context) {
	response.SuccessWithMessage(c, "pong", nil)
}
