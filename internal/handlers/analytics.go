package handlers

import (
	"letsprint/internal/authz"
	"letsprint/internal/middleware"
	"letsprint/internal/services"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type AnalyticsHandler struct {
	service    *services.AnalyticsService
	authorizer *authz.Authorizer
}

func NewAnalyticsHandler(service *services.AnalyticsService, authorizer *authz.Authorizer) *AnalyticsHandler {
	return &AnalyticsHandler{
		service:    service,
		authorizer: authorizer,
	}
}

// GetDashboard 获取经营看板
// 平台级主体看全平台汇总，租户级主体只看本店数据
func (h *AnalyticsHandler) GetDashboard(c *gin.Context) {
	principal, _ := middleware.GetPrincipal(c)

	scope, err := h.authorizer.ResolveScope(principal, "system")
	if err != nil {
		response.ServerError(c, "权限检查失败")
		return
	}

	dashboard, err := h.service.GetDashboard(scope)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, dashboard)
}
