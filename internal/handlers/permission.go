package handlers

import (
	"letsprint/internal/services"
	"letsprint/pkg/errors"
	"letsprint/pkg/pagination"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type PermissionHandler struct {
	service *services.PermissionService
}

func NewPermissionHandler(service *services.PermissionService) *PermissionHandler {
	return &PermissionHandler{
		service: service,
	}
}

// GetAll 获取所有权限（支持分页）
func (h *PermissionHandler) GetAll(c *gin.Context) {
	// 解析分页参数
	pageParams := pagination.ParsePageParams(c)

	// 支持按资源筛选
	resource := c.Query("resource")

	permissions, total, err := h.service.GetWithPage(resource, pageParams.Page, pageParams.PageSize)
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	pageInfo := pagination.NewPageInfo(pageParams.Page, pageParams.PageSize, total)
	response.SuccessWithPage(c, permissions, pageInfo)
}

// GetByName 根据名称获取权限
func (h *PermissionHandler) GetByName(c *gin.Context) {
	permission, err := h.service.GetByName(c.Param("name"))
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, "权限不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, permission)
}
