package handlers

import (
	"letsprint/internal/services"
	"letsprint/pkg/errors"
	"letsprint/pkg/response"

	"github.com/gin-gonic/gin"
)

type UpsertRoleRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
}

type GrantRequest struct {
	Permission   string `json:"permission" binding:"required"`
	OwnScopeOnly bool   `json:"own_scope_only"`
}

type RevokeRequest struct {
	Permission string `json:"permission" binding:"required"`
}

type RoleHandler struct {
	service *services.RoleService
}

func NewRoleHandler(service *services.RoleService) *RoleHandler {
	return &RoleHandler{
		service: service,
	}
}

// ========== 注册表维护方法 ==========

// Upsert 幂等写入角色
func (h *RoleHandler) Upsert(c *gin.Context) {
	var req UpsertRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	// 管理端新建的角色不是系统角色
	role, err := h.service.UpsertRole(req.Name, req.Description, false)
	if err != nil {
		if errors.IsValidation(err) {
			response.BadRequest(c, err.Error())
			return
		}
		response.ServerError(c, "保存失败")
		return
	}

	response.Success(c, role)
}

// GetAll 获取全部角色
func (h *RoleHandler) GetAll(c *gin.Context) {
	roles, err := h.service.GetAll()
	if err != nil {
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, roles)
}

// GetByName 获取角色
func (h *RoleHandler) GetByName(c *gin.Context) {
	role, err := h.service.GetByName(c.Param("name"))
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, role)
}

// ========== 授权表方法 ==========

// Grant 给角色授予权限
func (h *RoleHandler) Grant(c *gin.Context) {
	var req GrantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.service.Grant(c.Param("name"), req.Permission, req.OwnScopeOnly)
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "授权失败")
		return
	}

	response.Success(c, gin.H{"message": "授权成功"})
}

// Revoke 回收角色权限
func (h *RoleHandler) Revoke(c *gin.Context) {
	var req RevokeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "参数错误")
		return
	}

	err := h.service.Revoke(c.Param("name"), req.Permission)
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, err.Error())
			return
		}
		response.ServerError(c, "回收失败")
		return
	}

	response.Success(c, gin.H{"message": "回收成功"})
}

// GetGrants 获取角色的授权明细
func (h *RoleHandler) GetGrants(c *gin.Context) {
	grants, err := h.service.ListGrantDetails(c.Param("name"))
	if err != nil {
		if errors.IsNotFound(err) {
			response.NotFound(c, "角色不存在")
			return
		}
		response.ServerError(c, "查询失败")
		return
	}

	response.Success(c, grants)
}
