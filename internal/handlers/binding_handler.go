package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
	"github.com/qr_contact/internal/services"
	"github.com/qr_contact/pkg/utils"
)

// BindingHandler 封装了管理端用户（绑定记录）的 HTTP 处理逻辑
type BindingHandler struct {
	service services.BindingService
}

// NewBindingHandler 创建一个新的 BindingHandler 实例
func NewBindingHandler(service services.BindingService) *BindingHandler {
	return &BindingHandler{service: service}
}

// PagedBindingsData 绑定列表的分页响应结构
type PagedBindingsData struct {
	Items      []models.PhoneBindingResponse `json:"items"`
	Pagination PaginationInfo                `json:"pagination"`
	Stats      *models.PhoneBindingStats     `json:"stats,omitempty"`
}

// GetBindings godoc
// @Summary 获取绑定（用户）列表
// @Description 根据查询参数获取绑定列表，支持分页、搜索、状态筛选和排序，并附带总体统计
// @Tags Bindings
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param sortBy query string false "排序字段 (例如: phone1, boundAt)"
// @Param sortOrder query string false "排序顺序 ('asc'或'desc')"
// @Param search query string false "搜索关键词 (匹配号码或二维码标签)"
// @Param state query string false "状态筛选 ('active'或'deleted')"
// @Success 200 {object} utils.SuccessResponse{data=PagedBindingsData} "成功响应，包含列表、分页信息和统计"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/bindings [get]
// @Security BearerAuth
func (h *BindingHandler) GetBindings(c *gin.Context) {
	type GetBindingsQuery struct {
		Page      int    `form:"page,default=1"`
		Limit     int    `form:"limit,default=10"`
		SortBy    string `form:"sortBy"`
		SortOrder string `form:"sortOrder"`
		Search    string `form:"search"`
		State     string `form:"state" binding:"omitempty,oneof=active deleted"`
	}

	var query GetBindingsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 10
	}

	items, totalItems, err := h.service.GetBindings(query.Page, query.Limit, query.SortBy, query.SortOrder, query.Search, query.State)
	if err != nil {
		utils.RespondInternalServerError(c, "获取绑定列表失败", err.Error())
		return
	}

	stats, err := h.service.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取绑定统计失败", err.Error())
		return
	}

	data := PagedBindingsData{
		Items:      items,
		Pagination: NewPaginationInfo(totalItems, query.Page, query.Limit),
		Stats:      stats,
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// UpdateBindingPayload 管理端编辑绑定号码
type UpdateBindingPayload struct {
	Phone1 string `json:"phone1" binding:"required,max=20"`
	Phone2 string `json:"phone2" binding:"max=20"`
}

// UpdateBinding godoc
// @Summary 管理端编辑绑定
// @Description 更新绑定的车主号码（不触碰管理密码）
// @Tags Bindings
// @Accept json
// @Produce json
// @Param id path int true "绑定数据库ID"
// @Param binding body UpdateBindingPayload true "新的号码"
// @Success 200 {object} utils.SuccessResponse{data=models.PhoneBinding} "更新后的绑定"
// @Failure 400 {object} utils.APIErrorResponse "号码校验失败"
// @Failure 404 {object} utils.APIErrorResponse "绑定未找到"
// @Failure 409 {object} utils.APIErrorResponse "绑定已被删除"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/bindings/{id} [put]
// @Security BearerAuth
func (h *BindingHandler) UpdateBinding(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationError(c, "无效的绑定ID: "+c.Param("id"))
		return
	}

	var payload UpdateBindingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	updated, err := h.service.UpdateBinding(id, payload.Phone1, payload.Phone2)
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidPhoneNumberFormat), errors.Is(err, utils.ErrInvalidPhoneNumberPrefix):
			utils.RespondValidationError(c, err.Error())
		case errors.Is(err, services.ErrBindingNotFound):
			utils.RespondNotFoundError(c, "绑定记录")
		case errors.Is(err, repositories.ErrBindingDeleted):
			utils.RespondConflictError(c, err.Error())
		default:
			utils.RespondInternalServerError(c, "更新绑定失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, updated, "绑定更新成功")
}

// DeleteBinding godoc
// @Summary 软删除绑定
// @Description 设置 deleted_at 并在同一事务内把二维码回退为 unassigned
// @Tags Bindings
// @Produce json
// @Param id path int true "绑定数据库ID"
// @Success 200 {object} utils.SuccessResponse{data=models.PhoneBinding} "已删除的绑定"
// @Failure 400 {object} utils.APIErrorResponse "无效的绑定ID"
// @Failure 404 {object} utils.APIErrorResponse "绑定未找到"
// @Failure 409 {object} utils.APIErrorResponse "绑定已被删除"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/bindings/{id} [delete]
// @Security BearerAuth
func (h *BindingHandler) DeleteBinding(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationError(c, "无效的绑定ID: "+c.Param("id"))
		return
	}

	deleted, err := h.service.DeleteBinding(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBindingNotFound):
			utils.RespondNotFoundError(c, "绑定记录")
		case errors.Is(err, repositories.ErrBindingDeleted):
			utils.RespondConflictError(c, err.Error())
		default:
			utils.RespondInternalServerError(c, "删除绑定失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, deleted, "绑定已删除")
}

// RestoreBinding godoc
// @Summary 恢复软删除的绑定
// @Description 清除 deleted_at 并在同一事务内把二维码重新置为 assigned
// @Tags Bindings
// @Produce json
// @Param id path int true "绑定数据库ID"
// @Success 200 {object} utils.SuccessResponse{data=models.PhoneBinding} "恢复后的绑定"
// @Failure 400 {object} utils.APIErrorResponse "无效的绑定ID"
// @Failure 404 {object} utils.APIErrorResponse "绑定未找到"
// @Failure 409 {object} utils.APIErrorResponse "该二维码已有其它有效绑定"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/bindings/{id}/restore [post]
// @Security BearerAuth
func (h *BindingHandler) RestoreBinding(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationError(c, "无效的绑定ID: "+c.Param("id"))
		return
	}

	restored, err := h.service.RestoreBinding(id)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrBindingNotFound):
			utils.RespondNotFoundError(c, "绑定记录")
		case errors.Is(err, services.ErrBindingConflict):
			utils.RespondConflictError(c, err.Error())
		default:
			utils.RespondInternalServerError(c, "恢复绑定失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, restored, "绑定已恢复")
}
