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

// QRCodeHandler 封装了管理端二维码库存的 HTTP 处理逻辑
type QRCodeHandler struct {
	service services.QRCodeService
}

// NewQRCodeHandler 创建一个新的 QRCodeHandler 实例
func NewQRCodeHandler(service services.QRCodeService) *QRCodeHandler {
	return &QRCodeHandler{service: service}
}

// PagedQRCodesData 二维码列表的分页响应结构
type PagedQRCodesData struct {
	Items      []models.QRCodeResponse `json:"items"`
	Pagination PaginationInfo          `json:"pagination"`
	Stats      *models.QRCodeStats     `json:"stats,omitempty"`
}

// GetQRCodes godoc
// @Summary 获取二维码列表
// @Description 根据查询参数获取二维码列表，支持分页、搜索、状态筛选和排序，并附带总体统计
// @Tags QRCodes
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(10)
// @Param sortBy query string false "排序字段 (例如: code, createdAt)"
// @Param sortOrder query string false "排序顺序 ('asc'或'desc')"
// @Param search query string false "搜索关键词 (匹配标签或安全码)"
// @Param status query string false "状态筛选 (unassigned/assigned/disabled)"
// @Success 200 {object} utils.SuccessResponse{data=PagedQRCodesData} "成功响应，包含列表、分页信息和统计"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/qrcodes [get]
// @Security BearerAuth
func (h *QRCodeHandler) GetQRCodes(c *gin.Context) {
	type GetQRCodesQuery struct {
		Page      int    `form:"page,default=1"`
		Limit     int    `form:"limit,default=10"`
		SortBy    string `form:"sortBy"`
		SortOrder string `form:"sortOrder"`
		Search    string `form:"search"`
		Status    string `form:"status"`
	}

	var query GetQRCodesQuery
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
	if query.Status != "" && !models.IsValidQRCodeStatus(query.Status) {
		utils.RespondValidationError(c, "无效的状态筛选值: "+query.Status)
		return
	}

	items, totalItems, err := h.service.GetQRCodes(query.Page, query.Limit, query.SortBy, query.SortOrder, query.Search, query.Status)
	if err != nil {
		utils.RespondInternalServerError(c, "获取二维码列表失败", err.Error())
		return
	}

	stats, err := h.service.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取二维码统计失败", err.Error())
		return
	}

	data := PagedQRCodesData{
		Items:      items,
		Pagination: NewPaginationInfo(totalItems, query.Page, query.Limit),
		Stats:      stats,
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// BatchGeneratePayload 批量生成请求
type BatchGeneratePayload struct {
	Count  int    `json:"count" binding:"required,min=1,max=1000"`
	Prefix string `json:"prefix" binding:"required,max=44"`
}

// BatchGenerate godoc
// @Summary 批量生成二维码
// @Description 生成 count 个二维码：code = 前缀 + 6位随机数字，secure_code = 8位随机串，状态 unassigned
// @Tags QRCodes
// @Accept json
// @Produce json
// @Param batch body BatchGeneratePayload true "生成参数"
// @Success 201 {object} utils.SuccessResponse{data=[]models.QRCode} "生成的二维码"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 409 {object} utils.APIErrorResponse "标签冲突，整批已回滚"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/qrcodes/batch [post]
// @Security BearerAuth
func (h *QRCodeHandler) BatchGenerate(c *gin.Context) {
	var payload BatchGeneratePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	codes, err := h.service.BatchGenerate(payload.Count, payload.Prefix)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidBatchCount), errors.Is(err, utils.ErrInvalidBatchPrefix):
			utils.RespondValidationError(c, err.Error())
		case errors.Is(err, repositories.ErrQRCodeLabelConflict):
			utils.RespondConflictError(c, err.Error())
		default:
			utils.RespondInternalServerError(c, "批量生成二维码失败", err.Error())
		}
		return
	}
	utils.RespondSuccess(c, http.StatusCreated, codes, "二维码生成成功")
}

// UpdateQRCodePayload 管理端二维码编辑请求
type UpdateQRCodePayload struct {
	Disabled         *bool `json:"disabled,omitempty"`   // 停用/恢复
	RegenerateSecure bool  `json:"regenerateSecureCode"` // 更换安全码
}

// UpdateQRCode godoc
// @Summary 编辑二维码
// @Description 停用/恢复二维码，或更换安全码。恢复时按是否存在有效绑定回写 assigned/unassigned。
// @Tags QRCodes
// @Accept json
// @Produce json
// @Param id path int true "二维码数据库ID"
// @Param update body UpdateQRCodePayload true "编辑内容"
// @Success 200 {object} utils.SuccessResponse{data=models.QRCode} "更新后的二维码"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 404 {object} utils.APIErrorResponse "二维码未找到"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/qrcodes/{id} [put]
// @Security BearerAuth
func (h *QRCodeHandler) UpdateQRCode(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		utils.RespondValidationError(c, "无效的二维码ID: "+c.Param("id"))
		return
	}

	var payload UpdateQRCodePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if payload.Disabled == nil && !payload.RegenerateSecure {
		utils.RespondValidationError(c, "没有要更新的字段")
		return
	}

	var qrCode *models.QRCode
	if payload.Disabled != nil {
		qrCode, err = h.service.SetDisabled(id, *payload.Disabled)
		if err != nil {
			respondQRCodeError(c, err)
			return
		}
	}
	if payload.RegenerateSecure {
		qrCode, err = h.service.RegenerateSecureCode(id)
		if err != nil {
			respondQRCodeError(c, err)
			return
		}
	}
	utils.RespondSuccess(c, http.StatusOK, qrCode, "二维码更新成功")
}

func respondQRCodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQRCodeNotFound):
		utils.RespondNotFoundError(c, "二维码")
	case errors.Is(err, repositories.ErrQRCodeLabelConflict):
		utils.RespondConflictError(c, err.Error())
	default:
		utils.RespondInternalServerError(c, "二维码操作失败", err.Error())
	}
}

// DeleteQRCodesPayload 批量删除请求
type DeleteQRCodesPayload struct {
	IDs []int64 `json:"ids" binding:"required,min=1"`
}

// DeleteQRCodesData 批量删除结果
type DeleteQRCodesData struct {
	Deleted int64 `json:"deleted"`
}

// DeleteQRCodes godoc
// @Summary 批量删除二维码
// @Description 按数据库 ID 批量物理删除二维码
// @Tags QRCodes
// @Accept json
// @Produce json
// @Param ids body DeleteQRCodesPayload true "要删除的二维码ID列表"
// @Success 200 {object} utils.SuccessResponse{data=DeleteQRCodesData} "删除条数"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/qrcodes [delete]
// @Security BearerAuth
func (h *QRCodeHandler) DeleteQRCodes(c *gin.Context) {
	var payload DeleteQRCodesPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	deleted, err := h.service.DeleteQRCodes(payload.IDs)
	if err != nil {
		utils.RespondInternalServerError(c, "批量删除二维码失败", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, DeleteQRCodesData{Deleted: deleted}, "删除成功")
}
