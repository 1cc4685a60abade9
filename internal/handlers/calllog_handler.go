package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/services"
	"github.com/qr_contact/pkg/utils"
)

// CallLogHandler 封装了管理端通话记录的 HTTP 处理逻辑
type CallLogHandler struct {
	service services.CallLogService
}

// NewCallLogHandler 创建一个新的 CallLogHandler 实例
func NewCallLogHandler(service services.CallLogService) *CallLogHandler {
	return &CallLogHandler{service: service}
}

// PagedCallLogsData 通话记录列表的分页响应结构
type PagedCallLogsData struct {
	Items      []models.CallLogResponse `json:"items"`
	Pagination PaginationInfo           `json:"pagination"`
}

// GetCallLogs godoc
// @Summary 获取通话记录列表
// @Description 按呼叫时间倒序分页获取通话记录，支持按号码或二维码标签搜索
// @Tags CallLogs
// @Accept json
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(20)
// @Param search query string false "搜索关键词 (匹配号码或二维码标签)"
// @Success 200 {object} utils.SuccessResponse{data=PagedCallLogsData} "成功响应"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/calllogs [get]
// @Security BearerAuth
func (h *CallLogHandler) GetCallLogs(c *gin.Context) {
	type GetCallLogsQuery struct {
		Page   int    `form:"page,default=1"`
		Limit  int    `form:"limit,default=20"`
		Search string `form:"search"`
	}

	var query GetCallLogsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}
	if query.Page < 1 {
		query.Page = 1
	}
	if query.Limit < 1 || query.Limit > 100 {
		query.Limit = 20
	}

	items, totalItems, err := h.service.GetCallLogs(query.Page, query.Limit, query.Search)
	if err != nil {
		utils.RespondInternalServerError(c, "获取通话记录失败", err.Error())
		return
	}

	data := PagedCallLogsData{
		Items:      items,
		Pagination: NewPaginationInfo(totalItems, query.Page, query.Limit),
	}
	utils.RespondSuccess(c, http.StatusOK, data, "")
}

// GetCallLogStats godoc
// @Summary 获取通话统计
// @Description 统计总数、今日、近7天、近30天的呼叫次数
// @Tags CallLogs
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=models.CallLogStats} "统计数据"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/calllogs/stats [get]
// @Security BearerAuth
func (h *CallLogHandler) GetCallLogStats(c *gin.Context) {
	stats, err := h.service.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取通话统计失败", err.Error())
		return
	}
	utils.RespondSuccess(c, http.StatusOK, stats, "")
}

// ExportCallLogs godoc
// @Summary 导出通话记录
// @Description 导出全部通话记录为 CSV 文件
// @Tags CallLogs
// @Produce text/csv
// @Success 200 {string} string "CSV 文件"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/calllogs/export [get]
// @Security BearerAuth
func (h *CallLogHandler) ExportCallLogs(c *gin.Context) {
	data, err := h.service.ExportCSV()
	if err != nil {
		utils.RespondInternalServerError(c, "导出通话记录失败", err.Error())
		return
	}

	filename := fmt.Sprintf("call_logs_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", data)
}
