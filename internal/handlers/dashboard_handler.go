package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/services"
	"github.com/qr_contact/pkg/utils"
)

// DashboardHandler 汇总管理后台首页的各项统计
type DashboardHandler struct {
	qrCodes  services.QRCodeService
	bindings services.BindingService
	callLogs services.CallLogService
}

// NewDashboardHandler 创建一个新的 DashboardHandler 实例
func NewDashboardHandler(qrCodes services.QRCodeService, bindings services.BindingService, callLogs services.CallLogService) *DashboardHandler {
	return &DashboardHandler{qrCodes: qrCodes, bindings: bindings, callLogs: callLogs}
}

// DashboardData 后台首页统计数据
type DashboardData struct {
	QRCodes  *models.QRCodeStats       `json:"qrCodes"`
	Bindings *models.PhoneBindingStats `json:"bindings"`
	CallLogs *models.CallLogStats      `json:"callLogs"`
}

// GetDashboard godoc
// @Summary 后台首页统计
// @Description 汇总二维码、绑定和通话记录三张表的统计数据
// @Tags Dashboard
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=DashboardData} "统计数据"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /admin/dashboard [get]
// @Security BearerAuth
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	qrStats, err := h.qrCodes.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取二维码统计失败", err.Error())
		return
	}
	bindingStats, err := h.bindings.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取绑定统计失败", err.Error())
		return
	}
	callStats, err := h.callLogs.GetStats()
	if err != nil {
		utils.RespondInternalServerError(c, "获取通话统计失败", err.Error())
		return
	}

	utils.RespondSuccess(c, http.StatusOK, DashboardData{
		QRCodes:  qrStats,
		Bindings: bindingStats,
		CallLogs: callStats,
	}, "")
}
