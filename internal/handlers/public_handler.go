package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/services"
	"github.com/qr_contact/pkg/utils"
)

// PublicHandler 封装了访客侧（扫码后）的 HTTP 处理逻辑
type PublicHandler struct {
	resolver services.ResolverService
	bindings services.BindingService
	callLogs services.CallLogService
}

// NewPublicHandler 创建一个新的 PublicHandler 实例
func NewPublicHandler(resolver services.ResolverService, bindings services.BindingService, callLogs services.CallLogService) *PublicHandler {
	return &PublicHandler{resolver: resolver, bindings: bindings, callLogs: callLogs}
}

// QRCodeInfo 对外暴露的二维码字段（不含内部ID以外的敏感信息）
type QRCodeInfo struct {
	Code       string              `json:"code"`
	SecureCode *string             `json:"secureCode,omitempty"`
	Status     models.QRCodeStatus `json:"status"`
}

func newQRCodeInfo(qrCode *models.QRCode) *QRCodeInfo {
	if qrCode == nil {
		return nil
	}
	return &QRCodeInfo{Code: qrCode.Code, SecureCode: qrCode.SecureCode, Status: qrCode.Status}
}

// ResolveResponse 标识符解析结果
type ResolveResponse struct {
	Outcome    string      `json:"outcome"` // "resolved" 或 "redirect"
	RedirectTo string      `json:"redirectTo,omitempty"`
	QRCode     *QRCodeInfo `json:"qrCode,omitempty"`
	Demo       bool        `json:"demo,omitempty"`
}

// respondResolveError 公共路由的统一错误映射
func respondResolveError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrQRCodeNotFound):
		utils.RespondNotFoundError(c, "二维码")
	case errors.Is(err, services.ErrQRCodeDisabled):
		utils.RespondAPIError(c, http.StatusForbidden, services.ErrQRCodeDisabled.Error(), nil)
	default:
		// LookupError：与 NotFound 区分，日志里可见，对访客只说加载失败
		utils.RespondInternalServerError(c, "加载二维码信息失败", err.Error())
	}
}

// ResolveQRCode godoc
// @Summary 解析扫码标识符
// @Description 先按 secure_code 查找，再按历史 code 查找；旧标识符命中时返回重定向信号。
// @Tags public
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Success 200 {object} utils.SuccessResponse{data=ResolveResponse}
// @Failure 404 {object} utils.APIErrorResponse "二维码不存在"
// @Failure 500 {object} utils.APIErrorResponse "查询失败"
// @Router /qrcodes/{identifier} [get]
func (h *PublicHandler) ResolveQRCode(c *gin.Context) {
	identifier := c.Param("identifier")

	res, err := h.resolver.Resolve(identifier)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	resp := ResolveResponse{Outcome: "resolved", QRCode: newQRCodeInfo(res.QRCode), Demo: res.Demo}
	if res.RedirectTo != "" {
		resp.Outcome = "redirect"
		resp.RedirectTo = res.RedirectTo
		resp.QRCode = nil // 旧标识符下不渲染内容
	}
	utils.RespondSuccess(c, http.StatusOK, resp, "")
}

// BindingInfo 预填表单用的绑定数据（不含管理密码）
type BindingInfo struct {
	Phone1 string  `json:"phone1"`
	Phone2 *string `json:"phone2,omitempty"`
}

// BindGateResponse 绑定路由的裁决结果
type BindGateResponse struct {
	Outcome    services.GateOutcome `json:"outcome"`
	RedirectTo string               `json:"redirectTo,omitempty"`
	QRCode     *QRCodeInfo          `json:"qrCode,omitempty"`
	Binding    *BindingInfo         `json:"binding,omitempty"`
	Demo       bool                 `json:"demo,omitempty"`
}

// GetBindGate godoc
// @Summary 绑定页裁决
// @Description 决定绑定路由展示编辑表单、首次扫描页还是重定向。mode=edit 强制进入编辑流程。
// @Tags public
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Param mode query string false "传 edit 强制编辑模式"
// @Success 200 {object} utils.SuccessResponse{data=BindGateResponse}
// @Failure 404 {object} utils.APIErrorResponse "二维码不存在"
// @Failure 500 {object} utils.APIErrorResponse "查询失败"
// @Router /qrcodes/{identifier}/binding [get]
func (h *PublicHandler) GetBindGate(c *gin.Context) {
	identifier := c.Param("identifier")
	editMode := c.Query("mode") == "edit"

	gate, err := h.resolver.GateBind(identifier, editMode)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	resp := BindGateResponse{
		Outcome:    gate.Outcome,
		RedirectTo: gate.RedirectTo,
		QRCode:     newQRCodeInfo(gate.QRCode),
		Demo:       gate.Demo,
	}
	if gate.Binding != nil {
		resp.Binding = &BindingInfo{Phone1: gate.Binding.Phone1, Phone2: gate.Binding.Phone2}
	}
	utils.RespondSuccess(c, http.StatusOK, resp, "")
}

// SubmitBindingPayload 车主提交绑定表单
type SubmitBindingPayload struct {
	Phone1             string `json:"phone1" binding:"required,max=20"`
	Phone2             string `json:"phone2" binding:"max=20"`
	ManagementPassword string `json:"managementPassword" binding:"max=72"`
}

// SubmitBinding godoc
// @Summary 提交绑定表单
// @Description 首次绑定插入记录并把二维码置为 assigned（同一事务）；已有绑定则更新。
// @Tags public
// @Accept json
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Param binding body SubmitBindingPayload true "绑定信息"
// @Success 200 {object} utils.SuccessResponse{data=BindingInfo} "更新成功"
// @Success 201 {object} utils.SuccessResponse{data=BindingInfo} "首次绑定成功"
// @Failure 400 {object} utils.APIErrorResponse "号码或密码校验失败"
// @Failure 404 {object} utils.APIErrorResponse "二维码不存在"
// @Failure 409 {object} utils.APIErrorResponse "二维码已被他人绑定"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /qrcodes/{identifier}/binding [post]
func (h *PublicHandler) SubmitBinding(c *gin.Context) {
	identifier := c.Param("identifier")

	var payload SubmitBindingPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	binding, created, err := h.bindings.SubmitBinding(identifier, services.BindingInput{
		Phone1:             payload.Phone1,
		Phone2:             payload.Phone2,
		ManagementPassword: payload.ManagementPassword,
	})
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidPhoneNumberFormat),
			errors.Is(err, utils.ErrInvalidPhoneNumberPrefix),
			errors.Is(err, utils.ErrEmptyManagementPassword),
			errors.Is(err, utils.ErrManagementPasswordTooLong):
			utils.RespondValidationError(c, err.Error())
		case errors.Is(err, services.ErrBindingConflict):
			utils.RespondConflictError(c, err.Error())
		default:
			respondResolveError(c, err)
		}
		return
	}

	status := http.StatusOK
	message := "绑定已更新"
	if created {
		status = http.StatusCreated
		message = "绑定成功"
	}
	utils.RespondSuccess(c, status, &BindingInfo{Phone1: binding.Phone1, Phone2: binding.Phone2}, message)
}

// ContactAction 单个号码的拨号/短信动作
type ContactAction struct {
	Phone  string `json:"phone"`
	TelURI string `json:"telUri"`
	SMSURI string `json:"smsUri"`
}

// CallGateResponse 呼叫路由的裁决结果
type CallGateResponse struct {
	Outcome    services.GateOutcome `json:"outcome"`
	RedirectTo string               `json:"redirectTo,omitempty"`
	QRCode     *QRCodeInfo          `json:"qrCode,omitempty"`
	Contacts   []ContactAction      `json:"contacts,omitempty"`
	Demo       bool                 `json:"demo,omitempty"`
}

func newContactAction(phone string) ContactAction {
	return ContactAction{Phone: phone, TelURI: "tel:" + phone, SMSURI: "sms:" + phone}
}

// GetCallGate godoc
// @Summary 呼叫页裁决
// @Description 决定呼叫路由展示车主号码、重定向到绑定页还是"尚未接通"兜底。
// @Tags public
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Success 200 {object} utils.SuccessResponse{data=CallGateResponse}
// @Failure 404 {object} utils.APIErrorResponse "二维码不存在"
// @Failure 500 {object} utils.APIErrorResponse "查询失败"
// @Router /qrcodes/{identifier}/contact [get]
func (h *PublicHandler) GetCallGate(c *gin.Context) {
	identifier := c.Param("identifier")

	gate, err := h.resolver.GateCall(identifier)
	if err != nil {
		respondResolveError(c, err)
		return
	}

	resp := CallGateResponse{
		Outcome:    gate.Outcome,
		RedirectTo: gate.RedirectTo,
		QRCode:     newQRCodeInfo(gate.QRCode),
		Demo:       gate.Demo,
	}
	if gate.Outcome == services.OutcomeContact {
		resp.Contacts = append(resp.Contacts, newContactAction(gate.Phone1))
		if gate.Phone2 != nil {
			resp.Contacts = append(resp.Contacts, newContactAction(*gate.Phone2))
		}
	}
	utils.RespondSuccess(c, http.StatusOK, resp, "")
}

// RecordCallPayload 访客点击拨号
type RecordCallPayload struct {
	PhoneNumber string `json:"phoneNumber" binding:"required,max=20"`
}

// RecordCallResponse 追加呼叫记录后的拨号动作
type RecordCallResponse struct {
	Contact ContactAction `json:"contact"`
	Logged  bool          `json:"logged"` // 演示模式为 false
}

// RecordCall godoc
// @Summary 追加呼叫记录
// @Description 点击拨号时先写一条呼叫记录再由客户端触发 tel:/sms:。拨号本身是 fire-and-forget。
// @Tags public
// @Accept json
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Param call body RecordCallPayload true "实际拨打的号码"
// @Success 201 {object} utils.SuccessResponse{data=RecordCallResponse}
// @Failure 400 {object} utils.APIErrorResponse "号码校验失败或不属于该绑定"
// @Failure 404 {object} utils.APIErrorResponse "二维码不存在"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /qrcodes/{identifier}/calls [post]
func (h *PublicHandler) RecordCall(c *gin.Context) {
	identifier := c.Param("identifier")

	var payload RecordCallPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	callLog, err := h.callLogs.RecordCall(identifier, payload.PhoneNumber, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, utils.ErrInvalidPhoneNumberFormat),
			errors.Is(err, utils.ErrInvalidPhoneNumberPrefix),
			errors.Is(err, services.ErrPhoneNotOnBinding),
			errors.Is(err, services.ErrQRCodeNotCallable):
			utils.RespondValidationError(c, err.Error())
		default:
			respondResolveError(c, err)
		}
		return
	}

	phone := utils.SanitizePhoneNumber(payload.PhoneNumber)
	resp := RecordCallResponse{Contact: newContactAction(phone), Logged: callLog != nil}
	utils.RespondSuccess(c, http.StatusCreated, resp, "")
}

// VerifyPasswordPayload 车主输入的管理密码
type VerifyPasswordPayload struct {
	Password string `json:"password" binding:"required,max=72"`
}

// VerifyPassword godoc
// @Summary 核对管理密码
// @Description 核对通过后客户端才允许带 mode=edit 进入绑定页。不做锁定或限速。
// @Tags public
// @Accept json
// @Produce json
// @Param identifier path string true "扫码得到的路径段"
// @Param password body VerifyPasswordPayload true "管理密码"
// @Success 200 {object} utils.SuccessResponse "密码正确"
// @Failure 401 {object} utils.APIErrorResponse "密码不正确"
// @Failure 404 {object} utils.APIErrorResponse "二维码或绑定不存在"
// @Failure 500 {object} utils.APIErrorResponse "服务器内部错误"
// @Router /qrcodes/{identifier}/password [post]
func (h *PublicHandler) VerifyPassword(c *gin.Context) {
	identifier := c.Param("identifier")

	var payload VerifyPasswordPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	if err := h.bindings.VerifyManagementPassword(identifier, payload.Password); err != nil {
		switch {
		case errors.Is(err, services.ErrWrongManagementPassword):
			utils.RespondAPIError(c, http.StatusUnauthorized, err.Error(), nil)
		case errors.Is(err, services.ErrBindingNotFound):
			utils.RespondNotFoundError(c, "绑定记录")
		default:
			respondResolveError(c, err)
		}
		return
	}
	utils.RespondSuccess(c, http.StatusOK, nil, "密码正确")
}
