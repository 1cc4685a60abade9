package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/qr_contact/internal/handlers"
)

// SetupPublicRoutes 设置访客侧（扫码后）路由，无需认证
func SetupPublicRoutes(router *gin.RouterGroup, publicHandler *handlers.PublicHandler) {
	apiV1 := router.Group("/v1")
	{
		qrGroup := apiV1.Group("/qrcodes/:identifier")
		{
			// GET /api/v1/qrcodes/:identifier 标识符解析
			qrGroup.GET("", publicHandler.ResolveQRCode)
			// GET /api/v1/qrcodes/:identifier/binding 绑定页裁决 (?mode=edit 强制编辑)
			qrGroup.GET("/binding", publicHandler.GetBindGate)
			// POST /api/v1/qrcodes/:identifier/binding 提交绑定表单
			qrGroup.POST("/binding", publicHandler.SubmitBinding)
			// GET /api/v1/qrcodes/:identifier/contact 呼叫页裁决
			qrGroup.GET("/contact", publicHandler.GetCallGate)
			// POST /api/v1/qrcodes/:identifier/calls 追加呼叫记录
			qrGroup.POST("/calls", publicHandler.RecordCall)
			// POST /api/v1/qrcodes/:identifier/password 核对管理密码
			qrGroup.POST("/password", publicHandler.VerifyPassword)
		}
	}
}
