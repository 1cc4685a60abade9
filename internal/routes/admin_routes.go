package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/qr_contact/internal/auth"
	"github.com/qr_contact/internal/handlers"
)

// SetupAdminRoutes 设置管理后台路由，全部需要JWT认证
func SetupAdminRoutes(
	router *gin.RouterGroup,
	qrCodeHandler *handlers.QRCodeHandler,
	bindingHandler *handlers.BindingHandler,
	callLogHandler *handlers.CallLogHandler,
	dashboardHandler *handlers.DashboardHandler,
) {
	adminGroup := router.Group("/v1/admin")
	adminGroup.Use(auth.JWTMiddleware())
	{
		// GET /api/v1/admin/dashboard
		adminGroup.GET("/dashboard", dashboardHandler.GetDashboard)

		qrGroup := adminGroup.Group("/qrcodes")
		{
			qrGroup.GET("", qrCodeHandler.GetQRCodes)
			qrGroup.POST("/batch", qrCodeHandler.BatchGenerate)
			qrGroup.PUT("/:id", qrCodeHandler.UpdateQRCode)
			qrGroup.DELETE("", qrCodeHandler.DeleteQRCodes)
		}

		bindingGroup := adminGroup.Group("/bindings")
		{
			bindingGroup.GET("", bindingHandler.GetBindings)
			bindingGroup.PUT("/:id", bindingHandler.UpdateBinding)
			bindingGroup.DELETE("/:id", bindingHandler.DeleteBinding)
			bindingGroup.POST("/:id/restore", bindingHandler.RestoreBinding)
		}

		callLogGroup := adminGroup.Group("/calllogs")
		{
			callLogGroup.GET("", callLogHandler.GetCallLogs)
			callLogGroup.GET("/stats", callLogHandler.GetCallLogStats)
			callLogGroup.GET("/export", callLogHandler.ExportCallLogs)
		}
	}
}
