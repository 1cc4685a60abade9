package routes

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/qr_contact/internal/handlers"
	"github.com/qr_contact/internal/repositories"
	"github.com/qr_contact/internal/services"
	"github.com/qr_contact/pkg/db"
)

// SetupRoutes 初始化所有路由
func SetupRoutes(router *gin.Engine) {
	gormDB := db.GetDB()

	// 仓库层
	qrRepo := repositories.NewGormQRCodeRepository(gormDB)
	bindingRepo := repositories.NewGormPhoneBindingRepository(gormDB)
	callLogRepo := repositories.NewGormCallLogRepository(gormDB)

	// 服务层
	resolverService := services.NewResolverService(qrRepo, bindingRepo)
	bindingService := services.NewBindingService(bindingRepo, resolverService)
	qrCodeService := services.NewQRCodeService(qrRepo)
	callLogService := services.NewCallLogService(callLogRepo, bindingRepo, resolverService)

	// 处理器
	publicHandler := handlers.NewPublicHandler(resolverService, bindingService, callLogService)
	qrCodeHandler := handlers.NewQRCodeHandler(qrCodeService)
	bindingHandler := handlers.NewBindingHandler(bindingService)
	callLogHandler := handlers.NewCallLogHandler(callLogService)
	dashboardHandler := handlers.NewDashboardHandler(qrCodeService, bindingService, callLogService)

	api := router.Group("/api")
	SetupAuthRoutes(api)
	SetupPublicRoutes(api, publicHandler)
	SetupAdminRoutes(api, qrCodeHandler, bindingHandler, callLogHandler, dashboardHandler)

	// Swagger 文档
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
