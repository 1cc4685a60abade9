package main

import (
	"log"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/qr_contact/configs"
	_ "github.com/qr_contact/docs" // swag 生成的 API 文档
	"github.com/qr_contact/internal/routes"
	"github.com/qr_contact/pkg/db"
)

// @title 车牌二维码联系服务 API
// @version 1.0
// @description 车主通过车牌上的二维码登记联系电话，访客扫码后一键拨打或发送短信。
// @BasePath /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// .env 存在时先加载，便于本地开发
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading configuration from environment")
	}

	configs.LoadConfig()

	// 初始化数据库连接
	db.InitDB()        // 从 pkg/db 调用 InitDB
	defer db.CloseDB() // 确保在 main 函数退出时关闭数据库连接

	router := gin.Default()

	// 前端跑在另一个来源上，需要放行跨域请求
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = configs.AppConfig.CORSAllowOrigins
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization")
	router.Use(cors.New(corsConfig))

	// 设置API路由
	routes.SetupRoutes(router)

	port := configs.AppConfig.ServerPort
	log.Printf("Server starting on port %s...", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to run server: %v", err)
	}
}
