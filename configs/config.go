package configs

import (
	"log"
	"os"
	"strconv"
	"sync"
	"time"
)

// AppConfig holds the application configuration.
// It's populated once by LoadConfig.
var AppConfig Configuration
var once sync.Once

// Configuration defines the structure for application settings.
type Configuration struct {
	JWTSecret         string
	ServerPort        string
	AdminUsername     string
	AdminPasswordHash string
	SessionTimeout    time.Duration // 管理员会话不活动超时（即 JWT 有效期）
	LoginMaxAttempts  int           // 连续登录失败次数上限
	LoginLockout      time.Duration // 达到上限后的锁定时长
	CORSAllowOrigins  []string
}

const (
	defaultJWTSecret     = "qrcontact"      // Default JWT secret, used if env var is not set.
	envJWTSecretKey      = "JWT_SECRET_KEY" // Environment variable name for the JWT secret.
	defaultServerPort    = "8080"           // Default server port.
	envServerPortKey     = "SERVER_PORT"    // Environment variable name for the server port.
	defaultAdminUsername = "admin"          // 默认管理员用户名
	envAdminUsernameKey  = "ADMIN_USERNAME" // 管理员用户名环境变量名
	envAdminPasswordHash = "ADMIN_PASSWORD_HASH"
	envSessionTimeoutMin = "SESSION_TIMEOUT_MINUTES"
	envLoginMaxAttempts  = "LOGIN_MAX_ATTEMPTS"
	envLoginLockoutMin   = "LOGIN_LOCKOUT_MINUTES"
	envCORSAllowOrigin   = "CORS_ALLOW_ORIGIN"

	defaultCORSOrigin     = "http://localhost:3000" // 默认前端来源
	defaultSessionTimeout = 30                      // 分钟
	defaultMaxAttempts    = 5
	defaultLockoutMinutes = 15

	// bcrypt hash of "changeme123"，仅供本地开发使用。
	defaultAdminPasswordHash = "$2b$10$92IXUNpkjO0rOQ5byMi.Ye4oKoEa3Ro9llC/.og/at2.uheWG/igi"
)

// LoadConfig loads configuration from environment variables or defaults.
// It should be called once at application startup.
func LoadConfig() {
	once.Do(func() {
		jwtSecret := os.Getenv(envJWTSecretKey)
		if jwtSecret == "" {
			jwtSecret = defaultJWTSecret
			log.Printf("警告: %s 环境变量未设置。正在使用默认的JWT密钥。请在生产环境中设置此变量以保证安全。", envJWTSecretKey)
		}

		serverPort := os.Getenv(envServerPortKey)
		if serverPort == "" {
			serverPort = defaultServerPort
			log.Printf("信息: %s 环境变量未设置。正在使用默认端口 %s。", envServerPortKey, defaultServerPort)
		}

		adminUsername := os.Getenv(envAdminUsernameKey)
		if adminUsername == "" {
			adminUsername = defaultAdminUsername
		}

		adminPasswordHash := os.Getenv(envAdminPasswordHash)
		if adminPasswordHash == "" {
			adminPasswordHash = defaultAdminPasswordHash
			log.Printf("警告: %s 环境变量未设置。正在使用默认管理员密码哈希，请在生产环境中替换。", envAdminPasswordHash)
		}

		corsOrigin := os.Getenv(envCORSAllowOrigin)
		if corsOrigin == "" {
			corsOrigin = defaultCORSOrigin
		}

		AppConfig = Configuration{
			JWTSecret:         jwtSecret,
			ServerPort:        serverPort,
			AdminUsername:     adminUsername,
			AdminPasswordHash: adminPasswordHash,
			SessionTimeout:    time.Duration(envIntOrDefault(envSessionTimeoutMin, defaultSessionTimeout)) * time.Minute,
			LoginMaxAttempts:  envIntOrDefault(envLoginMaxAttempts, defaultMaxAttempts),
			LoginLockout:      time.Duration(envIntOrDefault(envLoginLockoutMin, defaultLockoutMinutes)) * time.Minute,
			CORSAllowOrigins:  []string{corsOrigin},
		}

		log.Println("应用配置已加载。")
	})
}

// envIntOrDefault 读取整数型环境变量，未设置或取值非法时返回默认值。
func envIntOrDefault(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		log.Printf("警告: 环境变量 %s 的值 %q 无效，使用默认值 %d。", key, raw, fallback)
		return fallback
	}
	return n
}
