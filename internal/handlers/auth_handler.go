package handlers

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/qr_contact/configs"
	"github.com/qr_contact/internal/auth"
	"github.com/qr_contact/pkg/utils"
)

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string   `json:"token"`
	User  UserInfo `json:"user"`
}

type UserInfo struct {
	Username string `json:"username"`
}

var (
	lockoutOnce  sync.Once
	loginLockout *auth.LoginLockout
)

// getLoginLockout 延迟初始化登录锁定器（配置在启动时已加载）
func getLoginLockout() *auth.LoginLockout {
	lockoutOnce.Do(func() {
		loginLockout = auth.NewLoginLockout(
			configs.AppConfig.LoginMaxAttempts,
			configs.AppConfig.LoginLockout,
		)
	})
	return loginLockout
}

// Login godoc
// @Summary 管理员登录
// @Description 验证管理员凭证并返回 JWT。连续失败5次后该来源锁定15分钟。
// @Tags auth
// @Accept  json
// @Produce  json
// @Param credentials body LoginRequest true "登录凭证"
// @Success 200 {object} utils.SuccessResponse{data=LoginResponse} "登录成功，返回 Token 和用户信息"
// @Failure 400 {object} utils.APIErrorResponse "请求参数错误"
// @Failure 401 {object} utils.APIErrorResponse "无效的用户名或密码"
// @Failure 429 {object} utils.APIErrorResponse "尝试次数过多，已被锁定"
// @Failure 500 {object} utils.APIErrorResponse "无法生成Token"
// @Router /auth/login [post]
func Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondValidationError(c, err.Error())
		return
	}

	lockout := getLoginLockout()
	source := c.ClientIP()

	if locked, remaining := lockout.Check(source); locked {
		utils.RespondAPIError(c, http.StatusTooManyRequests,
			fmt.Sprintf("登录尝试次数过多，请在 %d 分钟后重试", int(remaining.Minutes())+1), nil)
		return
	}

	cfg := configs.AppConfig
	credentialsOK := req.Username == cfg.AdminUsername &&
		bcrypt.CompareHashAndPassword([]byte(cfg.AdminPasswordHash), []byte(req.Password)) == nil

	if !credentialsOK {
		if lockout.RecordFailure(source) {
			utils.RespondAPIError(c, http.StatusTooManyRequests,
				fmt.Sprintf("登录尝试次数过多，请在 %d 分钟后重试", int(cfg.LoginLockout.Minutes())), nil)
			return
		}
		utils.RespondUnauthorizedError(c, "无效的用户名或密码")
		return
	}

	lockout.Reset(source)

	expirationTime := time.Now().Add(cfg.SessionTimeout)
	claims := &auth.Claims{
		Username: req.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   req.Username,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			Issuer:    "qr_contact",              // 可选，签发者
			Audience:  jwt.ClaimStrings{"admin"}, // 可选，受众
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(cfg.JWTSecret))
	if err != nil {
		utils.RespondInternalServerError(c, "无法生成Token", err.Error())
		return
	}

	loginResp := LoginResponse{
		Token: tokenString,
		User: UserInfo{
			Username: req.Username,
		},
	}
	utils.RespondSuccess(c, http.StatusOK, loginResp, "登录成功")
}

// LogoutHandler godoc
// @Summary 管理员登出
// @Description 将当前 Token 的 JTI 加入拒绝列表使其失效。
// @Tags auth
// @Security BearerAuth
// @Accept  json
// @Produce  json
// @Success 200 {object} utils.SuccessResponse "成功登出"
// @Failure 400 {object} utils.APIErrorResponse "错误的请求 (例如，上下文中缺少JTI或EXP)"
// @Router /auth/logout [post]
func LogoutHandler(c *gin.Context) {
	jtiVal, jtiExists := c.Get("jti")
	expVal, expExists := c.Get("exp")

	if !jtiExists || !expExists {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: JTI or EXP not found in context", nil)
		return
	}

	jti, okJTI := jtiVal.(string)
	exp, okEXP := expVal.(time.Time)

	if !okJTI || jti == "" {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: Invalid JTI", nil)
		return
	}
	if !okEXP {
		utils.RespondAPIError(c, http.StatusBadRequest, "Logout context error: Invalid EXP", nil)
		return
	}

	auth.AddToDenylist(jti, exp)
	utils.RespondSuccess(c, http.StatusOK, nil, "成功登出")
}
