package utils

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
)

var (
	ErrInvalidPhoneNumberFormat  = errors.New("无效的手机号码格式，必须是11位数字")
	ErrInvalidPhoneNumberPrefix  = errors.New("无效的手机号码前缀，必须以 010/011/016/017/018/019 开头")
	ErrEmptyManagementPassword   = errors.New("管理密码不能为空")
	ErrManagementPasswordTooLong = errors.New("管理密码过长")
	ErrInvalidBatchPrefix        = errors.New("二维码前缀无效，长度须为1-44个字符")
	ErrInvalidUsernameFormat     = errors.New("用户名格式无效，须为3-50位字母、数字或下划线")
)

// validMobilePrefixes 韩国移动号码段
var validMobilePrefixes = []string{"010", "011", "016", "017", "018", "019"}

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// IsNumeric 检查字符串是否只包含数字
func IsNumeric(s string) bool {
	if s == "" {
		return false // 空字符串不视为数字
	}
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// SanitizePhoneNumber 去掉手机号中的所有非数字字符（如 "010-1234-5678" 中的连字符）。
func SanitizePhoneNumber(phone string) string {
	var b strings.Builder
	for _, r := range phone {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidatePhoneNumber 校验手机号码格式：去除非数字字符后须为11位，
// 且以韩国移动号码段 (010/011/016/017/018/019) 开头。
// 如果有效，返回 nil；否则返回具体的错误。
func ValidatePhoneNumber(phone string) error {
	cleaned := SanitizePhoneNumber(phone)
	if len(cleaned) != 11 {
		return ErrInvalidPhoneNumberFormat
	}
	for _, prefix := range validMobilePrefixes {
		if strings.HasPrefix(cleaned, prefix) {
			return nil
		}
	}
	return ErrInvalidPhoneNumberPrefix
}

// ValidateManagementPassword 校验车主管理密码。
// 只要求非空且不超过 bcrypt 的 72 字节上限，不做复杂度策略。
func ValidateManagementPassword(password string) error {
	if password == "" {
		return ErrEmptyManagementPassword
	}
	if len(password) > 72 {
		return ErrManagementPasswordTooLong
	}
	return nil
}

// ValidateBatchPrefix 校验批量生成二维码时的标签前缀。
func ValidateBatchPrefix(prefix string) error {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" || len(trimmed) > 44 {
		return ErrInvalidBatchPrefix
	}
	return nil
}

// ValidateUsername 校验管理员用户名格式。
func ValidateUsername(username string) error {
	if len(username) < 3 || len(username) > 50 || !usernamePattern.MatchString(username) {
		return ErrInvalidUsernameFormat
	}
	return nil
}
