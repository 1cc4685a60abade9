package models

import (
	"time"
)

// QRCodeStatus 二维码状态
type QRCodeStatus string

const (
	StatusUnassigned QRCodeStatus = "unassigned" // 未绑定
	StatusAssigned   QRCodeStatus = "assigned"   // 已绑定
	StatusDisabled   QRCodeStatus = "disabled"   // 已停用
)

// IsValidQRCodeStatus 检查给定状态值是否合法
func IsValidQRCodeStatus(s string) bool {
	switch QRCodeStatus(s) {
	case StatusUnassigned, StatusAssigned, StatusDisabled:
		return true
	}
	return false
}

// QRCode 对应于数据库中的 qr_codes 表
type QRCode struct {
	ID         int64        `json:"id" gorm:"primaryKey;autoIncrement"`
	Code       string       `json:"code" gorm:"column:code;unique;not null;size:50"`          // 批量生成时分配的可读标签，历史上曾作为公开标识符
	SecureCode *string      `json:"secureCode,omitempty" gorm:"column:secure_code;size:50"`   // 新一代公开标识符，旧记录可能为空
	Status     QRCodeStatus `json:"status" gorm:"column:status;not null;default:'unassigned';size:20"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"column:created_at;not null;autoCreateTime"`
	UpdatedAt  time.Time    `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
}

// TableName 指定 QRCode 结构体对应的数据库表名
func (QRCode) TableName() string {
	return "qr_codes"
}

// QRCodeResponse 是管理端二维码列表的响应结构，附带统计字段
type QRCodeResponse struct {
	ID                int64        `json:"id"`
	Code              string       `json:"code"`
	SecureCode        *string      `json:"secureCode,omitempty"`
	Status            QRCodeStatus `json:"status"`
	PhoneBindingCount int64        `json:"phoneBindingCount"` // 历史绑定条数（含已删除）
	CallLogCount      int64        `json:"callLogCount"`
	CreatedAt         time.Time    `json:"createdAt"`
	UpdatedAt         time.Time    `json:"updatedAt"`
}

// QRCodeStats 二维码总体统计
type QRCodeStats struct {
	Total      int64 `json:"total"`
	Assigned   int64 `json:"assigned"`
	Unassigned int64 `json:"unassigned"`
}
