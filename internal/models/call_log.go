package models

import (
	"time"
)

// CallLog 对应于数据库中的 call_logs 表。
// 访客在呼叫页点击拨号时追加一条记录，只增不改。
type CallLog struct {
	ID          int64     `json:"id" gorm:"primaryKey;autoIncrement"`
	QRCodeID    int64     `json:"qrCodeId" gorm:"column:qr_code_id;not null;index"`
	PhoneNumber string    `json:"phoneNumber" gorm:"column:phone_number;not null;size:20"` // 实际拨打的号码
	CalledAt    time.Time `json:"calledAt" gorm:"column:called_at;not null;autoCreateTime;index"`
	IPAddress   *string   `json:"ipAddress,omitempty" gorm:"column:ip_address;size:45"`
}

// TableName 指定 CallLog 结构体对应的数据库表名
func (CallLog) TableName() string {
	return "call_logs"
}

// CallLogResponse 是管理端通话记录列表的响应结构，带所属二维码标签
type CallLogResponse struct {
	ID          int64     `json:"id"`
	QRCodeID    int64     `json:"qrCodeId"`
	Code        string    `json:"code"`
	PhoneNumber string    `json:"phoneNumber"`
	CalledAt    time.Time `json:"calledAt"`
	IPAddress   *string   `json:"ipAddress,omitempty"`
}

// CallLogStats 通话记录总体统计
type CallLogStats struct {
	Total     int64 `json:"total"`
	Today     int64 `json:"today"`
	ThisWeek  int64 `json:"thisWeek"`
	ThisMonth int64 `json:"thisMonth"`
}
