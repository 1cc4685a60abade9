package models

import (
	"time"
)

// PhoneBinding 对应于数据库中的 phone_bindings 表。
// 一个二维码最多存在一条 deleted_at 为空的有效绑定，由仓库层的事务保证。
// 注意：这里使用 *time.Time 而不是 gorm.DeletedAt 做软删除，
// 因为管理端需要列出并恢复已删除的绑定，GORM 的默认作用域会把它们隐藏掉。
type PhoneBinding struct {
	ID                     int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	QRCodeID               int64      `json:"qrCodeId" gorm:"column:qr_code_id;not null;index"`
	Phone1                 string     `json:"phone1" gorm:"column:phone1;not null;size:20"` // 车主手机号，11位
	Phone2                 *string    `json:"phone2,omitempty" gorm:"column:phone2;size:20"`
	ManagementPasswordHash string     `json:"-" gorm:"column:management_password_hash;not null;size:255"` // 管理密码哈希不通过JSON暴露
	BoundAt                time.Time  `json:"boundAt" gorm:"column:bound_at;not null;autoCreateTime"`
	UpdatedAt              time.Time  `json:"updatedAt" gorm:"column:updated_at;not null;autoUpdateTime"`
	DeletedAt              *time.Time `json:"deletedAt,omitempty" gorm:"column:deleted_at;index"`
}

// TableName 指定 PhoneBinding 结构体对应的数据库表名
func (PhoneBinding) TableName() string {
	return "phone_bindings"
}

// IsDeleted 判断该绑定是否已被软删除
func (b *PhoneBinding) IsDeleted() bool {
	return b.DeletedAt != nil
}

// PhoneBindingResponse 是管理端用户（绑定）列表的响应结构，带所属二维码信息
type PhoneBindingResponse struct {
	ID           int64        `json:"id"`
	QRCodeID     int64        `json:"qrCodeId"`
	Code         string       `json:"code"`
	SecureCode   *string      `json:"secureCode,omitempty"`
	QRCodeStatus QRCodeStatus `json:"qrCodeStatus"`
	Phone1       string       `json:"phone1"`
	Phone2       *string      `json:"phone2,omitempty"`
	BoundAt      time.Time    `json:"boundAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
	DeletedAt    *time.Time   `json:"deletedAt,omitempty"`
}

// PhoneBindingStats 绑定记录总体统计
type PhoneBindingStats struct {
	Total    int64 `json:"total"`
	Active   int64 `json:"active"`   // 有效且所属二维码为 assigned
	Inactive int64 `json:"inactive"` // 有效但所属二维码不是 assigned
	Deleted  int64 `json:"deleted"`
}
