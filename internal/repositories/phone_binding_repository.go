package repositories

import (
	"errors"
	"strings"
	"time"

	"github.com/qr_contact/internal/models"
	"gorm.io/gorm"
)

// ErrActiveBindingExists 表示该二维码已存在有效绑定（并发首次绑定时的冲突）
var ErrActiveBindingExists = errors.New("该二维码已存在有效绑定")

// ErrBindingDeleted 表示目标绑定已被软删除
var ErrBindingDeleted = errors.New("该绑定已被删除")

// PhoneBindingRepository 定义了手机绑定数据仓库的接口。
// assigned/unassigned 的状态迁移全部收敛在这里的事务方法中，
// 其它代码不得直接写 qr_codes.status（停用除外，见 QRCodeRepository.SetDisabled）。
type PhoneBindingRepository interface {
	// FindActiveByQRCodeID 查找二维码当前的有效绑定 (deleted_at IS NULL)
	FindActiveByQRCodeID(qrCodeID int64) (*models.PhoneBinding, error)
	FindByID(id int64) (*models.PhoneBinding, error)
	// CreateWithAssign 在一个事务中插入绑定并把二维码置为 assigned。
	// 事务内重查有效绑定，并发的第二个写入者得到 ErrActiveBindingExists。
	CreateWithAssign(binding *models.PhoneBinding) (*models.PhoneBinding, error)
	// UpdateActive 更新二维码当前有效绑定的字段
	UpdateActive(qrCodeID int64, updates map[string]interface{}) (*models.PhoneBinding, error)
	// UpdateByID 管理端按绑定 ID 更新字段
	UpdateByID(id int64, updates map[string]interface{}) (*models.PhoneBinding, error)
	// SoftDeleteWithUnassign 在一个事务中软删除绑定并把二维码回退为 unassigned
	SoftDeleteWithUnassign(id int64) (*models.PhoneBinding, error)
	// RestoreWithAssign 在一个事务中恢复软删除的绑定并把二维码重新置为 assigned
	RestoreWithAssign(id int64) (*models.PhoneBinding, error)
	GetBindings(page, limit int, sortBy, sortOrder, search, state string) ([]models.PhoneBindingResponse, int64, error)
	GetStats() (*models.PhoneBindingStats, error)
}

// gormPhoneBindingRepository 是 PhoneBindingRepository 的 GORM 实现
type gormPhoneBindingRepository struct {
	db *gorm.DB
}

// NewGormPhoneBindingRepository 创建一个新的 gormPhoneBindingRepository 实例
func NewGormPhoneBindingRepository(db *gorm.DB) PhoneBindingRepository {
	return &gormPhoneBindingRepository{db: db}
}

func (r *gormPhoneBindingRepository) FindActiveByQRCodeID(qrCodeID int64) (*models.PhoneBinding, error) {
	var binding models.PhoneBinding
	if err := r.db.Where("qr_code_id = ? AND deleted_at IS NULL", qrCodeID).First(&binding).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &binding, nil
}

func (r *gormPhoneBindingRepository) FindByID(id int64) (*models.PhoneBinding, error) {
	var binding models.PhoneBinding
	if err := r.db.First(&binding, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &binding, nil
}

// CreateWithAssign 首次绑定：插入绑定并把二维码置为 assigned，两步在同一事务内完成。
func (r *gormPhoneBindingRepository) CreateWithAssign(binding *models.PhoneBinding) (*models.PhoneBinding, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var qrCode models.QRCode
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&qrCode, binding.QRCodeID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		// 事务内重查，拦截并发的首次绑定
		var activeCount int64
		if err := tx.Model(&models.PhoneBinding{}).
			Where("qr_code_id = ? AND deleted_at IS NULL", binding.QRCodeID).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrActiveBindingExists
		}

		if err := tx.Create(binding).Error; err != nil {
			// 部分唯一索引兜底：并发写入者在这里撞到约束
			lower := strings.ToLower(err.Error())
			if strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key") {
				return ErrActiveBindingExists
			}
			return err
		}

		qrCode.Status = models.StatusAssigned
		return tx.Save(&qrCode).Error
	})

	if err != nil {
		return nil, err
	}
	return binding, nil
}

// UpdateActive 更新二维码当前有效绑定（车主重新提交表单的编辑路径）
func (r *gormPhoneBindingRepository) UpdateActive(qrCodeID int64, updates map[string]interface{}) (*models.PhoneBinding, error) {
	binding, err := r.FindActiveByQRCodeID(qrCodeID)
	if err != nil {
		return nil, err
	}

	if err := r.db.Model(&models.PhoneBinding{}).Where("id = ?", binding.ID).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.First(binding, binding.ID).Error; err != nil {
		return nil, err // 理论上此时应该能找到
	}
	return binding, nil
}

// UpdateByID 管理端按绑定 ID 更新字段
func (r *gormPhoneBindingRepository) UpdateByID(id int64, updates map[string]interface{}) (*models.PhoneBinding, error) {
	var binding models.PhoneBinding
	if err := r.db.First(&binding, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	if binding.IsDeleted() {
		return nil, ErrBindingDeleted
	}

	if err := r.db.Model(&models.PhoneBinding{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}

	if err := r.db.First(&binding, id).Error; err != nil {
		return nil, err
	}
	return &binding, nil
}

// SoftDeleteWithUnassign 软删除绑定并回退二维码状态，同一事务内完成
func (r *gormPhoneBindingRepository) SoftDeleteWithUnassign(id int64) (*models.PhoneBinding, error) {
	var binding models.PhoneBinding

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&binding, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if binding.IsDeleted() {
			return ErrBindingDeleted
		}

		now := time.Now()
		binding.DeletedAt = &now
		if err := tx.Save(&binding).Error; err != nil {
			return err
		}

		// 停用的二维码保持 disabled，其余回退为 unassigned
		return tx.Model(&models.QRCode{}).
			Where("id = ? AND status <> ?", binding.QRCodeID, models.StatusDisabled).
			Update("status", models.StatusUnassigned).Error
	})

	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// RestoreWithAssign 恢复软删除的绑定并重新占用二维码
func (r *gormPhoneBindingRepository) RestoreWithAssign(id int64) (*models.PhoneBinding, error) {
	var binding models.PhoneBinding

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&binding, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}
		if !binding.IsDeleted() {
			return nil // 本来就是有效绑定，无事可做
		}

		// 恢复前确认该二维码没有别的有效绑定
		var activeCount int64
		if err := tx.Model(&models.PhoneBinding{}).
			Where("qr_code_id = ? AND deleted_at IS NULL", binding.QRCodeID).
			Count(&activeCount).Error; err != nil {
			return err
		}
		if activeCount > 0 {
			return ErrActiveBindingExists
		}

		binding.DeletedAt = nil
		if err := tx.Save(&binding).Error; err != nil {
			return err
		}

		return tx.Model(&models.QRCode{}).
			Where("id = ? AND status <> ?", binding.QRCodeID, models.StatusDisabled).
			Update("status", models.StatusAssigned).Error
	})

	if err != nil {
		return nil, err
	}
	return &binding, nil
}

// GetBindings 获取绑定列表，支持分页、排序、搜索和状态筛选。
// state 取值: "" (全部) / "active" / "deleted"。
func (r *gormPhoneBindingRepository) GetBindings(page, limit int, sortBy, sortOrder, search, state string) ([]models.PhoneBindingResponse, int64, error) {
	var bindings []models.PhoneBindingResponse
	var totalItems int64

	queryBuilder := r.db.Model(&models.PhoneBinding{}).
		Joins("LEFT JOIN qr_codes ON qr_codes.id = phone_bindings.qr_code_id")

	if search != "" {
		searchTerm := "%" + search + "%"
		queryBuilder = queryBuilder.Where(
			"phone_bindings.phone1 LIKE ? OR phone_bindings.phone2 LIKE ? OR qr_codes.code LIKE ? OR qr_codes.secure_code LIKE ?",
			searchTerm, searchTerm, searchTerm, searchTerm,
		)
	}
	switch state {
	case "active":
		queryBuilder = queryBuilder.Where("phone_bindings.deleted_at IS NULL")
	case "deleted":
		queryBuilder = queryBuilder.Where("phone_bindings.deleted_at IS NOT NULL")
	}

	if err := queryBuilder.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	selectFields := []string{
		"phone_bindings.id AS id",
		"phone_bindings.qr_code_id AS qr_code_id",
		"qr_codes.code AS code",
		"qr_codes.secure_code AS secure_code",
		"qr_codes.status AS qr_code_status",
		"phone_bindings.phone1 AS phone1",
		"phone_bindings.phone2 AS phone2",
		"phone_bindings.bound_at AS bound_at",
		"phone_bindings.updated_at AS updated_at",
		"phone_bindings.deleted_at AS deleted_at",
	}
	queryBuilder = queryBuilder.Select(selectFields)

	if sortBy != "" {
		allowedSortByFields := map[string]string{
			"id":        "phone_bindings.id",
			"phone1":    "phone_bindings.phone1",
			"code":      "qr_codes.code",
			"boundAt":   "phone_bindings.bound_at",
			"updatedAt": "phone_bindings.updated_at",
		}
		dbSortBy, isValidField := allowedSortByFields[sortBy]
		if !isValidField {
			dbSortBy = "phone_bindings.bound_at"
		}
		if strings.ToLower(sortOrder) != "desc" {
			sortOrder = "asc"
		}
		queryBuilder = queryBuilder.Order(dbSortBy + " " + sortOrder)
	} else {
		queryBuilder = queryBuilder.Order("phone_bindings.bound_at desc")
	}

	offset := (page - 1) * limit
	queryBuilder = queryBuilder.Offset(offset).Limit(limit)

	if err := queryBuilder.Find(&bindings).Error; err != nil {
		return nil, 0, err
	}

	return bindings, totalItems, nil
}

// GetStats 统计绑定记录数量：总数、有效已分配、有效未分配、已删除
func (r *gormPhoneBindingRepository) GetStats() (*models.PhoneBindingStats, error) {
	var stats models.PhoneBindingStats
	if err := r.db.Model(&models.PhoneBinding{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.PhoneBinding{}).
		Joins("LEFT JOIN qr_codes ON qr_codes.id = phone_bindings.qr_code_id").
		Where("phone_bindings.deleted_at IS NULL AND qr_codes.status = ?", models.StatusAssigned).
		Count(&stats.Active).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.PhoneBinding{}).
		Where("deleted_at IS NOT NULL").
		Count(&stats.Deleted).Error; err != nil {
		return nil, err
	}
	stats.Inactive = stats.Total - stats.Active - stats.Deleted
	return &stats, nil
}
