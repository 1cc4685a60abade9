package repositories

import (
	"errors"
	"strings"

	"github.com/qr_contact/internal/models"
	"gorm.io/gorm"
)

// ErrRecordNotFound 表示记录未找到，可以重用 gorm 的错误或自定义
var ErrRecordNotFound = gorm.ErrRecordNotFound

// ErrQRCodeLabelConflict 表示生成的二维码标签或安全码与已有记录冲突
var ErrQRCodeLabelConflict = errors.New("二维码标签或安全码已存在")

// QRCodeRepository 定义了二维码数据仓库的接口
type QRCodeRepository interface {
	// FindBySecureCode 按新一代公开标识符查找
	FindBySecureCode(secureCode string) (*models.QRCode, error)
	// FindByCode 按历史可读标签查找
	FindByCode(code string) (*models.QRCode, error)
	FindByID(id int64) (*models.QRCode, error)
	// CreateBatch 批量插入新生成的二维码
	CreateBatch(codes []models.QRCode) error
	GetQRCodes(page, limit int, sortBy, sortOrder, search, status string) ([]models.QRCodeResponse, int64, error)
	// RegenerateSecureCode 为指定二维码更换安全码
	RegenerateSecureCode(id int64, secureCode string) (*models.QRCode, error)
	// SetDisabled 是 assigned/unassigned 之外唯一的状态写入口：
	// disabled=true 置为停用；disabled=false 按是否存在有效绑定恢复为 assigned/unassigned。
	SetDisabled(id int64, disabled bool) (*models.QRCode, error)
	DeleteByIDs(ids []int64) (int64, error)
	GetStats() (*models.QRCodeStats, error)
}

// gormQRCodeRepository 是 QRCodeRepository 的 GORM 实现
type gormQRCodeRepository struct {
	db *gorm.DB
}

// NewGormQRCodeRepository 创建一个新的 gormQRCodeRepository 实例
func NewGormQRCodeRepository(db *gorm.DB) QRCodeRepository {
	return &gormQRCodeRepository{db: db}
}

func (r *gormQRCodeRepository) FindBySecureCode(secureCode string) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := r.db.Where("secure_code = ?", secureCode).First(&qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &qrCode, nil
}

func (r *gormQRCodeRepository) FindByCode(code string) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := r.db.Where("code = ?", code).First(&qrCode).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &qrCode, nil
}

func (r *gormQRCodeRepository) FindByID(id int64) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := r.db.First(&qrCode, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}
	return &qrCode, nil
}

// CreateBatch 在一个事务中插入整批二维码，任何一条标签冲突则整批回滚
func (r *gormQRCodeRepository) CreateBatch(codes []models.QRCode) error {
	if len(codes) == 0 {
		return nil
	}
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&codes).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key") {
			return ErrQRCodeLabelConflict
		}
		return err
	}
	return nil
}

// GetQRCodes 获取二维码列表，支持分页、排序、搜索和状态筛选，
// 每行附带历史绑定条数和通话记录条数
func (r *gormQRCodeRepository) GetQRCodes(page, limit int, sortBy, sortOrder, search, status string) ([]models.QRCodeResponse, int64, error) {
	var qrCodes []models.QRCodeResponse
	var totalItems int64

	queryBuilder := r.db.Model(&models.QRCode{})

	if search != "" {
		searchTerm := "%" + search + "%"
		queryBuilder = queryBuilder.Where("qr_codes.code LIKE ? OR qr_codes.secure_code LIKE ?", searchTerm, searchTerm)
	}
	if status != "" { // 仅当 status 参数非空时才应用此条件
		queryBuilder = queryBuilder.Where("qr_codes.status = ?", status)
	}

	// 执行 COUNT 查询获取总数 (基于已应用的过滤器)
	if err := queryBuilder.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	selectFields := []string{
		"qr_codes.id AS id",
		"qr_codes.code AS code",
		"qr_codes.secure_code AS secure_code",
		"qr_codes.status AS status",
		"(SELECT COUNT(*) FROM phone_bindings pb WHERE pb.qr_code_id = qr_codes.id) AS phone_binding_count",
		"(SELECT COUNT(*) FROM call_logs cl WHERE cl.qr_code_id = qr_codes.id) AS call_log_count",
		"qr_codes.created_at AS created_at",
		"qr_codes.updated_at AS updated_at",
	}
	queryBuilder = queryBuilder.Select(selectFields)

	// 处理排序
	if sortBy != "" {
		// 白名单校验 sortBy 字段，防止 SQL 注入
		allowedSortByFields := map[string]string{
			"id":        "qr_codes.id",
			"code":      "qr_codes.code",
			"status":    "qr_codes.status",
			"createdAt": "qr_codes.created_at",
			"updatedAt": "qr_codes.updated_at",
		}
		dbSortBy, isValidField := allowedSortByFields[sortBy]
		if !isValidField {
			dbSortBy = "qr_codes.created_at" // 默认排序字段
		}
		if strings.ToLower(sortOrder) != "desc" {
			sortOrder = "asc"
		}
		queryBuilder = queryBuilder.Order(dbSortBy + " " + sortOrder)
	} else {
		// 默认排序
		queryBuilder = queryBuilder.Order("qr_codes.created_at desc")
	}

	// 处理分页
	offset := (page - 1) * limit
	queryBuilder = queryBuilder.Offset(offset).Limit(limit)

	if err := queryBuilder.Find(&qrCodes).Error; err != nil {
		return nil, 0, err
	}

	return qrCodes, totalItems, nil
}

// RegenerateSecureCode 更换指定二维码的安全码
func (r *gormQRCodeRepository) RegenerateSecureCode(id int64, secureCode string) (*models.QRCode, error) {
	var qrCode models.QRCode
	if err := r.db.First(&qrCode, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, err
	}

	if err := r.db.Model(&models.QRCode{}).Where("id = ?", id).Update("secure_code", secureCode).Error; err != nil {
		lower := strings.ToLower(err.Error())
		if strings.Contains(lower, "unique constraint") || strings.Contains(lower, "duplicate key") {
			return nil, ErrQRCodeLabelConflict
		}
		return nil, err
	}

	if err := r.db.First(&qrCode, id).Error; err != nil {
		return nil, err // 理论上此时应该能找到
	}
	return &qrCode, nil
}

// SetDisabled 切换二维码的停用状态。
// 恢复启用时按"是否存在有效绑定"这一唯一语义回写 assigned/unassigned。
func (r *gormQRCodeRepository) SetDisabled(id int64, disabled bool) (*models.QRCode, error) {
	var qrCode models.QRCode

	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").First(&qrCode, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRecordNotFound
			}
			return err
		}

		newStatus := models.StatusDisabled
		if !disabled {
			var activeCount int64
			if err := tx.Model(&models.PhoneBinding{}).
				Where("qr_code_id = ? AND deleted_at IS NULL", id).
				Count(&activeCount).Error; err != nil {
				return err
			}
			if activeCount > 0 {
				newStatus = models.StatusAssigned
			} else {
				newStatus = models.StatusUnassigned
			}
		}

		qrCode.Status = newStatus
		return tx.Save(&qrCode).Error
	})

	if err != nil {
		return nil, err
	}
	return &qrCode, nil
}

// DeleteByIDs 按 ID 批量物理删除二维码，返回删除条数
func (r *gormQRCodeRepository) DeleteByIDs(ids []int64) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Where("id IN ?", ids).Delete(&models.QRCode{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// GetStats 统计二维码总数及各状态数量
func (r *gormQRCodeRepository) GetStats() (*models.QRCodeStats, error) {
	var stats models.QRCodeStats
	if err := r.db.Model(&models.QRCode{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.QRCode{}).
		Where("status = ?", models.StatusAssigned).
		Count(&stats.Assigned).Error; err != nil {
		return nil, err
	}
	stats.Unassigned = stats.Total - stats.Assigned
	return &stats, nil
}
