package repositories

import (
	"time"

	"github.com/qr_contact/internal/models"
	"gorm.io/gorm"
)

// CallLogRepository 定义了通话记录数据仓库的接口。通话记录只增不改。
type CallLogRepository interface {
	Create(callLog *models.CallLog) (*models.CallLog, error)
	GetCallLogs(page, limit int, search string) ([]models.CallLogResponse, int64, error)
	// GetAllForExport 按时间倒序取全部记录，用于 CSV 导出
	GetAllForExport() ([]models.CallLogResponse, error)
	// GetStats 以 now 为基准统计总数、今日、本周（近7天）、本月（近30天）
	GetStats(now time.Time) (*models.CallLogStats, error)
}

// gormCallLogRepository 是 CallLogRepository 的 GORM 实现
type gormCallLogRepository struct {
	db *gorm.DB
}

// NewGormCallLogRepository 创建一个新的 gormCallLogRepository 实例
func NewGormCallLogRepository(db *gorm.DB) CallLogRepository {
	return &gormCallLogRepository{db: db}
}

func (r *gormCallLogRepository) Create(callLog *models.CallLog) (*models.CallLog, error) {
	if err := r.db.Create(callLog).Error; err != nil {
		return nil, err
	}
	return callLog, nil
}

// GetCallLogs 获取通话记录列表，按呼叫时间倒序，支持按号码或二维码标签搜索
func (r *gormCallLogRepository) GetCallLogs(page, limit int, search string) ([]models.CallLogResponse, int64, error) {
	var callLogs []models.CallLogResponse
	var totalItems int64

	queryBuilder := r.db.Model(&models.CallLog{}).
		Joins("LEFT JOIN qr_codes ON qr_codes.id = call_logs.qr_code_id")

	if search != "" {
		searchTerm := "%" + search + "%"
		queryBuilder = queryBuilder.Where(
			"call_logs.phone_number LIKE ? OR qr_codes.code LIKE ?",
			searchTerm, searchTerm,
		)
	}

	if err := queryBuilder.Count(&totalItems).Error; err != nil {
		return nil, 0, err
	}

	selectFields := []string{
		"call_logs.id AS id",
		"call_logs.qr_code_id AS qr_code_id",
		"qr_codes.code AS code",
		"call_logs.phone_number AS phone_number",
		"call_logs.called_at AS called_at",
		"call_logs.ip_address AS ip_address",
	}

	offset := (page - 1) * limit
	if err := queryBuilder.
		Select(selectFields).
		Order("call_logs.called_at desc").
		Offset(offset).Limit(limit).
		Find(&callLogs).Error; err != nil {
		return nil, 0, err
	}

	return callLogs, totalItems, nil
}

func (r *gormCallLogRepository) GetAllForExport() ([]models.CallLogResponse, error) {
	var callLogs []models.CallLogResponse
	err := r.db.Model(&models.CallLog{}).
		Joins("LEFT JOIN qr_codes ON qr_codes.id = call_logs.qr_code_id").
		Select(
			"call_logs.id AS id",
			"call_logs.qr_code_id AS qr_code_id",
			"qr_codes.code AS code",
			"call_logs.phone_number AS phone_number",
			"call_logs.called_at AS called_at",
			"call_logs.ip_address AS ip_address",
		).
		Order("call_logs.called_at desc").
		Find(&callLogs).Error
	if err != nil {
		return nil, err
	}
	return callLogs, nil
}

func (r *gormCallLogRepository) GetStats(now time.Time) (*models.CallLogStats, error) {
	var stats models.CallLogStats

	if err := r.db.Model(&models.CallLog{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	if err := r.db.Model(&models.CallLog{}).Where("called_at >= ?", today).Count(&stats.Today).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.CallLog{}).Where("called_at >= ?", weekAgo).Count(&stats.ThisWeek).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.CallLog{}).Where("called_at >= ?", monthAgo).Count(&stats.ThisMonth).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}
