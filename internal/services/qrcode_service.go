package services

import (
	"errors"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
	"github.com/qr_contact/pkg/utils"
)

// ErrInvalidBatchCount 批量生成数量超出允许范围
var ErrInvalidBatchCount = errors.New("批量生成数量须在1-1000之间")

const (
	maxBatchCount    = 1000
	codeSuffixDigits = 6 // 可读标签的随机数字后缀位数
)

// QRCodeService 处理管理端的二维码库存操作
type QRCodeService interface {
	// BatchGenerate 批量生成二维码：code = 前缀 + 6位随机数字，
	// secure_code = 8位大写 base36 随机串，状态 unassigned。
	BatchGenerate(count int, prefix string) ([]models.QRCode, error)
	GetQRCodes(page, limit int, sortBy, sortOrder, search, status string) ([]models.QRCodeResponse, int64, error)
	GetQRCodeByID(id int64) (*models.QRCode, error)
	// SetDisabled 停用或恢复二维码
	SetDisabled(id int64, disabled bool) (*models.QRCode, error)
	// RegenerateSecureCode 为二维码更换新的安全码（旧安全码随即失效）
	RegenerateSecureCode(id int64) (*models.QRCode, error)
	DeleteQRCodes(ids []int64) (int64, error)
	GetStats() (*models.QRCodeStats, error)
}

type qrCodeService struct {
	qrRepo repositories.QRCodeRepository
}

// NewQRCodeService 创建一个新的 qrCodeService 实例
func NewQRCodeService(qrRepo repositories.QRCodeRepository) QRCodeService {
	return &qrCodeService{qrRepo: qrRepo}
}

// BatchGenerate 批量生成二维码库存
func (s *qrCodeService) BatchGenerate(count int, prefix string) ([]models.QRCode, error) {
	if count < 1 || count > maxBatchCount {
		return nil, ErrInvalidBatchCount
	}
	if err := utils.ValidateBatchPrefix(prefix); err != nil {
		return nil, err
	}

	codes := make([]models.QRCode, 0, count)
	for i := 0; i < count; i++ {
		suffix, err := utils.RandomDigits(codeSuffixDigits)
		if err != nil {
			return nil, err
		}
		secureCode, err := utils.RandomBase36(utils.SecureCodeLength)
		if err != nil {
			return nil, err
		}
		codes = append(codes, models.QRCode{
			Code:       prefix + suffix,
			SecureCode: &secureCode,
			Status:     models.StatusUnassigned,
		})
	}

	if err := s.qrRepo.CreateBatch(codes); err != nil {
		return nil, err
	}
	return codes, nil
}

func (s *qrCodeService) GetQRCodes(page, limit int, sortBy, sortOrder, search, status string) ([]models.QRCodeResponse, int64, error) {
	return s.qrRepo.GetQRCodes(page, limit, sortBy, sortOrder, search, status)
}

func (s *qrCodeService) GetQRCodeByID(id int64) (*models.QRCode, error) {
	qrCode, err := s.qrRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	return qrCode, nil
}

func (s *qrCodeService) SetDisabled(id int64, disabled bool) (*models.QRCode, error) {
	qrCode, err := s.qrRepo.SetDisabled(id, disabled)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	return qrCode, nil
}

func (s *qrCodeService) RegenerateSecureCode(id int64) (*models.QRCode, error) {
	secureCode, err := utils.RandomBase36(utils.SecureCodeLength)
	if err != nil {
		return nil, err
	}
	qrCode, err := s.qrRepo.RegenerateSecureCode(id, secureCode)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}
	return qrCode, nil
}

func (s *qrCodeService) DeleteQRCodes(ids []int64) (int64, error) {
	return s.qrRepo.DeleteByIDs(ids)
}

func (s *qrCodeService) GetStats() (*models.QRCodeStats, error) {
	return s.qrRepo.GetStats()
}
