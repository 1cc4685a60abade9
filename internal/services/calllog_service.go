package services

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strconv"
	"time"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
	"github.com/qr_contact/pkg/utils"
)

// ErrPhoneNotOnBinding 拨打的号码不属于该二维码的有效绑定
var ErrPhoneNotOnBinding = errors.New("该号码不属于此二维码的绑定")

// ErrQRCodeNotCallable 二维码尚未绑定，无法拨打
var ErrQRCodeNotCallable = errors.New("该二维码尚未绑定车主号码")

// CallLogService 处理呼叫记录的追加与管理端查询
type CallLogService interface {
	// RecordCall 访客点击拨号时追加一条呼叫记录（在客户端触发 tel:/sms: 之前调用）。
	// 演示标识符不落库，返回 nil 记录。
	RecordCall(identifier, phoneNumber, ipAddress string) (*models.CallLog, error)
	GetCallLogs(page, limit int, search string) ([]models.CallLogResponse, int64, error)
	GetStats() (*models.CallLogStats, error)
	// ExportCSV 导出全部呼叫记录为 CSV 字节串
	ExportCSV() ([]byte, error)
}

type callLogService struct {
	callLogRepo repositories.CallLogRepository
	bindingRepo repositories.PhoneBindingRepository
	resolver    ResolverService
}

// NewCallLogService 创建一个新的 callLogService 实例
func NewCallLogService(callLogRepo repositories.CallLogRepository, bindingRepo repositories.PhoneBindingRepository, resolver ResolverService) CallLogService {
	return &callLogService{callLogRepo: callLogRepo, bindingRepo: bindingRepo, resolver: resolver}
}

// RecordCall 校验号码属于该二维码的有效绑定后追加记录
func (s *callLogService) RecordCall(identifier, phoneNumber, ipAddress string) (*models.CallLog, error) {
	if err := utils.ValidatePhoneNumber(phoneNumber); err != nil {
		return nil, err
	}
	cleaned := utils.SanitizePhoneNumber(phoneNumber)

	res, err := s.resolver.Resolve(identifier)
	if err != nil {
		return nil, err
	}
	if res.Demo {
		// 演示模式不写任何东西
		return nil, nil
	}
	if res.QRCode.Status == models.StatusDisabled {
		return nil, ErrQRCodeDisabled
	}
	if res.QRCode.Status != models.StatusAssigned {
		return nil, ErrQRCodeNotCallable
	}

	binding, err := s.bindingRepo.FindActiveByQRCodeID(res.QRCode.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrQRCodeNotCallable
		}
		return nil, err
	}

	if cleaned != binding.Phone1 && (binding.Phone2 == nil || cleaned != *binding.Phone2) {
		return nil, ErrPhoneNotOnBinding
	}

	callLog := &models.CallLog{
		QRCodeID:    res.QRCode.ID,
		PhoneNumber: cleaned,
	}
	if ipAddress != "" {
		callLog.IPAddress = &ipAddress
	}
	return s.callLogRepo.Create(callLog)
}

func (s *callLogService) GetCallLogs(page, limit int, search string) ([]models.CallLogResponse, int64, error) {
	return s.callLogRepo.GetCallLogs(page, limit, search)
}

func (s *callLogService) GetStats() (*models.CallLogStats, error) {
	return s.callLogRepo.GetStats(time.Now())
}

// ExportCSV 导出全部呼叫记录。列顺序与管理端表格一致。
func (s *callLogService) ExportCSV() ([]byte, error) {
	callLogs, err := s.callLogRepo.GetAllForExport()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"id", "code", "phone_number", "called_at", "ip_address"}); err != nil {
		return nil, err
	}
	for _, callLog := range callLogs {
		ip := ""
		if callLog.IPAddress != nil {
			ip = *callLog.IPAddress
		}
		record := []string{
			strconv.FormatInt(callLog.ID, 10),
			callLog.Code,
			callLog.PhoneNumber,
			callLog.CalledAt.Format(time.RFC3339),
			ip,
		}
		if err := writer.Write(record); err != nil {
			return nil, err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
