package services

import (
	"errors"

	"golang.org/x/crypto/bcrypt"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
	"github.com/qr_contact/pkg/utils"
)

var (
	// ErrBindingNotFound 绑定记录未找到
	ErrBindingNotFound = errors.New("绑定记录未找到")
	// ErrBindingConflict 并发首次绑定被拦截
	ErrBindingConflict = errors.New("该二维码已被他人绑定")
	// ErrWrongManagementPassword 管理密码不匹配
	ErrWrongManagementPassword = errors.New("管理密码不正确")
)

// BindingInput 车主提交绑定表单的数据
type BindingInput struct {
	Phone1             string
	Phone2             string // 可选
	ManagementPassword string // 首次绑定必填；编辑时留空表示保留原密码
}

// BindingService 处理车主绑定表单与管理端的绑定 CRUD
type BindingService interface {
	// SubmitBinding 提交绑定表单：无有效绑定则插入并置 assigned（同一事务），
	// 已有有效绑定则更新。返回 created=true 表示走了插入路径。
	SubmitBinding(identifier string, input BindingInput) (binding *models.PhoneBinding, created bool, err error)
	// VerifyManagementPassword 核对管理密码，每次都从存储中取最新哈希比对
	VerifyManagementPassword(identifier, password string) error
	GetBindings(page, limit int, sortBy, sortOrder, search, state string) ([]models.PhoneBindingResponse, int64, error)
	GetStats() (*models.PhoneBindingStats, error)
	// UpdateBinding 管理端编辑绑定号码
	UpdateBinding(id int64, phone1, phone2 string) (*models.PhoneBinding, error)
	// DeleteBinding 软删除，二维码同事务回退为 unassigned
	DeleteBinding(id int64) (*models.PhoneBinding, error)
	// RestoreBinding 恢复软删除的绑定，二维码重新置为 assigned
	RestoreBinding(id int64) (*models.PhoneBinding, error)
}

type bindingService struct {
	bindingRepo repositories.PhoneBindingRepository
	resolver    ResolverService
}

// NewBindingService 创建一个新的 bindingService 实例
func NewBindingService(bindingRepo repositories.PhoneBindingRepository, resolver ResolverService) BindingService {
	return &bindingService{bindingRepo: bindingRepo, resolver: resolver}
}

// SubmitBinding 处理车主绑定表单提交
func (s *bindingService) SubmitBinding(identifier string, input BindingInput) (*models.PhoneBinding, bool, error) {
	if err := utils.ValidatePhoneNumber(input.Phone1); err != nil {
		return nil, false, err
	}
	phone1 := utils.SanitizePhoneNumber(input.Phone1)

	var phone2 *string
	if utils.SanitizePhoneNumber(input.Phone2) != "" {
		if err := utils.ValidatePhoneNumber(input.Phone2); err != nil {
			return nil, false, err
		}
		cleaned := utils.SanitizePhoneNumber(input.Phone2)
		phone2 = &cleaned
	}

	res, err := s.resolver.Resolve(identifier)
	if err != nil {
		return nil, false, err
	}
	if res.Demo {
		// 演示标识符不产生任何写入，直接回显固定数据
		return DemoBinding(), false, nil
	}
	if res.QRCode.Status == models.StatusDisabled {
		return nil, false, ErrQRCodeDisabled
	}

	existing, err := s.bindingRepo.FindActiveByQRCodeID(res.QRCode.ID)
	if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, false, err
	}

	if existing != nil {
		// 编辑路径：更新现有绑定，密码留空则保留原哈希
		updates := map[string]interface{}{
			"phone1": phone1,
			"phone2": phone2,
		}
		if input.ManagementPassword != "" {
			if err := utils.ValidateManagementPassword(input.ManagementPassword); err != nil {
				return nil, false, err
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(input.ManagementPassword), bcrypt.DefaultCost)
			if err != nil {
				return nil, false, err
			}
			updates["management_password_hash"] = string(hash)
		}
		updated, err := s.bindingRepo.UpdateActive(res.QRCode.ID, updates)
		if err != nil {
			return nil, false, err
		}
		return updated, false, nil
	}

	// 插入路径：首次绑定必须设置管理密码
	if err := utils.ValidateManagementPassword(input.ManagementPassword); err != nil {
		return nil, false, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.ManagementPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, false, err
	}

	binding := &models.PhoneBinding{
		QRCodeID:               res.QRCode.ID,
		Phone1:                 phone1,
		Phone2:                 phone2,
		ManagementPasswordHash: string(hash),
	}
	created, err := s.bindingRepo.CreateWithAssign(binding)
	if err != nil {
		if errors.Is(err, repositories.ErrActiveBindingExists) {
			return nil, false, ErrBindingConflict
		}
		return nil, false, err
	}
	return created, true, nil
}

// VerifyManagementPassword 车主在呼叫页输入密码进入编辑模式前的核对。
// 故意不做锁定或限速（与管理员登录不同）。
func (s *bindingService) VerifyManagementPassword(identifier, password string) error {
	res, err := s.resolver.Resolve(identifier)
	if err != nil {
		return err
	}
	if res.Demo {
		// 演示记录没有密码，视为核对失败
		return ErrWrongManagementPassword
	}

	binding, err := s.bindingRepo.FindActiveByQRCodeID(res.QRCode.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return ErrBindingNotFound
		}
		return err
	}

	if bcrypt.CompareHashAndPassword([]byte(binding.ManagementPasswordHash), []byte(password)) != nil {
		return ErrWrongManagementPassword
	}
	return nil
}

func (s *bindingService) GetBindings(page, limit int, sortBy, sortOrder, search, state string) ([]models.PhoneBindingResponse, int64, error) {
	return s.bindingRepo.GetBindings(page, limit, sortBy, sortOrder, search, state)
}

func (s *bindingService) GetStats() (*models.PhoneBindingStats, error) {
	return s.bindingRepo.GetStats()
}

// UpdateBinding 管理端编辑绑定号码（不触碰管理密码）
func (s *bindingService) UpdateBinding(id int64, phone1, phone2 string) (*models.PhoneBinding, error) {
	if err := utils.ValidatePhoneNumber(phone1); err != nil {
		return nil, err
	}
	updates := map[string]interface{}{
		"phone1": utils.SanitizePhoneNumber(phone1),
	}
	if utils.SanitizePhoneNumber(phone2) != "" {
		if err := utils.ValidatePhoneNumber(phone2); err != nil {
			return nil, err
		}
		updates["phone2"] = utils.SanitizePhoneNumber(phone2)
	} else {
		updates["phone2"] = nil
	}

	updated, err := s.bindingRepo.UpdateByID(id, updates)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrBindingNotFound
		}
		return nil, err
	}
	return updated, nil
}

func (s *bindingService) DeleteBinding(id int64) (*models.PhoneBinding, error) {
	deleted, err := s.bindingRepo.SoftDeleteWithUnassign(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrBindingNotFound
		}
		return nil, err
	}
	return deleted, nil
}

func (s *bindingService) RestoreBinding(id int64) (*models.PhoneBinding, error) {
	restored, err := s.bindingRepo.RestoreWithAssign(id)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrBindingNotFound
		}
		if errors.Is(err, repositories.ErrActiveBindingExists) {
			return nil, ErrBindingConflict
		}
		return nil, err
	}
	return restored, nil
}
