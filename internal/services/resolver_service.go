package services

import (
	"errors"
	"time"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
)

// DemoIdentifier 是保留的演示标识符：不查库、不落库，
// 始终解析到一个内存中的固定二维码与绑定。
const DemoIdentifier = "demo123"

var (
	// ErrQRCodeNotFound 两轮查找（secure_code、code）都未命中
	ErrQRCodeNotFound = errors.New("二维码不存在")
	// ErrQRCodeDisabled 二维码已被管理员停用
	ErrQRCodeDisabled = errors.New("二维码已停用")
)

// GateOutcome 状态门对某次访问的裁决
type GateOutcome string

const (
	// OutcomeRedirectSecure 旧标识符命中且存在安全码，应以安全码重定向（保持 bind/call 前缀）
	OutcomeRedirectSecure GateOutcome = "redirect_secure"
	// OutcomeRedirectCall 已绑定的二维码访问绑定页且未进入编辑模式，转呼叫页
	OutcomeRedirectCall GateOutcome = "redirect_call"
	// OutcomeRedirectBind 未绑定的二维码访问呼叫页，转绑定页
	OutcomeRedirectBind GateOutcome = "redirect_bind"
	// OutcomeEditForm 存在有效绑定，展示预填的编辑表单（提交走更新）
	OutcomeEditForm GateOutcome = "edit_form"
	// OutcomeFirstScan 尚无绑定，展示首次扫描引导页（提交走插入并置为 assigned）
	OutcomeFirstScan GateOutcome = "first_scan"
	// OutcomeContact 展示车主号码及拨号/短信动作
	OutcomeContact GateOutcome = "contact"
	// OutcomeNotConnected 状态为 assigned 但查不到有效绑定（数据不一致兜底）
	OutcomeNotConnected GateOutcome = "not_connected"
	// OutcomeDisabled 二维码已停用，两类路由一律拒绝
	OutcomeDisabled GateOutcome = "disabled"
)

// Resolution 标识符解析结果
type Resolution struct {
	QRCode *models.QRCode
	// RedirectTo 非空表示访问的是旧标识符，应改用该安全码重定向后再渲染
	RedirectTo string
	// Demo 为 true 表示命中演示标识符，后续一切写入都要跳过
	Demo bool
}

// BindGate 绑定页的裁决结果
type BindGate struct {
	Outcome    GateOutcome
	RedirectTo string               // 重定向类裁决携带的目标标识符
	QRCode     *models.QRCode
	Binding    *models.PhoneBinding // OutcomeEditForm 时为预填数据
	Demo       bool
}

// CallGate 呼叫页的裁决结果
type CallGate struct {
	Outcome    GateOutcome
	RedirectTo string
	QRCode     *models.QRCode
	Phone1     string
	Phone2     *string
	Demo       bool
}

// ResolverService 把扫码得到的路径段解析为唯一的二维码记录，
// 并按路由和状态裁决访客看到哪个界面。只读，不产生任何写入。
type ResolverService interface {
	Resolve(identifier string) (*Resolution, error)
	GateBind(identifier string, editMode bool) (*BindGate, error)
	GateCall(identifier string) (*CallGate, error)
}

type resolverService struct {
	qrRepo      repositories.QRCodeRepository
	bindingRepo repositories.PhoneBindingRepository
}

// NewResolverService 创建一个新的 resolverService 实例
func NewResolverService(qrRepo repositories.QRCodeRepository, bindingRepo repositories.PhoneBindingRepository) ResolverService {
	return &resolverService{qrRepo: qrRepo, bindingRepo: bindingRepo}
}

// demoSecureCode 演示记录的安全码与标识符相同
var demoSecureCode = DemoIdentifier

// DemoQRCode 返回演示用的内存二维码记录
func DemoQRCode() *models.QRCode {
	now := time.Now()
	return &models.QRCode{
		ID:         0,
		Code:       DemoIdentifier,
		SecureCode: &demoSecureCode,
		Status:     models.StatusAssigned,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// DemoBinding 返回演示用的内存绑定记录
func DemoBinding() *models.PhoneBinding {
	now := time.Now()
	phone2 := "01087654321"
	return &models.PhoneBinding{
		ID:        0,
		QRCodeID:  0,
		Phone1:    "01012345678",
		Phone2:    &phone2,
		BoundAt:   now,
		UpdatedAt: now,
	}
}

// Resolve 按两代标识符解析路径段：
// 先按 secure_code 查找；未命中再按历史 code 查找。
// 旧标识符命中且记录已有安全码时，给出重定向信号而不渲染内容。
func (s *resolverService) Resolve(identifier string) (*Resolution, error) {
	if identifier == DemoIdentifier {
		return &Resolution{QRCode: DemoQRCode(), Demo: true}, nil
	}

	qrCode, err := s.qrRepo.FindBySecureCode(identifier)
	if err == nil {
		return &Resolution{QRCode: qrCode}, nil
	}
	if !errors.Is(err, repositories.ErrRecordNotFound) {
		return nil, err // LookupError：数据库/传输层失败，与 NotFound 区分
	}

	qrCode, err = s.qrRepo.FindByCode(identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrQRCodeNotFound
		}
		return nil, err
	}

	if qrCode.SecureCode != nil && *qrCode.SecureCode != "" {
		// 旧 URL：不在旧标识符下渲染，改用安全码重定向
		return &Resolution{QRCode: qrCode, RedirectTo: *qrCode.SecureCode}, nil
	}
	return &Resolution{QRCode: qrCode}, nil
}

// GateBind 裁决绑定路由：
//  1. 旧标识符 → 先重定向；
//  2. 已绑定且未带 mode=edit → 转呼叫页；
//  3. 其余情况按是否存在有效绑定给出编辑表单或首次扫描页。
func (s *resolverService) GateBind(identifier string, editMode bool) (*BindGate, error) {
	res, err := s.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	if res.Demo {
		return &BindGate{Outcome: OutcomeEditForm, QRCode: res.QRCode, Binding: DemoBinding(), Demo: true}, nil
	}
	if res.RedirectTo != "" {
		return &BindGate{Outcome: OutcomeRedirectSecure, RedirectTo: res.RedirectTo, QRCode: res.QRCode}, nil
	}
	if res.QRCode.Status == models.StatusDisabled {
		return &BindGate{Outcome: OutcomeDisabled, QRCode: res.QRCode}, nil
	}

	if res.QRCode.Status == models.StatusAssigned && !editMode {
		return &BindGate{Outcome: OutcomeRedirectCall, RedirectTo: identifier, QRCode: res.QRCode}, nil
	}

	binding, err := s.bindingRepo.FindActiveByQRCodeID(res.QRCode.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return &BindGate{Outcome: OutcomeFirstScan, QRCode: res.QRCode}, nil
		}
		return nil, err
	}
	return &BindGate{Outcome: OutcomeEditForm, QRCode: res.QRCode, Binding: binding}, nil
}

// GateCall 裁决呼叫路由：
//  1. 旧标识符 → 先重定向；
//  2. 未绑定 → 转绑定页；
//  3. 已绑定 → 返回号码；查不到有效绑定时给出"尚未接通"兜底。
func (s *resolverService) GateCall(identifier string) (*CallGate, error) {
	res, err := s.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	if res.Demo {
		demo := DemoBinding()
		return &CallGate{Outcome: OutcomeContact, QRCode: res.QRCode, Phone1: demo.Phone1, Phone2: demo.Phone2, Demo: true}, nil
	}
	if res.RedirectTo != "" {
		return &CallGate{Outcome: OutcomeRedirectSecure, RedirectTo: res.RedirectTo, QRCode: res.QRCode}, nil
	}
	if res.QRCode.Status == models.StatusDisabled {
		return &CallGate{Outcome: OutcomeDisabled, QRCode: res.QRCode}, nil
	}

	if res.QRCode.Status == models.StatusUnassigned {
		return &CallGate{Outcome: OutcomeRedirectBind, RedirectTo: identifier, QRCode: res.QRCode}, nil
	}

	binding, err := s.bindingRepo.FindActiveByQRCodeID(res.QRCode.ID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			// status=assigned 却没有有效绑定，属于历史数据不一致
			return &CallGate{Outcome: OutcomeNotConnected, QRCode: res.QRCode}, nil
		}
		return nil, err
	}
	return &CallGate{Outcome: OutcomeContact, QRCode: res.QRCode, Phone1: binding.Phone1, Phone2: binding.Phone2}, nil
}
