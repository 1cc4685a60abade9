package services

import (
	"sort"
	"time"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/internal/repositories"
)

// memStore 是测试用的内存数据集，二维码、绑定和通话记录共用一份，
// 以便模仿仓库层事务方法里"绑定写入同时回写二维码状态"的行为。
type memStore struct {
	qrCodes       map[int64]*models.QRCode
	bindings      map[int64]*models.PhoneBinding
	callLogs      []*models.CallLog
	nextQRCodeID  int64
	nextBindingID int64
	nextCallLogID int64
}

func newMemStore() *memStore {
	return &memStore{
		qrCodes:       make(map[int64]*models.QRCode),
		bindings:      make(map[int64]*models.PhoneBinding),
		nextQRCodeID:  1,
		nextBindingID: 1,
		nextCallLogID: 1,
	}
}

func (s *memStore) addQRCode(code string, secureCode *string, status models.QRCodeStatus) *models.QRCode {
	now := time.Now()
	qrCode := &models.QRCode{
		ID:         s.nextQRCodeID,
		Code:       code,
		SecureCode: secureCode,
		Status:     status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.nextQRCodeID++
	s.qrCodes[qrCode.ID] = qrCode
	return qrCode
}

func (s *memStore) addBinding(qrCodeID int64, phone1 string, phone2 *string, passwordHash string) *models.PhoneBinding {
	now := time.Now()
	binding := &models.PhoneBinding{
		ID:                     s.nextBindingID,
		QRCodeID:               qrCodeID,
		Phone1:                 phone1,
		Phone2:                 phone2,
		ManagementPasswordHash: passwordHash,
		BoundAt:                now,
		UpdatedAt:              now,
	}
	s.nextBindingID++
	s.bindings[binding.ID] = binding
	return binding
}

func (s *memStore) activeBinding(qrCodeID int64) *models.PhoneBinding {
	for _, binding := range s.bindings {
		if binding.QRCodeID == qrCodeID && !binding.IsDeleted() {
			return binding
		}
	}
	return nil
}

// fakeQRCodeRepository 是 QRCodeRepository 的内存实现
type fakeQRCodeRepository struct {
	store *memStore
}

func (r *fakeQRCodeRepository) FindBySecureCode(secureCode string) (*models.QRCode, error) {
	for _, qrCode := range r.store.qrCodes {
		if qrCode.SecureCode != nil && *qrCode.SecureCode == secureCode {
			return qrCode, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeQRCodeRepository) FindByCode(code string) (*models.QRCode, error) {
	for _, qrCode := range r.store.qrCodes {
		if qrCode.Code == code {
			return qrCode, nil
		}
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakeQRCodeRepository) FindByID(id int64) (*models.QRCode, error) {
	qrCode, found := r.store.qrCodes[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	return qrCode, nil
}

func (r *fakeQRCodeRepository) CreateBatch(codes []models.QRCode) error {
	seen := make(map[string]bool)
	for _, qrCode := range r.store.qrCodes {
		seen[qrCode.Code] = true
	}
	for i := range codes {
		if seen[codes[i].Code] {
			return repositories.ErrQRCodeLabelConflict
		}
		seen[codes[i].Code] = true
	}
	now := time.Now()
	for i := range codes {
		codes[i].ID = r.store.nextQRCodeID
		codes[i].CreatedAt = now
		codes[i].UpdatedAt = now
		r.store.nextQRCodeID++
		stored := codes[i]
		r.store.qrCodes[stored.ID] = &stored
	}
	return nil
}

func (r *fakeQRCodeRepository) GetQRCodes(page, limit int, sortBy, sortOrder, search, status string) ([]models.QRCodeResponse, int64, error) {
	var result []models.QRCodeResponse
	for _, qrCode := range r.store.qrCodes {
		if status != "" && string(qrCode.Status) != status {
			continue
		}
		result = append(result, models.QRCodeResponse{
			ID:         qrCode.ID,
			Code:       qrCode.Code,
			SecureCode: qrCode.SecureCode,
			Status:     qrCode.Status,
			CreatedAt:  qrCode.CreatedAt,
			UpdatedAt:  qrCode.UpdatedAt,
		})
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakeQRCodeRepository) RegenerateSecureCode(id int64, secureCode string) (*models.QRCode, error) {
	qrCode, found := r.store.qrCodes[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	qrCode.SecureCode = &secureCode
	qrCode.UpdatedAt = time.Now()
	return qrCode, nil
}

func (r *fakeQRCodeRepository) SetDisabled(id int64, disabled bool) (*models.QRCode, error) {
	qrCode, found := r.store.qrCodes[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	if disabled {
		qrCode.Status = models.StatusDisabled
	} else if r.store.activeBinding(id) != nil {
		qrCode.Status = models.StatusAssigned
	} else {
		qrCode.Status = models.StatusUnassigned
	}
	qrCode.UpdatedAt = time.Now()
	return qrCode, nil
}

func (r *fakeQRCodeRepository) DeleteByIDs(ids []int64) (int64, error) {
	var deleted int64
	for _, id := range ids {
		if _, found := r.store.qrCodes[id]; found {
			delete(r.store.qrCodes, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *fakeQRCodeRepository) GetStats() (*models.QRCodeStats, error) {
	stats := &models.QRCodeStats{}
	for _, qrCode := range r.store.qrCodes {
		stats.Total++
		if qrCode.Status == models.StatusAssigned {
			stats.Assigned++
		}
	}
	stats.Unassigned = stats.Total - stats.Assigned
	return stats, nil
}

// fakePhoneBindingRepository 是 PhoneBindingRepository 的内存实现。
// failCreateWithConflict 用于模拟两个并发首次绑定中后到的那个。
type fakePhoneBindingRepository struct {
	store                  *memStore
	failCreateWithConflict bool
}

func (r *fakePhoneBindingRepository) FindActiveByQRCodeID(qrCodeID int64) (*models.PhoneBinding, error) {
	if binding := r.store.activeBinding(qrCodeID); binding != nil {
		return binding, nil
	}
	return nil, repositories.ErrRecordNotFound
}

func (r *fakePhoneBindingRepository) FindByID(id int64) (*models.PhoneBinding, error) {
	binding, found := r.store.bindings[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	return binding, nil
}

func (r *fakePhoneBindingRepository) CreateWithAssign(binding *models.PhoneBinding) (*models.PhoneBinding, error) {
	if r.failCreateWithConflict {
		return nil, repositories.ErrActiveBindingExists
	}
	qrCode, found := r.store.qrCodes[binding.QRCodeID]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	if r.store.activeBinding(binding.QRCodeID) != nil {
		return nil, repositories.ErrActiveBindingExists
	}

	now := time.Now()
	binding.ID = r.store.nextBindingID
	binding.BoundAt = now
	binding.UpdatedAt = now
	r.store.nextBindingID++
	r.store.bindings[binding.ID] = binding

	qrCode.Status = models.StatusAssigned
	return binding, nil
}

func applyBindingUpdates(binding *models.PhoneBinding, updates map[string]interface{}) {
	for key, value := range updates {
		switch key {
		case "phone1":
			binding.Phone1 = value.(string)
		case "phone2":
			switch v := value.(type) {
			case nil:
				binding.Phone2 = nil
			case *string:
				binding.Phone2 = v
			case string:
				binding.Phone2 = &v
			}
		case "management_password_hash":
			binding.ManagementPasswordHash = value.(string)
		}
	}
	binding.UpdatedAt = time.Now()
}

func (r *fakePhoneBindingRepository) UpdateActive(qrCodeID int64, updates map[string]interface{}) (*models.PhoneBinding, error) {
	binding := r.store.activeBinding(qrCodeID)
	if binding == nil {
		return nil, repositories.ErrRecordNotFound
	}
	applyBindingUpdates(binding, updates)
	return binding, nil
}

func (r *fakePhoneBindingRepository) UpdateByID(id int64, updates map[string]interface{}) (*models.PhoneBinding, error) {
	binding, found := r.store.bindings[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	if binding.IsDeleted() {
		return nil, repositories.ErrBindingDeleted
	}
	applyBindingUpdates(binding, updates)
	return binding, nil
}

func (r *fakePhoneBindingRepository) SoftDeleteWithUnassign(id int64) (*models.PhoneBinding, error) {
	binding, found := r.store.bindings[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	if binding.IsDeleted() {
		return nil, repositories.ErrBindingDeleted
	}

	now := time.Now()
	binding.DeletedAt = &now
	if qrCode, ok := r.store.qrCodes[binding.QRCodeID]; ok && qrCode.Status != models.StatusDisabled {
		qrCode.Status = models.StatusUnassigned
	}
	return binding, nil
}

func (r *fakePhoneBindingRepository) RestoreWithAssign(id int64) (*models.PhoneBinding, error) {
	binding, found := r.store.bindings[id]
	if !found {
		return nil, repositories.ErrRecordNotFound
	}
	if !binding.IsDeleted() {
		return binding, nil
	}
	if r.store.activeBinding(binding.QRCodeID) != nil {
		return nil, repositories.ErrActiveBindingExists
	}

	binding.DeletedAt = nil
	if qrCode, ok := r.store.qrCodes[binding.QRCodeID]; ok && qrCode.Status != models.StatusDisabled {
		qrCode.Status = models.StatusAssigned
	}
	return binding, nil
}

func (r *fakePhoneBindingRepository) GetBindings(page, limit int, sortBy, sortOrder, search, state string) ([]models.PhoneBindingResponse, int64, error) {
	var result []models.PhoneBindingResponse
	for _, binding := range r.store.bindings {
		if state == "active" && binding.IsDeleted() {
			continue
		}
		if state == "deleted" && !binding.IsDeleted() {
			continue
		}
		row := models.PhoneBindingResponse{
			ID:        binding.ID,
			QRCodeID:  binding.QRCodeID,
			Phone1:    binding.Phone1,
			Phone2:    binding.Phone2,
			BoundAt:   binding.BoundAt,
			UpdatedAt: binding.UpdatedAt,
			DeletedAt: binding.DeletedAt,
		}
		if qrCode, ok := r.store.qrCodes[binding.QRCodeID]; ok {
			row.Code = qrCode.Code
			row.SecureCode = qrCode.SecureCode
			row.QRCodeStatus = qrCode.Status
		}
		result = append(result, row)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, int64(len(result)), nil
}

func (r *fakePhoneBindingRepository) GetStats() (*models.PhoneBindingStats, error) {
	stats := &models.PhoneBindingStats{}
	for _, binding := range r.store.bindings {
		stats.Total++
		if binding.IsDeleted() {
			stats.Deleted++
			continue
		}
		if qrCode, ok := r.store.qrCodes[binding.QRCodeID]; ok && qrCode.Status == models.StatusAssigned {
			stats.Active++
		}
	}
	stats.Inactive = stats.Total - stats.Active - stats.Deleted
	return stats, nil
}

// fakeCallLogRepository 是 CallLogRepository 的内存实现
type fakeCallLogRepository struct {
	store *memStore
}

func (r *fakeCallLogRepository) Create(callLog *models.CallLog) (*models.CallLog, error) {
	callLog.ID = r.store.nextCallLogID
	r.store.nextCallLogID++
	if callLog.CalledAt.IsZero() {
		callLog.CalledAt = time.Now()
	}
	r.store.callLogs = append(r.store.callLogs, callLog)
	return callLog, nil
}

func (r *fakeCallLogRepository) toResponse(callLog *models.CallLog) models.CallLogResponse {
	row := models.CallLogResponse{
		ID:          callLog.ID,
		QRCodeID:    callLog.QRCodeID,
		PhoneNumber: callLog.PhoneNumber,
		CalledAt:    callLog.CalledAt,
		IPAddress:   callLog.IPAddress,
	}
	if qrCode, ok := r.store.qrCodes[callLog.QRCodeID]; ok {
		row.Code = qrCode.Code
	}
	return row
}

func (r *fakeCallLogRepository) GetCallLogs(page, limit int, search string) ([]models.CallLogResponse, int64, error) {
	var result []models.CallLogResponse
	for _, callLog := range r.store.callLogs {
		result = append(result, r.toResponse(callLog))
	}
	return result, int64(len(result)), nil
}

func (r *fakeCallLogRepository) GetAllForExport() ([]models.CallLogResponse, error) {
	var result []models.CallLogResponse
	for _, callLog := range r.store.callLogs {
		result = append(result, r.toResponse(callLog))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CalledAt.After(result[j].CalledAt) })
	return result, nil
}

func (r *fakeCallLogRepository) GetStats(now time.Time) (*models.CallLogStats, error) {
	stats := &models.CallLogStats{}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, 0, -30)

	for _, callLog := range r.store.callLogs {
		stats.Total++
		if !callLog.CalledAt.Before(today) {
			stats.Today++
		}
		if !callLog.CalledAt.Before(weekAgo) {
			stats.ThisWeek++
		}
		if !callLog.CalledAt.Before(monthAgo) {
			stats.ThisMonth++
		}
	}
	return stats, nil
}

// newTestServices 组装一套基于内存仓库的服务，供各测试用例使用
func newTestServices(store *memStore) (ResolverService, BindingService, QRCodeService, CallLogService, *fakePhoneBindingRepository) {
	qrRepo := &fakeQRCodeRepository{store: store}
	bindingRepo := &fakePhoneBindingRepository{store: store}
	callLogRepo := &fakeCallLogRepository{store: store}

	resolver := NewResolverService(qrRepo, bindingRepo)
	bindingService := NewBindingService(bindingRepo, resolver)
	qrCodeService := NewQRCodeService(qrRepo)
	callLogService := NewCallLogService(callLogRepo, bindingRepo, resolver)
	return resolver, bindingService, qrCodeService, callLogService, bindingRepo
}

func strPtr(s string) *string {
	return &s
}
