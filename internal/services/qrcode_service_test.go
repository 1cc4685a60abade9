package services

import (
	"errors"
	"regexp"
	"testing"

	"github.com/qr_contact/internal/models"
	"github.com/qr_contact/pkg/utils"
)

var (
	codePattern       = regexp.MustCompile(`^QR[1-9][0-9]{5}$`)
	secureCodePattern = regexp.MustCompile(`^[0-9A-Z]{8}$`)
)

func TestBatchGenerate(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)

	codes, err := qrCodeService.BatchGenerate(20, "QR")
	if err != nil {
		t.Fatalf("BatchGenerate returned error: %v", err)
	}
	if len(codes) != 20 {
		t.Fatalf("expected 20 codes, got %d", len(codes))
	}

	seen := make(map[string]bool)
	for _, qrCode := range codes {
		if !codePattern.MatchString(qrCode.Code) {
			t.Errorf("code %q does not match prefix + 6 digits", qrCode.Code)
		}
		if qrCode.SecureCode == nil || !secureCodePattern.MatchString(*qrCode.SecureCode) {
			t.Errorf("secure code of %q is not 8 chars of base36: %v", qrCode.Code, qrCode.SecureCode)
		}
		if qrCode.Status != models.StatusUnassigned {
			t.Errorf("new code %q should be unassigned, got %s", qrCode.Code, qrCode.Status)
		}
		if qrCode.ID == 0 {
			t.Errorf("code %q was not persisted", qrCode.Code)
		}
		if seen[qrCode.Code] {
			t.Errorf("duplicate code in batch: %q", qrCode.Code)
		}
		seen[qrCode.Code] = true
	}

	if len(store.qrCodes) != 20 {
		t.Errorf("expected 20 codes in store, got %d", len(store.qrCodes))
	}
}

func TestBatchGenerateInvalidCount(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)

	for _, count := range []int{0, -1, 1001} {
		if _, err := qrCodeService.BatchGenerate(count, "QR"); !errors.Is(err, ErrInvalidBatchCount) {
			t.Errorf("count %d: expected ErrInvalidBatchCount, got %v", count, err)
		}
	}
}

func TestBatchGenerateInvalidPrefix(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)

	if _, err := qrCodeService.BatchGenerate(5, "  "); !errors.Is(err, utils.ErrInvalidBatchPrefix) {
		t.Errorf("expected ErrInvalidBatchPrefix, got %v", err)
	}
}

func TestRegenerateSecureCodeInvalidatesOldIdentifier(t *testing.T) {
	store := newMemStore()
	resolver, _, qrCodeService, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("OLDCODE1"), models.StatusUnassigned)

	updated, err := qrCodeService.RegenerateSecureCode(qrCode.ID)
	if err != nil {
		t.Fatalf("RegenerateSecureCode returned error: %v", err)
	}
	if updated.SecureCode == nil || *updated.SecureCode == "OLDCODE1" {
		t.Fatalf("secure code was not replaced: %v", updated.SecureCode)
	}

	// 旧安全码随即失效，新安全码可解析
	if _, err := resolver.Resolve("OLDCODE1"); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("old secure code should no longer resolve, got %v", err)
	}
	res, err := resolver.Resolve(*updated.SecureCode)
	if err != nil {
		t.Fatalf("new secure code failed to resolve: %v", err)
	}
	if res.QRCode.ID != qrCode.ID {
		t.Errorf("new secure code resolved to wrong record: %d", res.QRCode.ID)
	}
}

func TestSetDisabledAndReenable(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)
	withBinding := store.addQRCode("QR111111", strPtr("AAAA1111"), models.StatusAssigned)
	store.addBinding(withBinding.ID, "01012345678", nil, "hash")
	withoutBinding := store.addQRCode("QR222222", strPtr("BBBB2222"), models.StatusUnassigned)

	for _, qrCode := range []*models.QRCode{withBinding, withoutBinding} {
		updated, err := qrCodeService.SetDisabled(qrCode.ID, true)
		if err != nil {
			t.Fatalf("SetDisabled(true) returned error: %v", err)
		}
		if updated.Status != models.StatusDisabled {
			t.Errorf("expected disabled, got %s", updated.Status)
		}
	}

	// 恢复启用时按是否存在有效绑定回写状态
	updated, err := qrCodeService.SetDisabled(withBinding.ID, false)
	if err != nil {
		t.Fatalf("SetDisabled(false) returned error: %v", err)
	}
	if updated.Status != models.StatusAssigned {
		t.Errorf("re-enable with active binding: expected assigned, got %s", updated.Status)
	}

	updated, err = qrCodeService.SetDisabled(withoutBinding.ID, false)
	if err != nil {
		t.Fatalf("SetDisabled(false) returned error: %v", err)
	}
	if updated.Status != models.StatusUnassigned {
		t.Errorf("re-enable without binding: expected unassigned, got %s", updated.Status)
	}
}

func TestSetDisabledNotFound(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)

	if _, err := qrCodeService.SetDisabled(42, true); !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("expected ErrQRCodeNotFound, got %v", err)
	}
}

func TestDeleteQRCodes(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)
	first := store.addQRCode("QR111111", strPtr("AAAA1111"), models.StatusUnassigned)
	second := store.addQRCode("QR222222", strPtr("BBBB2222"), models.StatusUnassigned)

	deleted, err := qrCodeService.DeleteQRCodes([]int64{first.ID, second.ID, 999})
	if err != nil {
		t.Fatalf("DeleteQRCodes returned error: %v", err)
	}
	if deleted != 2 {
		t.Errorf("expected 2 deleted, got %d", deleted)
	}
	if len(store.qrCodes) != 0 {
		t.Errorf("store should be empty, has %d", len(store.qrCodes))
	}
}

func TestQRCodeStats(t *testing.T) {
	store := newMemStore()
	_, _, qrCodeService, _, _ := newTestServices(store)
	assigned := store.addQRCode("QR111111", strPtr("AAAA1111"), models.StatusAssigned)
	store.addBinding(assigned.ID, "01012345678", nil, "hash")
	store.addQRCode("QR222222", strPtr("BBBB2222"), models.StatusUnassigned)
	store.addQRCode("QR333333", strPtr("CCCC3333"), models.StatusUnassigned)

	stats, err := qrCodeService.GetStats()
	if err != nil {
		t.Fatalf("GetStats returned error: %v", err)
	}
	if stats.Total != 3 || stats.Assigned != 1 || stats.Unassigned != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
}
