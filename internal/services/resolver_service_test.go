package services

import (
	"errors"
	"testing"

	"github.com/qr_contact/internal/models"
)

func TestResolveDemoIdentifier(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)

	res, err := resolver.Resolve(DemoIdentifier)
	if err != nil {
		t.Fatalf("Resolve(demo) returned error: %v", err)
	}
	if !res.Demo {
		t.Error("expected Demo flag to be set")
	}
	if res.QRCode == nil || res.QRCode.Code != DemoIdentifier {
		t.Errorf("expected demo qr code, got %+v", res.QRCode)
	}
	if res.RedirectTo != "" {
		t.Errorf("demo resolution should not redirect, got %q", res.RedirectTo)
	}
}

func TestResolveBySecureCode(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusUnassigned)

	res, err := resolver.Resolve("A1B2C3D4")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.QRCode.ID != qrCode.ID {
		t.Errorf("resolved wrong qr code: got ID %d, want %d", res.QRCode.ID, qrCode.ID)
	}
	if res.RedirectTo != "" {
		t.Errorf("secure code hit should not redirect, got %q", res.RedirectTo)
	}
}

func TestResolveLegacyCodeRedirects(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusUnassigned)

	// 旧标识符命中且已有安全码：不渲染，给出重定向信号
	res, err := resolver.Resolve("QR483920")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.RedirectTo != "A1B2C3D4" {
		t.Errorf("expected redirect to secure code, got %q", res.RedirectTo)
	}
}

func TestResolveLegacyCodeWithoutSecureCode(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", nil, models.StatusUnassigned)

	// 没有安全码的旧记录在旧标识符下直接解析
	res, err := resolver.Resolve("QR483920")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if res.RedirectTo != "" {
		t.Errorf("expected no redirect, got %q", res.RedirectTo)
	}
	if res.QRCode.Code != "QR483920" {
		t.Errorf("resolved wrong qr code: %+v", res.QRCode)
	}
}

func TestResolveUnknownIdentifier(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)

	_, err := resolver.Resolve("NOPE9999")
	if !errors.Is(err, ErrQRCodeNotFound) {
		t.Errorf("expected ErrQRCodeNotFound, got %v", err)
	}
}

func TestGateBindFirstScan(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusUnassigned)

	gate, err := resolver.GateBind("A1B2C3D4", false)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeFirstScan {
		t.Errorf("expected first_scan, got %s", gate.Outcome)
	}
}

func TestGateBindAssignedRedirectsToCall(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusAssigned)
	store.addBinding(qrCode.ID, "01012345678", nil, "hash")

	// 已绑定且未带编辑模式：转呼叫页
	gate, err := resolver.GateBind("A1B2C3D4", false)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeRedirectCall {
		t.Errorf("expected redirect_call, got %s", gate.Outcome)
	}
	if gate.RedirectTo != "A1B2C3D4" {
		t.Errorf("expected redirect to same identifier, got %q", gate.RedirectTo)
	}
}

func TestGateBindEditModeShowsPrefilledForm(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusAssigned)
	binding := store.addBinding(qrCode.ID, "01012345678", strPtr("01087654321"), "hash")

	gate, err := resolver.GateBind("A1B2C3D4", true)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeEditForm {
		t.Errorf("expected edit_form, got %s", gate.Outcome)
	}
	if gate.Binding == nil || gate.Binding.ID != binding.ID {
		t.Errorf("expected prefilled binding %d, got %+v", binding.ID, gate.Binding)
	}
}

func TestGateBindLegacyIdentifierRedirectsFirst(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusAssigned)
	store.addBinding(qrCode.ID, "01012345678", nil, "hash")

	// 旧标识符的重定向优先于已绑定转呼叫页的规则
	gate, err := resolver.GateBind("QR483920", false)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeRedirectSecure {
		t.Errorf("expected redirect_secure, got %s", gate.Outcome)
	}
	if gate.RedirectTo != "A1B2C3D4" {
		t.Errorf("expected redirect to secure code, got %q", gate.RedirectTo)
	}
}

func TestGateBindDisabled(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusDisabled)

	gate, err := resolver.GateBind("A1B2C3D4", false)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeDisabled {
		t.Errorf("expected disabled, got %s", gate.Outcome)
	}
}

func TestGateBindDemo(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)

	gate, err := resolver.GateBind(DemoIdentifier, false)
	if err != nil {
		t.Fatalf("GateBind returned error: %v", err)
	}
	if gate.Outcome != OutcomeEditForm {
		t.Errorf("demo bind route should show edit form, got %s", gate.Outcome)
	}
	if gate.Binding == nil || gate.Binding.Phone1 != "01012345678" {
		t.Errorf("expected demo binding, got %+v", gate.Binding)
	}
	if !gate.Demo {
		t.Error("expected Demo flag to be set")
	}
}

func TestGateCallUnassignedRedirectsToBind(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusUnassigned)

	gate, err := resolver.GateCall("A1B2C3D4")
	if err != nil {
		t.Fatalf("GateCall returned error: %v", err)
	}
	if gate.Outcome != OutcomeRedirectBind {
		t.Errorf("expected redirect_bind, got %s", gate.Outcome)
	}
}

func TestGateCallContact(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	qrCode := store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusAssigned)
	store.addBinding(qrCode.ID, "01012345678", strPtr("01087654321"), "hash")

	gate, err := resolver.GateCall("A1B2C3D4")
	if err != nil {
		t.Fatalf("GateCall returned error: %v", err)
	}
	if gate.Outcome != OutcomeContact {
		t.Errorf("expected contact, got %s", gate.Outcome)
	}
	if gate.Phone1 != "01012345678" {
		t.Errorf("unexpected phone1: %s", gate.Phone1)
	}
	if gate.Phone2 == nil || *gate.Phone2 != "01087654321" {
		t.Errorf("unexpected phone2: %v", gate.Phone2)
	}
}

func TestGateCallAssignedWithoutBindingFallsBack(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	// status=assigned 却没有有效绑定，属于历史数据不一致
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusAssigned)

	gate, err := resolver.GateCall("A1B2C3D4")
	if err != nil {
		t.Fatalf("GateCall returned error: %v", err)
	}
	if gate.Outcome != OutcomeNotConnected {
		t.Errorf("expected not_connected, got %s", gate.Outcome)
	}
}

func TestGateCallDisabled(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)
	store.addQRCode("QR483920", strPtr("A1B2C3D4"), models.StatusDisabled)

	gate, err := resolver.GateCall("A1B2C3D4")
	if err != nil {
		t.Fatalf("GateCall returned error: %v", err)
	}
	if gate.Outcome != OutcomeDisabled {
		t.Errorf("expected disabled, got %s", gate.Outcome)
	}
}

func TestGateCallDemo(t *testing.T) {
	store := newMemStore()
	resolver, _, _, _, _ := newTestServices(store)

	gate, err := resolver.GateCall(DemoIdentifier)
	if err != nil {
		t.Fatalf("GateCall returned error: %v", err)
	}
	if gate.Outcome != OutcomeContact {
		t.Errorf("demo call route should show contact, got %s", gate.Outcome)
	}
	if gate.Phone1 != "01012345678" {
		t.Errorf("unexpected demo phone1: %s", gate.Phone1)
	}
}
