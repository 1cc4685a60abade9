package auth

import (
	"testing"
	"time"
)

func TestLoginLockoutBelowThreshold(t *testing.T) {
	lockout := NewLoginLockout(5, 15*time.Minute)

	for i := 0; i < 4; i++ {
		if locked := lockout.RecordFailure("203.0.113.7"); locked {
			t.Fatalf("locked after %d failures, threshold is 5", i+1)
		}
	}
	if locked, _ := lockout.Check("203.0.113.7"); locked {
		t.Error("source should not be locked below the threshold")
	}
}

func TestLoginLockoutAtThreshold(t *testing.T) {
	lockout := NewLoginLockout(5, 15*time.Minute)

	var locked bool
	for i := 0; i < 5; i++ {
		locked = lockout.RecordFailure("203.0.113.7")
	}
	if !locked {
		t.Fatal("fifth failure should trigger the lock")
	}

	locked, remaining := lockout.Check("203.0.113.7")
	if !locked {
		t.Fatal("source should be locked")
	}
	if remaining <= 0 || remaining > 15*time.Minute {
		t.Errorf("remaining lock time out of range: %v", remaining)
	}

	// 其它来源不受影响
	if locked, _ := lockout.Check("198.51.100.1"); locked {
		t.Error("other sources must not be affected")
	}
}

func TestLoginLockoutReset(t *testing.T) {
	lockout := NewLoginLockout(5, 15*time.Minute)

	for i := 0; i < 5; i++ {
		lockout.RecordFailure("203.0.113.7")
	}
	lockout.Reset("203.0.113.7")

	if locked, _ := lockout.Check("203.0.113.7"); locked {
		t.Error("reset should clear the lock")
	}
}

func TestLoginLockoutExpires(t *testing.T) {
	lockout := NewLoginLockout(2, 10*time.Millisecond)

	lockout.RecordFailure("203.0.113.7")
	lockout.RecordFailure("203.0.113.7")
	if locked, _ := lockout.Check("203.0.113.7"); !locked {
		t.Fatal("source should be locked")
	}

	time.Sleep(20 * time.Millisecond)
	if locked, _ := lockout.Check("203.0.113.7"); locked {
		t.Error("lock should expire after the lockout window")
	}
	// 过期清理后重新从零计数
	if locked := lockout.RecordFailure("203.0.113.7"); locked {
		t.Error("counter should restart after expiry")
	}
}

func TestTokenDenylist(t *testing.T) {
	AddToDenylist("jti-active", time.Now().Add(time.Hour))
	if !IsTokenDenylisted("jti-active") {
		t.Error("freshly denylisted JTI should be rejected")
	}
	if IsTokenDenylisted("jti-unknown") {
		t.Error("unknown JTI should not be rejected")
	}

	// 已过期的条目等同于不在列表中
	AddToDenylist("jti-expired", time.Now().Add(-time.Hour))
	if IsTokenDenylisted("jti-expired") {
		t.Error("expired JTI should no longer be rejected")
	}
}
