package auth

import (
	"sync"
	"time"
)

// loginAttempt 记录某个来源IP的连续失败情况
type loginAttempt struct {
	count       int
	lastFailure time.Time
	lockedUntil time.Time
}

// LoginLockout 按来源IP跟踪失败的管理员登录。
// 连续失败达到上限后锁定一段时间，期间的尝试直接拒绝并告知剩余时间。
// 状态保存在服务端内存里，客户端清空本地存储也绕不过去。
type LoginLockout struct {
	mu          sync.Mutex
	attempts    map[string]*loginAttempt
	maxAttempts int
	lockout     time.Duration
}

// NewLoginLockout 创建一个新的 LoginLockout 实例
func NewLoginLockout(maxAttempts int, lockout time.Duration) *LoginLockout {
	return &LoginLockout{
		attempts:    make(map[string]*loginAttempt),
		maxAttempts: maxAttempts,
		lockout:     lockout,
	}
}

// Check 返回该来源当前是否被锁定，以及剩余锁定时长。
// 锁定已过期时顺带清理计数。
func (l *LoginLockout) Check(source string) (locked bool, remaining time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attempt, found := l.attempts[source]
	if !found {
		return false, 0
	}

	now := time.Now()
	if !attempt.lockedUntil.IsZero() {
		if now.Before(attempt.lockedUntil) {
			return true, attempt.lockedUntil.Sub(now)
		}
		// 锁定期已过，重新计数
		delete(l.attempts, source)
	}
	return false, 0
}

// RecordFailure 记录一次失败。达到上限时开始锁定，返回是否已锁定。
func (l *LoginLockout) RecordFailure(source string) (locked bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	attempt, found := l.attempts[source]
	if !found {
		attempt = &loginAttempt{}
		l.attempts[source] = attempt
	}

	attempt.count++
	attempt.lastFailure = time.Now()
	if attempt.count >= l.maxAttempts {
		attempt.lockedUntil = time.Now().Add(l.lockout)
		return true
	}
	return false
}

// Reset 登录成功后清除该来源的失败记录。
func (l *LoginLockout) Reset(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.attempts, source)
}
