package cartsync

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type notificationState int

const (
	notificationArmed notificationState = iota
	notificationShown
	notificationCooldown
)

// Ledger is the process-wide migration and notification state for one
// authenticated session. It is the single authority consulted by every
// engine instance: per-instance flags cannot stop a second concurrently
// mounted consumer from re-triggering the same migration, this can.
// Created on login resolution, reset on logout.
type Ledger struct {
	mu       sync.Mutex
	now      func() time.Time
	cooldown time.Duration

	migrationDone bool
	notifState    notificationState
	notifToken    string
	rearmAt       time.Time
}

func NewLedger(cooldown time.Duration) *Ledger {
	return &Ledger{now: time.Now, cooldown: cooldown}
}

// BeginMigration marks the migration as taken and reports whether the caller
// won. The mark lands before any network call, so a second instance that
// observes the ledger mid-migration does not re-enter.
func (l *Ledger) BeginMigration() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.migrationDone {
		return false
	}
	l.migrationDone = true
	return true
}

func (l *Ledger) MigrationCompleted() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.migrationDone
}

// MarkNotified transitions the notification machine from armed to shown and
// mints the batch token. It reports false when a notification was already
// shown in this armed window, so one migration batch yields at most one
// visible notification.
func (l *Ledger) MarkNotified() (string, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.maybeRearmLocked()
	if l.notifState != notificationArmed {
		return "", false
	}
	l.notifState = notificationShown
	l.notifToken = uuid.NewString()
	return l.notifToken, true
}

// DismissNotification starts the cooldown after the shown notification is
// dismissed by the user or a timeout. A future login-migration cycle may
// notify again once the cooldown elapses.
func (l *Ledger) DismissNotification() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.notifState != notificationShown {
		return
	}
	l.notifState = notificationCooldown
	l.rearmAt = l.now().Add(l.cooldown)
}

// NotificationToken returns the token of the currently shown notification.
func (l *Ledger) NotificationToken() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.notifToken
}

// Reset returns the ledger to its initial state. Called on logout or session
// expiry so the next login can migrate and notify afresh.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.migrationDone = false
	l.notifState = notificationArmed
	l.notifToken = ""
	l.rearmAt = time.Time{}
}

// maybeRearmLocked assumes l.mu is held.
func (l *Ledger) maybeRearmLocked() {
	if l.notifState == notificationCooldown && !l.now().Before(l.rearmAt) {
		l.notifState = notificationArmed
		l.notifToken = ""
	}
}
