package cartsync

import (
	"testing"
	"time"
)

func TestBeginMigrationClaimsOnce(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(30 * time.Second)
	if !ledger.BeginMigration() {
		t.Fatalf("first claim should win")
	}
	if ledger.BeginMigration() {
		t.Fatalf("second claim should lose")
	}
	if !ledger.MigrationCompleted() {
		t.Fatalf("expected migration marked complete")
	}
}

func TestMarkNotifiedOncePerArmedWindow(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(30 * time.Second)
	token, first := ledger.MarkNotified()
	if !first || token == "" {
		t.Fatalf("expected first notification with token, got (%q, %t)", token, first)
	}
	if ledger.NotificationToken() != token {
		t.Fatalf("token not retained")
	}

	if _, again := ledger.MarkNotified(); again {
		t.Fatalf("second notification in the same window should be suppressed")
	}
}

func TestDismissStartsCooldownThenRearms(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(30 * time.Second)
	current := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ledger.now = func() time.Time { return current }

	if _, first := ledger.MarkNotified(); !first {
		t.Fatalf("expected armed ledger to notify")
	}
	ledger.DismissNotification()

	// Still cooling down.
	current = current.Add(10 * time.Second)
	if _, ok := ledger.MarkNotified(); ok {
		t.Fatalf("notification fired during cooldown")
	}

	// Cooldown elapsed.
	current = current.Add(25 * time.Second)
	token, ok := ledger.MarkNotified()
	if !ok || token == "" {
		t.Fatalf("expected re-armed ledger to notify")
	}
}

func TestDismissBeforeShownIsNoop(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(30 * time.Second)
	ledger.DismissNotification()

	if _, ok := ledger.MarkNotified(); !ok {
		t.Fatalf("dismiss on armed ledger must not consume the window")
	}
}

func TestResetRestoresInitialState(t *testing.T) {
	t.Parallel()

	ledger := NewLedger(30 * time.Second)
	ledger.BeginMigration()
	ledger.MarkNotified()
	ledger.Reset()

	if ledger.MigrationCompleted() {
		t.Fatalf("migration flag should clear on reset")
	}
	if ledger.NotificationToken() != "" {
		t.Fatalf("token should clear on reset")
	}
	if !ledger.BeginMigration() {
		t.Fatalf("fresh session should migrate again")
	}
	if _, ok := ledger.MarkNotified(); !ok {
		t.Fatalf("fresh session should notify again")
	}
}
