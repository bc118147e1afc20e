package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/erazemk/almoxarifado/internal/db"
	"github.com/erazemk/almoxarifado/internal/model"
)

func TestGateLoginVerifyLogout(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	password, err := EnsurePassword(ctx, database)
	if err != nil {
		t.Fatalf("EnsurePassword: %v", err)
	}
	if password == "" {
		t.Fatal("expected a generated password on first run")
	}

	again, err := EnsurePassword(ctx, database)
	if err != nil || again != "" {
		t.Fatalf("expected existing password to be kept, got %q, %v", again, err)
	}

	gate, err := NewGate(ctx, database)
	if err != nil {
		t.Fatalf("NewGate: %v", err)
	}

	if _, _, err := gate.Login(ctx, "wrong"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}

	token, _, err := gate.Login(ctx, password)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if _, err := gate.Verify(ctx, token); err != nil {
		t.Fatalf("Verify: %v", err)
	}

	if err := gate.Logout(ctx, token); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if _, err := gate.Verify(ctx, token); !errors.Is(err, ErrInvalidSession) {
		t.Errorf("expected revoked session to fail, got %v", err)
	}

	if err := gate.Logout(ctx, "garbage"); err != nil {
		t.Errorf("expected invalid token logout to be ignored, got %v", err)
	}
}

func TestResetPasswordInvalidatesOld(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := EnsurePassword(ctx, database)
	second, err := ResetPassword(ctx, database)
	if err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	gate, _ := NewGate(ctx, database)
	if _, _, err := gate.Login(ctx, first); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected old password to stop working, got %v", err)
	}
	if _, _, err := gate.Login(ctx, second); err != nil {
		t.Errorf("expected new password to work, got %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	current, _ := EnsurePassword(ctx, database)
	gate, _ := NewGate(ctx, database)

	if err := gate.ChangePassword(ctx, "wrong", "novasenha123"); !errors.Is(err, ErrWrongPassword) {
		t.Errorf("expected ErrWrongPassword, got %v", err)
	}
	if err := gate.ChangePassword(ctx, current, "curta"); !model.IsValidation(err) {
		t.Errorf("expected validation error for short password, got %v", err)
	}
	if err := gate.ChangePassword(ctx, current, "novasenha123"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}
	if _, _, err := gate.Login(ctx, "novasenha123"); err != nil {
		t.Errorf("expected new password to work, got %v", err)
	}
}
