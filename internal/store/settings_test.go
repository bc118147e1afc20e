package store

import (
	"context"
	"testing"

	"github.com/erazemk/almoxarifado/internal/db"
	"github.com/erazemk/almoxarifado/internal/model"
)

func TestGetSessionSecretGeneratesAndPersists(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	secret1, err := GetSessionSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if len(secret1) != 64 { // 32 bytes = 64 hex chars
		t.Fatalf("expected 64 hex chars, got %d", len(secret1))
	}

	secret2, err := GetSessionSecret(ctx, database)
	if err != nil {
		t.Fatal(err)
	}
	if secret1 != secret2 {
		t.Fatalf("expected same secret, got %q and %q", secret1, secret2)
	}
}

func TestLoadPreferencesDefaults(t *testing.T) {
	database := db.NewTestDB(t)

	prefs, err := LoadPreferences(context.Background(), database)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs != model.DefaultPreferences() {
		t.Errorf("expected defaults, got %+v", prefs)
	}
}

func TestPreferencesRoundTrip(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetTheme(ctx, database, model.ThemeDark); err != nil {
		t.Fatalf("SetTheme: %v", err)
	}
	if err := SetLowStockThreshold(ctx, database, 12); err != nil {
		t.Fatalf("SetLowStockThreshold: %v", err)
	}

	prefs, err := LoadPreferences(ctx, database)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Theme != model.ThemeDark || prefs.LowStockThreshold != 12 {
		t.Errorf("unexpected preferences %+v", prefs)
	}

	// Overwriting replaces the stored value.
	SetTheme(ctx, database, model.ThemeLight)
	prefs, _ = LoadPreferences(ctx, database)
	if prefs.Theme != model.ThemeLight {
		t.Errorf("expected light theme, got %q", prefs.Theme)
	}
}

func TestPreferencesRejectInvalid(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SetTheme(ctx, database, "purple"); !model.IsValidation(err) {
		t.Errorf("expected validation error for theme, got %v", err)
	}
	if err := SetLowStockThreshold(ctx, database, -1); !model.IsValidation(err) {
		t.Errorf("expected validation error for threshold, got %v", err)
	}
}

func TestLoadPreferencesIgnoresUnknownTheme(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	// Written directly, bypassing SetTheme's validation.
	if err := SetSetting(ctx, database, SettingTheme, "sepia"); err != nil {
		t.Fatal(err)
	}

	prefs, err := LoadPreferences(ctx, database)
	if err != nil {
		t.Fatalf("LoadPreferences: %v", err)
	}
	if prefs.Theme != model.ThemeLight {
		t.Errorf("expected fallback to light theme, got %q", prefs.Theme)
	}
}

func TestOperatorPasswordHash(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	hash, err := OperatorPasswordHash(ctx, database)
	if err != nil || hash != "" {
		t.Fatalf("expected no hash yet, got %q, %v", hash, err)
	}

	if err := SetOperatorPasswordHash(ctx, database, "$2a$10$abc"); err != nil {
		t.Fatal(err)
	}
	hash, _ = OperatorPasswordHash(ctx, database)
	if hash != "$2a$10$abc" {
		t.Errorf("unexpected hash %q", hash)
	}
}
