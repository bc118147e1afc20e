package store

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/erazemk/almoxarifado/internal/model"
)

// Setting keys.
const (
	SettingTheme             = "theme"
	SettingLowStockThreshold = "low_stock_threshold"
	settingSessionSecret     = "session_secret"
	settingOperatorPassword  = "operator_password_hash"
)

// GetSetting returns a setting's value and whether it exists.
func GetSetting(ctx context.Context, db *sql.DB, key string) (string, bool, error) {
	var value string
	err := db.QueryRowContext(ctx,
		`SELECT value FROM settings WHERE key = ?`, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("getting setting %s: %w", key, err)
	}
	return value, true, nil
}

// SetSetting creates or replaces a setting.
func SetSetting(ctx context.Context, db *sql.DB, key, value string) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT (key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("saving setting %s: %w", key, err)
	}
	return nil
}

// LoadPreferences reads the UI preferences, falling back to defaults for
// anything unset or unusable.
func LoadPreferences(ctx context.Context, db *sql.DB) (model.Preferences, error) {
	prefs := model.DefaultPreferences()

	rows, err := db.QueryContext(ctx,
		`SELECT key, value FROM settings WHERE key IN (?, ?)`,
		SettingTheme, SettingLowStockThreshold,
	)
	if err != nil {
		return prefs, fmt.Errorf("loading preferences: %w", err)
	}
	defer rows.Close()

	raw := make(map[string]any)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return prefs, fmt.Errorf("scanning preference: %w", err)
		}
		raw[key] = value
	}
	if err := rows.Err(); err != nil {
		return prefs, fmt.Errorf("loading preferences: %w", err)
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &prefs,
	})
	if err != nil {
		return prefs, fmt.Errorf("preparing preference decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return model.DefaultPreferences(), fmt.Errorf("decoding preferences: %w", err)
	}

	if !model.ValidTheme(prefs.Theme) {
		prefs.Theme = model.ThemeLight
	}
	if prefs.LowStockThreshold < 0 {
		prefs.LowStockThreshold = model.DefaultLowStockThreshold
	}
	return prefs, nil
}

// SetTheme persists the light/dark theme choice.
func SetTheme(ctx context.Context, db *sql.DB, theme string) error {
	if !model.ValidTheme(theme) {
		return &model.ValidationError{Field: "theme", Message: "tema inválido"}
	}
	return SetSetting(ctx, db, SettingTheme, theme)
}

// SetLowStockThreshold persists the low-stock threshold.
func SetLowStockThreshold(ctx context.Context, db *sql.DB, threshold int) error {
	if threshold < 0 {
		return &model.ValidationError{Field: "low_stock_threshold", Message: "o limite não pode ser negativo"}
	}
	return SetSetting(ctx, db, SettingLowStockThreshold, fmt.Sprint(threshold))
}

// GetSessionSecret retrieves the session signing secret, generating and
// storing one on first use. INSERT OR IGNORE followed by a re-read keeps
// concurrent first calls agreeing on a single secret.
func GetSessionSecret(ctx context.Context, db *sql.DB) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating session secret: %w", err)
	}

	_, err := db.ExecContext(ctx,
		`INSERT OR IGNORE INTO settings (key, value) VALUES (?, ?)`,
		settingSessionSecret, hex.EncodeToString(buf),
	)
	if err != nil {
		return "", fmt.Errorf("storing session secret: %w", err)
	}

	secret, _, err := GetSetting(ctx, db, settingSessionSecret)
	if err != nil {
		return "", err
	}
	return secret, nil
}

// OperatorPasswordHash returns the stored bcrypt hash of the operator
// password, or "" if none has been set.
func OperatorPasswordHash(ctx context.Context, db *sql.DB) (string, error) {
	hash, _, err := GetSetting(ctx, db, settingOperatorPassword)
	return hash, err
}

// SetOperatorPasswordHash stores the bcrypt hash of the operator password.
func SetOperatorPasswordHash(ctx context.Context, db *sql.DB, hash string) error {
	return SetSetting(ctx, db, settingOperatorPassword, hash)
}
