// Package config resolves runtime settings from an optional .env file and
// the environment. Command-line flags override the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Environment variables read by Load.
const (
	EnvDB             = "ALMOX_DB"
	EnvAddr           = "ALMOX_ADDR"
	EnvLog            = "ALMOX_LOG"
	EnvRequireLogin   = "ALMOX_REQUIRE_LOGIN"
	EnvBackupDir      = "ALMOX_BACKUP_DIR"
	EnvBackupSchedule = "ALMOX_BACKUP_SCHEDULE"
)

// Config holds the settings for one run.
type Config struct {
	DBPath         string
	Addr           string
	LogPath        string
	RequireLogin   bool
	BackupDir      string
	BackupSchedule string
}

// Defaults returns the settings used when nothing is configured.
func Defaults() Config {
	return Config{
		DBPath:         "almoxarifado.db",
		Addr:           ":8080",
		BackupSchedule: "@daily",
	}
}

// Load reads envFile if it exists, without overriding variables already set
// in the process environment, and then applies the environment to the
// defaults. An empty envFile skips the file.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading %s: %w", envFile, err)
		}
	}
	return FromEnv(os.Getenv)
}

// FromEnv applies variables looked up with getenv to the defaults.
func FromEnv(getenv func(string) string) (Config, error) {
	cfg := Defaults()

	setString(&cfg.DBPath, getenv(EnvDB))
	setString(&cfg.Addr, getenv(EnvAddr))
	setString(&cfg.LogPath, getenv(EnvLog))
	setString(&cfg.BackupDir, getenv(EnvBackupDir))
	setString(&cfg.BackupSchedule, getenv(EnvBackupSchedule))

	if v := strings.TrimSpace(getenv(EnvRequireLogin)); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvRequireLogin, err)
		}
		cfg.RequireLogin = b
	}

	return cfg, nil
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}
