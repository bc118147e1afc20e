package model

import "fmt"

// Themes.
const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)

// Preferences are the persisted UI settings.
type Preferences struct {
	Theme             string `json:"theme" mapstructure:"theme"`
	LowStockThreshold int    `json:"low_stock_threshold" mapstructure:"low_stock_threshold"`
}

// DefaultPreferences returns the preferences used before anything is saved.
func DefaultPreferences() Preferences {
	return Preferences{Theme: ThemeLight, LowStockThreshold: DefaultLowStockThreshold}
}

// ValidTheme reports whether t is a known theme.
func ValidTheme(t string) bool {
	return t == ThemeLight || t == ThemeDark
}

// ToggleTheme returns the opposite theme.
func ToggleTheme(t string) string {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// MinPasswordLength is the shortest accepted operator password.
const MinPasswordLength = 8

// ValidatePassword checks an operator password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return &ValidationError{
			Field:   "password",
			Message: fmt.Sprintf("a senha deve ter pelo menos %d caracteres", MinPasswordLength),
		}
	}
	return nil
}
