package poststore

import "strings"

type Theme string

const THEME_LIGHT Theme = "light"
const THEME_DARK Theme = "dark"
const THEME_SYSTEM Theme = "system"

// ParseTheme accepts the theme names case-insensitively.
func ParseTheme(value string) (Theme, error) {
	theme := Theme(strings.ToLower(strings.TrimSpace(value)))
	if !theme.IsValid() {
		return "", ErrInvalidTheme
	}
	return theme, nil
}

func (t Theme) IsValid() bool {
	switch t {
	case THEME_LIGHT, THEME_DARK, THEME_SYSTEM:
		return true
	default:
		return false
	}
}

func (t Theme) String() string {
	return string(t)
}
