package validation

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"inkwell/internal/models"
)

// settingKeyRegex keeps keys machine-friendly: dotted lowercase segments
// like "site.title" or "comments.require_moderation".
var settingKeyRegex = regexp.MustCompile(`^[a-z0-9_]+(\.[a-z0-9_]+)*$`)

const maxSettingKeyLen = 100

// ValidateSettingKey checks setting key format.
func ValidateSettingKey(key string) error {
	if key == "" {
		return fmt.Errorf("setting key is required")
	}
	if len(key) > maxSettingKeyLen {
		return fmt.Errorf("setting key must not exceed %d characters", maxSettingKeyLen)
	}
	if !settingKeyRegex.MatchString(key) {
		return fmt.Errorf("setting key must be dotted lowercase segments (letters, numbers, underscores)")
	}
	return nil
}

// ValidateSettingValue checks that value parses according to the declared
// setting type. Values are stored as text, so this is the only guard
// between a typo and a corrupt setting.
func ValidateSettingValue(t models.SettingType, value string) error {
	switch t {
	case models.SettingTypeString:
		return nil
	case models.SettingTypeNumber:
		if _, err := strconv.ParseFloat(value, 64); err != nil {
			return fmt.Errorf("value %q is not a number", value)
		}
		return nil
	case models.SettingTypeBoolean:
		if value != "true" && value != "false" {
			return fmt.Errorf("value %q is not a boolean (use \"true\" or \"false\")", value)
		}
		return nil
	case models.SettingTypeJSON:
		if !json.Valid([]byte(value)) {
			return fmt.Errorf("value is not valid JSON")
		}
		return nil
	case models.SettingTypeArray:
		trimmed := strings.TrimSpace(value)
		if !strings.HasPrefix(trimmed, "[") || !json.Valid([]byte(trimmed)) {
			return fmt.Errorf("value is not a JSON array")
		}
		return nil
	default:
		return fmt.Errorf("unknown setting type %q", t)
	}
}
