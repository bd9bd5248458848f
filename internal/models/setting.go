package models

import "time"

// SettingType declares how a Setting's stored value must parse.
type SettingType string

const (
	SettingTypeString  SettingType = "string"
	SettingTypeNumber  SettingType = "number"
	SettingTypeBoolean SettingType = "boolean"
	SettingTypeJSON    SettingType = "json"
	SettingTypeArray   SettingType = "array"
)

// Valid reports whether t is a known setting type.
func (t SettingType) Valid() bool {
	switch t {
	case SettingTypeString, SettingTypeNumber, SettingTypeBoolean, SettingTypeJSON, SettingTypeArray:
		return true
	}
	return false
}

// Setting is one site-wide configuration entry. Value is stored as text
// and validated against Type on every write. IsPublic settings appear on
// the unauthenticated settings endpoint; IsEditable=false keys are locked
// against API updates.
type Setting struct {
	ID         uint        `gorm:"primaryKey" json:"id"`
	Key        string      `gorm:"uniqueIndex;not null" json:"key"`
	Value      string      `gorm:"type:text;not null" json:"value"`
	Type       SettingType `gorm:"type:varchar(20);not null;default:'string'" json:"type"`
	IsPublic   bool        `gorm:"not null;default:false" json:"is_public"`
	IsEditable bool        `gorm:"not null;default:true" json:"is_editable"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
