package models

import "time"

// Media is an uploaded file's metadata record. Byte storage lives behind
// an external store; this row carries everything the API needs to list,
// attach and describe the file.
type Media struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	FileName     string `gorm:"uniqueIndex;not null" json:"file_name"`
	OriginalName string `gorm:"not null" json:"original_name"`
	MimeType     string `gorm:"type:varchar(100);not null" json:"mime_type"`
	SizeBytes    int64  `gorm:"not null;default:0" json:"size_bytes"`
	URL          string `gorm:"not null" json:"url"`
	AltText      string `json:"alt_text"`
	Caption      string `json:"caption"`

	UploaderID uint `gorm:"not null;index" json:"uploader_id"`
	Uploader   User `gorm:"foreignKey:UploaderID" json:"uploader,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
