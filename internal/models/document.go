package models

// ProjectDocument is a file-registry record for the project file browser.
// Only metadata and the hierarchical location (building/floor/stage/trade)
// live here; the bytes are stored externally and referenced by StoragePath.
type ProjectDocument struct {
	Base
	ProjectID   uint   `gorm:"not null;index" json:"project_id"`
	Name        string `gorm:"not null" json:"name"`
	StoragePath string `gorm:"not null" json:"storage_path"`
	ContentType string `json:"content_type,omitempty"`
	SizeBytes   int64  `json:"size_bytes,omitempty"`

	Building string `gorm:"index" json:"building,omitempty"`
	Floor    string `gorm:"index" json:"floor,omitempty"`
	Stage    string `gorm:"index" json:"stage,omitempty"`
	Trade    string `gorm:"index" json:"trade,omitempty"`

	UploadedBy uint `gorm:"not null" json:"uploaded_by"`
}
