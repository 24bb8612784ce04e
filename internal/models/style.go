package models

import "github.com/google/uuid"

// Style is a garment design template. Platform-provided styles are public;
// user-submitted ones are custom and carry an owner reference.
type Style struct {
	BaseModel
	Title       string     `json:"title"`
	Description string     `json:"description"`
	ImageURL    string     `json:"image_url"`
	IsCustom    bool       `json:"is_custom"`
	UserID      *uuid.UUID `gorm:"type:uuid;index" json:"user_id,omitempty"`
	User        *User      `json:"user,omitempty"`
}
