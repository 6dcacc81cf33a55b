package models

import "time"

// Group represents an owner-scoped container for items and one notepad
type Group struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Owner       string    `gorm:"not null;index:idx_groups_owner_archived,priority:1" json:"owner"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	// Archived only hides the group from listings; it is not part of the
	// item-level archive machinery.
	Archived bool `gorm:"not null;default:false;index:idx_groups_owner_archived,priority:2" json:"archived"`
}
