package models

import "time"

// Notepad is the freeform note attached to a group, one per (group, owner).
// The synchronization protocol for collaborative editing lives outside this
// service; only existence and ownership are managed here.
type Notepad struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_notepads_group_owner,priority:1" json:"group_id"`
	Owner     string    `gorm:"not null;uniqueIndex:idx_notepads_group_owner,priority:2" json:"owner"`
	Content   string    `json:"content"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
