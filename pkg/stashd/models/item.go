package models

import "time"

// ItemKind discriminates the two item shapes
type ItemKind string

const (
	ItemKindText ItemKind = "text"
	ItemKindURL  ItemKind = "url"
)

// Valid reports whether k is a known item kind
func (k ItemKind) Valid() bool {
	return k == ItemKindText || k == ItemKindURL
}

// Item represents a text note or URL entry belonging to exactly one group.
//
// Within a (group, owner) pair items partition into two ordering buckets by
// Archived; ordering is defined only within a bucket, ascending by Position.
// Positions are not unique: concurrent creates can tie, and reordering
// writes gapped values. Both are tolerated. Item.Owner must always equal
// the owning group's Owner; the engine re-checks this on every mutation
// instead of assuming it.
type Item struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	GroupID     uint      `gorm:"not null;index:idx_items_group_owner_archived_position,priority:1" json:"group_id"`
	Owner       string    `gorm:"not null;index:idx_items_group_owner_archived_position,priority:2" json:"owner"`
	Kind        ItemKind  `gorm:"type:varchar(8);not null" json:"kind"`
	Value       string    `gorm:"not null" json:"value"`
	Description string    `json:"description"`
	Archived    bool      `gorm:"not null;default:false;index:idx_items_group_owner_archived_position,priority:3" json:"archived"`
	Position    int       `gorm:"not null;default:0;index:idx_items_group_owner_archived_position,priority:4" json:"position"`

	// Relationships
	Group Group `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
