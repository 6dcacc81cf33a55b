package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents an owner in the system.
//
// The OwnerKey is the opaque principal key every entity is scoped to.
// Rows are provisioned lazily the first time an authenticated request
// resolves to an owner key the database has not seen before, so a user
// record may exist with nothing but its key.
type User struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	OwnerKey  string         `gorm:"uniqueIndex;not null" json:"owner_key"`
	Email     string         `gorm:"uniqueIndex" json:"email,omitempty"`
	Name      string         `json:"name,omitempty"`
	// PasswordHash is empty for users provisioned from an API token or an
	// externally issued session assertion.
	PasswordHash string `json:"-"`
	// APIAccessToken is the long-lived credential. Regenerating it
	// replaces any prior value; only one token is valid at a time.
	APIAccessToken *string `gorm:"uniqueIndex" json:"-"`
}
