package identity

import (
	"errors"

	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/auth"
	"github.com/stashd/stashd/pkg/stashd/models"
)

// FromSession resolves a validated session assertion into an Identity
func FromSession(claims *auth.Claims) (Identity, error) {
	if claims == nil {
		return Identity{}, apierr.ErrUnauthenticated
	}

	key := claims.OwnerKey
	if key == "" && claims.Issuer != "" && claims.Subject != "" {
		// Assertions minted elsewhere may not carry the custom claim;
		// issuer|subject is the canonical fallback shape.
		key = claims.Issuer + "|" + claims.Subject
	}
	if key == "" {
		return Identity{}, apierr.ErrUnauthenticated
	}

	return Identity{OwnerKey: OwnerKey(key)}, nil
}

// FromAPIToken resolves a long-lived API access token into an Identity
func FromAPIToken(db *gorm.DB, token string) (Identity, error) {
	if token == "" {
		return Identity{}, apierr.ErrInvalidAPIToken
	}

	var user models.User
	if err := db.Where("api_access_token = ?", token).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Identity{}, apierr.ErrInvalidAPIToken
		}
		return Identity{}, apierr.ErrInternal
	}

	return Identity{OwnerKey: OwnerKey(user.OwnerKey)}, nil
}

// EnsureUser provisions the user row for an owner key if it does not exist
// yet. Session-asserted owners are created lazily on their first
// authenticated access.
func EnsureUser(db *gorm.DB, key OwnerKey) (*models.User, error) {
	var user models.User
	err := db.Where("owner_key = ?", key.String()).
		FirstOrCreate(&user, models.User{OwnerKey: key.String()}).Error
	if err != nil {
		return nil, apierr.ErrInternal
	}
	return &user, nil
}
