package identity

import (
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/auth"
	"github.com/stashd/stashd/pkg/stashd/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func TestFromSessionUsesOwnerKeyClaim(t *testing.T) {
	ident, err := FromSession(&auth.Claims{OwnerKey: "stashd|alice"})
	require.NoError(t, err)
	assert.Equal(t, OwnerKey("stashd|alice"), ident.OwnerKey)
}

func TestFromSessionFallsBackToIssuerSubject(t *testing.T) {
	claims := &auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:  "https://idp.example.com",
			Subject: "user-42",
		},
	}
	ident, err := FromSession(claims)
	require.NoError(t, err)
	assert.Equal(t, OwnerKey("https://idp.example.com|user-42"), ident.OwnerKey)
}

func TestFromSessionRejectsEmptyAssertion(t *testing.T) {
	_, err := FromSession(nil)
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)

	_, err = FromSession(&auth.Claims{})
	assert.ErrorIs(t, err, apierr.ErrUnauthenticated)
}

func TestFromAPIToken(t *testing.T) {
	db := setupTestDB(t)
	token := "secret-token"
	user := models.User{OwnerKey: "stashd|alice", APIAccessToken: &token}
	require.NoError(t, db.Create(&user).Error)

	ident, err := FromAPIToken(db, "secret-token")
	require.NoError(t, err)
	assert.Equal(t, OwnerKey("stashd|alice"), ident.OwnerKey)

	_, err = FromAPIToken(db, "wrong-token")
	assert.ErrorIs(t, err, apierr.ErrInvalidAPIToken)

	_, err = FromAPIToken(db, "")
	assert.ErrorIs(t, err, apierr.ErrInvalidAPIToken)
}

func TestEnsureUserIsLazyAndIdempotent(t *testing.T) {
	db := setupTestDB(t)

	first, err := EnsureUser(db, "stashd|new-owner")
	require.NoError(t, err)
	assert.NotZero(t, first.ID)

	second, err := EnsureUser(db, "stashd|new-owner")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestAssertOwner(t *testing.T) {
	ident := Identity{OwnerKey: "stashd|alice"}

	assert.NoError(t, AssertOwner(ident, "stashd|alice"))
	assert.ErrorIs(t, AssertOwner(ident, "stashd|bob"), apierr.ErrNotAuthorized)
}

func TestAssertFound(t *testing.T) {
	assert.NoError(t, AssertFound(nil))
	assert.ErrorIs(t, AssertFound(gorm.ErrRecordNotFound), apierr.ErrNotFound)
	assert.ErrorIs(t, AssertFound(assert.AnError), apierr.ErrInternal)
}
