package notepads

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, models.AutoMigrate(db))
	return db
}

func testIdentity(key string) identity.Identity {
	return identity.Identity{OwnerKey: identity.OwnerKey(key)}
}

func createTestGroup(t *testing.T, db *gorm.DB, owner string) models.Group {
	t.Helper()
	group := models.Group{Owner: owner, Name: "Test Group"}
	require.NoError(t, db.Create(&group).Error)
	return group
}

func TestCreateIfAbsentIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	first, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "", first.Content)

	second, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	db.Model(&models.Notepad{}).Where("group_id = ?", group.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestCreateIfAbsentKeepsExistingContent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	first, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)
	require.NoError(t, db.Model(first).Update("content", "do not lose me").Error)

	again, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "do not lose me", again.Content)
}

func TestCreateIfAbsentEnforcesGroupOwnership(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	group := createTestGroup(t, db, "stashd|alice")

	_, err := store.CreateIfAbsent(group.ID, testIdentity("stashd|mallory"))
	assert.ErrorIs(t, err, apierr.ErrNotAuthorized)

	_, err = store.CreateIfAbsent(9999, testIdentity("stashd|alice"))
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestGetFromGroupBeforeCreate(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	_, err := store.GetFromGroup(group.ID, alice)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestUpdateReplacesContent(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	notepad, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)

	updated, err := store.Update(notepad.ID, group.ID, alice, "new content")
	require.NoError(t, err)
	assert.Equal(t, "new content", updated.Content)

	got, err := store.GetFromGroup(group.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, "new content", got.Content)
}

func TestUpdateRejectsWrongGroup(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")
	other := createTestGroup(t, db, "stashd|alice")

	notepad, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)

	_, err = store.Update(notepad.ID, other.ID, alice, "moved?")
	assert.ErrorIs(t, err, apierr.ErrNotAuthorized)
}

func TestDelete(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	notepad, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)

	require.NoError(t, store.Delete(notepad.ID, group.ID, alice))

	_, err = store.GetFromGroup(group.ID, alice)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestCheckReadAndCheckWrite(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	alice := testIdentity("stashd|alice")
	group := createTestGroup(t, db, "stashd|alice")

	notepad, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)

	assert.NoError(t, store.CheckRead(notepad.ID, alice))
	assert.NoError(t, store.CheckWrite(notepad.ID, alice))

	mallory := testIdentity("stashd|mallory")
	assert.ErrorIs(t, store.CheckRead(notepad.ID, mallory), apierr.ErrNotAuthorized)
	assert.ErrorIs(t, store.CheckWrite(notepad.ID, mallory), apierr.ErrNotAuthorized)

	assert.ErrorIs(t, store.CheckRead(9999, alice), apierr.ErrNotFound)
}

func TestNotepadsAreScopedPerOwnerWithinAGroup(t *testing.T) {
	db := setupTestDB(t)
	store := NewStore(db)
	group := createTestGroup(t, db, "stashd|alice")

	alice := testIdentity("stashd|alice")
	notepad, err := store.CreateIfAbsent(group.ID, alice)
	require.NoError(t, err)
	require.NoError(t, db.Model(notepad).Update("content", "alice's notes").Error)

	// Bob can't reach the notepad through the group he doesn't own.
	_, err = store.GetFromGroup(group.ID, testIdentity("stashd|bob"))
	assert.ErrorIs(t, err, apierr.ErrNotAuthorized)
}

func TestNotepadResponseTimestampIsUTC(t *testing.T) {
	loc := time.FixedZone("UTC+5", 5*60*60)
	notepad := models.Notepad{
		ID:        1,
		GroupID:   1,
		Content:   "notes",
		UpdatedAt: time.Date(2026, 3, 1, 10, 30, 0, 0, loc),
	}

	resp := notepadToResponse(&notepad)
	assert.Equal(t, "2026-03-01T05:30:00Z", resp.UpdatedAt)
}
