package groups

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
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

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	db := setupTestDB(t)
	return NewStore(db, zap.NewNop()), db
}

func testIdentity(key string) identity.Identity {
	return identity.Identity{OwnerKey: identity.OwnerKey(key)}
}

func TestCreateAndGetAll(t *testing.T) {
	store, _ := newTestStore(t)
	alice := testIdentity("stashd|alice")

	created, err := store.Create(alice, "Reading list", "links to read")
	require.NoError(t, err)
	assert.Equal(t, "stashd|alice", created.Owner)
	assert.False(t, created.Archived)

	_, err = store.Create(testIdentity("stashd|bob"), "Bob's group", "")
	require.NoError(t, err)

	groups, err := store.GetAll(alice)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Reading list", groups[0].Name)
}

func TestCreateRequiresName(t *testing.T) {
	store, _ := newTestStore(t)

	_, err := store.Create(testIdentity("stashd|alice"), "", "")
	assert.True(t, apierr.IsValidation(err))
}

func TestGetAllHidesArchivedGroups(t *testing.T) {
	store, db := newTestStore(t)
	alice := testIdentity("stashd|alice")

	visible, err := store.Create(alice, "Visible", "")
	require.NoError(t, err)
	hidden, err := store.Create(alice, "Hidden", "")
	require.NoError(t, err)
	require.NoError(t, db.Model(hidden).Update("archived", true).Error)

	groups, err := store.GetAll(alice)
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, visible.ID, groups[0].ID)
}

func TestGetByIDEnforcesOwnership(t *testing.T) {
	store, _ := newTestStore(t)
	alice := testIdentity("stashd|alice")

	group, err := store.Create(alice, "Mine", "")
	require.NoError(t, err)

	got, err := store.GetByID(group.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, group.ID, got.ID)

	_, err = store.GetByID(group.ID, testIdentity("stashd|mallory"))
	assert.ErrorIs(t, err, apierr.ErrNotAuthorized)

	_, err = store.GetByID(9999, alice)
	assert.ErrorIs(t, err, apierr.ErrNotFound)
}

func TestUpdateNameAndDescription(t *testing.T) {
	store, db := newTestStore(t)
	alice := testIdentity("stashd|alice")

	group, err := store.Create(alice, "Old name", "old description")
	require.NoError(t, err)

	_, err = store.UpdateName(group.ID, alice, "New name")
	require.NoError(t, err)
	_, err = store.UpdateDescription(group.ID, alice, "new description")
	require.NoError(t, err)

	var reloaded models.Group
	require.NoError(t, db.First(&reloaded, group.ID).Error)
	assert.Equal(t, "New name", reloaded.Name)
	assert.Equal(t, "new description", reloaded.Description)

	_, err = store.UpdateName(group.ID, alice, "")
	assert.True(t, apierr.IsValidation(err))

	_, err = store.UpdateName(group.ID, testIdentity("stashd|mallory"), "taken")
	assert.ErrorIs(t, err, apierr.ErrNotAuthorized)
}

func TestDeleteCascadesOverItemsAndNotepads(t *testing.T) {
	store, db := newTestStore(t)
	alice := testIdentity("stashd|alice")

	group, err := store.Create(alice, "Doomed", "")
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		item := models.Item{
			GroupID: group.ID, Owner: "stashd|alice",
			Kind: models.ItemKindText, Value: "x", Position: i + 1,
		}
		require.NoError(t, db.Create(&item).Error)
	}
	notepad := models.Notepad{GroupID: group.ID, Owner: "stashd|alice", Content: "notes"}
	require.NoError(t, db.Create(&notepad).Error)

	require.NoError(t, store.Delete(group.ID, alice))

	_, err = store.GetByID(group.ID, alice)
	assert.ErrorIs(t, err, apierr.ErrNotFound)

	var itemCount, notepadCount int64
	db.Model(&models.Item{}).Where("group_id = ?", group.ID).Count(&itemCount)
	db.Model(&models.Notepad{}).Where("group_id = ?", group.ID).Count(&notepadCount)
	assert.Zero(t, itemCount)
	assert.Zero(t, notepadCount)
}

func TestDeleteSkipsItemsWithMismatchedOwner(t *testing.T) {
	store, db := newTestStore(t)
	alice := testIdentity("stashd|alice")

	group, err := store.Create(alice, "Doomed", "")
	require.NoError(t, err)

	mine := models.Item{GroupID: group.ID, Owner: "stashd|alice", Kind: models.ItemKindText, Value: "mine"}
	require.NoError(t, db.Create(&mine).Error)
	// A row violating the owner invariant; the sweep must not delete it.
	stray := models.Item{GroupID: group.ID, Owner: "stashd|mallory", Kind: models.ItemKindText, Value: "stray"}
	require.NoError(t, db.Create(&stray).Error)

	require.NoError(t, store.Delete(group.ID, alice))

	var survivors []models.Item
	require.NoError(t, db.Where("group_id = ?", group.ID).Find(&survivors).Error)
	require.Len(t, survivors, 1)
	assert.Equal(t, stray.ID, survivors[0].ID)
}

func TestDeleteEnforcesOwnership(t *testing.T) {
	store, _ := newTestStore(t)
	alice := testIdentity("stashd|alice")

	group, err := store.Create(alice, "Mine", "")
	require.NoError(t, err)

	assert.ErrorIs(t, store.Delete(group.ID, testIdentity("stashd|mallory")), apierr.ErrNotAuthorized)
	assert.ErrorIs(t, store.Delete(9999, alice), apierr.ErrNotFound)
}
