// Package items implements the ordered-collection engine over the two item
// kinds. Ordering lives in the Position column: within a (group, owner)
// pair, active and archived items form two independent buckets, each
// ordered ascending by position. Positions may carry gaps and duplicates;
// ordering is stable only up to equal values.
package items

import (
	"net/url"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
)

// reorderSpacing is the position step written by Reorder. The gap is a
// deliberate allowance for future partial inserts between neighbors; the
// current engine never exploits it.
const reorderSpacing = 100

// Store is the position-based collection engine for one item table
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStore creates a new item store
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Input carries the mutable item fields
type Input struct {
	Kind        models.ItemKind
	Value       string
	Description string
}

// Buckets is the two-part listing of a group's items
type Buckets struct {
	Active   []models.Item
	Archived []models.Item
}

// validate checks the tagged variant: the value must be present for both
// kinds, and well-formed as a URL for the url kind only.
func (in Input) validate() error {
	if !in.Kind.Valid() {
		return apierr.Validation("item kind must be \"text\" or \"url\"")
	}
	if in.Value == "" {
		return apierr.Validation("item value is required")
	}
	if in.Kind == models.ItemKindURL {
		u, err := url.Parse(in.Value)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return apierr.Validation("item value is not a valid URL")
		}
	}
	return nil
}

// loadGroup asserts the group exists and belongs to ident
func (s *Store) loadGroup(groupID uint, ident identity.Identity) (*models.Group, error) {
	var group models.Group
	if err := identity.AssertFound(s.db.First(&group, groupID).Error); err != nil {
		return nil, err
	}
	if err := identity.AssertOwner(ident, group.Owner); err != nil {
		return nil, err
	}
	return &group, nil
}

// loadItem asserts the item exists and belongs to ident. The check uses
// the item's own owner column, not one re-derived from its group.
func (s *Store) loadItem(itemID uint, ident identity.Identity) (*models.Item, error) {
	var item models.Item
	if err := identity.AssertFound(s.db.First(&item, itemID).Error); err != nil {
		return nil, err
	}
	if err := identity.AssertOwner(ident, item.Owner); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts a new item at the end of the group's active bucket.
//
// The position is max(active positions)+1 from a plain read; two
// concurrent creates can observe the same max and tie. The duplicate is
// tolerated: relative order among tied items is undefined, nothing breaks.
func (s *Store) Create(groupID uint, ident identity.Identity, in Input) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	var maxPosition int
	err := s.db.Model(&models.Item{}).
		Where("group_id = ? AND owner = ? AND archived = ?",
			groupID, ident.OwnerKey.String(), false).
		Select("COALESCE(MAX(position), 0)").
		Scan(&maxPosition).Error
	if err != nil {
		return nil, apierr.ErrInternal
	}

	item := models.Item{
		GroupID:     groupID,
		Owner:       ident.OwnerKey.String(),
		Kind:        in.Kind,
		Value:       in.Value,
		Description: in.Description,
		Archived:    false,
		Position:    maxPosition + 1,
	}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return &item, nil
}

// List returns the group's items split into active and archived buckets,
// each sorted ascending by position. The query runs straight off the
// (group, owner, archived, position) index.
func (s *Store) List(groupID uint, ident identity.Identity) (*Buckets, error) {
	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	var all []models.Item
	err := s.db.
		Where("group_id = ? AND owner = ?", groupID, ident.OwnerKey.String()).
		Order("archived ASC, position ASC").
		Find(&all).Error
	if err != nil {
		return nil, apierr.ErrInternal
	}

	buckets := &Buckets{Active: []models.Item{}, Archived: []models.Item{}}
	for _, item := range all {
		if item.Archived {
			buckets.Archived = append(buckets.Archived, item)
		} else {
			buckets.Active = append(buckets.Active, item)
		}
	}
	return buckets, nil
}

// GetByID returns a single item after asserting the group and the item
// both exist and belong to ident
func (s *Store) GetByID(itemID, groupID uint, ident identity.Identity) (*models.Item, error) {
	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	item, err := s.loadItem(itemID, ident)
	if err != nil {
		return nil, err
	}
	if item.GroupID != groupID {
		return nil, apierr.ErrNotFound
	}
	return item, nil
}

// Update replaces the item's kind, value and description. Position and
// archived are never touched here.
func (s *Store) Update(itemID, groupID uint, ident identity.Identity, in Input) (*models.Item, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	item, err := s.loadItem(itemID, ident)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"kind":        in.Kind,
		"value":       in.Value,
		"description": in.Description,
	}
	if err := s.db.Model(item).Updates(updates).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return item, nil
}

// ToggleArchive flips the item's archived flag, leaving its position
// unchanged. Applying it twice restores the original state.
func (s *Store) ToggleArchive(itemID, groupID uint, ident identity.Identity) (*models.Item, error) {
	item, err := s.loadItem(itemID, ident)
	if err != nil {
		return nil, err
	}
	if item.GroupID != groupID {
		return nil, apierr.ErrNotAuthorized
	}

	if err := s.db.Model(item).Update("archived", !item.Archived).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return item, nil
}

// Reorder rewrites positions from the client's ordered id sequence.
//
// The group must exist and belong to ident. Each id at index i gets
// position (i+1)*reorderSpacing. Ids that do not resolve to an item owned
// by ident inside this group are skipped silently; partial success is the
// contract, not an error. Returns the ids actually updated, in sequence
// order. Concurrent reorders have no conflict resolution beyond the last
// arrival winning.
func (s *Store) Reorder(groupID uint, ident identity.Identity, orderedIDs []uint) ([]uint, error) {
	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	updated := make([]uint, 0, len(orderedIDs))
	for i, itemID := range orderedIDs {
		var item models.Item
		if err := s.db.First(&item, itemID).Error; err != nil {
			s.log.Warn("reorder: item not found", zap.Uint("item_id", itemID))
			continue
		}
		if !ident.Owns(item.Owner) {
			s.log.Warn("reorder: item not owned by caller", zap.Uint("item_id", itemID))
			continue
		}
		if item.GroupID != groupID {
			s.log.Warn("reorder: item is in a different group",
				zap.Uint("item_id", itemID),
				zap.Uint("group_id", groupID))
			continue
		}

		position := (i + 1) * reorderSpacing
		if err := s.db.Model(&item).Update("position", position).Error; err != nil {
			return nil, apierr.ErrInternal
		}
		updated = append(updated, itemID)
	}
	return updated, nil
}

// Delete removes the item permanently. Sibling positions are not
// renumbered; gaps persist.
func (s *Store) Delete(itemID, groupID uint, ident identity.Identity) error {
	item, err := s.loadItem(itemID, ident)
	if err != nil {
		return err
	}
	if item.GroupID != groupID {
		return apierr.ErrNotAuthorized
	}

	if err := s.db.Delete(item).Error; err != nil {
		return apierr.ErrInternal
	}
	return nil
}
