package groups

import (
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
)

// deleteSweepBatchSize bounds how many child items a single sweep query
// pulls during cascade deletion.
const deleteSweepBatchSize = 200

// Store owns group CRUD and the cascading lifecycle of a group's items
type Store struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewStore creates a new group store
func NewStore(db *gorm.DB, log *zap.Logger) *Store {
	return &Store{db: db, log: log}
}

// Create inserts a new group owned by ident
func (s *Store) Create(ident identity.Identity, name, description string) (*models.Group, error) {
	if name == "" {
		return nil, apierr.Validation("group name is required")
	}

	group := models.Group{
		Owner:       ident.OwnerKey.String(),
		Name:        name,
		Description: description,
		Archived:    false,
	}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return &group, nil
}

// GetAll returns all non-archived groups owned by ident
func (s *Store) GetAll(ident identity.Identity) ([]models.Group, error) {
	var groups []models.Group
	err := s.db.
		Where("owner = ? AND archived = ?", ident.OwnerKey.String(), false).
		Order("created_at ASC").
		Find(&groups).Error
	if err != nil {
		return nil, apierr.ErrInternal
	}
	return groups, nil
}

// GetByID loads a group and asserts existence and ownership
func (s *Store) GetByID(groupID uint, ident identity.Identity) (*models.Group, error) {
	var group models.Group
	if err := identity.AssertFound(s.db.First(&group, groupID).Error); err != nil {
		return nil, err
	}
	if err := identity.AssertOwner(ident, group.Owner); err != nil {
		return nil, err
	}
	return &group, nil
}

// UpdateName patches the group's name
func (s *Store) UpdateName(groupID uint, ident identity.Identity, name string) (*models.Group, error) {
	if name == "" {
		return nil, apierr.Validation("group name is required")
	}

	group, err := s.GetByID(groupID, ident)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(group).Update("name", name).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return group, nil
}

// UpdateDescription patches the group's description
func (s *Store) UpdateDescription(groupID uint, ident identity.Identity, description string) (*models.Group, error) {
	group, err := s.GetByID(groupID, ident)
	if err != nil {
		return nil, err
	}

	if err := s.db.Model(group).Update("description", description).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return group, nil
}

// Delete removes a group after sweeping out its dependent items and
// notepads. The sweep is bounded and paginated, and re-checks that every
// child actually belongs to ident before deleting it: an item whose owner
// diverged from its group's owner is skipped and logged rather than
// silently removed. The cascade is best-effort, not transactional; a
// create racing the sweep can still land an item in a group that is about
// to disappear.
func (s *Store) Delete(groupID uint, ident identity.Identity) error {
	group, err := s.GetByID(groupID, ident)
	if err != nil {
		return err
	}

	var lastID uint
	for {
		var items []models.Item
		err := s.db.
			Where("group_id = ? AND id > ?", groupID, lastID).
			Order("id ASC").
			Limit(deleteSweepBatchSize).
			Find(&items).Error
		if err != nil {
			return apierr.ErrInternal
		}
		if len(items) == 0 {
			break
		}

		for _, item := range items {
			lastID = item.ID
			if !ident.Owns(item.Owner) {
				s.log.Warn("skipping item with mismatched owner during cascade delete",
					zap.Uint("item_id", item.ID),
					zap.Uint("group_id", groupID))
				continue
			}
			if err := s.db.Delete(&models.Item{}, item.ID).Error; err != nil {
				return apierr.ErrInternal
			}
		}

		if len(items) < deleteSweepBatchSize {
			break
		}
	}

	err = s.db.
		Where("group_id = ? AND owner = ?", groupID, ident.OwnerKey.String()).
		Delete(&models.Notepad{}).Error
	if err != nil {
		return apierr.ErrInternal
	}

	if err := s.db.Delete(group).Error; err != nil {
		return apierr.ErrInternal
	}
	return nil
}
