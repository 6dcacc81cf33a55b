// Package notepads manages the one freeform note each (group, owner) pair
// carries. The collaborative editing protocol is an external concern;
// this package provides existence, ownership checks, and the
// authorization hooks the external sync engine calls.
package notepads

import (
	"errors"

	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
	"github.com/stashd/stashd/pkg/stashd/identity"
	"github.com/stashd/stashd/pkg/stashd/models"
)

// Store owns notepad existence and ownership
type Store struct {
	db *gorm.DB
}

// NewStore creates a new notepad store
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

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

// CreateIfAbsent returns the notepad for (group, owner), inserting an
// empty one when none exists yet.
func (s *Store) CreateIfAbsent(groupID uint, ident identity.Identity) (*models.Notepad, error) {
	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	var notepad models.Notepad
	err := s.db.
		Where("group_id = ? AND owner = ?", groupID, ident.OwnerKey.String()).
		First(&notepad).Error
	if err == nil {
		return &notepad, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apierr.ErrInternal
	}

	notepad = models.Notepad{
		GroupID: groupID,
		Owner:   ident.OwnerKey.String(),
		Content: "",
	}
	if err := s.db.Create(&notepad).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return &notepad, nil
}

// GetFromGroup returns the notepad for (group, owner)
func (s *Store) GetFromGroup(groupID uint, ident identity.Identity) (*models.Notepad, error) {
	if _, err := s.loadGroup(groupID, ident); err != nil {
		return nil, err
	}

	var notepad models.Notepad
	err := s.db.
		Where("group_id = ? AND owner = ?", groupID, ident.OwnerKey.String()).
		First(&notepad).Error
	if err := identity.AssertFound(err); err != nil {
		return nil, err
	}
	return &notepad, nil
}

// Update replaces the notepad content and bumps its timestamp
func (s *Store) Update(notepadID, groupID uint, ident identity.Identity, content string) (*models.Notepad, error) {
	notepad, err := s.load(notepadID, ident)
	if err != nil {
		return nil, err
	}
	if notepad.GroupID != groupID {
		return nil, apierr.ErrNotAuthorized
	}

	if err := s.db.Model(notepad).Update("content", content).Error; err != nil {
		return nil, apierr.ErrInternal
	}
	return notepad, nil
}

// Delete removes the notepad
func (s *Store) Delete(notepadID, groupID uint, ident identity.Identity) error {
	notepad, err := s.load(notepadID, ident)
	if err != nil {
		return err
	}
	if notepad.GroupID != groupID {
		return apierr.ErrNotAuthorized
	}

	if err := s.db.Delete(notepad).Error; err != nil {
		return apierr.ErrInternal
	}
	return nil
}

// CheckRead is the authorization hook the external document-sync engine
// calls before serving notepad content.
func (s *Store) CheckRead(notepadID uint, ident identity.Identity) error {
	_, err := s.load(notepadID, ident)
	return err
}

// CheckWrite is the authorization hook the external document-sync engine
// calls before accepting edits.
func (s *Store) CheckWrite(notepadID uint, ident identity.Identity) error {
	_, err := s.load(notepadID, ident)
	return err
}

func (s *Store) load(notepadID uint, ident identity.Identity) (*models.Notepad, error) {
	var notepad models.Notepad
	if err := identity.AssertFound(s.db.First(&notepad, notepadID).Error); err != nil {
		return nil, err
	}
	if err := identity.AssertOwner(ident, notepad.Owner); err != nil {
		return nil, err
	}
	return &notepad, nil
}
