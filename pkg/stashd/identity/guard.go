package identity

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stashd/stashd/pkg/stashd/apierr"
)

// AssertFound translates a storage lookup error into the engine taxonomy:
// a missing row becomes ErrNotFound, anything else ErrInternal.
func AssertFound(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.ErrNotFound
	}
	return fmt.Errorf("%w: %v", apierr.ErrInternal, err)
}

// AssertOwner verifies a fetched entity belongs to id before any read or
// write proceeds.
func AssertOwner(id Identity, owner string) error {
	if !id.Owns(owner) {
		return apierr.ErrNotAuthorized
	}
	return nil
}
