package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"cartshare/internal/models"
)

// Field length limits, matching the store's column definitions.
const (
	MaxListNameLength = 100
	MaxItemNameLength = 150
)

// ValidateListName checks a shopping list name.
func ValidateListName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("list name is required")
	}
	if len(name) > MaxListNameLength {
		return fmt.Errorf("list name must be at most %d characters", MaxListNameLength)
	}
	return nil
}

// ValidateItemName checks an item name.
func ValidateItemName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New("item name is required")
	}
	if len(name) > MaxItemNameLength {
		return fmt.Errorf("item name must be at most %d characters", MaxItemNameLength)
	}
	return nil
}

// ValidateItemStatus checks an item status value against the enum.
func ValidateItemStatus(status string) error {
	if !models.ValidItemStatus(status) {
		return fmt.Errorf("invalid item status %q", status)
	}
	return nil
}

// ValidateItemChanges checks an item change set. Nil fields are "not
// supplied" and pass; problems across the supplied fields are aggregated so
// the caller sees all of them at once.
func ValidateItemChanges(name, status *string) error {
	var result *multierror.Error

	if name != nil {
		if err := ValidateItemName(*name); err != nil {
			result = multierror.Append(result, err)
		}
	}
	if status != nil {
		if err := ValidateItemStatus(*status); err != nil {
			result = multierror.Append(result, err)
		}
	}

	return result.ErrorOrNil()
}
