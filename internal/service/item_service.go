package service

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"cartshare/internal/database"
	"cartshare/internal/metrics"
	"cartshare/internal/models"
	"cartshare/internal/policy"
	"cartshare/internal/repository"
	"cartshare/internal/validation"
)

// MaxListItems caps how many items a single list may hold. An add is
// rejected once the list already holds this many.
const MaxListItems = 100

// ItemChanges is the change set for an item update. Nil fields are left
// untouched; a fully nil change set is a no-op.
type ItemChanges struct {
	Name   *string
	Status *string
}

func (c ItemChanges) empty() bool {
	return c.Name == nil && c.Status == nil
}

// ItemService handles item lifecycle within a list: add, update, delete.
type ItemService struct {
	db       *database.DB
	itemRepo *repository.ItemRepository
	listRepo *repository.ListRepository
}

// NewItemService creates a new item service
func NewItemService(db *database.DB, itemRepo *repository.ItemRepository, listRepo *repository.ListRepository) *ItemService {
	return &ItemService{
		db:       db,
		itemRepo: itemRepo,
		listRepo: listRepo,
	}
}

// GetItem retrieves an item by ID.
func (s *ItemService) GetItem(itemID int64) (*models.Item, error) {
	item, err := s.itemRepo.GetItemByID(itemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}
	if item == nil {
		return nil, ErrItemNotFound
	}
	return item, nil
}

// ItemsForList returns the items on a list the actor may view.
func (s *ItemService) ItemsForList(listID, actorID int64) ([]models.Item, error) {
	list, err := s.getList(listID)
	if err != nil {
		return nil, err
	}
	if !policy.CanView(actorID, list, true) {
		return nil, permissionError("you cannot view this list")
	}

	items, err := s.itemRepo.ListItems(list.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}
	return items, nil
}

// AddItem adds a named item to a list with status "need". The actor must be
// the author or a collaborator, the list must be active, the name must be
// new on the list (case-insensitively), and the list must be under the item
// cap.
func (s *ItemService) AddItem(listID, actorID int64, name string) (*models.Item, error) {
	list, err := s.getList(listID)
	if err != nil {
		return nil, err
	}

	if !policy.CanMutateItems(actorID, list) {
		return nil, permissionError("you are not allowed to add items to this list")
	}
	if list.IsArchived {
		return nil, stateError("this shopping list is not active")
	}

	name = strings.TrimSpace(name)
	if err := validation.ValidateItemName(name); err != nil {
		return nil, validationError("%s", err)
	}

	exists, err := s.itemRepo.ItemNameExists(list.ID, name)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, conflictError("this item is already on the shopping list")
	}

	count, err := s.itemRepo.CountItems(list.ID)
	if err != nil {
		return nil, err
	}
	if count >= MaxListItems {
		metrics.CapacityRejections.WithLabelValues("items").Inc()
		return nil, capacityError("this shopping list is full (max %d items)", MaxListItems)
	}

	item, err := s.itemRepo.CreateItem(list.ID, name, actorID)
	if err != nil {
		// A racing add can beat the pre-check to the unique index.
		if s.db.Dialect.IsUniqueViolation(err) {
			return nil, conflictError("this item is already on the shopping list")
		}
		return nil, fmt.Errorf("failed to add item: %w", err)
	}

	log.WithFields(log.Fields{
		"item_id":  item.ID,
		"list_id":  list.ID,
		"actor_id": actorID,
	}).Info("Item added")
	return item, nil
}

// UpdateItem applies a change set to an item. Any author or collaborator
// may change the status; only the user who added the item may rename it. An
// empty change set returns the item unchanged without writing.
func (s *ItemService) UpdateItem(itemID, actorID int64, changes ItemChanges) (*models.Item, error) {
	item, err := s.GetItem(itemID)
	if err != nil {
		return nil, err
	}

	list, err := s.getList(item.ShoppingListID)
	if err != nil {
		return nil, err
	}
	if !policy.CanMutateItems(actorID, list) {
		return nil, permissionError("you cannot update this item")
	}

	if changes.empty() {
		return item, nil
	}

	if err := validation.ValidateItemChanges(changes.Name, changes.Status); err != nil {
		return nil, validationError("%s", err)
	}

	if changes.Name != nil {
		if !item.AddedByUser(actorID) {
			return nil, permissionError("only the user who added this item can rename it")
		}
		newName := strings.TrimSpace(*changes.Name)
		if !strings.EqualFold(newName, item.Name) {
			exists, err := s.itemRepo.ItemNameExists(list.ID, newName)
			if err != nil {
				return nil, err
			}
			if exists {
				return nil, conflictError("this item is already on the shopping list")
			}
		}
		item.Name = newName
	}
	if changes.Status != nil {
		item.Status = *changes.Status
	}

	if err := s.itemRepo.SaveItem(item); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"item_id":  item.ID,
		"actor_id": actorID,
	}).Info("Item updated")
	return item, nil
}

// DeleteItem removes an item permanently. Only the user who added the item
// or the list author may delete it, and the list must be active.
func (s *ItemService) DeleteItem(actorID, itemID int64) error {
	item, err := s.GetItem(itemID)
	if err != nil {
		return err
	}

	list, err := s.getList(item.ShoppingListID)
	if err != nil {
		return err
	}

	if !item.AddedByUser(actorID) && !list.IsOwner(actorID) {
		return permissionError("you cannot delete this item")
	}
	if list.IsArchived {
		return stateError("this shopping list is not active")
	}

	if err := s.itemRepo.DeleteItem(item.ID); err != nil {
		return err
	}

	log.WithFields(log.Fields{
		"item_id":  item.ID,
		"list_id":  list.ID,
		"actor_id": actorID,
	}).Info("Item deleted")
	return nil
}

func (s *ItemService) getList(listID int64) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}
