package service

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"cartshare/internal/database"
	"cartshare/internal/models"
	"cartshare/internal/repository"
	"cartshare/internal/validation"
)

// ListService handles shopping list lifecycle: creation, archiving,
// deletion, and the caller-facing visibility queries.
type ListService struct {
	db       *database.DB
	listRepo *repository.ListRepository
}

// NewListService creates a new list service
func NewListService(db *database.DB, listRepo *repository.ListRepository) *ListService {
	return &ListService{
		db:       db,
		listRepo: listRepo,
	}
}

// CreateList creates a new active list owned by the actor.
func (s *ListService) CreateList(actorID int64, name string) (*models.ShoppingList, error) {
	name = strings.TrimSpace(name)
	if err := validation.ValidateListName(name); err != nil {
		return nil, validationError("%s", err)
	}

	list, err := s.listRepo.CreateList(actorID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	log.WithFields(log.Fields{"list_id": list.ID, "author_id": actorID}).Info("List created")
	return list, nil
}

// GetList retrieves a list by ID with its collaborator set loaded.
func (s *ListService) GetList(listID int64) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}

// ArchiveList archives a list. Only the author may archive, a list is
// archived at most once, and the flag never reverses.
func (s *ListService) ArchiveList(listID, actorID int64) (*models.ShoppingList, error) {
	list, err := s.GetList(listID)
	if err != nil {
		return nil, err
	}

	if !list.IsOwner(actorID) {
		return nil, permissionError("only the owner can archive this list")
	}
	if list.IsArchived {
		return nil, stateError("this shopping list is already archived")
	}

	if err := s.listRepo.SetArchived(list.ID); err != nil {
		return nil, err
	}
	list.IsArchived = true

	log.WithFields(log.Fields{"list_id": list.ID, "actor_id": actorID}).Info("List archived")
	return list, nil
}

// DeleteList removes a list together with its items, invites and
// collaborator rows. Author only; the cascade runs in one transaction.
func (s *ListService) DeleteList(listID, actorID int64) error {
	list, err := s.GetList(listID)
	if err != nil {
		return err
	}

	if !list.IsOwner(actorID) {
		return permissionError("only the owner can delete this list")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.listRepo.DeleteList(tx, list.ID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit delete: %w", err)
	}

	log.WithFields(log.Fields{"list_id": list.ID, "actor_id": actorID}).Info("List deleted")
	return nil
}

// VisibleLists returns the lists the actor authored or collaborates on,
// newest first. Archived lists are excluded unless includeArchived.
func (s *ListService) VisibleLists(actorID int64, includeArchived bool) ([]models.ShoppingList, error) {
	lists, err := s.listRepo.VisibleLists(actorID, includeArchived)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible lists: %w", err)
	}
	return lists, nil
}
