package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cartshare/internal/database"
	"cartshare/internal/models"
)

// ItemRepository handles database operations for shopping list items
type ItemRepository struct {
	db *database.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *database.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// CreateItem inserts a new item with status "need"
func (r *ItemRepository) CreateItem(listID int64, name string, addedBy int64) (*models.Item, error) {
	query := "INSERT INTO items (shopping_list_id, name, status, added_by) VALUES (?, ?, ?, ?)"
	itemID, err := r.db.ExecReturningID(query, listID, name, models.ItemStatusNeed, addedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	adder := addedBy
	return &models.Item{
		ID:             itemID,
		ShoppingListID: listID,
		Name:           name,
		Status:         models.ItemStatusNeed,
		AddedBy:        &adder,
		CreatedAt:      time.Now(),
	}, nil
}

// GetItemByID retrieves an item by ID, or nil if no such item exists
func (r *ItemRepository) GetItemByID(itemID int64) (*models.Item, error) {
	query := `
		SELECT id, shopping_list_id, name, status, added_by, created_at
		FROM items
		WHERE id = ?
	`
	item := &models.Item{}
	var addedBy sql.NullInt64
	err := r.db.QueryRow(query, itemID).Scan(
		&item.ID,
		&item.ShoppingListID,
		&item.Name,
		&item.Status,
		&addedBy,
		&item.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if addedBy.Valid {
		item.AddedBy = &addedBy.Int64
	}

	return item, nil
}

// ListItems retrieves all items on a list, oldest first
func (r *ItemRepository) ListItems(listID int64) ([]models.Item, error) {
	query := `
		SELECT id, shopping_list_id, name, status, added_by, created_at
		FROM items
		WHERE shopping_list_id = ?
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var addedBy sql.NullInt64
		if err := rows.Scan(
			&item.ID,
			&item.ShoppingListID,
			&item.Name,
			&item.Status,
			&addedBy,
			&item.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if addedBy.Valid {
			item.AddedBy = &addedBy.Int64
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

// CountItems returns the number of items on a list
func (r *ItemRepository) CountItems(listID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM items WHERE shopping_list_id = ?"
	if err := r.db.QueryRow(query, listID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return count, nil
}

// ItemNameExists reports whether the list already has an item with this
// name, compared case-insensitively
func (r *ItemRepository) ItemNameExists(listID int64, name string) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM items WHERE shopping_list_id = ? AND LOWER(name) = LOWER(?)"
	if err := r.db.QueryRow(query, listID, name).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check item name: %w", err)
	}
	return count > 0, nil
}

// SaveItem persists the item's mutable fields in a single statement, so a
// multi-field update is never partially applied
func (r *ItemRepository) SaveItem(item *models.Item) error {
	query := "UPDATE items SET name = ?, status = ? WHERE id = ?"
	if _, err := r.db.Exec(query, item.Name, item.Status, item.ID); err != nil {
		return fmt.Errorf("failed to update item: %w", err)
	}
	return nil
}

// DeleteItem removes an item permanently
func (r *ItemRepository) DeleteItem(itemID int64) error {
	query := "DELETE FROM items WHERE id = ?"
	if _, err := r.db.Exec(query, itemID); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}
