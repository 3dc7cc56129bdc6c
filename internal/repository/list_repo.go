package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cartshare/internal/database"
	"cartshare/internal/models"
)

// ListRepository handles database operations for shopping lists and their
// collaborator set
type ListRepository struct {
	db *database.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *database.DB) *ListRepository {
	return &ListRepository{db: db}
}

// CreateList creates a new active shopping list owned by authorID
func (r *ListRepository) CreateList(authorID int64, name string) (*models.ShoppingList, error) {
	query := "INSERT INTO shopping_lists (author_id, name) VALUES (?, ?)"
	listID, err := r.db.ExecReturningID(query, authorID, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	return &models.ShoppingList{
		ID:        listID,
		AuthorID:  authorID,
		Name:      name,
		CreatedAt: time.Now(),
	}, nil
}

// GetListByID retrieves a shopping list with its collaborator set loaded,
// or nil if no such list exists
func (r *ListRepository) GetListByID(listID int64) (*models.ShoppingList, error) {
	query := `
		SELECT id, author_id, name, is_archived, created_at
		FROM shopping_lists
		WHERE id = ?
	`
	list := &models.ShoppingList{}
	err := r.db.QueryRow(query, listID).Scan(
		&list.ID,
		&list.AuthorID,
		&list.Name,
		&list.IsArchived,
		&list.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}

	shared, err := r.CollaboratorIDs(r.db, listID)
	if err != nil {
		return nil, err
	}
	list.SharedWith = shared

	return list, nil
}

// VisibleLists retrieves the lists userID authored or collaborates on,
// newest first, ties broken by id descending. Archived lists are excluded
// unless includeArchived. SharedWith is not loaded.
func (r *ListRepository) VisibleLists(userID int64, includeArchived bool) ([]models.ShoppingList, error) {
	query := `
		SELECT DISTINCT l.id, l.author_id, l.name, l.is_archived, l.created_at
		FROM shopping_lists l
		LEFT JOIN list_collaborators c ON c.shopping_list_id = l.id
		WHERE (l.author_id = ? OR c.user_id = ?)
	`
	if !includeArchived {
		query += fmt.Sprintf(" AND l.is_archived = %s", r.db.Dialect.BoolValue(false))
	}
	query += " ORDER BY l.created_at DESC, l.id DESC"

	rows, err := r.db.Query(query, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query visible lists: %w", err)
	}
	defer rows.Close()

	var lists []models.ShoppingList
	for rows.Next() {
		var list models.ShoppingList
		if err := rows.Scan(
			&list.ID,
			&list.AuthorID,
			&list.Name,
			&list.IsArchived,
			&list.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}

	return lists, rows.Err()
}

// SetArchived marks a list as archived
func (r *ListRepository) SetArchived(listID int64) error {
	query := "UPDATE shopping_lists SET is_archived = ? WHERE id = ?"
	if _, err := r.db.Exec(query, true, listID); err != nil {
		return fmt.Errorf("failed to archive list: %w", err)
	}
	return nil
}

// DeleteList removes the list and everything it owns. q should be a
// transaction so the cascade is all-or-nothing.
func (r *ListRepository) DeleteList(q database.DBTX, listID int64) error {
	statements := []string{
		"DELETE FROM items WHERE shopping_list_id = ?",
		"DELETE FROM list_invites WHERE shopping_list_id = ?",
		"DELETE FROM list_collaborators WHERE shopping_list_id = ?",
		"DELETE FROM shopping_lists WHERE id = ?",
	}
	for _, stmt := range statements {
		if _, err := q.Exec(stmt, listID); err != nil {
			return fmt.Errorf("failed to delete list: %w", err)
		}
	}
	return nil
}

// LockList takes a row lock on the list for the duration of q's
// transaction, on dialects that support it. SQLite's writer lock already
// serializes, so its suffix is empty.
func (r *ListRepository) LockList(q database.DBTX, listID int64) error {
	query := "SELECT id FROM shopping_lists WHERE id = ?" + q.GetDialect().LockRowSuffix()
	var id int64
	if err := q.QueryRow(query, listID).Scan(&id); err != nil {
		return fmt.Errorf("failed to lock list: %w", err)
	}
	return nil
}

// CollaboratorIDs returns the user ids in the list's shared_with set
func (r *ListRepository) CollaboratorIDs(q database.DBTX, listID int64) ([]int64, error) {
	query := `
		SELECT user_id FROM list_collaborators
		WHERE shopping_list_id = ?
		ORDER BY user_id
	`
	rows, err := q.Query(query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to query collaborators: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan collaborator: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// CountCollaborators returns the size of the list's shared_with set
func (r *ListRepository) CountCollaborators(q database.DBTX, listID int64) (int, error) {
	var count int
	query := "SELECT COUNT(*) FROM list_collaborators WHERE shopping_list_id = ?"
	if err := q.QueryRow(query, listID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count collaborators: %w", err)
	}
	return count, nil
}

// IsCollaborator reports whether userID is in the list's shared_with set
func (r *ListRepository) IsCollaborator(q database.DBTX, listID, userID int64) (bool, error) {
	var count int
	query := "SELECT COUNT(*) FROM list_collaborators WHERE shopping_list_id = ? AND user_id = ?"
	if err := q.QueryRow(query, listID, userID).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check collaborator: %w", err)
	}
	return count > 0, nil
}

// AddCollaborator inserts userID into the list's shared_with set
func (r *ListRepository) AddCollaborator(q database.DBTX, listID, userID int64) error {
	query := "INSERT INTO list_collaborators (shopping_list_id, user_id) VALUES (?, ?)"
	if _, err := q.Exec(query, listID, userID); err != nil {
		return fmt.Errorf("failed to add collaborator: %w", err)
	}
	return nil
}
