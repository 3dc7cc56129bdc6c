package repository

import (
	"database/sql"
	"fmt"
	"time"

	"cartshare/internal/database"
	"cartshare/internal/models"
)

// InviteRepository handles database operations for list invites
type InviteRepository struct {
	db *database.DB
}

// NewInviteRepository creates a new invite repository
func NewInviteRepository(db *database.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

// CreateInvite inserts a new pending invite. The store enforces both the
// single-pending-per-(list,invitee) unique index and the inviter<>invitee
// check; callers classify violations via the dialect before wrapping.
func (r *InviteRepository) CreateInvite(listID, inviterID, inviteeID int64) (*models.ListInvite, error) {
	query := `
		INSERT INTO list_invites (shopping_list_id, inviter_id, invitee_id, status)
		VALUES (?, ?, ?, ?)
	`
	inviteID, err := r.db.ExecReturningID(query, listID, inviterID, inviteeID, models.InviteStatusPending)
	if err != nil {
		return nil, err
	}

	return &models.ListInvite{
		ID:             inviteID,
		ShoppingListID: listID,
		InviterID:      inviterID,
		InviteeID:      inviteeID,
		Status:         models.InviteStatusPending,
		CreatedAt:      time.Now(),
	}, nil
}

// GetInviteByID retrieves an invite by ID, or nil if no such invite exists
func (r *InviteRepository) GetInviteByID(inviteID int64) (*models.ListInvite, error) {
	query := `
		SELECT id, shopping_list_id, inviter_id, invitee_id, status, created_at, accepted_at
		FROM list_invites
		WHERE id = ?
	`
	invite := &models.ListInvite{}
	var acceptedAt sql.NullTime
	err := r.db.QueryRow(query, inviteID).Scan(
		&invite.ID,
		&invite.ShoppingListID,
		&invite.InviterID,
		&invite.InviteeID,
		&invite.Status,
		&invite.CreatedAt,
		&acceptedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}

	if acceptedAt.Valid {
		invite.AcceptedAt = &acceptedAt.Time
	}

	return invite, nil
}

// HasPendingInvite reports whether a pending invite exists for (list, invitee)
func (r *InviteRepository) HasPendingInvite(listID, inviteeID int64) (bool, error) {
	var count int
	query := `
		SELECT COUNT(*) FROM list_invites
		WHERE shopping_list_id = ? AND invitee_id = ? AND status = ?
	`
	err := r.db.QueryRow(query, listID, inviteeID, models.InviteStatusPending).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check pending invite: %w", err)
	}
	return count > 0, nil
}

// UpdateStatus moves an invite to a new status, stamping accepted_at when
// provided. Pass a transaction as q when the change must commit together
// with other writes.
func (r *InviteRepository) UpdateStatus(q database.DBTX, inviteID int64, status string, acceptedAt *time.Time) error {
	var err error
	if acceptedAt != nil {
		query := "UPDATE list_invites SET status = ?, accepted_at = ? WHERE id = ?"
		_, err = q.Exec(query, status, *acceptedAt, inviteID)
	} else {
		query := "UPDATE list_invites SET status = ? WHERE id = ?"
		_, err = q.Exec(query, status, inviteID)
	}
	if err != nil {
		return fmt.Errorf("failed to update invite status: %w", err)
	}
	return nil
}

// VisibleInvites retrieves the invites where userID is inviter or invitee,
// newest first, ties broken by id descending. pendingOnly filters to
// pending status.
func (r *InviteRepository) VisibleInvites(userID int64, pendingOnly bool) ([]models.ListInvite, error) {
	query := `
		SELECT id, shopping_list_id, inviter_id, invitee_id, status, created_at, accepted_at
		FROM list_invites
		WHERE (inviter_id = ? OR invitee_id = ?)
	`
	args := []interface{}{userID, userID}
	if pendingOnly {
		query += " AND status = ?"
		args = append(args, models.InviteStatusPending)
	}
	query += " ORDER BY created_at DESC, id DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query visible invites: %w", err)
	}
	defer rows.Close()

	var invites []models.ListInvite
	for rows.Next() {
		var invite models.ListInvite
		var acceptedAt sql.NullTime
		if err := rows.Scan(
			&invite.ID,
			&invite.ShoppingListID,
			&invite.InviterID,
			&invite.InviteeID,
			&invite.Status,
			&invite.CreatedAt,
			&acceptedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan invite: %w", err)
		}
		if acceptedAt.Valid {
			invite.AcceptedAt = &acceptedAt.Time
		}
		invites = append(invites, invite)
	}

	return invites, rows.Err()
}

// DeleteTerminalBefore removes resolved invites created before cutoff and
// returns how many were removed. Pending invites are never touched.
func (r *InviteRepository) DeleteTerminalBefore(cutoff time.Time) (int64, error) {
	query := "DELETE FROM list_invites WHERE status <> ? AND created_at < ?"
	result, err := r.db.Exec(query, models.InviteStatusPending, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune invites: %w", err)
	}
	return result.RowsAffected()
}
