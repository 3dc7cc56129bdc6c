package service

import (
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"cartshare/internal/database"
	"cartshare/internal/metrics"
	"cartshare/internal/models"
	"cartshare/internal/repository"
)

// MaxCollaborators caps a list's shared_with set. The cap is checked both
// when an invite is sent and again when it is accepted: the pending-invite
// count is unbounded, so several pending invites resolving concurrently
// could otherwise push a list past the cap.
const MaxCollaborators = 49

// InviteService drives the invite state machine: pending is created by
// SendInvite and moves to exactly one of accepted, declined or cancelled.
// Terminal invites are never revived; re-inviting means a new record.
type InviteService struct {
	db         *database.DB
	inviteRepo *repository.InviteRepository
	listRepo   *repository.ListRepository
	userRepo   *repository.UserRepository
}

// NewInviteService creates a new invite service
func NewInviteService(db *database.DB, inviteRepo *repository.InviteRepository, listRepo *repository.ListRepository, userRepo *repository.UserRepository) *InviteService {
	return &InviteService{
		db:         db,
		inviteRepo: inviteRepo,
		listRepo:   listRepo,
		userRepo:   userRepo,
	}
}

// GetInvite retrieves an invite by ID.
func (s *InviteService) GetInvite(inviteID int64) (*models.ListInvite, error) {
	invite, err := s.inviteRepo.GetInviteByID(inviteID)
	if err != nil {
		return nil, fmt.Errorf("failed to get invite: %w", err)
	}
	if invite == nil {
		return nil, ErrInviteNotFound
	}
	return invite, nil
}

// SendInvite creates a pending invite from the list owner to another user.
func (s *InviteService) SendInvite(listID, inviterID, inviteeID int64) (*models.ListInvite, error) {
	list, err := s.getList(listID)
	if err != nil {
		return nil, err
	}

	if !list.IsOwner(inviterID) {
		return nil, permissionError("only the owner can invite")
	}
	if list.IsArchived {
		return nil, stateError("this shopping list is not active")
	}
	if inviteeID == inviterID {
		return nil, validationError("you cannot invite yourself")
	}

	invitee, err := s.userRepo.GetUserByID(inviteeID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve invitee: %w", err)
	}
	if invitee == nil {
		return nil, ErrUserNotFound
	}

	if list.IsCollaborator(inviteeID) {
		return nil, conflictError("this user already collaborates on this list")
	}
	if len(list.SharedWith) >= MaxCollaborators {
		metrics.CapacityRejections.WithLabelValues("collaborators").Inc()
		return nil, capacityError("this shopping list is full (max %d collaborators)", MaxCollaborators)
	}

	pending, err := s.inviteRepo.HasPendingInvite(list.ID, inviteeID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, conflictError("a pending invite already exists for this user")
	}

	invite, err := s.inviteRepo.CreateInvite(list.ID, inviterID, inviteeID)
	if err != nil {
		// Two concurrent sends for the same (list, invitee) race past the
		// pre-check; the store's pending-pair index fails the loser.
		if s.db.Dialect.IsUniqueViolation(err) {
			return nil, conflictError("a pending invite already exists for this user")
		}
		if s.db.Dialect.IsCheckViolation(err) {
			return nil, validationError("you cannot invite yourself")
		}
		return nil, fmt.Errorf("failed to create invite: %w", err)
	}

	metrics.InviteTransitions.WithLabelValues("sent").Inc()
	log.WithFields(log.Fields{
		"invite_id":  invite.ID,
		"list_id":    list.ID,
		"inviter_id": inviterID,
		"invitee_id": inviteeID,
	}).Info("Invite sent")
	return invite, nil
}

// AcceptInvite accepts a pending invite: the invitee joins shared_with and
// the invite becomes accepted, in a single transaction. After a successful
// return both hold; after a failure neither does.
func (s *InviteService) AcceptInvite(inviteID, actorID int64) (*models.ListInvite, error) {
	invite, err := s.GetInvite(inviteID)
	if err != nil {
		return nil, err
	}

	if actorID != invite.InviteeID {
		return nil, permissionError("you cannot accept this invite")
	}
	if !invite.IsPending() {
		return nil, stateError("this invite cannot be accepted")
	}

	list, err := s.getList(invite.ShoppingListID)
	if err != nil {
		return nil, err
	}
	if list.IsArchived {
		return nil, stateError("this invite cannot be accepted because the shopping list is archived")
	}

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Lock the list row so the membership count can't move under us while
	// several pending invites resolve at once.
	if err := s.listRepo.LockList(tx, list.ID); err != nil {
		return nil, err
	}

	isCollab, err := s.listRepo.IsCollaborator(tx, list.ID, actorID)
	if err != nil {
		return nil, err
	}
	if isCollab {
		return nil, conflictError("you have already been added to this list")
	}

	count, err := s.listRepo.CountCollaborators(tx, list.ID)
	if err != nil {
		return nil, err
	}
	if count >= MaxCollaborators {
		metrics.CapacityRejections.WithLabelValues("collaborators").Inc()
		return nil, capacityError("this shopping list is full (max %d collaborators)", MaxCollaborators)
	}

	now := time.Now()
	if err := s.listRepo.AddCollaborator(tx, list.ID, actorID); err != nil {
		return nil, err
	}
	if err := s.inviteRepo.UpdateStatus(tx, invite.ID, models.InviteStatusAccepted, &now); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit accept: %w", err)
	}

	invite.Status = models.InviteStatusAccepted
	invite.AcceptedAt = &now

	metrics.InviteTransitions.WithLabelValues(models.InviteStatusAccepted).Inc()
	log.WithFields(log.Fields{
		"invite_id": invite.ID,
		"list_id":   list.ID,
		"actor_id":  actorID,
	}).Info("Invite accepted")
	return invite, nil
}

// DeclineInvite declines a pending invite. Invitee only; shared_with is
// untouched.
func (s *InviteService) DeclineInvite(inviteID, actorID int64) (*models.ListInvite, error) {
	invite, err := s.GetInvite(inviteID)
	if err != nil {
		return nil, err
	}

	if actorID != invite.InviteeID {
		return nil, permissionError("you cannot respond to this invite")
	}
	if !invite.IsPending() {
		return nil, stateError("this invite cannot be declined")
	}

	if err := s.inviteRepo.UpdateStatus(s.db, invite.ID, models.InviteStatusDeclined, nil); err != nil {
		return nil, err
	}
	invite.Status = models.InviteStatusDeclined

	metrics.InviteTransitions.WithLabelValues(models.InviteStatusDeclined).Inc()
	log.WithFields(log.Fields{"invite_id": invite.ID, "actor_id": actorID}).Info("Invite declined")
	return invite, nil
}

// CancelInvite cancels a pending invite. List author only.
func (s *InviteService) CancelInvite(inviteID, actorID int64) (*models.ListInvite, error) {
	invite, err := s.GetInvite(inviteID)
	if err != nil {
		return nil, err
	}

	list, err := s.getList(invite.ShoppingListID)
	if err != nil {
		return nil, err
	}
	if !list.IsOwner(actorID) {
		return nil, permissionError("you cannot cancel this invite")
	}
	if !invite.IsPending() {
		return nil, stateError("this invite cannot be cancelled")
	}

	if err := s.inviteRepo.UpdateStatus(s.db, invite.ID, models.InviteStatusCancelled, nil); err != nil {
		return nil, err
	}
	invite.Status = models.InviteStatusCancelled

	metrics.InviteTransitions.WithLabelValues(models.InviteStatusCancelled).Inc()
	log.WithFields(log.Fields{"invite_id": invite.ID, "actor_id": actorID}).Info("Invite cancelled")
	return invite, nil
}

// VisibleInvites returns the invites where the actor is inviter or invitee,
// newest first. pendingOnly filters to pending invites.
func (s *InviteService) VisibleInvites(actorID int64, pendingOnly bool) ([]models.ListInvite, error) {
	invites, err := s.inviteRepo.VisibleInvites(actorID, pendingOnly)
	if err != nil {
		return nil, fmt.Errorf("failed to get visible invites: %w", err)
	}
	return invites, nil
}

// PruneTerminal removes resolved invites older than retention. Pending
// invites are never pruned.
func (s *InviteService) PruneTerminal(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	n, err := s.inviteRepo.DeleteTerminalBefore(cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		log.WithField("pruned", n).Info("Pruned resolved invites")
	}
	return n, nil
}

func (s *InviteService) getList(listID int64) (*models.ShoppingList, error) {
	list, err := s.listRepo.GetListByID(listID)
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	if list == nil {
		return nil, ErrListNotFound
	}
	return list, nil
}
