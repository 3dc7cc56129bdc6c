package service

import (
	"errors"
	"testing"
	"time"

	"cartshare/internal/models"
)

func TestSendInvite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	t.Run("owner can send an invite", func(t *testing.T) {
		invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
		if err != nil {
			t.Fatalf("SendInvite failed: %v", err)
		}
		if invite.Status != models.InviteStatusPending {
			t.Errorf("Expected status %q, got %q", models.InviteStatusPending, invite.Status)
		}
		if invite.InviterID != owner.ID || invite.InviteeID != bob.ID {
			t.Errorf("Invite parties wrong: inviter=%d invitee=%d", invite.InviterID, invite.InviteeID)
		}
		if invite.AcceptedAt != nil {
			t.Error("AcceptedAt should be nil on a pending invite")
		}
	})

	t.Run("duplicate pending invite is rejected", func(t *testing.T) {
		_, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
		wantKind(t, err, KindConflict)
	})

	t.Run("non-owner cannot invite", func(t *testing.T) {
		carol := env.user(t, "carol")
		_, err := env.invites.SendInvite(list.ID, bob.ID, carol.ID)
		wantKind(t, err, KindPermission)
	})

	t.Run("self-invite is rejected", func(t *testing.T) {
		_, err := env.invites.SendInvite(list.ID, owner.ID, owner.ID)
		wantKind(t, err, KindValidation)
	})

	t.Run("unknown invitee", func(t *testing.T) {
		_, err := env.invites.SendInvite(list.ID, owner.ID, 99999)
		if !errors.Is(err, ErrUserNotFound) {
			t.Errorf("Expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("existing collaborator cannot be invited", func(t *testing.T) {
		dave := env.user(t, "dave")
		env.collaborator(t, list.ID, dave.ID)
		_, err := env.invites.SendInvite(list.ID, owner.ID, dave.ID)
		wantKind(t, err, KindConflict)
	})

	t.Run("archived list rejects invites", func(t *testing.T) {
		archived := env.list(t, owner, "Old list")
		if _, err := env.lists.ArchiveList(archived.ID, owner.ID); err != nil {
			t.Fatalf("ArchiveList failed: %v", err)
		}
		_, err := env.invites.SendInvite(archived.ID, owner.ID, bob.ID)
		wantKind(t, err, KindState)
	})
}

func TestSendInviteCollaboratorCap(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	invitee := env.user(t, "late-joiner")
	list := env.list(t, owner, "Block party")

	env.fillCollaborators(t, list.ID, MaxCollaborators)

	_, err := env.invites.SendInvite(list.ID, owner.ID, invitee.ID)
	wantKind(t, err, KindCapacity)
}

func TestAcceptInvite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}

	t.Run("only the invitee can accept", func(t *testing.T) {
		_, err := env.invites.AcceptInvite(invite.ID, owner.ID)
		wantKind(t, err, KindPermission)
	})

	t.Run("invitee accepts and joins the list", func(t *testing.T) {
		accepted, err := env.invites.AcceptInvite(invite.ID, bob.ID)
		if err != nil {
			t.Fatalf("AcceptInvite failed: %v", err)
		}
		if accepted.Status != models.InviteStatusAccepted {
			t.Errorf("Expected status %q, got %q", models.InviteStatusAccepted, accepted.Status)
		}
		if accepted.AcceptedAt == nil {
			t.Error("AcceptedAt should be set after accepting")
		}

		fresh, err := env.lists.GetList(list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if !fresh.IsCollaborator(bob.ID) {
			t.Error("Invitee should be a collaborator after accepting")
		}
	})

	t.Run("accepting twice fails", func(t *testing.T) {
		_, err := env.invites.AcceptInvite(invite.ID, bob.ID)
		wantKind(t, err, KindState)
	})
}

func TestAcceptInviteArchivedList(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}
	if _, err := env.lists.ArchiveList(list.ID, owner.ID); err != nil {
		t.Fatalf("ArchiveList failed: %v", err)
	}

	_, err = env.invites.AcceptInvite(invite.ID, bob.ID)
	wantKind(t, err, KindState)

	fresh, err := env.invites.GetInvite(invite.ID)
	if err != nil {
		t.Fatalf("GetInvite failed: %v", err)
	}
	if fresh.Status != models.InviteStatusPending {
		t.Errorf("Invite should remain pending, got %q", fresh.Status)
	}
}

// A list can accumulate more pending invites than it has room for. The cap
// is re-checked when each invite resolves, so an accept against a list that
// filled up in the meantime fails and leaves both the invite and the
// membership untouched.
func TestAcceptInviteListFull(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	env.fillCollaborators(t, list.ID, MaxCollaborators-1)
	invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}

	// The last seat goes to someone else before bob accepts.
	latecomer := env.user(t, "latecomer")
	env.collaborator(t, list.ID, latecomer.ID)

	_, err = env.invites.AcceptInvite(invite.ID, bob.ID)
	wantKind(t, err, KindCapacity)

	fresh, err := env.invites.GetInvite(invite.ID)
	if err != nil {
		t.Fatalf("GetInvite failed: %v", err)
	}
	if fresh.Status != models.InviteStatusPending {
		t.Errorf("Invite should remain pending after a failed accept, got %q", fresh.Status)
	}

	reloaded, err := env.lists.GetList(list.ID)
	if err != nil {
		t.Fatalf("GetList failed: %v", err)
	}
	if len(reloaded.SharedWith) != MaxCollaborators {
		t.Errorf("Expected %d collaborators, got %d", MaxCollaborators, len(reloaded.SharedWith))
	}
	if reloaded.IsCollaborator(bob.ID) {
		t.Error("Invitee must not be added when the list is full")
	}
}

func TestDeclineInvite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}

	t.Run("owner cannot decline on the invitee's behalf", func(t *testing.T) {
		_, err := env.invites.DeclineInvite(invite.ID, owner.ID)
		wantKind(t, err, KindPermission)
	})

	t.Run("invitee declines", func(t *testing.T) {
		declined, err := env.invites.DeclineInvite(invite.ID, bob.ID)
		if err != nil {
			t.Fatalf("DeclineInvite failed: %v", err)
		}
		if declined.Status != models.InviteStatusDeclined {
			t.Errorf("Expected status %q, got %q", models.InviteStatusDeclined, declined.Status)
		}

		fresh, err := env.lists.GetList(list.ID)
		if err != nil {
			t.Fatalf("GetList failed: %v", err)
		}
		if fresh.IsCollaborator(bob.ID) {
			t.Error("Declining must not add the invitee to the list")
		}
	})

	t.Run("declined invite cannot be accepted", func(t *testing.T) {
		_, err := env.invites.AcceptInvite(invite.ID, bob.ID)
		wantKind(t, err, KindState)
	})

	t.Run("re-invite after decline is allowed", func(t *testing.T) {
		fresh, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
		if err != nil {
			t.Fatalf("SendInvite after decline failed: %v", err)
		}
		if fresh.ID == invite.ID {
			t.Error("Re-invite should create a new record")
		}
	})
}

func TestCancelInvite(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	list := env.list(t, owner, "Groceries")

	invite, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}

	t.Run("invitee cannot cancel", func(t *testing.T) {
		_, err := env.invites.CancelInvite(invite.ID, bob.ID)
		wantKind(t, err, KindPermission)
	})

	t.Run("owner cancels", func(t *testing.T) {
		cancelled, err := env.invites.CancelInvite(invite.ID, owner.ID)
		if err != nil {
			t.Fatalf("CancelInvite failed: %v", err)
		}
		if cancelled.Status != models.InviteStatusCancelled {
			t.Errorf("Expected status %q, got %q", models.InviteStatusCancelled, cancelled.Status)
		}
	})

	t.Run("cancelled invite cannot be declined", func(t *testing.T) {
		_, err := env.invites.DeclineInvite(invite.ID, bob.ID)
		wantKind(t, err, KindState)
	})
}

func TestVisibleInvites(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	list := env.list(t, owner, "Groceries")

	first, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}
	second, err := env.invites.SendInvite(list.ID, owner.ID, carol.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}
	if _, err := env.invites.DeclineInvite(first.ID, bob.ID); err != nil {
		t.Fatalf("DeclineInvite failed: %v", err)
	}

	t.Run("inviter sees all their invites newest first", func(t *testing.T) {
		invites, err := env.invites.VisibleInvites(owner.ID, false)
		if err != nil {
			t.Fatalf("VisibleInvites failed: %v", err)
		}
		if len(invites) != 2 {
			t.Fatalf("Expected 2 invites, got %d", len(invites))
		}
		if invites[0].ID != second.ID || invites[1].ID != first.ID {
			t.Errorf("Expected order [%d %d], got [%d %d]", second.ID, first.ID, invites[0].ID, invites[1].ID)
		}
	})

	t.Run("pending filter hides resolved invites", func(t *testing.T) {
		invites, err := env.invites.VisibleInvites(owner.ID, true)
		if err != nil {
			t.Fatalf("VisibleInvites failed: %v", err)
		}
		if len(invites) != 1 || invites[0].ID != second.ID {
			t.Fatalf("Expected only invite %d, got %v", second.ID, invites)
		}
	})

	t.Run("invitee sees their own invites only", func(t *testing.T) {
		invites, err := env.invites.VisibleInvites(carol.ID, false)
		if err != nil {
			t.Fatalf("VisibleInvites failed: %v", err)
		}
		if len(invites) != 1 || invites[0].ID != second.ID {
			t.Fatalf("Expected only invite %d, got %v", second.ID, invites)
		}
	})

	t.Run("bystander sees nothing", func(t *testing.T) {
		dave := env.user(t, "dave")
		invites, err := env.invites.VisibleInvites(dave.ID, false)
		if err != nil {
			t.Fatalf("VisibleInvites failed: %v", err)
		}
		if len(invites) != 0 {
			t.Fatalf("Expected no invites, got %d", len(invites))
		}
	})
}

func TestPruneTerminal(t *testing.T) {
	env := newTestEnv(t)
	owner := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	list := env.list(t, owner, "Groceries")

	declined, err := env.invites.SendInvite(list.ID, owner.ID, bob.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}
	if _, err := env.invites.DeclineInvite(declined.ID, bob.ID); err != nil {
		t.Fatalf("DeclineInvite failed: %v", err)
	}
	pending, err := env.invites.SendInvite(list.ID, owner.ID, carol.ID)
	if err != nil {
		t.Fatalf("SendInvite failed: %v", err)
	}

	// Age both invites past the retention window.
	old := time.Now().Add(-48 * time.Hour)
	if _, err := env.db.Exec("UPDATE list_invites SET created_at = ?", old); err != nil {
		t.Fatalf("Failed to backdate invites: %v", err)
	}

	n, err := env.invites.PruneTerminal(24 * time.Hour)
	if err != nil {
		t.Fatalf("PruneTerminal failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Expected 1 pruned invite, got %d", n)
	}

	if _, err := env.invites.GetInvite(declined.ID); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("Declined invite should be pruned, got %v", err)
	}
	if _, err := env.invites.GetInvite(pending.ID); err != nil {
		t.Errorf("Pending invite must survive pruning: %v", err)
	}
}
