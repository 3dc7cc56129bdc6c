package database

import (
	"path/filepath"
	"testing"
)

func newMigratedDB(t *testing.T) *DB {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping database-backed test in short mode")
	}

	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := Initialize(dbPath)
	if err != nil {
		t.Fatalf("Failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
		t.Fatalf("Failed to run migrations: %v", err)
	}
	return db
}

func seedPair(t *testing.T, db *DB) (ownerID, guestID, listID int64) {
	t.Helper()

	ownerID, err := db.ExecReturningID("INSERT INTO users (username, email) VALUES (?, ?)", "alice", "alice@example.com")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	guestID, err = db.ExecReturningID("INSERT INTO users (username, email) VALUES (?, ?)", "bob", "bob@example.com")
	if err != nil {
		t.Fatalf("Failed to insert user: %v", err)
	}
	listID, err = db.ExecReturningID("INSERT INTO shopping_lists (author_id, name) VALUES (?, ?)", ownerID, "Groceries")
	if err != nil {
		t.Fatalf("Failed to insert list: %v", err)
	}
	return ownerID, guestID, listID
}

func TestMigrations(t *testing.T) {
	db := newMigratedDB(t)

	tables := []string{"users", "shopping_lists", "list_collaborators", "items", "list_invites", "migrations"}
	for _, table := range tables {
		var name string
		err := db.QueryRow("SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Expected table %s to exist: %v", table, err)
		}
	}

	t.Run("running migrations twice is a no-op", func(t *testing.T) {
		if err := db.RunMigrations(filepath.Join("..", "..", "migrations")); err != nil {
			t.Fatalf("Second migration run failed: %v", err)
		}
	})
}

func TestPendingInviteUniqueness(t *testing.T) {
	db := newMigratedDB(t)
	ownerID, guestID, listID := seedPair(t, db)

	insert := "INSERT INTO list_invites (shopping_list_id, inviter_id, invitee_id) VALUES (?, ?, ?)"
	if _, err := db.Exec(insert, listID, ownerID, guestID); err != nil {
		t.Fatalf("First pending invite should insert: %v", err)
	}

	t.Run("second pending invite for the pair is rejected", func(t *testing.T) {
		_, err := db.Exec(insert, listID, ownerID, guestID)
		if err == nil {
			t.Fatal("Expected a constraint violation, got nil")
		}
		if !db.Dialect.IsUniqueViolation(err) {
			t.Errorf("Expected a unique violation, got %v", err)
		}
	})

	t.Run("resolved invites do not block a new pending one", func(t *testing.T) {
		if _, err := db.Exec("UPDATE list_invites SET status = 'declined' WHERE shopping_list_id = ?", listID); err != nil {
			t.Fatalf("Failed to resolve invite: %v", err)
		}
		if _, err := db.Exec(insert, listID, ownerID, guestID); err != nil {
			t.Errorf("Pending invite after a declined one should insert: %v", err)
		}
	})
}

func TestSelfInviteCheck(t *testing.T) {
	db := newMigratedDB(t)
	ownerID, _, listID := seedPair(t, db)

	_, err := db.Exec(
		"INSERT INTO list_invites (shopping_list_id, inviter_id, invitee_id) VALUES (?, ?, ?)",
		listID, ownerID, ownerID,
	)
	if err == nil {
		t.Fatal("Expected a constraint violation, got nil")
	}
	if !db.Dialect.IsCheckViolation(err) {
		t.Errorf("Expected a check violation, got %v", err)
	}
}

func TestItemNameUniqueness(t *testing.T) {
	db := newMigratedDB(t)
	_, _, listID := seedPair(t, db)

	insert := "INSERT INTO items (shopping_list_id, name) VALUES (?, ?)"
	if _, err := db.Exec(insert, listID, "Milk"); err != nil {
		t.Fatalf("First item should insert: %v", err)
	}

	_, err := db.Exec(insert, listID, "MILK")
	if err == nil {
		t.Fatal("Expected a constraint violation, got nil")
	}
	if !db.Dialect.IsUniqueViolation(err) {
		t.Errorf("Expected a unique violation, got %v", err)
	}

	t.Run("the same name on another list is fine", func(t *testing.T) {
		otherID, err := db.ExecReturningID("INSERT INTO shopping_lists (author_id, name) VALUES (?, ?)", 1, "Other")
		if err != nil {
			t.Fatalf("Failed to insert list: %v", err)
		}
		if _, err := db.Exec(insert, otherID, "Milk"); err != nil {
			t.Errorf("Same name on a different list should insert: %v", err)
		}
	})
}
