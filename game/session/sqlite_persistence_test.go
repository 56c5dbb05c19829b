package session

import (
	"path/filepath"
	"testing"
)

func TestSQLitePersistence(t *testing.T) {
	persistence, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "db", "sessions.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open sqlite persistence: %v", err)
	}
	defer persistence.Close()

	testPersistence(t, persistence)
}

func TestSQLitePersistence_CaseInsensitiveIDs(t *testing.T) {
	persistence, err := NewSQLitePersistence(":memory:", nil)
	if err != nil {
		t.Fatalf("Failed to open sqlite persistence: %v", err)
	}
	defer persistence.Close()

	if err := persistence.Save(newTestSession(t, "AbCd")); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}
	if !persistence.Exists("abcd") || !persistence.Exists("ABCD") {
		t.Error("Expected lookups to ignore case")
	}

	// saving again replaces the row
	if err := persistence.Save(newTestSession(t, "abcd")); err != nil {
		t.Fatalf("Failed to re-save session: %v", err)
	}
	ids, _ := persistence.ListAll()
	if len(ids) != 1 {
		t.Errorf("Expected a single row after upsert, got %v", ids)
	}
}

func TestSQLitePersistence_WithManager(t *testing.T) {
	persistence, err := NewSQLitePersistence(filepath.Join(t.TempDir(), "sessions.db"), nil)
	if err != nil {
		t.Fatalf("Failed to open sqlite persistence: %v", err)
	}
	defer persistence.Close()

	manager := NewManagerWithPersistence(persistence)
	session, err := manager.Create("", "test", createTestLevel())
	if err != nil {
		t.Fatalf("Failed to create session: %v", err)
	}
	session.Engine.Execute("east")
	if err := manager.Save(session.ID); err != nil {
		t.Fatalf("Failed to save session: %v", err)
	}

	restarted := NewManagerWithPersistence(persistence)
	if restored, err := restarted.LoadPersistedSessions(); err != nil || restored != 1 {
		t.Fatalf("Expected 1 restored session, got %d (%v)", restored, err)
	}
	loaded, err := restarted.Get(session.ID)
	if err != nil {
		t.Fatalf("Failed to get session after restart: %v", err)
	}
	if loaded.Engine.GetPlayer() != session.Engine.GetPlayer() {
		t.Errorf("Expected player %+v, got %+v", session.Engine.GetPlayer(), loaded.Engine.GetPlayer())
	}
}
