package history

import (
	"path/filepath"
	"testing"

	"github.com/studiowebux/gpgdesk/internal/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := NewManager(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return m
}

func entry(id, ts, profile, outcome string) types.HistoryEntry {
	return types.HistoryEntry{
		ID:         id,
		Timestamp:  ts,
		Profile:    profile,
		Endpoint:   types.GenerateKeyPath,
		Outcome:    outcome,
		StatusCode: 200,
		DurationMs: 12,
	}
}

func TestSaveAndLoad(t *testing.T) {
	m := newTestManager(t)

	older := entry("a", "2024-01-01 10:00:00", "local", "succeeded")
	newer := entry("b", "2024-01-01 11:00:00", "local", "failed")
	newer.ErrorKind = types.BadStatus.String()
	newer.StatusCode = 500

	for _, e := range []types.HistoryEntry{older, newer} {
		if err := m.Save(e); err != nil {
			t.Fatalf("Save(%s) failed: %v", e.ID, err)
		}
	}

	got, err := m.Load("local", 0)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0] != newer {
		t.Errorf("first entry = %+v, want %+v", got[0], newer)
	}
	if got[1] != older {
		t.Errorf("second entry = %+v, want %+v", got[1], older)
	}
}

func TestLoadFiltersByProfileAndLimit(t *testing.T) {
	m := newTestManager(t)

	entries := []types.HistoryEntry{
		entry("1", "2024-01-01 10:00:00", "local", "succeeded"),
		entry("2", "2024-01-01 10:00:01", "staging", "succeeded"),
		entry("3", "2024-01-01 10:00:02", "local", "failed"),
		entry("4", "2024-01-01 10:00:02", "local", "succeeded"),
	}
	for _, e := range entries {
		if err := m.Save(e); err != nil {
			t.Fatal(err)
		}
	}

	tests := []struct {
		name    string
		profile string
		limit   int
		wantIDs []string
	}{
		{"all profiles", "", 0, []string{"4", "3", "2", "1"}},
		{"single profile", "local", 0, []string{"4", "3", "1"}},
		{"limited", "local", 2, []string{"4", "3"}},
		{"unknown profile", "prod", 0, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := m.Load(tt.profile, tt.limit)
			if err != nil {
				t.Fatalf("Load failed: %v", err)
			}
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.wantIDs))
			}
			for i, id := range tt.wantIDs {
				if got[i].ID != id {
					t.Errorf("entry %d id = %q, want %q", i, got[i].ID, id)
				}
			}
		})
	}
}

func TestSaveRequiresID(t *testing.T) {
	m := newTestManager(t)
	if err := m.Save(types.HistoryEntry{Profile: "local"}); err == nil {
		t.Error("expected error for entry without id")
	}
}

func TestSaveFillsTimestamp(t *testing.T) {
	m := newTestManager(t)
	e := entry("x", "", "local", "succeeded")
	if err := m.Save(e); err != nil {
		t.Fatal(err)
	}
	got, err := m.Load("local", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Timestamp == "" {
		t.Errorf("timestamp not filled: %+v", got)
	}
}

func TestClearAndCount(t *testing.T) {
	m := newTestManager(t)
	for _, id := range []string{"a", "b", "c"} {
		if err := m.Save(entry(id, "2024-01-01 10:00:00", "local", "succeeded")); err != nil {
			t.Fatal(err)
		}
	}

	count, err := m.GetCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Errorf("count = %d, want 3", count)
	}

	if err := m.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	count, err = m.GetCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 0 {
		t.Errorf("count after clear = %d, want 0", count)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")
	m, err := NewManager(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := m.Save(entry("keep", "2024-01-01 10:00:00", "local", "succeeded")); err != nil {
		t.Fatal(err)
	}
	m.Close()

	m, err = NewManager(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer m.Close()
	count, err := m.GetCount()
	if err != nil {
		t.Fatal(err)
	}
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}
