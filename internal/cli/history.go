package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/studiowebux/gpgdesk/internal/executor"
	"github.com/studiowebux/gpgdesk/internal/types"
)

// HistoryStore is the part of the request log the history command uses
type HistoryStore interface {
	Load(profileName string, limit int) ([]types.HistoryEntry, error)
	Clear() error
	GetCount() (int, error)
}

// PrintHistory lists the request log as a table, newest first
func PrintHistory(w io.Writer, store HistoryStore, profile string, limit int) error {
	entries, err := store.Load(profile, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(w, "No requests recorded")
		return nil
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("TIME", "PROFILE", "ENDPOINT", "OUTCOME", "ERROR", "STATUS", "DURATION")
	for _, e := range entries {
		status := ""
		if e.StatusCode != 0 {
			status = fmt.Sprint(e.StatusCode)
		}
		t.Row(e.Timestamp, e.Profile, e.Endpoint, e.Outcome, e.ErrorKind, status, executor.FormatDuration(e.DurationMs))
	}

	fmt.Fprintln(w, t.String())
	return nil
}

// ClearHistory empties the request log and reports how many entries it held
func ClearHistory(w io.Writer, store HistoryStore) error {
	count, err := store.GetCount()
	if err != nil {
		return err
	}
	if err := store.Clear(); err != nil {
		return err
	}
	fmt.Fprintf(w, "Request log cleared: %d removed\n", count)
	return nil
}
