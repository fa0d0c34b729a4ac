package state

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/sheetlens/internal/inventory"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testSummary() inventory.Summary {
	c := inventory.NewConsolidator()
	c.AddQuery(inventory.QueryRecord{
		Name: "Orders",
		Info: inventory.DatabaseInfo{
			Servers:   []string{"srv01"},
			Databases: []string{"Sales"},
			Sources:   []string{"SQL Server: srv01/Sales"},
		},
	})
	return c.Summary()
}

func TestRecordAndListRuns(t *testing.T) {
	s := openTestStore(t)

	run, err := s.RecordRun(Run{
		Root:         "/data",
		FilesScanned: 3,
		RowCount:     7,
		ErrorCount:   1,
		DurationMS:   120,
	}, testSummary())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.False(t, run.StartedAt.IsZero())

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run.ID, runs[0].ID)
	assert.Equal(t, "/data", runs[0].Root)
	assert.Equal(t, 3, runs[0].FilesScanned)
	assert.Equal(t, 1, runs[0].ErrorCount)
}

func TestRecentRuns_NewestFirst(t *testing.T) {
	s := openTestStore(t)

	old, err := s.RecordRun(Run{Root: "/old", StartedAt: time.Now().UTC().Add(-time.Hour)}, inventory.Summary{})
	require.NoError(t, err)
	recent, err := s.RecordRun(Run{Root: "/new"}, inventory.Summary{})
	require.NoError(t, err)

	runs, err := s.RecentRuns(10)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, recent.ID, runs[0].ID)
	assert.Equal(t, old.ID, runs[1].ID)
}

func TestRunElements(t *testing.T) {
	s := openTestStore(t)

	run, err := s.RecordRun(Run{Root: "/data"}, testSummary())
	require.NoError(t, err)

	elements, err := s.RunElements(run.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"srv01"}, elements["server"])
	assert.Equal(t, []string{"Sales"}, elements["database"])
	assert.Equal(t, []string{"SQL Server: srv01/Sales"}, elements["source"])
}

func TestOpen_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.RecordRun(Run{Root: "/data"}, inventory.Summary{})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	// Migrations are idempotent across reopens.
	s, err = Open(path)
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	runs, err := s.RecentRuns(5)
	require.NoError(t, err)
	assert.Len(t, runs, 1)
}
