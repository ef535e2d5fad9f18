package catalog

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTouchThenGet(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Touch("/sessions/alpha", "sess-1", "Alpha"))

	e, err := c.Get("/sessions/alpha")
	require.NoError(t, err)
	require.NotNil(t, e)
	require.Equal(t, "sess-1", e.SessionID)
	require.Equal(t, "Alpha", e.Name)
	require.False(t, e.LastOpened.IsZero())
}

func TestTouchUpdatesExistingEntry(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Touch("/sessions/alpha", "sess-1", "Alpha"))
	require.NoError(t, c.Touch("/sessions/alpha", "sess-1-renamed", "Alpha Renamed"))

	e, err := c.Get("/sessions/alpha")
	require.NoError(t, err)
	require.Equal(t, "sess-1-renamed", e.SessionID)
	require.Equal(t, "Alpha Renamed", e.Name)
}

func TestGetMissingReturnsNil(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	e, err := c.Get("/sessions/nope")
	require.NoError(t, err)
	require.Nil(t, e)
}

func TestRecentOrdersNewestFirst(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Touch("/sessions/a", "sess-a", "A"))
	require.NoError(t, c.Touch("/sessions/b", "sess-b", "B"))
	_, err = c.db.Exec(`UPDATE sessions SET last_opened = datetime('now', '-1 hour') WHERE path = ?`, "/sessions/a")
	require.NoError(t, err)

	entries, err := c.Recent(10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "/sessions/b", entries[0].Path)
	require.Equal(t, "/sessions/a", entries[1].Path)
}

func TestRemoveDeletesEntry(t *testing.T) {
	c, err := Open(":memory:")
	require.NoError(t, err)
	defer c.Close()

	require.NoError(t, c.Touch("/sessions/alpha", "sess-1", "Alpha"))
	require.NoError(t, c.Remove("/sessions/alpha"))

	e, err := c.Get("/sessions/alpha")
	require.NoError(t, err)
	require.Nil(t, e)
}
