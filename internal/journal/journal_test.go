package journal

import (
	"testing"
	"time"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newJournal(t *testing.T) (*Journal, *db.Store) {
	t.Helper()
	store, err := db.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store, zap.NewNop()), store
}

func TestWriteNewestFirst(t *testing.T) {
	j, _ := newJournal(t)
	now := time.Date(2026, 10, 19, 20, 0, 0, 0, time.UTC)
	j.now = func() time.Time { return now }

	_, err := j.Write("first day", "calm")
	require.NoError(t, err)
	now = now.Add(time.Hour)
	second, err := j.Write("  second day  ", "")
	require.NoError(t, err)
	assert.Equal(t, "second day", second.Content)

	entries, err := j.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "second day", entries[0].Content)
	assert.Equal(t, "calm", entries[1].Mood)
	assert.NotEqual(t, entries[0].ID, entries[1].ID)
}

func TestWriteRejectsBlank(t *testing.T) {
	j, _ := newJournal(t)
	_, err := j.Write(" \n\t", "")
	assert.ErrorIs(t, err, ErrEmptyEntry)
}

func TestEntriesEmpty(t *testing.T) {
	j, _ := newJournal(t)
	entries, err := j.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveDrawing(t *testing.T) {
	j, _ := newJournal(t)
	png := append([]byte("\x89PNG\r\n\x1a\n"), 1, 2, 3)

	url, err := j.SaveDrawing(png)
	require.NoError(t, err)
	assert.Contains(t, url, "data:image/png;base64,")

	_, err = j.SaveDrawing(append(png, 4))
	require.NoError(t, err)

	drawings, err := j.Drawings()
	require.NoError(t, err)
	require.Len(t, drawings, 2)
	assert.Equal(t, url, drawings[1])

	back, err := DecodeDrawing(drawings[1])
	require.NoError(t, err)
	assert.Equal(t, png, back)
}

func TestSaveDrawingRejectsNonPNG(t *testing.T) {
	j, _ := newJournal(t)
	_, err := j.SaveDrawing([]byte("GIF89a"))
	assert.ErrorIs(t, err, ErrNotPNG)

	_, err = DecodeDrawing("data:image/jpeg;base64,AAAA")
	assert.ErrorIs(t, err, ErrNotPNG)
}
