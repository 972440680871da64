package butterflies

import (
	"testing"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newCollection(t *testing.T) *Collection {
	t.Helper()
	store, err := db.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewCollection(store, zap.NewNop())
}

func TestRewardAppends(t *testing.T) {
	c := newCollection(t)

	require.NoError(t, c.Reward(1))
	require.NoError(t, c.Reward(3))
	require.NoError(t, c.Reward(0))

	all, err := c.All()
	require.NoError(t, err)
	require.Len(t, all, 4)
	for _, b := range all {
		assert.Contains(t, Colors, b.Color)
		assert.Contains(t, Sizes, b.Size)
		assert.NotEmpty(t, b.ID)
	}
}

func TestToggleFavorite(t *testing.T) {
	c := newCollection(t)

	fav, err := c.ToggleFavorite("b1")
	require.NoError(t, err)
	assert.True(t, fav)
	c.ToggleFavorite("b2")

	fav, err = c.ToggleFavorite("b1")
	require.NoError(t, err)
	assert.False(t, fav)

	favs, err := c.Favorites()
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, favs)
}

func TestGroupByColor(t *testing.T) {
	groups := GroupByColor([]Butterfly{
		{ID: "1", Color: "pink"},
		{ID: "2", Color: "blue"},
		{ID: "3", Color: "pink"},
	})

	require.Len(t, groups, 2)
	assert.Equal(t, "blue", groups[0].Color)
	assert.Equal(t, "pink", groups[1].Color)
	assert.Len(t, groups[1].Butterflies, 2)
	assert.Empty(t, GroupByColor(nil))
}

func TestRewardUsesRandomSource(t *testing.T) {
	c := newCollection(t)
	c.intn = func(n int) int { return n - 1 }

	require.NoError(t, c.Reward(1))
	all, _ := c.All()
	assert.Equal(t, "green", all[0].Color)
	assert.Equal(t, "lg", all[0].Size)
}
