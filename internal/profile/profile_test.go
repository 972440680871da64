package profile

import (
	"testing"

	"github.com/MohamedX1935/imanes-bloom-garden/internal/db"
	"github.com/MohamedX1935/imanes-bloom-garden/internal/steps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newRepo(t *testing.T) (*Repository, *db.Store) {
	t.Helper()
	store, err := db.Open(":memory:", zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return NewRepository(store, zap.NewNop()), store
}

func TestLoadDefaults(t *testing.T) {
	repo, _ := newRepo(t)

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.Equal(t, steps.DefaultBody, p.Body())
}

func TestSaveAndLoad(t *testing.T) {
	repo, _ := newRepo(t)

	want := Profile{Name: " Sam ", HeightCm: 180, WeightKg: 82.5, StrideM: 0.78}
	require.NoError(t, repo.Save(want))

	got, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "Sam", got.Name)
	assert.Equal(t, 82.5, got.WeightKg)
	assert.Equal(t, 0.78, got.StrideM)
}

func TestSaveRejectsInvalid(t *testing.T) {
	repo, _ := newRepo(t)

	cases := []Profile{
		{Name: "", HeightCm: 165, WeightKg: 60, StrideM: 0.7},
		{Name: "A", HeightCm: 10, WeightKg: 60, StrideM: 0.7},
		{Name: "A", HeightCm: 165, WeightKg: 0, StrideM: 0.7},
		{Name: "A", HeightCm: 165, WeightKg: 60, StrideM: 5},
	}
	for _, p := range cases {
		assert.ErrorIs(t, repo.Save(p), ErrInvalid)
	}
}

func TestLoadPartialRecordKeepsDefaults(t *testing.T) {
	repo, store := newRepo(t)
	require.NoError(t, store.Put(db.KeyUserProfile, `{"name":"Lina","weight":55}`))

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, "Lina", p.Name)
	assert.Equal(t, 55.0, p.WeightKg)
	assert.Equal(t, 0.7, p.StrideM)
}

func TestLoadInvalidRecordFallsBack(t *testing.T) {
	repo, store := newRepo(t)
	require.NoError(t, store.Put(db.KeyUserProfile, `{"name":"Lina","weight":-1}`))

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
}

func TestLoadMistypedRecordFallsBack(t *testing.T) {
	repo, store := newRepo(t)
	require.NoError(t, store.Put(db.KeyUserProfile, `{"weight":"x","strideLength":5}`))

	p, err := repo.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), p)
	assert.Equal(t, steps.DefaultBody, p.Body())
}
